package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sqlwise/sqlmcp-go/internal/models"
	"github.com/sqlwise/sqlmcp-go/internal/synthesis"
)

var askShowSQL bool

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a natural-language question with generated SQL",
	Long: `Ask a question about a datasource's data.

The datasource must have been scanned first so its tables are indexed.

Examples:
  sqlwise ask "top 5 customers by order amount" --host db.local -u app -p secret
  sqlwise ask "how many loans were issued in 1997" --type mysql --host 10.0.0.5:3307`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	addConnFlags(askCmd)
	askCmd.Flags().BoolVar(&askShowSQL, "sql", true, "print the executed SQL")
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]
	ctx := context.Background()

	if err := initLLM(ctx); err != nil {
		return err
	}

	src, err := connectSource(ctx)
	if err != nil {
		return fmt.Errorf("connect datasource: %w", err)
	}
	defer src.Close()

	domainRules, err := loadRules()
	if err != nil {
		return err
	}

	controller := synthesis.NewController(
		synthesis.NewExtractor(model),
		synthesis.NewRetriever(embedder, indexClient),
		synthesis.NewSynthesizer(model, domainRules),
		synthesis.NewReviewer(model, domainRules),
		logger,
	)
	validator := synthesis.NewValidator(controller, logger).WithMetrics(collector)

	rows, sqlText, err := validator.Run(ctx, src, question)
	if err != nil {
		return fmt.Errorf("run query: %w", err)
	}
	if sqlText == "" {
		fmt.Println("Could not produce SQL for this question. Has the datasource been scanned?")
		return nil
	}

	if askShowSQL {
		fmt.Printf("SQL: %s\n\n", sqlText)
	}
	printRows(rows)
	return nil
}

// printRows renders rows as an aligned text table with columns in stable
// order.
func printRows(rows []models.Row) {
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return
	}

	headers := make([]string, 0, len(rows[0]))
	for h := range rows[0] {
		headers = append(headers, h)
	}
	sort.Strings(headers)

	widths := make(map[string]int, len(headers))
	for _, h := range headers {
		widths[h] = len(h)
	}
	for _, row := range rows {
		for _, h := range headers {
			if n := len(row[h]); n > widths[h] {
				widths[h] = n
			}
		}
	}

	printRow := func(cell func(h string) string) {
		cells := make([]string, len(headers))
		for i, h := range headers {
			cells[i] = fmt.Sprintf("%-*s", widths[h], cell(h))
		}
		fmt.Println(strings.TrimRight(strings.Join(cells, "  "), " "))
	}

	printRow(func(h string) string { return h })
	printRow(func(h string) string { return strings.Repeat("-", widths[h]) })
	for _, row := range rows {
		printRow(func(h string) string { return row[h] })
	}
	fmt.Printf("\n%d row(s)\n", len(rows))
}
