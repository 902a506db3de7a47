// Package cli provides the command-line interface for sqlwise.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sqlwise/sqlmcp-go/internal/config"
	"github.com/sqlwise/sqlmcp-go/internal/datasource"
	"github.com/sqlwise/sqlmcp-go/internal/embedding"
	"github.com/sqlwise/sqlmcp-go/internal/index"
	"github.com/sqlwise/sqlmcp-go/internal/llm"
	"github.com/sqlwise/sqlmcp-go/internal/metrics"
	"github.com/sqlwise/sqlmcp-go/internal/rules"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose bool

	// Connection flags shared by ask and scan
	connType     string
	connHost     string
	connUser     string
	connPassword string
	connDatabase string

	cfg         config.Config
	logger      *slog.Logger
	indexClient *index.Client
	collector   *metrics.Collector

	// Lazy-initialized LLM components
	embedder embedding.Embedder
	model    *llm.Model
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "sqlwise",
	Short: "Natural-language SQL for relational datasources",
	Long: `Sqlwise answers natural-language questions about relational data.

Scan a datasource once so its tables are annotated and indexed, then ask
questions: sqlwise extracts the question's intent, retrieves matching
tables, generates and reviews SQL, and executes it against the datasource.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		cfg = config.Load()
		collector = metrics.NewCollector()

		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		ctx := context.Background()
		var err error
		indexClient, err = index.NewClient(ctx, index.Config{
			URL:       cfg.SurrealDBURL,
			Namespace: cfg.SurrealDBNamespace,
			Database:  cfg.SurrealDBDatabase,
			Username:  cfg.SurrealDBUser,
			Password:  cfg.SurrealDBPass,
			AuthLevel: cfg.SurrealDBAuthLevel,
		}, logger)
		if err != nil {
			return fmt.Errorf("connect to index: %w", err)
		}
		indexClient.WithMetrics(collector)

		if err := indexClient.InitSchema(ctx); err != nil {
			return fmt.Errorf("initialize index schema: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if indexClient != nil {
			if err := indexClient.Close(context.Background()); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close index: %v\n", err)
			}
		}
	},
}

// initLLM creates the embedder and chat model on first use.
func initLLM(ctx context.Context) error {
	if embedder != nil {
		return nil
	}

	client, err := embedding.NewOllamaClient(cfg.OllamaHost, cfg.EmbeddingModel, 0)
	if err != nil {
		return fmt.Errorf("init embedder: %w", err)
	}
	embedder = client.WithMetrics(collector)

	model, err = llm.NewModel(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init model: %w", err)
	}
	model.WithMetrics(collector)
	return nil
}

// connectSource opens the datasource described by the connection flags,
// falling back to configured credentials.
func connectSource(ctx context.Context) (datasource.DataSource, error) {
	user := connUser
	if user == "" {
		user = cfg.MySQLUser
	}
	password := connPassword
	if password == "" {
		password = cfg.MySQLPassword
	}

	return datasource.New(ctx, connType, datasource.ConnParams{
		Host:     connHost,
		User:     user,
		Password: password,
		Database: connDatabase,
	})
}

// loadRules reads the configured domain-rule file.
func loadRules() (*rules.Rules, error) {
	return rules.Load(cfg.DomainRulesFile)
}

func addConnFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&connType, "type", "mysql", "datasource type (mysql, postgres)")
	cmd.Flags().StringVar(&connHost, "host", "localhost", "datasource host, optionally host:port")
	cmd.Flags().StringVarP(&connUser, "user", "u", "", "datasource user")
	cmd.Flags().StringVarP(&connPassword, "password", "p", "", "datasource password")
	cmd.Flags().StringVarP(&connDatabase, "database", "d", "", "initial database (required for postgres)")
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(scanCmd)
}
