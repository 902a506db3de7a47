// Package scan walks a datasource's schema, annotates every table with an
// LLM, and populates the vector index that table retrieval searches. Scans
// run in the background with per-datasource progress tracking.
package scan

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/sqlwise/sqlmcp-go/internal/datasource"
	"github.com/sqlwise/sqlmcp-go/internal/llm"
	"github.com/sqlwise/sqlmcp-go/internal/models"
)

const columnPrompt = `I will give you a sample table.

For each column, return:
1. The best-matching schema.org property name (not just the type, use the
   most semantically appropriate property, such as schema:orderDate,
   schema:birthDate, schema:dateCreated, etc.).
2. Its corresponding schema.org type (e.g., schema:Date, schema:Text,
   schema:Number, etc.).
3. Its brief description.

Return your answer as a JSON mapping of column names to objects with
"schemaOrgProperty", "schemaOrgType", and "description".

Please infer based on the column name and example values.

Here is the sample table:

`

const tablePrompt = `You are given the structured schema of a table in JSON
format. Each column has a name, its mapped schema.org property,
its mapped schema.org type, a brief description, and its database data type.

Your task:

Write a concise, semantically rich table annotation (150-250 words) to enable
semantic search for table matching that summarizes:

1. What kind of data the table contains.
2. The overall purpose or domain of the table (e.g., geographic,
   infrastructure, social data).
3. Key column roles and data types.
4. Potential use cases (optional).

Instructions:

* Return your answer as a JSON mapping of "table_annotation".
* Do not list all column names or types explicitly.
* Summarize the structure and semantics naturally.
* Do not mention "JSON" or the schema format.

Table Schema JSON:

`

// ChatModel is the LLM capability the annotator consumes.
type ChatModel interface {
	Chat(ctx context.Context, userPrompt, systemPrompt string) (string, error)
}

// Annotator derives searchable table descriptions from sampled data: first a
// per-column schema.org annotation, then a prose table annotation over the
// combined schema.
type Annotator struct {
	model ChatModel
}

func NewAnnotator(model ChatModel) *Annotator {
	return &Annotator{model: model}
}

type tableAnnotation struct {
	TableAnnotation string `json:"table_annotation"`
}

// Annotate builds the index document for one table: the candidate metadata
// stored alongside the embedding, and the flat description text that gets
// embedded.
func (a *Annotator) Annotate(ctx context.Context, info *datasource.TableInfo, db, table string) (*models.TableCandidate, string, error) {
	raw, err := a.model.Chat(ctx, columnPrompt+markdownTable(info.Sample), "")
	if err != nil {
		return nil, "", fmt.Errorf("annotate columns of %s.%s: %w", db, table, err)
	}
	schema, err := llm.Decode[map[string]models.ColumnInfo](raw)
	if err != nil {
		return nil, "", fmt.Errorf("annotate columns of %s.%s: %w", db, table, err)
	}

	// Fold the native column types into the annotation.
	for _, col := range info.Columns {
		if annot, ok := schema[col.Name]; ok {
			annot.Type = col.Type
			schema[col.Name] = annot
		}
	}

	schemaJSON, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, "", fmt.Errorf("serialize schema of %s.%s: %w", db, table, err)
	}

	raw, err = a.model.Chat(ctx, tablePrompt+string(schemaJSON), "")
	if err != nil {
		return nil, "", fmt.Errorf("annotate table %s.%s: %w", db, table, err)
	}
	annot, err := llm.Decode[tableAnnotation](raw)
	if err != nil {
		return nil, "", fmt.Errorf("annotate table %s.%s: %w", db, table, err)
	}

	cand := &models.TableCandidate{
		Database: db,
		Table:    table,
		Comment:  info.Comment,
		Schema:   schema,
	}
	return cand, describe(cand, annot.TableAnnotation), nil
}

// describe flattens the annotation into the embedding input: a holistic
// TABLE section followed by per-column details in stable order.
func describe(cand *models.TableCandidate, annotation string) string {
	names := make([]string, 0, len(cand.Schema))
	for name := range cand.Schema {
		names = append(names, name)
	}
	sort.Strings(names)

	cols := make([]string, 0, len(names))
	for _, name := range names {
		col := cand.Schema[name]
		parts := make([]string, 0, 4)
		for _, p := range []string{col.SchemaOrgProperty, col.SchemaOrgType, col.Description, col.Type} {
			if p != "" {
				parts = append(parts, p)
			}
		}
		cols = append(cols, fmt.Sprintf("%s (%s)", name, strings.Join(parts, "; ")))
	}

	var b strings.Builder
	b.WriteString("TABLE: ")
	b.WriteString(cand.Table)
	if cand.Comment != "" {
		b.WriteString(", ")
		b.WriteString(cand.Comment)
	}
	if annotation != "" {
		b.WriteString("; ")
		b.WriteString(annotation)
	}
	b.WriteString(". COLUMNS: ")
	b.WriteString(strings.Join(cols, "; "))
	b.WriteString(".")
	return b.String()
}

// markdownTable renders sampled rows as a padded markdown table with columns
// in stable order. An empty sample renders as an empty string; the column
// prompt then works from the header row alone.
func markdownTable(rows []models.Row) string {
	if len(rows) == 0 {
		return ""
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

	var b strings.Builder
	writeRow := func(cell func(h string) string) {
		b.WriteString("|")
		for _, h := range headers {
			b.WriteString(" ")
			b.WriteString(pad(cell(h), widths[h]))
			b.WriteString(" |")
		}
		b.WriteString("\n")
	}

	writeRow(func(h string) string { return h })
	writeRow(func(h string) string { return strings.Repeat("-", widths[h]) })
	for _, row := range rows {
		writeRow(func(h string) string { return row[h] })
	}
	return b.String()
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
