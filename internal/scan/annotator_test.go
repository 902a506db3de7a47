package scan

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlwise/sqlmcp-go/internal/datasource"
	"github.com/sqlwise/sqlmcp-go/internal/models"
)

const columnAnnotationJSON = `{
	"order_id": {"schemaOrgProperty": "schema:orderNumber", "schemaOrgType": "schema:Text", "description": "order identifier"},
	"placed": {"schemaOrgProperty": "schema:orderDate", "schemaOrgType": "schema:Date", "description": "when the order was placed"}
}`

const tableAnnotationJSON = `{"table_annotation": "Commercial order records linking customers to purchases over time."}`

// annotatorChat answers the column prompt first, the table prompt second.
type annotatorChat struct {
	responses map[string]string
}

func (c *annotatorChat) Chat(_ context.Context, userPrompt, _ string) (string, error) {
	for prefix, response := range c.responses {
		if strings.HasPrefix(userPrompt, prefix) {
			return response, nil
		}
	}
	return "", nil
}

func sampleInfo() *datasource.TableInfo {
	return &datasource.TableInfo{
		Sample: []models.Row{
			{"order_id": "A-1001", "placed": "2024-03-01 12:30:00"},
			{"order_id": "A-1002", "placed": "NULL"},
		},
		Columns: []datasource.ColumnType{
			{Name: "order_id", Type: "varchar(16)"},
			{Name: "placed", Type: "datetime"},
		},
		Comment: "customer orders",
	}
}

func TestAnnotateMergesNativeTypes(t *testing.T) {
	chat := &annotatorChat{responses: map[string]string{
		"I will give you a sample table": columnAnnotationJSON,
		"You are given the structured":   tableAnnotationJSON,
	}}
	a := NewAnnotator(chat)

	cand, description, err := a.Annotate(t.Context(), sampleInfo(), "shop", "orders")
	require.NoError(t, err)

	assert.Equal(t, "shop", cand.Database)
	assert.Equal(t, "orders", cand.Table)
	assert.Equal(t, "customer orders", cand.Comment)

	require.Contains(t, cand.Schema, "placed")
	assert.Equal(t, "datetime", cand.Schema["placed"].Type, "native type folds into the annotation")
	assert.Equal(t, "schema:orderDate", cand.Schema["placed"].SchemaOrgProperty)

	assert.Contains(t, description, "TABLE: orders")
	assert.Contains(t, description, "Commercial order records")
	assert.Contains(t, description, "order_id (schema:orderNumber")
	assert.Contains(t, description, "datetime")
}

func TestAnnotateMalformedColumnResponse(t *testing.T) {
	chat := &annotatorChat{responses: map[string]string{
		"I will give you a sample table": "these columns look fine to me",
	}}
	a := NewAnnotator(chat)

	_, _, err := a.Annotate(t.Context(), sampleInfo(), "shop", "orders")
	assert.Error(t, err)
}

func TestMarkdownTable(t *testing.T) {
	rows := []models.Row{
		{"id": "1", "name": "Apple"},
		{"id": "2", "name": "Fig"},
	}

	table := markdownTable(rows)
	lines := strings.Split(strings.TrimRight(table, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "| id | name  |", lines[0])
	assert.Equal(t, "| -- | ----- |", lines[1])
	assert.Equal(t, "| 1  | Apple |", lines[2])
	assert.Equal(t, "| 2  | Fig   |", lines[3])

	assert.Empty(t, markdownTable(nil))
}
