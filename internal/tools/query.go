package tools

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sqlwise/sqlmcp-go/internal/datasource"
	"github.com/sqlwise/sqlmcp-go/internal/models"
)

// QueryInput defines the input schema for the query tool.
type QueryInput struct {
	DataSourceID string `json:"datasource_id" jsonschema:"required,Id returned by connect_datasource"`
	Question     string `json:"question" jsonschema:"required,Natural-language question about the data"`
}

// QueryOutput carries the answer. SQL is always the last statement that was
// executed (or attempted); Rows may be empty when the question produced no
// accepted, meaningful result.
type QueryOutput struct {
	SQL   string       `json:"sql"`
	Rows  []models.Row `json:"rows"`
	Count int          `json:"count"`
}

// NewQueryHandler creates the query tool handler: the full text-to-SQL
// pipeline, synchronous within the call.
func NewQueryHandler(deps *Dependencies) mcp.ToolHandlerFor[QueryInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input QueryInput) (*mcp.CallToolResult, any, error) {
		if input.Question == "" {
			return ErrorResult("Question cannot be empty", "Ask a question about the data"), nil, nil
		}

		src, err := deps.Registry.Get(input.DataSourceID)
		if err != nil {
			if errors.Is(err, datasource.ErrUnknownSource) {
				return ErrorResult("Unknown datasource id", "Connect the datasource first with connect_datasource"), nil, nil
			}
			return ErrorResult("Failed to resolve datasource", ""), nil, nil
		}

		rows, sqlText, err := deps.Runner.Run(ctx, src, input.Question)
		if err != nil {
			deps.Logger.Error("query failed", "datasource_id", input.DataSourceID, "error", err)
			return ErrorResult("Query execution failed", "The datasource may be unavailable"), nil, nil
		}
		if sqlText == "" {
			return ErrorResult("Could not produce SQL for this question",
				"Rephrase the question, or scan the datasource so its tables are indexed"), nil, nil
		}

		deps.Logger.Info("query answered", "datasource_id", input.DataSourceID, "rows", len(rows))
		return JSONResult(QueryOutput{SQL: sqlText, Rows: rows, Count: len(rows)}), nil, nil
	}
}
