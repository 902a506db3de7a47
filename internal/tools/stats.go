package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// StatsInput defines the (empty) input schema for the stats tool.
type StatsInput struct{}

// NewStatsHandler creates the stats tool handler: a snapshot of per-operation
// timings (embedding, LLM generation, index search, SQL execution).
func NewStatsHandler(deps *Dependencies) mcp.ToolHandlerFor[StatsInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input StatsInput) (*mcp.CallToolResult, any, error) {
		return JSONResult(deps.Collector.Snapshot()), nil, nil
	}
}
