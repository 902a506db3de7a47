package tools

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterAll registers all tools with the MCP server.
// Called from main after server creation but before Run().
func RegisterAll(server *mcp.Server, deps *Dependencies) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "ping",
		Description: "Test tool - responds with pong or echoes input",
	}, NewPingHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "connect_datasource",
		Description: "Connect a relational datasource (mysql/postgres) and register it for querying",
	}, NewConnectHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "scan_datasource",
		Description: "Scan a datasource's schema in the background and index its tables for retrieval",
	}, NewScanHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "scan_progress",
		Description: "Report the progress (0-100) of a running or finished schema scan",
	}, NewProgressHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "query",
		Description: "Answer a natural-language question by generating, validating and executing SQL",
	}, NewQueryHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "stats",
		Description: "Server operation statistics (counts and timings per operation)",
	}, NewStatsHandler(deps))
}
