package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sqlwise/sqlmcp-go/internal/config"
	"github.com/sqlwise/sqlmcp-go/internal/datasource"
)

// ConnectInput defines the input schema for the connect_datasource tool.
type ConnectInput struct {
	Type     string `json:"type" jsonschema:"required,Datasource type: mysql or postgres"`
	Host     string `json:"host" jsonschema:"required,Host, optionally with :port"`
	User     string `json:"user,omitempty" jsonschema:"Username, falls back to configured default"`
	Password string `json:"password,omitempty" jsonschema:"Password, falls back to configured default"`
	Database string `json:"database,omitempty" jsonschema:"Initial database (postgres requires one)"`
}

// ConnectOutput is returned to the caller. The datasource id addresses the
// live connection in later calls; the sys_id is the stable identity used for
// index collections and scan progress.
type ConnectOutput struct {
	DataSourceID string `json:"datasource_id"`
	SysID        string `json:"sys_id"`
	Type         string `json:"type"`
}

// connParams resolves the connection parameters for a connect request.
// Omitted credentials fall back to the configured defaults.
func connParams(cfg config.Config, input ConnectInput) datasource.ConnParams {
	user := input.User
	if user == "" {
		user = cfg.MySQLUser
	}
	password := input.Password
	if password == "" {
		password = cfg.MySQLPassword
	}
	return datasource.ConnParams{
		Host:     input.Host,
		User:     user,
		Password: password,
		Database: input.Database,
	}
}

// NewConnectHandler creates the connect_datasource tool handler.
func NewConnectHandler(deps *Dependencies) mcp.ToolHandlerFor[ConnectInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ConnectInput) (*mcp.CallToolResult, any, error) {
		if input.Type == "" || input.Host == "" {
			return ErrorResult("Type and host are required", "Provide a datasource type and host"), nil, nil
		}

		id, err := deps.Registry.Register(ctx, input.Type, connParams(deps.Config, input))
		if err != nil {
			deps.Logger.Error("datasource registration failed", "type", input.Type, "host", input.Host, "error", err)
			return ErrorResult("Failed to connect datasource", "Check the connection parameters and that the server is reachable"), nil, nil
		}

		src, err := deps.Registry.Get(id)
		if err != nil {
			return ErrorResult("Datasource vanished after registration", ""), nil, nil
		}

		return JSONResult(ConnectOutput{
			DataSourceID: id,
			SysID:        src.SysID(),
			Type:         src.Type(),
		}), nil, nil
	}
}
