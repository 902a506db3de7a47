// Package tools provides MCP tool handlers and registration.
package tools

import (
	"context"
	"log/slog"

	"github.com/sqlwise/sqlmcp-go/internal/config"
	"github.com/sqlwise/sqlmcp-go/internal/datasource"
	"github.com/sqlwise/sqlmcp-go/internal/metrics"
	"github.com/sqlwise/sqlmcp-go/internal/models"
	"github.com/sqlwise/sqlmcp-go/internal/scan"
	"github.com/sqlwise/sqlmcp-go/internal/synthesis"
)

// QueryRunner answers a question against a datasource and returns the rows
// plus the executed SQL. *synthesis.Validator satisfies it.
type QueryRunner interface {
	Run(ctx context.Context, exec synthesis.Executor, question string) ([]models.Row, string, error)
}

// ScanStarter launches a background schema scan. *scan.Scanner satisfies it.
type ScanStarter interface {
	Start(src datasource.DataSource) (string, error)
}

// Dependencies holds shared services for tool handlers.
// Passed to handler factories via closure capture.
type Dependencies struct {
	Config    config.Config
	Registry  *datasource.Registry
	Runner    QueryRunner
	Scanner   ScanStarter
	Tracker   *scan.Tracker
	Collector *metrics.Collector
	Logger    *slog.Logger
}
