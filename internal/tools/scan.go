package tools

import (
	"context"
	"errors"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sqlwise/sqlmcp-go/internal/datasource"
	"github.com/sqlwise/sqlmcp-go/internal/scan"
)

// ScanInput defines the input schema for the scan_datasource tool.
type ScanInput struct {
	DataSourceID string `json:"datasource_id" jsonschema:"required,Id returned by connect_datasource"`
}

// ScanOutput acknowledges a started scan.
type ScanOutput struct {
	SysID  string `json:"sys_id"`
	Status string `json:"status"`
}

// NewScanHandler creates the scan_datasource tool handler. The scan runs in
// the background; progress is polled via scan_progress using the sys_id.
func NewScanHandler(deps *Dependencies) mcp.ToolHandlerFor[ScanInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ScanInput) (*mcp.CallToolResult, any, error) {
		src, err := deps.Registry.Get(input.DataSourceID)
		if err != nil {
			if errors.Is(err, datasource.ErrUnknownSource) {
				return ErrorResult("Unknown datasource id", "Connect the datasource first with connect_datasource"), nil, nil
			}
			return ErrorResult("Failed to resolve datasource", ""), nil, nil
		}

		sysID, err := deps.Scanner.Start(src)
		if err != nil {
			if errors.Is(err, scan.ErrScanRunning) {
				return ErrorResult("A scan is already running for this datasource", "Poll scan_progress and retry when it finishes"), nil, nil
			}
			deps.Logger.Error("scan start failed", "datasource_id", input.DataSourceID, "error", err)
			return ErrorResult("Failed to start scan", ""), nil, nil
		}

		return JSONResult(ScanOutput{SysID: sysID, Status: "started"}), nil, nil
	}
}

// ProgressInput defines the input schema for the scan_progress tool.
type ProgressInput struct {
	SysID string `json:"sys_id" jsonschema:"required,System identity returned by scan_datasource"`
}

// ProgressOutput reports scan progress: 0-100, monotonically non-decreasing.
type ProgressOutput struct {
	SysID     string    `json:"sys_id"`
	Progress  float64   `json:"progress"`
	Running   bool      `json:"running"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewProgressHandler creates the scan_progress tool handler.
func NewProgressHandler(deps *Dependencies) mcp.ToolHandlerFor[ProgressInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ProgressInput) (*mcp.CallToolResult, any, error) {
		job, ok := deps.Tracker.Progress(input.SysID)
		if !ok {
			return ErrorResult("No scan known for this sys_id", "Start one with scan_datasource"), nil, nil
		}

		return JSONResult(ProgressOutput{
			SysID:     input.SysID,
			Progress:  job.Progress,
			Running:   job.Running,
			UpdatedAt: job.UpdatedAt,
		}), nil, nil
	}
}
