package synthesis

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sqlwise/sqlmcp-go/internal/metrics"
	"github.com/sqlwise/sqlmcp-go/internal/models"
)

// maxExecutionAttempts bounds the outer synthesize-then-execute loop. Each
// attempt runs a full synthesis budget, so this multiplies the worst case.
const maxExecutionAttempts = 3

// Validator closes the loop between synthesis and the datasource: it runs
// each accepted candidate, feeds execution failures back as refinement
// seeds, and retries statements whose result is technically valid but
// carries no information.
type Validator struct {
	controller *Controller
	collector  *metrics.Collector
	logger     *slog.Logger
}

func NewValidator(controller *Controller, logger *slog.Logger) *Validator {
	return &Validator{controller: controller, logger: logger}
}

// WithMetrics attaches a collector; executions record under OpSQLExecute.
func (v *Validator) WithMetrics(c *metrics.Collector) *Validator {
	v.collector = c
	return v
}

// Run synthesizes SQL for the question and executes it on the datasource.
// All statements of one attempt share a cursor, so the dialect's context
// switch to the candidate's first used database holds for the query itself.
//
// Returns the rows and the last executed SQL. Rows may be nil with a
// non-empty SQL when every execution failed or synthesis kept rejecting:
// the statement is still useful to the caller for diagnostics.
func (v *Validator) Run(ctx context.Context, exec Executor, question string) ([]models.Row, string, error) {
	cursor, err := exec.Cursor(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("open cursor: %w", err)
	}
	defer func() {
		if cursor != nil {
			cursor.Close()
		}
	}()

	var (
		seed    *Seed
		lastSQL string
		result  []models.Row
	)

	for attempt := 1; attempt <= maxExecutionAttempts; attempt++ {
		cand, err := v.controller.Produce(ctx, exec.SysID(), question, seed)
		if err != nil {
			return nil, lastSQL, err
		}
		if cand == nil {
			continue
		}
		if len(cand.UsedTables) == 0 {
			seed = &Seed{SQL: cand.SQL, Analysis: "the used_tables list was empty; list every table the SQL references"}
			continue
		}

		lastSQL = cand.SQL

		start := time.Now()
		rows, execErr := v.execute(ctx, exec, cursor, cand)
		if v.collector != nil {
			v.collector.Record(metrics.OpSQLExecute, time.Since(start))
		}
		if execErr != nil {
			v.logger.Debug("execution failed", "attempt", attempt, "error", execErr)
			seed = &Seed{SQL: cand.SQL, Analysis: "execution error: " + execErr.Error()}
			continue
		}

		result = rows
		if meaningfulResult(rows) {
			return rows, lastSQL, nil
		}
		v.logger.Debug("trivial result, retrying", "attempt", attempt, "sql", lastSQL)
		seed = &Seed{SQL: cand.SQL}
	}

	return result, lastSQL, nil
}

func (v *Validator) execute(ctx context.Context, exec Executor, cursor *sql.Conn, cand *models.SQLCandidate) ([]models.Row, error) {
	if _, err := exec.Execute(ctx, cursor, exec.UseStatement(cand.UsedTables[0].Database)); err != nil {
		return nil, err
	}
	return exec.Execute(ctx, cursor, cand.SQL)
}

// meaningfulResult distinguishes an informative result from a degenerate
// one. Empty result sets and multi-row results are informative; a single
// row whose every value is a zero marker ("0", "NULL", "NONE", "") is the
// signature of an aggregate over the wrong rows and warrants a retry.
func meaningfulResult(rows []models.Row) bool {
	if len(rows) != 1 {
		return true
	}
	for _, value := range rows[0] {
		switch strings.ToUpper(strings.TrimSpace(value)) {
		case "0", "NULL", "NONE", "":
		default:
			return true
		}
	}
	return len(rows[0]) == 0
}
