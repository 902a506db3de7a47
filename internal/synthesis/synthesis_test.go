package synthesis

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/sqlwise/sqlmcp-go/internal/models"
	"github.com/sqlwise/sqlmcp-go/internal/rules"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// fakeChat replays scripted responses per call site, keyed off the system
// prompt the pipeline sends. A queue's last entry repeats once exhausted; an
// empty queue fails the call.
type fakeChat struct {
	intents   []string
	generates []string
	refines   []string
	reviews   []string

	intentCalls     int
	generatePrompts []string
	refinePrompts   []string
	reviewPrompts   []string
}

func (f *fakeChat) Chat(_ context.Context, userPrompt, systemPrompt string) (string, error) {
	switch systemPrompt {
	case "":
		f.intentCalls++
		return pop(f.intents, f.intentCalls-1)
	case generateSystemPrompt:
		f.generatePrompts = append(f.generatePrompts, userPrompt)
		return pop(f.generates, len(f.generatePrompts)-1)
	case refineSystemPrompt:
		f.refinePrompts = append(f.refinePrompts, userPrompt)
		return pop(f.refines, len(f.refinePrompts)-1)
	case reviewSystemPrompt:
		f.reviewPrompts = append(f.reviewPrompts, userPrompt)
		return pop(f.reviews, len(f.reviewPrompts)-1)
	}
	return "", errors.New("unexpected system prompt")
}

func pop(queue []string, i int) (string, error) {
	if len(queue) == 0 {
		return "", errors.New("unscripted call")
	}
	if i >= len(queue) {
		i = len(queue) - 1
	}
	return queue[i], nil
}

type fakeEmbedder struct {
	texts []string
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.texts = append(f.texts, text)
	return []float32{1, 0, 0}, nil
}

type fakeSearcher struct {
	results []models.TableCandidate
	err     error
	calls   int
}

func (f *fakeSearcher) Search(_ context.Context, _ string, _ []float32, _ int) ([]models.TableCandidate, error) {
	f.calls++
	return f.results, f.err
}

// fakeExecutor records every statement. USE statements succeed silently;
// other statements consume the scripted (rows, err) pairs in order.
type fakeExecutor struct {
	results [][]models.Row
	errs    []error

	queries []string
	idx     int
}

func (f *fakeExecutor) SysID() string { return "_testsource" }

func (f *fakeExecutor) Cursor(context.Context) (*sql.Conn, error) { return nil, nil }

func (f *fakeExecutor) UseStatement(db string) string { return "USE `" + db + "`" }

func (f *fakeExecutor) Execute(_ context.Context, _ *sql.Conn, query string) ([]models.Row, error) {
	f.queries = append(f.queries, query)
	if strings.HasPrefix(query, "USE ") {
		return nil, nil
	}
	i := f.idx
	if i >= len(f.results) {
		i = len(f.results) - 1
	}
	f.idx++
	return f.results[i], f.errs[i]
}

func candidateTable(db, table string, score float64) models.TableCandidate {
	return models.TableCandidate{
		Database: db,
		Table:    table,
		Schema: map[string]models.ColumnInfo{
			"id": {Type: "int", Comment: "primary key"},
		},
		Score: score,
	}
}

func newTestController(t *testing.T, chat *fakeChat, searcher *fakeSearcher) *Controller {
	t.Helper()
	r := &rules.Rules{}
	return NewController(
		NewExtractor(chat),
		NewRetriever(&fakeEmbedder{}, searcher),
		NewSynthesizer(chat, r),
		NewReviewer(chat, r),
		testLogger(),
	)
}

const intentJSON = `{
	"intent": "aggregation",
	"metrics": ["order amount"],
	"attributes": ["customer name"],
	"filters": [],
	"time_constraints": [],
	"search_text": "customer orders with amount and customer name"
}`
