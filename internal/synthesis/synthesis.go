// Package synthesis turns a natural-language question into a validated SQL
// statement. The pipeline is intent extraction, similarity-based table
// retrieval, candidate generation/refinement, an independent review gate for
// high-confidence candidates, and finally execution validation against the
// live datasource.
package synthesis

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sqlwise/sqlmcp-go/internal/models"
)

// ErrNoMatchingTables indicates retrieval produced no candidates at all,
// either because the index holds nothing for the collection or because the
// search returned empty. Check with errors.Is.
var ErrNoMatchingTables = errors.New("no matching tables")

// ChatModel is the single LLM capability the pipeline consumes.
// *llm.Model satisfies it.
type ChatModel interface {
	Chat(ctx context.Context, userPrompt, systemPrompt string) (string, error)
}

// Embedder turns search text into a vector for index lookup.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// TableSearcher is the vector-index lookup. *index.Client satisfies it.
type TableSearcher interface {
	Search(ctx context.Context, collection string, embedding []float32, limit int) ([]models.TableCandidate, error)
}

// TableRetriever selects candidate tables for a search text at a similarity
// threshold. *Retriever satisfies it.
type TableRetriever interface {
	Retrieve(ctx context.Context, collection, searchText string, threshold float64) (selected, all []models.TableCandidate, err error)
}

// Executor is the slice of a datasource the execution validator needs.
// datasource.DataSource satisfies it.
type Executor interface {
	SysID() string
	Cursor(ctx context.Context) (*sql.Conn, error)
	Execute(ctx context.Context, cursor *sql.Conn, query string) ([]models.Row, error)
	UseStatement(db string) string
}
