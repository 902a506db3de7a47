package synthesis

import (
	"context"
	"fmt"

	"github.com/sqlwise/sqlmcp-go/internal/models"
)

// defaultSearchLimit bounds how many candidates one retrieval pulls from the
// index before threshold filtering.
const defaultSearchLimit = 10

// Retriever embeds intent search text and pulls candidate tables from the
// vector index.
type Retriever struct {
	embedder Embedder
	searcher TableSearcher
	limit    int
}

func NewRetriever(embedder Embedder, searcher TableSearcher) *Retriever {
	return &Retriever{
		embedder: embedder,
		searcher: searcher,
		limit:    defaultSearchLimit,
	}
}

// Retrieve returns the candidates scoring above threshold plus the full
// ranked match list. When matches exist but none clears the threshold, the
// single best match is selected so synthesis always has something to work
// with. No matches at all is ErrNoMatchingTables.
func (r *Retriever) Retrieve(ctx context.Context, collection, searchText string, threshold float64) (selected, all []models.TableCandidate, err error) {
	embedding, err := r.embedder.Embed(ctx, searchText)
	if err != nil {
		return nil, nil, fmt.Errorf("embed search text: %w", err)
	}

	all, err = r.searcher.Search(ctx, collection, embedding, r.limit)
	if err != nil {
		return nil, nil, fmt.Errorf("search tables: %w", err)
	}
	if len(all) == 0 {
		return nil, nil, ErrNoMatchingTables
	}

	for _, cand := range all {
		if cand.Score > threshold {
			selected = append(selected, cand)
		}
	}
	if len(selected) == 0 {
		// Matches are ranked best-first; fall back to the top one.
		selected = all[:1]
	}
	return selected, all, nil
}
