package index

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/surrealdb/surrealdb.go"

	"github.com/sqlwise/sqlmcp-go/internal/metrics"
	"github.com/sqlwise/sqlmcp-go/internal/models"
)

// searchEF is the HNSW search beam width; 40 trades recall for speed well
// at the collection sizes a single datasource produces.
const searchEF = 40

type aliasRow struct {
	Collection string `json:"collection"`
	Generation int    `json:"generation"`
}

type searchRow struct {
	Metadata models.TableCandidate `json:"metadata"`
	Dist     float64               `json:"dist"`
}

// ActiveGeneration resolves the published generation for a collection.
// Returns ErrCollectionEmpty if the collection was never published.
func (c *Client) ActiveGeneration(ctx context.Context, collection string) (int, error) {
	results, err := surrealdb.Query[[]aliasRow](ctx, c.db, `
		SELECT collection, generation FROM collection_alias WHERE collection = $collection
	`, map[string]any{"collection": collection})
	if err != nil {
		return 0, fmt.Errorf("resolve alias: %w", err)
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return 0, fmt.Errorf("collection %q: %w", collection, ErrCollectionEmpty)
	}
	return (*results)[0].Result[0].Generation, nil
}

// BeginGeneration returns the generation number a rescan should populate:
// one past the active generation, or 1 for a never-published collection.
// Nothing is visible to readers until Publish.
func (c *Client) BeginGeneration(ctx context.Context, collection string) (int, error) {
	active, err := c.ActiveGeneration(ctx, collection)
	if err != nil {
		if errors.Is(err, ErrCollectionEmpty) {
			return 1, nil
		}
		return 0, err
	}
	return active + 1, nil
}

// Insert stores one annotated table document into an unpublished generation.
func (c *Client) Insert(ctx context.Context, collection string, generation int, description string, embedding []float32, meta models.TableCandidate) error {
	_, err := surrealdb.Query[any](ctx, c.db, `
		CREATE table_doc CONTENT {
			collection: $collection,
			generation: $generation,
			db_name: $db_name,
			tbl_name: $tbl_name,
			description: $description,
			embedding: $embedding,
			metadata: $metadata
		}
	`, map[string]any{
		"collection":  collection,
		"generation":  generation,
		"db_name":     meta.Database,
		"tbl_name":    meta.Table,
		"description": description,
		"embedding":   embedding,
		"metadata":    meta,
	})
	if err != nil {
		return fmt.Errorf("insert table doc: %w", err)
	}
	return nil
}

// Publish makes a fully populated generation the one readers resolve, then
// deletes superseded generations. The alias upsert is the atomic swap: a
// search concurrent with Publish sees either the old or the new generation
// in full.
func (c *Client) Publish(ctx context.Context, collection string, generation int) error {
	_, err := surrealdb.Query[any](ctx, c.db, `
		UPSERT collection_alias SET
			collection = $collection,
			generation = $generation,
			published = time::now()
		WHERE collection = $collection
	`, map[string]any{"collection": collection, "generation": generation})
	if err != nil {
		return fmt.Errorf("publish generation: %w", err)
	}

	_, err = surrealdb.Query[any](ctx, c.db, `
		DELETE table_doc WHERE collection = $collection AND generation < $generation
	`, map[string]any{"collection": collection, "generation": generation})
	if err != nil {
		return fmt.Errorf("prune old generations: %w", err)
	}

	c.logger.Info("collection published", "collection", collection, "generation", generation)
	return nil
}

// Abort discards an unpublished generation after a failed scan.
func (c *Client) Abort(ctx context.Context, collection string, generation int) error {
	_, err := surrealdb.Query[any](ctx, c.db, `
		DELETE table_doc WHERE collection = $collection AND generation = $generation
	`, map[string]any{"collection": collection, "generation": generation})
	if err != nil {
		return fmt.Errorf("abort generation: %w", err)
	}
	return nil
}

// Drop removes a collection entirely: all generations plus the alias.
func (c *Client) Drop(ctx context.Context, collection string) error {
	_, err := surrealdb.Query[any](ctx, c.db, `
		DELETE table_doc WHERE collection = $collection;
		DELETE collection_alias WHERE collection = $collection;
	`, map[string]any{"collection": collection})
	if err != nil {
		return fmt.Errorf("drop collection: %w", err)
	}
	return nil
}

// Search runs a KNN search over the active generation and returns candidates
// ranked by similarity. Cosine distance d in [0,2] is mapped to the
// similarity 1-d/2 in [0,1] so threshold comparisons stay higher-is-better.
// Returns ErrCollectionEmpty when the collection was never published.
func (c *Client) Search(ctx context.Context, collection string, embedding []float32, limit int) ([]models.TableCandidate, error) {
	generation, err := c.ActiveGeneration(ctx, collection)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	sql := fmt.Sprintf(`
		SELECT metadata, vector::distance::knn() AS dist
		FROM table_doc
		WHERE collection = $collection
		  AND generation = $generation
		  AND embedding <|%d,%d|> $emb
		ORDER BY dist ASC
	`, limit, searchEF)

	results, err := surrealdb.Query[[]searchRow](ctx, c.db, sql, map[string]any{
		"collection": collection,
		"generation": generation,
		"emb":        embedding,
	})
	if c.collector != nil {
		c.collector.Record(metrics.OpIndexSearch, time.Since(start))
	}
	if err != nil {
		return nil, fmt.Errorf("search tables: %w", err)
	}

	if results == nil || len(*results) == 0 {
		return []models.TableCandidate{}, nil
	}

	rows := (*results)[0].Result
	candidates := make([]models.TableCandidate, 0, len(rows))
	for _, row := range rows {
		cand := row.Metadata
		cand.Score = similarityFromDistance(row.Dist)
		candidates = append(candidates, cand)
	}
	return candidates, nil
}

func similarityFromDistance(d float64) float64 {
	sim := 1 - d/2
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}
