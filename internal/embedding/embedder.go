// Package embedding provides text embedding generation for table
// descriptions and retrieval queries.
package embedding

import "context"

// Embedder generates embedding vectors for text.
type Embedder interface {
	// Embed generates an embedding vector for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts in one request,
	// used by the scanner when indexing many tables.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Model returns the name of the embedding model being used.
	Model() string

	// Dimension returns the embedding vector dimension. Must match the
	// HNSW index dimension in the vector index schema.
	Dimension() int
}
