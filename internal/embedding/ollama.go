package embedding

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/sqlwise/sqlmcp-go/internal/metrics"
)

const (
	// DefaultModel produces 384-dimensional vectors.
	DefaultModel = "all-minilm:l6-v2"

	// DefaultDimension is the dimension for all-minilm:l6-v2. Must match
	// the HNSW index dimension in the table index schema.
	DefaultDimension = 384
)

// OllamaClient implements Embedder using a local Ollama server.
type OllamaClient struct {
	client    *api.Client
	model     string
	dimension int
	collector *metrics.Collector
}

var _ Embedder = (*OllamaClient)(nil)

// NewOllamaClient creates an Ollama embedding client against the given host
// (e.g. "http://localhost:11434"). Empty model or zero dimension fall back
// to the defaults.
func NewOllamaClient(host, model string, dimension int) (*OllamaClient, error) {
	if model == "" {
		model = DefaultModel
	}
	if dimension == 0 {
		dimension = DefaultDimension
	}

	var client *api.Client
	if host != "" {
		base, err := url.Parse(host)
		if err != nil {
			return nil, fmt.Errorf("parse ollama host: %w", err)
		}
		client = api.NewClient(base, &http.Client{Timeout: 2 * time.Minute})
	} else {
		var err error
		client, err = api.ClientFromEnvironment()
		if err != nil {
			return nil, fmt.Errorf("create ollama client: %w", err)
		}
	}

	return &OllamaClient{
		client:    client,
		model:     model,
		dimension: dimension,
	}, nil
}

// WithMetrics attaches a metrics collector; every embedding request records
// its duration under metrics.OpEmbedding.
func (c *OllamaClient) WithMetrics(col *metrics.Collector) *OllamaClient {
	c.collector = col
	return c
}

// Model returns the configured embedding model name.
func (c *OllamaClient) Model() string {
	return c.model
}

// Dimension returns the expected embedding dimension.
func (c *OllamaClient) Dimension() int {
	return c.dimension
}

// Embed generates an embedding vector for the given text.
func (c *OllamaClient) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch generates embeddings for multiple texts in a single request.
func (c *OllamaClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	return c.embed(ctx, texts)
}

func (c *OllamaClient) embed(ctx context.Context, texts []string) ([][]float32, error) {
	start := time.Now()
	resp, err := c.client.Embed(ctx, &api.EmbedRequest{
		Model: c.model,
		Input: texts,
	})
	if c.collector != nil {
		c.collector.Record(metrics.OpEmbedding, time.Since(start))
	}
	if err != nil {
		return nil, fmt.Errorf("embed: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embed: got %d vectors for %d inputs", len(resp.Embeddings), len(texts))
	}
	for i, vec := range resp.Embeddings {
		if len(vec) != c.dimension {
			return nil, fmt.Errorf("embed: dimension mismatch at input %d: got %d, want %d (model: %s)",
				i, len(vec), c.dimension, c.model)
		}
	}
	return resp.Embeddings, nil
}
