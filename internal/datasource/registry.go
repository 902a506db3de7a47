package datasource

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Registry maps datasource identifiers to live connections. Registration
// and lookup are guarded by a single mutex; critical sections are short.
type Registry struct {
	mu      sync.Mutex
	sources map[string]DataSource
	logger  *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		sources: make(map[string]DataSource),
		logger:  logger,
	}
}

// Register connects a new datasource and returns its identifier.
func (r *Registry) Register(ctx context.Context, srcType string, params ConnParams) (string, error) {
	src, err := New(ctx, srcType, params)
	if err != nil {
		return "", err
	}

	// Short ID for convenience, collision-checked under the lock.
	r.mu.Lock()
	defer r.mu.Unlock()
	var id string
	for {
		id = uuid.New().String()[:8]
		if _, exists := r.sources[id]; !exists {
			break
		}
	}
	r.sources[id] = src

	r.logger.Info("datasource registered", "type", src.Type(), "id", id, "sys_id", src.SysID())
	return id, nil
}

// Get retrieves a datasource by identifier.
func (r *Registry) Get(id string) (DataSource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	src, ok := r.sources[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, id)
	}
	return src, nil
}

// Remove closes and forgets a datasource. Unknown ids are a no-op.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	src, ok := r.sources[id]
	delete(r.sources, id)
	r.mu.Unlock()

	if !ok {
		return nil
	}
	return src.Close()
}

// Close tears down every registered datasource.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, src := range r.sources {
		if err := src.Close(); err != nil {
			r.logger.Warn("closing datasource", "id", id, "error", err)
		}
	}
	r.sources = make(map[string]DataSource)
}
