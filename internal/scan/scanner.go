package scan

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/sqlwise/sqlmcp-go/internal/datasource"
	"github.com/sqlwise/sqlmcp-go/internal/models"
)

// Embedder is the embedding capability the scanner consumes.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Indexer is the slice of the vector index the scanner writes through.
// *index.Client satisfies it. A scan populates a fresh generation and makes
// it visible in one publish step, so concurrent searches never observe a
// half-populated collection.
type Indexer interface {
	BeginGeneration(ctx context.Context, collection string) (int, error)
	Insert(ctx context.Context, collection string, generation int, description string, embedding []float32, meta models.TableCandidate) error
	Publish(ctx context.Context, collection string, generation int) error
	Abort(ctx context.Context, collection string, generation int) error
}

// Scanner walks all databases and tables of a datasource, annotates each
// table, and replaces the datasource's collection in the vector index.
type Scanner struct {
	annotator *Annotator
	embedder  Embedder
	index     Indexer
	tracker   *Tracker
	timeout   time.Duration
	logger    *slog.Logger
}

func NewScanner(annotator *Annotator, embedder Embedder, index Indexer, tracker *Tracker, timeout time.Duration, logger *slog.Logger) *Scanner {
	return &Scanner{
		annotator: annotator,
		embedder:  embedder,
		index:     index,
		tracker:   tracker,
		timeout:   timeout,
		logger:    logger,
	}
}

// Start launches a background scan and returns the system identity under
// which progress can be polled. A datasource with a scan still in flight is
// rejected with ErrScanRunning.
func (s *Scanner) Start(src datasource.DataSource) (string, error) {
	sysID := src.SysID()
	if err := s.tracker.Begin(sysID); err != nil {
		return "", err
	}

	go func() {
		ctx := context.Background()
		if s.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.timeout)
			defer cancel()
		}

		count, err := s.scan(ctx, src)
		if err != nil {
			s.logger.Error("scan failed", "sys_id", sysID, "error", err)
			s.tracker.Fail(sysID)
			return
		}
		s.tracker.Complete(sysID)
		s.logger.Info("scan complete", "sys_id", sysID, "tables", count)
	}()

	return sysID, nil
}

// scan populates one fresh index generation. Tables whose annotation fails
// are skipped; infrastructure failures (cursor, embedding, index writes)
// abort the generation and leave the previously published one untouched.
func (s *Scanner) scan(ctx context.Context, src datasource.DataSource) (int, error) {
	sysID := src.SysID()

	cursor, err := src.Cursor(ctx)
	if err != nil {
		return 0, fmt.Errorf("open cursor: %w", err)
	}
	defer func() {
		if cursor != nil {
			cursor.Close()
		}
	}()

	dbs, err := src.Databases(ctx, cursor)
	if err != nil {
		return 0, fmt.Errorf("list databases: %w", err)
	}

	generation, err := s.index.BeginGeneration(ctx, sysID)
	if err != nil {
		return 0, fmt.Errorf("begin generation: %w", err)
	}

	count, err := s.scanDatabases(ctx, src, cursor, dbs, generation)
	if err != nil {
		if abortErr := s.index.Abort(ctx, sysID, generation); abortErr != nil {
			s.logger.Warn("abort generation failed", "sys_id", sysID, "generation", generation, "error", abortErr)
		}
		return 0, err
	}

	if err := s.index.Publish(ctx, sysID, generation); err != nil {
		return 0, fmt.Errorf("publish generation: %w", err)
	}
	return count, nil
}

func (s *Scanner) scanDatabases(ctx context.Context, src datasource.DataSource, cursor *sql.Conn, dbs []string, generation int) (int, error) {
	sysID := src.SysID()
	if len(dbs) == 0 {
		return 0, nil
	}

	dbShare := 100.0 / float64(len(dbs))
	progress := 0.0
	count := 0

	for _, db := range dbs {
		tables, err := src.Tables(ctx, cursor, db)
		if err != nil {
			return count, fmt.Errorf("list tables of %s: %w", db, err)
		}

		var descriptions []string
		var metas []models.TableCandidate

		for i, table := range tables {
			meta, description, err := s.annotateTable(ctx, src, cursor, db, table)
			if err != nil {
				s.logger.Warn("table skipped", "db", db, "table", table, "error", err)
			} else {
				descriptions = append(descriptions, description)
				metas = append(metas, *meta)
			}
			s.tracker.Update(sysID, progress+float64(i+1)/float64(len(tables))*dbShare)
		}

		if len(descriptions) > 0 {
			embeddings, err := s.embedder.EmbedBatch(ctx, descriptions)
			if err != nil {
				return count, fmt.Errorf("embed %s: %w", db, err)
			}
			for i, meta := range metas {
				if err := s.index.Insert(ctx, sysID, generation, descriptions[i], embeddings[i], meta); err != nil {
					return count, fmt.Errorf("index %s.%s: %w", db, meta.Table, err)
				}
				count++
			}
		}

		progress += dbShare
		s.tracker.Update(sysID, progress)
		s.logger.Info("database scanned", "sys_id", sysID, "db", db, "tables", len(tables))
	}

	return count, nil
}

func (s *Scanner) annotateTable(ctx context.Context, src datasource.DataSource, cursor *sql.Conn, db, table string) (*models.TableCandidate, string, error) {
	info, err := src.InspectTable(ctx, cursor, db, table)
	if err != nil {
		return nil, "", fmt.Errorf("inspect: %w", err)
	}
	return s.annotator.Annotate(ctx, info, db, table)
}
