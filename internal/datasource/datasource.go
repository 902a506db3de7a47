// Package datasource provides relational datasource drivers and the
// registry mapping datasource identifiers to live connections.
package datasource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/sqlwise/sqlmcp-go/internal/models"
)

// Sentinel errors. Check with errors.Is.
var (
	// ErrUnknownSource indicates a datasource id that was never registered.
	ErrUnknownSource = errors.New("unknown datasource")

	// ErrUnsupportedType indicates an unrecognized datasource type string.
	ErrUnsupportedType = errors.New("unsupported datasource type")
)

// ConnParams are the user-supplied connection parameters. Host may carry a
// ":port" suffix; User/Password fall back to configured defaults when empty.
type ConnParams struct {
	Host     string `json:"host,omitempty"`
	User     string `json:"user,omitempty"`
	Password string `json:"password,omitempty"`
	Database string `json:"database,omitempty"`
}

// ColumnType is one (name, type) pair from a table's native schema.
type ColumnType struct {
	Name string
	Type string
}

// TableInfo is the raw inspection result for one table: a small data
// sample, the native column schema, and the table comment if any.
type TableInfo struct {
	Sample  []models.Row
	Columns []ColumnType
	Comment string
}

// DataSource is a connected relational datasource. A cursor is a dedicated
// session (database/sql.Conn) so statements like USE affect subsequent
// queries on the same cursor, matching the per-request cursor lifecycle of
// the execution validator.
type DataSource interface {
	// Type returns the driver type, e.g. "mysql".
	Type() string

	// SysID returns the stable system identity of the datasource, used as
	// the vector-index collection name. Identical connection endpoints map
	// to the same identity across re-registrations.
	SysID() string

	// Cursor opens a dedicated session. Callers must Close it.
	Cursor(ctx context.Context) (*sql.Conn, error)

	// Execute runs a statement on the cursor and returns stringified rows.
	// SQL NULL surfaces as the literal "NULL".
	Execute(ctx context.Context, cursor *sql.Conn, query string) ([]models.Row, error)

	// UseStatement returns the dialect's context-switch statement for db.
	UseStatement(db string) string

	// Databases lists the schemas/databases visible to the scanner,
	// excluding system ones.
	Databases(ctx context.Context, cursor *sql.Conn) ([]string, error)

	// Tables lists the tables of one database.
	Tables(ctx context.Context, cursor *sql.Conn, db string) ([]string, error)

	// InspectTable samples rows and reads the native schema of one table.
	InspectTable(ctx context.Context, cursor *sql.Conn, db, table string) (*TableInfo, error)

	// Close tears down the connection pool.
	Close() error
}

// New creates a DataSource of the given type. The returned source is
// connected and pinged.
func New(ctx context.Context, srcType string, params ConnParams) (DataSource, error) {
	switch strings.ToLower(srcType) {
	case "mysql":
		return newMySQL(ctx, params)
	case "postgres", "postgresql":
		return newPostgres(ctx, params)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, srcType)
}

// splitHostPort separates an optional ":port" suffix from a host string,
// returning the default port when none is present or it is malformed.
func splitHostPort(host string, defaultPort int) (string, int) {
	idx := strings.LastIndex(host, ":")
	if idx < 0 {
		return host, defaultPort
	}
	port := 0
	for _, r := range host[idx+1:] {
		if r < '0' || r > '9' {
			return host, defaultPort
		}
		port = port*10 + int(r-'0')
	}
	if port == 0 {
		return host, defaultPort
	}
	return host[:idx], port
}

// collectionName sanitizes a system identity into a vector-index collection
// name: leading underscore plus alphanumerics/underscores only.
func collectionName(s string) string {
	var b strings.Builder
	b.WriteByte('_')
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		}
	}
	return b.String()
}
