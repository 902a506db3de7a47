package datasource

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/sqlwise/sqlmcp-go/internal/models"
)

// systemSchemas are excluded from scanning.
var systemSchemas = map[string]bool{
	"pg_catalog":         true,
	"pg_toast":           true,
	"information_schema": true,
}

// Postgres implements DataSource over the pgx stdlib driver. Postgres has
// no cross-database USE, so "databases" here are schemas within the
// connected database and the context switch sets the search path.
type Postgres struct {
	db    *sql.DB
	sysID string
}

var _ DataSource = (*Postgres)(nil)

func newPostgres(ctx context.Context, params ConnParams) (*Postgres, error) {
	host, port := splitHostPort(params.Host, 5432)
	if host == "" {
		host = "127.0.0.1"
	}
	database := params.Database
	if database == "" {
		database = "postgres"
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		params.User, params.Password, host, port, database)

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres dsn: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	return &Postgres{
		db:    db,
		sysID: collectionName(fmt.Sprintf("postgres_%s_%d_%s", host, port, database)),
	}, nil
}

func (p *Postgres) Type() string  { return "postgres" }
func (p *Postgres) SysID() string { return p.sysID }

func (p *Postgres) Cursor(ctx context.Context) (*sql.Conn, error) {
	return p.db.Conn(ctx)
}

func (p *Postgres) Execute(ctx context.Context, cursor *sql.Conn, query string) ([]models.Row, error) {
	return queryRows(ctx, cursor, query)
}

func (p *Postgres) UseStatement(db string) string {
	return fmt.Sprintf(`SET search_path TO "%s"`, db)
}

func (p *Postgres) Databases(ctx context.Context, cursor *sql.Conn) ([]string, error) {
	rows, err := queryRows(ctx, cursor,
		"SELECT schema_name AS name FROM information_schema.schemata")
	if err != nil {
		return nil, fmt.Errorf("list schemas: %w", err)
	}
	schemas := make([]string, 0, len(rows))
	for _, row := range rows {
		name := row["name"]
		if name == "" || systemSchemas[name] {
			continue
		}
		schemas = append(schemas, name)
	}
	return schemas, nil
}

func (p *Postgres) Tables(ctx context.Context, cursor *sql.Conn, db string) ([]string, error) {
	rows, err := queryRows(ctx, cursor, fmt.Sprintf(
		"SELECT table_name AS tbl FROM information_schema.tables WHERE table_schema = '%s' AND table_type = 'BASE TABLE'", db))
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	tables := make([]string, 0, len(rows))
	for _, row := range rows {
		tables = append(tables, row["tbl"])
	}
	return tables, nil
}

func (p *Postgres) InspectTable(ctx context.Context, cursor *sql.Conn, db, table string) (*TableInfo, error) {
	sample, err := queryRows(ctx, cursor, fmt.Sprintf(`SELECT * FROM "%s"."%s" LIMIT 5`, db, table))
	if err != nil {
		return nil, fmt.Errorf("sample table: %w", err)
	}

	colRows, err := queryRows(ctx, cursor, fmt.Sprintf(
		"SELECT column_name AS col, data_type AS typ FROM information_schema.columns WHERE table_schema = '%s' AND table_name = '%s' ORDER BY ordinal_position", db, table))
	if err != nil {
		return nil, fmt.Errorf("inspect columns: %w", err)
	}
	columns := make([]ColumnType, 0, len(colRows))
	for _, row := range colRows {
		columns = append(columns, ColumnType{Name: row["col"], Type: row["typ"]})
	}

	comment := ""
	comRows, err := queryRows(ctx, cursor, fmt.Sprintf(
		"SELECT obj_description('%s.%s'::regclass, 'pg_class') AS com", db, table))
	if err == nil && len(comRows) == 1 && comRows[0]["com"] != "NULL" {
		comment = comRows[0]["com"]
	}

	return &TableInfo{Sample: sample, Columns: columns, Comment: comment}, nil
}

func (p *Postgres) Close() error {
	return p.db.Close()
}
