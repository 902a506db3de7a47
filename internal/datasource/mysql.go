package datasource

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/sqlwise/sqlmcp-go/internal/models"
)

// systemDatabases are excluded from scanning.
var systemDatabases = map[string]bool{
	"information_schema": true,
	"performance_schema": true,
	"mysql":              true,
	"sys":                true,
}

// MySQL implements DataSource over go-sql-driver/mysql.
type MySQL struct {
	db    *sql.DB
	sysID string
}

var _ DataSource = (*MySQL)(nil)

func newMySQL(ctx context.Context, params ConnParams) (*MySQL, error) {
	host, port := splitHostPort(params.Host, 3306)
	if host == "" {
		host = "127.0.0.1"
	}

	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", host, port)
	cfg.User = params.User
	cfg.Passwd = params.Password
	cfg.DBName = params.Database
	cfg.ParseTime = false

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("mysql config: %w", err)
	}

	db := sql.OpenDB(connector)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect to mysql: %w", err)
	}

	return &MySQL{
		db:    db,
		sysID: collectionName(fmt.Sprintf("mysql_%s_%d", host, port)),
	}, nil
}

func (m *MySQL) Type() string  { return "mysql" }
func (m *MySQL) SysID() string { return m.sysID }

func (m *MySQL) Cursor(ctx context.Context) (*sql.Conn, error) {
	return m.db.Conn(ctx)
}

func (m *MySQL) Execute(ctx context.Context, cursor *sql.Conn, query string) ([]models.Row, error) {
	return queryRows(ctx, cursor, query)
}

func (m *MySQL) UseStatement(db string) string {
	return fmt.Sprintf("USE `%s`", db)
}

func (m *MySQL) Databases(ctx context.Context, cursor *sql.Conn) ([]string, error) {
	rows, err := queryRows(ctx, cursor, "SHOW DATABASES")
	if err != nil {
		return nil, fmt.Errorf("list databases: %w", err)
	}
	dbs := make([]string, 0, len(rows))
	for _, row := range rows {
		name := row["Database"]
		if name == "" || systemDatabases[name] {
			continue
		}
		dbs = append(dbs, name)
	}
	return dbs, nil
}

func (m *MySQL) Tables(ctx context.Context, cursor *sql.Conn, db string) ([]string, error) {
	rows, err := queryRows(ctx, cursor, fmt.Sprintf(
		"SELECT TABLE_NAME AS tbl FROM information_schema.TABLES WHERE TABLE_SCHEMA = '%s' AND TABLE_TYPE = 'BASE TABLE'", db))
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	tables := make([]string, 0, len(rows))
	for _, row := range rows {
		tables = append(tables, row["tbl"])
	}
	return tables, nil
}

func (m *MySQL) InspectTable(ctx context.Context, cursor *sql.Conn, db, table string) (*TableInfo, error) {
	sample, err := queryRows(ctx, cursor, fmt.Sprintf("SELECT * FROM `%s`.`%s` LIMIT 5", db, table))
	if err != nil {
		return nil, fmt.Errorf("sample table: %w", err)
	}

	colRows, err := queryRows(ctx, cursor, fmt.Sprintf(
		"SELECT COLUMN_NAME AS col, COLUMN_TYPE AS typ, COLUMN_COMMENT AS com FROM information_schema.COLUMNS WHERE TABLE_SCHEMA = '%s' AND TABLE_NAME = '%s' ORDER BY ORDINAL_POSITION", db, table))
	if err != nil {
		return nil, fmt.Errorf("inspect columns: %w", err)
	}
	columns := make([]ColumnType, 0, len(colRows))
	for _, row := range colRows {
		columns = append(columns, ColumnType{Name: row["col"], Type: row["typ"]})
	}

	comment := ""
	comRows, err := queryRows(ctx, cursor, fmt.Sprintf(
		"SELECT TABLE_COMMENT AS com FROM information_schema.TABLES WHERE TABLE_SCHEMA = '%s' AND TABLE_NAME = '%s'", db, table))
	if err == nil && len(comRows) == 1 {
		comment = comRows[0]["com"]
		if comment == "NULL" {
			comment = ""
		}
	}

	return &TableInfo{Sample: sample, Columns: columns, Comment: comment}, nil
}

func (m *MySQL) Close() error {
	return m.db.Close()
}
