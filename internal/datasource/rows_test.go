package datasource

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryRowsStringifiesValues(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT \\* FROM orders").WillReturnRows(
		sqlmock.NewRows([]string{"id", "amount", "note", "placed"}).
			AddRow(int64(7), 19.5, nil, ts).
			AddRow(int64(8), []byte("42.0"), "rush", nil),
	)

	ctx := context.Background()
	cursor, err := db.Conn(ctx)
	require.NoError(t, err)
	defer cursor.Close()

	rows, err := queryRows(ctx, cursor, "SELECT * FROM orders")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "7", rows[0]["id"])
	assert.Equal(t, "19.5", rows[0]["amount"])
	assert.Equal(t, "NULL", rows[0]["note"], "SQL NULL must surface as the literal string")
	assert.Equal(t, "2024-03-01 12:30:00", rows[0]["placed"])

	assert.Equal(t, "42.0", rows[1]["amount"])
	assert.Equal(t, "rush", rows[1]["note"])
	assert.Equal(t, "NULL", rows[1]["placed"])

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryRowsEmptyResult(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT \\* FROM empty_table").WillReturnRows(
		sqlmock.NewRows([]string{"id"}),
	)

	ctx := context.Background()
	cursor, err := db.Conn(ctx)
	require.NoError(t, err)
	defer cursor.Close()

	rows, err := queryRows(ctx, cursor, "SELECT * FROM empty_table")
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.NotNil(t, rows)
}

func TestSplitHostPort(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		defPort  int
		wantHost string
		wantPort int
	}{
		{"bare host", "10.0.0.5", 3306, "10.0.0.5", 3306},
		{"host with port", "10.0.0.5:3307", 3306, "10.0.0.5", 3307},
		{"empty", "", 3306, "", 3306},
		{"trailing colon", "db:", 3306, "db:", 3306},
		{"non-numeric port", "db:abc", 3306, "db:abc", 3306},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, port := splitHostPort(tt.in, tt.defPort)
			assert.Equal(t, tt.wantHost, host)
			assert.Equal(t, tt.wantPort, port)
		})
	}
}

func TestCollectionName(t *testing.T) {
	assert.Equal(t, "_mysql_1270013306", collectionName("mysql_127.0.0.1:3306"))
	assert.Equal(t, "_pgdb", collectionName("pg db!"))
}
