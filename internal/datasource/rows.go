package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sqlwise/sqlmcp-go/internal/models"
)

// queryRows runs a query on the cursor and stringifies every value. NULL
// becomes the literal "NULL"; the triviality check in the execution
// validator depends on that exact spelling. Statements that return no row
// set (USE, SET) yield an empty slice.
func queryRows(ctx context.Context, cursor *sql.Conn, query string) ([]models.Row, error) {
	rows, err := cursor.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}

	out := []models.Row{}
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		row := make(models.Row, len(cols))
		for i, col := range cols {
			row[col] = stringify(values[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(val)
	case string:
		return val
	case time.Time:
		return val.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprintf("%v", val)
	}
}
