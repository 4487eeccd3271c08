package sqlexec

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
)

// DB executes statements on a direct MySQL connection through database/sql.
// It speaks the same dialect as Client, so the two are interchangeable
// behind the Executor interface; this one is intended for local development
// and integration tests.
type DB struct {
	db *sql.DB
}

// NewDB wraps an existing database handle.
func NewDB(db *sql.DB) *DB {
	return &DB{db: db}
}

// OpenDB opens a MySQL connection for the given DSN. The DSN must include
// parseTime=true so datetime columns scan as time.Time.
func OpenDB(dsn string) (*DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &DB{db: db}, nil
}

// Close closes the underlying handle.
func (d *DB) Close() error {
	return d.db.Close()
}

var _ Executor = (*DB)(nil)

// Execute runs one statement. SELECT statements populate Rows; everything
// else runs through Exec and populates LastInsertID and RowsAffected.
func (d *DB) Execute(ctx context.Context, query string, args ...any) (*Result, error) {
	stmt, params := ExpandSet(query, args)

	if isRowReturning(stmt) {
		rows, err := d.db.QueryContext(ctx, stmt, params...)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		records, err := scanRecords(rows)
		if err != nil {
			return nil, err
		}
		return &Result{Rows: records}, nil
	}

	res, err := d.db.ExecContext(ctx, stmt, params...)
	if err != nil {
		return nil, err
	}

	// LastInsertId is zero for non-insert statements; both error returns are
	// driver-dependent and ignored the same way database/sql users usually do.
	id, _ := res.LastInsertId()
	affected, _ := res.RowsAffected()
	return &Result{LastInsertID: id, RowsAffected: affected}, nil
}

func isRowReturning(stmt string) bool {
	head := strings.ToUpper(strings.TrimSpace(stmt))
	return strings.HasPrefix(head, "SELECT") || strings.HasPrefix(head, "SHOW")
}

// scanRecords reads every row into a Record keyed by column name. Byte
// slices become strings so rows look the same as the HTTP protocol's JSON
// rows.
func scanRecords(rows *sql.Rows) ([]Record, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var records []Record
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		rec := make(Record, len(cols))
		for i, col := range cols {
			if b, ok := vals[i].([]byte); ok {
				rec[col] = string(b)
				continue
			}
			rec[col] = vals[i]
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
