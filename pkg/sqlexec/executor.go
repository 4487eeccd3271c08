// Package sqlexec defines the query-execution boundary used by pkg/adapter
// and provides two implementations: an HTTP client for serverless SQL
// endpoints that speak a JSON request/response protocol, and a database/sql
// implementation for direct MySQL connections.
//
// Statements use MySQL dialect with positional ? placeholders. A Record
// passed as an argument is expanded into an ordered list of column
// assignments (the "SET ?" shorthand); see ExpandSet.
package sqlexec

import "context"

// Record is a flat row or parameter object keyed by column name.
type Record = map[string]any

// Result is the outcome of a single statement execution. Reads populate
// Rows; writes populate LastInsertID and RowsAffected. LastInsertID is
// string-or-number shaped: the HTTP protocol returns a JSON string while
// database/sql returns an int64, and callers must cope with either.
type Result struct {
	Rows         []Record
	LastInsertID any
	RowsAffected int64
}

// Executor runs one parameterized statement per call. Implementations own
// timeouts and transport policy; there is no transaction support.
type Executor interface {
	Execute(ctx context.Context, query string, args ...any) (*Result, error)
}
