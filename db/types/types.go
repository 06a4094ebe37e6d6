package types

import (
	"context"
	"database/sql"
)

// Executor is the capability set the migration engine needs from a database
// backend. Implementations hold a single session for their lifetime.
type Executor interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	// ExecBatch runs all statements in order inside one transaction. Either
	// every statement takes effect, or none do.
	ExecBatch(ctx context.Context, stmts ...Statement) error
	// DumpSchema returns the schema definition of the database, without data or
	// ownership and privilege metadata.
	DumpSchema(ctx context.Context) (string, error)
	// Placeholder returns the bind parameter syntax for the nth (1-based)
	// argument of a statement.
	Placeholder(n int) string
	Close() error
}

// Statement is a single SQL statement with its bind arguments.
type Statement struct {
	SQL  string
	Args []any
}

// NewStatement creates a new Statement.
func NewStatement(sql string, args ...any) Statement {
	return Statement{SQL: sql, Args: args}
}
