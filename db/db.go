package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.hackfix.me/dbshift/db/types"
)

// Supported driver names.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Options configures the connection to the target database.
type Options struct {
	// Driver is the backend name, one of DriverSQLite or DriverPostgres.
	Driver string
	// Database is the name of the target database. For SQLite this is the path
	// or URI of the database file.
	Database string
	// Params are backend specific connection options. For PostgreSQL it's a
	// connection string whose database is replaced by Database. For SQLite it's
	// a query string appended to the database URI.
	Params string
	// PGDump is the path to the pg_dump binary used for PostgreSQL schema dumps.
	PGDump string
}

// dialect contains the backend specific parts of DB.
type dialect interface {
	placeholder(n int) string
	dumpSchema(ctx context.Context, d *DB) (string, error)
}

// DB wraps sql.DB with a single persistent session and the backend dialect.
type DB struct {
	*sql.DB
	dialect  dialect
	database string
}

var _ types.Executor = (*DB)(nil)

// Open connects to the database described by opts and verifies the connection.
func Open(ctx context.Context, opts Options) (*DB, error) {
	var (
		d   *DB
		err error
	)
	switch opts.Driver {
	case DriverSQLite:
		d, err = openSQLite(opts)
	case DriverPostgres:
		d, err = openPostgres(opts)
	default:
		return nil, &types.UnsupportedDriverError{Driver: opts.Driver}
	}
	if err != nil {
		return nil, err
	}

	// All plan elements reuse one connection.
	d.SetMaxOpenConns(1)
	d.SetMaxIdleConns(1)

	if err = d.PingContext(ctx); err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("failed connecting to %s database '%s': %w",
			opts.Driver, opts.Database, err)
	}

	return d, nil
}

// ExecBatch runs stmts in order inside a single transaction. If any statement
// fails the transaction is rolled back and the error of the failed statement is
// returned.
func (d *DB) ExecBatch(ctx context.Context, stmts ...types.Statement) (err error) {
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed starting transaction: %w", err)
	}

	defer func() {
		if err == nil {
			return
		}
		if rerr := tx.Rollback(); rerr != nil && !errors.Is(rerr, sql.ErrTxDone) {
			err = errors.Join(err, fmt.Errorf("failed rolling back transaction: %w", rerr))
		}
	}()

	for i, stmt := range stmts {
		if strings.TrimSpace(stmt.SQL) == "" {
			continue
		}
		if _, err = tx.ExecContext(ctx, stmt.SQL, stmt.Args...); err != nil {
			return fmt.Errorf("failed executing statement %d: %w", i+1, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed committing transaction: %w", err)
	}

	return nil
}

// DumpSchema returns the schema definition of the database.
func (d *DB) DumpSchema(ctx context.Context) (string, error) {
	return d.dialect.dumpSchema(ctx, d)
}

// Placeholder returns the bind parameter syntax for the nth argument.
func (d *DB) Placeholder(n int) string {
	return d.dialect.placeholder(n)
}

// Name returns the name of the database.
func (d *DB) Name() string {
	return d.database
}
