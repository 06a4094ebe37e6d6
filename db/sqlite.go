package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	//nolint:revive,nolintlint // Idiomatic way of loading DB libraries.
	_ "github.com/glebarez/go-sqlite"

	"go.hackfix.me/dbshift/db/queries"
)

type sqliteDialect struct{}

func openSQLite(opts Options) (*DB, error) {
	dsn := opts.Database
	if opts.Params != "" {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + strings.TrimLeft(opts.Params, "?&")
	}

	sqliteDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed opening SQLite database: %w", err)
	}

	return &DB{DB: sqliteDB, dialect: sqliteDialect{}, database: opts.Database}, nil
}

func (sqliteDialect) placeholder(int) string {
	return "?"
}

func (sqliteDialect) dumpSchema(ctx context.Context, d *DB) (string, error) {
	stmts, err := queries.SQLiteSchema(ctx, d)
	if err != nil {
		return "", fmt.Errorf("failed dumping SQLite schema: %w", err)
	}

	var sb strings.Builder
	for i, stmt := range stmts {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(stmt)
		sb.WriteString(";\n")
	}

	return sb.String(), nil
}
