package queries

import (
	"context"
	"database/sql"
)

// Querier is the subset of sql.DB needed by the queries in this package.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// SQLiteSchema returns the DDL statements of all user objects in a SQLite
// database. Tables come first, followed by indexes, views and triggers, each
// group ordered by name.
func SQLiteSchema(ctx context.Context, d Querier) ([]string, error) {
	rows, err := d.QueryContext(ctx, `
		SELECT sql FROM sqlite_master
		WHERE sql IS NOT NULL AND name NOT LIKE 'sqlite_%'
		ORDER BY CASE type
			WHEN 'table' THEN 0
			WHEN 'index' THEN 1
			WHEN 'view' THEN 2
			ELSE 3
		END, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stmts := []string{}
	for rows.Next() {
		var stmt string
		if err = rows.Scan(&stmt); err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}

	return stmts, rows.Err()
}
