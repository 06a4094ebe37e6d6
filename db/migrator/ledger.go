package migrator

import (
	"context"
	"fmt"
	"slices"

	"go.hackfix.me/dbshift/db/types"
)

// Default ledger table and column names. They can be changed at build time
// with -ldflags "-X go.hackfix.me/dbshift/db/migrator.DefaultLedgerTable=...".
var (
	DefaultLedgerTable  = "schema_migrations"
	DefaultLedgerColumn = "migration_id"
)

// Ledger keeps track of the applied versions in a table of the target database.
type Ledger struct {
	exec   types.Executor
	table  string
	column string
}

// NewLedger returns a new Ledger stored in the given table and column. The
// names are validated, since they have to be interpolated in SQL statements.
func NewLedger(exec types.Executor, table, column string) (*Ledger, error) {
	if !validIdent(table) {
		return nil, &InvalidIdentifierError{Kind: "ledger table name", Value: table}
	}
	if !validIdent(column) {
		return nil, &InvalidIdentifierError{Kind: "ledger column name", Value: column}
	}

	return &Ledger{exec: exec, table: table, column: column}, nil
}

// Table returns the name of the ledger table.
func (l *Ledger) Table() string {
	return l.table
}

// EnsureTable creates the ledger table if it doesn't exist.
func (l *Ledger) EnsureTable(ctx context.Context) error {
	_, err := l.exec.ExecContext(ctx, fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS "%s" ("%s" VARCHAR(%d) PRIMARY KEY)`,
		l.table, l.column, maxIdentLen))
	if err != nil {
		return &LedgerTableCreationError{Table: l.table, Err: err}
	}

	return nil
}

// AppliedVersions returns the applied versions in ascending order.
func (l *Ledger) AppliedVersions(ctx context.Context) ([]string, error) {
	rows, err := l.exec.QueryContext(ctx,
		fmt.Sprintf(`SELECT "%s" FROM "%s"`, l.column, l.table))
	if err != nil {
		return nil, fmt.Errorf("failed querying applied versions: %w", err)
	}
	defer rows.Close()

	versions := []string{}
	for rows.Next() {
		var v string
		if err = rows.Scan(&v); err != nil {
			return nil, &types.ScanError{ModelName: "applied version", Err: err}
		}
		versions = append(versions, v)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed querying applied versions: %w", err)
	}

	slices.SortFunc(versions, CompareVersions)

	return versions, nil
}

// recordApply returns the statement that marks version as applied. It must
// only run in the same transaction as the migrate script.
func (l *Ledger) recordApply(version string) (types.Statement, error) {
	if !validIdent(version) {
		return types.Statement{}, &InvalidIdentifierError{Kind: "version", Value: version}
	}
	return types.NewStatement(
		fmt.Sprintf(`INSERT INTO "%s" ("%s") VALUES (%s)`,
			l.table, l.column, l.exec.Placeholder(1)),
		version,
	), nil
}

// recordRollback returns the statement that removes version from the ledger.
// It must only run in the same transaction as the rollback script.
func (l *Ledger) recordRollback(version string) (types.Statement, error) {
	if !validIdent(version) {
		return types.Statement{}, &InvalidIdentifierError{Kind: "version", Value: version}
	}
	return types.NewStatement(
		fmt.Sprintf(`DELETE FROM "%s" WHERE "%s" = %s`,
			l.table, l.column, l.exec.Placeholder(1)),
		version,
	), nil
}
