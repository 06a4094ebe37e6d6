// Package migrator provides functionality to manage database schema migrations.
//
// Features:
//   - Supports both forward (`migrate`) and inverse (`rollback`) scripts
//   - Loads SQL scripts from a directory with structured naming
//     (`{migrate|rollback}-{version}[-{name}].sql`)
//   - Tracks applied versions in a dedicated ledger table
//   - Applies every script and its ledger update in a single transaction
//   - Stops after an optional target version
//   - Writes a schema snapshot after every successful run
package migrator
