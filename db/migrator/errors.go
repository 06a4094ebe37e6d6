package migrator

import (
	"fmt"
)

// DirectoryNotFoundError is returned when the migrations directory doesn't
// exist.
type DirectoryNotFoundError struct {
	Path string
}

// Error returns a string representation of the error.
func (e DirectoryNotFoundError) Error() string {
	return fmt.Sprintf("migrations directory '%s' doesn't exist", e.Path)
}

// DuplicateScriptError is returned when more than one script file exists for
// the same direction and version.
type DuplicateScriptError struct {
	Direction Direction
	Version   string
	Paths     [2]string
}

// Error returns a string representation of the error.
func (e DuplicateScriptError) Error() string {
	return fmt.Sprintf("duplicate %s script for version %s: '%s' and '%s'",
		e.Direction, e.Version, e.Paths[0], e.Paths[1])
}

// ScriptMissingError is returned when no script exists for the requested
// direction and version.
type ScriptMissingError struct {
	Direction Direction
	Version   string
}

// Error returns a string representation of the error.
func (e ScriptMissingError) Error() string {
	return fmt.Sprintf("%s script for version %s doesn't exist", e.Direction, e.Version)
}

// StopVersionUnreachableError is returned when the requested stop version
// isn't one of the versions that would be run.
type StopVersionUnreachableError struct {
	Direction Direction
	Version   string
}

// Error returns a string representation of the error.
func (e StopVersionUnreachableError) Error() string {
	return fmt.Sprintf("stop version %s is unreachable: no pending %s for it", e.Version, e.Direction)
}

// MigrationApplyError is returned when running a script, or recording it in the
// ledger, fails.
type MigrationApplyError struct {
	Version   string
	Direction Direction
	Err       error
}

// Error returns a string representation of the error.
func (e MigrationApplyError) Error() string {
	return fmt.Sprintf("failed running %s script for version %s: %s", e.Direction, e.Version, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e MigrationApplyError) Unwrap() error {
	return e.Err
}

// LedgerTableCreationError is returned when the ledger table can't be created.
type LedgerTableCreationError struct {
	Table string
	Err   error
}

// Error returns a string representation of the error.
func (e LedgerTableCreationError) Error() string {
	return fmt.Sprintf("failed creating ledger table '%s': %s", e.Table, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e LedgerTableCreationError) Unwrap() error {
	return e.Err
}

// InvalidIdentifierError is returned when a ledger identifier or version
// contains characters that can't be safely used in SQL.
type InvalidIdentifierError struct {
	Kind  string
	Value string
}

// Error returns a string representation of the error.
func (e InvalidIdentifierError) Error() string {
	return fmt.Sprintf("invalid %s '%s': only letters, digits, '_' and '-' are allowed, up to %d characters",
		e.Kind, e.Value, maxIdentLen)
}
