package migrator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.hackfix.me/dbshift/db/types"
)

// Engine runs the scripts of a plan against the database.
type Engine struct {
	repo    *Repository
	ledger  *Ledger
	exec    types.Executor
	out     io.Writer
	logger  *slog.Logger
	timeNow func() time.Time
}

// Run executes each version of the plan in order. Every script runs in its own
// transaction together with the ledger update, so a failed version leaves no
// trace, while versions that ran before it stay committed. Run stops at the
// first failure.
func (e *Engine) Run(ctx context.Context, plan *Plan) error {
	for _, version := range plan.Versions {
		if err := e.runVersion(ctx, plan.Direction, version); err != nil {
			return err
		}
	}

	return nil
}

func (e *Engine) runVersion(ctx context.Context, direction Direction, version string) error {
	script, err := e.repo.ScriptFor(direction, version)
	if err != nil {
		return err
	}

	body, err := e.repo.Read(script)
	if err != nil {
		return &MigrationApplyError{Version: version, Direction: direction, Err: err}
	}

	var record types.Statement
	if direction == Migrate {
		record, err = e.ledger.recordApply(version)
	} else {
		record, err = e.ledger.recordRollback(version)
	}
	if err != nil {
		return &MigrationApplyError{Version: version, Direction: direction, Err: err}
	}

	logger := e.logger.With("direction", direction.String(), "version", version, "path", script.Path)
	logger.Debug("running script")

	if _, err = fmt.Fprint(e.out, direction.progress(script.Label())); err != nil {
		return fmt.Errorf("failed writing progress: %w", err)
	}

	start := e.timeNow()
	err = e.exec.ExecBatch(ctx, types.NewStatement(body), record)
	if err != nil {
		_, _ = fmt.Fprintln(e.out, " failed")
		return &MigrationApplyError{
			Version:   version,
			Direction: direction,
			Err:       types.Err("migration", "version "+version, err),
		}
	}
	elapsed := e.timeNow().Sub(start)

	if _, err = fmt.Fprintf(e.out, " done (%s)\n", elapsed.Round(time.Millisecond)); err != nil {
		return fmt.Errorf("failed writing progress: %w", err)
	}
	logger.Debug("script finished", "elapsed", elapsed)

	return nil
}
