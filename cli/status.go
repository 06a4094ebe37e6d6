package cli

import (
	actx "go.hackfix.me/dbshift/app/context"
	aerrors "go.hackfix.me/dbshift/app/errors"
	"go.hackfix.me/dbshift/db/migrator"
)

// Status shows which migrations exist and which of them have been applied.
type Status struct {
	Database string `arg:"" optional:"" help:"Name of the target database."`
}

// Run the status command.
func (c *Status) Run(appCtx *actx.Context, opts *Options) error {
	if c.Database == "" {
		return &MissingArgumentError{Name: "database"}
	}

	repo, err := migrator.Scan(appCtx.FS, opts.MigrationsDir)
	if err != nil {
		return err
	}

	m, closeDB, err := openMigrator(appCtx, opts, repo, c.Database)
	if err != nil {
		return err
	}
	defer closeDB()

	statuses, err := m.Status(appCtx.Ctx)
	if err != nil {
		return aerrors.NewWithCause("failed reading migration status", err,
			"database", c.Database)
	}

	if len(statuses) == 0 {
		return nil
	}

	if err = renderStatus(appCtx.Stdout, statuses); err != nil {
		return aerrors.NewWithCause("failed rendering status table", err)
	}

	return nil
}
