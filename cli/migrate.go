package cli

import (
	"fmt"

	actx "go.hackfix.me/dbshift/app/context"
	aerrors "go.hackfix.me/dbshift/app/errors"
	"go.hackfix.me/dbshift/db"
	"go.hackfix.me/dbshift/db/migrator"
)

// Migrate applies the migration scripts that haven't been applied yet.
type Migrate struct {
	Database string `arg:"" optional:"" help:"Name of the target database."`
	StopAt   string `arg:"" optional:"" help:"Last version to migrate to."`
}

// Run the migrate command.
func (c *Migrate) Run(appCtx *actx.Context, opts *Options) error {
	return runScripts(appCtx, opts, migrator.Migrate, c.Database, c.StopAt)
}

// Rollback runs the rollback scripts of applied migrations, most recent first.
type Rollback struct {
	Database string `arg:"" optional:"" help:"Name of the target database."`
	StopAt   string `arg:"" optional:"" help:"Last version to roll back."`
}

// Run the rollback command.
func (c *Rollback) Run(appCtx *actx.Context, opts *Options) error {
	return runScripts(appCtx, opts, migrator.Rollback, c.Database, c.StopAt)
}

func runScripts(
	appCtx *actx.Context, opts *Options, direction migrator.Direction, database, stopAt string,
) error {
	if database == "" {
		return &MissingArgumentError{Name: "database"}
	}

	// The directory is checked before connecting to the database.
	repo, err := migrator.Scan(appCtx.FS, opts.MigrationsDir)
	if err != nil {
		return err
	}

	m, closeDB, err := openMigrator(appCtx, opts, repo, database)
	if err != nil {
		return err
	}
	defer closeDB()

	plan, err := m.Run(appCtx.Ctx, direction, stopAt)
	if err != nil {
		return aerrors.NewWithCause(fmt.Sprintf("%s failed", direction), err,
			"database", database)
	}

	appCtx.Logger.Info(fmt.Sprintf("%s finished", direction),
		"database", database, "count", len(plan.Versions))

	return nil
}

// openMigrator connects to the database and creates a Migrator for it. The
// returned function closes the database connection.
func openMigrator(
	appCtx *actx.Context, opts *Options, repo *migrator.Repository, database string,
) (*migrator.Migrator, func(), error) {
	d, err := db.Open(appCtx.Ctx, db.Options{
		Driver:   opts.Driver,
		Database: database,
		Params:   opts.Params,
		PGDump:   opts.PGDump,
	})
	if err != nil {
		return nil, nil, aerrors.NewWithCause("failed opening database", err,
			"driver", opts.Driver, "database", database)
	}

	appCtx.Logger.Debug("connected to database", "driver", opts.Driver, "database", d.Name())

	closeDB := func() {
		if cerr := d.Close(); cerr != nil {
			appCtx.Logger.Warn("failed closing database", "database", database, "error", cerr)
		}
	}

	m, err := migrator.New(repo, d,
		migrator.Config{
			LedgerTable:  opts.LedgerTable,
			LedgerColumn: opts.LedgerColumn,
		},
		migrator.WithLogger(appCtx.Logger),
		migrator.WithOutput(appCtx.Stdout),
		migrator.WithTimeNow(appCtx.TimeNow),
	)
	if err != nil {
		closeDB()
		return nil, nil, err
	}

	return m, closeDB, nil
}
