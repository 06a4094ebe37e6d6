package migrator

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"time"

	"go.hackfix.me/dbshift/db/types"
)

// Config is the configuration of a Migrator. Empty fields are set to their
// default values.
type Config struct {
	// LedgerTable is the name of the table applied versions are recorded in.
	LedgerTable string
	// LedgerColumn is the name of the ledger table column holding the version.
	LedgerColumn string
}

// Migrator resolves and runs migration plans against a database.
type Migrator struct {
	repo    *Repository
	exec    types.Executor
	ledger  *Ledger
	out     io.Writer
	logger  *slog.Logger
	timeNow func() time.Time
}

// New returns a new Migrator that runs the scripts in repo using exec.
func New(repo *Repository, exec types.Executor, cfg Config, opts ...Option) (*Migrator, error) {
	if repo == nil {
		return nil, errors.New("script repository is required")
	}
	if exec == nil {
		return nil, errors.New("SQL executor is required")
	}

	if cfg.LedgerTable == "" {
		cfg.LedgerTable = DefaultLedgerTable
	}
	if cfg.LedgerColumn == "" {
		cfg.LedgerColumn = DefaultLedgerColumn
	}

	ledger, err := NewLedger(exec, cfg.LedgerTable, cfg.LedgerColumn)
	if err != nil {
		return nil, err
	}

	m := &Migrator{repo: repo, exec: exec, ledger: ledger}

	opts = append(DefaultOptions(), opts...)
	for _, opt := range opts {
		if err = opt(m); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Run runs all pending scripts in the given direction, up to and including the
// stopAt version, if it's not empty. After all scripts ran successfully, the
// schema snapshot is written to the migrations directory. It returns the
// executed plan.
func (m *Migrator) Run(ctx context.Context, direction Direction, stopAt string) (*Plan, error) {
	logger := m.logger.With("direction", direction.String(), "ledger_table", m.ledger.Table())

	if err := m.ledger.EnsureTable(ctx); err != nil {
		return nil, err
	}

	applied, err := m.ledger.AppliedVersions(ctx)
	if err != nil {
		return nil, err
	}

	plan, err := Resolve(direction, m.repo.Versions(direction), applied, stopAt)
	if err != nil {
		return nil, err
	}

	if len(plan.Versions) == 0 {
		logger.Info("nothing to do, database is up to date")
	} else {
		logger.Info("running scripts", "count", len(plan.Versions))
	}

	engine := &Engine{
		repo:    m.repo,
		ledger:  m.ledger,
		exec:    m.exec,
		out:     m.out,
		logger:  logger,
		timeNow: m.timeNow,
	}
	if err = engine.Run(ctx, plan); err != nil {
		return plan, err
	}

	snap := newSnapshotter(m.repo.fs, m.exec, m.repo.Dir(), logger)
	if err = snap.Write(ctx); err != nil {
		return plan, err
	}

	return plan, nil
}

// VersionStatus describes the state of a single version.
type VersionStatus struct {
	Version string
	Name    string
	// Migrate and Rollback are true if a script exists in that direction.
	Migrate  bool
	Rollback bool
	Applied  bool
}

// Status returns the state of all versions known from either the scripts or
// the ledger, in ascending order.
func (m *Migrator) Status(ctx context.Context) ([]VersionStatus, error) {
	if err := m.ledger.EnsureTable(ctx); err != nil {
		return nil, err
	}

	applied, err := m.ledger.AppliedVersions(ctx)
	if err != nil {
		return nil, err
	}

	statuses := map[string]*VersionStatus{}
	get := func(version string) *VersionStatus {
		key := versionKey(version)
		vs, ok := statuses[key]
		if !ok {
			vs = &VersionStatus{Version: version}
			statuses[key] = vs
		}
		return vs
	}

	for _, direction := range []Direction{Migrate, Rollback} {
		for _, version := range m.repo.Versions(direction) {
			vs := get(version)
			script, _ := m.repo.ScriptFor(direction, version)
			if vs.Name == "" {
				vs.Name = script.Name
			}
			if direction == Migrate {
				vs.Migrate = true
			} else {
				vs.Rollback = true
			}
		}
	}
	for _, version := range applied {
		get(version).Applied = true
	}

	result := make([]VersionStatus, 0, len(statuses))
	for _, vs := range statuses {
		result = append(result, *vs)
	}
	slices.SortFunc(result, func(a, b VersionStatus) int {
		return CompareVersions(a.Version, b.Version)
	})

	return result, nil
}
