package cli

import (
	"database/sql"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.hackfix.me/dbshift/app/config"
	actx "go.hackfix.me/dbshift/app/context"
	"go.hackfix.me/dbshift/db/migrator"
)

type mapEnv map[string]string

func (e mapEnv) Get(key string) string { return e[key] }

func TestApplyConfig(t *testing.T) {
	t.Parallel()

	fullCfg := &config.Config{
		Database: config.Database{
			Driver: sql.Null[string]{V: "sqlite", Valid: true},
			Params: sql.Null[string]{V: "_pragma=foreign_keys(1)", Valid: true},
			PGDump: sql.Null[string]{V: "/opt/pg/bin/pg_dump", Valid: true},
		},
		Migrations: config.Migrations{Dir: sql.Null[string]{V: "/srv/migrations", Valid: true}},
		Ledger: config.Ledger{
			Table:  sql.Null[string]{V: "_versions", Valid: true},
			Column: sql.Null[string]{V: "id", Valid: true},
		},
	}

	tests := []struct {
		name    string
		opts    Options
		cfg     *config.Config
		env     mapEnv
		expOpts Options
	}{
		{
			name: "ok/defaults",
			cfg:  &config.Config{},
			expOpts: Options{
				Driver:        DefaultDriver,
				MigrationsDir: DefaultMigrationsDir,
				LedgerTable:   migrator.DefaultLedgerTable,
				LedgerColumn:  migrator.DefaultLedgerColumn,
			},
		},
		{
			name: "ok/config",
			cfg:  fullCfg,
			expOpts: Options{
				Driver:        "sqlite",
				Params:        "_pragma=foreign_keys(1)",
				PGDump:        "/opt/pg/bin/pg_dump",
				MigrationsDir: "/srv/migrations",
				LedgerTable:   "_versions",
				LedgerColumn:  "id",
			},
		},
		{
			name: "ok/database_url_over_config",
			cfg:  fullCfg,
			env:  mapEnv{"DATABASE_URL": "postgres://localhost/app"},
			expOpts: Options{
				Driver:        "sqlite",
				Params:        "postgres://localhost/app",
				PGDump:        "/opt/pg/bin/pg_dump",
				MigrationsDir: "/srv/migrations",
				LedgerTable:   "_versions",
				LedgerColumn:  "id",
			},
		},
		{
			name: "ok/flags_over_all",
			opts: Options{
				Driver:        "postgres",
				Params:        "host=db",
				MigrationsDir: "sql",
				LedgerTable:   "versions",
			},
			cfg: fullCfg,
			env: mapEnv{"DATABASE_URL": "postgres://localhost/app"},
			expOpts: Options{
				Driver:        "postgres",
				Params:        "host=db",
				PGDump:        "/opt/pg/bin/pg_dump",
				MigrationsDir: "sql",
				LedgerTable:   "versions",
				LedgerColumn:  "id",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := &CLI{Options: tt.opts}
			if tt.env == nil {
				c.ApplyConfig(tt.cfg, nil)
			} else {
				c.ApplyConfig(tt.cfg, tt.env)
			}
			assert.Equal(t, tt.expOpts, c.Options)
		})
	}
}

func TestHasCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		exp  bool
	}{
		{name: "empty", args: nil, exp: false},
		{name: "only_flags", args: []string{"--driver=sqlite", "--log-level=DEBUG"}, exp: false},
		{name: "flag_values", args: []string{"--driver", "sqlite", "-d", "sql"}, exp: false},
		{name: "command", args: []string{"migrate", "app"}, exp: true},
		{name: "flags_first", args: []string{"-d", "sql", "status", "app"}, exp: true},
		{name: "flag_value_then_command", args: []string{"--driver", "sqlite", "migrate"}, exp: true},
		{name: "help", args: []string{"--help"}, exp: true},
		{name: "version", args: []string{"-v"}, exp: true},
	}

	c, err := New(&actx.Context{Stdout: io.Discard, Stderr: io.Discard}, "/config.json", "test", func(int) {})
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.exp, c.hasCommand(tt.args))
		})
	}
}
