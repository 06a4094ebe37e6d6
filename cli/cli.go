package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"

	"go.hackfix.me/dbshift/app/config"
	actx "go.hackfix.me/dbshift/app/context"
	"go.hackfix.me/dbshift/db"
	"go.hackfix.me/dbshift/db/migrator"
)

// Default option values, used when neither a flag, environment variable nor
// the configuration file set them.
const (
	DefaultDriver        = db.DriverPostgres
	DefaultMigrationsDir = "migrations"
)

// CLI is the command line interface of dbshift.
type CLI struct {
	Migrate  Migrate   `kong:"cmd,help='Apply pending migrations.'"`
	Rollback Rollback  `kong:"cmd,help='Roll back applied migrations, most recent first.'"`
	Status   Status    `kong:"cmd,help='Show the state of all migrations.'"`
	New      NewScript `kong:"cmd,help='Create a new pair of migrate and rollback scripts.'"`
	Config   Config    `kong:"cmd,help='Manage the configuration file.'"`

	Options `embed:""`

	Log struct {
		Level slog.Level `enum:"DEBUG,INFO,WARN,ERROR" default:"INFO" help:"Set the app logging level."`
	} `embed:"" prefix:"log-"`
	// NOTE: kong.ConfigFlag isn't used, since configuration values only fill in
	// options that weren't set on the command line or environment.
	ConfigFile string           `kong:"default='${configFile}',help='Path to the dbshift configuration file.'"`
	Version    kong.VersionFlag `kong:"short='v',help='Output version and exit.'"`

	kong *kong.Kong
	kctx *kong.Context
}

// Options are the global options shared by all commands.
type Options struct {
	Driver        string `kong:"help='Database driver: postgres or sqlite. Default: ${defaultDriver}.'"`
	Params        string `kong:"help='Connection parameters passed to the database driver.'"`
	PGDump        string `kong:"name='pg-dump',help='Path to the pg_dump binary used for schema snapshots.'"`
	MigrationsDir string `kong:"short='d',help='Path to the migrations directory. Default: ${defaultMigrationsDir}.'"`
	LedgerTable   string `kong:"help='Name of the table applied migrations are recorded in. Default: ${defaultLedgerTable}.'"`
	LedgerColumn  string `kong:"help='Name of the ledger table column. Default: ${defaultLedgerColumn}.'"`
}

// New initializes the command-line interface.
func New(appCtx *actx.Context, configFilePath, version string, exit func(int)) (*CLI, error) {
	c := &CLI{}
	kparser, err := kong.New(c,
		kong.Name("dbshift"),
		kong.Description("Apply and roll back versioned SQL migration scripts."),
		kong.UsageOnError(),
		kong.DefaultEnvars("DBSHIFT"),
		kong.Writers(appCtx.Stdout, appCtx.Stderr),
		kong.Exit(exit),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			Summary:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"configFile":           configFilePath,
			"version":              version,
			"defaultDriver":        DefaultDriver,
			"defaultMigrationsDir": DefaultMigrationsDir,
			"defaultLedgerTable":   migrator.DefaultLedgerTable,
			"defaultLedgerColumn":  migrator.DefaultLedgerColumn,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed creating the Kong parser: %w", err)
	}

	c.kong = kparser

	return c, nil
}

// Execute starts the command execution. Parse must be called before this method.
func (c *CLI) Execute(appCtx *actx.Context) error {
	if c.kctx == nil {
		panic("the CLI wasn't initialized properly")
	}

	//nolint:wrapcheck // This is fine.
	return c.kctx.Run(appCtx, &c.Options)
}

// Parse the given command line arguments. This method must be called before
// Execute.
func (c *CLI) Parse(args []string) error {
	if !c.hasCommand(args) {
		return &MissingArgumentError{Name: "action"}
	}

	kctx, err := c.kong.Parse(args)
	if err != nil {
		return fmt.Errorf("failed parsing CLI arguments: %w", err)
	}
	c.kctx = kctx

	return nil
}

// Command returns the full path of the executed command.
func (c *CLI) Command() string {
	if c.kctx == nil {
		panic("the CLI wasn't initialized properly")
	}
	cmdPath := []string{}
	for _, p := range c.kctx.Path {
		if p.Command != nil {
			cmdPath = append(cmdPath, p.Command.Name)
		}
	}

	return strings.Join(cmdPath, " ")
}

// ApplyConfig applies configuration values to the CLI, but only if they weren't
// already set. The connection parameters additionally fall back to the
// DATABASE_URL environment variable before the configuration file. Options
// that are still unset afterwards get their default value.
func (c *CLI) ApplyConfig(cfg *config.Config, env actx.Environment) {
	opts := &c.Options
	if env != nil {
		setDefault(&opts.Params, env.Get("DATABASE_URL"))
	}
	setDefault(&opts.Driver, cfg.Database.Driver.V, DefaultDriver)
	setDefault(&opts.Params, cfg.Database.Params.V)
	setDefault(&opts.PGDump, cfg.Database.PGDump.V, "")
	setDefault(&opts.MigrationsDir, cfg.Migrations.Dir.V, DefaultMigrationsDir)
	setDefault(&opts.LedgerTable, cfg.Ledger.Table.V, migrator.DefaultLedgerTable)
	setDefault(&opts.LedgerColumn, cfg.Ledger.Column.V, migrator.DefaultLedgerColumn)
}

// setDefault sets opt to the first non-empty value of vals, unless it's
// already set.
func setDefault(opt *string, vals ...string) {
	for _, v := range vals {
		if *opt != "" {
			return
		}
		*opt = v
	}
}

// hasCommand returns true if args contain a command, or one of the flags that
// terminate early without one. Values of global flags aren't commands.
func (c *CLI) hasCommand(args []string) bool {
	valueFlags := map[string]bool{}
	for _, f := range c.kong.Model.Flags {
		if f.IsBool() || f.IsCounter() {
			continue
		}
		valueFlags["--"+f.Name] = true
		if f.Short != 0 {
			valueFlags["-"+string(f.Short)] = true
		}
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-h", arg == "--help", arg == "-v", arg == "--version":
			return true
		case arg == "--":
			return i+1 < len(args)
		case valueFlags[arg]:
			i++
		case !strings.HasPrefix(arg, "-"):
			return true
		}
	}

	return false
}
