package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/mandelsoft/vfs/pkg/memoryfs"

	"go.hackfix.me/dbshift/app/config"
	actx "go.hackfix.me/dbshift/app/context"
	"go.hackfix.me/dbshift/cli"
)

// App is the application.
type App struct {
	name           string
	ctx            *actx.Context
	cli            *cli.CLI
	configFilePath string
	exit           func(int)
	// the logging level is set via the CLI, if the app was initialized with the
	// WithLogger option.
	logLevel *slog.LevelVar
}

// New initializes a new application.
func New(name, configFilePath string, opts ...Option) (*App, error) {
	defaultCtx := &actx.Context{
		Ctx:     context.Background(),
		FS:      memoryfs.New(),
		Logger:  slog.Default(),
		TimeNow: time.Now,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Version: actx.GetVersion(),
	}
	app := &App{
		name:           name,
		ctx:            defaultCtx,
		configFilePath: configFilePath,
		exit:           os.Exit,
	}

	for _, opt := range opts {
		opt(app)
	}

	ver := fmt.Sprintf("%s %s", app.name, app.ctx.Version.String())
	var err error
	app.cli, err = cli.New(app.ctx, app.configFilePath, ver, app.exit)
	if err != nil {
		return nil, err
	}

	return app, nil
}

// Run initializes the application environment and starts execution of the
// application.
func (app *App) Run(args []string) error {
	if err := app.cli.Parse(args); err != nil {
		return err
	}

	if app.logLevel != nil {
		app.logLevel.Set(app.cli.Log.Level)
		slog.SetLogLoggerLevel(app.cli.Log.Level)
	}

	cfg := config.NewConfig(app.ctx.FS, app.cli.ConfigFile)
	if err := cfg.Load(); err != nil {
		return err
	}
	app.ctx.Config = cfg
	app.cli.ApplyConfig(cfg, app.ctx.Env)

	app.ctx.Logger.Debug("running command",
		"command", app.cli.Command(), "config_file", cfg.Path())

	return app.cli.Execute(app.ctx)
}
