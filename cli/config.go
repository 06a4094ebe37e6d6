package cli

import (
	"fmt"

	"github.com/alecthomas/kong"

	"go.hackfix.me/dbshift/app/config"
	actx "go.hackfix.me/dbshift/app/context"
	aerrors "go.hackfix.me/dbshift/app/errors"
)

// Config manages the values stored in the configuration file.
type Config struct {
	Get struct {
		Key string `arg:"" optional:"" help:"Setting name, e.g. database.driver. All set values are printed if omitted."`
	} `kong:"cmd,help='Print configuration values.'"`
	Set struct {
		Key   string `arg:"" help:"Setting name, e.g. database.driver."`
		Value string `arg:"" help:"New value."`
	} `kong:"cmd,help='Change a configuration value.'"`
	Unset struct {
		Key string `arg:"" help:"Setting name, e.g. database.driver."`
	} `kong:"cmd,help='Remove a configuration value.',aliases='rm'"`
}

// Run the config command.
func (c *Config) Run(kctx *kong.Context, appCtx *actx.Context) error {
	cfg := appCtx.Config

	var key, value string
	switch kctx.Selected().Name {
	case "get":
		return c.printValues(appCtx, cfg)
	case "set":
		key, value = c.Set.Key, c.Set.Value
	case "unset":
		key = c.Unset.Key
	}

	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return aerrors.NewWithCause("failed saving configuration", err, "path", cfg.Path())
	}
	appCtx.Logger.Info("configuration updated", "key", key, "path", cfg.Path())

	return nil
}

func (c *Config) printValues(appCtx *actx.Context, cfg *config.Config) error {
	keys := config.Keys()
	if c.Get.Key != "" {
		keys = []string{c.Get.Key}
	}

	for _, key := range keys {
		val, ok, err := cfg.Get(key)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		line := val
		if c.Get.Key == "" {
			line = key + "=" + val
		}
		if _, err = fmt.Fprintln(appCtx.Stdout, line); err != nil {
			return aerrors.NewWithCause("failed writing to stdout", err)
		}
	}

	return nil
}
