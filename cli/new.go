package cli

import (
	"fmt"
	"path/filepath"

	"github.com/mandelsoft/vfs/pkg/vfs"

	actx "go.hackfix.me/dbshift/app/context"
	aerrors "go.hackfix.me/dbshift/app/errors"
	"go.hackfix.me/dbshift/db/migrator"
)

// versionLayout is the time layout of generated script versions.
const versionLayout = "20060102150405"

// NewScript creates empty migrate and rollback scripts versioned with the
// current UTC time.
type NewScript struct {
	Name       string `arg:"" help:"Name of the migration. Only lowercase letters and hyphens are allowed."`
	NoRollback bool   `help:"Don't create a rollback script."`
}

// Run the new command.
func (c *NewScript) Run(appCtx *actx.Context, opts *Options) error {
	version := appCtx.TimeNow().UTC().Format(versionLayout)

	directions := []migrator.Direction{migrator.Migrate}
	if !c.NoRollback {
		directions = append(directions, migrator.Rollback)
	}

	paths := make([]string, 0, len(directions))
	for _, direction := range directions {
		fileName, err := migrator.ScriptFileName(direction, version, c.Name)
		if err != nil {
			return err
		}
		path := filepath.Join(opts.MigrationsDir, fileName)
		_, err = appCtx.FS.Stat(path)
		if err == nil {
			return aerrors.NewWithCause("script file already exists", nil, "path", path)
		}
		if !vfs.IsErrNotExist(err) {
			return aerrors.NewWithCause("failed checking script file", err, "path", path)
		}
		paths = append(paths, path)
	}

	if err := appCtx.FS.MkdirAll(opts.MigrationsDir, 0o755); err != nil {
		return aerrors.NewWithCause("failed creating migrations directory", err,
			"path", opts.MigrationsDir)
	}

	for i, path := range paths {
		body := fmt.Sprintf("-- %s %s-%s\n", directions[i], version, c.Name)
		if err := vfs.WriteFile(appCtx.FS, path, []byte(body), 0o644); err != nil {
			return aerrors.NewWithCause("failed writing script file", err, "path", path)
		}
		if _, err := fmt.Fprintln(appCtx.Stdout, path); err != nil {
			return aerrors.NewWithCause("failed writing to stdout", err)
		}
	}

	return nil
}
