package migrator

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/mandelsoft/vfs/pkg/vfs"

	"go.hackfix.me/dbshift/db/types"
)

// SchemaFileName is the name of the schema snapshot written to the migrations
// directory.
const SchemaFileName = "schema.sql"

// Snapshotter writes the current database schema to a file.
type Snapshotter struct {
	fs     vfs.FileSystem
	exec   types.Executor
	path   string
	logger *slog.Logger
}

// Write dumps the schema and overwrites the snapshot file with it.
func (s *Snapshotter) Write(ctx context.Context) error {
	schema, err := s.exec.DumpSchema(ctx)
	if err != nil {
		return fmt.Errorf("failed dumping schema: %w", err)
	}

	if err = vfs.WriteFile(s.fs, s.path, []byte(schema), 0o644); err != nil {
		return fmt.Errorf("failed writing schema snapshot: %w", err)
	}
	s.logger.Debug("wrote schema snapshot", "path", s.path, "size", len(schema))

	return nil
}

func newSnapshotter(fs vfs.FileSystem, exec types.Executor, dir string, logger *slog.Logger) *Snapshotter {
	return &Snapshotter{
		fs:     fs,
		exec:   exec,
		path:   filepath.Join(dir, SchemaFileName),
		logger: logger,
	}
}
