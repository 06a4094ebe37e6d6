package migrator

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/mandelsoft/vfs/pkg/vfs"
)

// Repository holds the scripts found in a migrations directory.
type Repository struct {
	fs      vfs.FileSystem
	dir     string
	scripts map[Direction]map[string]*Script // keyed by versionKey
}

// Scan reads the migrations directory dir and parses the names of the scripts
// in it. Files that don't follow the naming convention are ignored.
func Scan(fs vfs.FileSystem, dir string) (*Repository, error) {
	fi, err := fs.Stat(dir)
	if err != nil {
		if vfs.IsErrNotExist(err) {
			return nil, &DirectoryNotFoundError{Path: dir}
		}
		return nil, fmt.Errorf("failed reading migrations directory: %w", err)
	}
	if !fi.IsDir() {
		return nil, &DirectoryNotFoundError{Path: dir}
	}

	entries, err := vfs.ReadDir(fs, dir)
	if err != nil {
		return nil, fmt.Errorf("failed reading migrations directory: %w", err)
	}

	repo := &Repository{
		fs:  fs,
		dir: dir,
		scripts: map[Direction]map[string]*Script{
			Migrate:  {},
			Rollback: {},
		},
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		direction, version, name, ok := parseScriptName(entry.Name())
		if !ok {
			continue
		}

		if !validIdent(version) {
			return nil, fmt.Errorf("invalid script '%s': %w",
				filepath.Join(dir, entry.Name()), &InvalidIdentifierError{Kind: "version", Value: version})
		}

		script := &Script{
			Direction: direction,
			Version:   version,
			Name:      name,
			Path:      filepath.Join(dir, entry.Name()),
		}

		key := versionKey(version)
		if prev, ok := repo.scripts[direction][key]; ok {
			return nil, &DuplicateScriptError{
				Direction: direction,
				Version:   version,
				Paths:     [2]string{prev.Path, script.Path},
			}
		}
		repo.scripts[direction][key] = script
	}

	return repo, nil
}

// Dir returns the migrations directory path.
func (r *Repository) Dir() string {
	return r.dir
}

// Versions returns the versions that have a script in the given direction,
// sorted in ascending order.
func (r *Repository) Versions(direction Direction) []string {
	versions := make([]string, 0, len(r.scripts[direction]))
	for _, s := range r.scripts[direction] {
		versions = append(versions, s.Version)
	}
	slices.SortFunc(versions, CompareVersions)

	return versions
}

// ScriptFor returns the script for the given direction and version.
func (r *Repository) ScriptFor(direction Direction, version string) (*Script, error) {
	if s, ok := r.scripts[direction][versionKey(version)]; ok {
		return s, nil
	}

	return nil, &ScriptMissingError{Direction: direction, Version: version}
}

// Read returns the contents of the script.
func (r *Repository) Read(script *Script) (string, error) {
	data, err := vfs.ReadFile(r.fs, script.Path)
	if err != nil {
		return "", fmt.Errorf("failed reading script '%s': %w", script.Path, err)
	}

	return string(data), nil
}

// versionKey returns the canonical form of v, so that versions that compare
// as equal, e.g. 010 and 10, map to the same key.
func versionKey(v string) string {
	if isDigits(v) {
		return trimZeros(v)
	}
	return v
}
