package config

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mandelsoft/vfs/pkg/vfs"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration, backed by a filesystem for
// persistence.
type Config struct {
	Database   Database
	Migrations Migrations
	Ledger     Ledger

	fs   vfs.FileSystem
	path string
}

// Database defines the connection to the target database.
type Database struct {
	// Driver is the database backend, e.g. "postgres" or "sqlite".
	Driver sql.Null[string]
	// Params are the backend specific connection parameters. For PostgreSQL
	// this is a connection string, e.g. "host=localhost user=app sslmode=disable".
	Params sql.Null[string]
	// PGDump is the path to the pg_dump binary.
	PGDump sql.Null[string]
}

// Migrations defines where the migration scripts are stored.
type Migrations struct {
	// Dir is the path to the migrations directory.
	Dir sql.Null[string]
}

// Ledger defines the table applied versions are recorded in.
type Ledger struct {
	Table  sql.Null[string]
	Column sql.Null[string]
}

// NewConfig creates a new Config instance with the specified filesystem
// and configuration file path.
func NewConfig(fs vfs.FileSystem, path string) *Config {
	return &Config{fs: fs, path: path}
}

// Load reads and parses the configuration file from the filesystem. Files
// with a .yaml or .yml extension are parsed as YAML, all others as JSON.
// If the file doesn't exist, it initializes with an empty configuration.
func (c *Config) Load() error {
	data, err := vfs.ReadFile(c.fs, c.path)
	if err != nil && !vfs.IsErrNotExist(err) {
		return fmt.Errorf("failed reading configuration file: %w", err)
	}

	if c.isYAML() {
		var w cfgWrapper
		if err = yaml.Unmarshal(data, &w); err != nil {
			return fmt.Errorf("failed parsing configuration file: %w", err)
		}
		c.fromWrapper(w)
		return nil
	}

	// Ensure that unmarshalling JSON doesn't fail if the file doesn't exist or is empty.
	if len(data) == 0 {
		data = []byte("{}")
	}

	if err = json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed parsing configuration file: %w", err)
	}

	return nil
}

// Path returns the filesystem path where the configuration is stored.
func (c *Config) Path() string {
	return c.path
}

// Save writes the current configuration to the filesystem, in the format
// selected by the file extension.
func (c *Config) Save() error {
	if err := c.fs.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("failed creating configuration directory: %w", err)
	}

	var (
		data []byte
		err  error
	)
	if c.isYAML() {
		data, err = yaml.Marshal(c.toWrapper())
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed serializing configuration data: %w", err)
	}
	if err = vfs.WriteFile(c.fs, c.path, data, 0o600); err != nil {
		return fmt.Errorf("failed writing configuration file: %w", err)
	}

	return nil
}

// Keys returns the names of all configuration settings, in the order they
// appear in the configuration file.
func Keys() []string {
	return []string{
		"database.driver",
		"database.params",
		"database.pg_dump",
		"migrations.dir",
		"ledger.table",
		"ledger.column",
	}
}

// field returns the setting stored under key.
func (c *Config) field(key string) (*sql.Null[string], error) {
	switch key {
	case "database.driver":
		return &c.Database.Driver, nil
	case "database.params":
		return &c.Database.Params, nil
	case "database.pg_dump":
		return &c.Database.PGDump, nil
	case "migrations.dir":
		return &c.Migrations.Dir, nil
	case "ledger.table":
		return &c.Ledger.Table, nil
	case "ledger.column":
		return &c.Ledger.Column, nil
	default:
		return nil, &InvalidKeyError{Key: key}
	}
}

// Get returns the value of the setting key, and whether it's set.
func (c *Config) Get(key string) (string, bool, error) {
	f, err := c.field(key)
	if err != nil {
		return "", false, err
	}

	return f.V, f.Valid, nil
}

// Set changes the value of the setting key. An empty value unsets it.
func (c *Config) Set(key, value string) error {
	f, err := c.field(key)
	if err != nil {
		return err
	}
	*f = newNullString(value)

	return nil
}

// InvalidKeyError is returned for unknown configuration setting names.
type InvalidKeyError struct {
	Key string
}

func (e InvalidKeyError) Error() string {
	return fmt.Sprintf("invalid configuration key '%s'", e.Key)
}

func (c *Config) isYAML() bool {
	switch strings.ToLower(filepath.Ext(c.path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

type cfgWrapper struct {
	Database   dbCfgWrapper         `json:"database" yaml:"database"`
	Migrations migrationsCfgWrapper `json:"migrations" yaml:"migrations"`
	Ledger     ledgerCfgWrapper     `json:"ledger" yaml:"ledger"`
}
type dbCfgWrapper struct {
	Driver string `json:"driver,omitempty" yaml:"driver,omitempty"`
	Params string `json:"params,omitempty" yaml:"params,omitempty"`
	PGDump string `json:"pg_dump,omitempty" yaml:"pg_dump,omitempty"`
}
type migrationsCfgWrapper struct {
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`
}
type ledgerCfgWrapper struct {
	Table  string `json:"table,omitempty" yaml:"table,omitempty"`
	Column string `json:"column,omitempty" yaml:"column,omitempty"`
}

func (c *Config) toWrapper() cfgWrapper {
	return cfgWrapper{
		Database: dbCfgWrapper{
			Driver: nullString(c.Database.Driver),
			Params: nullString(c.Database.Params),
			PGDump: nullString(c.Database.PGDump),
		},
		Migrations: migrationsCfgWrapper{
			Dir: nullString(c.Migrations.Dir),
		},
		Ledger: ledgerCfgWrapper{
			Table:  nullString(c.Ledger.Table),
			Column: nullString(c.Ledger.Column),
		},
	}
}

func (c *Config) fromWrapper(w cfgWrapper) {
	c.Database.Driver = newNullString(w.Database.Driver)
	c.Database.Params = newNullString(w.Database.Params)
	c.Database.PGDump = newNullString(w.Database.PGDump)
	c.Migrations.Dir = newNullString(w.Migrations.Dir)
	c.Ledger.Table = newNullString(w.Ledger.Table)
	c.Ledger.Column = newNullString(w.Ledger.Column)
}

// MarshalJSON implements custom JSON marshaling to convert sql.Null values
// to their underlying types, omitting invalid/null fields from the output.
func (c Config) MarshalJSON() ([]byte, error) {
	//nolint:wrapcheck // This is fine.
	return json.Marshal(c.toWrapper())
}

// UnmarshalJSON implements custom JSON unmarshaling to convert plain values
// into sql.Null types.
func (c *Config) UnmarshalJSON(data []byte) error {
	var w cfgWrapper
	if err := json.Unmarshal(data, &w); err != nil {
		//nolint:wrapcheck // This is fine.
		return err
	}
	c.fromWrapper(w)

	return nil
}

func nullString(v sql.Null[string]) string {
	if !v.Valid {
		return ""
	}
	return v.V
}

func newNullString(s string) sql.Null[string] {
	return sql.Null[string]{V: s, Valid: s != ""}
}
