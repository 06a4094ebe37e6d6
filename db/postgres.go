package db

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

const defaultPGDump = "pg_dump"

type postgresDialect struct {
	config *pgx.ConnConfig
	// params are the raw connection parameters, needed for the TLS settings
	// pgx doesn't keep in their original form.
	params string
	pgDump string
}

func openPostgres(opts Options) (*DB, error) {
	cfg, err := pgx.ParseConfig(opts.Params)
	if err != nil {
		return nil, fmt.Errorf("failed parsing PostgreSQL connection parameters: %w", err)
	}
	if opts.Database != "" {
		cfg.Database = opts.Database
	}

	pgDump := opts.PGDump
	if pgDump == "" {
		pgDump = defaultPGDump
	}

	return &DB{
		DB:       stdlib.OpenDB(*cfg),
		dialect:  &postgresDialect{config: cfg, params: opts.Params, pgDump: pgDump},
		database: cfg.Database,
	}, nil
}

func (*postgresDialect) placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

// dumpSchema runs pg_dump against the same server and database the session is
// connected to.
func (pd *postgresDialect) dumpSchema(ctx context.Context, _ *DB) (string, error) {
	cmd := exec.CommandContext(ctx, pd.pgDump,
		"--schema-only", "--no-owner", "--no-privileges")
	cmd.Env = append(os.Environ(), pd.env()...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return "", fmt.Errorf("failed running %s: %w", pd.pgDump, err)
		}
		return "", fmt.Errorf("failed running %s: %w: %s", pd.pgDump, err, msg)
	}

	return stdout.String(), nil
}

// sslEnv maps connection parameters to the libpq environment variables
// pg_dump reads them from.
var sslEnv = []struct{ param, env string }{
	{"sslmode", "PGSSLMODE"},
	{"sslrootcert", "PGSSLROOTCERT"},
	{"sslcert", "PGSSLCERT"},
	{"sslkey", "PGSSLKEY"},
	{"sslcrl", "PGSSLCRL"},
	{"sslsni", "PGSSLSNI"},
	{"sslnegotiation", "PGSSLNEGOTIATION"},
}

// env returns the libpq environment variables that point pg_dump at the
// configured server, with the same TLS requirements as the session.
func (pd *postgresDialect) env() []string {
	cfg := pd.config
	env := []string{
		"PGHOST=" + cfg.Host,
		"PGPORT=" + strconv.Itoa(int(cfg.Port)),
		"PGDATABASE=" + cfg.Database,
	}
	if cfg.User != "" {
		env = append(env, "PGUSER="+cfg.User)
	}
	if cfg.Password != "" {
		env = append(env, "PGPASSWORD="+cfg.Password)
	}

	params := parseConnParams(pd.params)
	for _, s := range sslEnv {
		if v, ok := params[s.param]; ok {
			env = append(env, s.env+"="+v)
		}
	}
	if _, ok := params["sslmode"]; !ok && cfg.TLSConfig == nil {
		env = append(env, "PGSSLMODE=disable")
	}

	return env
}

// parseConnParams returns the settings of a connection string in either URL
// or keyword/value form. The string must already have been accepted by
// pgx.ParseConfig.
func parseConnParams(connString string) map[string]string {
	connString = strings.TrimSpace(connString)
	if strings.HasPrefix(connString, "postgres://") || strings.HasPrefix(connString, "postgresql://") {
		u, err := url.Parse(connString)
		if err != nil {
			return map[string]string{}
		}
		params := map[string]string{}
		for k, v := range u.Query() {
			if len(v) > 0 {
				params[k] = v[len(v)-1]
			}
		}
		return params
	}

	return parseKeywordParams(connString)
}

// parseKeywordParams parses libpq keyword/value settings, e.g.
// "host=localhost sslcert='/etc/my certs/client.pem'".
func parseKeywordParams(s string) map[string]string {
	params := map[string]string{}
	for {
		s = strings.TrimLeft(s, " \t\n\r")
		eq := strings.IndexByte(s, '=')
		if eq < 0 {
			return params
		}
		key := strings.TrimSpace(s[:eq])
		s = strings.TrimLeft(s[eq+1:], " \t\n\r")

		var val strings.Builder
		quoted := strings.HasPrefix(s, "'")
		if quoted {
			s = s[1:]
		}
		i := 0
		for ; i < len(s); i++ {
			c := s[i]
			if c == '\\' && i+1 < len(s) {
				i++
				val.WriteByte(s[i])
				continue
			}
			if (quoted && c == '\'') || (!quoted && strings.IndexByte(" \t\n\r", c) >= 0) {
				i++
				break
			}
			val.WriteByte(c)
		}
		s = s[i:]
		params[key] = val.String()
	}
}
