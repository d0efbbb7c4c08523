// Package config loads the settings the storage layer needs: which backend
// to run and how to reach it. Values come from environment variables with
// safe defaults; an optional YAML file supplies the same settings for
// installs that prefer a file over an environment.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Backend names accepted in Config.Backend.
const (
	BackendSQLite     = "sqlite"
	BackendPostgres   = "postgres"
	BackendRelational = "relational"
)

// Config carries the storage configuration for one instance.
type Config struct {
	// Backend selects the adapter: sqlite (document store), postgres
	// (JSONB), or relational.
	Backend string `yaml:"backend"`
	// SQLitePath is the database file for the sqlite document store.
	SQLitePath string `yaml:"sqlitePath"`
	// PostgresDSN is the lib/pq connection string for the JSONB backend.
	PostgresDSN string `yaml:"postgresDsn"`
	// RelationalPath is the database file for the relational backend.
	RelationalPath string `yaml:"relationalPath"`
}

// Load reads configuration from the environment, first overlaying the YAML
// file named by MWL_CONFIG_FILE (or ./myweblog.yml when present).
func Load() (Config, error) {
	cfg := Config{
		Backend:        BackendSQLite,
		SQLitePath:     "./data/myweblog.db",
		RelationalPath: "./data/myweblog-rel.db",
	}

	file := strings.TrimSpace(os.Getenv("MWL_CONFIG_FILE"))
	if file == "" {
		if _, err := os.Stat("myweblog.yml"); err == nil {
			file = "myweblog.yml"
		}
	}
	if file != "" {
		raw, err := os.ReadFile(file)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file %s: %w", file, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", file, err)
		}
	}

	if v := strings.TrimSpace(os.Getenv("MWL_BACKEND")); v != "" {
		cfg.Backend = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv("MWL_SQLITE_PATH")); v != "" {
		cfg.SQLitePath = v
	}
	if v := strings.TrimSpace(os.Getenv("MWL_POSTGRES_DSN")); v != "" {
		cfg.PostgresDSN = v
	}
	if v := strings.TrimSpace(os.Getenv("MWL_RELATIONAL_PATH")); v != "" {
		cfg.RelationalPath = v
	}

	switch cfg.Backend {
	case BackendSQLite, BackendRelational:
	case BackendPostgres:
		if cfg.PostgresDSN == "" {
			return Config{}, fmt.Errorf("backend %s requires MWL_POSTGRES_DSN", cfg.Backend)
		}
	default:
		return Config{}, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
	return cfg, nil
}
