package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MWL_CONFIG_FILE", "")
	t.Setenv("MWL_BACKEND", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend != BackendSQLite {
		t.Fatalf("expected default backend %s, got %s", BackendSQLite, cfg.Backend)
	}
	if cfg.SQLitePath == "" {
		t.Fatal("expected a default sqlite path")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("MWL_CONFIG_FILE", "")
	t.Setenv("MWL_BACKEND", "Relational")
	t.Setenv("MWL_RELATIONAL_PATH", "/tmp/rel.db")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend != BackendRelational {
		t.Fatalf("expected backend %s, got %s", BackendRelational, cfg.Backend)
	}
	if cfg.RelationalPath != "/tmp/rel.db" {
		t.Fatalf("expected overridden path, got %s", cfg.RelationalPath)
	}
}

func TestLoadYAMLFileWithEnvWinning(t *testing.T) {
	file := filepath.Join(t.TempDir(), "myweblog.yml")
	if err := os.WriteFile(file, []byte("backend: relational\nsqlitePath: /from/file.db\n"), 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	t.Setenv("MWL_CONFIG_FILE", file)
	t.Setenv("MWL_BACKEND", "sqlite")
	t.Setenv("MWL_SQLITE_PATH", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend != BackendSQLite {
		t.Fatalf("environment should override the file, got %s", cfg.Backend)
	}
	if cfg.SQLitePath != "/from/file.db" {
		t.Fatalf("expected path from file, got %s", cfg.SQLitePath)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("MWL_CONFIG_FILE", "")
	t.Setenv("MWL_BACKEND", "rethinkdb")
	if _, err := Load(); err == nil {
		t.Fatal("expected an error for an unknown backend")
	}
}

func TestLoadPostgresRequiresDSN(t *testing.T) {
	t.Setenv("MWL_CONFIG_FILE", "")
	t.Setenv("MWL_BACKEND", "postgres")
	t.Setenv("MWL_POSTGRES_DSN", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected an error when the DSN is missing")
	}
}
