// Package backends selects and opens a storage backend from configuration.
package backends

import (
	"fmt"

	"github.com/bit-badger/myweblog/internal/config"
	"github.com/bit-badger/myweblog/internal/data"
	"github.com/bit-badger/myweblog/internal/data/postgresdata"
	"github.com/bit-badger/myweblog/internal/data/relationaldata"
	"github.com/bit-badger/myweblog/internal/data/sqlitedata"
)

// Open connects the configured backend and returns the data facade. The
// caller still owns StartUp and Close.
func Open(cfg config.Config) (*data.Data, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		return sqlitedata.Open(cfg.SQLitePath, data.DefaultSerializer())
	case config.BackendPostgres:
		return postgresdata.Open(cfg.PostgresDSN, data.DefaultSerializer())
	case config.BackendRelational:
		return relationaldata.Open(cfg.RelationalPath)
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}
