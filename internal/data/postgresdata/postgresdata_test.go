package postgresdata_test

import (
	"os"
	"testing"

	"github.com/bit-badger/myweblog/internal/data"
	"github.com/bit-badger/myweblog/internal/data/datatest"
	"github.com/bit-badger/myweblog/internal/data/postgresdata"
	"github.com/stretchr/testify/require"
)

// TestPostgresBackend needs a reachable PostgreSQL instance; point
// MWL_TEST_POSTGRES_DSN at a throwaway database to run it.
func TestPostgresBackend(t *testing.T) {
	dsn := os.Getenv("MWL_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("MWL_TEST_POSTGRES_DSN not set")
	}
	datatest.RunSuite(t, func(t *testing.T) *data.Data {
		d, err := postgresdata.Open(dsn, data.DefaultSerializer())
		require.NoError(t, err)
		t.Cleanup(func() { _ = d.Close() })
		return d
	})
}
