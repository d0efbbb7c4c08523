package sqlitedata_test

import (
	"path/filepath"
	"testing"

	"github.com/bit-badger/myweblog/internal/data"
	"github.com/bit-badger/myweblog/internal/data/datatest"
	"github.com/bit-badger/myweblog/internal/data/sqlitedata"
	"github.com/stretchr/testify/require"
)

func TestSQLiteBackend(t *testing.T) {
	datatest.RunSuite(t, func(t *testing.T) *data.Data {
		path := filepath.Join(t.TempDir(), "myweblog.db")
		d, err := sqlitedata.Open(path, data.DefaultSerializer())
		require.NoError(t, err)
		t.Cleanup(func() { _ = d.Close() })
		return d
	})
}
