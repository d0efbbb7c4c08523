package relationaldata_test

import (
	"path/filepath"
	"testing"

	"github.com/bit-badger/myweblog/internal/data"
	"github.com/bit-badger/myweblog/internal/data/datatest"
	"github.com/bit-badger/myweblog/internal/data/relationaldata"
	"github.com/stretchr/testify/require"
)

func TestRelationalBackend(t *testing.T) {
	datatest.RunSuite(t, func(t *testing.T) *data.Data {
		path := filepath.Join(t.TempDir(), "myweblog-rel.db")
		d, err := relationaldata.Open(path)
		require.NoError(t, err)
		t.Cleanup(func() { _ = d.Close() })
		return d
	})
}
