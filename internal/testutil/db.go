package testutil

import (
	"path/filepath"
	"testing"

	"github.com/starosca/pool-indexer/internal/logger"
	"github.com/starosca/pool-indexer/internal/store"
	"github.com/starosca/pool-indexer/pkg/config"
	"github.com/stretchr/testify/require"
)

// NewTestStore opens a migrated SQLite store in a temporary directory.
func NewTestStore(t *testing.T) *store.Store {
	t.Helper()

	dbConfig := config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "starosca.db")}
	dbConfig.ApplyDefaults()

	s, err := store.Open(dbConfig, nil, logger.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}
