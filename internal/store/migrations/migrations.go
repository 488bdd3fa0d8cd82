package migrations

import (
	"database/sql"
	_ "embed"

	"github.com/starosca/pool-indexer/internal/db"
	"github.com/starosca/pool-indexer/internal/logger"
)

//go:embed 001_pools.sql
var mig001 string

//go:embed 002_yield_snapshots.sql
var mig002 string

// RunMigrations creates the pool schema and seeds the cursor.
func RunMigrations(log *logger.Logger, sqlDB *sql.DB) error {
	return db.RunMigrationsDB(log, sqlDB, []db.Migration{
		{ID: "001_pools.sql", SQL: mig001},
		{ID: "002_yield_snapshots.sql", SQL: mig002},
	})
}
