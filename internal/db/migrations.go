package db

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/starosca/pool-indexer/internal/logger"
	migrate "github.com/rubenv/sql-migrate"
)

const (
	UpDownSeparator = "-- +migrate Up"
	downMarker      = "-- +migrate Down"
)

// Migration is a single embedded SQL file. The Down section comes first, followed by
// the "-- +migrate Up" separator and the Up section.
type Migration struct {
	ID  string
	SQL string
}

// RunMigrationsDB applies every pending migration in order.
func RunMigrationsDB(log *logger.Logger, db *sql.DB, migrations []Migration) error {
	source := &migrate.MemoryMigrationSource{}

	ids := make([]string, 0, len(migrations))
	for _, m := range migrations {
		down, up, found := strings.Cut(m.SQL, UpDownSeparator)
		if !found {
			return fmt.Errorf("migration %s missing '%s' separator", m.ID, UpDownSeparator)
		}

		if idx := strings.Index(down, downMarker); idx != -1 {
			down = down[idx+len(downMarker):]
		}

		source.Migrations = append(source.Migrations, &migrate.Migration{
			Id:   m.ID,
			Up:   []string{strings.TrimSpace(up)},
			Down: []string{strings.TrimSpace(down)},
		})
		ids = append(ids, m.ID)
	}

	log.Debugf("running migrations: %s", strings.Join(ids, ", "))

	n, err := migrate.Exec(db, "sqlite3", source, migrate.Up)
	if err != nil {
		return fmt.Errorf("error executing migrations %s: %w", strings.Join(ids, ", "), err)
	}

	log.Infof("successfully ran %d migrations", n)
	return nil
}
