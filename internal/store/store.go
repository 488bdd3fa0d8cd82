package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/russross/meddler"
	internalcommon "github.com/starosca/pool-indexer/internal/common"
	"github.com/starosca/pool-indexer/internal/db"
	"github.com/starosca/pool-indexer/internal/logger"
	"github.com/starosca/pool-indexer/internal/store/migrations"
	"github.com/starosca/pool-indexer/pkg/config"
	pkgstore "github.com/starosca/pool-indexer/pkg/store"
)

const lastBlockKey = "last_block"

// ErrNotMigrated is returned when a read-only open finds a database without the store schema.
var ErrNotMigrated = errors.New("store schema is not migrated")

var (
	_ pkgstore.Writer = (*Store)(nil)
	_ pkgstore.Reader = (*Store)(nil)
)

// Store is the SQLite implementation of the pool read model.
// The indexer is its only writer; the query API reads it concurrently.
type Store struct {
	db          *sql.DB
	maintenance db.Maintenance
	log         *logger.Logger
}

// New wraps an already migrated database.
func New(sqlDB *sql.DB, maintenance db.Maintenance, log *logger.Logger) *Store {
	if maintenance == nil {
		maintenance = db.NoOpMaintenance{}
	}

	return &Store{
		db:          sqlDB,
		maintenance: maintenance,
		log:         log,
	}
}

// Open opens the database, applies migrations and prepares maintenance.
func Open(cfg config.DatabaseConfig, maintenanceCfg *config.MaintenanceConfig, log *logger.Logger) (*Store, error) {
	sqlDB, err := db.NewSQLiteDBFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	if err := migrations.RunMigrations(log, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate store: %w", err)
	}

	maintenance := db.NewMaintenanceCoordinator(cfg.Path, sqlDB, maintenanceCfg, log)

	return New(sqlDB, maintenance, log.WithComponent(internalcommon.ComponentStore)), nil
}

// OpenReadOnly opens an existing, migrated database without write access.
// Migrations are not applied and maintenance stays disabled.
func OpenReadOnly(cfg config.DatabaseConfig, log *logger.Logger) (*Store, error) {
	sqlDB, err := db.NewReadOnlySQLiteDB(cfg)
	if err != nil {
		return nil, err
	}

	var tables int
	if err := sqlDB.QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('pools', 'indexer_state')`,
	).Scan(&tables); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to inspect schema: %w", err)
	}
	if tables != 2 {
		sqlDB.Close()
		return nil, fmt.Errorf("%w: %s", ErrNotMigrated, cfg.Path)
	}

	return New(sqlDB, nil, log.WithComponent(internalcommon.ComponentStore)), nil
}

// Maintenance returns the maintenance coordinator guarding this store.
func (s *Store) Maintenance() db.Maintenance {
	return s.maintenance
}

// DB returns the underlying database handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close stops maintenance and closes the database.
func (s *Store) Close() error {
	if err := s.maintenance.Stop(); err != nil {
		s.log.Warnf("failed to stop maintenance: %v", err)
	}

	return s.db.Close()
}

// SeedCursor moves a fresh cursor to startBlock-1 so scanning begins at startBlock.
// It never lowers an existing cursor.
func (s *Store) SeedCursor(ctx context.Context, startBlock uint64) error {
	if startBlock == 0 {
		return nil
	}

	last, err := s.LastBlock(ctx)
	if err != nil {
		return err
	}

	if last != 0 {
		s.log.Debugf("cursor already at %d, ignoring start block %d", last, startBlock)
		return nil
	}

	if err := s.Update(ctx, func(tx pkgstore.Tx) error {
		return tx.SetLastBlock(startBlock - 1)
	}); err != nil {
		return err
	}

	s.log.Infof("cursor seeded to %d", startBlock-1)
	return nil
}

// LastBlock returns the persisted cursor.
func (s *Store) LastBlock(ctx context.Context) (uint64, error) {
	unlock := s.maintenance.AcquireOperationLock()
	defer unlock()

	return readLastBlock(s.db.QueryRowContext(ctx, `SELECT value FROM indexer_state WHERE key = ?`, lastBlockKey))
}

// PoolAddresses returns every known pool ordered by discovery.
func (s *Store) PoolAddresses(ctx context.Context) ([]common.Address, error) {
	unlock := s.maintenance.AcquireOperationLock()
	defer unlock()

	rows, err := s.db.QueryContext(ctx, `SELECT address FROM pools ORDER BY block_number, address`)
	if err != nil {
		return nil, fmt.Errorf("failed to query pool addresses: %w", err)
	}
	defer rows.Close()

	var addresses []common.Address
	for rows.Next() {
		var address string
		if err := rows.Scan(&address); err != nil {
			return nil, fmt.Errorf("failed to scan pool address: %w", err)
		}
		addresses = append(addresses, common.HexToAddress(address))
	}

	return addresses, rows.Err()
}

// Update runs fn inside a single transaction.
func (s *Store) Update(ctx context.Context, fn func(pkgstore.Tx) error) error {
	unlock := s.maintenance.AcquireOperationLock()
	defer unlock()

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err := dbTx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			s.log.Errorf("failed to rollback transaction: %v", err)
		}
	}()

	if err := fn(&tx{tx: dbTx}); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// tx implements pkgstore.Tx on top of a sql.Tx.
type tx struct {
	tx *sql.Tx
}

func (t *tx) InsertPool(pool *pkgstore.Pool) (bool, error) {
	return insertOrIgnore(t.tx, "pools", pool)
}

func (t *tx) InsertParticipant(participant *pkgstore.Participant) (bool, error) {
	return insertOrIgnore(t.tx, "participants", participant)
}

func (t *tx) InsertPayment(payment *pkgstore.Payment) error {
	if err := meddler.Insert(t.tx, "payments", payment); err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	return nil
}

func (t *tx) InsertDrawing(drawing *pkgstore.Drawing) error {
	if err := meddler.Insert(t.tx, "drawings", drawing); err != nil {
		return fmt.Errorf("failed to insert drawing: %w", err)
	}
	return nil
}

func (t *tx) UpdatePoolStatus(pool common.Address, status pkgstore.PoolStatus) error {
	if _, err := t.tx.Exec(`UPDATE pools SET status = ? WHERE address = ?`, uint8(status), pool.Hex()); err != nil {
		return fmt.Errorf("failed to update status of pool %s: %w", pool.Hex(), err)
	}
	return nil
}

func (t *tx) SetLastBlock(block uint64) error {
	current, err := readLastBlock(t.tx.QueryRow(`SELECT value FROM indexer_state WHERE key = ?`, lastBlockKey))
	if err != nil {
		return err
	}

	if block < current {
		return fmt.Errorf("%w: %d -> %d", pkgstore.ErrCursorRegression, current, block)
	}

	if _, err := t.tx.Exec(`
		INSERT INTO indexer_state (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, lastBlockKey, strconv.FormatUint(block, 10)); err != nil {
		return fmt.Errorf("failed to update cursor: %w", err)
	}

	return nil
}

// insertOrIgnore inserts src unless it conflicts with a unique key, using meddler for the column mapping.
func insertOrIgnore(tx *sql.Tx, table string, src any) (bool, error) {
	columns, err := meddler.Default.ColumnsQuoted(src, false)
	if err != nil {
		return false, err
	}

	placeholders, err := meddler.Default.PlaceholdersString(src, false)
	if err != nil {
		return false, err
	}

	values, err := meddler.Default.Values(src, false)
	if err != nil {
		return false, err
	}

	query := fmt.Sprintf("INSERT OR IGNORE INTO %s (%s) VALUES (%s)", table, columns, placeholders)

	res, err := tx.Exec(query, values...)
	if err != nil {
		return false, fmt.Errorf("failed to insert into %s: %w", table, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

func readLastBlock(row *sql.Row) (uint64, error) {
	var value string
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read cursor: %w", err)
	}

	block, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt cursor value %q: %w", value, err)
	}

	return block, nil
}
