package db

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"

	_ "github.com/mattn/go-sqlite3"
	"github.com/starosca/pool-indexer/pkg/config"
)

// ErrDatabaseMissing is returned when a read-only open finds no database file.
var ErrDatabaseMissing = errors.New("database file does not exist")

// Mode selects how connections may use the database file.
type Mode int

const (
	// ModeReadWrite creates the file when missing and allows writes.
	ModeReadWrite Mode = iota
	// ModeReadOnly requires an existing file and rejects every write.
	ModeReadOnly
)

// DSN builds the go-sqlite3 connection string for cfg.
// Every pragma is a connection parameter and applies to each pooled connection.
func DSN(cfg config.DatabaseConfig, mode Mode) string {
	params := url.Values{}
	params.Set("_txlock", "immediate")
	params.Set("_foreign_keys", onOff(cfg.ForeignKeysEnabled()))

	if cfg.Synchronous != "" {
		params.Set("_synchronous", cfg.Synchronous)
	}
	if cfg.BusyTimeout > 0 {
		params.Set("_busy_timeout", strconv.Itoa(cfg.BusyTimeout))
	}
	if cfg.CacheSize != 0 {
		params.Set("_cache_size", strconv.Itoa(cfg.CacheSize))
	}

	switch mode {
	case ModeReadOnly:
		// journal mode is persisted in the file and cannot be changed read-only
		params.Set("mode", "ro")
	default:
		if cfg.JournalMode != "" {
			params.Set("_journal_mode", cfg.JournalMode)
		}
	}

	return "file:" + cfg.Path + "?" + params.Encode()
}

// NewSQLiteDB opens a read-write database at dbPath with default settings.
func NewSQLiteDB(dbPath string) (*sql.DB, error) {
	cfg := config.DatabaseConfig{Path: dbPath}
	cfg.ApplyDefaults()

	return NewSQLiteDBFromConfig(cfg)
}

// NewSQLiteDBFromConfig opens the store database for reading and writing.
func NewSQLiteDBFromConfig(cfg config.DatabaseConfig) (*sql.DB, error) {
	return open(cfg, ModeReadWrite)
}

// NewReadOnlySQLiteDB opens an existing store database without write access.
// Nothing is created on disk when the file is missing.
func NewReadOnlySQLiteDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	if _, err := os.Stat(cfg.Path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDatabaseMissing, cfg.Path)
		}
		return nil, fmt.Errorf("failed to stat database: %w", err)
	}

	return open(cfg, ModeReadOnly)
}

func open(cfg config.DatabaseConfig, mode Mode) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", DSN(cfg, mode))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.MaxOpenConnections > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConnections)
	}
	if cfg.MaxIdleConnections > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConnections)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database %s: %w", cfg.Path, err)
	}

	return db, nil
}

func onOff(enabled bool) string {
	if enabled {
		return "on"
	}
	return "off"
}

// DBTotalSize returns the combined size of the database file and its WAL and shared-memory companions.
func DBTotalSize(dbPath string) (int64, error) {
	var total int64

	for _, path := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return 0, err
		}
		total += info.Size()
	}

	return total, nil
}
