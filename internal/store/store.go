// Package store persists profiles and the global auto-update setting in a
// relational database. SQLite is the default; PostgreSQL is supported for
// shared deployments.
package store

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/ytget/tokkit/internal/platform"
)

// Supported drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DefaultDatabaseFile is the SQLite file name used when no DSN is configured
const DefaultDatabaseFile = "profiles.db"

// sqliteDSNOptions keeps concurrent readers from failing on a locked database
const sqliteDSNOptions = "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

var (
	// ErrNotFound is returned when a profile does not exist.
	ErrNotFound = errors.New("profile not found")
	// ErrUnsupportedDriver is returned by Open for unknown driver names.
	ErrUnsupportedDriver = errors.New("unsupported database driver")
)

// Open connects to the database. SQLite is limited to one connection so all
// writes are serialized through a single handle.
func Open(driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case DriverSQLite:
		if dsn == "" {
			return nil, fmt.Errorf("sqlite: empty database path")
		}
		if err := platform.CreateDirectoryIfNotExists(filepath.Dir(dsn)); err != nil {
			return nil, fmt.Errorf("create database folder: %w", err)
		}
		db, err := sqlx.Connect(DriverSQLite, dsn+sqliteDSNOptions)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", dsn, err)
		}
		db.SetMaxOpenConns(1)
		return db, nil
	case DriverPostgres:
		db, err := sqlx.Connect(DriverPostgres, dsn)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
}
