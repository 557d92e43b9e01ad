package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
)

const autoUpdateColumn = "auto_update_interval"

var createTable = map[string]string{
	DriverSQLite: `
		CREATE TABLE IF NOT EXISTS profiles (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			profile_name TEXT NOT NULL,
			last_updated TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT ''
		)`,
	DriverPostgres: `
		CREATE TABLE IF NOT EXISTS profiles (
			id SERIAL PRIMARY KEY,
			profile_name TEXT NOT NULL,
			last_updated TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT ''
		)`,
}

// Migrate creates the profiles table and adds the auto-update column when an
// older database lacks it. Existing rows are never touched. Safe to run on
// every startup.
func Migrate(ctx context.Context, db *sqlx.DB, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	ddl, ok := createTable[db.DriverName()]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedDriver, db.DriverName())
	}
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create profiles table: %w", err)
	}

	columns, err := tableColumns(ctx, db)
	if err != nil {
		return err
	}
	if !columns[autoUpdateColumn] {
		logger.Info("adding missing column", "table", "profiles", "column", autoUpdateColumn)
		alter := "ALTER TABLE profiles ADD COLUMN " + autoUpdateColumn + " INTEGER DEFAULT 0"
		if _, err := db.ExecContext(ctx, alter); err != nil {
			return fmt.Errorf("add %s column: %w", autoUpdateColumn, err)
		}
	}
	return nil
}

func tableColumns(ctx context.Context, db *sqlx.DB) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, "SELECT * FROM profiles LIMIT 0")
	if err != nil {
		return nil, fmt.Errorf("inspect profiles table: %w", err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("inspect profiles columns: %w", err)
	}
	columns := make(map[string]bool, len(names))
	for _, n := range names {
		columns[n] = true
	}
	return columns, nil
}
