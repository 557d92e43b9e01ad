package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ytget/tokkit/internal/model"
)

const profileColumns = `id, profile_name,
	COALESCE(last_updated, '') AS last_updated,
	COALESCE(status, '') AS status,
	COALESCE(auto_update_interval, 0) AS auto_update_interval`

// Repository reads and writes the profiles table. Profile rows are written
// only by the queue runner; the global row only by the scheduler.
type Repository struct {
	db *sqlx.DB
	tm *TransactionManager
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db, tm: NewTransactionManager(db)}
}

// ListProfiles returns every profile except the global settings row, in insertion order
func (r *Repository) ListProfiles(ctx context.Context) ([]model.Profile, error) {
	exec := GetExecutor(ctx, r.db)
	query := exec.Rebind(`SELECT ` + profileColumns + ` FROM profiles WHERE profile_name <> ? ORDER BY id`)

	var profiles []model.Profile
	if err := exec.SelectContext(ctx, &profiles, query, model.GlobalProfileName); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return profiles, nil
}

// ListProfileNames returns the names of all profiles, for sweeps
func (r *Repository) ListProfileNames(ctx context.Context) ([]string, error) {
	profiles, err := r.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(profiles))
	for _, p := range profiles {
		names = append(names, p.Name)
	}
	return names, nil
}

// GetProfile returns one profile by name or ErrNotFound
func (r *Repository) GetProfile(ctx context.Context, name string) (*model.Profile, error) {
	exec := GetExecutor(ctx, r.db)
	query := exec.Rebind(`SELECT ` + profileColumns + ` FROM profiles WHERE profile_name = ? ORDER BY id LIMIT 1`)

	var p model.Profile
	err := exec.GetContext(ctx, &p, query, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("get profile %s: %w", name, err)
	}
	return &p, nil
}

// UpsertProfile writes last_updated and status for name, inserting the row
// on first completion.
func (r *Repository) UpsertProfile(ctx context.Context, name, lastUpdated string, status model.ProfileStatus) error {
	if name == "" || name == model.GlobalProfileName {
		return fmt.Errorf("invalid profile name %q", name)
	}

	return r.tm.WithTransaction(ctx, func(ctx context.Context) error {
		exec := GetExecutor(ctx, r.db)

		res, err := exec.ExecContext(ctx,
			exec.Rebind(`UPDATE profiles SET last_updated = ?, status = ? WHERE profile_name = ?`),
			lastUpdated, string(status), name)
		if err != nil {
			return fmt.Errorf("update profile %s: %w", name, err)
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			return nil
		}

		_, err = exec.ExecContext(ctx,
			exec.Rebind(`INSERT INTO profiles (profile_name, last_updated, status, auto_update_interval) VALUES (?, ?, ?, 0)`),
			name, lastUpdated, string(status))
		if err != nil {
			return fmt.Errorf("insert profile %s: %w", name, err)
		}
		return nil
	})
}

// GetAutoUpdateInterval returns the persisted interval in milliseconds, 0 when unset
func (r *Repository) GetAutoUpdateInterval(ctx context.Context) (int64, error) {
	exec := GetExecutor(ctx, r.db)
	query := exec.Rebind(`SELECT COALESCE(auto_update_interval, 0) FROM profiles WHERE profile_name = ? ORDER BY id LIMIT 1`)

	var interval int64
	err := exec.GetContext(ctx, &interval, query, model.GlobalProfileName)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get auto-update interval: %w", err)
	}
	return interval, nil
}

// SetAutoUpdateInterval persists the interval on the global row, creating it if needed
func (r *Repository) SetAutoUpdateInterval(ctx context.Context, millis int64) error {
	return r.tm.WithTransaction(ctx, func(ctx context.Context) error {
		exec := GetExecutor(ctx, r.db)

		res, err := exec.ExecContext(ctx,
			exec.Rebind(`UPDATE profiles SET auto_update_interval = ? WHERE profile_name = ?`),
			millis, model.GlobalProfileName)
		if err != nil {
			return fmt.Errorf("update auto-update interval: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			return nil
		}

		_, err = exec.ExecContext(ctx,
			exec.Rebind(`INSERT INTO profiles (profile_name, last_updated, status, auto_update_interval) VALUES (?, '', '', ?)`),
			model.GlobalProfileName, millis)
		if err != nil {
			return fmt.Errorf("insert global settings: %w", err)
		}
		return nil
	})
}

// GlobalSettings returns the values stored on the global row
func (r *Repository) GlobalSettings(ctx context.Context) (model.GlobalSettings, error) {
	interval, err := r.GetAutoUpdateInterval(ctx)
	if err != nil {
		return model.GlobalSettings{}, err
	}
	return model.GlobalSettings{AutoUpdateInterval: interval}, nil
}
