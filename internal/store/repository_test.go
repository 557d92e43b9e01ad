package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/tokkit/internal/model"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := Open(DriverSQLite, filepath.Join(t.TempDir(), "data", DefaultDatabaseFile))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, Migrate(context.Background(), db, nil))
	return db
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open("mysql", "x")
	assert.ErrorIs(t, err, ErrUnsupportedDriver)

	_, err = Open(DriverSQLite, "")
	assert.Error(t, err)
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(context.Background(), db, nil))
	require.NoError(t, Migrate(context.Background(), db, nil))
}

func TestMigrate_AddsMissingColumnKeepingRows(t *testing.T) {
	ctx := context.Background()
	db, err := Open(DriverSQLite, filepath.Join(t.TempDir(), DefaultDatabaseFile))
	require.NoError(t, err)
	defer db.Close()

	// layout written by older releases
	_, err = db.ExecContext(ctx, `CREATE TABLE profiles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		profile_name TEXT NOT NULL,
		last_updated TEXT NOT NULL,
		status TEXT NOT NULL)`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO profiles (profile_name, last_updated, status) VALUES ('alice', '2024-01-15 10:00:00', 'Updated')`)
	require.NoError(t, err)

	require.NoError(t, Migrate(ctx, db, nil))

	repo := NewRepository(db)
	p, err := repo.GetProfile(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15 10:00:00", p.LastUpdated)
	assert.Equal(t, model.StatusUpdated, p.Status)
	assert.Equal(t, int64(0), p.AutoUpdateInterval)
}

func TestUpsertProfile(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(openTestDB(t))

	require.NoError(t, repo.UpsertProfile(ctx, "alice", "2024-01-15 10:00:00", model.StatusUpdated))
	require.NoError(t, repo.UpsertProfile(ctx, "bob", "2024-01-15 10:05:00", model.StatusDownloaded))
	require.NoError(t, repo.UpsertProfile(ctx, "alice", "2024-01-16 09:00:00", model.StatusUpdateFailed))

	profiles, err := repo.ListProfiles(ctx)
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "alice", profiles[0].Name)
	assert.Equal(t, "2024-01-16 09:00:00", profiles[0].LastUpdated)
	assert.Equal(t, model.StatusUpdateFailed, profiles[0].Status)
	assert.Equal(t, "bob", profiles[1].Name)

	assert.Error(t, repo.UpsertProfile(ctx, model.GlobalProfileName, "", model.StatusUpdated))
	assert.Error(t, repo.UpsertProfile(ctx, "", "", model.StatusUpdated))
}

func TestGetProfile_NotFound(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	_, err := repo.GetProfile(context.Background(), "nobody")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestAutoUpdateInterval_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(openTestDB(t))

	interval, err := repo.GetAutoUpdateInterval(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), interval)

	for _, want := range []int64{model.Interval1Hour, model.Interval30Seconds, model.IntervalOff} {
		require.NoError(t, repo.SetAutoUpdateInterval(ctx, want))
		got, err := repo.GetAutoUpdateInterval(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	settings, err := repo.GlobalSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.IntervalOff, settings.AutoUpdateInterval)
}

func TestListProfileNames_ExcludesGlobal(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(openTestDB(t))

	require.NoError(t, repo.SetAutoUpdateInterval(ctx, model.Interval2Hours))
	require.NoError(t, repo.UpsertProfile(ctx, "alice", "2024-01-15 10:00:00", model.StatusUpdated))
	require.NoError(t, repo.UpsertProfile(ctx, "bob", "2024-01-15 10:00:00", model.StatusUpdated))

	names, err := repo.ListProfileNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, names)
}

func TestTransaction_Rollback(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := NewRepository(db)
	tm := NewTransactionManager(db)

	err := tm.WithTransaction(ctx, func(ctx context.Context) error {
		if err := repo.UpsertProfile(ctx, "alice", "2024-01-15 10:00:00", model.StatusUpdated); err != nil {
			return err
		}
		return context.Canceled
	})
	require.ErrorIs(t, err, context.Canceled)

	_, err = repo.GetProfile(ctx, "alice")
	assert.ErrorIs(t, err, ErrNotFound)
}
