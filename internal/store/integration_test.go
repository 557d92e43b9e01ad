//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/ytget/tokkit/internal/model"
)

type PostgresIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *postgres.PostgresContainer
	db        *sqlx.DB
}

func (s *PostgresIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()

	container, err := postgres.Run(s.ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("tokkit"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	connStr, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := Open(DriverPostgres, connStr)
	s.Require().NoError(err)
	s.db = db

	s.Require().NoError(Migrate(s.ctx, s.db, nil))
}

func (s *PostgresIntegrationSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *PostgresIntegrationSuite) SetupTest() {
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM profiles")
}

func TestPostgresIntegrationSuite(t *testing.T) {
	suite.Run(t, new(PostgresIntegrationSuite))
}

func (s *PostgresIntegrationSuite) TestMigrate_AddsColumn() {
	_, err := s.db.ExecContext(s.ctx, "ALTER TABLE profiles DROP COLUMN auto_update_interval")
	s.Require().NoError(err)

	s.Require().NoError(Migrate(s.ctx, s.db, nil))

	cols, err := tableColumns(s.ctx, s.db)
	s.Require().NoError(err)
	s.True(cols[autoUpdateColumn])
}

func (s *PostgresIntegrationSuite) TestUpsertProfile() {
	repo := NewRepository(s.db)

	s.Require().NoError(repo.UpsertProfile(s.ctx, "alice", "2024-01-15 10:00:00", model.StatusUpdated))
	s.Require().NoError(repo.UpsertProfile(s.ctx, "alice", "2024-01-15 11:00:00", model.StatusUpdateFailed))

	var count int
	s.Require().NoError(s.db.GetContext(s.ctx, &count, "SELECT COUNT(*) FROM profiles WHERE profile_name = $1", "alice"))
	s.Equal(1, count)

	p, err := repo.GetProfile(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.StatusUpdateFailed, p.Status)
}

func (s *PostgresIntegrationSuite) TestAutoUpdateInterval() {
	repo := NewRepository(s.db)

	s.Require().NoError(repo.SetAutoUpdateInterval(s.ctx, model.Interval6Hours))
	got, err := repo.GetAutoUpdateInterval(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.Interval6Hours, got)

	names, err := repo.ListProfileNames(s.ctx)
	s.Require().NoError(err)
	s.Empty(names)
}
