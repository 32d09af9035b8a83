//go:build integration

package externalid_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"cohort/internal/externalid"
	"cohort/pkg/platform/sentinel"
	"cohort/pkg/requestcontext"
	"cohort/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *externalid.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = externalid.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "external_ids"))
}

func (s *PostgresStoreSuite) TestStateMachine() {
	now := time.Now().UTC().Truncate(time.Millisecond)
	ctx := requestcontext.WithTime(context.Background(), now)
	s.Require().NoError(s.store.Add(ctx, "api", "ext-1"))

	s.Run("reserve then conflict", func() {
		s.Require().NoError(s.store.Reserve(ctx, "api", "ext-1", now.Add(-time.Minute)))
		s.ErrorIs(s.store.Reserve(ctx, "api", "ext-1", now.Add(-time.Minute)), sentinel.ErrConflict)
	})

	s.Run("stale reservation is reclaimable", func() {
		s.NoError(s.store.Reserve(ctx, "api", "ext-1", now.Add(time.Second)))
	})

	s.Run("assign is idempotent per health code", func() {
		s.Require().NoError(s.store.Assign(ctx, "api", "ext-1", "hc-1"))
		s.NoError(s.store.Assign(ctx, "api", "ext-1", "hc-1"))
		s.ErrorIs(s.store.Assign(ctx, "api", "ext-1", "hc-2"), sentinel.ErrConflict)

		a, err := s.store.Get(ctx, "api", "ext-1")
		s.Require().NoError(err)
		s.Equal(externalid.StateAssigned, a.State)
		s.Equal("hc-1", string(a.HealthCode))
	})

	s.Run("assigned ids cannot be released", func() {
		s.ErrorIs(s.store.Release(ctx, "api", "ext-1"), sentinel.ErrInvalidState)
	})

	s.Run("unknown id", func() {
		s.ErrorIs(s.store.Reserve(ctx, "api", "missing", now), sentinel.ErrNotFound)
		s.ErrorIs(s.store.Release(ctx, "api", "missing"), sentinel.ErrNotFound)
	})
}

func (s *PostgresStoreSuite) TestConcurrentReserveHasOneWinner() {
	ctx := context.Background()
	s.Require().NoError(s.store.Add(ctx, "api", "ext-race"))

	const workers = 8
	results := make(chan error, workers)
	for range workers {
		go func() {
			results <- s.store.Reserve(ctx, "api", "ext-race", time.Now().Add(-time.Minute))
		}()
	}

	wins := 0
	for range workers {
		if err := <-results; err == nil {
			wins++
		} else {
			s.ErrorIs(err, sentinel.ErrConflict)
		}
	}
	s.Equal(1, wins)
}
