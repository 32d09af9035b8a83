//go:build integration

package activity_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"cohort/internal/activity"
	"cohort/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *activity.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = activity.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "scheduled_activities", "activity_events"))
}

func (s *PostgresStoreSuite) TestDeleteForHealthCode() {
	ctx := context.Background()
	now := time.Now().UTC()

	s.Require().NoError(s.store.Schedule(ctx, activity.ScheduledActivity{
		ID: uuid.New(), HealthCode: "hc-1", ActivityRef: "task:walk", ScheduledOn: now,
	}))
	s.Require().NoError(s.store.RecordEvent(ctx, activity.Event{HealthCode: "hc-1", EventID: "enrollment", OccurredAt: now}))
	s.Require().NoError(s.store.RecordEvent(ctx, activity.Event{HealthCode: "hc-1", EventID: "enrollment", OccurredAt: now.Add(time.Minute)}))

	activities, events, err := s.store.Counts(ctx, "hc-1")
	s.Require().NoError(err)
	s.Equal(1, activities)
	s.Equal(1, events)

	s.Require().NoError(s.store.DeleteActivitiesForHealthCode(ctx, "hc-1"))
	s.Require().NoError(s.store.DeleteEventsForHealthCode(ctx, "hc-1"))

	activities, events, err = s.store.Counts(ctx, "hc-1")
	s.Require().NoError(err)
	s.Zero(activities)
	s.Zero(events)
}
