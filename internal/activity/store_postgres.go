package activity

import (
	"context"
	"database/sql"
	"fmt"

	"cohort/pkg/domain"
	txcontext "cohort/pkg/platform/tx"
)

// PostgresStore persists scheduled_activities and activity_events.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Schedule(ctx context.Context, a ScheduledActivity) error {
	query := `
		INSERT INTO scheduled_activities (id, health_code, activity_ref, scheduled_on, finished_on)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, query,
		a.ID, string(a.HealthCode), a.ActivityRef, a.ScheduledOn, a.FinishedOn)
	if err != nil {
		return fmt.Errorf("schedule activity: %w", err)
	}
	return nil
}

func (s *PostgresStore) RecordEvent(ctx context.Context, e Event) error {
	query := `
		INSERT INTO activity_events (health_code, event_id, occurred_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (health_code, event_id) DO UPDATE SET occurred_at = EXCLUDED.occurred_at
	`
	_, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, query, string(e.HealthCode), e.EventID, e.OccurredAt)
	if err != nil {
		return fmt.Errorf("record activity event: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteActivitiesForHealthCode(ctx context.Context, healthCode domain.HealthCode) error {
	query := `DELETE FROM scheduled_activities WHERE health_code = $1`
	if _, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, query, string(healthCode)); err != nil {
		return fmt.Errorf("delete scheduled activities: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteEventsForHealthCode(ctx context.Context, healthCode domain.HealthCode) error {
	query := `DELETE FROM activity_events WHERE health_code = $1`
	if _, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, query, string(healthCode)); err != nil {
		return fmt.Errorf("delete activity events: %w", err)
	}
	return nil
}

// Counts returns the number of scheduled activities and events for a health code.
func (s *PostgresStore) Counts(ctx context.Context, healthCode domain.HealthCode) (activities, events int, err error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM scheduled_activities WHERE health_code = $1),
			(SELECT COUNT(*) FROM activity_events WHERE health_code = $1)
	`
	err = txcontext.Exec(ctx, s.db).QueryRowContext(ctx, query, string(healthCode)).Scan(&activities, &events)
	if err != nil {
		return 0, 0, fmt.Errorf("count activities: %w", err)
	}
	return activities, events, nil
}
