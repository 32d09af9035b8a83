package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"cohort/pkg/domain"
	"cohort/pkg/platform/audit"
	txcontext "cohort/pkg/platform/tx"
)

const selectEvents = `
	SELECT category, timestamp, account_id, study_id, subject,
	       action, decision, reason, request_id, actor_id
	FROM audit_events`

// Store implements audit.Store on the audit_events table. Appends join a
// transaction carried by the context so an event commits with the change it
// describes.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Append inserts one event. The category is re-derived from the action so a
// caller cannot file a deletion under the wrong category.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	var accountID *uuid.UUID
	if !event.AccountID.IsNil() {
		id := uuid.UUID(event.AccountID)
		accountID = &id
	}

	_, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, `
		INSERT INTO audit_events (
			id, category, timestamp, account_id, study_id, subject,
			action, decision, reason, request_id, actor_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		uuid.New(),
		string(audit.AuditEvent(event.Action).Category()),
		event.Timestamp,
		accountID,
		string(event.StudyID),
		event.Subject,
		event.Action,
		event.Decision,
		event.Reason,
		event.RequestID,
		event.ActorID,
	)
	if err != nil {
		return fmt.Errorf("insert audit event %s: %w", event.Action, err)
	}
	return nil
}

// ListByAccount returns one participant's trail, newest first.
func (s *Store) ListByAccount(ctx context.Context, accountID domain.AccountID) ([]audit.Event, error) {
	return s.query(ctx, selectEvents+` WHERE account_id = $1 ORDER BY timestamp DESC`, uuid.UUID(accountID))
}

// ListByAction returns every event of one kind, oldest first. Operators use it
// to find participant_delete_failed entries that need a manual retry.
func (s *Store) ListByAction(ctx context.Context, action audit.AuditEvent) ([]audit.Event, error) {
	return s.query(ctx, selectEvents+` WHERE action = $1 ORDER BY timestamp`, string(action))
}

// ListRecent returns the limit most recent events.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	return s.query(ctx, selectEvents+` ORDER BY timestamp DESC LIMIT $1`, limit)
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]audit.Event, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		var (
			event     audit.Event
			category  string
			studyID   string
			accountID *uuid.UUID
		)
		if err := rows.Scan(&category, &event.Timestamp, &accountID, &studyID, &event.Subject,
			&event.Action, &event.Decision, &event.Reason, &event.RequestID, &event.ActorID); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.Category = audit.EventCategory(category)
		event.StudyID = domain.StudyID(studyID)
		if accountID != nil {
			event.AccountID = domain.AccountID(*accountID)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
