package externalid

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	platformpg "cohort/internal/platform/postgres"
	"cohort/pkg/domain"
	"cohort/pkg/platform/sentinel"
	txcontext "cohort/pkg/platform/tx"
	"cohort/pkg/requestcontext"
)

// PostgresStore applies the external ID state machine with conditional
// updates so concurrent callers cannot both win a transition.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed external ID store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Add(ctx context.Context, studyID domain.StudyID, ids ...string) error {
	query := `
		INSERT INTO external_ids (study_id, external_id, state, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (study_id, external_id) DO NOTHING
	`
	now := requestcontext.Now(ctx)
	return platformpg.RunInTx(ctx, s.db, func(ctx context.Context) error {
		exec := txcontext.Exec(ctx, s.db)
		for _, id := range ids {
			if _, err := exec.ExecContext(ctx, query, string(studyID), id, string(StateAvailable), now); err != nil {
				return fmt.Errorf("add external id: %w", err)
			}
		}
		return nil
	})
}

func (s *PostgresStore) Get(ctx context.Context, studyID domain.StudyID, id string) (*Assignment, error) {
	query := `
		SELECT state, COALESCE(health_code, ''), updated_at
		FROM external_ids
		WHERE study_id = $1 AND external_id = $2
	`
	a := &Assignment{StudyID: studyID, ExternalID: id}
	var state, healthCode string
	err := txcontext.Exec(ctx, s.db).QueryRowContext(ctx, query, string(studyID), id).Scan(&state, &healthCode, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find external id: %w", err)
	}
	a.State = State(state)
	a.HealthCode = domain.HealthCode(healthCode)
	return a, nil
}

func (s *PostgresStore) Reserve(ctx context.Context, studyID domain.StudyID, id string, staleBefore time.Time) error {
	query := `
		UPDATE external_ids
		SET state = 'reserved', updated_at = $3
		WHERE study_id = $1 AND external_id = $2
		  AND (state = 'available' OR (state = 'reserved' AND updated_at < $4))
	`
	updated, err := s.transition(ctx, query, string(studyID), id, requestcontext.Now(ctx), staleBefore)
	if err != nil {
		return fmt.Errorf("reserve external id: %w", err)
	}
	if updated {
		return nil
	}
	if _, err := s.Get(ctx, studyID, id); err != nil {
		return err
	}
	return sentinel.ErrConflict
}

func (s *PostgresStore) Assign(ctx context.Context, studyID domain.StudyID, id string, healthCode domain.HealthCode) error {
	query := `
		UPDATE external_ids
		SET state = 'assigned', health_code = $3, updated_at = $4
		WHERE study_id = $1 AND external_id = $2
		  AND (state IN ('available', 'reserved') OR (state = 'assigned' AND health_code = $3))
	`
	updated, err := s.transition(ctx, query, string(studyID), id, string(healthCode), requestcontext.Now(ctx))
	if err != nil {
		return fmt.Errorf("assign external id: %w", err)
	}
	if updated {
		return nil
	}
	if _, err := s.Get(ctx, studyID, id); err != nil {
		return err
	}
	return sentinel.ErrConflict
}

func (s *PostgresStore) Release(ctx context.Context, studyID domain.StudyID, id string) error {
	query := `
		UPDATE external_ids
		SET state = 'available', updated_at = $3
		WHERE study_id = $1 AND external_id = $2 AND state = 'reserved'
	`
	updated, err := s.transition(ctx, query, string(studyID), id, requestcontext.Now(ctx))
	if err != nil {
		return fmt.Errorf("release external id: %w", err)
	}
	if updated {
		return nil
	}
	a, err := s.Get(ctx, studyID, id)
	if err != nil {
		return err
	}
	if a.State == StateAssigned {
		return sentinel.ErrInvalidState
	}
	return nil
}

func (s *PostgresStore) transition(ctx context.Context, query string, args ...any) (bool, error) {
	res, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
