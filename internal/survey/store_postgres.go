package survey

import (
	"context"
	"database/sql"
	"fmt"

	"cohort/pkg/domain"
	txcontext "cohort/pkg/platform/tx"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, r Response) error {
	answers := r.Answers
	if len(answers) == 0 {
		answers = []byte("[]")
	}
	query := `
		INSERT INTO survey_responses (id, health_code, survey_guid, identifier, answers, created_on)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, query,
		r.ID, string(r.HealthCode), r.SurveyGUID, r.Identifier, []byte(answers), r.CreatedOn)
	if err != nil {
		return fmt.Errorf("save survey response: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteResponsesForHealthCode(ctx context.Context, healthCode domain.HealthCode) error {
	query := `DELETE FROM survey_responses WHERE health_code = $1`
	if _, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, query, string(healthCode)); err != nil {
		return fmt.Errorf("delete survey responses: %w", err)
	}
	return nil
}

func (s *PostgresStore) Count(ctx context.Context, healthCode domain.HealthCode) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM survey_responses WHERE health_code = $1`
	if err := txcontext.Exec(ctx, s.db).QueryRowContext(ctx, query, string(healthCode)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count survey responses: %w", err)
	}
	return n, nil
}
