package healthcode

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"cohort/pkg/domain"
	"cohort/pkg/platform/sentinel"
	txcontext "cohort/pkg/platform/tx"
	"cohort/pkg/requestcontext"
)

// PostgresStore persists health code mappings in the health_codes table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed health code store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Resolve(ctx context.Context, healthID domain.HealthID) (domain.HealthCode, error) {
	var code string
	query := `SELECT health_code FROM health_codes WHERE health_id = $1`
	err := txcontext.Exec(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(healthID)).Scan(&code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", sentinel.ErrNotFound
		}
		return "", fmt.Errorf("resolve health code: %w", err)
	}
	return domain.HealthCode(code), nil
}

// Create inserts a new mapping. It joins the transaction carried by ctx, if any.
func (s *PostgresStore) Create(ctx context.Context, studyID domain.StudyID) (domain.HealthID, domain.HealthCode, error) {
	healthID := domain.NewHealthID()
	code := newHealthCode()

	query := `
		INSERT INTO health_codes (health_id, health_code, study_id, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(healthID),
		string(code),
		string(studyID),
		requestcontext.Now(ctx),
	)
	if err != nil {
		return domain.HealthID{}, "", fmt.Errorf("create health code: %w", err)
	}
	return healthID, code, nil
}
