package options

import (
	"context"
	"database/sql"
	"fmt"

	platformpg "cohort/internal/platform/postgres"
	"cohort/pkg/domain"
	dErrors "cohort/pkg/domain-errors"
	txcontext "cohort/pkg/platform/tx"
)

// PostgresStore persists options in the participant_options table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed options store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) GetAll(ctx context.Context, healthCode domain.HealthCode) (Lookup, error) {
	query := `SELECT option_key, value FROM participant_options WHERE health_code = $1`
	rows, err := txcontext.Exec(ctx, s.db).QueryContext(ctx, query, string(healthCode))
	if err != nil {
		return Lookup{}, fmt.Errorf("query options: %w", err)
	}
	defer rows.Close()

	values := make(map[domain.OptionKey]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return Lookup{}, fmt.Errorf("scan option: %w", err)
		}
		values[domain.OptionKey(key)] = value
	}
	if err := rows.Err(); err != nil {
		return Lookup{}, fmt.Errorf("iterate options: %w", err)
	}
	return NewLookup(values), nil
}

// SetAll upserts every given option in one transaction.
func (s *PostgresStore) SetAll(ctx context.Context, studyID domain.StudyID, healthCode domain.HealthCode, values map[domain.OptionKey]string) error {
	if healthCode.IsEmpty() {
		return dErrors.New(dErrors.CodePrecondition, "options require a health code")
	}
	if len(values) == 0 {
		return nil
	}
	query := `
		INSERT INTO participant_options (health_code, option_key, value, study_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (health_code, option_key) DO UPDATE SET value = EXCLUDED.value
	`
	return platformpg.RunInTx(ctx, s.db, func(ctx context.Context) error {
		exec := txcontext.Exec(ctx, s.db)
		for key, value := range values {
			if _, err := exec.ExecContext(ctx, query, string(healthCode), string(key), value, string(studyID)); err != nil {
				return fmt.Errorf("upsert option %s: %w", key, err)
			}
		}
		return nil
	})
}

func (s *PostgresStore) DeleteAll(ctx context.Context, healthCode domain.HealthCode) error {
	query := `DELETE FROM participant_options WHERE health_code = $1`
	if _, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, query, string(healthCode)); err != nil {
		return fmt.Errorf("delete options: %w", err)
	}
	return nil
}
