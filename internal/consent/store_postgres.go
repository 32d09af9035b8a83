package consent

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"cohort/pkg/domain"
	txcontext "cohort/pkg/platform/tx"
)

// PostgresStore persists signatures in the consent_signatures table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, sig Signature) error {
	query := `
		INSERT INTO consent_signatures (
			id, study_id, subpopulation_guid, health_code, name, birthdate,
			consent_created_on, signed_on, withdrawn_on
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, query,
		sig.ID,
		string(sig.StudyID),
		string(sig.SubpopulationGUID),
		string(sig.HealthCode),
		sig.Name,
		sig.Birthdate,
		sig.ConsentCreatedOn,
		sig.SignedOn,
		sig.WithdrawnOn,
	)
	if err != nil {
		return fmt.Errorf("save consent signature: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, studyID domain.StudyID, subpop domain.SubpopulationGUID, healthCode domain.HealthCode) ([]Signature, error) {
	query := `
		SELECT id, study_id, subpopulation_guid, health_code, name, birthdate,
		       consent_created_on, signed_on, withdrawn_on
		FROM consent_signatures
		WHERE study_id = $1 AND subpopulation_guid = $2 AND health_code = $3
		ORDER BY signed_on, id
	`
	rows, err := txcontext.Exec(ctx, s.db).QueryContext(ctx, query, string(studyID), string(subpop), string(healthCode))
	if err != nil {
		return nil, fmt.Errorf("list consent signatures: %w", err)
	}
	defer rows.Close()

	var out []Signature
	for rows.Next() {
		var (
			sig                     Signature
			study, subpopGUID, code string
			withdrawn               sql.NullTime
		)
		if err := rows.Scan(&sig.ID, &study, &subpopGUID, &code, &sig.Name, &sig.Birthdate,
			&sig.ConsentCreatedOn, &sig.SignedOn, &withdrawn); err != nil {
			return nil, fmt.Errorf("scan consent signature: %w", err)
		}
		sig.StudyID = domain.StudyID(study)
		sig.SubpopulationGUID = domain.SubpopulationGUID(subpopGUID)
		sig.HealthCode = domain.HealthCode(code)
		if withdrawn.Valid {
			w := withdrawn.Time
			sig.WithdrawnOn = &w
		}
		out = append(out, sig)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate consent signatures: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Withdraw(ctx context.Context, studyID domain.StudyID, subpop domain.SubpopulationGUID, healthCode domain.HealthCode, at time.Time) (int, error) {
	query := `
		UPDATE consent_signatures SET withdrawn_on = $4
		WHERE study_id = $1 AND subpopulation_guid = $2 AND health_code = $3 AND withdrawn_on IS NULL
	`
	res, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, query, string(studyID), string(subpop), string(healthCode), at)
	if err != nil {
		return 0, fmt.Errorf("withdraw consent: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("withdraw consent: %w", err)
	}
	return int(n), nil
}

func (s *PostgresStore) DeleteAll(ctx context.Context, studyID domain.StudyID, healthCode domain.HealthCode) error {
	query := `DELETE FROM consent_signatures WHERE study_id = $1 AND health_code = $2`
	if _, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, query, string(studyID), string(healthCode)); err != nil {
		return fmt.Errorf("delete consent signatures: %w", err)
	}
	return nil
}
