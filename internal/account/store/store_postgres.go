package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"cohort/internal/account/models"
	platformpg "cohort/internal/platform/postgres"
	"cohort/pkg/domain"
	"cohort/pkg/platform/sentinel"
	txcontext "cohort/pkg/platform/tx"
	"cohort/pkg/requestcontext"
)

const uniqueViolation = "23505"

// iterationBatchSize bounds how many rows All holds at once.
const iterationBatchSize = 100

// PostgresAccountStore persists accounts in the accounts table.
type PostgresAccountStore struct {
	db   *sql.DB
	opts options
}

// NewPostgres constructs a PostgreSQL-backed account store.
func NewPostgres(db *sql.DB, opts ...Option) *PostgresAccountStore {
	return &PostgresAccountStore{db: db, opts: buildOptions(opts)}
}

const accountColumns = `id, study_id, email, password_hash, first_name, last_name,
	attributes, roles, health_id, status, created_at`

func (s *PostgresAccountStore) Get(ctx context.Context, studyID domain.StudyID, email string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE study_id = $1 AND email = $2`
	row := txcontext.Exec(ctx, s.db).QueryRowContext(ctx, query, string(studyID), models.NormalizeEmail(email))
	acct, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return acct, nil
}

// Create inserts the account. The health code mapping is minted in the same
// transaction so a failed insert leaves no orphaned mapping behind.
func (s *PostgresAccountStore) Create(ctx context.Context, studyID domain.StudyID, signUp models.SignUp, verifyEmail bool) (*models.Account, error) {
	if err := signUp.Validate(); err != nil {
		return nil, err
	}
	hash, err := hashPassword(signUp.Password, s.opts.bcryptCost)
	if err != nil {
		return nil, err
	}
	acct := &models.Account{
		ID:           domain.NewAccountID(),
		StudyID:      studyID,
		Email:        models.NormalizeEmail(signUp.Email),
		PasswordHash: hash,
		Attributes:   map[string]string{},
		Roles:        domain.NewRoles(signUp.Roles...),
		Status:       models.AccountStatusEnabled,
		CreatedAt:    requestcontext.Now(ctx).UTC().Truncate(time.Microsecond),
	}
	if verifyEmail {
		acct.Status = models.AccountStatusUnverified
	}

	err = platformpg.RunInTx(ctx, s.db, func(ctx context.Context) error {
		if s.opts.minter != nil {
			healthID, _, err := s.opts.minter.Create(ctx, studyID)
			if err != nil {
				return err
			}
			acct.HealthID = healthID
		}
		return s.insert(ctx, acct)
	})
	if err != nil {
		return nil, err
	}
	return acct, nil
}

func (s *PostgresAccountStore) insert(ctx context.Context, acct *models.Account) error {
	attributes, err := json.Marshal(acct.Attributes)
	if err != nil {
		return fmt.Errorf("marshal attributes: %w", err)
	}
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = txcontext.Exec(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(acct.ID),
		string(acct.StudyID),
		acct.Email,
		acct.PasswordHash,
		acct.FirstName,
		acct.LastName,
		attributes,
		pq.Array(acct.Roles.Strings()),
		nullableHealthID(acct.HealthID),
		string(acct.Status),
		acct.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// Update persists the mutable profile fields of an existing account.
func (s *PostgresAccountStore) Update(ctx context.Context, acct *models.Account) error {
	attributes, err := json.Marshal(acct.Attributes)
	if err != nil {
		return fmt.Errorf("marshal attributes: %w", err)
	}
	if acct.Attributes == nil {
		attributes = []byte("{}")
	}
	query := `
		UPDATE accounts
		SET first_name = $3, last_name = $4, attributes = $5, roles = $6, status = $7
		WHERE study_id = $1 AND email = $2
	`
	res, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, query,
		string(acct.StudyID),
		models.NormalizeEmail(acct.Email),
		acct.FirstName,
		acct.LastName,
		attributes,
		pq.Array(acct.Roles.Strings()),
		string(acct.Status),
	)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update account rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// Delete removes the account. Deleting an absent account is not an error.
func (s *PostgresAccountStore) Delete(ctx context.Context, studyID domain.StudyID, email string) error {
	query := `DELETE FROM accounts WHERE study_id = $1 AND email = $2`
	if _, err := txcontext.Exec(ctx, s.db).ExecContext(ctx, query, string(studyID), models.NormalizeEmail(email)); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}

// All iterates every account with keyset pagination. Stopping the iteration
// stops fetching.
func (s *PostgresAccountStore) All(ctx context.Context) iter.Seq2[*models.Account, error] {
	return func(yield func(*models.Account, error) bool) {
		var (
			afterCreated time.Time
			afterID      uuid.UUID
		)
		for {
			batch, err := s.batchAfter(ctx, afterCreated, afterID)
			if err != nil {
				yield(nil, err)
				return
			}
			for _, acct := range batch {
				if !yield(acct, nil) {
					return
				}
			}
			if len(batch) < iterationBatchSize {
				return
			}
			last := batch[len(batch)-1]
			afterCreated, afterID = last.CreatedAt, uuid.UUID(last.ID)
		}
	}
}

func (s *PostgresAccountStore) batchAfter(ctx context.Context, afterCreated time.Time, afterID uuid.UUID) ([]*models.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE (created_at, id) > ($1, $2)
		ORDER BY created_at, id
		LIMIT $3
	`
	rows, err := s.db.QueryContext(ctx, query, afterCreated, afterID, iterationBatchSize)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	batch := make([]*models.Account, 0, iterationBatchSize)
	for rows.Next() {
		acct, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		batch = append(batch, acct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}
	return batch, nil
}

func (s *PostgresAccountStore) Page(ctx context.Context, studyID domain.StudyID, offset, size int, emailFilter string) (*models.PagedAccountSummaries, error) {
	filter := "%" + escapeLike(strings.ToLower(strings.TrimSpace(emailFilter))) + "%"

	var total int
	countQuery := `SELECT COUNT(*) FROM accounts WHERE study_id = $1 AND email LIKE $2`
	if err := s.db.QueryRowContext(ctx, countQuery, string(studyID), filter).Scan(&total); err != nil {
		return nil, fmt.Errorf("count accounts: %w", err)
	}

	query := `
		SELECT id, email, first_name, last_name, status, created_at
		FROM accounts
		WHERE study_id = $1 AND email LIKE $2
		ORDER BY created_at, id
		OFFSET $3 LIMIT $4
	`
	rows, err := s.db.QueryContext(ctx, query, string(studyID), filter, offset, size)
	if err != nil {
		return nil, fmt.Errorf("page accounts: %w", err)
	}
	defer rows.Close()

	page := &models.PagedAccountSummaries{
		Items:       []models.AccountSummary{},
		OffsetBy:    offset,
		PageSize:    size,
		Total:       total,
		EmailFilter: emailFilter,
	}
	for rows.Next() {
		var (
			summary models.AccountSummary
			id      uuid.UUID
			status  string
		)
		if err := rows.Scan(&id, &summary.Email, &summary.FirstName, &summary.LastName, &status, &summary.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan account summary: %w", err)
		}
		summary.ID = domain.AccountID(id)
		summary.Status = models.AccountStatus(status)
		page.Items = append(page.Items, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate account summaries: %w", err)
	}
	return page, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*models.Account, error) {
	var (
		acct       models.Account
		id         uuid.UUID
		studyID    string
		attributes []byte
		roles      []string
		healthID   *uuid.UUID
		status     string
	)
	err := row.Scan(
		&id,
		&studyID,
		&acct.Email,
		&acct.PasswordHash,
		&acct.FirstName,
		&acct.LastName,
		&attributes,
		pq.Array(&roles),
		&healthID,
		&status,
		&acct.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	acct.ID = domain.AccountID(id)
	acct.StudyID = domain.StudyID(studyID)
	acct.Roles = domain.RolesFromStrings(roles)
	acct.Status = models.AccountStatus(status)
	if healthID != nil {
		acct.HealthID = domain.HealthID(*healthID)
	}
	if len(attributes) > 0 {
		if err := json.Unmarshal(attributes, &acct.Attributes); err != nil {
			return nil, fmt.Errorf("unmarshal attributes: %w", err)
		}
	}
	return &acct, nil
}

func nullableHealthID(id domain.HealthID) *uuid.UUID {
	if id.IsNil() {
		return nil
	}
	u := uuid.UUID(id)
	return &u
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
