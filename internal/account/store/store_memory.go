package store

import (
	"context"
	"iter"
	"slices"
	"strings"
	"sync"

	"cohort/internal/account/models"
	"cohort/pkg/domain"
	"cohort/pkg/platform/sentinel"
	"cohort/pkg/requestcontext"
)

// InMemoryAccountStore keeps accounts in a map. Returned accounts are copies.
type InMemoryAccountStore struct {
	mu       sync.RWMutex
	accounts map[string]*models.Account
	opts     options
}

// NewInMemory creates an empty in-memory account store.
func NewInMemory(opts ...Option) *InMemoryAccountStore {
	return &InMemoryAccountStore{
		accounts: make(map[string]*models.Account),
		opts:     buildOptions(opts),
	}
}

func accountKey(studyID domain.StudyID, email string) string {
	return string(studyID) + "|" + models.NormalizeEmail(email)
}

func (s *InMemoryAccountStore) Get(_ context.Context, studyID domain.StudyID, email string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acct, ok := s.accounts[accountKey(studyID, email)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return acct.Clone(), nil
}

func (s *InMemoryAccountStore) Create(ctx context.Context, studyID domain.StudyID, signUp models.SignUp, verifyEmail bool) (*models.Account, error) {
	if err := signUp.Validate(); err != nil {
		return nil, err
	}
	key := accountKey(studyID, signUp.Email)

	s.mu.RLock()
	_, exists := s.accounts[key]
	s.mu.RUnlock()
	if exists {
		return nil, sentinel.ErrConflict
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
		Roles:        domain.NewRoles(signUp.Roles...),
		Status:       models.AccountStatusEnabled,
		CreatedAt:    requestcontext.Now(ctx),
	}
	if verifyEmail {
		acct.Status = models.AccountStatusUnverified
	}
	if s.opts.minter != nil {
		healthID, _, err := s.opts.minter.Create(ctx, studyID)
		if err != nil {
			return nil, err
		}
		acct.HealthID = healthID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[key]; exists {
		return nil, sentinel.ErrConflict
	}
	s.accounts[key] = acct
	return acct.Clone(), nil
}

// Put stores an account as-is. Used to seed fixtures such as accounts that
// never received a health code.
func (s *InMemoryAccountStore) Put(_ context.Context, acct *models.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := acct.Clone()
	c.Email = models.NormalizeEmail(c.Email)
	s.accounts[accountKey(c.StudyID, c.Email)] = c
}

// Update persists the mutable profile fields of an existing account.
func (s *InMemoryAccountStore) Update(_ context.Context, acct *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.accounts[accountKey(acct.StudyID, acct.Email)]
	if !ok {
		return sentinel.ErrNotFound
	}
	updated := acct.Clone()
	existing.FirstName = updated.FirstName
	existing.LastName = updated.LastName
	existing.Attributes = updated.Attributes
	existing.Roles = updated.Roles
	existing.Status = updated.Status
	return nil
}

// Delete removes the account. Deleting an absent account is not an error.
func (s *InMemoryAccountStore) Delete(_ context.Context, studyID domain.StudyID, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.accounts, accountKey(studyID, email))
	return nil
}

// All iterates a snapshot of every account ordered by creation time.
func (s *InMemoryAccountStore) All(ctx context.Context) iter.Seq2[*models.Account, error] {
	return func(yield func(*models.Account, error) bool) {
		for _, acct := range s.snapshot("", "") {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			if !yield(acct, nil) {
				return
			}
		}
	}
}

func (s *InMemoryAccountStore) Page(_ context.Context, studyID domain.StudyID, offset, size int, emailFilter string) (*models.PagedAccountSummaries, error) {
	matches := s.snapshot(studyID, emailFilter)
	page := &models.PagedAccountSummaries{
		Items:       []models.AccountSummary{},
		OffsetBy:    offset,
		PageSize:    size,
		Total:       len(matches),
		EmailFilter: emailFilter,
	}
	if offset >= len(matches) {
		return page, nil
	}
	end := min(offset+size, len(matches))
	for _, acct := range matches[offset:end] {
		page.Items = append(page.Items, acct.Summary())
	}
	return page, nil
}

// snapshot copies matching accounts ordered by creation time then ID. An empty
// studyID matches every study.
func (s *InMemoryAccountStore) snapshot(studyID domain.StudyID, emailFilter string) []*models.Account {
	filter := strings.ToLower(strings.TrimSpace(emailFilter))

	s.mu.RLock()
	out := make([]*models.Account, 0, len(s.accounts))
	for _, acct := range s.accounts {
		if studyID != "" && acct.StudyID != studyID {
			continue
		}
		if filter != "" && !strings.Contains(acct.Email, filter) {
			continue
		}
		out = append(out, acct.Clone())
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b *models.Account) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return out
}
