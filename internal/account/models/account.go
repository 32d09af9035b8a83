package models

import (
	"maps"
	"strings"
	"time"

	"cohort/pkg/domain"
	dErrors "cohort/pkg/domain-errors"
)

// AccountStatus tracks whether an account can sign in.
type AccountStatus string

const (
	// AccountStatusUnverified accounts were created in a study that requires
	// email verification and have not completed it yet.
	AccountStatusUnverified AccountStatus = "unverified"
	AccountStatusEnabled    AccountStatus = "enabled"
	AccountStatusDisabled   AccountStatus = "disabled"
)

func (s AccountStatus) IsValid() bool {
	switch s {
	case AccountStatusUnverified, AccountStatusEnabled, AccountStatusDisabled:
		return true
	default:
		return false
	}
}

// Account is a participant's credential record, scoped to one study and keyed
// by email within it.
//
// Invariants:
//   - Email is stored lower-cased; lookups are case-insensitive
//   - HealthID, once set, never changes
//   - PasswordHash is never exposed outside the store
type Account struct {
	ID           domain.AccountID
	StudyID      domain.StudyID
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Attributes   map[string]string
	Roles        domain.Roles
	HealthID     domain.HealthID
	Status       AccountStatus
	CreatedAt    time.Time
}

// HasHealthID reports whether a health code mapping was ever created.
func (a *Account) HasHealthID() bool {
	return !a.HealthID.IsNil()
}

// Attribute returns the value of a custom profile attribute, or "".
func (a *Account) Attribute(key string) string {
	return a.Attributes[key]
}

// SetAttribute stores a custom profile attribute. An empty value removes it.
func (a *Account) SetAttribute(key, value string) {
	if value == "" {
		delete(a.Attributes, key)
		return
	}
	if a.Attributes == nil {
		a.Attributes = make(map[string]string)
	}
	a.Attributes[key] = value
}

// Clone returns a deep copy so in-memory stores never share maps with callers.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	c := *a
	c.Attributes = maps.Clone(a.Attributes)
	c.Roles = append(domain.Roles(nil), a.Roles...)
	return &c
}

// Summary projects the roster row for the account.
func (a *Account) Summary() AccountSummary {
	return AccountSummary{
		ID:        a.ID,
		Email:     a.Email,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Status:    a.Status,
		CreatedAt: a.CreatedAt,
	}
}

// NormalizeEmail is the canonical form used for keys and lock names.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp carries what is needed to create an account.
type SignUp struct {
	Email    string
	Password string
	Roles    domain.Roles
}

// Validate checks the fields every store relies on.
func (s SignUp) Validate() error {
	if strings.TrimSpace(s.Email) == "" {
		return dErrors.New(dErrors.CodeValidation, "email is required")
	}
	if s.Password == "" {
		return dErrors.New(dErrors.CodeValidation, "password is required")
	}
	return nil
}

// AccountSummary is one row of a study roster.
type AccountSummary struct {
	ID        domain.AccountID `json:"id"`
	Email     string           `json:"email"`
	FirstName string           `json:"first_name,omitempty"`
	LastName  string           `json:"last_name,omitempty"`
	Status    AccountStatus    `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
}

// PagedAccountSummaries is one page of a roster listing, ordered by creation time.
type PagedAccountSummaries struct {
	Items       []AccountSummary `json:"items"`
	OffsetBy    int              `json:"offset_by"`
	PageSize    int              `json:"page_size"`
	Total       int              `json:"total"`
	EmailFilter string           `json:"email_filter,omitempty"`
}
