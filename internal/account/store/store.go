// Package store persists participant accounts. Accounts are keyed by study and
// lower-cased email; every store reports absence with sentinel.ErrNotFound and
// duplicate sign-ups with sentinel.ErrConflict.
package store

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"cohort/pkg/domain"
)

// HealthCodeMinter creates the health ID mapping assigned at sign-up.
type HealthCodeMinter interface {
	Create(ctx context.Context, studyID domain.StudyID) (domain.HealthID, domain.HealthCode, error)
}

// Option configures an account store.
type Option func(*options)

type options struct {
	minter     HealthCodeMinter
	bcryptCost int
}

// WithHealthCodeMinter mints a health code for every new account. Without it
// accounts are created without a health ID.
func WithHealthCodeMinter(m HealthCodeMinter) Option {
	return func(o *options) {
		o.minter = m
	}
}

// WithBcryptCost overrides the password hashing cost.
func WithBcryptCost(cost int) Option {
	return func(o *options) {
		o.bcryptCost = cost
	}
}

func buildOptions(opts []Option) options {
	o := options{bcryptCost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func hashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
