// Package session caches authenticated participant sessions and invalidates
// them when an account signs out or is deleted.
package session

import (
	"time"

	"github.com/google/uuid"

	"cohort/pkg/domain"
)

// Session is a cached sign-in.
type Session struct {
	ID        uuid.UUID        `json:"id"`
	AccountID domain.AccountID `json:"account_id"`
	StudyID   domain.StudyID   `json:"study_id"`
	CreatedAt time.Time        `json:"created_at"`
	ExpiresAt time.Time        `json:"expires_at"`
}

// New builds a session that expires after ttl.
func New(accountID domain.AccountID, studyID domain.StudyID, now time.Time, ttl time.Duration) *Session {
	return &Session{
		ID:        uuid.New(),
		AccountID: accountID,
		StudyID:   studyID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpired reports whether the session has lapsed at now.
func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
