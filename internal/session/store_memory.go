package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"cohort/pkg/domain"
	"cohort/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	now      func() time.Time
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[uuid.UUID]*Session), now: time.Now}
}

func (s *InMemoryStore) Create(_ context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *sess
	s.sessions[sess.ID] = &c
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id uuid.UUID) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok || sess.IsExpired(s.now()) {
		return nil, sentinel.ErrNotFound
	}
	c := *sess
	return &c, nil
}

func (s *InMemoryStore) ListByAccount(_ context.Context, accountID domain.AccountID) ([]*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	now := s.now()
	var out []*Session
	for _, sess := range s.sessions {
		if sess.AccountID == accountID && !sess.IsExpired(now) {
			c := *sess
			out = append(out, &c)
		}
	}
	return out, nil
}

func (s *InMemoryStore) InvalidateByAccount(_ context.Context, accountID domain.AccountID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		if sess.AccountID == accountID {
			delete(s.sessions, id)
		}
	}
	return nil
}
