package memory

import (
	"context"
	"sync"

	"cohort/pkg/domain"
	audit "cohort/pkg/platform/audit"
)

// InMemoryStore keeps audit events per account in insertion order.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[domain.AccountID][]audit.Event
	order  []audit.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[domain.AccountID][]audit.Event)}
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = make(map[domain.AccountID][]audit.Event)
	s.order = nil
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.AccountID] = append(s.events[event.AccountID], event)
	s.order = append(s.order, event)
	return nil
}

func (s *InMemoryStore) ListByAccount(_ context.Context, accountID domain.AccountID) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Event{}, s.events[accountID]...), nil
}

// ListAll returns every event across accounts in the order they were appended.
func (s *InMemoryStore) ListAll(_ context.Context) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Event{}, s.order...), nil
}

// ListByAction returns events with the given action, oldest first.
func (s *InMemoryStore) ListByAction(_ context.Context, action audit.AuditEvent) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []audit.Event
	for _, e := range s.order {
		if e.Action == string(action) {
			out = append(out, e)
		}
	}
	return out, nil
}
