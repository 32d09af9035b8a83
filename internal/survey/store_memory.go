package survey

import (
	"context"
	"sync"

	"cohort/pkg/domain"
)

type InMemoryStore struct {
	mu        sync.RWMutex
	responses map[domain.HealthCode][]Response
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{responses: make(map[domain.HealthCode][]Response)}
}

func (s *InMemoryStore) Save(_ context.Context, r Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[r.HealthCode] = append(s.responses[r.HealthCode], r)
	return nil
}

func (s *InMemoryStore) DeleteResponsesForHealthCode(ctx context.Context, healthCode domain.HealthCode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.responses, healthCode)
	return nil
}

func (s *InMemoryStore) Count(healthCode domain.HealthCode) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.responses[healthCode])
}
