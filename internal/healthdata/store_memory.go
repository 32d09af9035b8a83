package healthdata

import (
	"context"
	"sync"

	"cohort/pkg/domain"
)

type InMemoryStore struct {
	mu      sync.RWMutex
	records map[domain.HealthCode]map[string][]byte
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{records: make(map[domain.HealthCode]map[string][]byte)}
}

func (s *InMemoryStore) Put(_ context.Context, healthCode domain.HealthCode, recordID string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.records[healthCode] == nil {
		s.records[healthCode] = make(map[string][]byte)
	}
	s.records[healthCode][recordID] = append([]byte(nil), body...)
	return nil
}

func (s *InMemoryStore) DeleteRecordsForHealthCode(ctx context.Context, healthCode domain.HealthCode) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.records[healthCode])
	delete(s.records, healthCode)
	return n, nil
}

// Count returns how many records exist for the health code.
func (s *InMemoryStore) Count(healthCode domain.HealthCode) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records[healthCode])
}
