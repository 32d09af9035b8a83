package healthcode

import (
	"context"
	"sync"

	"cohort/pkg/domain"
	"cohort/pkg/platform/sentinel"
)

type mapping struct {
	code    domain.HealthCode
	studyID domain.StudyID
}

// InMemoryStore keeps health code mappings in a map.
type InMemoryStore struct {
	mu       sync.RWMutex
	mappings map[domain.HealthID]mapping
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{mappings: make(map[domain.HealthID]mapping)}
}

func (s *InMemoryStore) Resolve(_ context.Context, healthID domain.HealthID) (domain.HealthCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.mappings[healthID]
	if !ok {
		return "", sentinel.ErrNotFound
	}
	return m.code, nil
}

func (s *InMemoryStore) Create(_ context.Context, studyID domain.StudyID) (domain.HealthID, domain.HealthCode, error) {
	healthID := domain.NewHealthID()
	code := newHealthCode()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.mappings[healthID] = mapping{code: code, studyID: studyID}
	return healthID, code, nil
}

// Remove drops a mapping, simulating accounts whose health code was lost.
func (s *InMemoryStore) Remove(healthID domain.HealthID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.mappings, healthID)
}
