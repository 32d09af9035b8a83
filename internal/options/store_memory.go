package options

import (
	"context"
	"maps"
	"sync"

	"cohort/pkg/domain"
	dErrors "cohort/pkg/domain-errors"
)

// InMemoryStore keeps options per health code.
type InMemoryStore struct {
	mu      sync.RWMutex
	options map[domain.HealthCode]map[domain.OptionKey]string
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{options: make(map[domain.HealthCode]map[domain.OptionKey]string)}
}

func (s *InMemoryStore) GetAll(_ context.Context, healthCode domain.HealthCode) (Lookup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return NewLookup(s.options[healthCode]), nil
}

// SetAll upserts every given option in one step.
func (s *InMemoryStore) SetAll(_ context.Context, _ domain.StudyID, healthCode domain.HealthCode, values map[domain.OptionKey]string) error {
	if healthCode.IsEmpty() {
		return dErrors.New(dErrors.CodePrecondition, "options require a health code")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.options[healthCode]
	if !ok {
		current = make(map[domain.OptionKey]string, len(values))
		s.options[healthCode] = current
	}
	maps.Copy(current, values)
	return nil
}

func (s *InMemoryStore) DeleteAll(_ context.Context, healthCode domain.HealthCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.options, healthCode)
	return nil
}

// Exists reports whether any option is stored for the health code.
func (s *InMemoryStore) Exists(healthCode domain.HealthCode) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.options[healthCode]
	return ok
}
