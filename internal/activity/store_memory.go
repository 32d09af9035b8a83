package activity

import (
	"context"
	"sync"

	"cohort/pkg/domain"
)

// InMemoryStore holds scheduled activities and activity events.
type InMemoryStore struct {
	mu         sync.RWMutex
	activities map[domain.HealthCode][]ScheduledActivity
	events     map[domain.HealthCode]map[string]Event
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		activities: make(map[domain.HealthCode][]ScheduledActivity),
		events:     make(map[domain.HealthCode]map[string]Event),
	}
}

func (s *InMemoryStore) Schedule(_ context.Context, a ScheduledActivity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activities[a.HealthCode] = append(s.activities[a.HealthCode], a)
	return nil
}

// RecordEvent keeps the latest occurrence of each event ID.
func (s *InMemoryStore) RecordEvent(_ context.Context, e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.events[e.HealthCode] == nil {
		s.events[e.HealthCode] = make(map[string]Event)
	}
	s.events[e.HealthCode][e.EventID] = e
	return nil
}

func (s *InMemoryStore) DeleteActivitiesForHealthCode(ctx context.Context, healthCode domain.HealthCode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.activities, healthCode)
	return nil
}

func (s *InMemoryStore) DeleteEventsForHealthCode(ctx context.Context, healthCode domain.HealthCode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.events, healthCode)
	return nil
}

func (s *InMemoryStore) ActivityCount(healthCode domain.HealthCode) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.activities[healthCode])
}

func (s *InMemoryStore) EventCount(healthCode domain.HealthCode) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events[healthCode])
}
