package externalid

import (
	"context"
	"sync"
	"time"

	"cohort/pkg/domain"
	"cohort/pkg/platform/sentinel"
	"cohort/pkg/requestcontext"
)

type assignmentKey struct {
	studyID domain.StudyID
	id      string
}

// InMemoryStore applies the external ID state machine under a mutex.
type InMemoryStore struct {
	mu  sync.Mutex
	ids map[assignmentKey]*Assignment
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{ids: make(map[assignmentKey]*Assignment)}
}

func (s *InMemoryStore) Add(ctx context.Context, studyID domain.StudyID, ids ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		key := assignmentKey{studyID, id}
		if _, ok := s.ids[key]; ok {
			continue
		}
		s.ids[key] = &Assignment{
			StudyID:    studyID,
			ExternalID: id,
			State:      StateAvailable,
			UpdatedAt:  requestcontext.Now(ctx),
		}
	}
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, studyID domain.StudyID, id string) (*Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.ids[assignmentKey{studyID, id}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	c := *a
	return &c, nil
}

func (s *InMemoryStore) Reserve(ctx context.Context, studyID domain.StudyID, id string, staleBefore time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.ids[assignmentKey{studyID, id}]
	if !ok {
		return sentinel.ErrNotFound
	}
	if !a.reservable(staleBefore) {
		return sentinel.ErrConflict
	}
	a.State = StateReserved
	a.UpdatedAt = requestcontext.Now(ctx)
	return nil
}

func (s *InMemoryStore) Assign(ctx context.Context, studyID domain.StudyID, id string, healthCode domain.HealthCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.ids[assignmentKey{studyID, id}]
	if !ok {
		return sentinel.ErrNotFound
	}
	if !a.assignableTo(healthCode) {
		return sentinel.ErrConflict
	}
	if a.State == StateAssigned {
		return nil
	}
	a.State = StateAssigned
	a.HealthCode = healthCode
	a.UpdatedAt = requestcontext.Now(ctx)
	return nil
}

func (s *InMemoryStore) Release(ctx context.Context, studyID domain.StudyID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.ids[assignmentKey{studyID, id}]
	if !ok {
		return sentinel.ErrNotFound
	}
	switch a.State {
	case StateAssigned:
		return sentinel.ErrInvalidState
	case StateReserved:
		a.State = StateAvailable
		a.UpdatedAt = requestcontext.Now(ctx)
	}
	return nil
}
