package consent

import (
	"context"
	"slices"
	"sync"
	"time"

	"cohort/pkg/domain"
)

type InMemoryStore struct {
	mu         sync.RWMutex
	signatures map[domain.HealthCode][]Signature
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{signatures: make(map[domain.HealthCode][]Signature)}
}

func (s *InMemoryStore) Save(_ context.Context, sig Signature) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signatures[sig.HealthCode] = append(s.signatures[sig.HealthCode], sig)
	return nil
}

func (s *InMemoryStore) List(ctx context.Context, studyID domain.StudyID, subpop domain.SubpopulationGUID, healthCode domain.HealthCode) ([]Signature, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Signature
	for _, sig := range s.signatures[healthCode] {
		if sig.StudyID == studyID && sig.SubpopulationGUID == subpop {
			out = append(out, sig)
		}
	}
	slices.SortStableFunc(out, func(a, b Signature) int {
		return a.SignedOn.Compare(b.SignedOn)
	})
	return out, nil
}

func (s *InMemoryStore) Withdraw(_ context.Context, studyID domain.StudyID, subpop domain.SubpopulationGUID, healthCode domain.HealthCode, at time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	withdrawn := 0
	sigs := s.signatures[healthCode]
	for i := range sigs {
		if sigs[i].StudyID == studyID && sigs[i].SubpopulationGUID == subpop && !sigs[i].IsWithdrawn() {
			w := at
			sigs[i].WithdrawnOn = &w
			withdrawn++
		}
	}
	return withdrawn, nil
}

func (s *InMemoryStore) DeleteAll(_ context.Context, studyID domain.StudyID, healthCode domain.HealthCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := slices.DeleteFunc(s.signatures[healthCode], func(sig Signature) bool {
		return sig.StudyID == studyID
	})
	if len(kept) == 0 {
		delete(s.signatures, healthCode)
		return nil
	}
	s.signatures[healthCode] = kept
	return nil
}

// Count returns the number of signatures held for a health code.
func (s *InMemoryStore) Count(healthCode domain.HealthCode) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.signatures[healthCode])
}
