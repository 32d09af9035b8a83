package study

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"cohort/pkg/domain"
	dErrors "cohort/pkg/domain-errors"
)

// Registry is an immutable set of studies; it is safe for concurrent reads.
type Registry struct {
	studies map[domain.StudyID]Study
}

// NewRegistry builds a registry from the given studies.
func NewRegistry(studies ...Study) (*Registry, error) {
	r := &Registry{studies: make(map[domain.StudyID]Study, len(studies))}
	for _, s := range studies {
		if err := r.add(s); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// LoadFile reads a JSON array of studies.
func LoadFile(path string) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read studies file: %w", err)
	}
	var studies []Study
	if err := json.Unmarshal(raw, &studies); err != nil {
		return nil, fmt.Errorf("parse studies file: %w", err)
	}
	return NewRegistry(studies...)
}

func (r *Registry) add(s Study) error {
	if strings.TrimSpace(string(s.ID)) == "" {
		return fmt.Errorf("study without id")
	}
	if _, dup := r.studies[s.ID]; dup {
		return fmt.Errorf("duplicate study %q", s.ID)
	}
	seen := make(map[domain.SubpopulationGUID]struct{}, len(s.Subpopulations))
	for _, sp := range s.Subpopulations {
		if _, dup := seen[sp.GUID]; dup {
			return fmt.Errorf("study %q: duplicate subpopulation %q", s.ID, sp.GUID)
		}
		seen[sp.GUID] = struct{}{}
	}
	r.studies[s.ID] = s
	return nil
}

// Get returns a copy of the study.
func (r *Registry) Get(id domain.StudyID) (*Study, error) {
	s, ok := r.studies[id]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "study not found")
	}
	return &s, nil
}

// Subpopulations lists a study's subpopulations in configured order.
func (r *Registry) Subpopulations(id domain.StudyID) ([]Subpopulation, error) {
	s, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	return append([]Subpopulation(nil), s.Subpopulations...), nil
}

// ActiveConsentCreatedOn reports the published consent revision of a
// subpopulation. Unknown subpopulations and unset revisions report false.
func (r *Registry) ActiveConsentCreatedOn(studyID domain.StudyID, guid domain.SubpopulationGUID) (time.Time, bool) {
	s, err := r.Get(studyID)
	if err != nil {
		return time.Time{}, false
	}
	sp, ok := s.Subpopulation(guid)
	if !ok || sp.ActiveConsentCreatedOn.IsZero() {
		return time.Time{}, false
	}
	return sp.ActiveConsentCreatedOn, true
}
