// Package consent records consent signatures per subpopulation and serves the
// participant's consent history.
package consent

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"cohort/pkg/domain"
	dErrors "cohort/pkg/domain-errors"
	"cohort/pkg/requestcontext"
)

// Store persists signatures.
type Store interface {
	Save(ctx context.Context, sig Signature) error
	List(ctx context.Context, studyID domain.StudyID, subpop domain.SubpopulationGUID, healthCode domain.HealthCode) ([]Signature, error)
	Withdraw(ctx context.Context, studyID domain.StudyID, subpop domain.SubpopulationGUID, healthCode domain.HealthCode, at time.Time) (int, error)
	DeleteAll(ctx context.Context, studyID domain.StudyID, healthCode domain.HealthCode) error
}

// RevisionSource reports the creation time of a subpopulation's currently
// published consent document.
type RevisionSource interface {
	ActiveConsentCreatedOn(studyID domain.StudyID, subpop domain.SubpopulationGUID) (time.Time, bool)
}

// SignRequest is the input to Sign.
type SignRequest struct {
	Name             string
	Birthdate        string
	ConsentCreatedOn time.Time
}

type Service struct {
	store     Store
	revisions RevisionSource
	logger    *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithRevisionSource lets History flag signatures of superseded documents.
// Without one, any signature that was not withdrawn counts as active.
func WithRevisionSource(src RevisionSource) Option {
	return func(s *Service) {
		s.revisions = src
	}
}

func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("consent store is required")
	}
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Sign records a new signature. A participant holding an unwithdrawn signature
// for the subpopulation must withdraw before signing again.
func (s *Service) Sign(ctx context.Context, studyID domain.StudyID, subpop domain.SubpopulationGUID, healthCode domain.HealthCode, req SignRequest) (*ConsentHistory, error) {
	if healthCode.IsEmpty() {
		return nil, dErrors.New(dErrors.CodePrecondition, "consent cannot be signed without a health code")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "signature name is required")
	}

	existing, err := s.store.List(ctx, studyID, subpop, healthCode)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load consent signatures")
	}
	for _, sig := range existing {
		if !sig.IsWithdrawn() {
			return nil, dErrors.New(dErrors.CodeConflict, "participant has already consented")
		}
	}

	consentCreatedOn := req.ConsentCreatedOn
	if consentCreatedOn.IsZero() && s.revisions != nil {
		consentCreatedOn, _ = s.revisions.ActiveConsentCreatedOn(studyID, subpop)
	}
	sig := Signature{
		ID:                uuid.New(),
		StudyID:           studyID,
		SubpopulationGUID: subpop,
		HealthCode:        healthCode,
		Name:              name,
		Birthdate:         strings.TrimSpace(req.Birthdate),
		ConsentCreatedOn:  consentCreatedOn,
		SignedOn:          requestcontext.Now(ctx),
	}
	if err := s.store.Save(ctx, sig); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save consent signature")
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "consent signed",
			"study_id", string(studyID),
			"subpopulation", string(subpop),
		)
	}
	active, ok := s.activeRevision(studyID, subpop)
	h := historyFrom(sig, active, ok)
	return &h, nil
}

// Withdraw marks every open signature for the subpopulation as withdrawn.
func (s *Service) Withdraw(ctx context.Context, studyID domain.StudyID, subpop domain.SubpopulationGUID, healthCode domain.HealthCode) error {
	n, err := s.store.Withdraw(ctx, studyID, subpop, healthCode, requestcontext.Now(ctx))
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to withdraw consent")
	}
	if n == 0 {
		return dErrors.New(dErrors.CodeNotFound, "no active consent to withdraw")
	}
	return nil
}

// History returns every signature for the subpopulation in signing order.
// An empty health code yields an empty history.
func (s *Service) History(ctx context.Context, studyID domain.StudyID, subpop domain.SubpopulationGUID, healthCode domain.HealthCode) ([]ConsentHistory, error) {
	if healthCode.IsEmpty() {
		return []ConsentHistory{}, nil
	}
	sigs, err := s.store.List(ctx, studyID, subpop, healthCode)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load consent history")
	}
	active, ok := s.activeRevision(studyID, subpop)
	out := make([]ConsentHistory, 0, len(sigs))
	for _, sig := range sigs {
		out = append(out, historyFrom(sig, active, ok))
	}
	return out, nil
}

// DeleteAllForHealthCode removes every signature the participant made in the study.
func (s *Service) DeleteAllForHealthCode(ctx context.Context, studyID domain.StudyID, healthCode domain.HealthCode) error {
	if healthCode.IsEmpty() {
		return nil
	}
	if err := s.store.DeleteAll(ctx, studyID, healthCode); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete consent signatures")
	}
	return nil
}

func (s *Service) activeRevision(studyID domain.StudyID, subpop domain.SubpopulationGUID) (time.Time, bool) {
	if s.revisions == nil {
		return time.Time{}, false
	}
	return s.revisions.ActiveConsentCreatedOn(studyID, subpop)
}
