// Package externalid is the registry of caller-supplied participant
// identifiers. IDs are registered up front, reserved while a participant is
// being created, and bound to a health code once creation succeeds.
package externalid

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"cohort/pkg/domain"
	dErrors "cohort/pkg/domain-errors"
	"cohort/pkg/platform/sentinel"
	"cohort/pkg/requestcontext"
)

// DefaultReservationTTL bounds how long an abandoned reservation blocks an ID.
const DefaultReservationTTL = 30 * time.Second

// Store applies the state machine transitions atomically.
type Store interface {
	Add(ctx context.Context, studyID domain.StudyID, ids ...string) error
	Get(ctx context.Context, studyID domain.StudyID, id string) (*Assignment, error)
	Reserve(ctx context.Context, studyID domain.StudyID, id string, staleBefore time.Time) error
	Assign(ctx context.Context, studyID domain.StudyID, id string, healthCode domain.HealthCode) error
	Release(ctx context.Context, studyID domain.StudyID, id string) error
}

// OptionsWriter receives the participant's copy of the assigned ID.
type OptionsWriter interface {
	SetAll(ctx context.Context, studyID domain.StudyID, healthCode domain.HealthCode, values map[domain.OptionKey]string) error
}

// Registry translates store facts into domain errors and mirrors assignments
// into the participant's options.
type Registry struct {
	store          Store
	options        OptionsWriter
	logger         *slog.Logger
	reservationTTL time.Duration
}

// Option configures the Registry.
type Option func(*Registry)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithReservationTTL overrides DefaultReservationTTL.
func WithReservationTTL(ttl time.Duration) Option {
	return func(r *Registry) {
		if ttl > 0 {
			r.reservationTTL = ttl
		}
	}
}

// New creates a registry.
func New(store Store, options OptionsWriter, opts ...Option) (*Registry, error) {
	if store == nil {
		return nil, errors.New("external id store is required")
	}
	if options == nil {
		return nil, errors.New("options writer is required")
	}
	r := &Registry{
		store:          store,
		options:        options,
		reservationTTL: DefaultReservationTTL,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Add registers IDs for a study. Already registered IDs are left untouched.
func (r *Registry) Add(ctx context.Context, studyID domain.StudyID, ids ...string) error {
	clean := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			clean = append(clean, id)
		}
	}
	if len(clean) == 0 {
		return dErrors.New(dErrors.CodeValidation, "at least one external ID is required")
	}
	if err := r.store.Add(ctx, studyID, clean...); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to register external IDs")
	}
	return nil
}

// Reserve holds an available ID for a participant that is being created.
func (r *Registry) Reserve(ctx context.Context, studyID domain.StudyID, id string) error {
	if strings.TrimSpace(id) == "" {
		return dErrors.New(dErrors.CodeValidation, "external ID is required")
	}
	staleBefore := requestcontext.Now(ctx).Add(-r.reservationTTL)
	if err := r.store.Reserve(ctx, studyID, id, staleBefore); err != nil {
		return translate(err, "reserve")
	}
	return nil
}

// Assign binds the ID to a health code and records it in the participant's
// options. Assigning the same ID to the same health code again is a no-op.
func (r *Registry) Assign(ctx context.Context, studyID domain.StudyID, id string, healthCode domain.HealthCode) error {
	if strings.TrimSpace(id) == "" {
		return dErrors.New(dErrors.CodeValidation, "external ID is required")
	}
	if healthCode.IsEmpty() {
		return dErrors.New(dErrors.CodePrecondition, "external ID cannot be assigned without a health code")
	}
	if err := r.store.Assign(ctx, studyID, id, healthCode); err != nil {
		return translate(err, "assign")
	}
	err := r.options.SetAll(ctx, studyID, healthCode, map[domain.OptionKey]string{
		domain.OptionExternalIdentifier: id,
	})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record external ID on participant")
	}
	return nil
}

// Release returns a reserved ID to the pool. Releasing an available ID is a
// no-op; assigned IDs cannot be released.
func (r *Registry) Release(ctx context.Context, studyID domain.StudyID, id string) error {
	if err := r.store.Release(ctx, studyID, id); err != nil {
		return translate(err, "release")
	}
	if r.logger != nil {
		r.logger.InfoContext(ctx, "external id released", "study_id", string(studyID), "external_id", id)
	}
	return nil
}

// Get returns the registry entry for an ID.
func (r *Registry) Get(ctx context.Context, studyID domain.StudyID, id string) (*Assignment, error) {
	a, err := r.store.Get(ctx, studyID, id)
	if err != nil {
		return nil, translate(err, "find")
	}
	return a, nil
}

func translate(err error, op string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Wrap(err, dErrors.CodeValidation, "external ID is not registered for this study")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeConflict, "external ID is already in use")
	case errors.Is(err, sentinel.ErrInvalidState):
		return dErrors.Wrap(err, dErrors.CodeConflict, "external ID is assigned and cannot be released")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to "+op+" external ID")
	}
}
