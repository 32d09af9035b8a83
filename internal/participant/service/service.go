// Package service is the participant lifecycle orchestrator. It coordinates
// the account store, health code mapping, external ID registry, options store,
// consent history and session cache, which share no transaction boundary.
// Writes are issued in a fixed order so a partial failure leaves the
// participant in a state the next call can repair.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	accountmodels "cohort/internal/account/models"
	"cohort/internal/study"
	"cohort/pkg/attrs"
	"cohort/pkg/domain"
	dErrors "cohort/pkg/domain-errors"
	"cohort/pkg/platform/audit"
	"cohort/pkg/platform/sentinel"
	"cohort/pkg/requestcontext"
)

const (
	DefaultMinPageSize = 5
	DefaultMaxPageSize = 250

	// maxConcurrentHistoryLookups bounds fan-out per GetParticipant call.
	maxConcurrentHistoryLookups = 4
)

// Deps are the required collaborators.
type Deps struct {
	Accounts       AccountStore
	HealthCodes    HealthCodes
	ExternalIDs    ExternalIDs
	Options        OptionsStore
	Consents       Consents
	Subpopulations Subpopulations
	Sessions       SessionCache
}

func (d Deps) validate() error {
	switch {
	case d.Accounts == nil:
		return errors.New("account store is required")
	case d.HealthCodes == nil:
		return errors.New("health code service is required")
	case d.ExternalIDs == nil:
		return errors.New("external id registry is required")
	case d.Options == nil:
		return errors.New("options store is required")
	case d.Consents == nil:
		return errors.New("consent service is required")
	case d.Subpopulations == nil:
		return errors.New("subpopulation provider is required")
	case d.Sessions == nil:
		return errors.New("session cache is required")
	}
	return nil
}

// Service orchestrates participant reads and writes.
type Service struct {
	deps           Deps
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *Metrics
	tracer         trace.Tracer
	minPageSize    int
	maxPageSize    int
	sessionTTL     time.Duration
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

// WithPageSizeBounds overrides the accepted roster page size range.
func WithPageSizeBounds(minSize, maxSize int) Option {
	return func(s *Service) {
		if minSize > 0 && maxSize >= minSize {
			s.minPageSize = minSize
			s.maxPageSize = maxSize
		}
	}
}

// WithSessionTTL sets the lifetime of sessions opened by CreateUser.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// New constructs a Service. Every collaborator in deps is required.
func New(deps Deps, opts ...Option) (*Service, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	s := &Service{
		deps:        deps,
		tracer:      otel.Tracer("cohort/participant"),
		minPageSize: DefaultMinPageSize,
		maxPageSize: DefaultMaxPageSize,
		sessionTTL:  DefaultSessionTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// start opens a span and returns a finisher that records the outcome.
func (s *Service) start(ctx context.Context, operation string, st *study.Study) (context.Context, func(*error)) {
	begin := time.Now()
	spanAttrs := []attribute.KeyValue{attribute.String("participant.operation", operation)}
	if st != nil {
		spanAttrs = append(spanAttrs, attribute.String("study.id", string(st.ID)))
	}
	ctx, span := s.tracer.Start(ctx, "participant."+operation, trace.WithAttributes(spanAttrs...))
	return ctx, func(errp *error) {
		var err error
		if errp != nil {
			err = *errp
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
		}
		span.End()
		s.metrics.observe(operation, begin, err)
	}
}

func requireStudy(st *study.Study) error {
	if st == nil {
		return dErrors.New(dErrors.CodeBadRequest, "study is required")
	}
	return nil
}

func requireEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return dErrors.New(dErrors.CodeValidation, "email is required")
	}
	return nil
}

func (s *Service) getAccount(ctx context.Context, st *study.Study, email string) (*accountmodels.Account, error) {
	acct, err := s.deps.Accounts.Get(ctx, st.ID, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "account not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load account")
	}
	return acct, nil
}

// lookupHealthCode returns "" when the account has no health ID or the
// mapping is missing. Both are valid states for unverified accounts.
func (s *Service) lookupHealthCode(ctx context.Context, acct *accountmodels.Account) (domain.HealthCode, error) {
	if !acct.HasHealthID() {
		return "", nil
	}
	code, err := s.deps.HealthCodes.Resolve(ctx, acct.HealthID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", nil
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve health code")
	}
	return code, nil
}

// requireHealthCode is lookupHealthCode for paths that cannot proceed without one.
func (s *Service) requireHealthCode(ctx context.Context, acct *accountmodels.Account) (domain.HealthCode, error) {
	code, err := s.lookupHealthCode(ctx, acct)
	if err != nil {
		return "", err
	}
	if code.IsEmpty() {
		return "", dErrors.New(dErrors.CodePrecondition,
			"participant has no health code; the account may not have verified its email address")
	}
	return code, nil
}

// copyProfile applies name and configured attributes to the account.
// Attributes the study does not configure are never written.
func copyProfile(st *study.Study, acct *accountmodels.Account, firstName, lastName string, attributes map[string]string) {
	acct.FirstName = firstName
	acct.LastName = lastName
	for _, key := range st.UserProfileAttributes {
		acct.SetAttribute(key, attributes[key])
	}
}

func (s *Service) updateAccount(ctx context.Context, acct *accountmodels.Account) error {
	if err := s.deps.Accounts.Update(ctx, acct); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "account not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update account")
	}
	return nil
}

func (s *Service) logAudit(ctx context.Context, event audit.AuditEvent, acct *accountmodels.Account, attributes ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	if acct != nil {
		attributes = append(attributes,
			"account_id", acct.ID.String(),
			"study_id", string(acct.StudyID),
		)
	}
	args := append(attributes, "event", string(event), "log_type", "audit")
	if s.logger != nil {
		s.logger.InfoContext(ctx, string(event), args...)
	}
	if s.auditPublisher == nil {
		return
	}
	e := audit.Event{
		Category:  event.Category(),
		Timestamp: requestcontext.Now(ctx),
		Action:    string(event),
		RequestID: requestcontext.RequestID(ctx),
		ActorID:   requestcontext.Actor(ctx),
		Reason:    attrs.String(attributes, "reason"),
	}
	if acct != nil {
		e.AccountID = acct.ID
		e.StudyID = acct.StudyID
		e.Subject = acct.Email
	}
	_ = s.auditPublisher.Emit(ctx, e)
}
