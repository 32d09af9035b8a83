// Package teardown deletes participants and everything keyed by their health
// code. Deletion of one identity is serialized through a distributed lock and
// retried with exponential backoff; the cascade is idempotent so a retried
// attempt finishes whatever a failed one left behind.
package teardown

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
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

// lockKind namespaces participant locks; the key is the lower-cased email.
const lockKind = "participant"

var errStillPresent = errors.New("account still present after delete")

// Deps are the required collaborators.
type Deps struct {
	Accounts    Accounts
	HealthCodes HealthCodes
	Locks       Locker
	Consents    Consents
	HealthData  HealthData
	Activities  Activities
	Surveys     Surveys
	Options     Options
	Sessions    Sessions
}

func (d Deps) validate() error {
	switch {
	case d.Accounts == nil:
		return errors.New("account store is required")
	case d.HealthCodes == nil:
		return errors.New("health code service is required")
	case d.Locks == nil:
		return errors.New("locker is required")
	case d.Consents == nil:
		return errors.New("consent service is required")
	case d.HealthData == nil:
		return errors.New("health data store is required")
	case d.Activities == nil:
		return errors.New("activity store is required")
	case d.Surveys == nil:
		return errors.New("survey store is required")
	case d.Options == nil:
		return errors.New("options store is required")
	case d.Sessions == nil:
		return errors.New("session cache is required")
	}
	return nil
}

// DeletionResult describes the outcome for one participant.
type DeletionResult struct {
	StudyID   domain.StudyID `json:"study_id"`
	Email     string         `json:"email"`
	Found     bool           `json:"found"`
	Deleted   bool           `json:"deleted"`
	Attempts  int            `json:"attempts"`
	LastError string         `json:"last_error,omitempty"`
}

// BulkDeletionResult summarizes a role-wide deletion.
type BulkDeletionResult struct {
	Role     domain.Role       `json:"role"`
	Matched  int               `json:"matched"`
	Deleted  int               `json:"deleted"`
	Failed   int               `json:"failed"`
	Failures []*DeletionResult `json:"failures,omitempty"`
}

// Coordinator deletes participants.
type Coordinator struct {
	deps           Deps
	policy         RetryPolicy
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *Metrics
	tracer         trace.Tracer
}

type Option func(*Coordinator)

func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *Coordinator) {
		c.policy = p.normalized()
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(c *Coordinator) {
		c.auditPublisher = publisher
	}
}

func WithMetrics(m *Metrics) Option {
	return func(c *Coordinator) {
		c.metrics = m
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(c *Coordinator) {
		c.tracer = tracer
	}
}

// New constructs a Coordinator. Every collaborator in deps is required.
func New(deps Deps, opts ...Option) (*Coordinator, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	c := &Coordinator{
		deps:   deps,
		policy: DefaultRetryPolicy(),
		tracer: otel.Tracer("cohort/teardown"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// DeleteParticipant removes the participant with email from st. An absent
// participant is reported with Found=false and no error. When every attempt
// fails the result is returned together with a CodeUnavailable error.
func (c *Coordinator) DeleteParticipant(ctx context.Context, st *study.Study, email string) (*DeletionResult, error) {
	if st == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "study is required")
	}
	email = accountmodels.NormalizeEmail(email)
	if email == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "email is required")
	}

	acct, err := c.deps.Accounts.Get(ctx, st.ID, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			c.metrics.incDeletion("not_found", time.Now())
			return &DeletionResult{StudyID: st.ID, Email: email}, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load account")
	}
	return c.deleteAccount(ctx, acct)
}

// DeleteAllByRole deletes every account holding role. Individual failures are
// counted and skipped; only iteration errors and cancellation stop the run.
func (c *Coordinator) DeleteAllByRole(ctx context.Context, role domain.Role) (*BulkDeletionResult, error) {
	if !role.IsValid() {
		return nil, dErrors.Newf(dErrors.CodeValidation, "invalid role: %s", role)
	}
	summary := &BulkDeletionResult{Role: role}
	for acct, err := range c.deps.Accounts.All(ctx) {
		if err != nil {
			return summary, dErrors.Wrap(err, dErrors.CodeInternal, "failed to iterate accounts")
		}
		if !acct.Roles.Contains(role) {
			continue
		}
		summary.Matched++
		result, err := c.deleteAccount(ctx, acct)
		if err != nil {
			summary.Failed++
			summary.Failures = append(summary.Failures, result)
			if ctxErr := ctx.Err(); ctxErr != nil {
				return summary, dErrors.Wrap(ctxErr, dErrors.CodeTimeout, "bulk deletion interrupted")
			}
			continue
		}
		summary.Deleted++
	}

	if c.logger != nil {
		c.logger.InfoContext(ctx, "bulk participant deletion finished",
			"role", string(role),
			"matched", summary.Matched,
			"deleted", summary.Deleted,
			"failed", summary.Failed,
		)
	}
	return summary, nil
}

func (c *Coordinator) deleteAccount(ctx context.Context, acct *accountmodels.Account) (_ *DeletionResult, err error) {
	start := time.Now()
	ctx, span := c.tracer.Start(ctx, "participant.delete", trace.WithAttributes(
		attribute.String("study.id", string(acct.StudyID)),
		attribute.String("account.id", acct.ID.String()),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
		}
		span.End()
	}()

	result := &DeletionResult{StudyID: acct.StudyID, Email: acct.Email, Found: true}
	operation := func() error {
		result.Attempts++
		attemptErr := c.attempt(ctx, acct)
		c.metrics.incAttempt(attemptErr)
		if attemptErr == nil {
			return nil
		}
		result.LastError = attemptErr.Error()
		if ctx.Err() != nil {
			return backoff.Permanent(attemptErr)
		}
		return attemptErr
	}
	notify := func(attemptErr error, wait time.Duration) {
		if c.logger != nil {
			c.logger.WarnContext(ctx, "participant deletion attempt failed",
				"account_id", acct.ID.String(),
				"study_id", string(acct.StudyID),
				"attempt", result.Attempts,
				"retry_in", wait,
				"error", attemptErr,
			)
		}
	}

	if retryErr := backoff.RetryNotify(operation, c.policy.backOff(ctx), notify); retryErr != nil {
		c.metrics.incDeletion("failed", start)
		c.logAudit(ctx, audit.EventParticipantDeleteFailed, acct, "reason", result.LastError, "attempts", result.Attempts)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, dErrors.Wrap(ctxErr, dErrors.CodeTimeout, "participant deletion interrupted")
		}
		return result, dErrors.Wrap(retryErr, dErrors.CodeUnavailable,
			fmt.Sprintf("participant deletion failed after %d attempts", result.Attempts))
	}

	result.Deleted = true
	result.LastError = ""
	c.metrics.incDeletion("deleted", start)
	c.logAudit(ctx, audit.EventParticipantDeleted, acct, "attempts", result.Attempts)
	return result, nil
}

// attempt runs one locked pass of the cascade.
func (c *Coordinator) attempt(ctx context.Context, acct *accountmodels.Account) (err error) {
	key := accountmodels.NormalizeEmail(acct.Email)
	token, err := c.deps.Locks.Acquire(ctx, lockKind, key)
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	defer func() {
		if token == "" {
			return
		}
		if releaseErr := c.deps.Locks.Release(context.WithoutCancel(ctx), lockKind, key, token); releaseErr != nil && c.logger != nil {
			c.logger.WarnContext(ctx, "failed to release participant lock",
				"account_id", acct.ID.String(),
				"error", releaseErr,
			)
		}
	}()

	healthCode, err := c.resolveHealthCode(ctx, acct)
	if err != nil {
		return err
	}
	if !healthCode.IsEmpty() {
		if err := c.deleteHealthCodeData(ctx, acct.StudyID, healthCode); err != nil {
			return err
		}
	}

	if err := c.deps.Accounts.Delete(ctx, acct.StudyID, acct.Email); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	verifyErr := c.verifyDeleted(ctx, acct)

	// The delete was issued, so sessions go whether or not it verified.
	if err := c.deps.Sessions.InvalidateByAccount(ctx, acct.ID); err != nil {
		return errors.Join(verifyErr, fmt.Errorf("invalidate sessions: %w", err))
	}
	return verifyErr
}

func (c *Coordinator) resolveHealthCode(ctx context.Context, acct *accountmodels.Account) (domain.HealthCode, error) {
	if !acct.HasHealthID() {
		return "", nil
	}
	code, err := c.deps.HealthCodes.Resolve(ctx, acct.HealthID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("resolve health code: %w", err)
	}
	return code, nil
}

// deleteHealthCodeData removes dependent records in a fixed order. The first
// failure aborts the attempt.
func (c *Coordinator) deleteHealthCodeData(ctx context.Context, studyID domain.StudyID, healthCode domain.HealthCode) error {
	if err := c.deps.Consents.DeleteAllForHealthCode(ctx, studyID, healthCode); err != nil {
		return fmt.Errorf("delete consents: %w", err)
	}
	records, err := c.deps.HealthData.DeleteRecordsForHealthCode(ctx, healthCode)
	c.metrics.addRecords(records)
	if err != nil {
		return fmt.Errorf("delete health data: %w", err)
	}
	if err := c.deps.Activities.DeleteActivitiesForHealthCode(ctx, healthCode); err != nil {
		return fmt.Errorf("delete scheduled activities: %w", err)
	}
	if err := c.deps.Activities.DeleteEventsForHealthCode(ctx, healthCode); err != nil {
		return fmt.Errorf("delete activity events: %w", err)
	}
	if err := c.deps.Surveys.DeleteResponsesForHealthCode(ctx, healthCode); err != nil {
		return fmt.Errorf("delete survey responses: %w", err)
	}
	if err := c.deps.Options.DeleteAll(ctx, healthCode); err != nil {
		return fmt.Errorf("delete options: %w", err)
	}
	return nil
}

func (c *Coordinator) verifyDeleted(ctx context.Context, acct *accountmodels.Account) error {
	_, err := c.deps.Accounts.Get(ctx, acct.StudyID, acct.Email)
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("verify delete: %w", err)
	default:
		return errStillPresent
	}
}

func (c *Coordinator) logAudit(ctx context.Context, event audit.AuditEvent, acct *accountmodels.Account, attributes ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	attributes = append(attributes,
		"account_id", acct.ID.String(),
		"study_id", string(acct.StudyID),
	)
	args := append(attributes, "event", string(event), "log_type", "audit")
	if c.logger != nil {
		c.logger.InfoContext(ctx, string(event), args...)
	}
	if c.auditPublisher == nil {
		return
	}
	e := audit.Event{
		Category:  event.Category(),
		Timestamp: requestcontext.Now(ctx),
		AccountID: acct.ID,
		StudyID:   acct.StudyID,
		Subject:   acct.Email,
		Action:    string(event),
		RequestID: requestcontext.RequestID(ctx),
		ActorID:   requestcontext.Actor(ctx),
		Reason:    attrs.String(attributes, "reason"),
	}
	if event == audit.EventParticipantDeleteFailed {
		e.Decision = "failed"
	}
	_ = c.auditPublisher.Emit(ctx, e)
}
