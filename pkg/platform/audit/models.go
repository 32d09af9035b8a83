package audit

import (
	"context"
	"time"

	"cohort/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose.
// Categories drive retention and routing downstream.
type EventCategory string

const (
	// CategoryCompliance covers events with regulatory significance:
	// participant enrolment, consent changes and data erasure.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers events relevant to security monitoring,
	// such as forced sign-outs.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers routine activity that can be sampled.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	AccountID domain.AccountID
	StudyID   domain.StudyID
	// Subject is the participant email the action was applied to.
	Subject  string
	Action   string
	Decision string
	Reason   string
	// RequestID is the correlation ID from the request context.
	RequestID string
	// ActorID tracks who performed the action when it was not the participant,
	// e.g. an administrator or a cleanup worker.
	ActorID string
}

// Store persists or forwards audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
}

type AuditEvent string

const (
	// Participant lifecycle events
	EventParticipantCreated        AuditEvent = "participant_created"
	EventParticipantUpdated        AuditEvent = "participant_updated"
	EventParticipantOptionsUpdated AuditEvent = "participant_options_updated"
	EventParticipantProfileUpdated AuditEvent = "participant_profile_updated"
	EventParticipantSignedOut      AuditEvent = "participant_signed_out"
	EventConsentSigned             AuditEvent = "consent_signed"

	// Teardown events
	EventParticipantDeleted      AuditEvent = "participant_deleted"
	EventParticipantDeleteFailed AuditEvent = "participant_delete_failed"
	EventExternalIDAssigned      AuditEvent = "external_id_assigned"
)

// eventCategories maps each audit event to its category.
var eventCategories = map[AuditEvent]EventCategory{
	EventParticipantCreated:        CategoryCompliance,
	EventParticipantDeleted:        CategoryCompliance,
	EventParticipantDeleteFailed:   CategoryCompliance,
	EventParticipantOptionsUpdated: CategoryCompliance,
	EventExternalIDAssigned:        CategoryCompliance,
	EventConsentSigned:             CategoryCompliance,

	EventParticipantSignedOut: CategorySecurity,

	EventParticipantUpdated:        CategoryOperations,
	EventParticipantProfileUpdated: CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}
