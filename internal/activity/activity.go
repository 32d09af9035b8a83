// Package activity holds a participant's scheduled activities and the
// activity events that drive scheduling.
package activity

import (
	"time"

	"github.com/google/uuid"

	"cohort/pkg/domain"
)

// ScheduledActivity is one activity instance placed on a participant's schedule.
type ScheduledActivity struct {
	ID          uuid.UUID
	HealthCode  domain.HealthCode
	ActivityRef string
	ScheduledOn time.Time
	FinishedOn  *time.Time
}

// Event records when something schedule-relevant happened to a participant,
// such as enrollment or completion of a survey.
type Event struct {
	HealthCode domain.HealthCode
	EventID    string
	OccurredAt time.Time
}
