package externalid

import (
	"time"

	"cohort/pkg/domain"
)

// State is the lifecycle position of a registered external ID.
//
//	available -> reserved -> assigned
//	reserved  -> available (released)
//
// An assigned ID never leaves the assigned state.
type State string

const (
	StateAvailable State = "available"
	StateReserved  State = "reserved"
	StateAssigned  State = "assigned"
)

// Assignment is one registered external ID.
type Assignment struct {
	StudyID    domain.StudyID
	ExternalID string
	State      State
	HealthCode domain.HealthCode
	UpdatedAt  time.Time
}

// reservable reports whether a Reserve call may move the ID to reserved.
// Reservations older than staleBefore were abandoned by a crashed sign-up.
func (a *Assignment) reservable(staleBefore time.Time) bool {
	switch a.State {
	case StateAvailable:
		return true
	case StateReserved:
		return a.UpdatedAt.Before(staleBefore)
	default:
		return false
	}
}

// assignableTo reports whether Assign may bind the ID to healthCode.
func (a *Assignment) assignableTo(healthCode domain.HealthCode) bool {
	if a.State == StateAssigned {
		return a.HealthCode == healthCode
	}
	return true
}
