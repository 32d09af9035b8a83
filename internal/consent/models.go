package consent

import (
	"time"

	"github.com/google/uuid"

	"cohort/pkg/domain"
)

// Signature is one participant's signature of a subpopulation's consent
// document revision.
type Signature struct {
	ID                uuid.UUID
	StudyID           domain.StudyID
	SubpopulationGUID domain.SubpopulationGUID
	HealthCode        domain.HealthCode
	Name              string
	Birthdate         string
	ConsentCreatedOn  time.Time // revision of the consent document that was signed
	SignedOn          time.Time
	WithdrawnOn       *time.Time
}

// IsWithdrawn reports whether the participant withdrew this signature.
func (s Signature) IsWithdrawn() bool {
	return s.WithdrawnOn != nil
}

// ConsentHistory is the read model returned for a participant, one entry per
// signature in signing order.
type ConsentHistory struct {
	SubpopulationGUID      domain.SubpopulationGUID `json:"subpopulationGuid"`
	HealthCode             domain.HealthCode        `json:"-"`
	Name                   string                   `json:"name"`
	Birthdate              string                   `json:"birthdate,omitempty"`
	ConsentCreatedOn       time.Time                `json:"consentCreatedOn"`
	SignedOn               time.Time                `json:"signedOn"`
	WithdrewOn             *time.Time               `json:"withdrewOn,omitempty"`
	HasSignedActiveConsent bool                     `json:"hasSignedActiveConsent"`
}

func historyFrom(sig Signature, activeRevision time.Time, hasActiveRevision bool) ConsentHistory {
	h := ConsentHistory{
		SubpopulationGUID: sig.SubpopulationGUID,
		HealthCode:        sig.HealthCode,
		Name:              sig.Name,
		Birthdate:         sig.Birthdate,
		ConsentCreatedOn:  sig.ConsentCreatedOn,
		SignedOn:          sig.SignedOn,
	}
	if sig.WithdrawnOn != nil {
		w := *sig.WithdrawnOn
		h.WithdrewOn = &w
	}
	h.HasSignedActiveConsent = !sig.IsWithdrawn() &&
		(!hasActiveRevision || sig.ConsentCreatedOn.Equal(activeRevision))
	return h
}
