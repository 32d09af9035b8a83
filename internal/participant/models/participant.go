package models

import (
	"strconv"

	"cohort/internal/consent"
	"cohort/pkg/domain"
	pstrings "cohort/pkg/platform/strings"
)

// Participant is the study-scoped view of an account joined with its health
// code dependent state. Fields read from the options store stay at their zero
// value when the account has no health code.
type Participant struct {
	FirstName  string            `json:"firstName,omitempty"`
	LastName   string            `json:"lastName,omitempty"`
	Email      string            `json:"email"`
	Password   string            `json:"password,omitempty"` // create only, never read back
	ExternalID string            `json:"externalId,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Roles      domain.Roles      `json:"roles,omitempty"`

	SharingScope  domain.SharingScope `json:"sharingScope,omitempty"`
	NotifyByEmail *bool               `json:"notifyByEmail,omitempty"`
	DataGroups    []string            `json:"dataGroups,omitempty"`
	Languages     []string            `json:"languages,omitempty"`

	ConsentHistories map[domain.SubpopulationGUID][]consent.ConsentHistory `json:"consentHistories"`

	// HealthCode is only populated for studies that export it.
	HealthCode domain.HealthCode `json:"healthCode,omitempty"`
}

// OptionValues returns one stored value per option kind. Unset fields map to
// the option's default so a save always rewrites the full option set.
func (p *Participant) OptionValues() map[domain.OptionKey]string {
	values := make(map[domain.OptionKey]string, len(domain.AllOptionKeys()))
	for _, key := range domain.AllOptionKeys() {
		values[key] = p.optionValue(key)
	}
	return values
}

func (p *Participant) optionValue(key domain.OptionKey) string {
	switch key {
	case domain.OptionSharingScope:
		if p.SharingScope == "" {
			return key.DefaultValue()
		}
		return string(p.SharingScope)
	case domain.OptionEmailNotifications:
		if p.NotifyByEmail == nil {
			return key.DefaultValue()
		}
		return strconv.FormatBool(*p.NotifyByEmail)
	case domain.OptionExternalIdentifier:
		return p.ExternalID
	case domain.OptionDataGroups:
		return pstrings.SetToCommaList(p.DataGroups)
	case domain.OptionLanguages:
		return pstrings.SetToCommaList(p.Languages)
	default:
		return key.DefaultValue()
	}
}

// UserProfile is the self-service editable subset of a participant.
type UserProfile struct {
	FirstName  string            `json:"firstName,omitempty"`
	LastName   string            `json:"lastName,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Attribute returns a profile attribute or "".
func (p UserProfile) Attribute(key string) string {
	return p.Attributes[key]
}
