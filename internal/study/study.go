// Package study holds the static study configuration the participant core
// reads: attribute vocabulary, data group vocabulary, feature flags and
// subpopulations. Study management itself lives elsewhere.
package study

import (
	"slices"
	"time"

	"cohort/pkg/domain"
)

// Subpopulation is a consent grouping within a study.
type Subpopulation struct {
	GUID     domain.SubpopulationGUID `json:"guid"`
	Name     string                   `json:"name"`
	Required bool                     `json:"required"`
	// ActiveConsentCreatedOn identifies the published consent document revision.
	ActiveConsentCreatedOn time.Time `json:"activeConsentCreatedOn"`
}

// Study is the participant-facing configuration of one study.
type Study struct {
	ID                          domain.StudyID  `json:"id"`
	Name                        string          `json:"name"`
	UserProfileAttributes       []string        `json:"userProfileAttributes"`
	DataGroups                  []string        `json:"dataGroups"`
	HealthCodeExportEnabled     bool            `json:"healthCodeExportEnabled"`
	ExternalIDValidationEnabled bool            `json:"externalIdValidationEnabled"`
	EmailVerificationEnabled    bool            `json:"emailVerificationEnabled"`
	Subpopulations              []Subpopulation `json:"subpopulations"`
}

// HasAttribute reports whether key is a configured profile attribute.
func (s *Study) HasAttribute(key string) bool {
	return slices.Contains(s.UserProfileAttributes, key)
}

// HasDataGroup reports whether group is in the study's data group vocabulary.
func (s *Study) HasDataGroup(group string) bool {
	return slices.Contains(s.DataGroups, group)
}

// Subpopulation returns the subpopulation with the given GUID.
func (s *Study) Subpopulation(guid domain.SubpopulationGUID) (Subpopulation, bool) {
	for _, sp := range s.Subpopulations {
		if sp.GUID == guid {
			return sp, true
		}
	}
	return Subpopulation{}, false
}

// DefaultStudy is the development study used when no studies file is configured.
func DefaultStudy() Study {
	return Study{
		ID:                       "api",
		Name:                     "Development Study",
		UserProfileAttributes:    []string{"phone", "can_be_recontacted"},
		DataGroups:               []string{"sdk-int-1", "sdk-int-2", "group1"},
		EmailVerificationEnabled: true,
		Subpopulations: []Subpopulation{
			{GUID: "api", Name: "Default Consent Group", Required: true},
		},
	}
}
