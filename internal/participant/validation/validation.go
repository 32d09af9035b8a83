// Package validation checks participants against a study's configuration
// before the orchestrator writes anything.
package validation

import (
	"net/mail"
	"slices"
	"strings"

	"cohort/internal/participant/models"
	"cohort/internal/study"
	dErrors "cohort/pkg/domain-errors"
)

// MinPasswordLength is the shortest password accepted at creation.
const MinPasswordLength = 8

// ParticipantValidator is study and mode aware: creation requires credentials
// and, under strict external ID validation, an external ID.
type ParticipantValidator struct {
	study *study.Study
	isNew bool
}

func NewParticipantValidator(s *study.Study, isNew bool) *ParticipantValidator {
	return &ParticipantValidator{study: s, isNew: isNew}
}

// Validate returns a single CodeValidation error listing every problem found.
func (v *ParticipantValidator) Validate(p *models.Participant) error {
	if p == nil {
		return dErrors.New(dErrors.CodeValidation, "participant is required")
	}
	var problems []string

	if v.isNew {
		email := strings.TrimSpace(p.Email)
		switch {
		case email == "":
			problems = append(problems, "email is required")
		case !validEmail(email):
			problems = append(problems, "email must be a valid email address")
		}
		switch {
		case p.Password == "":
			problems = append(problems, "password is required")
		case len(p.Password) < MinPasswordLength:
			problems = append(problems, "password must be at least 8 characters")
		}
		if v.study.ExternalIDValidationEnabled && strings.TrimSpace(p.ExternalID) == "" {
			problems = append(problems, "externalId is required")
		}
	}

	if p.SharingScope != "" && !p.SharingScope.IsValid() {
		problems = append(problems, "sharingScope is not a valid sharing scope")
	}
	problems = append(problems, dataGroupProblems(v.study.DataGroups, p.DataGroups)...)
	for key := range p.Attributes {
		if !v.study.HasAttribute(key) {
			problems = append(problems, "attributes: '"+key+"' is not a configured user profile attribute")
		}
	}
	for _, lang := range p.Languages {
		if strings.TrimSpace(lang) == "" {
			problems = append(problems, "languages cannot contain blank entries")
			break
		}
	}

	if len(problems) == 0 {
		return nil
	}
	slices.Sort(problems)
	return dErrors.New(dErrors.CodeValidation, "participant is invalid: "+strings.Join(problems, "; "))
}

// ValidateDataGroups checks groups against a study's data group vocabulary.
func ValidateDataGroups(vocabulary, groups []string) error {
	problems := dataGroupProblems(vocabulary, groups)
	if len(problems) == 0 {
		return nil
	}
	return dErrors.New(dErrors.CodeValidation, "data groups are invalid: "+strings.Join(problems, "; "))
}

func dataGroupProblems(vocabulary, groups []string) []string {
	var problems []string
	for _, g := range groups {
		if !slices.Contains(vocabulary, g) {
			problems = append(problems, "dataGroups: '"+g+"' is not one of these valid values: "+strings.Join(vocabulary, ", "))
		}
	}
	return problems
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
