package domain

import (
	"strings"

	dErrors "cohort/pkg/domain-errors"
)

// SharingScope controls how widely a participant's health data may be shared.
type SharingScope string

const (
	SharingScopeNone                SharingScope = "no_sharing"
	SharingScopeSponsorsAndPartners SharingScope = "sponsors_and_partners"
	SharingScopeAllQualified        SharingScope = "all_qualified_researchers"
)

var validSharingScopes = map[SharingScope]bool{
	SharingScopeNone:                true,
	SharingScopeSponsorsAndPartners: true,
	SharingScopeAllQualified:        true,
}

// ParseSharingScope accepts the canonical lower-case names and their upper-case
// spelling, which is how older option rows were written.
func ParseSharingScope(s string) (SharingScope, error) {
	scope := SharingScope(strings.ToLower(strings.TrimSpace(s)))
	if scope == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "sharing scope cannot be empty")
	}
	if !scope.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid sharing scope")
	}
	return scope, nil
}

func (s SharingScope) IsValid() bool  { return validSharingScopes[s] }
func (s SharingScope) String() string { return string(s) }
