package domain

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	dErrors "cohort/pkg/domain-errors"
)

// AccountID identifies an account record. It is never exported outside the study.
type AccountID uuid.UUID

// HealthID is the opaque per-account identifier handed out at sign-up. It maps to
// exactly one HealthCode through the health code service.
type HealthID uuid.UUID

// HealthCode keys all downstream health data for a participant. It is pseudonymous
// and immutable once created.
type HealthCode string

// StudyID identifies a study.
type StudyID string

// SubpopulationGUID identifies a consent grouping within a study.
type SubpopulationGUID string

func NewAccountID() AccountID { return AccountID(uuid.New()) }
func NewHealthID() HealthID   { return HealthID(uuid.New()) }

func (id AccountID) String() string { return uuid.UUID(id).String() }
func (id AccountID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id AccountID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}

func (id *AccountID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

func (id HealthID) String() string { return uuid.UUID(id).String() }
func (id HealthID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (c HealthCode) String() string { return string(c) }
func (c HealthCode) IsEmpty() bool  { return strings.TrimSpace(string(c)) == "" }

func (s StudyID) String() string { return string(s) }

func (g SubpopulationGUID) String() string { return string(g) }

// ParseAccountID parses an account identifier at a trust boundary.
func ParseAccountID(s string) (AccountID, error) {
	u, err := parseUUID(s, "account ID")
	if err != nil {
		return AccountID{}, err
	}
	return AccountID(u), nil
}

// ParseHealthID parses a health identifier at a trust boundary.
func ParseHealthID(s string) (HealthID, error) {
	u, err := parseUUID(s, "health ID")
	if err != nil {
		return HealthID{}, err
	}
	return HealthID(u), nil
}

// ParseStudyID rejects blank study identifiers.
func ParseStudyID(s string) (StudyID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "study ID cannot be empty")
	}
	return StudyID(s), nil
}

func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	if !utf8.ValidString(s) {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be nil")
	}
	return u, nil
}
