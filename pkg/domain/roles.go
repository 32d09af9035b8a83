package domain

import (
	"slices"
	"strings"

	dErrors "cohort/pkg/domain-errors"
)

// Role is an administrative role held by an account. Plain participants hold none.
type Role string

const (
	RoleDeveloper  Role = "developer"
	RoleResearcher Role = "researcher"
	RoleAdmin      Role = "admin"
	RoleTestUser   Role = "test_users"
	RoleWorker     Role = "worker"
)

var validRoles = map[Role]bool{
	RoleDeveloper:  true,
	RoleResearcher: true,
	RoleAdmin:      true,
	RoleTestUser:   true,
	RoleWorker:     true,
}

// ParseRole constructs a Role from external input.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if r == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "role cannot be empty")
	}
	if !r.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid role")
	}
	return r, nil
}

func (r Role) IsValid() bool  { return validRoles[r] }
func (r Role) String() string { return string(r) }

// Roles is a set of roles kept sorted so equality and persistence are stable.
type Roles []Role

// NewRoles dedupes and sorts the given roles.
func NewRoles(roles ...Role) Roles {
	out := make(Roles, 0, len(roles))
	for _, r := range roles {
		if r == "" || slices.Contains(out, r) {
			continue
		}
		out = append(out, r)
	}
	slices.Sort(out)
	return out
}

func (rs Roles) Contains(r Role) bool { return slices.Contains(rs, r) }

// Strings returns the roles as plain strings, e.g. for pq.Array.
func (rs Roles) Strings() []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = string(r)
	}
	return out
}

// RolesFromStrings is the inverse of Strings; unknown values are dropped.
func RolesFromStrings(values []string) Roles {
	roles := make([]Role, 0, len(values))
	for _, v := range values {
		if r := Role(v); r.IsValid() {
			roles = append(roles, r)
		}
	}
	return NewRoles(roles...)
}
