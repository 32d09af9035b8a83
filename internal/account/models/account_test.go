package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cohort/pkg/domain"
	dErrors "cohort/pkg/domain-errors"
)

func TestAccountAttributes(t *testing.T) {
	acct := &Account{}
	acct.SetAttribute("phone", "555-0100")
	assert.Equal(t, "555-0100", acct.Attribute("phone"))

	acct.SetAttribute("phone", "")
	assert.Empty(t, acct.Attribute("phone"))
	assert.NotContains(t, acct.Attributes, "phone")
}

func TestAccountClone(t *testing.T) {
	acct := &Account{
		Email:      "p@example.org",
		Attributes: map[string]string{"phone": "1"},
		Roles:      domain.NewRoles(domain.RoleDeveloper),
	}
	c := acct.Clone()
	c.Attributes["phone"] = "2"
	c.Roles[0] = domain.RoleAdmin

	assert.Equal(t, "1", acct.Attributes["phone"])
	assert.Equal(t, domain.RoleDeveloper, acct.Roles[0])
}

func TestSignUpValidate(t *testing.T) {
	require.NoError(t, SignUp{Email: "p@example.org", Password: "P4ssword!"}.Validate())

	err := SignUp{Email: " ", Password: "x"}.Validate()
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	err = SignUp{Email: "p@example.org"}.Validate()
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "p@example.org", NormalizeEmail("  P@Example.ORG "))
}
