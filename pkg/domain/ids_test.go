package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "cohort/pkg/domain-errors"
)

// TestParseAccountID_Invariants validates the parsing invariant:
// "IDs must be valid, non-empty, non-nil UUIDs"
func TestParseAccountID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseAccountID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseAccountID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseAccountID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		valid := uuid.New()
		parsed, err := ParseAccountID(valid.String())
		require.NoError(t, err)
		assert.Equal(t, AccountID(valid), parsed)
	})
}

func TestParseID_SecurityInvariants(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"SQL injection attempt", "'; DROP TABLE accounts;--", true},
		{"Path traversal", "../../../etc/passwd", true},
		{"Null byte injection", "550e8400\x00-e29b-41d4-a716-446655440000", true},
		{"Oversized input", strings.Repeat("a", 1000), true},
		{"Empty string", "", true},
		{"Nil UUID", uuid.Nil.String(), true},
		{"Uppercase valid UUID", "550E8400-E29B-41D4-A716-446655440000", false},
		{"Valid UUID lowercase", "550e8400-e29b-41d4-a716-446655440000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errAccount := ParseAccountID(tt.input)
			_, errHealth := ParseHealthID(tt.input)
			if tt.wantErr {
				require.Error(t, errAccount)
				require.Error(t, errHealth)
				assert.True(t, dErrors.HasCode(errAccount, dErrors.CodeInvalidInput))
			} else {
				require.NoError(t, errAccount)
				require.NoError(t, errHealth)
			}
		})
	}
}

func TestParseStudyID(t *testing.T) {
	_, err := ParseStudyID("   ")
	require.Error(t, err)

	id, err := ParseStudyID(" api ")
	require.NoError(t, err)
	assert.Equal(t, StudyID("api"), id)
}

func TestHealthCode_IsEmpty(t *testing.T) {
	assert.True(t, HealthCode("").IsEmpty())
	assert.True(t, HealthCode("  ").IsEmpty())
	assert.False(t, HealthCode("abc").IsEmpty())
}

func TestEnums(t *testing.T) {
	t.Run("roles parse case-insensitively and dedupe", func(t *testing.T) {
		r, err := ParseRole(" Admin ")
		require.NoError(t, err)
		assert.Equal(t, RoleAdmin, r)

		_, err = ParseRole("superuser")
		require.Error(t, err)

		roles := NewRoles(RoleWorker, RoleAdmin, RoleWorker, "")
		assert.Equal(t, Roles{RoleAdmin, RoleWorker}, roles)
		assert.True(t, roles.Contains(RoleWorker))
		assert.Equal(t, roles, RolesFromStrings([]string{"worker", "admin", "bogus"}))
	})

	t.Run("sharing scope accepts legacy upper-case rows", func(t *testing.T) {
		s, err := ParseSharingScope("SPONSORS_AND_PARTNERS")
		require.NoError(t, err)
		assert.Equal(t, SharingScopeSponsorsAndPartners, s)

		_, err = ParseSharingScope("everyone")
		require.Error(t, err)
	})

	t.Run("option keys", func(t *testing.T) {
		assert.Len(t, AllOptionKeys(), 5)
		for _, k := range AllOptionKeys() {
			parsed, err := ParseOptionKey(string(k))
			require.NoError(t, err)
			assert.Equal(t, k, parsed)
		}
		_, err := ParseOptionKey("FAVORITE_COLOR")
		require.Error(t, err)
		assert.Equal(t, "no_sharing", OptionSharingScope.DefaultValue())
		assert.Equal(t, "true", OptionEmailNotifications.DefaultValue())
		assert.Equal(t, "", OptionDataGroups.DefaultValue())
	})
}

func TestAccountID_JSON(t *testing.T) {
	id := NewAccountID()
	raw, err := json.Marshal(struct {
		ID AccountID `json:"id"`
	}{id})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"`+id.String()+`"}`, string(raw))

	var decoded struct {
		ID AccountID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, id, decoded.ID)
}
