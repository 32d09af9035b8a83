package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeClassification(t *testing.T) {
	t.Run("HasCode matches the outermost code", func(t *testing.T) {
		err := Wrap(New(CodeNotFound, "account not found"), CodeInternal, "lookup failed")
		assert.True(t, HasCode(err, CodeInternal))
		assert.False(t, HasCode(err, CodeNotFound))
	})

	t.Run("HasCode sees through fmt wrapping", func(t *testing.T) {
		err := fmt.Errorf("save participant: %w", New(CodeValidation, "bad email"))
		assert.True(t, HasCode(err, CodeValidation))
		assert.Equal(t, CodeValidation, CodeOf(err))
	})

	t.Run("foreign errors are internal and carry no code", func(t *testing.T) {
		err := errors.New("boom")
		assert.False(t, HasCode(err, CodeInternal))
		assert.Equal(t, CodeInternal, CodeOf(err))
		assert.False(t, HasCode(nil, CodeInternal))
	})

	t.Run("wrapped cause stays reachable", func(t *testing.T) {
		cause := errors.New("redis down")
		err := Wrap(cause, CodeUnavailable, "lock unavailable")
		require.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "redis down")
	})
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"unavailable", New(CodeUnavailable, "x"), true},
		{"timeout", New(CodeTimeout, "x"), true},
		{"not found", New(CodeNotFound, "x"), false},
		{"validation", New(CodeValidation, "x"), false},
		{"precondition", New(CodePrecondition, "x"), false},
		{"foreign", errors.New("x"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}
