package attrs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	kv := []any{"request_id", "req-1", "reason", "retry exhausted", 42, "ignored", "attempts", 3}

	assert.Equal(t, "retry exhausted", String(kv, "reason"))
	assert.Equal(t, "", String(kv, "attempts"), "non-string values are skipped")
	assert.Equal(t, "", String(kv, "missing"))
	assert.Equal(t, "", String([]any{"reason"}, "reason"), "dangling key has no value")
}

func TestValueLastWins(t *testing.T) {
	kv := []any{"attempts", 1, "attempts", 4}

	n, ok := Value[int](kv, "attempts")
	assert.True(t, ok)
	assert.Equal(t, 4, n)
}
