package healthcode

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cohort/pkg/domain"
	"cohort/pkg/platform/sentinel"
)

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()

	healthID, code, err := store.Create(ctx, "api")
	require.NoError(t, err)
	assert.False(t, healthID.IsNil())
	assert.False(t, code.IsEmpty())

	resolved, err := store.Resolve(ctx, healthID)
	require.NoError(t, err)
	assert.Equal(t, code, resolved)

	_, other, err := store.Create(ctx, "api")
	require.NoError(t, err)
	assert.NotEqual(t, code, other, "every mapping gets its own code")

	_, err = store.Resolve(ctx, domain.NewHealthID())
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	store.Remove(healthID)
	_, err = store.Resolve(ctx, healthID)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}
