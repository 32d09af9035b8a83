package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cohort/pkg/platform/sentinel"
)

func TestInMemoryLocker(t *testing.T) {
	ctx := context.Background()

	t.Run("second acquire fails until release", func(t *testing.T) {
		l := NewInMemory()
		token, err := l.Acquire(ctx, "participant", "pat@example.org")
		require.NoError(t, err)
		require.NotEmpty(t, token)

		_, err = l.Acquire(ctx, "participant", "pat@example.org")
		assert.ErrorIs(t, err, sentinel.ErrLockHeld)

		_, err = l.Acquire(ctx, "participant", "other@example.org")
		assert.NoError(t, err, "keys are independent")

		require.NoError(t, l.Release(ctx, "participant", "pat@example.org", token))
		_, err = l.Acquire(ctx, "participant", "pat@example.org")
		assert.NoError(t, err)
	})

	t.Run("release with a foreign token is rejected", func(t *testing.T) {
		l := NewInMemory()
		_, err := l.Acquire(ctx, "participant", "k")
		require.NoError(t, err)
		assert.ErrorIs(t, l.Release(ctx, "participant", "k", "not-mine"), sentinel.ErrLockNotOwned)
	})

	t.Run("expired lock can be taken over", func(t *testing.T) {
		now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		l := NewInMemory(WithTTL(time.Second))
		l.cfg.now = func() time.Time { return now }

		stale, err := l.Acquire(ctx, "participant", "k")
		require.NoError(t, err)

		now = now.Add(2 * time.Second)
		_, err = l.Acquire(ctx, "participant", "k")
		require.NoError(t, err)
		assert.ErrorIs(t, l.Release(ctx, "participant", "k", stale), sentinel.ErrLockNotOwned)
	})

	t.Run("concurrent acquirers have a single winner", func(t *testing.T) {
		l := NewInMemory()
		var wins atomic.Int32
		var wg sync.WaitGroup
		for range 16 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := l.Acquire(ctx, "participant", "race"); err == nil {
					wins.Add(1)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), wins.Load())
	})
}
