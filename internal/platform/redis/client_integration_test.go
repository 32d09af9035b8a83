//go:build integration

package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cohort/internal/platform/config"
	platformredis "cohort/internal/platform/redis"
	"cohort/pkg/testutil/containers"
)

func TestNew(t *testing.T) {
	ctx := context.Background()

	t.Run("empty URL disables redis", func(t *testing.T) {
		client, err := platformredis.New(ctx, config.RedisConfig{})
		require.NoError(t, err)
		assert.Nil(t, client)
	})

	t.Run("malformed URL is rejected", func(t *testing.T) {
		_, err := platformredis.New(ctx, config.RedisConfig{URL: "not a url"})
		assert.ErrorContains(t, err, "parse redis URL")
	})

	t.Run("connects and reports healthy", func(t *testing.T) {
		rc := containers.GetManager().GetRedis(t)
		client, err := platformredis.New(ctx, config.RedisConfig{
			URL:         rc.URL,
			PoolSize:    2,
			DialTimeout: 2 * time.Second,
		})
		require.NoError(t, err)
		require.NotNil(t, client)
		defer client.Close()

		assert.NoError(t, client.Health(ctx))
		require.NoError(t, client.Set(ctx, "cohort:probe", "1", time.Minute).Err())
		assert.Equal(t, "1", client.Get(ctx, "cohort:probe").Val())
	})
}
