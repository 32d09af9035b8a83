package lock

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"cohort/pkg/platform/sentinel"
)

// releaseScript deletes the key only while it still holds the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker implements the lock with SET NX PX and a compare-and-delete
// release script.
type RedisLocker struct {
	client redis.UniversalClient
	cfg    settings
}

func NewRedis(client redis.UniversalClient, opts ...Option) *RedisLocker {
	return &RedisLocker{client: client, cfg: buildSettings(opts)}
}

func (l *RedisLocker) Acquire(ctx context.Context, kind, key string) (string, error) {
	token := newToken()
	ok, err := l.client.SetNX(ctx, lockKey(kind, key), token, l.cfg.ttl).Result()
	if err != nil {
		return "", fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return "", sentinel.ErrLockHeld
	}
	return token, nil
}

func (l *RedisLocker) Release(ctx context.Context, kind, key, token string) error {
	deleted, err := releaseScript.Run(ctx, l.client, []string{lockKey(kind, key)}, token).Int()
	if err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	if deleted == 0 {
		return sentinel.ErrLockNotOwned
	}
	return nil
}
