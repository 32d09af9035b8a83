package lock

import (
	"context"
	"sync"
	"time"

	"cohort/pkg/platform/sentinel"
)

type held struct {
	token     string
	expiresAt time.Time
}

// InMemoryLocker is a single-process implementation with the same expiry
// semantics as RedisLocker.
type InMemoryLocker struct {
	mu    sync.Mutex
	locks map[string]held
	cfg   settings
}

func NewInMemory(opts ...Option) *InMemoryLocker {
	return &InMemoryLocker{locks: make(map[string]held), cfg: buildSettings(opts)}
}

func (l *InMemoryLocker) Acquire(ctx context.Context, kind, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.cfg.now()
	k := lockKey(kind, key)
	if h, ok := l.locks[k]; ok && now.Before(h.expiresAt) {
		return "", sentinel.ErrLockHeld
	}
	token := newToken()
	l.locks[k] = held{token: token, expiresAt: now.Add(l.cfg.ttl)}
	return token, nil
}

func (l *InMemoryLocker) Release(_ context.Context, kind, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	k := lockKey(kind, key)
	h, ok := l.locks[k]
	if !ok || h.token != token || !l.cfg.now().Before(h.expiresAt) {
		return sentinel.ErrLockNotOwned
	}
	delete(l.locks, k)
	return nil
}
