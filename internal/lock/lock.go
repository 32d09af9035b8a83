// Package lock provides expiring mutual exclusion keyed by (kind, key).
// Acquire never blocks: a held lock fails fast with sentinel.ErrLockHeld and
// callers decide whether to retry.
package lock

import (
	"time"

	"github.com/google/uuid"
)

// DefaultTTL bounds how long a crashed holder can block others.
const DefaultTTL = 30 * time.Second

type Option func(*settings)

type settings struct {
	ttl time.Duration
	now func() time.Time
}

// WithTTL sets the lock expiry.
func WithTTL(ttl time.Duration) Option {
	return func(s *settings) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func buildSettings(opts []Option) settings {
	s := settings{ttl: DefaultTTL, now: time.Now}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

func lockKey(kind, key string) string {
	return "lock:" + kind + ":" + key
}

func newToken() string {
	return uuid.NewString()
}
