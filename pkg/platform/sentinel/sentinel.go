// Package sentinel holds the store-level facts that services translate into
// domain errors. Stores return them wrapped or bare; callers test with
// errors.Is and never expose them to clients directly.
package sentinel

import "errors"

var (
	// ErrNotFound means the keyed record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict means a uniqueness constraint rejected the write, e.g. a
	// second account with the same email in a study.
	ErrConflict = errors.New("conflict")
	// ErrInvalidState means the record exists but cannot make the requested
	// transition, e.g. releasing an external ID that is already assigned.
	ErrInvalidState = errors.New("invalid state")

	// ErrLockHeld means another caller owns the participant lock.
	ErrLockHeld = errors.New("lock held")
	// ErrLockNotOwned means the release token no longer owns the lock,
	// usually because it expired and was re-acquired.
	ErrLockNotOwned = errors.New("lock not owned")
)
