// Package requesttime stamps each request with a single "now" so every
// timestamp written while serving it agrees.
package requesttime

import (
	"net/http"
	"time"

	"cohort/pkg/requestcontext"
)

// Middleware stamps requests with the wall clock.
func Middleware(next http.Handler) http.Handler {
	return WithClock(time.Now)(next)
}

// WithClock stamps requests using now, truncated to milliseconds to match the
// precision the stores persist.
func WithClock(now func() time.Time) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			stamp := now().UTC().Truncate(time.Millisecond)
			next.ServeHTTP(w, r.WithContext(requestcontext.WithTime(r.Context(), stamp)))
		})
	}
}
