package requesttime

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"cohort/pkg/requestcontext"
)

func TestWithClock(t *testing.T) {
	fixed := time.Date(2024, 3, 9, 14, 5, 7, 123456789, time.FixedZone("CET", 3600))
	var seen time.Time
	h := WithClock(func() time.Time { return fixed })(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = requestcontext.Now(r.Context())
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.True(t, seen.Equal(time.Date(2024, 3, 9, 13, 5, 7, 123000000, time.UTC)), "got %s", seen)
	assert.Equal(t, time.UTC, seen.Location())
}
