package testutil

import (
	"context"
	"time"

	"cohort/pkg/requestcontext"
)

// FixedTime is the request time used by RequestContext.
var FixedTime = time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)

// RequestContext returns a context carrying a request ID, an actor and a fixed
// request time, the way request-handling code would populate it.
func RequestContext(requestID, actor string) context.Context {
	ctx := requestcontext.WithRequestID(context.Background(), requestID)
	ctx = requestcontext.WithActor(ctx, actor)
	return requestcontext.WithTime(ctx, FixedTime)
}
