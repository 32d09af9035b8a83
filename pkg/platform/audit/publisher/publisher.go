// Package publisher delivers audit events to an audit.Store. Delivery is best
// effort: a failing sink never fails the participant operation that emitted the
// event, but every failure is logged and metered.
package publisher

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	audit "cohort/pkg/platform/audit"
)

// ErrBufferFull is returned by Emit in async mode when the buffer cannot take
// another event.
var ErrBufferFull = errors.New("audit buffer full")

// Publisher emits audit events synchronously, or through a bounded buffer
// drained by a single background goroutine.
type Publisher struct {
	store   audit.Store
	logger  *slog.Logger
	metrics *Metrics
	breaker *CircuitBreaker

	buffer chan audit.Event
	wg     sync.WaitGroup
	once   sync.Once
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithAsyncBuffer switches to async mode with a buffer of the given size.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		if size > 0 {
			p.buffer = make(chan audit.Event, size)
		}
	}
}

// WithLogger sets a logger for error reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *Metrics) Option {
	return func(p *Publisher) {
		p.metrics = m
	}
}

// WithCircuitBreaker guards the store with a circuit breaker.
func WithCircuitBreaker(cb *CircuitBreaker) Option {
	return func(p *Publisher) {
		p.breaker = cb
	}
}

// NewPublisher creates a publisher writing to store.
func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	if p.buffer != nil {
		p.wg.Add(1)
		go p.drain()
	}
	return p
}

// Emit records an event. The timestamp defaults to now and the category is
// derived from the action.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	event.Category = audit.AuditEvent(event.Action).Category()

	if p.buffer == nil {
		return p.write(ctx, event)
	}

	select {
	case p.buffer <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		p.metrics.incBufferDropped()
		if p.logger != nil {
			p.logger.WarnContext(ctx, "audit buffer full, dropping event", "action", event.Action)
		}
		return ErrBufferFull
	}
}

// Close waits for the buffer to drain. Emit must not be called afterwards.
func (p *Publisher) Close() {
	p.once.Do(func() {
		if p.buffer != nil {
			close(p.buffer)
			p.wg.Wait()
		}
	})
}

func (p *Publisher) drain() {
	defer p.wg.Done()
	for event := range p.buffer {
		// detached from the emitting request, which has usually finished
		_ = p.write(context.Background(), event)
	}
}

func (p *Publisher) write(ctx context.Context, event audit.Event) error {
	if p.breaker != nil && !p.breaker.Allow() {
		p.metrics.incCircuitBreakerDropped()
		return nil
	}

	if err := p.store.Append(ctx, event); err != nil {
		p.metrics.incPersistFailures()
		if p.breaker != nil {
			p.breaker.RecordFailure()
			p.metrics.setCircuitBreakerState(p.breaker.IsOpen())
		}
		if p.logger != nil {
			p.logger.ErrorContext(ctx, "audit event persistence failed",
				"action", event.Action,
				"account_id", event.AccountID.String(),
				"error", err,
			)
		}
		return err
	}

	if p.breaker != nil {
		p.breaker.RecordSuccess()
		p.metrics.setCircuitBreakerState(false)
	}
	p.metrics.incEmitted()
	return nil
}
