package domain

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// State is the per-call lifecycle position
type State string

// Call states, PENDING has exactly one transition out
const (
	StatePending        State = "PENDING"
	StateResolvedOK     State = "RESOLVED_OK"
	StateResolvedError  State = "RESOLVED_ERROR"
	StateTimedOut       State = "TIMED_OUT"
	StateDispatchFailed State = "DISPATCH_FAILED"
)

// Handle is the awaitable tracking one outstanding call.
// It is completed exactly once; duplicate completions are no-ops.
// Waiters observe completion through a closed channel so neither the
// listener nor the sweeper ever blocks on a caller.
type Handle struct {
	correlationID string
	kind          Kind
	callerID      string
	issuedAt      time.Time
	deadline      time.Time

	ch   chan struct{} // closed when the outcome is ready
	once sync.Once
	mu   sync.Mutex
	res  any
	err  error

	cancelled atomic.Bool
}

// NewHandle allocates a pending handle for one call
func NewHandle(correlationID string, kind Kind, callerID string, issuedAt, deadline time.Time) *Handle {
	return &Handle{
		correlationID: correlationID,
		kind:          kind,
		callerID:      callerID,
		issuedAt:      issuedAt,
		deadline:      deadline,
		ch:            make(chan struct{}),
	}
}

// CorrelationID returns the call's correlation identifier
func (h *Handle) CorrelationID() string { return h.correlationID }

// Kind returns the kind of the originating request
func (h *Handle) Kind() Kind { return h.kind }

// CallerID returns the identity the request was issued for
func (h *Handle) CallerID() string { return h.callerID }

// IssuedAt returns the instant the request was dispatched
func (h *Handle) IssuedAt() time.Time { return h.issuedAt }

// Deadline returns the instant after which the sweeper may expire the call
func (h *Handle) Deadline() time.Time { return h.deadline }

// Resolve completes the handle with a typed result exactly once
func (h *Handle) Resolve(res any) {
	h.once.Do(func() {
		h.mu.Lock()
		h.res = res
		h.mu.Unlock()
		close(h.ch)
	})
}

// Fail completes the handle with an error exactly once
func (h *Handle) Fail(err error) {
	h.once.Do(func() {
		h.mu.Lock()
		h.err = err
		h.mu.Unlock()
		close(h.ch)
	})
}

// Resolved reports whether the handle already carries an outcome
func (h *Handle) Resolved() bool {
	select {
	case <-h.ch:
		return true
	default:
		return false
	}
}

// Done returns a channel closed when the outcome is ready
func (h *Handle) Done() <-chan struct{} { return h.ch }

// Await blocks until the outcome is ready or ctx is cancelled.
// A ctx cancellation does not remove the call from the registry;
// a late reply is still absorbed there and discarded.
func (h *Handle) Await(ctx context.Context) (any, error) {
	select {
	case <-h.ch:
		h.mu.Lock()
		defer h.mu.Unlock()
		return h.res, h.err
	case <-ctx.Done():
		h.cancelled.Store(true)
		return nil, ctx.Err()
	}
}

// Cancel marks the handle as no longer interesting to the caller.
// The registry still owns the entry until a reply or expiry removes it.
func (h *Handle) Cancel() { h.cancelled.Store(true) }

// Cancelled reports whether the caller walked away before resolution
func (h *Handle) Cancelled() bool { return h.cancelled.Load() }

// Outcome returns the stored result and error once resolved.
// Before resolution both are zero
func (h *Handle) Outcome() (any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.res, h.err
}
