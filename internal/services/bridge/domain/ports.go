package domain

import (
	"context"
	"time"
)

// SubmitterPort is the caller-facing surface of the bridge
type SubmitterPort interface {
	// Submit registers a call and publishes it outbound.
	// A zero timeout selects the per-kind default
	Submit(ctx context.Context, kind Kind, payload Payload, callerID string, timeout time.Duration) (*Handle, error)
}

// Delivery is one raw record pulled off the inbound channel
type Delivery struct {
	Key   []byte
	Value []byte
}

// PublisherPort pushes encoded requests onto the outbound channel.
// The connection behind it is process-wide, opened once at startup
type PublisherPort interface {
	Publish(ctx context.Context, key string, value []byte) error
}

// ConsumerPort pulls raw records off an inbound channel
type ConsumerPort interface {
	Fetch(ctx context.Context) (Delivery, error)
}

// CallOutcome summarizes one finished call for observers
type CallOutcome struct {
	CorrelationID string
	Kind          Kind
	CallerID      string
	State         State
	IssuedAt      time.Time
	FinishedAt    time.Time
	ErrorMessage  string
}

// OutcomeHook observes terminal call states, it must not block
type OutcomeHook func(CallOutcome)
