// Package service implements the asynchronous inference bridge: dispatch,
// correlation, reply listening, and deadline sweeping
package service

import (
	"context"
	"time"

	"geulpi/internal/platform/logger"
	"geulpi/internal/services/bridge/domain"

	"github.com/google/uuid"
)

// Config carries the bridge timing knobs
type Config struct {
	// DefaultTimeout bounds calls whose kind has no tighter default
	DefaultTimeout time.Duration
	// ClassifyTimeout bounds classification calls, which are cheap remotely
	ClassifyTimeout time.Duration
	// MinTimeout is the floor applied to caller supplied timeouts
	MinTimeout time.Duration
	// SweepInterval is the sweeper tick, kept below MinTimeout
	SweepInterval time.Duration

	// Now and NewID are seams for tests, zero values pick the real ones
	Now   func() time.Time
	NewID func() string
}

func (c *Config) defaults() {
	if c.DefaultTimeout <= 0 {
		c.DefaultTimeout = 30 * time.Second
	}
	if c.ClassifyTimeout <= 0 {
		c.ClassifyTimeout = 10 * time.Second
	}
	if c.MinTimeout <= 0 {
		c.MinTimeout = 2 * time.Second
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = time.Second
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.NewID == nil {
		c.NewID = uuid.NewString
	}
}

// Service owns the pending registry and the worker loops around it
type Service struct {
	log  logger.Logger
	cfg  Config
	reg  *Registry
	pub  domain.PublisherPort
	cons domain.ConsumerPort
	hook domain.OutcomeHook
}

// New wires a bridge service around process-wide broker ports.
// hook may be nil when nobody observes outcomes
func New(log logger.Logger, cfg Config, pub domain.PublisherPort, cons domain.ConsumerPort, hook domain.OutcomeHook) *Service {
	cfg.defaults()
	return &Service{
		log:  log,
		cfg:  cfg,
		reg:  NewRegistry(),
		pub:  pub,
		cons: cons,
		hook: hook,
	}
}

// Registry exposes the pending table for health reporting
func (s *Service) Registry() *Registry { return s.reg }

// Run drives the listener and sweeper until ctx is cancelled or one of
// them fails. It blocks
func (s *Service) Run(ctx context.Context) error {
	errc := make(chan error, 2)
	go func() { errc <- s.RunListener(ctx) }()
	go func() { errc <- s.RunSweeper(ctx) }()
	return <-errc
}

// timeoutFor picks the per kind default deadline budget
func (s *Service) timeoutFor(kind domain.Kind) time.Duration {
	if kind == domain.KindClassifyEvent {
		return s.cfg.ClassifyTimeout
	}
	return s.cfg.DefaultTimeout
}

// emit reports a terminal call state without ever blocking bridge workers
func (s *Service) emit(h *domain.Handle, state domain.State, errMsg string) {
	if s.hook == nil {
		return
	}
	s.hook(domain.CallOutcome{
		CorrelationID: h.CorrelationID(),
		Kind:          h.Kind(),
		CallerID:      h.CallerID(),
		State:         state,
		IssuedAt:      h.IssuedAt(),
		FinishedAt:    s.cfg.Now(),
		ErrorMessage:  errMsg,
	})
}
