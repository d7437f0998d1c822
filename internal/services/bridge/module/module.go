// Package module implements the inference bridge module
package module

import (
	"context"

	"geulpi/internal/modkit"
	"geulpi/internal/modkit/httpkit"
	"geulpi/internal/services/bridge/domain"
	"geulpi/internal/services/bridge/service"
)

// Ports exposed by the bridge module
type Ports struct {
	Submit domain.SubmitterPort
}

// Module implements the bridge service module
type Module struct {
	deps  modkit.Deps
	svc   *service.Service
	ports Ports
}

// New constructs a bridge module around process-wide broker ports.
// hook may be nil when no outcome observer is wired
func New(deps modkit.Deps, pub domain.PublisherPort, cons domain.ConsumerPort, hook domain.OutcomeHook) *Module {
	opts := FromConfig(deps.Cfg)

	svc := service.New(deps.Log, service.Config{
		DefaultTimeout:  opts.DefaultTimeout,
		ClassifyTimeout: opts.ClassifyTimeout,
		MinTimeout:      opts.MinTimeout,
		SweepInterval:   opts.SweepInterval,
	}, pub, cons, hook)

	m := &Module{deps: deps, svc: svc}
	m.ports = Ports{Submit: svc}
	return m
}

// Run starts the listener and sweeper workers and blocks until ctx ends
func (m *Module) Run(ctx context.Context) error { return m.svc.Run(ctx) }

// PendingCalls reports the registry depth for health endpoints
func (m *Module) PendingCalls() int { return m.svc.Registry().Len() }

// Name satisfies modkit.Module
func (m *Module) Name() string { return "bridge" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module, the bridge has no HTTP surface
func (m *Module) MountRoutes(r httpkit.Router) {}
