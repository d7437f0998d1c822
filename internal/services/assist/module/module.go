// Package module wires assist into the gateway using modkit
package module

import (
	"net/http"

	"geulpi/internal/modkit"
	"geulpi/internal/modkit/httpkit"
	dom "geulpi/internal/services/assist/domain"
	ahttp "geulpi/internal/services/assist/http"
	"geulpi/internal/services/assist/service"
	bdom "geulpi/internal/services/bridge/domain"
	idom "geulpi/internal/services/ident/domain"
)

// Ports exposed by the assist module
type Ports struct {
	Assist dom.AssistPort
}

// Module implements the assist service module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws   []func(http.Handler) http.Handler
	ports Ports

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)
}

// New constructs an assist module over the bridge submitter and an optional
// ident reader
func New(deps modkit.Deps, bridge bdom.SubmitterPort, ident idom.ReaderPort, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("assist"),
		modkit.WithPrefix("/assist"),
	}, opts...)...)

	cfg := FromConfig(deps.Cfg)
	svc := service.New(service.Config{
		UnderstandTimeout: cfg.UnderstandTimeout,
		ClassifyTimeout:   cfg.ClassifyTimeout,
		OptimizeTimeout:   cfg.OptimizeTimeout,
	}, bridge, ident)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		subrouter: b.Subrouter,
	}
	m.ports = Ports{Assist: svc}

	handlers := ahttp.NewHandlers(svc)
	external := b.Register
	m.register = func(r httpkit.Router) {
		handlers.Register(r)
		if external != nil {
			external(r)
		}
	}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return m.name }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		m.register(rr)
	})
}
