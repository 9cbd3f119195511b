// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"time"

	"diffjar/internal/modkit"
	"diffjar/internal/modkit/httpkit"
	str "diffjar/internal/platform/strings"
	metahttp "diffjar/internal/services/api/meta/http"
)

// Module implements modkit.Module
type Module struct {
	built     modkit.Built
	service   string
	checks    []metahttp.Check
	startedAt time.Time
}

// New constructs a meta module, checks are probed by /meta/ready
func New(service string, checks []metahttp.Check, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)
	return &Module{built: b, service: service, checks: checks, startedAt: time.Now()}
}

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	m.built.Mount(r, func(rr httpkit.Router) {
		metahttp.Register(rr, metahttp.Deps{
			ServiceName: m.service,
			StartedAt:   m.startedAt,
			Checks:      m.checks,
		})
	})
}

// Name implements modkit.Module
func (m *Module) Name() string { return str.MustString(m.built.Name, "meta") }

// Ports implements modkit.Module, meta exposes none
func (m *Module) Ports() any { return nil }
