// Package modkit assembles API modules: their identity, their route prefix and the hooks around their routes
package modkit

import (
	"net/http"
	"slices"

	"diffjar/internal/modkit/httpkit"
	"diffjar/internal/modkit/module"
	str "diffjar/internal/platform/strings"
)

// Module is a mountable API module
type Module = module.Module

// Built is a module's resolved options
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler

	// Subrouter may wrap the scoped router before any route is added
	Subrouter func(httpkit.Router) httpkit.Router
	// Register adds routes after the module's own
	Register func(httpkit.Router)
}

// Option sets one field of Built
type Option func(*Built)

// WithName names the module in logs and in the port registry
func WithName(name string) Option { return func(b *Built) { b.Name = name } }

// WithPrefix sets the path the module mounts under
func WithPrefix(prefix string) Option { return func(b *Built) { b.Prefix = prefix } }

// WithMiddlewares appends middleware scoped to the module, applied in order
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(b *Built) { b.Mw = append(b.Mw, mw...) }
}

// WithSubrouter sets the Subrouter hook
func WithSubrouter(fn func(httpkit.Router) httpkit.Router) Option {
	return func(b *Built) { b.Subrouter = fn }
}

// WithRegister sets the Register hook
func WithRegister(fn func(httpkit.Router)) Option { return func(b *Built) { b.Register = fn } }

// Build applies opts in order, unset hooks become no ops
func Build(opts ...Option) Built {
	var b Built
	for _, o := range opts {
		o(&b)
	}
	b.Mw = slices.Clone(b.Mw)
	if b.Subrouter == nil {
		b.Subrouter = func(r httpkit.Router) httpkit.Router { return r }
	}
	if b.Register == nil {
		b.Register = func(httpkit.Router) {}
	}
	return b
}

// Mount scopes r to the prefix and adds, in order, the middleware, the Subrouter hook, own and Register
func (b Built) Mount(r httpkit.Router, own func(httpkit.Router)) {
	r.Route(str.MustPrefix(b.Prefix), func(rr httpkit.Router) {
		if len(b.Mw) > 0 {
			rr.Use(b.Mw...)
		}
		if b.Subrouter != nil {
			rr = b.Subrouter(rr)
		}
		if own != nil {
			own(rr)
		}
		if b.Register != nil {
			b.Register(rr)
		}
	})
}
