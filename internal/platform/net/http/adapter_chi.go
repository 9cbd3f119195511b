package http

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
)

// chiRouter adapts any chi.Router, the root mux and its subrouters alike
type chiRouter struct{ r chi.Router }

var _ Router = chiRouter{}

// AdaptChi wraps a chi mux in the Router seam
func AdaptChi(m *chi.Mux) Router { return chiRouter{r: m} }

func (c chiRouter) method(m, p string, h Handler) { c.r.Method(m, p, stdhttp.HandlerFunc(h)) }

func (c chiRouter) Get(p string, h Handler)  { c.method(stdhttp.MethodGet, p, h) }
func (c chiRouter) Post(p string, h Handler) { c.method(stdhttp.MethodPost, p, h) }

func (c chiRouter) Handle(p string, h stdhttp.Handler) { c.r.Handle(p, h) }

func (c chiRouter) Use(mw ...func(stdhttp.Handler) stdhttp.Handler) { c.r.Use(mw...) }

func (c chiRouter) Group(fn func(Router)) {
	c.r.Group(func(sub chi.Router) { fn(chiRouter{r: sub}) })
}

func (c chiRouter) Route(pattern string, fn func(Router)) {
	c.r.Route(pattern, func(sub chi.Router) { fn(chiRouter{r: sub}) })
}

// Mux returns the underlying handler
func (c chiRouter) Mux() stdhttp.Handler { return c.r }

// Param returns a named path parameter such as {id}
func Param(r *stdhttp.Request, name string) string { return chi.URLParam(r, name) }
