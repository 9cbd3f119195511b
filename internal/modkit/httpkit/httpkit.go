// Package httpkit is the route surface modules register through
// modules import it instead of internal/platform/net/http
package httpkit

import (
	"net/http"

	phttp "diffjar/internal/platform/net/http"
	"diffjar/internal/platform/net/http/bind"
)

type (
	// Envelope is the body every endpoint writes
	Envelope = phttp.Envelope
	// Response lets a handler choose its status
	Response = phttp.Response
	// Router is the routing seam
	Router = phttp.Router
)

// OK is a 200 with data
func OK(data any) Response { return phttp.OK(data) }

// NoContent is a 204 with no body
func NoContent() Response { return phttp.NoContent() }

// Param returns the path parameter name, as in {id}
func Param(r *http.Request, name string) string { return phttp.Param(r, name) }

// reply turns a handler result into a Response
// a handler returning a Response picks its own status, any other value is sent as a 200
func reply(out any, err error) Response {
	if err != nil {
		return phttp.Error(err)
	}
	if resp, ok := out.(Response); ok {
		return resp
	}
	return phttp.OK(out)
}

// Get registers h for GET path
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, phttp.Handle(func(req *http.Request) Response {
		return reply(h(req))
	}))
}

// PostJSON registers h for POST path, h only runs once the body decodes and validates into T
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error), opts ...bind.Options) {
	r.Post(path, phttp.Handle(func(req *http.Request) Response {
		in, err := bind.ParseJSON[T](req, opts...)
		if err != nil {
			return phttp.Error(err)
		}
		return reply(h(req, in))
	}))
}

// MountAPIV1 mounts the routes added by mount under /api/v1, mw wraps that scope only
func MountAPIV1(r Router, mw []func(http.Handler) http.Handler, mount func(Router)) {
	r.Route("/api/v1", func(api Router) {
		if len(mw) > 0 {
			api.Use(mw...)
		}
		mount(api)
	})
}
