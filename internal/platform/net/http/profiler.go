package http

import (
	stdhttp "net/http"

	mw "github.com/go-chi/chi/v5/middleware"
)

// MountProfiler serves pprof under prefix, e.g. /debug/pprof/, when enabled
func MountProfiler(r Router, prefix string, enabled bool) {
	if !enabled {
		return
	}
	prof := stdhttp.StripPrefix(prefix, mw.Profiler())
	r.Handle(prefix, prof)
	r.Handle(prefix+"/*", prof)
}
