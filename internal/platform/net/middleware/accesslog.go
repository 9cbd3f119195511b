// Package middleware holds the http middleware the api stacks, in house or thin over chi
package middleware

import (
	"net/http"
	"slices"
	"time"

	"diffjar/internal/platform/logger"
	pnet "diffjar/internal/platform/net"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// AccessLogOptions configures AccessLog
type AccessLogOptions struct {
	// Slow logs requests taking at least Slow at warn, 0 never does
	Slow time.Duration
	// Skip paths are served without a log line, such as probes
	Skip []string
}

// AccessLog writes one line per request once it is served
// it runs after RequestID and puts the id on the request logger so handler logs carry it too
// 5xx lines are errors, slow lines warnings, the rest info
func AccessLog(opt AccessLogOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r = r.WithContext(logger.WithRequest(r.Context(), pnet.RequestID(r.Context())))
			if slices.Contains(opt.Skip, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			took := time.Since(start)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			log := logger.C(r.Context())
			ev := log.Info()
			if status >= http.StatusInternalServerError {
				ev = log.Error()
			} else if opt.Slow > 0 && took >= opt.Slow {
				ev = log.Warn()
			}
			ev.Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("route", routePattern(r)).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("took", took).
				Msg("request")
		})
	}
}

// routePattern is the matched chi pattern, such as /api/v1/diff/{id}, or empty off router
func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		return rc.RoutePattern()
	}
	return ""
}
