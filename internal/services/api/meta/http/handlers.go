// Package http serves the liveness, readiness and build info endpoints
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"diffjar/internal/core/version"
	"diffjar/internal/modkit/httpkit"
)

// Pinger answers a readiness probe
type Pinger interface {
	Ping(context.Context) error
}

// Check is one dependency /ready probes, a nil Pinger is reported as skipped
type Check struct {
	Name   string
	Pinger Pinger
}

// Deps configure the meta routes
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	Checks      []Check
	// ProbeTimeout bounds all checks of one /ready call, 0 means 2s
	ProbeTimeout time.Duration
}

// Register mounts /health, /ready, /version and /service on r
func Register(r httpkit.Router, d Deps) {
	if d.ProbeTimeout <= 0 {
		d.ProbeTimeout = 2 * time.Second
	}
	httpkit.Get(r, "/health", d.health)
	httpkit.Get(r, "/ready", d.ready)
	httpkit.Get(r, "/version", func(*http.Request) (any, error) { return version.Info(), nil })
	httpkit.Get(r, "/service", d.service)
}

// HealthResponse says the process is serving
type HealthResponse struct {
	OK      bool   `json:"ok"      example:"true"`
	Service string `json:"service" example:"diffjar-api"`
	Started string `json:"started" example:"2026-01-05T09:00:00Z"`
	Now     string `json:"now"     example:"2026-01-05T09:04:00Z"`
}

// ReadyCheck is the outcome of one probe, Status is ok, fail or skipped
type ReadyCheck struct {
	Name    string `json:"name"             example:"storage"`
	Status  string `json:"status"           example:"ok"`
	Error   string `json:"error,omitempty"  example:"stat /var/lib/diffjar: no such file or directory"`
	Elapsed int64  `json:"elapsed_ms"       example:"3"`
}

// ReadyResponse is ok only when no probe failed
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"`
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"    example:"2026-01-05T09:04:00Z"`
}

// ServiceResponse is the service name and uptime in seconds
type ServiceResponse struct {
	Name    string `json:"name"    example:"diffjar-api"`
	Started string `json:"started" example:"2026-01-05T09:00:00Z"`
	Uptime  int64  `json:"uptime"  example:"240"`
}

func stamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }

// @Summary Liveness
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse "serving"
// @Router /meta/health [get]
func (d Deps) health(*http.Request) (any, error) {
	return HealthResponse{OK: true, Service: d.ServiceName, Started: stamp(d.StartedAt), Now: stamp(time.Now())}, nil
}

// @Summary Readiness, every dependency is probed in parallel
// @Tags Meta
// @Produce json
// @Success 200 {object} ReadyResponse "all probes passed"
// @Failure 503 {object} ReadyResponse "a probe failed"
// @Router /meta/ready [get]
func (d Deps) ready(r *http.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), d.ProbeTimeout)
	defer cancel()

	out := ReadyResponse{Status: "ok", Checks: make([]ReadyCheck, len(d.Checks))}
	var wg sync.WaitGroup
	for i, c := range d.Checks {
		wg.Go(func() { out.Checks[i] = probe(ctx, c) })
	}
	wg.Wait()
	out.Now = stamp(time.Now())

	for _, c := range out.Checks {
		if c.Status == "fail" {
			out.Status = "fail"
			return httpkit.Response{Status: http.StatusServiceUnavailable, Body: out}, nil
		}
	}
	return out, nil
}

func probe(ctx context.Context, c Check) ReadyCheck {
	if c.Pinger == nil {
		return ReadyCheck{Name: c.Name, Status: "skipped"}
	}
	start := time.Now()
	err := c.Pinger.Ping(ctx)
	rc := ReadyCheck{Name: c.Name, Status: "ok", Elapsed: time.Since(start).Milliseconds()}
	if err != nil {
		rc.Status, rc.Error = "fail", err.Error()
	}
	return rc
}

// @Summary Service name and uptime
// @Tags Meta
// @Produce json
// @Success 200 {object} ServiceResponse "ok"
// @Router /meta/service [get]
func (d Deps) service(*http.Request) (any, error) {
	return ServiceResponse{
		Name:    d.ServiceName,
		Started: stamp(d.StartedAt),
		Uptime:  int64(time.Since(d.StartedAt) / time.Second),
	}, nil
}
