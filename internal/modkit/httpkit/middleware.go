package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"diffjar/internal/platform/config"
	"diffjar/internal/platform/net/middleware"
)

// StackOptions tunes CommonStack
type StackOptions struct {
	CORSOrigins []string
	Timeout     time.Duration
	SlowRequest time.Duration
}

// StackFromConfig reads CORE_API_CORS_ORIGINS, CORE_API_TIMEOUT and CORE_API_SLOW_MS
func StackFromConfig(cfg config.Conf) StackOptions {
	c := cfg.Prefix("CORE_API_")
	return StackOptions{
		CORSOrigins: c.MayCSV("CORS_ORIGINS", []string{"*"}),
		Timeout:     c.MayDuration("TIMEOUT", 30*time.Second),
		SlowRequest: time.Duration(c.MayInt("SLOW_MS", 500)) * time.Millisecond,
	}
}

// CommonStack returns the baseline middleware for api routes, outermost first
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	return []func(http.Handler) http.Handler{
		middleware.RequestID,
		middleware.RealIP,
		middleware.AccessLog(middleware.AccessLogOptions{
			Slow: o.SlowRequest,
			Skip: []string{"/health"},
		}),
		middleware.RecoverJSON,
		middleware.NoCache,
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: o.CORSOrigins}),
		middleware.Compress(flate.BestSpeed),
		middleware.StripSlashes,
		middleware.Timeout(o.Timeout),
	}
}
