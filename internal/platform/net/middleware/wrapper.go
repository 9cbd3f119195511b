package middleware

import (
	"net/http"

	pstrings "diffjar/internal/platform/strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	chicors "github.com/go-chi/cors"
)

// chi middleware the api stacks as is
var (
	// RequestID reuses an incoming X-Request-Id or makes one
	RequestID = chimw.RequestID
	// RealIP trusts X-Forwarded-For and X-Real-IP for RemoteAddr
	RealIP = chimw.RealIP
	// NoCache forbids client and proxy caching
	NoCache = chimw.NoCache
	// StripSlashes routes /diff/1/ as /diff/1
	StripSlashes = chimw.StripSlashes
	// Timeout cancels the request context after a duration
	Timeout = chimw.Timeout
	// Heartbeat answers GET on a path before routing
	Heartbeat = chimw.Heartbeat
)

// Compress gzips and deflates responses at level for clients that accept it
func Compress(level int) func(http.Handler) http.Handler {
	return chimw.NewCompressor(level).Handler
}

// CORSOptions is the part of go-chi/cors the api sets
type CORSOptions struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         int
}

// CORS defaults methods and headers to the ones the diff api uses and exposes X-Request-ID
func CORS(o CORSOptions) func(http.Handler) http.Handler {
	return chicors.Handler(chicors.Options{
		AllowedOrigins: o.AllowedOrigins,
		AllowedMethods: pstrings.IfEmpty(o.AllowedMethods, []string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		AllowedHeaders: pstrings.IfEmpty(o.AllowedHeaders, []string{"Accept", "Content-Type", "X-Request-ID"}),
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         o.MaxAge,
	})
}
