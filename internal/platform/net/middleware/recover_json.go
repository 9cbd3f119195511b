package middleware

import (
	"errors"
	stdhttp "net/http"
	"runtime/debug"

	perr "diffjar/internal/platform/errors"
	"diffjar/internal/platform/logger"
	phttp "diffjar/internal/platform/net/http"
)

// RecoverJSON turns a handler panic into a 500 error envelope and logs the stack
// http.ErrAbortHandler is re-panicked so net/http can abort the connection
func RecoverJSON(next stdhttp.Handler) stdhttp.Handler {
	return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if err, ok := v.(error); ok && errors.Is(err, stdhttp.ErrAbortHandler) {
				panic(v)
			}
			logger.C(r.Context()).Error().
				Interface("panic", v).
				Bytes("stack", debug.Stack()).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("panic recovered")
			phttp.WriteError(w, r, perr.PanicErrf("panic recovered"))
		}()
		next.ServeHTTP(w, r)
	})
}
