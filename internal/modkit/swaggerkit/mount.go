// Package swaggerkit serves the swagger UI and the OpenAPI document
package swaggerkit

import (
	"net/http"

	"diffjar/internal/platform/config"
	phttp "diffjar/internal/platform/net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Mount serves the UI under /api/docs/ when enabled, basePath is where the api routes live
// CORE_API_DOCS_TITLE_SUFFIX is appended to the document title, to tell environments apart
func Mount(r phttp.Router, basePath string, enabled bool) {
	if !enabled {
		return
	}
	suffix := config.New().Prefix("CORE_API_").MayString("DOCS_TITLE_SUFFIX", "")
	r.Get("/api/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api/docs/", http.StatusPermanentRedirect)
	})
	r.Get("/api/docs/doc.json", docHandler(basePath, suffix))
	r.Handle("/api/docs/*", httpSwagger.Handler(
		httpSwagger.InstanceName("diffjar"),
		httpSwagger.URL("/api/docs/doc.json"),
	))
}
