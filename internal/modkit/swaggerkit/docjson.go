package swaggerkit

import (
	_ "embed"
	"encoding/json"
	"net/http"
	"strings"

	perr "diffjar/internal/platform/errors"
)

//go:embed openapi.json
var openapiDoc []byte

// loadDoc is swapped in tests to feed a broken document
var loadDoc = func() []byte { return openapiDoc }

// docHandler serves the embedded document adjusted for the running server
// the document is decoded per request so handlers never share a mutable map
func docHandler(basePath, titleSuffix string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		var doc map[string]any
		if err := json.Unmarshal(loadDoc(), &doc); err != nil {
			http.Error(w, "openapi document is not valid JSON", http.StatusInternalServerError)
			return
		}
		pinVersion(doc, basePath)
		if titleSuffix != "" {
			info := child(doc, "info")
			if title, ok := info["title"].(string); ok {
				info["title"] = title + " " + titleSuffix
			}
		}
		schemas := child(child(doc, "components"), "schemas")
		if _, ok := schemas["ErrorResponse"]; !ok {
			schemas["ErrorResponse"] = envelopeSchema
		}
		fillResponses(doc, map[string]any{
			"400": errorExample(http.StatusBadRequest, perr.ErrorCodeValidation, "data must be base64"),
			"500": errorExample(http.StatusInternalServerError, perr.ErrorCodePanic, "panic recovered"),
		})

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(doc)
	}
}

// child returns m[key] as an object, creating it when absent
func child(m map[string]any, key string) map[string]any {
	c, ok := m[key].(map[string]any)
	if !ok {
		c = map[string]any{}
		m[key] = c
	}
	return c
}

// pinVersion serves 3.0.3 because the bundled UI does not render 3.1, and adds a server when none is declared
func pinVersion(doc map[string]any, basePath string) {
	delete(doc, "swagger")
	if v, _ := doc["openapi"].(string); v == "" || strings.HasPrefix(v, "3.1") {
		doc["openapi"] = "3.0.3"
	}
	if _, ok := doc["servers"]; !ok {
		doc["servers"] = []any{map[string]any{"url": basePath}}
	}
}

var envelopeSchema = map[string]any{
	"type":        "object",
	"description": "Error envelope",
	"required":    []any{"status_code", "status"},
	"properties": map[string]any{
		"status_code": map[string]any{"type": "integer", "format": "int32"},
		"status":      map[string]any{"type": "string"},
		"code":        map[string]any{"type": "string", "example": "validation"},
		"error":       map[string]any{"type": "string"},
		"field":       map[string]any{"type": "string"},
		"request_id":  map[string]any{"type": "string"},
	},
}

func errorExample(status int, code perr.ErrorCode, msg string) map[string]any {
	text := http.StatusText(status)
	return map[string]any{
		"description": text,
		"content": map[string]any{
			"application/json": map[string]any{
				"schema": map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
				"example": map[string]any{
					"status_code": status,
					"status":      text,
					"code":        code.String(),
					"error":       msg,
					"request_id":  "diffjar/abc-000001",
				},
			},
		},
	}
}

// fillResponses adds each of byStatus to every operation that does not declare that status
func fillResponses(doc map[string]any, byStatus map[string]any) {
	paths, _ := doc["paths"].(map[string]any)
	for _, item := range paths {
		ops, _ := item.(map[string]any)
		for _, op := range ops {
			opm, ok := op.(map[string]any)
			if !ok {
				continue
			}
			responses := child(opm, "responses")
			for status, resp := range byStatus {
				if _, ok := responses[status]; !ok {
					responses[status] = resp
				}
			}
		}
	}
}
