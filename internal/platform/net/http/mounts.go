package http

import (
	"encoding/json"
	"net/http"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// MountProfiler exposes net/http/pprof under prefix when enabled. The chi
// profiler routes relative to its own root, hence the StripPrefix
func MountProfiler(r Router, prefix string, enabled bool) {
	if !enabled {
		return
	}
	prefix = "/" + strings.Trim(prefix, "/")
	pp := http.StripPrefix(prefix, chimw.Profiler())
	r.Handle(prefix, pp)
	r.Handle(prefix+"/*", pp)
}

// SwaggerOptions locates the UI and the document it renders
type SwaggerOptions struct {
	// Prefix is where the UI lives, default "/api/docs"
	Prefix string
	// Doc is an OpenAPI 3 JSON document
	Doc []byte
	// BaseURL fills servers[0].url when the document has none
	BaseURL string
}

// MountSwagger serves the swagger UI and <prefix>/doc.json
func MountSwagger(r Router, o SwaggerOptions, enabled bool) {
	if !enabled {
		return
	}
	prefix := "/" + strings.Trim(o.Prefix, "/")
	if prefix == "/" {
		prefix = "/api/docs"
	}
	r.Get(prefix, func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, prefix+"/", http.StatusPermanentRedirect)
	})
	r.Get(prefix+"/doc.json", serveDoc(o.Doc, o.BaseURL))
	r.Handle(prefix+"/*", httpSwagger.Handler(httpSwagger.URL(prefix+"/doc.json")))
}

// serveDoc parses the document once per request so the served copy always
// carries the shared error envelope
func serveDoc(doc []byte, baseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		var spec map[string]any
		if err := json.Unmarshal(doc, &spec); err != nil {
			http.Error(w, "spec parse error", http.StatusInternalServerError)
			return
		}
		ensureServers(spec, baseURL)
		ensureErrorSchema(spec)
		addErrorResponses(spec)

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(spec)
	}
}

func ensureServers(spec map[string]any, url string) {
	if v, ok := spec["openapi"].(string); !ok || strings.HasPrefix(v, "3.1") {
		// the bundled UI renders 3.0 only
		spec["openapi"] = "3.0.3"
	}
	if _, ok := spec["servers"]; !ok && url != "" {
		spec["servers"] = []any{map[string]any{"url": url}}
	}
}

func child(m map[string]any, key string) map[string]any {
	c, ok := m[key].(map[string]any)
	if !ok {
		c = map[string]any{}
		m[key] = c
	}
	return c
}

func ensureErrorSchema(spec map[string]any) {
	schemas := child(child(spec, "components"), "schemas")
	if _, ok := schemas["ErrorResponse"]; ok {
		return
	}
	schemas["ErrorResponse"] = map[string]any{
		"type":        "object",
		"description": "Standard error envelope",
		"properties": map[string]any{
			"status_code": map[string]any{"type": "integer", "format": "int32"},
			"status":      map[string]any{"type": "string"},
			"code":        map[string]any{"type": "integer", "format": "int32"},
			"error":       map[string]any{"type": "string"},
			"request_id":  map[string]any{"type": "string"},
		},
		"required": []any{"status_code", "status"},
	}
}

// addErrorResponses gives every operation a 400 and a 500 unless it
// documents its own
func addErrorResponses(spec map[string]any) {
	paths, ok := spec["paths"].(map[string]any)
	if !ok {
		return
	}
	ref := map[string]any{"$ref": "#/components/schemas/ErrorResponse"}
	defaults := map[string]string{
		"400": "Bad Request",
		"500": "Internal Server Error",
	}
	for _, p := range paths {
		node, ok := p.(map[string]any)
		if !ok {
			continue
		}
		for _, opAny := range node {
			op, ok := opAny.(map[string]any)
			if !ok {
				continue
			}
			responses := child(op, "responses")
			for code, desc := range defaults {
				if _, exists := responses[code]; exists {
					continue
				}
				responses[code] = map[string]any{
					"description": desc,
					"content": map[string]any{
						"application/json": map[string]any{"schema": ref},
					},
				}
			}
		}
	}
}
