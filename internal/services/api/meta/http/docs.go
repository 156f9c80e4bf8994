package http

import "github.com/mr-bo-jangles/SqueezySceney/internal/modkit/swaggerkit"

// Docs adds /healthz and /version, mounted under base, to the OpenAPI document
func Docs(base string) swaggerkit.SpecMutator {
	return func(spec map[string]any) {
		swaggerkit.AddSchema(spec, "HealthResponse", map[string]any{
			"type": "object",
			"properties": map[string]any{
				"ok":      map[string]any{"type": "boolean"},
				"service": map[string]any{"type": "string"},
				"started": map[string]any{"type": "string", "format": "date-time"},
				"now":     map[string]any{"type": "string", "format": "date-time"},
				"uptime":  map[string]any{"type": "integer", "format": "int64"},
			},
		})
		swaggerkit.AddPath(spec, base+"/healthz", "get", map[string]any{
			"summary": "Liveness and uptime",
			"tags":    []any{"Meta"},
			"responses": map[string]any{"200": map[string]any{
				"description": "ok",
				"content":     swaggerkit.JSONContent(swaggerkit.Ref("HealthResponse")),
			}},
		})
		swaggerkit.AddPath(spec, base+"/version", "get", map[string]any{
			"summary":   "Build information",
			"tags":      []any{"Meta"},
			"responses": map[string]any{"200": map[string]any{"description": "ok"}},
		})
	}
}
