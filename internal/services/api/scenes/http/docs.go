package http

import (
	"github.com/mr-bo-jangles/SqueezySceney/internal/modkit/swaggerkit"
)

// Docs adds the scene routes, mounted under base, to the OpenAPI document
func Docs(base string) swaggerkit.SpecMutator {
	return func(spec map[string]any) {
		swaggerkit.AddSchema(spec, "ScaleDocumentRequest", map[string]any{
			"type": "object",
			"properties": map[string]any{
				"scale":    map[string]any{"type": "number", "exclusiveMinimum": true, "minimum": 0},
				"document": map[string]any{"description": "any JSON value"},
			},
			"required": []any{"scale", "document"},
		})
		swaggerkit.AddSchema(spec, "ScaleDocumentResponse", map[string]any{
			"type": "object",
			"properties": map[string]any{
				"scale":    map[string]any{"type": "number"},
				"document": map[string]any{"description": "scaled JSON value"},
			},
		})
		swaggerkit.AddSchema(spec, "KeysResponse", map[string]any{
			"type": "object",
			"properties": map[string]any{
				"spatial": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				"table": map[string]any{
					"type":                 "object",
					"additionalProperties": map[string]any{"type": "string", "enum": []any{"scale", "pass"}},
				},
			},
		})

		reportHeaders := map[string]any{}
		for _, h := range []string{HeaderRunID, HeaderFactor, HeaderScenes, HeaderPassthrough, HeaderSkipped} {
			reportHeaders[h] = map[string]any{"schema": map[string]any{"type": "string"}}
		}

		swaggerkit.AddPath(spec, base+"/rescale", "post", map[string]any{
			"summary":     "Rescale a scene archive",
			"tags":        []any{"Scenes"},
			"operationId": "rescaleArchive",
			"parameters": []any{map[string]any{
				"name": "scale", "in": "query", "required": true,
				"schema": map[string]any{"type": "number"},
			}},
			"requestBody": map[string]any{
				"required": true,
				"content": map[string]any{
					zipMIME: map[string]any{"schema": map[string]any{"type": "string", "format": "binary"}},
				},
			},
			"responses": map[string]any{
				"200": map[string]any{
					"description": "rescaled archive",
					"headers":     reportHeaders,
					"content": map[string]any{
						zipMIME: map[string]any{"schema": map[string]any{"type": "string", "format": "binary"}},
					},
				},
				"422": map[string]any{
					"description": "not a zip archive, or a scene document failed to decode or scale",
					"content":     swaggerkit.JSONContent(swaggerkit.Ref("ErrorResponse")),
				},
			},
		})
		swaggerkit.AddPath(spec, base+"/documents/scale", "post", map[string]any{
			"summary":     "Scale one scene document",
			"tags":        []any{"Scenes"},
			"operationId": "scaleDocument",
			"requestBody": map[string]any{
				"required": true,
				"content":  swaggerkit.JSONContent(swaggerkit.Ref("ScaleDocumentRequest")),
			},
			"responses": map[string]any{
				"200": map[string]any{
					"description": "ok",
					"content":     swaggerkit.JSONContent(swaggerkit.Ref("ScaleDocumentResponse")),
				},
			},
		})
		swaggerkit.AddPath(spec, base+"/keys", "get", map[string]any{
			"summary":     "Key classification table",
			"tags":        []any{"Scenes"},
			"operationId": "listKeys",
			"responses": map[string]any{
				"200": map[string]any{
					"description": "ok",
					"content":     swaggerkit.JSONContent(swaggerkit.Ref("KeysResponse")),
				},
			},
		})
	}
}
