package swaggerkit

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

// SpecMutator lets modules add their paths and schemas to the OpenAPI document
type SpecMutator func(spec map[string]any)

// Build assembles the OpenAPI 3 document: base info, module mutators, then the shared error responses
func Build(o Options) []byte {
	spec := map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":   o.Title,
			"version": o.Version,
		},
		"paths": map[string]any{},
	}
	if o.Server != "" {
		spec["servers"] = []any{map[string]any{"url": o.Server}}
	}
	for _, m := range o.Mutators {
		if m != nil {
			m(spec)
		}
	}
	ensureErrorResponseDefinition(spec)
	addDefaultResponse(spec, http.StatusBadRequest, 2, "scale must be a positive number")
	addDefaultResponse(spec, http.StatusInternalServerError, 1, "panic recovered")

	b, err := json.Marshal(spec)
	if err != nil {
		// every value above is a map, slice or string
		panic("swaggerkit: marshal spec: " + err.Error())
	}
	return b
}

// AddPath registers one operation under path for method (lower case, e.g. "post")
func AddPath(spec map[string]any, path, method string, op map[string]any) {
	paths, ok := spec["paths"].(map[string]any)
	if !ok {
		paths = map[string]any{}
		spec["paths"] = paths
	}
	node, ok := paths[path].(map[string]any)
	if !ok {
		node = map[string]any{}
		paths[path] = node
	}
	node[method] = op
}

// AddSchema registers a named component schema
func AddSchema(spec map[string]any, name string, schema map[string]any) {
	schemas(spec)[name] = schema
}

// Ref returns a $ref to a component schema
func Ref(name string) map[string]any {
	return map[string]any{"$ref": "#/components/schemas/" + name}
}

// JSONContent wraps a schema as an application/json body
func JSONContent(schema map[string]any) map[string]any {
	return map[string]any{"application/json": map[string]any{"schema": schema}}
}

func schemas(spec map[string]any) map[string]any {
	comps, ok := spec["components"].(map[string]any)
	if !ok {
		comps = map[string]any{}
		spec["components"] = comps
	}
	s, ok := comps["schemas"].(map[string]any)
	if !ok {
		s = map[string]any{}
		comps["schemas"] = s
	}
	return s
}

// ensureErrorResponseDefinition mirrors the runtime error envelope
func ensureErrorResponseDefinition(spec map[string]any) {
	s := schemas(spec)
	if _, ok := s["ErrorResponse"]; ok {
		return
	}
	s["ErrorResponse"] = map[string]any{
		"type":        "object",
		"description": "Standard error response",
		"properties": map[string]any{
			"status_code": map[string]any{"type": "integer", "format": "int32"},
			"status":      map[string]any{"type": "string"},
			"code":        map[string]any{"type": "integer", "format": "int32"},
			"error":       map[string]any{"type": "string"},
			"field":       map[string]any{"type": "string"},
			"request_id":  map[string]any{"type": "string"},
		},
		"required": []any{"status_code", "status"},
	}
}

// addDefaultResponse injects an error response for status on every operation that lacks one
func addDefaultResponse(spec map[string]any, status, code int, msg string) {
	paths, ok := spec["paths"].(map[string]any)
	if !ok {
		return
	}
	key := strconv.Itoa(status)
	resp := map[string]any{
		"description": http.StatusText(status),
		"content": map[string]any{
			"application/json": map[string]any{
				"schema": Ref("ErrorResponse"),
				"example": map[string]any{
					"status_code": status,
					"status":      http.StatusText(status),
					"code":        code,
					"error":       msg,
				},
			},
		},
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
			responses, ok := op["responses"].(map[string]any)
			if !ok {
				responses = map[string]any{}
				op["responses"] = responses
			}
			if _, exists := responses[key]; !exists {
				responses[key] = resp
			}
		}
	}
}

// Documented is implemented by modules that describe their routes; base is where they are mounted
type Documented interface {
	Docs(base string) SpecMutator
}

// Collect gathers mutators from the modules that implement Documented
func Collect(base string, mods ...any) []SpecMutator {
	var out []SpecMutator
	for _, m := range mods {
		if d, ok := m.(Documented); ok {
			out = append(out, d.Docs(base))
		}
	}
	return out
}

// JoinBase joins a mount base and a module prefix without doubling slashes
func JoinBase(base, prefix string) string {
	return strings.TrimRight(strings.TrimRight(base, "/")+"/"+strings.Trim(prefix, "/"), "/")
}
