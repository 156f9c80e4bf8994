// Package swaggerkit mounts the Swagger UI and the OpenAPI document it reads
package swaggerkit

import (
	"net/http"

	phttp "github.com/mr-bo-jangles/SqueezySceney/internal/platform/net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// DocPath is where the OpenAPI JSON is served
const DocPath = "/docs/doc.json"

// Options configure the docs mount
type Options struct {
	Enabled bool
	Title   string
	Version string
	// Server is the base url of the documented routes, e.g. "/v1"
	Server   string
	Mutators []SpecMutator
}

// Mount the Swagger UI and JSON spec if enabled
func Mount(r phttp.Router, o Options) {
	if !o.Enabled {
		return
	}
	doc := Build(o)

	// StripSlashes turns /docs/ into /docs, so send the bare prefix straight to the UI page
	r.Get("/docs", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/docs/index.html", http.StatusFound)
	})
	r.Get(DocPath, serveDocJSON(doc))
	r.Handle("/docs/*", httpSwagger.Handler(
		httpSwagger.InstanceName("sceney"),
		httpSwagger.URL(DocPath),
	))
}

func serveDocJSON(doc []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(doc)
	}
}
