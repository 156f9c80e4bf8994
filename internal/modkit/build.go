package modkit

import (
	"net/http"

	phttp "github.com/mr-bo-jangles/SqueezySceney/internal/platform/net/http"
)

// Built is the resolved option set a module keeps
type Built struct {
	Name     string
	Prefix   string
	Mw       []func(http.Handler) http.Handler
	Ports    any
	Register func(phttp.Router)
}

// Build applies opts in order; later options win
func Build(opts ...Option) Built {
	var c buildCfg
	for _, o := range opts {
		o(&c)
	}
	if c.register == nil {
		c.register = func(phttp.Router) {}
	}
	return Built{
		Name:     c.name,
		Prefix:   c.prefix,
		Mw:       append([]func(http.Handler) http.Handler(nil), c.mw...),
		Ports:    c.ports,
		Register: c.register,
	}
}

// Mount mounts register under b.Prefix with b.Mw, then the external hook
func (b Built) Mount(r phttp.Router, register func(phttp.Router)) {
	mount := func(rr phttp.Router) {
		if len(b.Mw) > 0 {
			rr.Use(b.Mw...)
		}
		if register != nil {
			register(rr)
		}
		b.Register(rr)
	}
	if b.Prefix == "" || b.Prefix == "/" {
		r.Group(mount)
		return
	}
	r.Route(b.Prefix, mount)
}
