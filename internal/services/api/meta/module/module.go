// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"time"

	"github.com/mr-bo-jangles/SqueezySceney/internal/modkit"
	"github.com/mr-bo-jangles/SqueezySceney/internal/modkit/httpkit"
	"github.com/mr-bo-jangles/SqueezySceney/internal/modkit/swaggerkit"

	metahttp "github.com/mr-bo-jangles/SqueezySceney/internal/services/api/meta/http"
)

// ServiceName is reported by /healthz and /version
const ServiceName = "sceney-api"

// Module implements the modkit.Module interface
type Module struct {
	b         modkit.Built
	startedAt time.Time
}

// New constructs a meta module; it mounts at the root unless WithPrefix says otherwise
func New(_ modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("meta")}, opts...)...)
	return &Module{b: b, startedAt: time.Now()}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) {
		metahttp.Register(rr, metahttp.Deps{ServiceName: ServiceName, StartedAt: m.startedAt})
	})
}

// Docs implements swaggerkit.Documented
func (m *Module) Docs(base string) swaggerkit.SpecMutator {
	return metahttp.Docs(swaggerkit.JoinBase(base, m.b.Prefix))
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return m.b.Name }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
