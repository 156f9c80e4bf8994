// Package module wires the scene endpoints onto a rescale runner
package module

import (
	"github.com/mr-bo-jangles/SqueezySceney/internal/modkit"
	"github.com/mr-bo-jangles/SqueezySceney/internal/modkit/httpkit"
	"github.com/mr-bo-jangles/SqueezySceney/internal/modkit/swaggerkit"
	"github.com/mr-bo-jangles/SqueezySceney/internal/services/rescale/domain"

	sceneshttp "github.com/mr-bo-jangles/SqueezySceney/internal/services/api/scenes/http"
)

// Ports are what the scenes module needs from the rescale module
type Ports struct {
	Runner domain.RunnerPort
}

// Module implements the modkit.Module interface
type Module struct {
	b     modkit.Built
	ports Ports
}

// New constructs the scenes module; inject the runner with modkit.WithPorts(Ports{...})
func New(_ modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("scenes")}, opts...)...)
	p, _ := b.Ports.(Ports)
	if p.Runner == nil {
		panic("scenes module requires a rescale Runner port")
	}
	return &Module{b: b, ports: p}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) {
		sceneshttp.Register(rr, sceneshttp.Deps{Runner: m.ports.Runner})
	})
}

// Docs implements swaggerkit.Documented
func (m *Module) Docs(base string) swaggerkit.SpecMutator {
	return sceneshttp.Docs(swaggerkit.JoinBase(base, m.b.Prefix))
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return m.b.Name }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return m.ports }
