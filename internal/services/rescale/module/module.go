// Package module provides the rescale module implementation
package module

import (
	"github.com/mr-bo-jangles/SqueezySceney/internal/adapters/archive"
	"github.com/mr-bo-jangles/SqueezySceney/internal/core/scale"
	"github.com/mr-bo-jangles/SqueezySceney/internal/modkit"
	perr "github.com/mr-bo-jangles/SqueezySceney/internal/platform/errors"
	phttp "github.com/mr-bo-jangles/SqueezySceney/internal/platform/net/http"
	"github.com/mr-bo-jangles/SqueezySceney/internal/services/rescale/domain"
	"github.com/mr-bo-jangles/SqueezySceney/internal/services/rescale/guardrails"
	"github.com/mr-bo-jangles/SqueezySceney/internal/services/rescale/service"
	"github.com/mr-bo-jangles/SqueezySceney/internal/services/rescale/store"
)

// Ports defines the rescale module ports
type Ports struct {
	Runner domain.RunnerPort
}

// Module implements the rescale module
type Module struct {
	deps  modkit.Deps
	opts  Options
	svc   *service.Service
	ports Ports
}

// New constructs the rescale module from SCENEY_RESCALE_* config
func New(deps modkit.Deps) (*Module, error) {
	return NewWithOptions(deps, FromConfig(deps.Cfg))
}

// NewWithOptions constructs the module from explicit options, e.g. CLI flag overrides
// It wires the billy store, the entry matcher and the transformer factory into the service
// It does not mount any routes.
func NewWithOptions(deps modkit.Deps, opts Options) (*Module, error) {
	if err := opts.Validate(); err != nil {
		return nil, perr.WithOp(err, "rescale.options")
	}

	rounding, err := scale.ParseRounding(opts.Rounding)
	if err != nil {
		return nil, err
	}
	match, err := archive.NewMatcher(opts.Patterns...)
	if err != nil {
		return nil, perr.WithOp(perr.WithField(perr.Wrap(err, perr.ErrorCodeValidation, "invalid entry pattern"), "PATTERNS"), "rescale.options")
	}

	fsys := deps.Filesystem()
	table, err := loadKeys(fsys, opts.KeysFile)
	if err != nil {
		return nil, err
	}

	factory := func(f scale.Factor) domain.Transformer {
		return scale.New(f, scale.WithKeys(table), scale.WithRounding(rounding))
	}

	svc := service.New(store.New(fsys), match, factory, table, service.Config{
		Workers:     opts.Workers,
		SkipInvalid: opts.SkipInvalid,
		SniffAssets: opts.SniffAssets,
		MaxFactor:   opts.MaxFactor,
		Timeouts:    guardrails.Timeouts{Run: opts.RunTimeout, Document: opts.DocTimeout},
	})

	deps.Logger("rescale").Debug().
		Int("workers", opts.Workers).
		Str("rounding", rounding.String()).
		Strs("patterns", match.Patterns()).
		Int("keys", len(table)).
		Msg("rescale module ready")

	m := &Module{deps: deps, opts: opts, svc: svc}
	m.ports = Ports{Runner: svc}
	return m, nil
}

// WithSceneFunc registers a per-scene progress callback
func (m *Module) WithSceneFunc(fn domain.SceneFunc) *Module {
	m.svc.WithSceneFunc(fn)
	return m
}

// Options returns the options the module was built with
func (m *Module) Options() Options { return m.opts }

// Runner returns the rescale runner port
func (m *Module) Runner() domain.RunnerPort { return m.ports.Runner }

// Name returns the module name
func (m *Module) Name() string { return "rescale" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// MountRoutes is a no-op; the api service owns the HTTP surface
func (m *Module) MountRoutes(_ phttp.Router) {}
