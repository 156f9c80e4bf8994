// Package api provides the HTTP API for the application
package api

import (
	"github.com/go-git/go-billy/v5"

	"github.com/mr-bo-jangles/SqueezySceney/internal/core/version"

	"github.com/mr-bo-jangles/SqueezySceney/internal/platform/config"
	"github.com/mr-bo-jangles/SqueezySceney/internal/platform/logger"
	phttp "github.com/mr-bo-jangles/SqueezySceney/internal/platform/net/http"

	"github.com/mr-bo-jangles/SqueezySceney/internal/modkit"
	"github.com/mr-bo-jangles/SqueezySceney/internal/modkit/httpkit"
	"github.com/mr-bo-jangles/SqueezySceney/internal/modkit/module"
	"github.com/mr-bo-jangles/SqueezySceney/internal/modkit/swaggerkit"

	metamod "github.com/mr-bo-jangles/SqueezySceney/internal/services/api/meta/module"
	scenesmod "github.com/mr-bo-jangles/SqueezySceney/internal/services/api/scenes/module"
	rescalemod "github.com/mr-bo-jangles/SqueezySceney/internal/services/rescale/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Logger         *logger.Logger
	FS             billy.Filesystem // nil means the host filesystem, only read for KEYS_FILE
	EnableProfiler bool
	EnableDocs     bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) error {
	deps := modkit.Deps{
		Log: opt.Logger,
		Cfg: opt.Config,
		FS:  opt.FS,
	}

	// the rescale module owns the Runner port
	rescale, err := rescalemod.New(deps)
	if err != nil {
		return err
	}
	runner := module.MustPortsOf[rescalemod.Ports](rescale).Runner

	// inject the Runner into the scenes API module
	scenes := scenesmod.New(deps, modkit.WithPorts(scenesmod.Ports{Runner: runner}))

	r.Use(httpkit.CommonStack(httpkit.StackFromConfig(opt.Config))...)

	meta := metamod.New(deps)
	meta.MountRoutes(r)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	mods := []module.Module{rescale, scenes}
	docs := append(swaggerkit.Collect("", meta), swaggerkit.Collect("/v1", rescale, scenes)...)
	swaggerkit.Mount(r, swaggerkit.Options{
		Enabled:  opt.EnableDocs,
		Title:    "Sceney API",
		Version:  version.Info(metamod.ServiceName).Version,
		Mutators: docs,
	})
	httpkit.MountAPIV1(r, nil, func(api httpkit.Router) {
		for _, m := range mods {
			m.MountRoutes(api)
		}
	})

	deps.Logger("api").Info().Strs("modules", []string{"meta", rescale.Name(), scenes.Name()}).Msg("api mounted")
	return nil
}
