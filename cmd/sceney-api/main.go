// @title         Sceney API
// @version       0.1.0
// @description   Rescale virtual tabletop scene archives and documents
// @BasePath      /v1

// Command sceney-api serves the rescaler over HTTP
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mr-bo-jangles/SqueezySceney/internal/platform/config"
	"github.com/mr-bo-jangles/SqueezySceney/internal/platform/logger"
	phttp "github.com/mr-bo-jangles/SqueezySceney/internal/platform/net/http"

	"github.com/mr-bo-jangles/SqueezySceney/internal/services/api"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		logger.Get().Fatal().Err(err).Msg("load .env")
	}

	root := config.New()
	l := logger.Named("sceney-api")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// http server (reads API_PORT)
	srv := phttp.NewServer(root)

	if err := api.Mount(srv.Router(), api.Options{
		Config:         root,
		Logger:         l,
		EnableProfiler: root.MayBool("API_PROFILER", false),
		EnableDocs:     root.MayBool("API_DOCS", true),
	}); err != nil {
		l.Fatal().Err(err).Msg("api mount failed")
	}

	if err := srv.Run(ctx); err != nil {
		l.Error().Err(err).Msg("http server stopped")
		stop()
		os.Exit(1)
	}
	l.Info().Msg("http server stopped")
}
