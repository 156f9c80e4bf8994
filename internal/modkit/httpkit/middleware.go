package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"github.com/mr-bo-jangles/SqueezySceney/internal/platform/config"
	"github.com/mr-bo-jangles/SqueezySceney/internal/platform/net/middleware"
)

// StackOptions tunes the baseline middleware stack
type StackOptions struct {
	Origins []string
	MaxBody int64
	Timeout time.Duration
	Slow    time.Duration
}

// StackFromConfig reads API_CORS_ORIGINS, API_MAX_BODY, API_TIMEOUT and API_SLOW
func StackFromConfig(cfg config.Conf) StackOptions {
	c := cfg.Prefix("API_")
	return StackOptions{
		Origins: c.MayCSV("CORS_ORIGINS", []string{"*"}),
		MaxBody: c.MayInt64("MAX_BODY", 256<<20),
		Timeout: c.MayDuration("TIMEOUT", 5*time.Minute),
		Slow:    c.MayDuration("SLOW", 2*time.Second),
	}
}

// CommonStack returns the baseline middleware slice, outermost first
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	stack := []func(http.Handler) http.Handler{
		// tracing / correlation
		middleware.RequestID(),
		middleware.RealIP(),

		// observability
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: o.Slow}),

		// safety
		middleware.RecoverJSON,
		middleware.MaxBody(o.MaxBody),

		// cache / freshness
		middleware.NoCache(),

		middleware.CORS(middleware.CORSOptions{AllowedOrigins: o.Origins}),
		middleware.Compress(flate.BestSpeed),
		middleware.StripSlashes(),
	}
	if o.Timeout > 0 {
		stack = append(stack, middleware.Timeout(o.Timeout))
	}
	return stack
}
