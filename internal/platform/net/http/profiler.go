package http

import (
	mw "github.com/go-chi/chi/v5/middleware"
)

// MountProfiler serves pprof and expvar under prefix when enabled, e.g. /debug/pprof/
func MountProfiler(r Router, prefix string, enabled bool) {
	if !enabled {
		return
	}
	r.Mount(prefix, mw.Profiler())
}
