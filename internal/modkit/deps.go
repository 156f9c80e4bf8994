// Package modkit provides module wiring and core deps
package modkit

import (
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/mr-bo-jangles/SqueezySceney/internal/platform/config"
	"github.com/mr-bo-jangles/SqueezySceney/internal/platform/logger"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log *logger.Logger
	Cfg config.Conf

	// FS is where archives and key files are read and written; nil means the host root
	FS billy.Filesystem
}

// Filesystem returns FS or the host filesystem rooted at "/"
func (d Deps) Filesystem() billy.Filesystem {
	if d.FS != nil {
		return d.FS
	}
	return osfs.New("/")
}

// Logger returns Log or the named root logger
func (d Deps) Logger(component string) *logger.Logger {
	if d.Log != nil {
		return d.Log
	}
	return logger.Named(component)
}
