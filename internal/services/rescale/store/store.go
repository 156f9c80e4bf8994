// Package store binds the rescale ports to the archive adapter over a go-billy filesystem
package store

import (
	"io"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/mr-bo-jangles/SqueezySceney/internal/adapters/archive"
	"github.com/mr-bo-jangles/SqueezySceney/internal/services/rescale/domain"
)

// Billy implements domain.Store
type Billy struct {
	FS billy.Filesystem
}

// New wraps fsys
func New(fsys billy.Filesystem) *Billy { return &Billy{FS: fsys} }

// NewOS roots the store at the host filesystem root; callers pass absolute paths
func NewOS() *Billy { return New(osfs.New("/")) }

// NewMemory is an in-memory store for tests and request scoped work
func NewMemory() *Billy { return New(memfs.New()) }

// Open opens an archive for reading
func (b *Billy) Open(path string) (domain.Source, error) {
	r, err := archive.Open(b.FS, path)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Create starts an archive that replaces path on Commit
func (b *Billy) Create(path string) (domain.Sink, error) {
	w, err := archive.Create(b.FS, path)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// OpenBytes reads an archive held in memory
func (b *Billy) OpenBytes(data []byte) (domain.Source, error) {
	r, err := archive.OpenBytes(data)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Stream writes an archive straight to w
func (b *Billy) Stream(w io.Writer) domain.Sink { return archive.NewWriter(w) }

var _ domain.Store = (*Billy)(nil)
