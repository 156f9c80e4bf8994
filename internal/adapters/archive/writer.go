package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/go-git/go-billy/v5"
	"github.com/google/uuid"
)

// ErrClosed is returned by Writer methods after Commit or Abort
var ErrClosed = errors.New("archive: writer closed")

// Writer builds a zip archive
type Writer struct {
	zw *zip.Writer

	// set by Create
	fsys billy.Filesystem
	file billy.File
	tmp  string
	dst  string

	done    bool
	entries int
}

// Create starts an archive that will replace path on Commit. The bytes go to a hidden
// sibling first so a failed run never leaves a partial file at path
func Create(fsys billy.Filesystem, dst string) (*Writer, error) {
	dir := path.Dir(dst)
	if dir != "." && dir != "/" {
		if err := fsys.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("archive: mkdirall %q: %w", dir, err)
		}
	}
	tmp := TempName(dst)
	f, err := fsys.OpenFile(tmp, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("archive: create %q: %w", tmp, err)
	}
	return &Writer{zw: zip.NewWriter(f), fsys: fsys, file: f, tmp: tmp, dst: dst}, nil
}

// TempName is the hidden sibling Create writes to before renaming
func TempName(dst string) string {
	return path.Join(path.Dir(dst), "."+path.Base(dst)+"."+uuid.NewString()+".tmp")
}

// NewWriter streams an archive to w. Commit finishes the central directory but does
// not close w
func NewWriter(w io.Writer) *Writer { return &Writer{zw: zip.NewWriter(w)} }

// SetComment sets the archive comment written on Commit
func (w *Writer) SetComment(c string) error {
	if w.done {
		return ErrClosed
	}
	return w.zw.SetComment(c)
}

// Entries returns how many members were written so far
func (w *Writer) Entries() int { return w.entries }

// Copy writes e exactly as stored in its source archive
func (w *Writer) Copy(e Entry) error {
	if w.done {
		return ErrClosed
	}
	if e.f == nil {
		return fmt.Errorf("archive: entry %q does not belong to a reader", e.Name)
	}
	if err := w.zw.Copy(e.f); err != nil {
		return fmt.Errorf("archive: copy %q: %w", e.Name, err)
	}
	w.entries++
	return nil
}

// Write stores body under e's name, method, timestamp, comment and attributes
func (w *Writer) Write(e Entry, body []byte) error {
	if w.done {
		return ErrClosed
	}
	hdr := &zip.FileHeader{
		Name:     e.Name,
		Method:   e.Method,
		Modified: e.Modified,
	}
	if e.f != nil {
		hdr.Comment = e.f.Comment
		hdr.NonUTF8 = e.f.NonUTF8
		hdr.CreatorVersion = e.f.CreatorVersion
		hdr.ExternalAttrs = e.f.ExternalAttrs
	}
	if hdr.Method != zip.Store && hdr.Method != zip.Deflate {
		hdr.Method = zip.Deflate
	}
	fw, err := w.zw.CreateHeader(hdr)
	if err != nil {
		return fmt.Errorf("archive: create entry %q: %w", e.Name, err)
	}
	if _, err := fw.Write(body); err != nil {
		return fmt.Errorf("archive: write entry %q: %w", e.Name, err)
	}
	w.entries++
	return nil
}

// Commit finishes the archive and, for Create, renames it into place
func (w *Writer) Commit() error {
	if w.done {
		return ErrClosed
	}
	w.done = true

	if err := w.zw.Close(); err != nil {
		w.cleanup()
		return fmt.Errorf("archive: finish: %w", err)
	}
	if w.file == nil {
		return nil
	}
	if err := w.file.Close(); err != nil {
		w.file = nil
		w.cleanup()
		return fmt.Errorf("archive: close %q: %w", w.tmp, err)
	}
	w.file = nil
	if err := w.fsys.Rename(w.tmp, w.dst); err != nil {
		w.cleanup()
		return fmt.Errorf("archive: rename %q: %w", w.dst, err)
	}
	return nil
}

// Abort discards everything written. Safe to call after Commit
func (w *Writer) Abort() error {
	if w.done {
		return nil
	}
	w.done = true
	return w.cleanup()
}

func (w *Writer) cleanup() error {
	if w.fsys == nil {
		return nil
	}
	var errs []error
	if w.file != nil {
		errs = append(errs, w.file.Close())
		w.file = nil
	}
	if err := w.fsys.Remove(w.tmp); err != nil && !os.IsNotExist(err) {
		errs = append(errs, fmt.Errorf("archive: remove %q: %w", w.tmp, err))
	}
	return errors.Join(errs...)
}
