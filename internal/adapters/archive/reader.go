package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-git/go-billy/v5"
)

// sniffLen is how much of an entry is read for content detection
const sniffLen = 3072

// Entry describes one archive member
type Entry struct {
	// Index is the position in the central directory
	Index int
	// Name is the raw member name as stored
	Name string
	// Dir is set for directory members ("name/")
	Dir bool
	// Size is the uncompressed size in bytes
	Size uint64
	// CompressedSize is the stored size in bytes
	CompressedSize uint64
	// Method is the zip compression method
	Method uint16
	// Modified is the member timestamp
	Modified time.Time

	f *zip.File
}

// Reader iterates a zip archive
type Reader struct {
	zr      *zip.Reader
	closer  io.Closer
	entries []Entry
}

// Open opens path on fsys. The file stays open until Close
func Open(fsys billy.Filesystem, path string) (*Reader, error) {
	info, err := fsys.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("archive: stat %q: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("archive: %q is a directory", path)
	}
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("archive: open %q: %w", path, err)
	}
	r, err := NewReader(f, info.Size())
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("archive: read %q: %w", path, err)
	}
	r.closer = f
	return r, nil
}

// OpenBytes reads an archive held in memory
func OpenBytes(data []byte) (*Reader, error) {
	return NewReader(bytes.NewReader(data), int64(len(data)))
}

// NewReader reads the central directory of a zip of the given size
func NewReader(ra io.ReaderAt, size int64) (*Reader, error) {
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, len(zr.File))
	for i, f := range zr.File {
		entries[i] = Entry{
			Index:          i,
			Name:           f.Name,
			Dir:            f.FileInfo().IsDir() || strings.HasSuffix(f.Name, "/"),
			Size:           f.UncompressedSize64,
			CompressedSize: f.CompressedSize64,
			Method:         f.Method,
			Modified:       f.Modified,
			f:              f,
		}
	}
	return &Reader{zr: zr, entries: entries}, nil
}

// Entries returns the members in central directory order
func (r *Reader) Entries() []Entry { return r.entries }

// Len returns the member count
func (r *Reader) Len() int { return len(r.entries) }

// Comment returns the archive comment
func (r *Reader) Comment() string { return r.zr.Comment }

// Read returns the decompressed body of e
func (r *Reader) Read(e Entry) ([]byte, error) {
	if e.f == nil {
		return nil, fmt.Errorf("archive: entry %q does not belong to a reader", e.Name)
	}
	rc, err := e.f.Open()
	if err != nil {
		return nil, fmt.Errorf("archive: open entry %q: %w", e.Name, err)
	}
	defer rc.Close()

	buf := bytes.NewBuffer(make([]byte, 0, int(min(e.Size, 64<<20))))
	if _, err := io.Copy(buf, rc); err != nil {
		return nil, fmt.Errorf("archive: read entry %q: %w", e.Name, err)
	}
	return buf.Bytes(), nil
}

// Sniff detects the media type of e from its leading bytes, without parameters
func (r *Reader) Sniff(e Entry) (string, error) {
	if e.Dir {
		return "inode/directory", nil
	}
	if e.f == nil {
		return "", fmt.Errorf("archive: entry %q does not belong to a reader", e.Name)
	}
	rc, err := e.f.Open()
	if err != nil {
		return "", fmt.Errorf("archive: open entry %q: %w", e.Name, err)
	}
	defer rc.Close()

	head, err := io.ReadAll(io.LimitReader(rc, sniffLen))
	if err != nil {
		return "", fmt.Errorf("archive: sniff entry %q: %w", e.Name, err)
	}
	mt, _, _ := strings.Cut(mimetype.Detect(head).String(), ";")
	return strings.TrimSpace(mt), nil
}

// Close releases the underlying file when the reader owns one
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	err := r.closer.Close()
	r.closer = nil
	return err
}
