package testkit

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"
	"time"
)

// ZipEntry describes one entry of a fixture archive
type ZipEntry struct {
	Name string
	Body []byte
	// Stored writes the entry uncompressed; otherwise it is deflated
	Stored bool
	// Method is the compression method Unzip found; Zip ignores it
	Method uint16
}

// ZipFixtureTime is the modified time stamped on fixture entries
var ZipFixtureTime = time.Date(2021, 3, 4, 5, 6, 0, 0, time.UTC)

// Zip builds an in-memory zip with entries in the given order
func Zip(t *testing.T, entries ...ZipEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		method := zip.Deflate
		if e.Stored {
			method = zip.Store
		}
		w, err := zw.CreateHeader(&zip.FileHeader{Name: e.Name, Method: method, Modified: ZipFixtureTime})
		if err != nil {
			t.Fatalf("zip create %s: %v", e.Name, err)
		}
		if _, err := w.Write(e.Body); err != nil {
			t.Fatalf("zip write %s: %v", e.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

// Unzip reads every entry of an in-memory zip, preserving order
func Unzip(t *testing.T, data []byte) []ZipEntry {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("unzip: %v", err)
	}
	out := make([]ZipEntry, 0, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("unzip open %s: %v", f.Name, err)
		}
		b, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			t.Fatalf("unzip read %s: %v", f.Name, err)
		}
		out = append(out, ZipEntry{Name: f.Name, Body: b, Stored: f.Method == zip.Store, Method: f.Method})
	}
	return out
}

// ZipNames lists entry names in archive order
func ZipNames(entries []ZipEntry) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}
