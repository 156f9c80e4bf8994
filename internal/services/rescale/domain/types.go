// Package domain holds the types and ports of the rescale service
package domain

import (
	"time"

	"github.com/mr-bo-jangles/SqueezySceney/internal/adapters/archive"
)

// Entry re-exports the archive member shape used by sources and sinks
type Entry = archive.Entry

// FileRequest asks for one archive on disk to be rescaled into another
type FileRequest struct {
	Input  string
	Output string
	Factor float64
}

// Report summarizes one run
type Report struct {
	RunID       string         `json:"run_id"`
	Factor      float64        `json:"factor"`
	Entries     int            `json:"entries"`
	Scenes      int            `json:"scenes"`
	Passthrough int            `json:"passthrough"`
	Skipped     []string       `json:"skipped,omitempty"`
	Media       map[string]int `json:"media,omitempty"`
	Elapsed     time.Duration  `json:"elapsed_ns"`
}

// SceneFunc is told about every scene document written, in archive order
type SceneFunc func(name string)
