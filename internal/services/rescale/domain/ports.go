package domain

import (
	"context"
	"io"

	"github.com/mr-bo-jangles/SqueezySceney/internal/core/scale"
)

// RunnerPort is what drivers (CLI, API) call
type RunnerPort interface {
	RescaleFile(ctx context.Context, req FileRequest) (Report, error)
	RescaleBytes(ctx context.Context, data []byte, factor float64) ([]byte, Report, error)
	ScaleDocument(ctx context.Context, raw []byte, factor float64) ([]byte, error)
	Keys() scale.KeyTable
}

// Source is a readable archive
type Source interface {
	Entries() []Entry
	Read(e Entry) ([]byte, error)
	Sniff(e Entry) (string, error)
	Close() error
}

// Sink is a writable archive; nothing is visible until Commit
type Sink interface {
	Copy(e Entry) error
	Write(e Entry, body []byte) error
	Commit() error
	Abort() error
}

// Store opens sources and creates sinks
type Store interface {
	Open(path string) (Source, error)
	Create(path string) (Sink, error)
	OpenBytes(data []byte) (Source, error)
	Stream(w io.Writer) Sink
}

// Matcher picks the scene documents out of an archive
type Matcher interface {
	MatchEntry(e Entry) bool
}

// Transformer rewrites one document
type Transformer interface {
	Transform(input []byte) ([]byte, error)
}

// TransformerFunc adapts a plain function to Transformer
type TransformerFunc func(input []byte) ([]byte, error)

// Transform satisfies Transformer
func (fn TransformerFunc) Transform(input []byte) ([]byte, error) { return fn(input) }

// TransformerFactory builds the transformer for one factor
type TransformerFactory func(f scale.Factor) Transformer
