// Package dataset loads the athlete and region CSV sources and memoizes them.
package dataset

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
)

// Source is a named tabular input.
type Source interface {
	// Name identifies the source; it is part of the cache key.
	Name() string
	Open(ctx context.Context) (io.ReadCloser, error)
}

// FileSource reads a CSV file from disk.
type FileSource struct {
	Path string
}

// Name returns the file path.
func (s FileSource) Name() string { return s.Path }

// Open opens the file for reading.
func (s FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.Open(s.Path)
}

// ReaderSource serves CSV bytes held in memory.
type ReaderSource struct {
	Label string
	Data  []byte
}

// Name returns the label.
func (s ReaderSource) Name() string { return s.Label }

// Open returns a reader over the bytes.
func (s ReaderSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(s.Data)), nil
}

// Sources groups the two athlete tables and the region lookup.
type Sources struct {
	Athletes [2]Source
	Regions  Source
}

// Files builds Sources from file paths.
func Files(athletes1, athletes2, regions string) Sources {
	return Sources{
		Athletes: [2]Source{FileSource{Path: athletes1}, FileSource{Path: athletes2}},
		Regions:  FileSource{Path: regions},
	}
}

// Key is the cache identity of the three sources.
func (s Sources) Key() string {
	return strings.Join([]string{nameOf(s.Athletes[0]), nameOf(s.Athletes[1]), nameOf(s.Regions)}, "|")
}

func nameOf(s Source) string {
	if s == nil {
		return ""
	}
	return s.Name()
}
