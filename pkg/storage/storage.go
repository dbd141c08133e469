// Package storage writes output files without ever overwriting an existing one.
package storage

import (
	"context"
	"io"
)

// FileInfo describes a stored file.
type FileInfo struct {
	Name string // final file name, after collision suffixing
	Path string
	Size int64
}

// WriteFunc streams file content to w.
type WriteFunc func(w io.Writer) error

// Storage defines the interface for output file storage
type Storage interface {
	// Save creates a new file named after filename and fills it with write.
	// When filename is taken, a numeric suffix is added before the extension.
	Save(ctx context.Context, filename string, write WriteFunc) (*FileInfo, error)
}
