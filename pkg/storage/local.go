package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage implements Storage using the local filesystem
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a new local filesystem storage rooted at basePath.
// The directory is created on first write.
func NewLocalStorage(basePath string) *LocalStorage {
	return &LocalStorage{basePath: basePath}
}

// Save stores a file and returns its metadata
func (s *LocalStorage) Save(ctx context.Context, filename string, write WriteFunc) (*FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Ensure base path exists
	if err := os.MkdirAll(s.basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	f, filePath, err := createUnique(filepath.Join(s.basePath, sanitizeFilename(filename)))
	if err != nil {
		return nil, err
	}

	counter := &countingWriter{w: f}
	if err := write(counter); err != nil {
		f.Close()
		os.Remove(filePath) // Cleanup on error
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(filePath)
		return nil, fmt.Errorf("failed to close file: %w", err)
	}

	return &FileInfo{
		Name: filepath.Base(filePath),
		Path: filePath,
		Size: counter.n,
	}, nil
}

// createUnique opens a new file at path, or at the first of "stem_1.ext",
// "stem_2.ext", ... that is unused. O_EXCL keeps an existing file from
// being truncated.
func createUnique(path string) (*os.File, string, error) {
	candidate := path
	for i := 1; ; i++ {
		f, err := os.OpenFile(candidate, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err == nil {
			return f, candidate, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, "", fmt.Errorf("failed to create file: %w", err)
		}
		candidate = suffixed(path, i)
	}
}

func suffixed(path string, n int) string {
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s_%d%s", strings.TrimSuffix(path, ext), n, ext)
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// sanitizeFilename removes unsafe characters from filenames
func sanitizeFilename(name string) string {
	// Replace path separators and other dangerous characters
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		"..", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
	)
	return replacer.Replace(name)
}
