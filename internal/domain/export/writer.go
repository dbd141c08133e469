package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/FACorreiaa/extrato-pdf/internal/domain/statement"
	"github.com/FACorreiaa/extrato-pdf/pkg/storage"
)

// DefaultFileName is the output name used when none is configured.
const DefaultFileName = "transacoes_formatadas.csv"

// ErrEmpty is returned when asked to write a set with no rows.
var ErrEmpty = errors.New("nothing to write")

// Format selects the output encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat maps a configuration value to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unknown output format %q", s)
}

// Writer stores aggregation results through a Storage.
type Writer struct {
	store    storage.Storage
	format   Format
	filename string
}

// NewWriter creates a writer. The extension of filename is replaced to
// match format.
func NewWriter(store storage.Storage, format Format, filename string) *Writer {
	if filename == "" {
		filename = DefaultFileName
	}
	filename = strings.TrimSuffix(filename, filepath.Ext(filename)) + "." + string(format)
	return &Writer{store: store, format: format, filename: filename}
}

// FileName returns the name files are written under before collision suffixing.
func (w *Writer) FileName() string {
	return w.filename
}

// Write stores result. Empty results are rejected with ErrEmpty so that no
// header-only file is ever produced.
func (w *Writer) Write(ctx context.Context, result statement.Result) (*storage.FileInfo, error) {
	if result.Empty() {
		return nil, ErrEmpty
	}

	var write storage.WriteFunc
	switch {
	case result.Strategy == statement.StrategyDynamicHeader && w.format == FormatXLSX:
		write = func(out io.Writer) error { return WriteDynamicXLSX(out, *result.Dynamic) }
	case result.Strategy == statement.StrategyDynamicHeader:
		write = func(out io.Writer) error { return WriteDynamicCSV(out, *result.Dynamic) }
	case w.format == FormatXLSX:
		write = func(out io.Writer) error { return WriteRecordsXLSX(out, result.Records) }
	default:
		write = func(out io.Writer) error { return WriteRecordsCSV(out, result.Records) }
	}

	info, err := w.store.Save(ctx, w.filename, write)
	if err != nil {
		return nil, fmt.Errorf("failed to save %s: %w", w.filename, err)
	}
	return info, nil
}
