package extract

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/tsawler/tabula/core"
	"github.com/tsawler/tabula/graphicsstate"
	"github.com/tsawler/tabula/pages"
	"github.com/tsawler/tabula/reader"

	"github.com/FACorreiaa/extrato-pdf/internal/domain/statement"
)

// Extractor returns the raw tables found in one statement file.
type Extractor interface {
	Extract(ctx context.Context, path string) ([]statement.RawTable, error)
}

// PDFExtractor finds ruled tables from the lines and rectangles each PDF
// page paints.
type PDFExtractor struct {
	settings TableSettings
	logger   *slog.Logger
}

// NewPDFExtractor creates an extractor with the given detection settings.
func NewPDFExtractor(settings TableSettings, logger *slog.Logger) *PDFExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFExtractor{settings: settings, logger: logger}
}

// Extract opens path and returns every table on every page, in page order.
func (e *PDFExtractor) Extract(ctx context.Context, path string) (tables []statement.RawTable, err error) {
	page := 0
	// Malformed content can panic inside the reader instead of returning errors.
	defer func() {
		if rec := recover(); rec != nil {
			tables = nil
			err = &UnreadablePdfError{Path: path, Page: page, Err: fmt.Errorf("%v", rec)}
		}
	}()

	r, err := reader.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &MissingFileError{Path: path}
		}
		return nil, &UnreadablePdfError{Path: path, Err: err}
	}
	defer r.Close()

	count, err := r.PageCount()
	if err != nil {
		return nil, &UnreadablePdfError{Path: path, Err: err}
	}

	for page = 1; page <= count; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p, err := r.GetPage(page - 1)
		if err != nil {
			return nil, &UnreadablePdfError{Path: path, Page: page, Err: err}
		}

		found, err := e.pageTables(r, p)
		if err != nil {
			return nil, &UnreadablePdfError{Path: path, Page: page, Err: err}
		}
		if len(found) == 0 {
			e.logger.Warn("no tables found on page", slog.String("file", path), slog.Int("page", page))
			continue
		}

		e.logger.Info("tables found on page",
			slog.String("file", path),
			slog.Int("page", page),
			slog.Int("tables", len(found)),
		)
		for i, rows := range found {
			tables = append(tables, statement.RawTable{
				Source: statement.Source{File: path, Page: page, Index: i},
				Rows:   rows,
			})
		}
	}

	return tables, nil
}

// pageTables runs the page content through tabula's graphics extractor,
// detects grids from the painted rules and fills them with the page text.
func (e *PDFExtractor) pageTables(r *reader.Reader, p *pages.Page) ([][]statement.RawRow, error) {
	contents, err := p.Contents()
	if err != nil {
		return nil, err
	}

	var data []byte
	for _, obj := range contents {
		stream, ok := obj.(*core.Stream)
		if !ok {
			continue
		}
		decoded, err := stream.Decode()
		if err != nil {
			return nil, fmt.Errorf("decode content stream: %w", err)
		}
		data = append(append(data, decoded...), '\n')
	}
	if len(data) == 0 {
		return nil, nil
	}

	graphics := graphicsstate.NewGraphicsExtractor()
	if err := graphics.ExtractFromBytes(data); err != nil {
		return nil, fmt.Errorf("parse content stream: %w", err)
	}

	rules := append(graphics.GetLines(), RulesFromRectangles(graphics.GetRectangles(), e.settings.LineWidth)...)
	grids := FindTables(rules, e.settings)
	if len(grids) == 0 {
		return nil, nil
	}

	fragments, err := r.ExtractTextFragments(p)
	if err != nil {
		return nil, fmt.Errorf("extract text: %w", err)
	}

	out := make([][]statement.RawRow, 0, len(grids))
	for _, g := range grids {
		out = append(out, FillGrid(g, fragments, e.settings.TextTolerance))
	}
	return out, nil
}
