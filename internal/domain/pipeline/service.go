// Package pipeline runs statement conversion end to end: it resolves the
// input PDFs, extracts their tables, normalizes the rows and stores the
// aggregated result.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/extrato-pdf/internal/domain/export"
	"github.com/FACorreiaa/extrato-pdf/internal/domain/extract"
	"github.com/FACorreiaa/extrato-pdf/internal/domain/statement"
	"github.com/FACorreiaa/extrato-pdf/pkg/metrics"
	"github.com/FACorreiaa/extrato-pdf/pkg/money"
	"github.com/FACorreiaa/extrato-pdf/pkg/storage"
)

// ErrNoData is returned when a run produced no rows worth writing. It is a
// terminal state, not a failure: no output file is created.
var ErrNoData = errors.New("no data to write")

var tracer = otel.Tracer("github.com/FACorreiaa/extrato-pdf/internal/domain/pipeline")

// OutputWriter stores an aggregation result.
type OutputWriter interface {
	Write(ctx context.Context, result statement.Result) (*storage.FileInfo, error)
}

// RunResult summarizes one run.
type RunResult struct {
	RunID        uuid.UUID
	Files        int // files whose tables were extracted
	FilesSkipped int // missing or unreadable files
	Tables       int
	RowsAccepted int
	RowsRejected int
	OutputPath   string       // empty when nothing was written
	Total        *money.Money // sum of amounts; nil in dynamic-header mode
}

// Service orchestrates a conversion run.
type Service struct {
	inputDir   string
	extractor  extract.Extractor
	aggregator *statement.Aggregator
	writer     OutputWriter
	recorder   *metrics.Recorder
	logger     *slog.Logger
}

// NewService creates a pipeline service reading PDFs from inputDir.
func NewService(
	inputDir string,
	extractor extract.Extractor,
	aggregator *statement.Aggregator,
	writer OutputWriter,
	recorder *metrics.Recorder,
	logger *slog.Logger,
) *Service {
	if recorder == nil {
		recorder = metrics.NewRecorder()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		inputDir:   inputDir,
		extractor:  extractor,
		aggregator: aggregator,
		writer:     writer,
		recorder:   recorder,
		logger:     logger,
	}
}

// Run converts target, or every PDF in the input directory when target is
// empty. A run with nothing to write returns its summary together with
// ErrNoData.
func (s *Service) Run(ctx context.Context, target string) (_ *RunResult, err error) {
	result := &RunResult{RunID: uuid.New()}
	log := s.logger.With("run_id", result.RunID.String(), "mode", s.aggregator.Strategy.String())

	ctx, span := tracer.Start(ctx, "pipeline.Run", trace.WithAttributes(
		attribute.String("run_id", result.RunID.String()),
		attribute.String("mode", s.aggregator.Strategy.String()),
	))
	defer func() {
		span.SetAttributes(
			attribute.Int("files", result.Files),
			attribute.Int("rows.accepted", result.RowsAccepted),
			attribute.Int("rows.rejected", result.RowsRejected),
		)
		if err != nil && !errors.Is(err, ErrNoData) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	files, missing, err := extract.ResolveInputs(s.inputDir, target)
	if err != nil {
		return result, fmt.Errorf("failed to resolve inputs: %w", err)
	}
	for _, m := range missing {
		log.Warn("file not found", "path", m.Path)
		s.recorder.File(metrics.FileMissing)
		result.FilesSkipped++
	}
	if len(files) == 0 {
		log.Warn("no pdf files to process", "dir", s.inputDir)
		return result, ErrNoData
	}

	var tables []statement.RawTable
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		log.Info("processing file", "path", path)
		found, err := s.extract(ctx, path)
		if err != nil {
			var missingErr *extract.MissingFileError
			var unreadable *extract.UnreadablePdfError
			switch {
			case errors.As(err, &missingErr):
				log.Warn("file not found", "path", path)
				s.recorder.File(metrics.FileMissing)
			case errors.As(err, &unreadable):
				log.Error("failed to read pdf", "path", path, "error", err)
				s.recorder.File(metrics.FileUnread)
			default:
				return result, fmt.Errorf("failed to extract %s: %w", path, err)
			}
			result.FilesSkipped++
			continue
		}

		s.recorder.File(metrics.FileProcessed)
		s.recorder.Tables(len(found))
		result.Files++
		result.Tables += len(found)
		tables = append(tables, found...)
	}

	reporter := statement.ReporterFunc(func(src statement.Source, row int, r *statement.Rejection) {
		result.RowsRejected++
		log.Debug("row rejected",
			"source", src.String(),
			"row", row,
			"reason", string(r.Reason),
			"error", r.Error(),
			"content", r.Content(),
		)
	})
	aggregated := s.aggregator.Run(tables, reporter)
	result.RowsAccepted = aggregated.Len()
	s.recorder.Rows(metrics.RowAccepted, result.RowsAccepted)
	s.recorder.Rows(metrics.RowRejected, result.RowsRejected)

	if aggregated.Strategy == statement.StrategyFixedSchema {
		total, err := sumAmounts(aggregated.Records)
		if err != nil {
			return result, err
		}
		result.Total = total
	}

	if aggregated.Empty() {
		log.Warn("no rows extracted", "files", result.Files, "tables", result.Tables, "rejected", result.RowsRejected)
		return result, ErrNoData
	}

	info, err := s.writer.Write(ctx, aggregated)
	if errors.Is(err, export.ErrEmpty) {
		return result, ErrNoData
	}
	if err != nil {
		return result, fmt.Errorf("failed to write output: %w", err)
	}
	result.OutputPath = info.Path

	log.Info("output written",
		"path", info.Path,
		"rows", result.RowsAccepted,
		"rejected", result.RowsRejected,
		"bytes", info.Size,
	)
	return result, nil
}

func (s *Service) extract(ctx context.Context, path string) ([]statement.RawTable, error) {
	ctx, span := tracer.Start(ctx, "pipeline.extract", trace.WithAttributes(attribute.String("file", path)))
	defer span.End()

	tables, err := s.extractor.Extract(ctx, path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("tables", len(tables)))
	return tables, nil
}

func sumAmounts(records statement.RecordSet) (*money.Money, error) {
	total := money.Zero(money.BRL)
	for _, r := range records {
		next, err := total.Add(money.NewFromDecimal(r.Amount, money.BRL))
		if err != nil {
			return nil, fmt.Errorf("failed to sum amounts: %w", err)
		}
		total = next
	}
	return total, nil
}
