package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/FACorreiaa/extrato-pdf/internal/domain/export"
	"github.com/FACorreiaa/extrato-pdf/internal/domain/extract"
	"github.com/FACorreiaa/extrato-pdf/internal/domain/pipeline"
	"github.com/FACorreiaa/extrato-pdf/internal/domain/statement"
	"github.com/FACorreiaa/extrato-pdf/pkg/config"
	"github.com/FACorreiaa/extrato-pdf/pkg/cron"
	"github.com/FACorreiaa/extrato-pdf/pkg/logger"
	"github.com/FACorreiaa/extrato-pdf/pkg/metrics"
	"github.com/FACorreiaa/extrato-pdf/pkg/storage"
)

type rootFlags struct {
	inputDir  string
	outputDir string
	output    string
	format    string
	mode      string
	logLevel  string
	schedule  string
}

func newRootCmd() *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:   "extrato [arquivo.pdf]",
		Short: "Convert bank statement PDFs to CSV",
		Long: `Extract the transaction tables of bank statement PDFs and write them as a
single ';'-separated CSV (or XLSX) file.

Without an argument every .pdf in the input directory is processed. An
existing output file is never overwritten; a numeric suffix is added instead.

Examples:
  extrato
  extrato extrato_janeiro.pdf
  extrato --mode dynamic-header --format xlsx
  extrato --schedule "@every 1h"`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, cfg); err != nil {
				return err
			}

			var target string
			if len(args) == 1 {
				target = args[0]
			}
			return run(cmd, cfg, target)
		},
	}

	cmd.Flags().StringVar(&flags.inputDir, "input-dir", "", "directory holding the statement PDFs")
	cmd.Flags().StringVar(&flags.outputDir, "output-dir", "", "directory the output file is written to")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file name")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "", "output format (csv, xlsx)")
	cmd.Flags().StringVar(&flags.mode, "mode", "", "aggregation mode (fixed-schema, dynamic-header)")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "", "console log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&flags.schedule, "schedule", "", "run now, then repeat the conversion on a cron schedule until interrupted")

	return cmd
}

// apply overrides cfg with the flags that were set explicitly.
func (f rootFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	changed := cmd.Flags().Changed
	if changed("input-dir") {
		cfg.Paths.InputDir = f.inputDir
	}
	if changed("output-dir") {
		cfg.Paths.OutputDir = f.outputDir
	}
	if changed("output") {
		cfg.Output.FileName = f.output
	}
	if changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if changed("schedule") {
		cfg.Schedule = f.schedule
	}
	if changed("format") {
		format, err := export.ParseFormat(f.format)
		if err != nil {
			return err
		}
		cfg.Output.Format = format
	}
	if changed("mode") {
		mode, err := statement.ParseStrategy(f.mode)
		if err != nil {
			return err
		}
		cfg.Mode = mode
	}
	return nil
}

func run(cmd *cobra.Command, cfg *config.Config, target string) error {
	log, closeLog, err := logger.New(logger.Options{
		Level:      cfg.Log.Level,
		Console:    cmd.ErrOrStderr(),
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		return err
	}
	defer closeLog()

	recorder := metrics.NewRecorder()
	svc := pipeline.NewService(
		cfg.Paths.InputDir,
		extract.NewPDFExtractor(extract.DefaultTableSettings(), log),
		statement.NewAggregator(cfg.Mode),
		export.NewWriter(storage.NewLocalStorage(cfg.Paths.OutputDir), cfg.Output.Format, cfg.Output.FileName),
		recorder,
		log,
	)

	once := func(ctx context.Context) error {
		return convert(ctx, cmd, svc, recorder, cfg, target, log)
	}
	if cfg.Schedule == "" {
		return once(cmd.Context())
	}

	scheduler, err := cron.NewScheduler(cfg.Schedule, once, log)
	if err != nil {
		return err
	}
	return scheduler.Run(cmd.Context())
}

func convert(
	ctx context.Context,
	cmd *cobra.Command,
	svc *pipeline.Service,
	recorder *metrics.Recorder,
	cfg *config.Config,
	target string,
	log *slog.Logger,
) error {
	log.Info("starting extraction", "input_dir", cfg.Paths.InputDir, "target", target)
	result, err := svc.Run(ctx, target)

	if mErr := recorder.WriteTextfile(cfg.Metrics.TextfilePath); mErr != nil {
		log.Warn("failed to write metrics", "error", mErr)
	}

	switch {
	case errors.Is(err, pipeline.ErrNoData):
		fmt.Fprintln(cmd.OutOrStdout(), "Nenhuma transação encontrada; nenhum arquivo foi gerado.")
		return nil
	case err != nil:
		log.Error("extraction failed", "error", err)
		return err
	}

	summary := []any{
		"files", result.Files,
		"skipped", result.FilesSkipped,
		"rows", result.RowsAccepted,
		"rejected", result.RowsRejected,
	}
	if result.Total != nil {
		summary = append(summary, "total", result.Total.Display())
	}
	log.Info("extraction finished", summary...)
	fmt.Fprintf(cmd.OutOrStdout(), "Arquivo salvo em: %s\n", result.OutputPath)
	return nil
}
