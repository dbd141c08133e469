// Package cron re-runs a job on a schedule using robfig/cron.
package cron

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Job is one scheduled unit of work.
type Job func(ctx context.Context) error

// Scheduler runs a single job on a cron spec. Overlapping runs are skipped,
// so at most one job executes at a time.
type Scheduler struct {
	cron   *cron.Cron
	spec   string
	job    Job
	logger *slog.Logger
}

// NewScheduler creates a scheduler for job. spec uses the standard 5-field
// format or a descriptor such as "@every 1h".
func NewScheduler(spec string, job Job, logger *slog.Logger) (*Scheduler, error) {
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}

	cronLogger := cron.VerbosePrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))
	c := cron.New(
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.SkipIfStillRunning(cronLogger)),
	)

	return &Scheduler{cron: c, spec: spec, job: job, logger: logger}, nil
}

// Run executes the job once right away, then on schedule until ctx is
// cancelled, and finally waits for a running job to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	id, err := s.cron.AddFunc(s.spec, func() { s.runOnce(ctx) })
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", slog.String("schedule", s.spec))

	// Through the wrapped job, so a tick that fires meanwhile is skipped.
	s.cron.Entry(id).WrappedJob.Run()

	<-ctx.Done()
	s.logger.Info("scheduler stopping")
	<-s.cron.Stop().Done()
	return nil
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := s.job(ctx); err != nil {
		s.logger.Error("scheduled run failed", slog.Any("error", err))
	}
}
