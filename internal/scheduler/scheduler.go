// Package scheduler runs the periodic registry consistency check.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/erazemk/arsenal/internal/model"
)

// Reconciler reports assets whose quantity disagrees with their history.
type Reconciler interface {
	Reconcile(ctx context.Context) ([]model.Drift, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron       *cron.Cron
	reconciler Reconciler
	schedule   string
	timeout    time.Duration
	logger     *slog.Logger
}

// New creates a scheduler that runs reconciler on schedule, a standard
// five-field cron expression or a descriptor such as "@every 1h".
func New(reconciler Reconciler, schedule string, timeout time.Duration, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Scheduler{
		cron:       cron.New(),
		reconciler: reconciler,
		schedule:   schedule,
		timeout:    timeout,
		logger:     logger,
	}
}

// Start registers the reconciliation job and starts the scheduler.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.runReconcile); err != nil {
		return fmt.Errorf("scheduling reconciliation %q: %w", s.schedule, err)
	}
	s.logger.Info("starting scheduler", "reconcile_schedule", s.schedule)
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runReconcile() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	s.RunOnce(ctx)
}

// RunOnce performs one reconciliation and returns the number of drifted
// assets, or -1 when the check failed.
func (s *Scheduler) RunOnce(ctx context.Context) int {
	start := time.Now()
	drift, err := s.reconciler.Reconcile(ctx)
	if err != nil {
		s.logger.Error("reconciliation failed", "error", err)
		return -1
	}
	if len(drift) > 0 {
		s.logger.Warn("reconciliation found drift", "assets", len(drift), "duration", time.Since(start))
	} else {
		s.logger.Info("reconciliation clean", "duration", time.Since(start))
	}
	return len(drift)
}
