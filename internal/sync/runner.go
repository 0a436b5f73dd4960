package sync

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/roomboard/roomboard-core/internal/infrastructure/logging"
)

// Runner drives the background sync cadence: one full pass after a warm-up
// delay on startup, then repeats on the configured cron schedule.
type Runner struct {
	service  *Service
	schedule string
	warmup   time.Duration
	logger   *logging.Logger
	cron     *cron.Cron
}

// NewRunner creates a background runner for the given service. The
// schedule accepts cron expressions and descriptors like "@every 5m".
func NewRunner(service *Service, schedule string, warmup time.Duration, logger *logging.Logger) *Runner {
	return &Runner{
		service:  service,
		schedule: schedule,
		warmup:   warmup,
		logger:   logger.With("component", "sync-runner"),
	}
}

// Start launches the warm-up pass and the recurring schedule. Returns an
// error only when the schedule expression is invalid; the passes themselves
// run in the background until ctx is cancelled or Stop is called.
func (r *Runner) Start(ctx context.Context) error {
	r.cron = cron.New()
	_, err := r.cron.AddFunc(r.schedule, func() {
		r.runPass(ctx)
	})
	if err != nil {
		return err
	}

	go func() {
		select {
		case <-time.After(r.warmup):
		case <-ctx.Done():
			return
		}
		r.logger.Info("warm-up sync starting", "warmup", r.warmup.String())
		r.runPass(ctx)
		r.cron.Start()
	}()
	return nil
}

// Stop halts the schedule and waits for a running job to finish.
func (r *Runner) Stop() {
	if r.cron != nil {
		<-r.cron.Stop().Done()
	}
}

func (r *Runner) runPass(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	result := r.service.SyncAllNeeded(ctx, DefaultMonthsAhead, DefaultMonthsBehind, nil)
	if !result.Success {
		r.logger.Warn("background sync pass failed", "run_id", result.RunID, "error", result.Error)
	}
}
