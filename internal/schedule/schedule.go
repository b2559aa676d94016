// Package schedule runs the reconciliation on a cron schedule.
package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"billing-reconciliation/internal/domain"
	"billing-reconciliation/internal/usecase"
)

// Runner reconciles one period.
type Runner interface {
	Reconcile(ctx context.Context, period string) (*usecase.Result, error)
}

// PreviousDay returns the bill-through period for a run at now: the
// calendar day before, in now's location.
func PreviousDay(now time.Time) string {
	return now.AddDate(0, 0, -1).Format(domain.PeriodLayout)
}

// Scheduler reconciles the previous day on every tick of a cron spec.
// Overlapping ticks are skipped.
type Scheduler struct {
	cron    *cron.Cron
	runner  Runner
	logger  *slog.Logger
	timeout time.Duration
	loc     *time.Location
	now     func() time.Time
}

// New creates a scheduler for spec, a standard five-field cron expression.
func New(spec, timezone string, runner Runner, logger *slog.Logger, timeout time.Duration) (*Scheduler, error) {
	loc := time.UTC
	if timezone != "" {
		var err error
		if loc, err = time.LoadLocation(timezone); err != nil {
			return nil, fmt.Errorf("unknown timezone %q: %w", timezone, err)
		}
	}
	s := &Scheduler{
		cron:    cron.New(cron.WithLocation(loc), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		runner:  runner,
		logger:  logger,
		timeout: timeout,
		loc:     loc,
		now:     time.Now,
	}
	if _, err := s.cron.AddFunc(spec, s.tick); err != nil {
		return nil, fmt.Errorf("unable to schedule reconciliation %q: %w", spec, err)
	}
	return s, nil
}

// Start begins running ticks in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("reconciliation scheduler started", "next", s.Next())
}

// Stop halts the schedule; the returned context is done once a running
// tick has finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// Next returns the time of the next scheduled tick.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Schedule.Next(s.now().In(s.loc))
}

func (s *Scheduler) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	period := PreviousDay(s.now().In(s.loc))
	result, err := s.runner.Reconcile(ctx, period)
	if err != nil {
		s.logger.Error("scheduled reconciliation failed", "period", period, "error", err)
		return
	}
	s.logger.Info("scheduled reconciliation complete", "period", period, "run_id", result.Run.ID)
}
