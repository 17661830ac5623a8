package main

import (
	"context"
	"fmt"
	"time"

	"github.com/Arun270647/tma-demo-repo/core"
	"github.com/Arun270647/tma-demo-repo/core/fee"
)

type reminderFunc func(ctx context.Context, cooldown time.Duration) (fee.Report, error)

// scheduler runs the automatic fee reminders right away, then every `Interval`.
// A failed run is retried after `RetryDelay`.
type scheduler struct {
	remind reminderFunc
	conf   core.SchedulerConfig
	logger core.Logger
	after  func(time.Duration) <-chan time.Time // mockable
}

func newScheduler(remind reminderFunc, conf core.SchedulerConfig, logger core.Logger) *scheduler {
	return &scheduler{remind: remind, conf: conf, logger: logger, after: time.After}
}

// run blocks until ctx is done.
func (s *scheduler) run(ctx context.Context) error {
	for {
		wait := s.conf.Interval
		rep, err := s.remind(ctx, s.conf.ReminderCooldown)
		switch {
		case ctx.Err() != nil:
			return ctx.Err()
		case err != nil:
			s.logger.Error(fmt.Sprintf("fee reminder job failed, retrying in %v", s.conf.RetryDelay), err)
			wait = s.conf.RetryDelay
		default:
			s.logger.Info(fmt.Sprintf("fee reminder job done, next run in %v", s.conf.Interval), map[string]interface{}{
				"academies": rep.Academies,
				"due":       rep.Due,
				"sent":      rep.Sent,
				"skipped":   rep.Skipped,
				"failed":    rep.Failed,
			})
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.after(wait):
		}
	}
}
