// Package reminder nudges participants of active daily challenges who have
// not submitted proof today.
package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/forgelabs/forge/pkg/config"
	"github.com/forgelabs/forge/pkg/notify"
)

// SlackerFinder finds users with an unfilled daily proof slot.
type SlackerFinder interface {
	UsersMissingDailyProof(ctx context.Context, day time.Time) ([]int64, error)
}

// Reminder runs the daily push job.
type Reminder struct {
	finder   SlackerFinder
	notifier notify.Sender
	cron     *cron.Cron
	cfg      *config.RemindersConfig
	logger   *zap.Logger
}

// New creates a reminder job runner
func New(finder SlackerFinder, notifier notify.Sender, cfg *config.RemindersConfig, logger *zap.Logger) *Reminder {
	return &Reminder{
		finder:   finder,
		notifier: notifier,
		cron:     cron.New(),
		cfg:      cfg,
		logger:   logger,
	}
}

// Start schedules the cron job. No-op when reminders are disabled.
func (r *Reminder) Start(ctx context.Context) error {
	if !r.cfg.Enabled {
		r.logger.Info("reminders disabled")
		return nil
	}

	_, err := r.cron.AddFunc(r.cfg.CronSpec, func() {
		if err := r.Run(ctx); err != nil {
			r.logger.Error("reminder run failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid reminder cron spec %q: %w", r.cfg.CronSpec, err)
	}

	r.cron.Start()
	r.logger.Info("reminder job scheduled", zap.String("cron", r.cfg.CronSpec))
	return nil
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (r *Reminder) Stop() {
	<-r.cron.Stop().Done()
}

// Run pushes a reminder to everyone who still owes today's proof. Also
// exposed over HTTP for manual triggering.
func (r *Reminder) Run(ctx context.Context) error {
	today := time.Now().UTC().Truncate(24 * time.Hour)

	userIDs, err := r.finder.UsersMissingDailyProof(ctx, today)
	if err != nil {
		return fmt.Errorf("failed to find users missing proof: %w", err)
	}

	for _, userID := range userIDs {
		r.notifier.Send(ctx, userID, &notify.Message{
			Title: "Don't break your streak!",
			Body:  "You haven't submitted today's proof yet.",
		})
	}

	r.logger.Info("reminders sent", zap.Int("count", len(userIDs)))
	return nil
}
