// Package worker schedules the daily "did you log today?" check. It
// sits outside the ledger core: the core only ever sees a LoadDay
// call, and message delivery is someone else's job.
package worker

import (
	"context"
	"time"

	"kazanc/internal/amqp"
	"kazanc/internal/core"
	"kazanc/internal/log"
)

// DayLoader is the slice of the ledger repository the reminder needs.
type DayLoader interface {
	LoadDay(ctx context.Context, date core.Date) (*core.DaySummary, error)
}

// ReminderPublisher emits a reminder for a date with no record yet.
type ReminderPublisher interface {
	PublishReminderDue(ctx context.Context, msg *amqp.ReminderDueMessage) error
}

// Reminder wakes once a day at a fixed wall-clock offset and publishes
// a reminder when that day has no ledger record.
type Reminder struct {
	ledger    DayLoader
	publisher ReminderPublisher
	clock     time.Duration // offset from local midnight
	logger    *log.Logger
}

func NewReminder(ledger DayLoader, publisher ReminderPublisher, clock time.Duration, logger *log.Logger) *Reminder {
	return &Reminder{
		ledger:    ledger,
		publisher: publisher,
		clock:     clock,
		logger:    logger.WithComponent("reminder"),
	}
}

// Run blocks until ctx is done, firing the check at the configured
// time each day. Check failures are logged and retried the next day;
// only context cancellation ends the loop.
func (r *Reminder) Run(ctx context.Context) error {
	for {
		next := nextRun(time.Now(), r.clock)
		r.logger.Info("next reminder check scheduled", "at", next)

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case now := <-timer.C:
			if err := r.CheckAndNotify(ctx, now); err != nil {
				r.logger.Error("reminder check failed", "error", err)
			}
		}
	}
}

// CheckAndNotify publishes a reminder if now's date has no record.
func (r *Reminder) CheckAndNotify(ctx context.Context, now time.Time) error {
	date := core.DateOf(now)
	summary, err := r.ledger.LoadDay(ctx, date)
	if err != nil {
		return err
	}
	if summary != nil {
		r.logger.Debug("day already has a record, no reminder", "date", date)
		return nil
	}
	return r.publisher.PublishReminderDue(ctx, amqp.NewReminderDueMessage(date.String(), now))
}

// nextRun returns the next occurrence of the daily wall-clock offset
// strictly after now.
func nextRun(now time.Time, clock time.Duration) time.Time {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	next := midnight.Add(clock)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
