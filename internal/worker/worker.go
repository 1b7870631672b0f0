package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"StockNotifier/internal/clock"
	"StockNotifier/internal/models"
	"StockNotifier/internal/queue"
)

// ProgressReporter receives partial-completion checkpoints during delivery.
type ProgressReporter interface {
	Progress(current, total int)
}

// Sender delivers push notifications in fixed-interval steps, refusing
// blacklisted recipients. The blacklist is evaluated on every step, so a
// rule arriving mid-delivery still aborts before completion.
type Sender struct {
	log       *slog.Logger
	clock     clock.Clock
	interval  time.Duration
	total     int
	blacklist map[string]struct{}
}

func NewSender(log *slog.Logger, clk clock.Clock, interval time.Duration, totalSteps int, blacklist []string) *Sender {
	if totalSteps < 1 {
		totalSteps = 1
	}
	denied := make(map[string]struct{}, len(blacklist))
	for _, number := range blacklist {
		denied[number] = struct{}{}
	}
	return &Sender{
		log:       log,
		clock:     clk,
		interval:  interval,
		total:     totalSteps,
		blacklist: denied,
	}
}

// Handle is the queue handler for push notification jobs.
func (s *Sender) Handle(ctx context.Context, job *queue.Job) error {
	return s.Send(ctx, job.Data, job)
}

// Send walks the delivery steps one tick at a time. Returns nil once every
// step ran, or the blacklist error that aborted delivery.
func (s *Sender) Send(ctx context.Context, notif models.PushNotification, rep ProgressReporter) error {
	total := s.total
	pending := total

	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C():
			if progressDue(pending, total) {
				rep.Progress(total-pending, total)
			}
			if s.Blacklisted(notif.PhoneNumber) {
				return fmt.Errorf("phone number %s is blacklisted: %w", notif.PhoneNumber, models.ErrBlacklisted)
			}
			if pending == total {
				s.log.Info("Sending notification", "phoneNumber", notif.PhoneNumber, "message", notif.Message)
			}
			pending--
			if pending == 0 {
				return nil
			}
		}
	}
}

// Blacklisted reports whether the number must never receive a notification.
func (s *Sender) Blacklisted(phoneNumber string) bool {
	_, ok := s.blacklist[phoneNumber]
	return ok
}

// progressDue reports whether delivery has reached the halfway checkpoint:
// progress is published once the remaining steps are down to half the
// total, so a two-step send reports (1, 2) on its second tick and nothing
// on its first.
func progressDue(pending, total int) bool {
	return pending*2 <= total
}
