package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"subtrack/internal/amqp"
	"subtrack/internal/core"
	"subtrack/internal/storage"
)

// ReminderPublisher is the slice of the AMQP client the processor needs.
type ReminderPublisher interface {
	PublishBillingReminder(ctx context.Context, msg *amqp.BillingReminderMessage) error
}

// ReminderProcessor walks every user's subscriptions and publishes a
// reminder for each one whose next billing date falls inside the
// near-billing window. A reminder is sent once per due date.
type ReminderProcessor struct {
	repo      *storage.Repository
	publisher ReminderPublisher
	now       func() time.Time
}

func NewReminderProcessor(repo *storage.Repository, publisher ReminderPublisher) *ReminderProcessor {
	return &ReminderProcessor{
		repo:      repo,
		publisher: publisher,
		now:       time.Now,
	}
}

// ProcessDueReminders scans all subscriptions and publishes reminders for
// those near billing. It returns the number of reminders published.
func (p *ReminderProcessor) ProcessDueReminders(ctx context.Context) (int, error) {
	if p.repo == nil || p.publisher == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}

	now := p.now().UTC()

	userIDs, err := p.repo.ListUsers(ctx)
	if err != nil {
		return 0, fmt.Errorf("list users: %w", err)
	}

	slog.InfoContext(ctx, "Processing billing reminders",
		"users", len(userIDs),
		"processing_date", now.Format("2006-01-02"))

	published := 0
	checked := 0

	for _, userID := range userIDs {
		subs, err := p.repo.ListSubscriptions(ctx, userID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to list subscriptions",
				"user_id", userID,
				"error", err)
			continue
		}

		for _, sub := range subs {
			checked++
			sent, err := p.processSubscription(ctx, sub, now)
			if err != nil {
				slog.ErrorContext(ctx, "Failed to process subscription reminder",
					"subscription_id", sub.ID,
					"error", err)
				continue
			}
			if sent {
				published++
			}
		}
	}

	slog.InfoContext(ctx, "Billing reminder processing complete",
		"published", published,
		"total_checked", checked)

	return published, nil
}

func (p *ReminderProcessor) processSubscription(ctx context.Context, sub core.Subscription, now time.Time) (bool, error) {
	due := core.NextBillingDate(sub.StartDate, sub.Cycle, now)
	if !core.NearBilling(due, now) {
		return false, nil
	}

	lastDue, err := p.repo.LastReminded(ctx, sub.ID)
	if err != nil {
		return false, err
	}
	if lastDue.Equal(due) {
		// Already reminded for this billing date.
		return false, nil
	}

	msg := amqp.NewBillingReminderMessage(
		sub.UserID,
		sub.ID,
		sub.PlatformName,
		sub.Price.Cents,
		sub.Currency,
		due,
		core.DaysUntil(due, now),
	)
	if err := p.publisher.PublishBillingReminder(ctx, msg); err != nil {
		return false, fmt.Errorf("publish reminder: %w", err)
	}

	if err := p.repo.MarkReminded(ctx, sub.ID, due); err != nil {
		// The reminder went out; a failed mark means a possible duplicate
		// next run, not a lost reminder.
		slog.WarnContext(ctx, "Failed to mark reminder sent",
			"subscription_id", sub.ID,
			"error", err)
	}

	slog.InfoContext(ctx, "Published billing reminder",
		"subscription_id", sub.ID,
		"platform", sub.PlatformName,
		"due_date", due.Format("2006-01-02"),
		"days_until", core.DaysUntil(due, now))

	return true, nil
}
