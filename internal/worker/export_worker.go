package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"subtrack/internal/amqp"
	"subtrack/internal/core"
	"subtrack/internal/sheets"
	"subtrack/internal/storage"
)

// ExportWorker mirrors subscription events into the export sheet as an
// append-only audit log. Create and update events fetch the current record;
// delete events write a tombstone row from the message identifiers alone,
// since the record is already gone.
type ExportWorker struct {
	repo   *storage.Repository
	writer sheets.SubscriptionWriter
	now    func() time.Time
}

func NewExportWorker(repo *storage.Repository, writer sheets.SubscriptionWriter) *ExportWorker {
	return &ExportWorker{
		repo:   repo,
		writer: writer,
		now:    time.Now,
	}
}

// HandleEvent processes a single subscription event. Returning an error
// requeues the message, so unrecoverable conditions are logged and dropped
// instead.
func (w *ExportWorker) HandleEvent(msg *amqp.SubscriptionEventMessage) error {
	ctx := context.Background()
	if w.writer == nil {
		return errors.New("export worker has no sheet writer")
	}

	slog.InfoContext(ctx, "Processing subscription event",
		"event", msg.Event,
		"subscription_id", msg.SubscriptionID,
		"user_id", msg.UserID)

	row := sheets.Row{
		Timestamp:      msg.Timestamp,
		Event:          msg.Event,
		UserID:         msg.UserID,
		SubscriptionID: msg.SubscriptionID,
	}

	if msg.Event != amqp.EventDeleted {
		sub, err := w.repo.GetSubscription(ctx, msg.UserID, msg.SubscriptionID)
		if errors.Is(err, storage.ErrSubscriptionNotFound) {
			// Deleted between publish and consume; the delete event will
			// still produce its tombstone row.
			slog.WarnContext(ctx, "Subscription vanished before export, skipping",
				"subscription_id", msg.SubscriptionID, "event", msg.Event)
			return nil
		}
		if err != nil {
			return fmt.Errorf("get subscription for export: %w", err)
		}
		now := w.now()
		row.PlatformName = sub.PlatformName
		row.Category = sub.Category
		row.Price = sub.Price.Amount()
		row.Currency = sub.Currency
		row.Cycle = string(sub.Cycle)
		row.StartDate = sub.StartDate.Format("2006-01-02")
		row.NextBilling = core.NextBillingDate(sub.StartDate, sub.Cycle, now).Format("2006-01-02")
	}

	ref, err := w.writer.Append(ctx, row)
	if err != nil {
		return fmt.Errorf("append export row: %w", err)
	}

	slog.InfoContext(ctx, "Subscription event exported",
		"event", msg.Event,
		"subscription_id", msg.SubscriptionID,
		"sheets_ref", ref)
	return nil
}
