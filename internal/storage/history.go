package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"subtrack/internal/core"
)

// maxHistoryRecords caps how many past periods are materialized for a
// long-running subscription.
const maxHistoryRecords = 12

// ListBillingHistory returns the billing records for a subscription, most
// recent first. Records are seeded from the subscription's start date on
// first access and persisted, so ids stay stable across calls.
func (r *Repository) ListBillingHistory(ctx context.Context, userID, subscriptionID string) ([]core.BillingHistory, error) {
	sub, err := r.GetSubscription(ctx, userID, subscriptionID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := historyKey(subscriptionID)
	records, err := loadList[core.BillingHistory](ctx, r.store, key)
	if err != nil {
		return nil, fmt.Errorf("list billing history: %w", err)
	}
	if records != nil {
		return records, nil
	}

	records = seedHistory(sub, r.now().UTC())
	if err := saveList(ctx, r.store, key, records); err != nil {
		return nil, fmt.Errorf("seed billing history: %w", err)
	}
	slog.InfoContext(ctx, "Billing history seeded",
		"subscription_id", subscriptionID,
		"records", len(records))
	return records, nil
}

// seedHistory materializes one paid record per completed billing period,
// newest first. A subscription that has not completed a period yet gets a
// single pending record for the current one.
func seedHistory(sub core.Subscription, now time.Time) []core.BillingHistory {
	record := func(start, end time.Time, status core.BillingStatus) core.BillingHistory {
		return core.BillingHistory{
			ID:             uuid.NewString(),
			SubscriptionID: sub.ID,
			Amount:         sub.Price,
			Currency:       sub.Currency,
			PeriodStart:    start,
			PeriodEnd:      end,
			Status:         status,
		}
	}

	var records []core.BillingHistory
	start := sub.StartDate
	for {
		end := core.NextBillingDate(start, sub.Cycle, start)
		if end.After(now) {
			break
		}
		// Prepend so the newest period comes first.
		records = append([]core.BillingHistory{record(start, end, core.BillingPaid)}, records...)
		if len(records) > maxHistoryRecords {
			records = records[:maxHistoryRecords]
		}
		start = end
	}

	if len(records) == 0 && !sub.StartDate.After(now) {
		end := core.NextBillingDate(sub.StartDate, sub.Cycle, now)
		records = append(records, record(sub.StartDate, end, core.BillingPending))
	}

	return records
}
