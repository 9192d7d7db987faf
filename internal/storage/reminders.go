package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"subtrack/internal/keyval"
)

func reminderKey(subscriptionID string) string {
	return "reminders/" + subscriptionID
}

// LastReminded returns the due date a reminder was last sent for, or the
// zero time when none was sent yet.
func (r *Repository) LastReminded(ctx context.Context, subscriptionID string) (time.Time, error) {
	raw, err := r.store.Get(ctx, reminderKey(subscriptionID))
	if errors.Is(err, keyval.ErrNotFound) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("last reminded: %w", err)
	}
	t, err := time.Parse(time.RFC3339, string(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("last reminded: %w", err)
	}
	return t, nil
}

// MarkReminded records that a reminder went out for the given due date so
// repeated worker runs don't send it again.
func (r *Repository) MarkReminded(ctx context.Context, subscriptionID string, dueDate time.Time) error {
	if err := r.store.Set(ctx, reminderKey(subscriptionID), []byte(dueDate.Format(time.RFC3339))); err != nil {
		return fmt.Errorf("mark reminded: %w", err)
	}
	return nil
}
