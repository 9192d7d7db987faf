package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"subtrack/internal/core"
	"subtrack/internal/keyval"
)

func TestListBillingHistory(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(keyval.NewMemoryStore())
	repo.now = func() time.Time { return time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC) }
	defer repo.Close()

	sub := newSub() // monthly, started 2024-01-15
	created, err := repo.CreateSubscription(ctx, "user-1", sub)
	if err != nil {
		t.Fatalf("CreateSubscription: %v", err)
	}

	records, err := repo.ListBillingHistory(ctx, "user-1", created.ID)
	if err != nil {
		t.Fatalf("ListBillingHistory: %v", err)
	}
	// Completed periods by 2024-06-10: Jan 15, Feb 15, Mar 15, Apr 15, May 15.
	if len(records) != 5 {
		t.Fatalf("record count = %d, want 5", len(records))
	}

	// Newest first.
	for i := 1; i < len(records); i++ {
		if records[i].PeriodStart.After(records[i-1].PeriodStart) {
			t.Fatal("records not sorted newest first")
		}
	}

	newest := records[0]
	if !newest.PeriodStart.Equal(time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("newest period start = %v, want 2024-05-15", newest.PeriodStart)
	}
	if !newest.PeriodEnd.Equal(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("newest period end = %v, want 2024-06-15", newest.PeriodEnd)
	}
	for _, rec := range records {
		if rec.Status != core.BillingPaid {
			t.Errorf("record %s status = %s, want paid", rec.ID, rec.Status)
		}
		if rec.Amount != created.Price || rec.Currency != created.Currency {
			t.Errorf("record %s does not carry the subscription price", rec.ID)
		}
	}
}

func TestListBillingHistoryStableAcrossCalls(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	created, err := repo.CreateSubscription(ctx, "user-1", newSub())
	if err != nil {
		t.Fatalf("CreateSubscription: %v", err)
	}

	first, err := repo.ListBillingHistory(ctx, "user-1", created.ID)
	if err != nil {
		t.Fatalf("first ListBillingHistory: %v", err)
	}
	second, err := repo.ListBillingHistory(ctx, "user-1", created.ID)
	if err != nil {
		t.Fatalf("second ListBillingHistory: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("record counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("record %d id changed between calls", i)
		}
	}
}

func TestListBillingHistoryFirstPeriodPending(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(keyval.NewMemoryStore())
	repo.now = func() time.Time { return time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC) }
	defer repo.Close()

	sub := newSub()
	sub.StartDate = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	created, err := repo.CreateSubscription(ctx, "user-1", sub)
	if err != nil {
		t.Fatalf("CreateSubscription: %v", err)
	}

	records, err := repo.ListBillingHistory(ctx, "user-1", created.ID)
	if err != nil {
		t.Fatalf("ListBillingHistory: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("record count = %d, want 1", len(records))
	}
	if records[0].Status != core.BillingPending {
		t.Errorf("status = %s, want pending for an incomplete first period", records[0].Status)
	}
}

func TestListBillingHistoryCapped(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(keyval.NewMemoryStore())
	repo.now = func() time.Time { return time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC) }
	defer repo.Close()

	sub := newSub()
	sub.Cycle = core.Weekly
	sub.StartDate = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	created, err := repo.CreateSubscription(ctx, "user-1", sub)
	if err != nil {
		t.Fatalf("CreateSubscription: %v", err)
	}

	records, err := repo.ListBillingHistory(ctx, "user-1", created.ID)
	if err != nil {
		t.Fatalf("ListBillingHistory: %v", err)
	}
	if len(records) != maxHistoryRecords {
		t.Errorf("record count = %d, want cap %d", len(records), maxHistoryRecords)
	}
}

func TestListBillingHistoryUnknownSubscription(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	if _, err := repo.ListBillingHistory(ctx, "user-1", "nope"); !errors.Is(err, ErrSubscriptionNotFound) {
		t.Errorf("error = %v, want ErrSubscriptionNotFound", err)
	}
}
