package worker

import (
	"context"
	"testing"
	"time"

	"subtrack/internal/amqp"
	"subtrack/internal/core"
	"subtrack/internal/keyval"
	"subtrack/internal/sheets/memory"
	"subtrack/internal/storage"
)

func newExportFixture(t *testing.T) (*ExportWorker, *storage.Repository, *memory.Store) {
	t.Helper()
	store := keyval.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })
	repo := storage.NewRepository(store)
	writer := memory.New()
	w := NewExportWorker(repo, writer)
	w.now = func() time.Time { return time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC) }
	return w, repo, writer
}

func seedSubscription(t *testing.T, repo *storage.Repository) core.Subscription {
	t.Helper()
	created, err := repo.CreateSubscription(context.Background(), "alice", core.Subscription{
		PlatformName: "Netflix",
		Category:     "Entertainment",
		Price:        core.Money{Cents: 1549},
		Currency:     "USD",
		Cycle:        core.Monthly,
		StartDate:    time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("seed subscription: %v", err)
	}
	return created
}

func TestHandleEventCreated(t *testing.T) {
	w, repo, writer := newExportFixture(t)
	sub := seedSubscription(t, repo)

	msg := amqp.NewSubscriptionEventMessage(amqp.EventCreated, "alice", sub.ID)
	if err := w.HandleEvent(msg); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}

	rows := writer.Rows()
	if len(rows) != 1 {
		t.Fatalf("rows=%d, want 1", len(rows))
	}
	row := rows[0]
	if row.Event != "created" || row.SubscriptionID != sub.ID || row.UserID != "alice" {
		t.Errorf("row identifiers wrong: %+v", row)
	}
	if row.PlatformName != "Netflix" || row.Price != 15.49 || row.Currency != "USD" {
		t.Errorf("row payload wrong: %+v", row)
	}
	if row.StartDate != "2024-01-15" {
		t.Errorf("startDate=%q", row.StartDate)
	}
	if row.NextBilling != "2024-06-15" {
		t.Errorf("nextBilling=%q, want 2024-06-15", row.NextBilling)
	}
}

func TestHandleEventDeletedWritesTombstone(t *testing.T) {
	w, _, writer := newExportFixture(t)

	msg := amqp.NewSubscriptionEventMessage(amqp.EventDeleted, "alice", "gone-sub")
	if err := w.HandleEvent(msg); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}

	rows := writer.Rows()
	if len(rows) != 1 {
		t.Fatalf("rows=%d, want 1", len(rows))
	}
	if rows[0].Event != "deleted" || rows[0].SubscriptionID != "gone-sub" {
		t.Errorf("tombstone row wrong: %+v", rows[0])
	}
	if rows[0].PlatformName != "" {
		t.Errorf("tombstone should carry no payload, got %+v", rows[0])
	}
}

func TestHandleEventVanishedSubscriptionSkips(t *testing.T) {
	w, _, writer := newExportFixture(t)

	msg := amqp.NewSubscriptionEventMessage(amqp.EventUpdated, "alice", "missing")
	if err := w.HandleEvent(msg); err != nil {
		t.Fatalf("HandleEvent should not fail for vanished records: %v", err)
	}
	if len(writer.Rows()) != 0 {
		t.Error("no row should be written for a vanished record")
	}
}

func TestHandleEventNoWriter(t *testing.T) {
	store := keyval.NewMemoryStore()
	defer store.Close()
	w := NewExportWorker(storage.NewRepository(store), nil)

	msg := amqp.NewSubscriptionEventMessage(amqp.EventCreated, "alice", "sub-1")
	if err := w.HandleEvent(msg); err == nil {
		t.Fatal("expected error with no writer configured")
	}
}
