package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"subtrack/internal/core"
	"subtrack/internal/keyval"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	r := NewRepository(keyval.NewMemoryStore())
	t.Cleanup(func() { r.Close() })
	return r
}

func newSub() core.Subscription {
	return core.Subscription{
		PlatformID:   "netflix",
		PlatformName: "Netflix",
		Category:     "Entertainment",
		Price:        core.Money{Cents: 1599},
		Currency:     "USD",
		Cycle:        core.Monthly,
		StartDate:    time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateAndListSubscriptions(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	created, err := repo.CreateSubscription(ctx, "user-1", newSub())
	if err != nil {
		t.Fatalf("CreateSubscription: %v", err)
	}
	if created.ID == "" {
		t.Error("created subscription has no id")
	}
	if created.UserID != "user-1" {
		t.Errorf("UserID = %q, want user-1", created.UserID)
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("timestamps not assigned")
	}

	subs, err := repo.ListSubscriptions(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListSubscriptions: %v", err)
	}
	if len(subs) != 1 || subs[0].ID != created.ID {
		t.Errorf("ListSubscriptions = %+v, want the created subscription", subs)
	}
}

func TestListSubscriptionsPreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	names := []string{"Netflix", "Spotify", "Hulu"}
	for _, n := range names {
		s := newSub()
		s.PlatformName = n
		if _, err := repo.CreateSubscription(ctx, "user-1", s); err != nil {
			t.Fatalf("CreateSubscription(%s): %v", n, err)
		}
	}

	subs, err := repo.ListSubscriptions(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListSubscriptions: %v", err)
	}
	for i, n := range names {
		if subs[i].PlatformName != n {
			t.Errorf("position %d = %q, want %q", i, subs[i].PlatformName, n)
		}
	}
}

func TestCreateSubscriptionValidates(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	bad := newSub()
	bad.Price = core.Money{}
	if _, err := repo.CreateSubscription(ctx, "user-1", bad); !errors.Is(err, core.ErrInvalidPrice) {
		t.Errorf("CreateSubscription error = %v, want ErrInvalidPrice", err)
	}

	subs, _ := repo.ListSubscriptions(ctx, "user-1")
	if len(subs) != 0 {
		t.Error("invalid subscription was stored")
	}
}

func TestUpdateSubscription(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	created, err := repo.CreateSubscription(ctx, "user-1", newSub())
	if err != nil {
		t.Fatalf("CreateSubscription: %v", err)
	}

	created.Price = core.Money{Cents: 1999}
	updated, err := repo.UpdateSubscription(ctx, "user-1", created)
	if err != nil {
		t.Fatalf("UpdateSubscription: %v", err)
	}
	if updated.Price.Cents != 1999 {
		t.Errorf("price = %d, want 1999", updated.Price.Cents)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Error("CreatedAt changed on update")
	}

	missing := newSub()
	missing.ID = "no-such-id"
	if _, err := repo.UpdateSubscription(ctx, "user-1", missing); !errors.Is(err, ErrSubscriptionNotFound) {
		t.Errorf("UpdateSubscription(missing) error = %v, want ErrSubscriptionNotFound", err)
	}
}

func TestDeleteSubscription(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	created, err := repo.CreateSubscription(ctx, "user-1", newSub())
	if err != nil {
		t.Fatalf("CreateSubscription: %v", err)
	}
	if err := repo.DeleteSubscription(ctx, "user-1", created.ID); err != nil {
		t.Fatalf("DeleteSubscription: %v", err)
	}

	if _, err := repo.GetSubscription(ctx, "user-1", created.ID); !errors.Is(err, ErrSubscriptionNotFound) {
		t.Errorf("GetSubscription after delete error = %v, want ErrSubscriptionNotFound", err)
	}
	if err := repo.DeleteSubscription(ctx, "user-1", created.ID); !errors.Is(err, ErrSubscriptionNotFound) {
		t.Errorf("second DeleteSubscription error = %v, want ErrSubscriptionNotFound", err)
	}
}

func TestUserIsolation(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	created, err := repo.CreateSubscription(ctx, "alice", newSub())
	if err != nil {
		t.Fatalf("CreateSubscription: %v", err)
	}

	if subs, _ := repo.ListSubscriptions(ctx, "bob"); len(subs) != 0 {
		t.Error("bob can see alice's subscriptions")
	}
	if _, err := repo.GetSubscription(ctx, "bob", created.ID); !errors.Is(err, ErrSubscriptionNotFound) {
		t.Errorf("cross-user GetSubscription error = %v, want ErrSubscriptionNotFound", err)
	}
	if err := repo.DeleteSubscription(ctx, "bob", created.ID); !errors.Is(err, ErrSubscriptionNotFound) {
		t.Errorf("cross-user DeleteSubscription error = %v, want ErrSubscriptionNotFound", err)
	}
}

func TestListPlatforms(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	base, err := repo.ListPlatforms(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListPlatforms: %v", err)
	}
	if len(base) != len(core.PlatformCatalog) {
		t.Errorf("platform count = %d, want catalog size %d", len(base), len(core.PlatformCatalog))
	}

	custom, err := repo.CreateCustomPlatform(ctx, "user-1", "Local Gym", "Health")
	if err != nil {
		t.Fatalf("CreateCustomPlatform: %v", err)
	}
	if !custom.Custom {
		t.Error("custom platform not flagged")
	}

	all, err := repo.ListPlatforms(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListPlatforms: %v", err)
	}
	if len(all) != len(core.PlatformCatalog)+1 {
		t.Errorf("platform count = %d, want %d", len(all), len(core.PlatformCatalog)+1)
	}
	if all[len(all)-1].ID != custom.ID {
		t.Error("custom platform not appended after the catalog")
	}

	// Custom platforms are per user.
	other, _ := repo.ListPlatforms(ctx, "user-2")
	if len(other) != len(core.PlatformCatalog) {
		t.Error("custom platform leaked to another user")
	}
}

func TestGetPlatform(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	p, err := repo.GetPlatform(ctx, "user-1", "spotify")
	if err != nil {
		t.Fatalf("GetPlatform(catalog): %v", err)
	}
	if p.Name != "Spotify" {
		t.Errorf("name = %q, want Spotify", p.Name)
	}

	custom, err := repo.CreateCustomPlatform(ctx, "user-1", "Local Gym", "Health")
	if err != nil {
		t.Fatalf("CreateCustomPlatform: %v", err)
	}
	got, err := repo.GetPlatform(ctx, "user-1", custom.ID)
	if err != nil {
		t.Fatalf("GetPlatform(custom): %v", err)
	}
	if got.Name != "Local Gym" {
		t.Errorf("name = %q, want Local Gym", got.Name)
	}

	if _, err := repo.GetPlatform(ctx, "user-1", "nope"); !errors.Is(err, ErrPlatformNotFound) {
		t.Errorf("GetPlatform(missing) error = %v, want ErrPlatformNotFound", err)
	}
}
