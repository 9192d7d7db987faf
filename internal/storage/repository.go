// Package storage persists subscriptions, custom platforms, and billing
// history as JSON documents in a keyval.Store, keyed per user.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"subtrack/internal/core"
	"subtrack/internal/keyval"
)

var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrPlatformNotFound     = errors.New("platform not found")
)

// Repository stores each user's subscription list and custom platform list
// as a single JSON document. A mutex serializes read-modify-write cycles
// since the underlying store has no transactions.
type Repository struct {
	store keyval.Store
	mu    sync.Mutex
	now   func() time.Time
}

func NewRepository(store keyval.Store) *Repository {
	return &Repository{store: store, now: time.Now}
}

func subscriptionsKey(userID string) string {
	return "users/" + userID + "/subscriptions"
}

func platformsKey(userID string) string {
	return "users/" + userID + "/platforms"
}

func historyKey(subscriptionID string) string {
	return "subscriptions/" + subscriptionID + "/history"
}

const userIndexKey = "users/index"

func (r *Repository) Close() error {
	return r.store.Close()
}

// loadList decodes the JSON list stored under key into dst. A missing key
// yields the empty list.
func loadList[T any](ctx context.Context, store keyval.Store, key string) ([]T, error) {
	raw, err := store.Get(ctx, key)
	if errors.Is(err, keyval.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode %q: %w", key, err)
	}
	return out, nil
}

func saveList[T any](ctx context.Context, store keyval.Store, key string, list []T) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	return store.Set(ctx, key, raw)
}

// ListSubscriptions returns the user's subscriptions in insertion order.
func (r *Repository) ListSubscriptions(ctx context.Context, userID string) ([]core.Subscription, error) {
	subs, err := loadList[core.Subscription](ctx, r.store, subscriptionsKey(userID))
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	return subs, nil
}

func (r *Repository) GetSubscription(ctx context.Context, userID, id string) (core.Subscription, error) {
	subs, err := r.ListSubscriptions(ctx, userID)
	if err != nil {
		return core.Subscription{}, err
	}
	for _, s := range subs {
		if s.ID == id {
			return s, nil
		}
	}
	return core.Subscription{}, ErrSubscriptionNotFound
}

// CreateSubscription validates and stores a new subscription. The ID,
// UserID, and timestamps are assigned here.
func (r *Repository) CreateSubscription(ctx context.Context, userID string, sub core.Subscription) (core.Subscription, error) {
	sub.ID = uuid.NewString()
	sub.UserID = userID
	now := r.now().UTC()
	sub.CreatedAt = now
	sub.UpdatedAt = now

	if err := sub.Validate(); err != nil {
		return core.Subscription{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := subscriptionsKey(userID)
	subs, err := loadList[core.Subscription](ctx, r.store, key)
	if err != nil {
		return core.Subscription{}, fmt.Errorf("create subscription: %w", err)
	}
	subs = append(subs, sub)
	if err := saveList(ctx, r.store, key, subs); err != nil {
		return core.Subscription{}, fmt.Errorf("create subscription: %w", err)
	}
	if err := r.indexUser(ctx, userID); err != nil {
		slog.WarnContext(ctx, "Failed to index user", "user_id", userID, "error", err)
	}

	slog.InfoContext(ctx, "Subscription created",
		"id", sub.ID,
		"user_id", userID,
		"platform", sub.PlatformName,
		"cycle", sub.Cycle)

	return sub, nil
}

// UpdateSubscription replaces the stored subscription's mutable fields.
// ID, UserID, and CreatedAt are preserved.
func (r *Repository) UpdateSubscription(ctx context.Context, userID string, sub core.Subscription) (core.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := subscriptionsKey(userID)
	subs, err := loadList[core.Subscription](ctx, r.store, key)
	if err != nil {
		return core.Subscription{}, fmt.Errorf("update subscription: %w", err)
	}

	for i, existing := range subs {
		if existing.ID != sub.ID {
			continue
		}
		sub.UserID = existing.UserID
		sub.CreatedAt = existing.CreatedAt
		sub.UpdatedAt = r.now().UTC()
		if err := sub.Validate(); err != nil {
			return core.Subscription{}, err
		}
		subs[i] = sub
		if err := saveList(ctx, r.store, key, subs); err != nil {
			return core.Subscription{}, fmt.Errorf("update subscription: %w", err)
		}
		slog.InfoContext(ctx, "Subscription updated", "id", sub.ID, "user_id", userID)
		return sub, nil
	}

	return core.Subscription{}, ErrSubscriptionNotFound
}

func (r *Repository) DeleteSubscription(ctx context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := subscriptionsKey(userID)
	subs, err := loadList[core.Subscription](ctx, r.store, key)
	if err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}

	for i, s := range subs {
		if s.ID != id {
			continue
		}
		subs = append(subs[:i], subs[i+1:]...)
		if err := saveList(ctx, r.store, key, subs); err != nil {
			return fmt.Errorf("delete subscription: %w", err)
		}
		if err := r.store.Delete(ctx, historyKey(id)); err != nil {
			slog.WarnContext(ctx, "Failed to delete billing history", "subscription_id", id, "error", err)
		}
		slog.InfoContext(ctx, "Subscription deleted", "id", id, "user_id", userID)
		return nil
	}

	return ErrSubscriptionNotFound
}

// indexUser records a user id in the global index so workers can walk all
// users' subscriptions. Caller holds r.mu.
func (r *Repository) indexUser(ctx context.Context, userID string) error {
	ids, err := loadList[string](ctx, r.store, userIndexKey)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if id == userID {
			return nil
		}
	}
	ids = append(ids, userID)
	return saveList(ctx, r.store, userIndexKey, ids)
}

// ListUsers returns the ids of every user with at least one subscription.
func (r *Repository) ListUsers(ctx context.Context) ([]string, error) {
	ids, err := loadList[string](ctx, r.store, userIndexKey)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return ids, nil
}

// ListPlatforms returns the built-in catalog followed by the user's custom
// platforms.
func (r *Repository) ListPlatforms(ctx context.Context, userID string) ([]core.Platform, error) {
	customs, err := loadList[core.Platform](ctx, r.store, platformsKey(userID))
	if err != nil {
		return nil, fmt.Errorf("list platforms: %w", err)
	}
	out := make([]core.Platform, 0, len(core.PlatformCatalog)+len(customs))
	out = append(out, core.PlatformCatalog...)
	out = append(out, customs...)
	return out, nil
}

// GetPlatform resolves a platform id against the catalog and the user's
// custom platforms.
func (r *Repository) GetPlatform(ctx context.Context, userID, id string) (core.Platform, error) {
	if p, ok := core.CatalogPlatform(id); ok {
		return p, nil
	}
	customs, err := loadList[core.Platform](ctx, r.store, platformsKey(userID))
	if err != nil {
		return core.Platform{}, fmt.Errorf("get platform: %w", err)
	}
	for _, p := range customs {
		if p.ID == id {
			return p, nil
		}
	}
	return core.Platform{}, ErrPlatformNotFound
}

// CreateCustomPlatform stores a user-authored platform. The id is
// generated here.
func (r *Repository) CreateCustomPlatform(ctx context.Context, userID, name, category string) (core.Platform, error) {
	p := core.NewCustomPlatform("custom-"+uuid.NewString(), name, category)
	if err := p.Validate(); err != nil {
		return core.Platform{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := platformsKey(userID)
	customs, err := loadList[core.Platform](ctx, r.store, key)
	if err != nil {
		return core.Platform{}, fmt.Errorf("create custom platform: %w", err)
	}
	customs = append(customs, p)
	if err := saveList(ctx, r.store, key, customs); err != nil {
		return core.Platform{}, fmt.Errorf("create custom platform: %w", err)
	}

	slog.InfoContext(ctx, "Custom platform created", "id", p.ID, "user_id", userID, "name", p.Name)
	return p, nil
}
