// Package services provides business logic and orchestration services.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"subtrack/internal/amqp"
	"subtrack/internal/core"
	"subtrack/internal/storage"
)

// EventPublisher is the slice of the AMQP client the service needs.
type EventPublisher interface {
	PublishSubscriptionEvent(ctx context.Context, event, userID, subscriptionID string) error
	Close() error
}

// SubscriptionService orchestrates subscription operations across storage
// and AMQP. Mutations are persisted first; event publishing is best-effort.
type SubscriptionService struct {
	repo      *storage.Repository
	publisher EventPublisher
}

func NewSubscriptionService(repo *storage.Repository, publisher EventPublisher) *SubscriptionService {
	return &SubscriptionService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *SubscriptionService) List(ctx context.Context, userID string) ([]core.Subscription, error) {
	return s.repo.ListSubscriptions(ctx, userID)
}

func (s *SubscriptionService) Get(ctx context.Context, userID, id string) (core.Subscription, error) {
	return s.repo.GetSubscription(ctx, userID, id)
}

func (s *SubscriptionService) Create(ctx context.Context, userID string, sub core.Subscription) (core.Subscription, error) {
	created, err := s.repo.CreateSubscription(ctx, userID, sub)
	if err != nil {
		return core.Subscription{}, fmt.Errorf("create subscription: %w", err)
	}

	s.publishEvent(ctx, amqp.EventCreated, userID, created.ID)
	return created, nil
}

func (s *SubscriptionService) Update(ctx context.Context, userID string, sub core.Subscription) (core.Subscription, error) {
	updated, err := s.repo.UpdateSubscription(ctx, userID, sub)
	if err != nil {
		return core.Subscription{}, err
	}

	s.publishEvent(ctx, amqp.EventUpdated, userID, updated.ID)
	return updated, nil
}

func (s *SubscriptionService) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.DeleteSubscription(ctx, userID, id); err != nil {
		return err
	}

	s.publishEvent(ctx, amqp.EventDeleted, userID, id)
	return nil
}

func (s *SubscriptionService) BillingHistory(ctx context.Context, userID, id string) ([]core.BillingHistory, error) {
	return s.repo.ListBillingHistory(ctx, userID, id)
}

func (s *SubscriptionService) Platform(ctx context.Context, userID, id string) (core.Platform, error) {
	return s.repo.GetPlatform(ctx, userID, id)
}

func (s *SubscriptionService) Platforms(ctx context.Context, userID string) ([]core.Platform, error) {
	return s.repo.ListPlatforms(ctx, userID)
}

func (s *SubscriptionService) CreateCustomPlatform(ctx context.Context, userID, name, category string) (core.Platform, error) {
	return s.repo.CreateCustomPlatform(ctx, userID, name, category)
}

// publishEvent is best-effort: a failed publish never fails the request,
// the mutation is already persisted.
func (s *SubscriptionService) publishEvent(ctx context.Context, event, userID, id string) {
	if s.publisher == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping event", "event", event)
		return
	}
	if err := s.publisher.PublishSubscriptionEvent(ctx, event, userID, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish subscription event",
			"event", event,
			"subscription_id", id,
			"error", err)
	}
}

// Close closes both storage and AMQP connections
func (s *SubscriptionService) Close() error {
	var errs []error

	if s.repo != nil {
		if err := s.repo.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close subscription service: %v", errs)
	}

	return nil
}
