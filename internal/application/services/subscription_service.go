package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/entities"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/providers"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/repositories"
	apperrors "github.com/zatekoja/fitbookingdesign/backend/pkg/errors"
)

// SubscriptionService handles entitlement reads, renewal and expiry
type SubscriptionService struct {
	subscriptions repositories.SubscriptionRepository
	packages      repositories.PackageRepository
	eventBus      providers.EventBus

	interval time.Duration
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewSubscriptionService creates a new subscription service. EventBus may
// be nil; interval controls the expiry sweep.
func NewSubscriptionService(
	subscriptions repositories.SubscriptionRepository,
	packages repositories.PackageRepository,
	eventBus providers.EventBus,
	interval time.Duration,
) *SubscriptionService {
	return &SubscriptionService{
		subscriptions: subscriptions,
		packages:      packages,
		eventBus:      eventBus,
		interval:      interval,
	}
}

// GetByID retrieves a subscription, restricted to its owner
func (s *SubscriptionService) GetByID(ctx context.Context, accountID, id string) (*entities.Subscription, error) {
	subscription, err := s.subscriptions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if subscription.AccountID != accountID {
		return nil, apperrors.NewForbiddenError("subscription does not belong to the caller")
	}
	return subscription, nil
}

// ListByAccount retrieves the subscriptions of an account
func (s *SubscriptionService) ListByAccount(ctx context.Context, accountID string) ([]*entities.Subscription, error) {
	return s.subscriptions.ListByAccount(ctx, accountID)
}

// ListByFacility retrieves the subscriptions held against a facility
func (s *SubscriptionService) ListByFacility(ctx context.Context, facilityID string) ([]*entities.Subscription, error) {
	return s.subscriptions.ListByFacility(ctx, facilityID)
}

// Renew extends a subscription by its package duration and reactivates it.
// An expired subscription renews from now; an active one extends from its
// current expiry.
func (s *SubscriptionService) Renew(ctx context.Context, accountID, id string) (*entities.Subscription, error) {
	subscription, err := s.GetByID(ctx, accountID, id)
	if err != nil {
		return nil, err
	}

	pkg, err := s.packages.GetByID(ctx, subscription.PackageID)
	if err != nil {
		return nil, err
	}
	if !pkg.IsActive {
		return nil, apperrors.NewConflictError("package is no longer available")
	}

	now := time.Now()
	from := subscription.ExpiresAt
	if subscription.Expired(now) {
		from = now
	}

	subscription.ExpiresAt = from.AddDate(0, 0, pkg.DurationDays)
	subscription.Status = entities.SubscriptionActive

	if err := s.subscriptions.Update(ctx, subscription); err != nil {
		return nil, err
	}

	s.publishSubscriptionEvent(ctx, subscription, entities.EventSubscriptionActive)
	return subscription, nil
}

// SetRenew flips the auto-renew flag on a subscription
func (s *SubscriptionService) SetRenew(ctx context.Context, accountID, id string, renew bool) (*entities.Subscription, error) {
	subscription, err := s.GetByID(ctx, accountID, id)
	if err != nil {
		return nil, err
	}

	subscription.Renew = renew
	if err := s.subscriptions.Update(ctx, subscription); err != nil {
		return nil, err
	}
	return subscription, nil
}

// Start launches the background expiry sweep
func (s *SubscriptionService) Start() {
	if s.interval <= 0 {
		log.Info().Msg("Subscription expiry sweep disabled")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		log.Info().Dur("interval", s.interval).Msg("Subscription expiry sweep started")
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.ExpireDue(ctx)
			}
		}
	}()
}

// Stop halts the expiry sweep and waits for the current pass to finish
func (s *SubscriptionService) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// ExpireDue marks past-expiry ACTIVE subscriptions INACTIVE and publishes
// an expiry event per affected row. Returns the number expired.
func (s *SubscriptionService) ExpireDue(ctx context.Context) int {
	expired, err := s.subscriptions.ExpireDue(ctx, time.Now())
	if err != nil {
		log.Error().Err(err).Msg("Subscription expiry sweep failed")
		return 0
	}

	for _, subscription := range expired {
		s.publishSubscriptionEvent(ctx, subscription, entities.EventSubscriptionExpired)
	}

	if len(expired) > 0 {
		log.Info().Int("count", len(expired)).Msg("Expired subscriptions")
	}
	return len(expired)
}

func (s *SubscriptionService) publishSubscriptionEvent(ctx context.Context, subscription *entities.Subscription, eventType string) {
	if s.eventBus == nil {
		return
	}
	event := &entities.DomainEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		AccountID:  subscription.AccountID,
		FacilityID: subscription.FacilityID,
		OccurredAt: time.Now(),
	}
	if err := s.eventBus.Publish(ctx, EventChannelSubscriptions, event); err != nil {
		log.Warn().Err(err).Str("subscription_id", subscription.ID).Msg("Failed to publish subscription event")
	}
}
