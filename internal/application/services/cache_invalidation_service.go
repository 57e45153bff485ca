package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/entities"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/providers"
)

// CacheInvalidationService drops stale cache entries when facility events
// arrive on the bus, so instances other than the one that handled the write
// converge quickly.
type CacheInvalidationService struct {
	cache    providers.CacheProvider
	eventBus providers.EventBus
	cancel   context.CancelFunc
}

// NewCacheInvalidationService creates a new cache invalidation service
func NewCacheInvalidationService(cache providers.CacheProvider, eventBus providers.EventBus) *CacheInvalidationService {
	return &CacheInvalidationService{
		cache:    cache,
		eventBus: eventBus,
	}
}

// Start begins listening for facility events
func (s *CacheInvalidationService) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	events, err := s.eventBus.Subscribe(ctx, EventChannelFacilities)
	if err != nil {
		cancel()
		return fmt.Errorf("failed to subscribe to facility events: %w", err)
	}

	go s.processEvents(ctx, events)
	log.Info().Msg("Cache invalidation service started")
	return nil
}

// Stop stops the cache invalidation service
func (s *CacheInvalidationService) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *CacheInvalidationService) processEvents(ctx context.Context, events <-chan *entities.DomainEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if event.Type != entities.EventFacilityUpdated || event.FacilityID == "" {
				continue
			}
			s.invalidateFacility(ctx, event.FacilityID)
		}
	}
}

func (s *CacheInvalidationService) invalidateFacility(ctx context.Context, facilityID string) {
	if err := s.cache.Delete(ctx, fmt.Sprintf("facility:%s", facilityID)); err != nil {
		log.Warn().Err(err).Str("facility_id", facilityID).Msg("Failed to invalidate facility cache")
	}
	if err := s.cache.DeletePattern(ctx, "facilities:list:*"); err != nil {
		log.Warn().Err(err).Str("facility_id", facilityID).Msg("Failed to invalidate facility list caches")
	}
	// HTTP-layer response cache for this facility
	if err := s.cache.DeletePattern(ctx, fmt.Sprintf("http:cache:*facilities/%s*", facilityID)); err != nil {
		log.Warn().Err(err).Str("facility_id", facilityID).Msg("Failed to invalidate facility response cache")
	}
	log.Debug().Str("facility_id", facilityID).Msg("Invalidated facility caches")
}
