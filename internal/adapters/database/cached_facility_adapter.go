package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/entities"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/providers"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/repositories"
	"github.com/zatekoja/fitbookingdesign/backend/internal/infrastructure/observability"
	"github.com/zatekoja/fitbookingdesign/backend/pkg/listing"
)

// CachedFacilityAdapter wraps a FacilityRepository with caching
type CachedFacilityAdapter struct {
	adapter repositories.FacilityRepository
	cache   providers.CacheProvider
	metrics *observability.Metrics
}

// NewCachedFacilityAdapter creates a new cached facility adapter. Metrics
// may be nil when observability is not configured.
func NewCachedFacilityAdapter(adapter repositories.FacilityRepository, cache providers.CacheProvider, metrics *observability.Metrics) repositories.FacilityRepository {
	return &CachedFacilityAdapter{
		adapter: adapter,
		cache:   cache,
		metrics: metrics,
	}
}

// Cache TTLs (in seconds)
const (
	facilityByIDTTL   = 300 // 5 minutes for single facility
	facilitiesListTTL = 180 // 3 minutes for lists
)

func facilityCacheKey(id string) string {
	return fmt.Sprintf("facility:%s", id)
}

func facilitiesListCacheKey(opts listing.Options) string {
	return fmt.Sprintf("facilities:list:%s:%s:%s:%s:%d:%d",
		opts.SearchField, opts.SearchValue, opts.SortField, opts.SortOrder, opts.Limit, opts.Offset)
}

func (a *CachedFacilityAdapter) recordHit(ctx context.Context, key string) {
	if a.metrics != nil {
		observability.RecordCacheHit(ctx, a.metrics, key)
	}
}

func (a *CachedFacilityAdapter) recordMiss(ctx context.Context, key string) {
	if a.metrics != nil {
		observability.RecordCacheMiss(ctx, a.metrics, key)
	}
}

// Create delegates to the underlying adapter and invalidates list caches
func (a *CachedFacilityAdapter) Create(ctx context.Context, facility *entities.Facility) error {
	if err := a.adapter.Create(ctx, facility); err != nil {
		return err
	}
	a.invalidateLists()
	return nil
}

// GetByID retrieves a facility by ID with caching
func (a *CachedFacilityAdapter) GetByID(ctx context.Context, id string) (*entities.Facility, error) {
	cacheKey := facilityCacheKey(id)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var facility entities.Facility
		if err := json.Unmarshal(cached, &facility); err == nil {
			a.recordHit(ctx, cacheKey)
			return &facility, nil
		}
		log.Warn().Err(err).Str("facility_id", id).Msg("Failed to unmarshal cached facility")
	}
	a.recordMiss(ctx, cacheKey)

	facility, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Update cache asynchronously to avoid blocking the response
	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(facility); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, facilityByIDTTL); err != nil {
				log.Warn().Err(err).Str("facility_id", id).Msg("Failed to cache facility")
			}
		}
	}()

	return facility, nil
}

// Update delegates to the underlying adapter and invalidates caches
func (a *CachedFacilityAdapter) Update(ctx context.Context, facility *entities.Facility) error {
	if err := a.adapter.Update(ctx, facility); err != nil {
		return err
	}
	a.invalidateFacility(facility.ID)
	return nil
}

// Archive delegates to the underlying adapter and invalidates caches
func (a *CachedFacilityAdapter) Archive(ctx context.Context, id string) error {
	if err := a.adapter.Archive(ctx, id); err != nil {
		return err
	}
	a.invalidateFacility(id)
	return nil
}

// List retrieves facilities with caching keyed on the listing options
func (a *CachedFacilityAdapter) List(ctx context.Context, opts listing.Options) ([]*entities.Facility, error) {
	cacheKey := facilitiesListCacheKey(opts)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var facilities []*entities.Facility
		if err := json.Unmarshal(cached, &facilities); err == nil {
			a.recordHit(ctx, cacheKey)
			return facilities, nil
		}
	}
	a.recordMiss(ctx, cacheKey)

	facilities, err := a.adapter.List(ctx, opts)
	if err != nil {
		return nil, err
	}

	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(facilities); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, facilitiesListTTL); err != nil {
				log.Warn().Err(err).Msg("Failed to cache facility list")
			}
		}
	}()

	return facilities, nil
}

// ListByOwner always reads through; owner dashboards need fresh data
func (a *CachedFacilityAdapter) ListByOwner(ctx context.Context, ownerID string) ([]*entities.Facility, error) {
	return a.adapter.ListByOwner(ctx, ownerID)
}

// UpdateRating delegates to the underlying adapter and invalidates caches
func (a *CachedFacilityAdapter) UpdateRating(ctx context.Context, id string, rating float64, reviewCount int) error {
	if err := a.adapter.UpdateRating(ctx, id, rating, reviewCount); err != nil {
		return err
	}
	a.invalidateFacility(id)
	return nil
}

func (a *CachedFacilityAdapter) invalidateFacility(id string) {
	go func() {
		bgCtx := context.Background()
		if err := a.cache.Delete(bgCtx, facilityCacheKey(id)); err != nil {
			log.Warn().Err(err).Str("facility_id", id).Msg("Failed to invalidate facility cache")
		}
		if err := a.cache.DeletePattern(bgCtx, "facilities:list:*"); err != nil {
			log.Warn().Err(err).Msg("Failed to invalidate facility list caches")
		}
	}()
}

func (a *CachedFacilityAdapter) invalidateLists() {
	go func() {
		bgCtx := context.Background()
		if err := a.cache.DeletePattern(bgCtx, "facilities:list:*"); err != nil {
			log.Warn().Err(err).Msg("Failed to invalidate facility list caches")
		}
	}()
}
