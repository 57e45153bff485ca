package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/entities"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/providers"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/repositories"
	apperrors "github.com/zatekoja/fitbookingdesign/backend/pkg/errors"
	"github.com/zatekoja/fitbookingdesign/backend/pkg/listing"
)

// Event bus channels
const (
	EventChannelFacilities    = "events.facilities"
	EventChannelPurchases     = "events.purchases"
	EventChannelSubscriptions = "events.subscriptions"
)

// FacilityService handles business logic for brands and facilities
type FacilityService struct {
	brands     repositories.BrandRepository
	facilities repositories.FacilityRepository
	searchRepo repositories.FacilitySearchRepository
	eventBus   providers.EventBus
}

// NewFacilityService creates a new facility service
func NewFacilityService(
	brands repositories.BrandRepository,
	facilities repositories.FacilityRepository,
	searchRepo repositories.FacilitySearchRepository,
	eventBus providers.EventBus,
) *FacilityService {
	return &FacilityService{
		brands:     brands,
		facilities: facilities,
		searchRepo: searchRepo,
		eventBus:   eventBus,
	}
}

// CreateBrand creates a brand owned by the given account
func (s *FacilityService) CreateBrand(ctx context.Context, ownerID string, brand *entities.Brand) error {
	if strings.TrimSpace(brand.Name) == "" {
		return apperrors.NewValidationError("brand name is required")
	}

	now := time.Now()
	brand.ID = uuid.New().String()
	brand.OwnerID = ownerID
	brand.CreatedAt = now
	brand.UpdatedAt = now

	return s.brands.Create(ctx, brand)
}

// GetBrand retrieves a brand by ID
func (s *FacilityService) GetBrand(ctx context.Context, id string) (*entities.Brand, error) {
	return s.brands.GetByID(ctx, id)
}

// ListBrandsByOwner retrieves the brands of an owner
func (s *FacilityService) ListBrandsByOwner(ctx context.Context, ownerID string) ([]*entities.Brand, error) {
	return s.brands.ListByOwner(ctx, ownerID)
}

// UpdateBrand updates a brand
func (s *FacilityService) UpdateBrand(ctx context.Context, brand *entities.Brand) error {
	if strings.TrimSpace(brand.Name) == "" {
		return apperrors.NewValidationError("brand name is required")
	}
	return s.brands.Update(ctx, brand)
}

// CreateFacility creates a facility under a brand and indexes it. OwnerID is
// denormalized from the brand so ownership checks stay one lookup deep.
func (s *FacilityService) CreateFacility(ctx context.Context, facility *entities.Facility) error {
	if strings.TrimSpace(facility.Name) == "" {
		return apperrors.NewValidationError("facility name is required")
	}

	brand, err := s.brands.GetByID(ctx, facility.BrandID)
	if err != nil {
		return err
	}

	now := time.Now()
	facility.ID = uuid.New().String()
	facility.OwnerID = brand.OwnerID
	facility.IsActive = true
	facility.Rating = 0
	facility.ReviewCount = 0
	facility.CreatedAt = now
	facility.UpdatedAt = now

	if err := s.facilities.Create(ctx, facility); err != nil {
		return err
	}

	s.index(ctx, facility)
	return nil
}

// GetFacility retrieves an active facility by ID
func (s *FacilityService) GetFacility(ctx context.Context, id string) (*entities.Facility, error) {
	return s.facilities.GetByID(ctx, id)
}

// UpdateFacility updates a facility and refreshes the index
func (s *FacilityService) UpdateFacility(ctx context.Context, facility *entities.Facility) error {
	if strings.TrimSpace(facility.Name) == "" {
		return apperrors.NewValidationError("facility name is required")
	}

	if err := s.facilities.Update(ctx, facility); err != nil {
		return err
	}

	s.index(ctx, facility)
	s.publishFacilityEvent(ctx, facility.ID)
	return nil
}

// ArchiveFacility marks a facility inactive and drops it from the index
func (s *FacilityService) ArchiveFacility(ctx context.Context, id string) error {
	if err := s.facilities.Archive(ctx, id); err != nil {
		return err
	}

	if s.searchRepo != nil {
		if err := s.searchRepo.Delete(ctx, id); err != nil {
			log.Warn().Err(err).Str("facility_id", id).Msg("Failed to remove facility from index")
		}
	}

	s.publishFacilityEvent(ctx, id)
	return nil
}

// ListFacilities retrieves active facilities using the listing options
func (s *FacilityService) ListFacilities(ctx context.Context, opts listing.Options) ([]*entities.Facility, error) {
	return s.facilities.List(ctx, opts)
}

// ListFacilitiesByOwner retrieves all facilities of an owner
func (s *FacilityService) ListFacilitiesByOwner(ctx context.Context, ownerID string) ([]*entities.Facility, error) {
	return s.facilities.ListByOwner(ctx, ownerID)
}

// SearchFacilities queries the search index
func (s *FacilityService) SearchFacilities(ctx context.Context, params repositories.FacilitySearchParams) ([]*entities.Facility, int, error) {
	if s.searchRepo == nil {
		return nil, 0, apperrors.NewExternalError("search is not available", nil)
	}
	return s.searchRepo.Search(ctx, params)
}

// RefreshRating recomputes the denormalized rating aggregate from reviews
// and pushes it to the database and the search index
func (s *FacilityService) RefreshRating(ctx context.Context, id string, rating float64, reviewCount int) error {
	if err := s.facilities.UpdateRating(ctx, id, rating, reviewCount); err != nil {
		return err
	}

	facility, err := s.facilities.GetByID(ctx, id)
	if err != nil {
		return err
	}
	s.index(ctx, facility)
	return nil
}

// index updates the search index; failures are logged, not returned, so the
// write path stays available when search is degraded
func (s *FacilityService) index(ctx context.Context, facility *entities.Facility) {
	if s.searchRepo == nil {
		return
	}
	if err := s.searchRepo.Index(ctx, facility); err != nil {
		log.Warn().Err(err).Str("facility_id", facility.ID).Msg("Failed to index facility")
	}
}

func (s *FacilityService) publishFacilityEvent(ctx context.Context, facilityID string) {
	if s.eventBus == nil {
		return
	}
	event := &entities.DomainEvent{
		ID:         uuid.New().String(),
		Type:       entities.EventFacilityUpdated,
		FacilityID: facilityID,
		OccurredAt: time.Now(),
	}
	if err := s.eventBus.Publish(ctx, EventChannelFacilities, event); err != nil {
		log.Warn().Err(err).Str("facility_id", facilityID).Msg("Failed to publish facility event")
	}
}
