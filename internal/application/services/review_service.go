package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/entities"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/repositories"
	apperrors "github.com/zatekoja/fitbookingdesign/backend/pkg/errors"
)

// ReviewService handles facility reviews and keeps the denormalized rating
// aggregate on the facility in step with them.
type ReviewService struct {
	reviews         repositories.ReviewRepository
	facilityService *FacilityService
}

// NewReviewService creates a new review service
func NewReviewService(reviews repositories.ReviewRepository, facilityService *FacilityService) *ReviewService {
	return &ReviewService{
		reviews:         reviews,
		facilityService: facilityService,
	}
}

// Create records a review and refreshes the facility rating
func (s *ReviewService) Create(ctx context.Context, review *entities.Review) error {
	if review.Rating < 1 || review.Rating > 5 {
		return apperrors.NewValidationError("rating must be between 1 and 5")
	}

	if _, err := s.facilityService.GetFacility(ctx, review.FacilityID); err != nil {
		return err
	}

	now := time.Now()
	review.ID = uuid.New().String()
	review.CreatedAt = now
	review.UpdatedAt = now

	if err := s.reviews.Create(ctx, review); err != nil {
		return err
	}

	s.refreshRating(ctx, review.FacilityID)
	return nil
}

// GetByID retrieves a review by ID
func (s *ReviewService) GetByID(ctx context.Context, id string) (*entities.Review, error) {
	return s.reviews.GetByID(ctx, id)
}

// ListByFacility retrieves reviews for a facility
func (s *ReviewService) ListByFacility(ctx context.Context, facilityID string, limit, offset int) ([]*entities.Review, error) {
	return s.reviews.ListByFacility(ctx, facilityID, limit, offset)
}

// ListByUser retrieves reviews written by a user
func (s *ReviewService) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entities.Review, error) {
	return s.reviews.ListByUser(ctx, userID, limit, offset)
}

// Delete removes a review and refreshes the facility rating
func (s *ReviewService) Delete(ctx context.Context, id string) error {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.reviews.Delete(ctx, id); err != nil {
		return err
	}

	s.refreshRating(ctx, review.FacilityID)
	return nil
}

// refreshRating recomputes the facility aggregate; a failed refresh is
// logged and retried on the next review write
func (s *ReviewService) refreshRating(ctx context.Context, facilityID string) {
	rating, count, err := s.reviews.AggregateByFacility(ctx, facilityID)
	if err != nil {
		log.Warn().Err(err).Str("facility_id", facilityID).Msg("Failed to aggregate reviews")
		return
	}
	if err := s.facilityService.RefreshRating(ctx, facilityID, rating, count); err != nil {
		log.Warn().Err(err).Str("facility_id", facilityID).Msg("Failed to refresh facility rating")
	}
}
