package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/entities"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/repositories"
	apperrors "github.com/zatekoja/fitbookingdesign/backend/pkg/errors"
	"github.com/zatekoja/fitbookingdesign/backend/pkg/listing"
)

// PromotionService handles business logic for promotions
type PromotionService struct {
	promotions repositories.PromotionRepository
	facilities repositories.FacilityRepository
}

// NewPromotionService creates a new promotion service
func NewPromotionService(promotions repositories.PromotionRepository, facilities repositories.FacilityRepository) *PromotionService {
	return &PromotionService{
		promotions: promotions,
		facilities: facilities,
	}
}

// Create creates a promotion. Codes are stored uppercase so lookups are
// case-insensitive for clients.
func (s *PromotionService) Create(ctx context.Context, promotion *entities.Promotion) error {
	if err := validatePromotion(promotion); err != nil {
		return err
	}

	if promotion.FacilityID != nil {
		if _, err := s.facilities.GetByID(ctx, *promotion.FacilityID); err != nil {
			return err
		}
	}

	now := time.Now()
	promotion.ID = uuid.New().String()
	promotion.Code = strings.ToUpper(strings.TrimSpace(promotion.Code))
	promotion.CurrentUses = 0
	promotion.IsActive = true
	if promotion.ValidFrom.IsZero() {
		promotion.ValidFrom = now
	}
	promotion.CreatedAt = now
	promotion.UpdatedAt = now

	return s.promotions.Create(ctx, promotion)
}

// GetByID retrieves a promotion by ID
func (s *PromotionService) GetByID(ctx context.Context, id string) (*entities.Promotion, error) {
	return s.promotions.GetByID(ctx, id)
}

// GetByCode retrieves a promotion by code
func (s *PromotionService) GetByCode(ctx context.Context, code string) (*entities.Promotion, error) {
	return s.promotions.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
}

// List retrieves promotions using the listing options
func (s *PromotionService) List(ctx context.Context, opts listing.Options) ([]*entities.Promotion, error) {
	return s.promotions.List(ctx, opts)
}

// Update updates a promotion
func (s *PromotionService) Update(ctx context.Context, promotion *entities.Promotion) error {
	if err := validatePromotion(promotion); err != nil {
		return err
	}
	promotion.Code = strings.ToUpper(strings.TrimSpace(promotion.Code))
	return s.promotions.Update(ctx, promotion)
}

// Delete deactivates a promotion
func (s *PromotionService) Delete(ctx context.Context, id string) error {
	return s.promotions.Delete(ctx, id)
}

func validatePromotion(promotion *entities.Promotion) error {
	if strings.TrimSpace(promotion.Code) == "" {
		return apperrors.NewValidationError("promotion code is required")
	}

	switch promotion.DiscountType {
	case entities.DiscountFull:
	case entities.DiscountAmount, entities.DiscountPercent:
		if promotion.Amount <= 0 {
			return apperrors.NewValidationError("discount amount must be positive")
		}
	default:
		return apperrors.NewValidationError("discount type must be full, amount or percent")
	}

	if promotion.MaxUses != nil && *promotion.MaxUses <= 0 {
		return apperrors.NewValidationError("max uses must be positive when set")
	}
	if promotion.ValidUntil != nil && !promotion.ValidFrom.IsZero() && promotion.ValidUntil.Before(promotion.ValidFrom) {
		return apperrors.NewValidationError("valid until must be after valid from")
	}

	return nil
}
