package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/entities"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/repositories"
	apperrors "github.com/zatekoja/fitbookingdesign/backend/pkg/errors"
)

// CartService handles the pre-purchase selection state of an account
type CartService struct {
	carts      repositories.CartRepository
	packages   repositories.PackageRepository
	facilities repositories.FacilityRepository
	promotions repositories.PromotionRepository
}

// NewCartService creates a new cart service
func NewCartService(
	carts repositories.CartRepository,
	packages repositories.PackageRepository,
	facilities repositories.FacilityRepository,
	promotions repositories.PromotionRepository,
) *CartService {
	return &CartService{
		carts:      carts,
		packages:   packages,
		facilities: facilities,
		promotions: promotions,
	}
}

// GetCart retrieves the cart of an account. Accounts that never added an
// item get an empty cart rather than NotFound.
func (s *CartService) GetCart(ctx context.Context, accountID string) (*entities.Cart, error) {
	cart, err := s.carts.GetByAccount(ctx, accountID)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			return &entities.Cart{AccountID: accountID, Items: []entities.CartItem{}}, nil
		}
		return nil, err
	}
	return cart, nil
}

// AddItem adds a package to the account's cart, creating the cart lazily on
// the first add. The item price is computed here from the package base price
// and the optional promotion; clients never supply prices.
func (s *CartService) AddItem(ctx context.Context, accountID, packageID string, promotionCode string) (*entities.CartItem, error) {
	pkg, err := s.packages.GetByID(ctx, packageID)
	if err != nil {
		return nil, err
	}
	if !pkg.IsActive {
		return nil, apperrors.NewValidationError("package is not available")
	}

	facility, err := s.facilities.GetByID(ctx, pkg.FacilityID)
	if err != nil {
		return nil, err
	}

	price := pkg.Price
	var promotionID *string
	if promotionCode != "" {
		promotion, err := s.promotions.GetByCode(ctx, promotionCode)
		if err != nil {
			return nil, err
		}
		if !promotion.IsValid() {
			return nil, apperrors.NewValidationError("promotion is not valid")
		}
		if !promotion.AppliesTo(facility.ID) {
			return nil, apperrors.NewValidationError("promotion does not apply to this facility")
		}
		price = promotion.Apply(price)
		promotionID = &promotion.ID
	}

	if price < 0 {
		return nil, apperrors.NewValidationError("item price must not be negative")
	}

	cart, err := s.ensureCart(ctx, accountID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	item := &entities.CartItem{
		ID:          uuid.New().String(),
		CartID:      cart.ID,
		PackageID:   pkg.ID,
		PromotionID: promotionID,
		Price:       price,
		State:       entities.CartItemInCart,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.carts.AddItem(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// RemoveItem marks a cart item REMOVED. Only the cart's owner can remove
// items; removed and purchased items cannot be removed again.
func (s *CartService) RemoveItem(ctx context.Context, accountID, itemID string) error {
	item, err := s.ownedItem(ctx, accountID, itemID)
	if err != nil {
		return err
	}

	if item.State != entities.CartItemInCart {
		return apperrors.NewConflictError("cart item is no longer in the cart")
	}

	item.State = entities.CartItemRemoved
	return s.carts.UpdateItem(ctx, item)
}

// UpdateItemPromotion applies, replaces or clears the promotion on a cart
// item and recomputes its price from the current package price.
func (s *CartService) UpdateItemPromotion(ctx context.Context, accountID, itemID, promotionCode string) (*entities.CartItem, error) {
	item, err := s.ownedItem(ctx, accountID, itemID)
	if err != nil {
		return nil, err
	}
	if item.State != entities.CartItemInCart {
		return nil, apperrors.NewConflictError("cart item is no longer in the cart")
	}

	pkg, err := s.packages.GetByID(ctx, item.PackageID)
	if err != nil {
		return nil, err
	}

	price := pkg.Price
	item.PromotionID = nil
	if promotionCode != "" {
		promotion, err := s.promotions.GetByCode(ctx, promotionCode)
		if err != nil {
			return nil, err
		}
		if !promotion.IsValid() {
			return nil, apperrors.NewValidationError("promotion is not valid")
		}
		if !promotion.AppliesTo(pkg.FacilityID) {
			return nil, apperrors.NewValidationError("promotion does not apply to this facility")
		}
		price = promotion.Apply(price)
		item.PromotionID = &promotion.ID
	}

	if price < 0 {
		return nil, apperrors.NewValidationError("item price must not be negative")
	}

	item.Price = price
	if err := s.carts.UpdateItem(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// ensureCart returns the account's cart, creating it on first use
func (s *CartService) ensureCart(ctx context.Context, accountID string) (*entities.Cart, error) {
	cart, err := s.carts.GetByAccount(ctx, accountID)
	if err == nil {
		return cart, nil
	}
	if !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		return nil, err
	}

	now := time.Now()
	cart = &entities.Cart{
		ID:        uuid.New().String(),
		AccountID: accountID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.carts.Create(ctx, cart); err != nil {
		// Another request created the cart in between; reread it
		if apperrors.IsType(err, apperrors.ErrorTypeConflict) {
			return s.carts.GetByAccount(ctx, accountID)
		}
		return nil, err
	}
	return cart, nil
}

// ownedItem fetches a cart item and verifies it belongs to the caller's cart
func (s *CartService) ownedItem(ctx context.Context, accountID, itemID string) (*entities.CartItem, error) {
	item, err := s.carts.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	cart, err := s.carts.GetByAccount(ctx, accountID)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			return nil, apperrors.NewForbiddenError("cart item does not belong to the caller")
		}
		return nil, err
	}
	if item.CartID != cart.ID {
		return nil, apperrors.NewForbiddenError("cart item does not belong to the caller")
	}

	return item, nil
}
