package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/zatekoja/fitbookingdesign/backend/internal/application/services"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/entities"
	apperrors "github.com/zatekoja/fitbookingdesign/backend/pkg/errors"
)

func activePackage() *entities.Package {
	return &entities.Package{
		ID:           "pkg-1",
		FacilityID:   "facility-1",
		Name:         "Monthly Pass",
		Price:        50,
		DurationDays: 30,
		IsActive:     true,
	}
}

func activeFacility() *entities.Facility {
	return &entities.Facility{
		ID:       "facility-1",
		BrandID:  "brand-1",
		OwnerID:  "owner-1",
		Name:     "Downtown Gym",
		IsActive: true,
	}
}

func TestCartService_AddItem_CreatesCartLazily(t *testing.T) {
	carts := &MockCartRepo{}
	packages := &MockPackageRepo{}
	facilities := &MockFacilityRepo{}

	packages.On("GetByID", mock.Anything, "pkg-1").Return(activePackage(), nil)
	facilities.On("GetByID", mock.Anything, "facility-1").Return(activeFacility(), nil)
	carts.On("GetByAccount", mock.Anything, "account-1").
		Return(nil, apperrors.NewNotFoundError("account account-1 has no cart"))
	carts.On("Create", mock.Anything, mock.AnythingOfType("*entities.Cart")).Return(nil)
	carts.On("AddItem", mock.Anything, mock.AnythingOfType("*entities.CartItem")).Return(nil)

	service := services.NewCartService(carts, packages, facilities, &MockPromotionRepo{})

	item, err := service.AddItem(context.Background(), "account-1", "pkg-1", "")

	assert.NoError(t, err)
	assert.Equal(t, 50.0, item.Price)
	assert.Equal(t, entities.CartItemInCart, item.State)
	assert.Nil(t, item.PromotionID)
	carts.AssertCalled(t, "Create", mock.Anything, mock.AnythingOfType("*entities.Cart"))
}

func TestCartService_AddItem_AppliesPromotion(t *testing.T) {
	carts := &MockCartRepo{}
	packages := &MockPackageRepo{}
	facilities := &MockFacilityRepo{}
	promotions := &MockPromotionRepo{}

	packages.On("GetByID", mock.Anything, "pkg-1").Return(activePackage(), nil)
	facilities.On("GetByID", mock.Anything, "facility-1").Return(activeFacility(), nil)
	promotions.On("GetByCode", mock.Anything, "HALFOFF").Return(&entities.Promotion{
		ID:           "promo-1",
		Code:         "HALFOFF",
		DiscountType: entities.DiscountPercent,
		Amount:       50,
		ValidFrom:    time.Now().Add(-time.Hour),
		IsActive:     true,
	}, nil)
	carts.On("GetByAccount", mock.Anything, "account-1").Return(&entities.Cart{ID: "cart-1", AccountID: "account-1"}, nil)
	carts.On("AddItem", mock.Anything, mock.AnythingOfType("*entities.CartItem")).Return(nil)

	service := services.NewCartService(carts, packages, facilities, promotions)

	item, err := service.AddItem(context.Background(), "account-1", "pkg-1", "HALFOFF")

	assert.NoError(t, err)
	assert.Equal(t, 25.0, item.Price)
	if assert.NotNil(t, item.PromotionID) {
		assert.Equal(t, "promo-1", *item.PromotionID)
	}
}

func TestCartService_AddItem_InactivePackage(t *testing.T) {
	packages := &MockPackageRepo{}
	pkg := activePackage()
	pkg.IsActive = false
	packages.On("GetByID", mock.Anything, "pkg-1").Return(pkg, nil)

	service := services.NewCartService(&MockCartRepo{}, packages, &MockFacilityRepo{}, &MockPromotionRepo{})

	_, err := service.AddItem(context.Background(), "account-1", "pkg-1", "")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestCartService_AddItem_InvalidPromotion(t *testing.T) {
	packages := &MockPackageRepo{}
	facilities := &MockFacilityRepo{}
	promotions := &MockPromotionRepo{}

	packages.On("GetByID", mock.Anything, "pkg-1").Return(activePackage(), nil)
	facilities.On("GetByID", mock.Anything, "facility-1").Return(activeFacility(), nil)
	promotions.On("GetByCode", mock.Anything, "STALE").Return(&entities.Promotion{
		ID:           "promo-1",
		Code:         "STALE",
		DiscountType: entities.DiscountAmount,
		Amount:       10,
		ValidFrom:    time.Now().Add(-time.Hour),
		IsActive:     false,
	}, nil)

	service := services.NewCartService(&MockCartRepo{}, packages, facilities, promotions)

	_, err := service.AddItem(context.Background(), "account-1", "pkg-1", "STALE")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestCartService_RemoveItem_ForeignCartForbidden(t *testing.T) {
	carts := &MockCartRepo{}
	carts.On("GetItem", mock.Anything, "item-1").Return(&entities.CartItem{
		ID:     "item-1",
		CartID: "cart-other",
		State:  entities.CartItemInCart,
	}, nil)
	carts.On("GetByAccount", mock.Anything, "account-1").Return(&entities.Cart{ID: "cart-1", AccountID: "account-1"}, nil)

	service := services.NewCartService(carts, &MockPackageRepo{}, &MockFacilityRepo{}, &MockPromotionRepo{})

	err := service.RemoveItem(context.Background(), "account-1", "item-1")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeForbidden))
}

func TestCartService_RemoveItem_MarksRemoved(t *testing.T) {
	carts := &MockCartRepo{}
	carts.On("GetItem", mock.Anything, "item-1").Return(&entities.CartItem{
		ID:     "item-1",
		CartID: "cart-1",
		State:  entities.CartItemInCart,
	}, nil)
	carts.On("GetByAccount", mock.Anything, "account-1").Return(&entities.Cart{ID: "cart-1", AccountID: "account-1"}, nil)
	carts.On("UpdateItem", mock.Anything, mock.MatchedBy(func(item *entities.CartItem) bool {
		return item.State == entities.CartItemRemoved
	})).Return(nil)

	service := services.NewCartService(carts, &MockPackageRepo{}, &MockFacilityRepo{}, &MockPromotionRepo{})

	assert.NoError(t, service.RemoveItem(context.Background(), "account-1", "item-1"))
	carts.AssertExpectations(t)
}

func TestCartService_RemoveItem_AlreadyPurchasedConflicts(t *testing.T) {
	carts := &MockCartRepo{}
	carts.On("GetItem", mock.Anything, "item-1").Return(&entities.CartItem{
		ID:     "item-1",
		CartID: "cart-1",
		State:  entities.CartItemPurchased,
	}, nil)
	carts.On("GetByAccount", mock.Anything, "account-1").Return(&entities.Cart{ID: "cart-1", AccountID: "account-1"}, nil)

	service := services.NewCartService(carts, &MockPackageRepo{}, &MockFacilityRepo{}, &MockPromotionRepo{})

	err := service.RemoveItem(context.Background(), "account-1", "item-1")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
}

func TestCartService_UpdateItemPromotion_ClearsPromotion(t *testing.T) {
	carts := &MockCartRepo{}
	packages := &MockPackageRepo{}
	promotionID := "promo-1"

	carts.On("GetItem", mock.Anything, "item-1").Return(&entities.CartItem{
		ID:          "item-1",
		CartID:      "cart-1",
		PackageID:   "pkg-1",
		PromotionID: &promotionID,
		Price:       25,
		State:       entities.CartItemInCart,
	}, nil)
	carts.On("GetByAccount", mock.Anything, "account-1").Return(&entities.Cart{ID: "cart-1", AccountID: "account-1"}, nil)
	packages.On("GetByID", mock.Anything, "pkg-1").Return(activePackage(), nil)
	carts.On("UpdateItem", mock.Anything, mock.AnythingOfType("*entities.CartItem")).Return(nil)

	service := services.NewCartService(carts, packages, &MockFacilityRepo{}, &MockPromotionRepo{})

	item, err := service.UpdateItemPromotion(context.Background(), "account-1", "item-1", "")

	assert.NoError(t, err)
	assert.Nil(t, item.PromotionID)
	assert.Equal(t, 50.0, item.Price)
}

func TestCartService_GetCart_EmptyForNewAccount(t *testing.T) {
	carts := &MockCartRepo{}
	carts.On("GetByAccount", mock.Anything, "account-1").
		Return(nil, apperrors.NewNotFoundError("account account-1 has no cart"))

	service := services.NewCartService(carts, &MockPackageRepo{}, &MockFacilityRepo{}, &MockPromotionRepo{})

	cart, err := service.GetCart(context.Background(), "account-1")

	assert.NoError(t, err)
	assert.Equal(t, "account-1", cart.AccountID)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.TotalPrice())
}
