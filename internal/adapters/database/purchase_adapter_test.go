package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/entities"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/repositories"
	apperrors "github.com/zatekoja/fitbookingdesign/backend/pkg/errors"
)

func purchaseFixture() purchaseLine {
	return purchaseLine{
		Item: &entities.CartItem{
			ID:        "item-1",
			CartID:    "cart-1",
			PackageID: "pkg-1",
			Price:     50,
			State:     entities.CartItemInCart,
		},
		Package: &entities.Package{
			ID:           "pkg-1",
			FacilityID:   "facility-1",
			Name:         "Monthly Pass",
			Price:        50,
			DurationDays: 30,
			IsActive:     true,
		},
		Facility: &entities.Facility{
			ID:       "facility-1",
			BrandID:  "brand-1",
			OwnerID:  "owner-1",
			Name:     "Downtown Gym",
			IsActive: true,
		},
		Brand: &entities.Brand{
			ID:      "brand-1",
			OwnerID: "owner-1",
			Name:    "FitCo",
		},
	}
}

func TestBuildPurchase_SingleItem(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	req := repositories.PurchaseRequest{
		AccountID:     "account-1",
		CartItemIDs:   []string{"item-1"},
		AssertedTotal: 50,
		Now:           now,
	}

	bill, subscriptions, err := buildPurchase(req, []purchaseLine{purchaseFixture()})

	assert.NoError(t, err)
	assert.Equal(t, "account-1", bill.AccountID)
	assert.Equal(t, 50.0, bill.TotalPrice)
	assert.Len(t, bill.Items, 1)

	item := bill.Items[0]
	assert.Equal(t, "item-1", item.CartItemID)
	assert.Equal(t, "FitCo", item.BrandName)
	assert.Equal(t, "Downtown Gym", item.FacilityName)
	assert.Equal(t, "Monthly Pass", item.PackageName)
	assert.Equal(t, 50.0, item.PackagePrice)
	assert.Equal(t, 50.0, item.FinalPrice)
	assert.Equal(t, 30, item.DurationDays)
	assert.Nil(t, item.PromotionCode)

	assert.Len(t, subscriptions, 1)
	sub := subscriptions[0]
	assert.Equal(t, "account-1", sub.AccountID)
	assert.Equal(t, item.ID, sub.BillItemID)
	assert.Equal(t, "facility-1", sub.FacilityID)
	assert.Equal(t, entities.SubscriptionActive, sub.Status)
	assert.Equal(t, now.AddDate(0, 0, 30), sub.ExpiresAt)
	assert.False(t, sub.Renew)
}

func TestBuildPurchase_PromotionApplied(t *testing.T) {
	line := purchaseFixture()
	promotionID := "promo-1"
	line.Item.PromotionID = &promotionID
	line.Promotion = &entities.Promotion{
		ID:           promotionID,
		Code:         "SUMMER20",
		DiscountType: entities.DiscountPercent,
		Amount:       20,
		ValidFrom:    time.Now().Add(-time.Hour),
		IsActive:     true,
	}

	req := repositories.PurchaseRequest{
		AccountID:     "account-1",
		CartItemIDs:   []string{"item-1"},
		AssertedTotal: 40,
	}

	bill, _, err := buildPurchase(req, []purchaseLine{line})

	assert.NoError(t, err)
	assert.Equal(t, 40.0, bill.TotalPrice)
	assert.Equal(t, 50.0, bill.Items[0].PackagePrice)
	assert.Equal(t, 40.0, bill.Items[0].FinalPrice)
	if assert.NotNil(t, bill.Items[0].PromotionCode) {
		assert.Equal(t, "SUMMER20", *bill.Items[0].PromotionCode)
	}
}

func TestBuildPurchase_TotalMismatchRejected(t *testing.T) {
	req := repositories.PurchaseRequest{
		AccountID:     "account-1",
		CartItemIDs:   []string{"item-1"},
		AssertedTotal: 45,
	}

	bill, subscriptions, err := buildPurchase(req, []purchaseLine{purchaseFixture()})

	assert.Nil(t, bill)
	assert.Nil(t, subscriptions)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestBuildPurchase_TotalToleratesRounding(t *testing.T) {
	req := repositories.PurchaseRequest{
		AccountID:     "account-1",
		CartItemIDs:   []string{"item-1"},
		AssertedTotal: 50.001,
	}

	_, _, err := buildPurchase(req, []purchaseLine{purchaseFixture()})

	assert.NoError(t, err)
}

func TestBuildPurchase_InactivePackageConflicts(t *testing.T) {
	line := purchaseFixture()
	line.Package.IsActive = false

	req := repositories.PurchaseRequest{
		AccountID:     "account-1",
		CartItemIDs:   []string{"item-1"},
		AssertedTotal: 50,
	}

	_, _, err := buildPurchase(req, []purchaseLine{line})

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
}

func TestBuildPurchase_InactiveFacilityConflicts(t *testing.T) {
	line := purchaseFixture()
	line.Facility.IsActive = false

	req := repositories.PurchaseRequest{
		AccountID:     "account-1",
		CartItemIDs:   []string{"item-1"},
		AssertedTotal: 50,
	}

	_, _, err := buildPurchase(req, []purchaseLine{line})

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
}

func TestBuildPurchase_ExpiredPromotionConflicts(t *testing.T) {
	line := purchaseFixture()
	promotionID := "promo-1"
	until := time.Now().Add(-time.Hour)
	line.Item.PromotionID = &promotionID
	line.Promotion = &entities.Promotion{
		ID:           promotionID,
		Code:         "EXPIRED",
		DiscountType: entities.DiscountAmount,
		Amount:       10,
		ValidFrom:    time.Now().Add(-48 * time.Hour),
		ValidUntil:   &until,
		IsActive:     true,
	}

	req := repositories.PurchaseRequest{
		AccountID:     "account-1",
		CartItemIDs:   []string{"item-1"},
		AssertedTotal: 40,
	}

	_, _, err := buildPurchase(req, []purchaseLine{line})

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
}

func TestBuildPurchase_ForeignFacilityPromotionConflicts(t *testing.T) {
	line := purchaseFixture()
	promotionID := "promo-1"
	otherFacility := "facility-2"
	line.Item.PromotionID = &promotionID
	line.Promotion = &entities.Promotion{
		ID:           promotionID,
		Code:         "LOCAL",
		FacilityID:   &otherFacility,
		DiscountType: entities.DiscountFull,
		ValidFrom:    time.Now().Add(-time.Hour),
		IsActive:     true,
	}

	req := repositories.PurchaseRequest{
		AccountID:     "account-1",
		CartItemIDs:   []string{"item-1"},
		AssertedTotal: 0,
	}

	_, _, err := buildPurchase(req, []purchaseLine{line})

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
}

func TestBuildPurchase_MultipleItemsOneBill(t *testing.T) {
	first := purchaseFixture()

	second := purchaseFixture()
	second.Item = &entities.CartItem{
		ID:        "item-2",
		CartID:    "cart-1",
		PackageID: "pkg-2",
		Price:     25,
		State:     entities.CartItemInCart,
	}
	second.Package = &entities.Package{
		ID:           "pkg-2",
		FacilityID:   "facility-1",
		Name:         "Day Pass",
		Price:        25,
		DurationDays: 1,
		IsActive:     true,
	}

	req := repositories.PurchaseRequest{
		AccountID:     "account-1",
		CartItemIDs:   []string{"item-1", "item-2"},
		AssertedTotal: 75,
	}

	bill, subscriptions, err := buildPurchase(req, []purchaseLine{first, second})

	assert.NoError(t, err)
	assert.Equal(t, 75.0, bill.TotalPrice)
	assert.Len(t, bill.Items, 2)
	assert.Len(t, subscriptions, 2)
	for i, item := range bill.Items {
		assert.Equal(t, bill.ID, item.BillID)
		assert.Equal(t, item.ID, subscriptions[i].BillItemID)
	}
}
