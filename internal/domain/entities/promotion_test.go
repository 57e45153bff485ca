package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func activePromotion(dt DiscountType, amount float64) *Promotion {
	return &Promotion{
		ID:           "promo-1",
		Code:         "SAVE",
		DiscountType: dt,
		Amount:       amount,
		ValidFrom:    time.Now().Add(-time.Hour),
		IsActive:     true,
	}
}

func TestPromotion_Apply(t *testing.T) {
	tests := []struct {
		name     string
		promo    *Promotion
		price    float64
		expected float64
	}{
		{"full discount zeroes price", activePromotion(DiscountFull, 0), 150, 0},
		{"amount discount subtracts", activePromotion(DiscountAmount, 40), 150, 110},
		{"amount larger than price clamps to zero", activePromotion(DiscountAmount, 200), 150, 0},
		{"percent discount", activePromotion(DiscountPercent, 25), 200, 150},
		{"percent over hundred clamps to zero", activePromotion(DiscountPercent, 120), 200, 0},
		{"zero percent is a no-op", activePromotion(DiscountPercent, 0), 200, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.promo.Apply(tt.price)
			assert.InDelta(t, tt.expected, got, 0.001)
			assert.GreaterOrEqual(t, got, 0.0)
		})
	}
}

func TestPromotion_ApplyInvalidLeavesPriceUntouched(t *testing.T) {
	promo := activePromotion(DiscountFull, 0)
	promo.IsActive = false
	assert.Equal(t, 150.0, promo.Apply(150))
}

func TestPromotion_IsValid(t *testing.T) {
	uses := 5
	future := time.Now().Add(time.Hour)
	past := time.Now().Add(-time.Hour)

	promo := activePromotion(DiscountAmount, 10)
	assert.True(t, promo.IsValid())

	notStarted := activePromotion(DiscountAmount, 10)
	notStarted.ValidFrom = future
	assert.False(t, notStarted.IsValid())

	expired := activePromotion(DiscountAmount, 10)
	expired.ValidUntil = &past
	assert.False(t, expired.IsValid())

	exhausted := activePromotion(DiscountAmount, 10)
	exhausted.MaxUses = &uses
	exhausted.CurrentUses = 5
	assert.False(t, exhausted.IsValid())
}

func TestPromotion_AppliesTo(t *testing.T) {
	global := activePromotion(DiscountAmount, 10)
	assert.True(t, global.AppliesTo("facility-1"))

	scoped := activePromotion(DiscountAmount, 10)
	facilityID := "facility-1"
	scoped.FacilityID = &facilityID
	assert.True(t, scoped.AppliesTo("facility-1"))
	assert.False(t, scoped.AppliesTo("facility-2"))
}
