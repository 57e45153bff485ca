package entities

import "time"

// DiscountType describes how a promotion reduces a package price
type DiscountType string

const (
	DiscountFull    DiscountType = "full"
	DiscountAmount  DiscountType = "amount"
	DiscountPercent DiscountType = "percent"
)

// Promotion represents a discount applicable to cart items. A nil FacilityID
// means the promotion applies across all facilities.
type Promotion struct {
	ID           string       `json:"id" db:"id"`
	Code         string       `json:"code" db:"code"`
	FacilityID   *string      `json:"facility_id,omitempty" db:"facility_id"`
	DiscountType DiscountType `json:"discount_type" db:"discount_type"`
	Amount       float64      `json:"amount" db:"amount"`
	MaxUses      *int         `json:"max_uses,omitempty" db:"max_uses"`
	CurrentUses  int          `json:"current_uses" db:"current_uses"`
	ValidFrom    time.Time    `json:"valid_from" db:"valid_from"`
	ValidUntil   *time.Time   `json:"valid_until,omitempty" db:"valid_until"`
	IsActive     bool         `json:"is_active" db:"is_active"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`
}

// IsValid checks if the promotion is currently valid and has remaining uses
func (p *Promotion) IsValid() bool {
	if !p.IsActive {
		return false
	}
	now := time.Now()
	if now.Before(p.ValidFrom) {
		return false
	}
	if p.ValidUntil != nil && now.After(*p.ValidUntil) {
		return false
	}
	if p.MaxUses != nil && p.CurrentUses >= *p.MaxUses {
		return false
	}
	return true
}

// AppliesTo reports whether the promotion can discount packages of the
// given facility
func (p *Promotion) AppliesTo(facilityID string) bool {
	return p.FacilityID == nil || *p.FacilityID == facilityID
}

// Apply calculates the discounted price. The result never goes below zero.
func (p *Promotion) Apply(price float64) float64 {
	if !p.IsValid() {
		return price
	}
	switch p.DiscountType {
	case DiscountFull:
		return 0
	case DiscountAmount:
		reduced := price - p.Amount
		if reduced < 0 {
			return 0
		}
		return reduced
	case DiscountPercent:
		if p.Amount <= 0 {
			return price
		}
		pct := p.Amount
		if pct > 100 {
			pct = 100
		}
		return price * (100 - pct) / 100
	}
	return price
}
