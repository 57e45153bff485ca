package entities

import "time"

// SubscriptionStatus is the state of an entitlement
type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "ACTIVE"
	SubscriptionInactive SubscriptionStatus = "INACTIVE"
)

// Subscription grants an account access to a facility for a time window.
// It is created by the purchase workflow from a bill item and transitions
// ACTIVE -> INACTIVE on expiry, or back to ACTIVE on renewal.
type Subscription struct {
	ID         string             `json:"id" db:"id"`
	AccountID  string             `json:"account_id" db:"account_id"`
	BillItemID string             `json:"bill_item_id" db:"bill_item_id"`
	PackageID  string             `json:"package_id" db:"package_id"`
	FacilityID string             `json:"facility_id" db:"facility_id"`
	ExpiresAt  time.Time          `json:"expires_at" db:"expires_at"`
	Status     SubscriptionStatus `json:"status" db:"status"`
	Renew      bool               `json:"renew" db:"renew"`
	CreatedAt  time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at" db:"updated_at"`
}

// Expired reports whether the subscription has passed its expiry date
func (s *Subscription) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
