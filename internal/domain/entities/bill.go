package entities

import "time"

// Bill is the immutable record of one purchase. Snapshot fields on its
// items are denormalized at purchase time and never change afterwards,
// even if the source package or facility is later edited or deleted.
type Bill struct {
	ID         string     `json:"id" db:"id"`
	AccountID  string     `json:"account_id" db:"account_id"`
	TotalPrice float64    `json:"total_price" db:"total_price"` // must be >= 0
	Items      []BillItem `json:"items" db:"-"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

// BillItem snapshots one purchased cart item
type BillItem struct {
	ID            string    `json:"id" db:"id"`
	BillID        string    `json:"bill_id" db:"bill_id"`
	CartItemID    string    `json:"cart_item_id" db:"cart_item_id"`
	FacilityID    string    `json:"facility_id" db:"facility_id"`
	PackageID     string    `json:"package_id" db:"package_id"`
	BrandName     string    `json:"brand_name" db:"brand_name"`
	FacilityName  string    `json:"facility_name" db:"facility_name"`
	PackageName   string    `json:"package_name" db:"package_name"`
	PackagePrice  float64   `json:"package_price" db:"package_price"`
	PromotionCode *string   `json:"promotion_code,omitempty" db:"promotion_code"`
	FinalPrice    float64   `json:"final_price" db:"final_price"`
	DurationDays  int       `json:"duration_days" db:"duration_days"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
