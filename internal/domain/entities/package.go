package entities

import (
	"time"
)

// PackageTimeType describes how a package's validity window is counted
type PackageTimeType string

const (
	TimeTypeDayPass  PackageTimeType = "DAY_PASS"
	TimeTypeDuration PackageTimeType = "DURATION"
)

// PackageType is a facility-scoped category of purchasable packages
type PackageType struct {
	ID         string          `json:"id" db:"id"`
	FacilityID string          `json:"facility_id" db:"facility_id"`
	Name       string          `json:"name" db:"name"`
	TimeType   PackageTimeType `json:"time_type" db:"time_type"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at" db:"updated_at"`
}

// Package is a purchasable membership offering tied to a facility.
// Ownership is transitive through the facility.
type Package struct {
	ID            string    `json:"id" db:"id"`
	FacilityID    string    `json:"facility_id" db:"facility_id"`
	PackageTypeID *string   `json:"package_type_id,omitempty" db:"package_type_id"`
	Name          string    `json:"name" db:"name"`
	Description   string    `json:"description" db:"description"`
	Price         float64   `json:"price" db:"price"` // must be >= 0
	DurationDays  int       `json:"duration_days" db:"duration_days"`
	IsActive      bool      `json:"is_active" db:"is_active"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}
