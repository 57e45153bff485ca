package entities

import (
	"time"
)

// OpeningHours describes opening times for one weekday.
// Weekday follows time.Weekday numbering (Sunday = 0).
type OpeningHours struct {
	Weekday int    `json:"weekday"`
	Open    string `json:"open"`  // "HH:MM"
	Close   string `json:"close"` // "HH:MM"
}

// Schedule holds the weekly opening hours of a facility
type Schedule struct {
	ID          string         `json:"id" db:"id"`
	FacilityID  string         `json:"facility_id" db:"facility_id"`
	OwnerID     string         `json:"owner_id" db:"owner_id"`
	WeeklyHours []OpeningHours `json:"weekly_hours" db:"-"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}

// OwnedBy returns the owning account ID
func (s *Schedule) OwnedBy() string {
	return s.OwnerID
}

// Holiday marks a date on which a facility is closed
type Holiday struct {
	ID         string    `json:"id" db:"id"`
	FacilityID string    `json:"facility_id" db:"facility_id"`
	OwnerID    string    `json:"owner_id" db:"owner_id"`
	Name       string    `json:"name" db:"name"`
	Date       time.Time `json:"date" db:"date"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// OwnedBy returns the owning account ID
func (h *Holiday) OwnedBy() string {
	return h.OwnerID
}
