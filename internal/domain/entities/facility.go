package entities

import (
	"time"
)

// Brand groups the facilities run by one operator account
type Brand struct {
	ID          string    `json:"id" db:"id"`
	OwnerID     string    `json:"owner_id" db:"owner_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// OwnedBy returns the owning account ID
func (b *Brand) OwnedBy() string {
	return b.OwnerID
}

// Facility represents a fitness venue listed by a brand. OwnerID is
// denormalized from the brand so ownership checks resolve in one lookup.
type Facility struct {
	ID          string    `json:"id" db:"id"`
	BrandID     string    `json:"brand_id" db:"brand_id"`
	OwnerID     string    `json:"owner_id" db:"owner_id"`
	Name        string    `json:"name" db:"name"`
	Address     Address   `json:"address" db:"-"`
	Location    Location  `json:"location" db:"-"`
	PhoneNumber string    `json:"phone_number" db:"phone_number"`
	Email       string    `json:"email" db:"email"`
	Description string    `json:"description" db:"description"`
	Categories  []string  `json:"categories" db:"-"`
	Photos      []string  `json:"photos,omitempty" db:"-"`
	Rating      float64   `json:"rating" db:"rating"`
	ReviewCount int       `json:"review_count" db:"review_count"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// OwnedBy returns the owning account ID
func (f *Facility) OwnedBy() string {
	return f.OwnerID
}

// Address represents a physical address
type Address struct {
	Street  string `json:"street" db:"street"`
	City    string `json:"city" db:"city"`
	State   string `json:"state" db:"state"`
	ZipCode string `json:"zip_code" db:"zip_code"`
	Country string `json:"country" db:"country"`
}

// Location represents geographical coordinates
type Location struct {
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
}
