package entities

import (
	"time"
)

// Role is a coarse-grained permission group carried by a user
type Role string

const (
	RoleAdmin         Role = "ADMIN"
	RoleFacilityOwner Role = "FACILITY_OWNER"
	RoleMember        Role = "MEMBER"
)

// User represents an account in the system. Users are never hard-deleted;
// IsActive gates login instead.
type User struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	Phone        string    `json:"phone" db:"phone"`
	Roles        []Role    `json:"roles" db:"-"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// HasRole reports whether the user carries the given role
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Review represents a user review of a facility
type Review struct {
	ID         string    `json:"id" db:"id"`
	UserID     string    `json:"user_id" db:"user_id"`
	FacilityID string    `json:"facility_id" db:"facility_id"`
	Rating     int       `json:"rating" db:"rating"` // 1-5
	Comment    string    `json:"comment" db:"comment"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
