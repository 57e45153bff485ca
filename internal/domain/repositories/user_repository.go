package repositories

import (
	"context"

	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/entities"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *entities.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (*entities.User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*entities.User, error)

	// Update updates a user
	Update(ctx context.Context, user *entities.User) error

	// UpdateRoles replaces the role set of a user
	UpdateRoles(ctx context.Context, id string, roles []entities.Role) error
}

// ReviewRepository defines the interface for review operations
type ReviewRepository interface {
	// Create creates a new review
	Create(ctx context.Context, review *entities.Review) error

	// GetByID retrieves a review by ID
	GetByID(ctx context.Context, id string) (*entities.Review, error)

	// ListByFacility retrieves reviews for a facility
	ListByFacility(ctx context.Context, facilityID string, limit, offset int) ([]*entities.Review, error)

	// ListByUser retrieves reviews by a user
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entities.Review, error)

	// Delete deletes a review
	Delete(ctx context.Context, id string) error

	// AggregateByFacility returns the average rating and review count of
	// a facility, used to refresh the denormalized facility fields
	AggregateByFacility(ctx context.Context, facilityID string) (float64, int, error)
}
