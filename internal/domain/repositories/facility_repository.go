package repositories

import (
	"context"

	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/entities"
	"github.com/zatekoja/fitbookingdesign/backend/pkg/listing"
)

// BrandRepository defines the interface for brand data operations
type BrandRepository interface {
	Create(ctx context.Context, brand *entities.Brand) error
	GetByID(ctx context.Context, id string) (*entities.Brand, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*entities.Brand, error)
	Update(ctx context.Context, brand *entities.Brand) error
}

// FacilityRepository defines the interface for facility database operations
type FacilityRepository interface {
	Create(ctx context.Context, facility *entities.Facility) error

	// GetByID retrieves an active facility by ID
	GetByID(ctx context.Context, id string) (*entities.Facility, error)

	Update(ctx context.Context, facility *entities.Facility) error

	// Archive marks a facility inactive; rows are never hard-deleted
	Archive(ctx context.Context, id string) error

	// List returns active facilities using the shared listing options
	List(ctx context.Context, opts listing.Options) ([]*entities.Facility, error)

	ListByOwner(ctx context.Context, ownerID string) ([]*entities.Facility, error)

	// UpdateRating refreshes the denormalized rating aggregate
	UpdateRating(ctx context.Context, id string, rating float64, reviewCount int) error
}

// FacilitySearchParams defines parameters for facility text search
type FacilitySearchParams struct {
	Query      string
	Categories []string
	MinRating  *float64
	Limit      int
	Offset     int
}

// FacilitySearchRepository defines the interface for the search index
type FacilitySearchRepository interface {
	Index(ctx context.Context, facility *entities.Facility) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, params FacilitySearchParams) ([]*entities.Facility, int, error)
}
