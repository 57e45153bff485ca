package repositories

import (
	"context"

	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/entities"
	"github.com/zatekoja/fitbookingdesign/backend/pkg/listing"
)

// PackageRepository defines the interface for package operations
type PackageRepository interface {
	Create(ctx context.Context, pkg *entities.Package) error
	GetByID(ctx context.Context, id string) (*entities.Package, error)
	ListByFacility(ctx context.Context, facilityID string, opts listing.Options) ([]*entities.Package, error)
	Update(ctx context.Context, pkg *entities.Package) error
	Delete(ctx context.Context, id string) error
}

// PackageTypeRepository defines the interface for package type operations
type PackageTypeRepository interface {
	Create(ctx context.Context, packageType *entities.PackageType) error
	GetByID(ctx context.Context, id string) (*entities.PackageType, error)
	ListByFacility(ctx context.Context, facilityID string) ([]*entities.PackageType, error)
	Update(ctx context.Context, packageType *entities.PackageType) error
	Delete(ctx context.Context, id string) error
}
