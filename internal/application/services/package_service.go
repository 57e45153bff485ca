package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/entities"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/repositories"
	apperrors "github.com/zatekoja/fitbookingdesign/backend/pkg/errors"
	"github.com/zatekoja/fitbookingdesign/backend/pkg/listing"
)

// PackageService handles business logic for packages and package types
type PackageService struct {
	packages     repositories.PackageRepository
	packageTypes repositories.PackageTypeRepository
	facilities   repositories.FacilityRepository
}

// NewPackageService creates a new package service
func NewPackageService(
	packages repositories.PackageRepository,
	packageTypes repositories.PackageTypeRepository,
	facilities repositories.FacilityRepository,
) *PackageService {
	return &PackageService{
		packages:     packages,
		packageTypes: packageTypes,
		facilities:   facilities,
	}
}

// CreatePackage creates a purchasable package for a facility
func (s *PackageService) CreatePackage(ctx context.Context, pkg *entities.Package) error {
	if err := validatePackage(pkg); err != nil {
		return err
	}

	if _, err := s.facilities.GetByID(ctx, pkg.FacilityID); err != nil {
		return err
	}

	if pkg.PackageTypeID != nil {
		packageType, err := s.packageTypes.GetByID(ctx, *pkg.PackageTypeID)
		if err != nil {
			return err
		}
		if packageType.FacilityID != pkg.FacilityID {
			return apperrors.NewValidationError("package type belongs to a different facility")
		}
	}

	now := time.Now()
	pkg.ID = uuid.New().String()
	pkg.IsActive = true
	pkg.CreatedAt = now
	pkg.UpdatedAt = now

	return s.packages.Create(ctx, pkg)
}

// GetPackage retrieves a package by ID
func (s *PackageService) GetPackage(ctx context.Context, id string) (*entities.Package, error) {
	return s.packages.GetByID(ctx, id)
}

// ListFacilityPackages retrieves the active packages of a facility
func (s *PackageService) ListFacilityPackages(ctx context.Context, facilityID string, opts listing.Options) ([]*entities.Package, error) {
	return s.packages.ListByFacility(ctx, facilityID, opts)
}

// UpdatePackage updates a package
func (s *PackageService) UpdatePackage(ctx context.Context, pkg *entities.Package) error {
	if err := validatePackage(pkg); err != nil {
		return err
	}
	return s.packages.Update(ctx, pkg)
}

// DeletePackage deactivates a package. Existing bills and subscriptions
// keep their snapshots.
func (s *PackageService) DeletePackage(ctx context.Context, id string) error {
	return s.packages.Delete(ctx, id)
}

// CreatePackageType creates a facility-scoped package category
func (s *PackageService) CreatePackageType(ctx context.Context, packageType *entities.PackageType) error {
	if strings.TrimSpace(packageType.Name) == "" {
		return apperrors.NewValidationError("package type name is required")
	}
	switch packageType.TimeType {
	case entities.TimeTypeDayPass, entities.TimeTypeDuration:
	default:
		return apperrors.NewValidationError("time type must be DAY_PASS or DURATION")
	}

	if _, err := s.facilities.GetByID(ctx, packageType.FacilityID); err != nil {
		return err
	}

	now := time.Now()
	packageType.ID = uuid.New().String()
	packageType.CreatedAt = now
	packageType.UpdatedAt = now

	return s.packageTypes.Create(ctx, packageType)
}

// GetPackageType retrieves a package type by ID
func (s *PackageService) GetPackageType(ctx context.Context, id string) (*entities.PackageType, error) {
	return s.packageTypes.GetByID(ctx, id)
}

// ListFacilityPackageTypes retrieves the package types of a facility
func (s *PackageService) ListFacilityPackageTypes(ctx context.Context, facilityID string) ([]*entities.PackageType, error) {
	return s.packageTypes.ListByFacility(ctx, facilityID)
}

// UpdatePackageType updates a package type
func (s *PackageService) UpdatePackageType(ctx context.Context, packageType *entities.PackageType) error {
	if strings.TrimSpace(packageType.Name) == "" {
		return apperrors.NewValidationError("package type name is required")
	}
	return s.packageTypes.Update(ctx, packageType)
}

// DeletePackageType deletes a package type
func (s *PackageService) DeletePackageType(ctx context.Context, id string) error {
	return s.packageTypes.Delete(ctx, id)
}

func validatePackage(pkg *entities.Package) error {
	if strings.TrimSpace(pkg.Name) == "" {
		return apperrors.NewValidationError("package name is required")
	}
	if pkg.Price < 0 {
		return apperrors.NewValidationError("package price must not be negative")
	}
	if pkg.DurationDays <= 0 {
		return apperrors.NewValidationError("package duration must be at least one day")
	}
	return nil
}
