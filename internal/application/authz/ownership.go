package authz

import (
	"context"
	"strings"

	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/entities"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/repositories"
	apperrors "github.com/zatekoja/fitbookingdesign/backend/pkg/errors"
)

// Owned is implemented by resources that carry a back-reference to their
// owning account
type Owned interface {
	OwnedBy() string
}

// CheckOwnership looks up a resource and verifies the caller owns it.
// A NotFound error from the lookup propagates unchanged; a mismatch is
// Forbidden. IDs are compared as normalized strings.
func CheckOwnership[T Owned](ctx context.Context, lookup func(context.Context) (T, error), callerID string) (T, error) {
	resource, err := lookup(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	if !sameID(resource.OwnedBy(), callerID) {
		var zero T
		return zero, apperrors.NewForbiddenError("caller does not own this resource")
	}

	return resource, nil
}

func sameID(a, b string) bool {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	return a != "" && a == b
}

// OwnershipResolver resolves whether a caller controls a resource,
// directly or transitively through the parent facility. Admin callers
// bypass the owner comparison but still see NotFound for missing
// resources.
type OwnershipResolver struct {
	adminRole    entities.Role
	brands       repositories.BrandRepository
	facilities   repositories.FacilityRepository
	schedules    repositories.ScheduleRepository
	holidays     repositories.HolidayRepository
	packages     repositories.PackageRepository
	packageTypes repositories.PackageTypeRepository
}

// NewOwnershipResolver creates an ownership resolver over the owned
// resource repositories
func NewOwnershipResolver(
	brands repositories.BrandRepository,
	facilities repositories.FacilityRepository,
	schedules repositories.ScheduleRepository,
	holidays repositories.HolidayRepository,
	packages repositories.PackageRepository,
	packageTypes repositories.PackageTypeRepository,
) *OwnershipResolver {
	return &OwnershipResolver{
		adminRole:    entities.RoleAdmin,
		brands:       brands,
		facilities:   facilities,
		schedules:    schedules,
		holidays:     holidays,
		packages:     packages,
		packageTypes: packageTypes,
	}
}

func (r *OwnershipResolver) isAdmin(caller Identity) bool {
	return caller.HasRole(r.adminRole)
}

// ResolveBrand verifies the caller owns the brand
func (r *OwnershipResolver) ResolveBrand(ctx context.Context, brandID string, caller Identity) (*entities.Brand, error) {
	if r.isAdmin(caller) {
		return r.brands.GetByID(ctx, brandID)
	}
	return CheckOwnership(ctx, func(ctx context.Context) (*entities.Brand, error) {
		return r.brands.GetByID(ctx, brandID)
	}, caller.ID)
}

// ResolveFacility verifies the caller owns the facility
func (r *OwnershipResolver) ResolveFacility(ctx context.Context, facilityID string, caller Identity) (*entities.Facility, error) {
	if r.isAdmin(caller) {
		return r.facilities.GetByID(ctx, facilityID)
	}
	return CheckOwnership(ctx, func(ctx context.Context) (*entities.Facility, error) {
		return r.facilities.GetByID(ctx, facilityID)
	}, caller.ID)
}

// ResolveSchedule verifies the caller owns the schedule
func (r *OwnershipResolver) ResolveSchedule(ctx context.Context, scheduleID string, caller Identity) (*entities.Schedule, error) {
	if r.isAdmin(caller) {
		return r.schedules.GetByID(ctx, scheduleID)
	}
	return CheckOwnership(ctx, func(ctx context.Context) (*entities.Schedule, error) {
		return r.schedules.GetByID(ctx, scheduleID)
	}, caller.ID)
}

// ResolveHoliday verifies the caller owns the holiday
func (r *OwnershipResolver) ResolveHoliday(ctx context.Context, holidayID string, caller Identity) (*entities.Holiday, error) {
	if r.isAdmin(caller) {
		return r.holidays.GetByID(ctx, holidayID)
	}
	return CheckOwnership(ctx, func(ctx context.Context) (*entities.Holiday, error) {
		return r.holidays.GetByID(ctx, holidayID)
	}, caller.ID)
}

// ResolvePackage verifies the caller owns the package's parent facility.
// The resolved facility is returned so the handler can reuse it without a
// second lookup.
func (r *OwnershipResolver) ResolvePackage(ctx context.Context, packageID string, caller Identity) (*entities.Package, *entities.Facility, error) {
	pkg, err := r.packages.GetByID(ctx, packageID)
	if err != nil {
		return nil, nil, err
	}

	facility, err := r.ResolveFacility(ctx, pkg.FacilityID, caller)
	if err != nil {
		return nil, nil, err
	}

	return pkg, facility, nil
}

// ResolvePackageType verifies the caller owns the package type's parent
// facility, returning the facility for reuse
func (r *OwnershipResolver) ResolvePackageType(ctx context.Context, packageTypeID string, caller Identity) (*entities.PackageType, *entities.Facility, error) {
	packageType, err := r.packageTypes.GetByID(ctx, packageTypeID)
	if err != nil {
		return nil, nil, err
	}

	facility, err := r.ResolveFacility(ctx, packageType.FacilityID, caller)
	if err != nil {
		return nil, nil, err
	}

	return packageType, facility, nil
}
