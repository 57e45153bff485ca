package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/entities"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/repositories"
	"github.com/zatekoja/fitbookingdesign/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/fitbookingdesign/backend/pkg/errors"
	"github.com/zatekoja/fitbookingdesign/backend/pkg/listing"
)

// PackageAdapter implements the PackageRepository interface
type PackageAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewPackageAdapter creates a new package adapter
func NewPackageAdapter(client *postgres.Client) repositories.PackageRepository {
	return &PackageAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var packageColumns = []interface{}{
	"id", "facility_id", "package_type_id", "name", "description",
	"price", "duration_days", "is_active", "created_at", "updated_at",
}

func scanPackage(scanner interface{ Scan(...interface{}) error }) (*entities.Package, error) {
	pkg := &entities.Package{}
	var packageTypeID sql.NullString

	err := scanner.Scan(
		&pkg.ID,
		&pkg.FacilityID,
		&packageTypeID,
		&pkg.Name,
		&pkg.Description,
		&pkg.Price,
		&pkg.DurationDays,
		&pkg.IsActive,
		&pkg.CreatedAt,
		&pkg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if packageTypeID.Valid {
		pkg.PackageTypeID = &packageTypeID.String
	}
	return pkg, nil
}

// Create creates a new package
func (a *PackageAdapter) Create(ctx context.Context, pkg *entities.Package) error {
	record := goqu.Record{
		"id":              pkg.ID,
		"facility_id":     pkg.FacilityID,
		"package_type_id": pkg.PackageTypeID,
		"name":            pkg.Name,
		"description":     pkg.Description,
		"price":           pkg.Price,
		"duration_days":   pkg.DurationDays,
		"is_active":       pkg.IsActive,
		"created_at":      pkg.CreatedAt,
		"updated_at":      pkg.UpdatedAt,
	}

	query, args, err := a.db.Insert("packages").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create package", err)
	}

	return nil
}

// GetByID retrieves a package by ID
func (a *PackageAdapter) GetByID(ctx context.Context, id string) (*entities.Package, error) {
	query, args, err := a.db.Select(packageColumns...).From("packages").Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	pkg, err := scanPackage(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("package with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get package", err)
	}

	return pkg, nil
}

// ListByFacility retrieves the active packages of a facility
func (a *PackageAdapter) ListByFacility(ctx context.Context, facilityID string, opts listing.Options) ([]*entities.Package, error) {
	ds := a.db.Select(packageColumns...).From("packages").
		Where(goqu.Ex{"facility_id": facilityID, "is_active": true})

	query, args, err := opts.Apply(ds).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list packages", err)
	}
	defer rows.Close()

	var packages []*entities.Package
	for rows.Next() {
		pkg, err := scanPackage(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan package", err)
		}
		packages = append(packages, pkg)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate packages", err)
	}

	return packages, nil
}

// Update updates a package
func (a *PackageAdapter) Update(ctx context.Context, pkg *entities.Package) error {
	pkg.UpdatedAt = time.Now()

	record := goqu.Record{
		"package_type_id": pkg.PackageTypeID,
		"name":            pkg.Name,
		"description":     pkg.Description,
		"price":           pkg.Price,
		"duration_days":   pkg.DurationDays,
		"is_active":       pkg.IsActive,
		"updated_at":      pkg.UpdatedAt,
	}

	query, args, err := a.db.Update("packages").Set(record).Where(goqu.Ex{"id": pkg.ID}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update package", err)
	}

	return requireRowsAffected(result, fmt.Sprintf("package with id %s not found", pkg.ID))
}

// Delete deactivates a package; bill snapshots keep their copied fields
func (a *PackageAdapter) Delete(ctx context.Context, id string) error {
	record := goqu.Record{
		"is_active":  false,
		"updated_at": time.Now(),
	}

	query, args, err := a.db.Update("packages").Set(record).
		Where(goqu.Ex{"id": id, "is_active": true}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete package", err)
	}

	return requireRowsAffected(result, fmt.Sprintf("package with id %s not found", id))
}

// PackageTypeAdapter implements the PackageTypeRepository interface
type PackageTypeAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewPackageTypeAdapter creates a new package type adapter
func NewPackageTypeAdapter(client *postgres.Client) repositories.PackageTypeRepository {
	return &PackageTypeAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var packageTypeColumns = []interface{}{
	"id", "facility_id", "name", "time_type", "created_at", "updated_at",
}

// Create creates a new package type
func (a *PackageTypeAdapter) Create(ctx context.Context, packageType *entities.PackageType) error {
	record := goqu.Record{
		"id":          packageType.ID,
		"facility_id": packageType.FacilityID,
		"name":        packageType.Name,
		"time_type":   packageType.TimeType,
		"created_at":  packageType.CreatedAt,
		"updated_at":  packageType.UpdatedAt,
	}

	query, args, err := a.db.Insert("package_types").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create package type", err)
	}

	return nil
}

// GetByID retrieves a package type by ID
func (a *PackageTypeAdapter) GetByID(ctx context.Context, id string) (*entities.PackageType, error) {
	query, args, err := a.db.Select(packageTypeColumns...).From("package_types").Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	packageType := &entities.PackageType{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&packageType.ID,
		&packageType.FacilityID,
		&packageType.Name,
		&packageType.TimeType,
		&packageType.CreatedAt,
		&packageType.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("package type with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get package type", err)
	}

	return packageType, nil
}

// ListByFacility retrieves the package types of a facility
func (a *PackageTypeAdapter) ListByFacility(ctx context.Context, facilityID string) ([]*entities.PackageType, error) {
	query, args, err := a.db.Select(packageTypeColumns...).From("package_types").
		Where(goqu.Ex{"facility_id": facilityID}).
		Order(goqu.I("created_at").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list package types", err)
	}
	defer rows.Close()

	var packageTypes []*entities.PackageType
	for rows.Next() {
		packageType := &entities.PackageType{}
		if err := rows.Scan(
			&packageType.ID,
			&packageType.FacilityID,
			&packageType.Name,
			&packageType.TimeType,
			&packageType.CreatedAt,
			&packageType.UpdatedAt,
		); err != nil {
			return nil, apperrors.NewInternalError("failed to scan package type", err)
		}
		packageTypes = append(packageTypes, packageType)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate package types", err)
	}

	return packageTypes, nil
}

// Update updates a package type
func (a *PackageTypeAdapter) Update(ctx context.Context, packageType *entities.PackageType) error {
	packageType.UpdatedAt = time.Now()

	record := goqu.Record{
		"name":       packageType.Name,
		"time_type":  packageType.TimeType,
		"updated_at": packageType.UpdatedAt,
	}

	query, args, err := a.db.Update("package_types").Set(record).Where(goqu.Ex{"id": packageType.ID}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update package type", err)
	}

	return requireRowsAffected(result, fmt.Sprintf("package type with id %s not found", packageType.ID))
}

// Delete deletes a package type
func (a *PackageTypeAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete("package_types").Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete package type", err)
	}

	return requireRowsAffected(result, fmt.Sprintf("package type with id %s not found", id))
}
