package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/entities"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/repositories"
	"github.com/zatekoja/fitbookingdesign/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/fitbookingdesign/backend/pkg/errors"
	"github.com/zatekoja/fitbookingdesign/backend/pkg/listing"
)

// FacilityAdapter implements the FacilityRepository interface
type FacilityAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewFacilityAdapter creates a new facility adapter
func NewFacilityAdapter(client *postgres.Client) repositories.FacilityRepository {
	return &FacilityAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var facilityColumns = []interface{}{
	"id", "brand_id", "owner_id", "name",
	"street", "city", "state", "zip_code", "country",
	"latitude", "longitude", "phone_number", "email", "description",
	"categories", "photos", "rating", "review_count",
	"is_active", "created_at", "updated_at",
}

func facilityRecord(facility *entities.Facility) goqu.Record {
	return goqu.Record{
		"id":           facility.ID,
		"brand_id":     facility.BrandID,
		"owner_id":     facility.OwnerID,
		"name":         facility.Name,
		"street":       facility.Address.Street,
		"city":         facility.Address.City,
		"state":        facility.Address.State,
		"zip_code":     facility.Address.ZipCode,
		"country":      facility.Address.Country,
		"latitude":     facility.Location.Latitude,
		"longitude":    facility.Location.Longitude,
		"phone_number": facility.PhoneNumber,
		"email":        facility.Email,
		"description":  facility.Description,
		"categories":   pq.Array(facility.Categories),
		"photos":       pq.Array(facility.Photos),
		"rating":       facility.Rating,
		"review_count": facility.ReviewCount,
		"is_active":    facility.IsActive,
		"created_at":   facility.CreatedAt,
		"updated_at":   facility.UpdatedAt,
	}
}

func scanFacility(scanner interface{ Scan(...interface{}) error }) (*entities.Facility, error) {
	facility := &entities.Facility{}
	var categories, photos pq.StringArray

	err := scanner.Scan(
		&facility.ID,
		&facility.BrandID,
		&facility.OwnerID,
		&facility.Name,
		&facility.Address.Street,
		&facility.Address.City,
		&facility.Address.State,
		&facility.Address.ZipCode,
		&facility.Address.Country,
		&facility.Location.Latitude,
		&facility.Location.Longitude,
		&facility.PhoneNumber,
		&facility.Email,
		&facility.Description,
		&categories,
		&photos,
		&facility.Rating,
		&facility.ReviewCount,
		&facility.IsActive,
		&facility.CreatedAt,
		&facility.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	facility.Categories = categories
	facility.Photos = photos
	return facility, nil
}

// Create creates a new facility
func (a *FacilityAdapter) Create(ctx context.Context, facility *entities.Facility) error {
	query, args, err := a.db.Insert("facilities").Rows(facilityRecord(facility)).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create facility", err)
	}

	return nil
}

// GetByID retrieves an active facility by ID
func (a *FacilityAdapter) GetByID(ctx context.Context, id string) (*entities.Facility, error) {
	query, args, err := a.db.Select(facilityColumns...).From("facilities").
		Where(goqu.Ex{"id": id, "is_active": true}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	facility, err := scanFacility(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("facility with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get facility", err)
	}

	return facility, nil
}

// Update updates a facility
func (a *FacilityAdapter) Update(ctx context.Context, facility *entities.Facility) error {
	facility.UpdatedAt = time.Now()

	record := facilityRecord(facility)
	delete(record, "id")
	delete(record, "created_at")

	query, args, err := a.db.Update("facilities").Set(record).Where(goqu.Ex{"id": facility.ID}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update facility", err)
	}

	return requireRowsAffected(result, fmt.Sprintf("facility with id %s not found", facility.ID))
}

// Archive marks a facility inactive
func (a *FacilityAdapter) Archive(ctx context.Context, id string) error {
	record := goqu.Record{
		"is_active":  false,
		"updated_at": time.Now(),
	}

	query, args, err := a.db.Update("facilities").Set(record).
		Where(goqu.Ex{"id": id, "is_active": true}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to archive facility", err)
	}

	return requireRowsAffected(result, fmt.Sprintf("facility with id %s not found", id))
}

// List returns active facilities using the shared listing options
func (a *FacilityAdapter) List(ctx context.Context, opts listing.Options) ([]*entities.Facility, error) {
	ds := a.db.Select(facilityColumns...).From("facilities").Where(goqu.Ex{"is_active": true})

	query, args, err := opts.Apply(ds).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.queryFacilities(ctx, query, args)
}

// ListByOwner retrieves all facilities of an owner, archived included
func (a *FacilityAdapter) ListByOwner(ctx context.Context, ownerID string) ([]*entities.Facility, error) {
	query, args, err := a.db.Select(facilityColumns...).From("facilities").
		Where(goqu.Ex{"owner_id": ownerID}).
		Order(goqu.I("created_at").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.queryFacilities(ctx, query, args)
}

// UpdateRating refreshes the denormalized rating aggregate
func (a *FacilityAdapter) UpdateRating(ctx context.Context, id string, rating float64, reviewCount int) error {
	record := goqu.Record{
		"rating":       rating,
		"review_count": reviewCount,
		"updated_at":   time.Now(),
	}

	query, args, err := a.db.Update("facilities").Set(record).Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update facility rating", err)
	}

	return requireRowsAffected(result, fmt.Sprintf("facility with id %s not found", id))
}

func (a *FacilityAdapter) queryFacilities(ctx context.Context, query string, args []interface{}) ([]*entities.Facility, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list facilities", err)
	}
	defer rows.Close()

	var facilities []*entities.Facility
	for rows.Next() {
		facility, err := scanFacility(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan facility", err)
		}
		facilities = append(facilities, facility)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate facilities", err)
	}

	return facilities, nil
}
