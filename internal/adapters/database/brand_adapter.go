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
)

// BrandAdapter implements the BrandRepository interface
type BrandAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewBrandAdapter creates a new brand adapter
func NewBrandAdapter(client *postgres.Client) repositories.BrandRepository {
	return &BrandAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var brandColumns = []interface{}{
	"id", "owner_id", "name", "description", "created_at", "updated_at",
}

// Create creates a new brand
func (a *BrandAdapter) Create(ctx context.Context, brand *entities.Brand) error {
	record := goqu.Record{
		"id":          brand.ID,
		"owner_id":    brand.OwnerID,
		"name":        brand.Name,
		"description": brand.Description,
		"created_at":  brand.CreatedAt,
		"updated_at":  brand.UpdatedAt,
	}

	query, args, err := a.db.Insert("brands").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create brand", err)
	}

	return nil
}

// GetByID retrieves a brand by ID
func (a *BrandAdapter) GetByID(ctx context.Context, id string) (*entities.Brand, error) {
	query, args, err := a.db.Select(brandColumns...).From("brands").Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	brand := &entities.Brand{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&brand.ID,
		&brand.OwnerID,
		&brand.Name,
		&brand.Description,
		&brand.CreatedAt,
		&brand.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("brand with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get brand", err)
	}

	return brand, nil
}

// ListByOwner retrieves the brands of an owner
func (a *BrandAdapter) ListByOwner(ctx context.Context, ownerID string) ([]*entities.Brand, error) {
	query, args, err := a.db.Select(brandColumns...).From("brands").
		Where(goqu.Ex{"owner_id": ownerID}).
		Order(goqu.I("created_at").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list brands", err)
	}
	defer rows.Close()

	var brands []*entities.Brand
	for rows.Next() {
		brand := &entities.Brand{}
		if err := rows.Scan(
			&brand.ID,
			&brand.OwnerID,
			&brand.Name,
			&brand.Description,
			&brand.CreatedAt,
			&brand.UpdatedAt,
		); err != nil {
			return nil, apperrors.NewInternalError("failed to scan brand", err)
		}
		brands = append(brands, brand)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate brands", err)
	}

	return brands, nil
}

// Update updates a brand
func (a *BrandAdapter) Update(ctx context.Context, brand *entities.Brand) error {
	brand.UpdatedAt = time.Now()

	record := goqu.Record{
		"name":        brand.Name,
		"description": brand.Description,
		"updated_at":  brand.UpdatedAt,
	}

	query, args, err := a.db.Update("brands").Set(record).Where(goqu.Ex{"id": brand.ID}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update brand", err)
	}

	return requireRowsAffected(result, fmt.Sprintf("brand with id %s not found", brand.ID))
}
