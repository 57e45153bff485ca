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

// PromotionAdapter implements the PromotionRepository interface
type PromotionAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewPromotionAdapter creates a new promotion adapter
func NewPromotionAdapter(client *postgres.Client) repositories.PromotionRepository {
	return &PromotionAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var promotionColumns = []interface{}{
	"id", "code", "facility_id", "discount_type", "amount",
	"max_uses", "current_uses", "valid_from", "valid_until",
	"is_active", "created_at", "updated_at",
}

func scanPromotion(scanner interface{ Scan(...interface{}) error }) (*entities.Promotion, error) {
	promotion := &entities.Promotion{}
	var facilityID sql.NullString
	var maxUses sql.NullInt64
	var validUntil sql.NullTime

	err := scanner.Scan(
		&promotion.ID,
		&promotion.Code,
		&facilityID,
		&promotion.DiscountType,
		&promotion.Amount,
		&maxUses,
		&promotion.CurrentUses,
		&promotion.ValidFrom,
		&validUntil,
		&promotion.IsActive,
		&promotion.CreatedAt,
		&promotion.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if facilityID.Valid {
		promotion.FacilityID = &facilityID.String
	}
	if maxUses.Valid {
		uses := int(maxUses.Int64)
		promotion.MaxUses = &uses
	}
	if validUntil.Valid {
		promotion.ValidUntil = &validUntil.Time
	}
	return promotion, nil
}

// Create creates a new promotion
func (a *PromotionAdapter) Create(ctx context.Context, promotion *entities.Promotion) error {
	record := goqu.Record{
		"id":            promotion.ID,
		"code":          promotion.Code,
		"facility_id":   promotion.FacilityID,
		"discount_type": promotion.DiscountType,
		"amount":        promotion.Amount,
		"max_uses":      promotion.MaxUses,
		"current_uses":  promotion.CurrentUses,
		"valid_from":    promotion.ValidFrom,
		"valid_until":   promotion.ValidUntil,
		"is_active":     promotion.IsActive,
		"created_at":    promotion.CreatedAt,
		"updated_at":    promotion.UpdatedAt,
	}

	query, args, err := a.db.Insert("promotions").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError(fmt.Sprintf("promotion code %s already exists", promotion.Code))
		}
		return apperrors.NewInternalError("failed to create promotion", err)
	}

	return nil
}

// GetByID retrieves a promotion by ID
func (a *PromotionAdapter) GetByID(ctx context.Context, id string) (*entities.Promotion, error) {
	return a.getOne(ctx, goqu.Ex{"id": id}, fmt.Sprintf("promotion with id %s not found", id))
}

// GetByCode retrieves a promotion by code
func (a *PromotionAdapter) GetByCode(ctx context.Context, code string) (*entities.Promotion, error) {
	return a.getOne(ctx, goqu.Ex{"code": code}, fmt.Sprintf("promotion with code %s not found", code))
}

func (a *PromotionAdapter) getOne(ctx context.Context, where goqu.Ex, notFoundMsg string) (*entities.Promotion, error) {
	query, args, err := a.db.Select(promotionColumns...).From("promotions").Where(where).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	promotion, err := scanPromotion(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(notFoundMsg)
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get promotion", err)
	}

	return promotion, nil
}

// List returns promotions using the shared listing options
func (a *PromotionAdapter) List(ctx context.Context, opts listing.Options) ([]*entities.Promotion, error) {
	ds := a.db.Select(promotionColumns...).From("promotions")

	query, args, err := opts.Apply(ds).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list promotions", err)
	}
	defer rows.Close()

	var promotions []*entities.Promotion
	for rows.Next() {
		promotion, err := scanPromotion(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan promotion", err)
		}
		promotions = append(promotions, promotion)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate promotions", err)
	}

	return promotions, nil
}

// Update updates a promotion
func (a *PromotionAdapter) Update(ctx context.Context, promotion *entities.Promotion) error {
	promotion.UpdatedAt = time.Now()

	record := goqu.Record{
		"code":          promotion.Code,
		"facility_id":   promotion.FacilityID,
		"discount_type": promotion.DiscountType,
		"amount":        promotion.Amount,
		"max_uses":      promotion.MaxUses,
		"current_uses":  promotion.CurrentUses,
		"valid_from":    promotion.ValidFrom,
		"valid_until":   promotion.ValidUntil,
		"is_active":     promotion.IsActive,
		"updated_at":    promotion.UpdatedAt,
	}

	query, args, err := a.db.Update("promotions").Set(record).Where(goqu.Ex{"id": promotion.ID}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update promotion", err)
	}

	return requireRowsAffected(result, fmt.Sprintf("promotion with id %s not found", promotion.ID))
}

// Delete deactivates a promotion
func (a *PromotionAdapter) Delete(ctx context.Context, id string) error {
	record := goqu.Record{
		"is_active":  false,
		"updated_at": time.Now(),
	}

	query, args, err := a.db.Update("promotions").Set(record).
		Where(goqu.Ex{"id": id, "is_active": true}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete promotion", err)
	}

	return requireRowsAffected(result, fmt.Sprintf("promotion with id %s not found", id))
}
