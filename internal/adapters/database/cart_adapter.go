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

// CartAdapter implements the CartRepository interface
type CartAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewCartAdapter creates a new cart adapter
func NewCartAdapter(client *postgres.Client) repositories.CartRepository {
	return &CartAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var cartItemColumns = []interface{}{
	"id", "cart_id", "package_id", "promotion_id", "price", "state", "created_at", "updated_at",
}

func scanCartItem(scanner interface{ Scan(...interface{}) error }) (*entities.CartItem, error) {
	item := &entities.CartItem{}
	var promotionID sql.NullString

	err := scanner.Scan(
		&item.ID,
		&item.CartID,
		&item.PackageID,
		&promotionID,
		&item.Price,
		&item.State,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if promotionID.Valid {
		item.PromotionID = &promotionID.String
	}
	return item, nil
}

// Create creates a new cart
func (a *CartAdapter) Create(ctx context.Context, cart *entities.Cart) error {
	record := goqu.Record{
		"id":         cart.ID,
		"account_id": cart.AccountID,
		"created_at": cart.CreatedAt,
		"updated_at": cart.UpdatedAt,
	}

	query, args, err := a.db.Insert("carts").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError(fmt.Sprintf("account %s already has a cart", cart.AccountID))
		}
		return apperrors.NewInternalError("failed to create cart", err)
	}

	return nil
}

// GetByAccount retrieves the cart of an account with its IN_CART items
func (a *CartAdapter) GetByAccount(ctx context.Context, accountID string) (*entities.Cart, error) {
	query, args, err := a.db.Select("id", "account_id", "created_at", "updated_at").
		From("carts").
		Where(goqu.Ex{"account_id": accountID}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	cart := &entities.Cart{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&cart.ID,
		&cart.AccountID,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("account %s has no cart", accountID))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get cart", err)
	}

	items, err := a.listItems(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	cart.Items = items

	return cart, nil
}

func (a *CartAdapter) listItems(ctx context.Context, cartID string) ([]entities.CartItem, error) {
	query, args, err := a.db.Select(cartItemColumns...).From("cart_items").
		Where(goqu.Ex{"cart_id": cartID, "state": entities.CartItemInCart}).
		Order(goqu.I("created_at").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list cart items", err)
	}
	defer rows.Close()

	var items []entities.CartItem
	for rows.Next() {
		item, err := scanCartItem(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan cart item", err)
		}
		items = append(items, *item)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate cart items", err)
	}

	return items, nil
}

// AddItem appends an item to a cart
func (a *CartAdapter) AddItem(ctx context.Context, item *entities.CartItem) error {
	record := goqu.Record{
		"id":           item.ID,
		"cart_id":      item.CartID,
		"package_id":   item.PackageID,
		"promotion_id": item.PromotionID,
		"price":        item.Price,
		"state":        item.State,
		"created_at":   item.CreatedAt,
		"updated_at":   item.UpdatedAt,
	}

	query, args, err := a.db.Insert("cart_items").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to add cart item", err)
	}

	return nil
}

// GetItem retrieves a cart item by ID
func (a *CartAdapter) GetItem(ctx context.Context, id string) (*entities.CartItem, error) {
	query, args, err := a.db.Select(cartItemColumns...).From("cart_items").Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	item, err := scanCartItem(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("cart item with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get cart item", err)
	}

	return item, nil
}

// UpdateItem persists the item's price, promotion and state
func (a *CartAdapter) UpdateItem(ctx context.Context, item *entities.CartItem) error {
	item.UpdatedAt = time.Now()

	record := goqu.Record{
		"promotion_id": item.PromotionID,
		"price":        item.Price,
		"state":        item.State,
		"updated_at":   item.UpdatedAt,
	}

	query, args, err := a.db.Update("cart_items").Set(record).Where(goqu.Ex{"id": item.ID}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update cart item", err)
	}

	return requireRowsAffected(result, fmt.Sprintf("cart item with id %s not found", item.ID))
}
