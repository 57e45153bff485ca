package repositories

import (
	"context"

	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/entities"
)

// CartRepository defines the interface for cart and cart item operations
type CartRepository interface {
	// Create creates a new cart for an account
	Create(ctx context.Context, cart *entities.Cart) error

	// GetByAccount retrieves the cart of an account, including items still
	// in the cart. Returns NotFound when the account has no cart yet.
	GetByAccount(ctx context.Context, accountID string) (*entities.Cart, error)

	// AddItem appends an item to a cart
	AddItem(ctx context.Context, item *entities.CartItem) error

	// GetItem retrieves a cart item by ID
	GetItem(ctx context.Context, id string) (*entities.CartItem, error)

	// UpdateItem persists the item's price, promotion and state
	UpdateItem(ctx context.Context, item *entities.CartItem) error
}
