package entities

import "time"

// CartItemState tracks a cart item through its lifecycle
type CartItemState string

const (
	CartItemInCart    CartItemState = "IN_CART"
	CartItemPurchased CartItemState = "PURCHASED"
	CartItemRemoved   CartItemState = "REMOVED"
)

// Cart is the transient pre-purchase selection state of one account.
// It is created lazily on the first add and one cart exists per account.
type Cart struct {
	ID        string     `json:"id" db:"id"`
	AccountID string     `json:"account_id" db:"account_id"`
	Items     []CartItem `json:"items" db:"-"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// TotalPrice sums the prices of items still in the cart
func (c *Cart) TotalPrice() float64 {
	var total float64
	for _, item := range c.Items {
		if item.State == CartItemInCart {
			total += item.Price
		}
	}
	return total
}

// CartItem is a package selection inside a cart, with the price computed
// at add time from the package base price and the optional promotion.
type CartItem struct {
	ID          string        `json:"id" db:"id"`
	CartID      string        `json:"cart_id" db:"cart_id"`
	PackageID   string        `json:"package_id" db:"package_id"`
	PromotionID *string       `json:"promotion_id,omitempty" db:"promotion_id"`
	Price       float64       `json:"price" db:"price"` // must be >= 0
	State       CartItemState `json:"state" db:"state"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`
}
