package repositories

import (
	"context"
	"time"

	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/entities"
)

// PurchaseRequest describes one purchase attempt. AssertedTotal is the
// client-supplied total; the store recomputes the authoritative total from
// current package and promotion data and rejects on mismatch.
type PurchaseRequest struct {
	AccountID     string
	CartItemIDs   []string
	AssertedTotal float64
	Now           time.Time
}

// PurchaseResult carries the records created by a successful purchase
type PurchaseResult struct {
	Bill          *entities.Bill
	Subscriptions []*entities.Subscription
}

// PurchaseStore converts cart items into a bill and subscriptions as one
// atomic unit. Implementations must re-verify, under the transaction, that
// every item belongs to the calling account and is still IN_CART; any
// failed check aborts the whole purchase with nothing committed.
//
// Errors: Validation (total mismatch), Forbidden (foreign cart item),
// Conflict (item no longer available), NotFound (unresolved item).
type PurchaseStore interface {
	Purchase(ctx context.Context, req PurchaseRequest) (*PurchaseResult, error)
}

// BillRepository defines read access to bills
type BillRepository interface {
	GetByID(ctx context.Context, id string) (*entities.Bill, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*entities.Bill, error)
}

// SubscriptionRepository defines the interface for subscription operations
type SubscriptionRepository interface {
	GetByID(ctx context.Context, id string) (*entities.Subscription, error)
	ListByAccount(ctx context.Context, accountID string) ([]*entities.Subscription, error)
	ListByFacility(ctx context.Context, facilityID string) ([]*entities.Subscription, error)
	Update(ctx context.Context, subscription *entities.Subscription) error

	// ExpireDue flips ACTIVE subscriptions whose expiry has passed to
	// INACTIVE and returns the affected rows
	ExpireDue(ctx context.Context, now time.Time) ([]*entities.Subscription, error)
}
