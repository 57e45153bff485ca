package database

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/entities"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/repositories"
	"github.com/zatekoja/fitbookingdesign/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/fitbookingdesign/backend/pkg/errors"
)

// totalTolerance absorbs float rounding when comparing the client total
// against the recomputed one
const totalTolerance = 0.005

// PurchaseAdapter implements the PurchaseStore interface. The whole
// purchase runs in one transaction with the cart items locked, so a
// concurrent purchase of the same items blocks and then fails the
// IN_CART check instead of double-billing.
type PurchaseAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewPurchaseAdapter creates a new purchase adapter
func NewPurchaseAdapter(client *postgres.Client) repositories.PurchaseStore {
	return &PurchaseAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// purchaseLine couples a locked cart item with the catalog rows backing it
type purchaseLine struct {
	Item      *entities.CartItem
	Package   *entities.Package
	Facility  *entities.Facility
	Brand     *entities.Brand
	Promotion *entities.Promotion // nil when the item carries none
}

// Purchase converts the requested cart items into a bill, bill items and
// subscriptions as one atomic unit
func (a *PurchaseAdapter) Purchase(ctx context.Context, req repositories.PurchaseRequest) (*repositories.PurchaseResult, error) {
	if len(req.CartItemIDs) == 0 {
		return nil, apperrors.NewValidationError("purchase requires at least one cart item")
	}

	tx, err := a.client.BeginTx(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	lines, err := a.lockLines(ctx, tx, req)
	if err != nil {
		return nil, err
	}

	bill, subscriptions, err := buildPurchase(req, lines)
	if err != nil {
		return nil, err
	}

	if err := a.persist(ctx, tx, bill, subscriptions, lines); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, apperrors.NewInternalError("failed to commit purchase", err)
	}

	return &repositories.PurchaseResult{Bill: bill, Subscriptions: subscriptions}, nil
}

// lockLines locks the requested cart items and re-verifies, under the
// transaction, that each one exists, belongs to the calling account and is
// still IN_CART. It then loads the catalog rows each item references.
func (a *PurchaseAdapter) lockLines(ctx context.Context, tx queryer, req repositories.PurchaseRequest) ([]purchaseLine, error) {
	query, args, err := a.db.Select(
		goqu.I("cart_items.id"),
		goqu.I("cart_items.cart_id"),
		goqu.I("cart_items.package_id"),
		goqu.I("cart_items.promotion_id"),
		goqu.I("cart_items.price"),
		goqu.I("cart_items.state"),
		goqu.I("cart_items.created_at"),
		goqu.I("cart_items.updated_at"),
		goqu.I("carts.account_id"),
	).From("cart_items").
		Join(goqu.T("carts"), goqu.On(goqu.Ex{"cart_items.cart_id": goqu.I("carts.id")})).
		Where(goqu.I("cart_items.id").In(toInterfaces(req.CartItemIDs)...)).
		ForUpdate(exp.Wait).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to lock cart items", err)
	}
	defer rows.Close()

	type lockedItem struct {
		item      *entities.CartItem
		accountID string
	}
	locked := make(map[string]lockedItem, len(req.CartItemIDs))
	for rows.Next() {
		item := &entities.CartItem{}
		var promotionID *string
		var accountID string
		if err := rows.Scan(
			&item.ID,
			&item.CartID,
			&item.PackageID,
			&promotionID,
			&item.Price,
			&item.State,
			&item.CreatedAt,
			&item.UpdatedAt,
			&accountID,
		); err != nil {
			return nil, apperrors.NewInternalError("failed to scan cart item", err)
		}
		item.PromotionID = promotionID
		locked[item.ID] = lockedItem{item: item, accountID: accountID}
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate cart items", err)
	}

	seen := make(map[string]bool, len(req.CartItemIDs))
	lines := make([]purchaseLine, 0, len(req.CartItemIDs))
	for _, id := range req.CartItemIDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		entry, ok := locked[id]
		if !ok {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("cart item with id %s not found", id))
		}
		if entry.accountID != req.AccountID {
			return nil, apperrors.NewForbiddenError(fmt.Sprintf("cart item %s does not belong to the caller", id))
		}
		if entry.item.State != entities.CartItemInCart {
			return nil, apperrors.NewConflictError(fmt.Sprintf("cart item %s is no longer in the cart", id))
		}

		line, err := a.loadLine(ctx, tx, entry.item)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	return lines, nil
}

// queryer is the subset of sql.Tx the purchase path uses
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func (a *PurchaseAdapter) loadLine(ctx context.Context, tx queryer, item *entities.CartItem) (purchaseLine, error) {
	line := purchaseLine{Item: item}

	pkg, err := a.getPackage(ctx, tx, item.PackageID)
	if err != nil {
		return line, err
	}
	line.Package = pkg

	facility, err := a.getFacility(ctx, tx, pkg.FacilityID)
	if err != nil {
		return line, err
	}
	line.Facility = facility

	brand, err := a.getBrand(ctx, tx, facility.BrandID)
	if err != nil {
		return line, err
	}
	line.Brand = brand

	if item.PromotionID != nil {
		promotion, err := a.getPromotion(ctx, tx, *item.PromotionID)
		if err != nil {
			return line, err
		}
		line.Promotion = promotion
	}

	return line, nil
}

// buildPurchase computes the authoritative bill from current catalog data.
// It is pure so the pricing and snapshot rules are testable without a
// database. A client total that disagrees with the recomputed total fails
// the whole purchase.
func buildPurchase(req repositories.PurchaseRequest, lines []purchaseLine) (*entities.Bill, []*entities.Subscription, error) {
	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}

	var total float64
	finals := make([]float64, len(lines))
	for i, line := range lines {
		if !line.Package.IsActive {
			return nil, nil, apperrors.NewConflictError(fmt.Sprintf("package %s is no longer available", line.Package.ID))
		}
		if !line.Facility.IsActive {
			return nil, nil, apperrors.NewConflictError(fmt.Sprintf("facility %s is no longer available", line.Facility.ID))
		}

		final := line.Package.Price
		if line.Promotion != nil {
			if !line.Promotion.IsValid() {
				return nil, nil, apperrors.NewConflictError(fmt.Sprintf("promotion %s is no longer valid", line.Promotion.Code))
			}
			if !line.Promotion.AppliesTo(line.Facility.ID) {
				return nil, nil, apperrors.NewConflictError(fmt.Sprintf("promotion %s does not apply to facility %s", line.Promotion.Code, line.Facility.ID))
			}
			final = line.Promotion.Apply(final)
		}
		finals[i] = final
		total += final
	}

	if math.Abs(total-req.AssertedTotal) > totalTolerance {
		return nil, nil, apperrors.NewValidationError(
			fmt.Sprintf("cart total mismatch: expected %.2f, got %.2f", total, req.AssertedTotal))
	}

	bill := &entities.Bill{
		ID:         uuid.New().String(),
		AccountID:  req.AccountID,
		TotalPrice: total,
		CreatedAt:  now,
	}

	subscriptions := make([]*entities.Subscription, 0, len(lines))
	for i, line := range lines {
		billItem := entities.BillItem{
			ID:           uuid.New().String(),
			BillID:       bill.ID,
			CartItemID:   line.Item.ID,
			FacilityID:   line.Facility.ID,
			PackageID:    line.Package.ID,
			BrandName:    line.Brand.Name,
			FacilityName: line.Facility.Name,
			PackageName:  line.Package.Name,
			PackagePrice: line.Package.Price,
			FinalPrice:   finals[i],
			DurationDays: line.Package.DurationDays,
			CreatedAt:    now,
		}
		if line.Promotion != nil {
			code := line.Promotion.Code
			billItem.PromotionCode = &code
		}
		bill.Items = append(bill.Items, billItem)

		subscriptions = append(subscriptions, &entities.Subscription{
			ID:         uuid.New().String(),
			AccountID:  req.AccountID,
			BillItemID: billItem.ID,
			PackageID:  line.Package.ID,
			FacilityID: line.Facility.ID,
			ExpiresAt:  now.AddDate(0, 0, line.Package.DurationDays),
			Status:     entities.SubscriptionActive,
			Renew:      false,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}

	return bill, subscriptions, nil
}

func (a *PurchaseAdapter) persist(ctx context.Context, tx queryer, bill *entities.Bill, subscriptions []*entities.Subscription, lines []purchaseLine) error {
	billRecord := goqu.Record{
		"id":          bill.ID,
		"account_id":  bill.AccountID,
		"total_price": bill.TotalPrice,
		"created_at":  bill.CreatedAt,
	}
	if err := a.exec(ctx, tx, a.db.Insert("bills").Rows(billRecord), "failed to create bill"); err != nil {
		return err
	}

	for _, item := range bill.Items {
		record := goqu.Record{
			"id":             item.ID,
			"bill_id":        item.BillID,
			"cart_item_id":   item.CartItemID,
			"facility_id":    item.FacilityID,
			"package_id":     item.PackageID,
			"brand_name":     item.BrandName,
			"facility_name":  item.FacilityName,
			"package_name":   item.PackageName,
			"package_price":  item.PackagePrice,
			"promotion_code": item.PromotionCode,
			"final_price":    item.FinalPrice,
			"duration_days":  item.DurationDays,
			"created_at":     item.CreatedAt,
		}
		if err := a.exec(ctx, tx, a.db.Insert("bill_items").Rows(record), "failed to create bill item"); err != nil {
			return err
		}
	}

	for _, subscription := range subscriptions {
		record := goqu.Record{
			"id":           subscription.ID,
			"account_id":   subscription.AccountID,
			"bill_item_id": subscription.BillItemID,
			"package_id":   subscription.PackageID,
			"facility_id":  subscription.FacilityID,
			"expires_at":   subscription.ExpiresAt,
			"status":       subscription.Status,
			"renew":        subscription.Renew,
			"created_at":   subscription.CreatedAt,
			"updated_at":   subscription.UpdatedAt,
		}
		if err := a.exec(ctx, tx, a.db.Insert("subscriptions").Rows(record), "failed to create subscription"); err != nil {
			return err
		}
	}

	for _, line := range lines {
		update := a.db.Update("cart_items").Set(goqu.Record{
			"state":      entities.CartItemPurchased,
			"updated_at": bill.CreatedAt,
		}).Where(goqu.Ex{"id": line.Item.ID})
		if err := a.exec(ctx, tx, update, "failed to mark cart item purchased"); err != nil {
			return err
		}

		if line.Promotion != nil {
			bump := a.db.Update("promotions").Set(goqu.Record{
				"current_uses": goqu.L("current_uses + 1"),
				"updated_at":   bill.CreatedAt,
			}).Where(goqu.Ex{"id": line.Promotion.ID})
			if err := a.exec(ctx, tx, bump, "failed to record promotion use"); err != nil {
				return err
			}
		}
	}

	return nil
}

type sqlDataset interface {
	ToSQL() (string, []interface{}, error)
}

func (a *PurchaseAdapter) exec(ctx context.Context, tx queryer, ds sqlDataset, failMsg string) error {
	query, args, err := ds.ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build query", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError(failMsg, err)
	}
	return nil
}

func (a *PurchaseAdapter) getPackage(ctx context.Context, tx queryer, id string) (*entities.Package, error) {
	query, args, err := a.db.Select(packageColumns...).From("packages").Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}
	pkg, err := scanPackage(tx.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, notFoundOrInternal(err, fmt.Sprintf("package with id %s not found", id), "failed to get package")
	}
	return pkg, nil
}

func (a *PurchaseAdapter) getFacility(ctx context.Context, tx queryer, id string) (*entities.Facility, error) {
	query, args, err := a.db.Select(facilityColumns...).From("facilities").Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}
	facility, err := scanFacility(tx.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, notFoundOrInternal(err, fmt.Sprintf("facility with id %s not found", id), "failed to get facility")
	}
	return facility, nil
}

func (a *PurchaseAdapter) getBrand(ctx context.Context, tx queryer, id string) (*entities.Brand, error) {
	query, args, err := a.db.Select(brandColumns...).From("brands").Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}
	brand := &entities.Brand{}
	err = tx.QueryRowContext(ctx, query, args...).Scan(
		&brand.ID,
		&brand.OwnerID,
		&brand.Name,
		&brand.Description,
		&brand.CreatedAt,
		&brand.UpdatedAt,
	)
	if err != nil {
		return nil, notFoundOrInternal(err, fmt.Sprintf("brand with id %s not found", id), "failed to get brand")
	}
	return brand, nil
}

func (a *PurchaseAdapter) getPromotion(ctx context.Context, tx queryer, id string) (*entities.Promotion, error) {
	query, args, err := a.db.Select(promotionColumns...).From("promotions").Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}
	promotion, err := scanPromotion(tx.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, notFoundOrInternal(err, fmt.Sprintf("promotion with id %s not found", id), "failed to get promotion")
	}
	return promotion, nil
}

func toInterfaces(ids []string) []interface{} {
	out := make([]interface{}, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}
