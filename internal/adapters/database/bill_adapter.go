package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/entities"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/repositories"
	"github.com/zatekoja/fitbookingdesign/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/fitbookingdesign/backend/pkg/errors"
)

// BillAdapter implements the BillRepository interface. Bills are written
// only by the purchase store; this adapter is read-only.
type BillAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewBillAdapter creates a new bill adapter
func NewBillAdapter(client *postgres.Client) repositories.BillRepository {
	return &BillAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var billItemColumns = []interface{}{
	"id", "bill_id", "cart_item_id", "facility_id", "package_id",
	"brand_name", "facility_name", "package_name", "package_price",
	"promotion_code", "final_price", "duration_days", "created_at",
}

func scanBillItem(scanner interface{ Scan(...interface{}) error }) (*entities.BillItem, error) {
	item := &entities.BillItem{}
	var promotionCode sql.NullString

	err := scanner.Scan(
		&item.ID,
		&item.BillID,
		&item.CartItemID,
		&item.FacilityID,
		&item.PackageID,
		&item.BrandName,
		&item.FacilityName,
		&item.PackageName,
		&item.PackagePrice,
		&promotionCode,
		&item.FinalPrice,
		&item.DurationDays,
		&item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if promotionCode.Valid {
		item.PromotionCode = &promotionCode.String
	}
	return item, nil
}

// GetByID retrieves a bill with its items
func (a *BillAdapter) GetByID(ctx context.Context, id string) (*entities.Bill, error) {
	query, args, err := a.db.Select("id", "account_id", "total_price", "created_at").
		From("bills").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	bill := &entities.Bill{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&bill.ID,
		&bill.AccountID,
		&bill.TotalPrice,
		&bill.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("bill with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get bill", err)
	}

	items, err := a.listItems(ctx, bill.ID)
	if err != nil {
		return nil, err
	}
	bill.Items = items

	return bill, nil
}

// ListByAccount retrieves the bills of an account, newest first. Items are
// loaded per bill; purchase history pages are small enough for that.
func (a *BillAdapter) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*entities.Bill, error) {
	ds := a.db.Select("id", "account_id", "total_price", "created_at").
		From("bills").
		Where(goqu.Ex{"account_id": accountID}).
		Order(goqu.I("created_at").Desc())
	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}
	if offset > 0 {
		ds = ds.Offset(uint(offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list bills", err)
	}
	defer rows.Close()

	var bills []*entities.Bill
	for rows.Next() {
		bill := &entities.Bill{}
		if err := rows.Scan(&bill.ID, &bill.AccountID, &bill.TotalPrice, &bill.CreatedAt); err != nil {
			return nil, apperrors.NewInternalError("failed to scan bill", err)
		}
		bills = append(bills, bill)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate bills", err)
	}

	for _, bill := range bills {
		items, err := a.listItems(ctx, bill.ID)
		if err != nil {
			return nil, err
		}
		bill.Items = items
	}

	return bills, nil
}

func (a *BillAdapter) listItems(ctx context.Context, billID string) ([]entities.BillItem, error) {
	query, args, err := a.db.Select(billItemColumns...).From("bill_items").
		Where(goqu.Ex{"bill_id": billID}).
		Order(goqu.I("created_at").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list bill items", err)
	}
	defer rows.Close()

	var items []entities.BillItem
	for rows.Next() {
		item, err := scanBillItem(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan bill item", err)
		}
		items = append(items, *item)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate bill items", err)
	}

	return items, nil
}
