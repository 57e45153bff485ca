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

// SubscriptionAdapter implements the SubscriptionRepository interface
type SubscriptionAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewSubscriptionAdapter creates a new subscription adapter
func NewSubscriptionAdapter(client *postgres.Client) repositories.SubscriptionRepository {
	return &SubscriptionAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var subscriptionColumns = []interface{}{
	"id", "account_id", "bill_item_id", "package_id", "facility_id",
	"expires_at", "status", "renew", "created_at", "updated_at",
}

func scanSubscription(scanner interface{ Scan(...interface{}) error }) (*entities.Subscription, error) {
	subscription := &entities.Subscription{}
	err := scanner.Scan(
		&subscription.ID,
		&subscription.AccountID,
		&subscription.BillItemID,
		&subscription.PackageID,
		&subscription.FacilityID,
		&subscription.ExpiresAt,
		&subscription.Status,
		&subscription.Renew,
		&subscription.CreatedAt,
		&subscription.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return subscription, nil
}

// GetByID retrieves a subscription by ID
func (a *SubscriptionAdapter) GetByID(ctx context.Context, id string) (*entities.Subscription, error) {
	query, args, err := a.db.Select(subscriptionColumns...).From("subscriptions").Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	subscription, err := scanSubscription(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("subscription with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get subscription", err)
	}

	return subscription, nil
}

// ListByAccount retrieves the subscriptions of an account
func (a *SubscriptionAdapter) ListByAccount(ctx context.Context, accountID string) ([]*entities.Subscription, error) {
	return a.list(ctx, goqu.Ex{"account_id": accountID})
}

// ListByFacility retrieves the subscriptions held against a facility
func (a *SubscriptionAdapter) ListByFacility(ctx context.Context, facilityID string) ([]*entities.Subscription, error) {
	return a.list(ctx, goqu.Ex{"facility_id": facilityID})
}

func (a *SubscriptionAdapter) list(ctx context.Context, where goqu.Ex) ([]*entities.Subscription, error) {
	query, args, err := a.db.Select(subscriptionColumns...).From("subscriptions").
		Where(where).
		Order(goqu.I("created_at").Desc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list subscriptions", err)
	}
	defer rows.Close()

	var subscriptions []*entities.Subscription
	for rows.Next() {
		subscription, err := scanSubscription(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan subscription", err)
		}
		subscriptions = append(subscriptions, subscription)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate subscriptions", err)
	}

	return subscriptions, nil
}

// Update updates a subscription
func (a *SubscriptionAdapter) Update(ctx context.Context, subscription *entities.Subscription) error {
	subscription.UpdatedAt = time.Now()

	record := goqu.Record{
		"expires_at": subscription.ExpiresAt,
		"status":     subscription.Status,
		"renew":      subscription.Renew,
		"updated_at": subscription.UpdatedAt,
	}

	query, args, err := a.db.Update("subscriptions").Set(record).Where(goqu.Ex{"id": subscription.ID}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update subscription", err)
	}

	return requireRowsAffected(result, fmt.Sprintf("subscription with id %s not found", subscription.ID))
}

// ExpireDue flips ACTIVE subscriptions past their expiry to INACTIVE and
// returns the affected rows so the caller can publish expiry events.
func (a *SubscriptionAdapter) ExpireDue(ctx context.Context, now time.Time) ([]*entities.Subscription, error) {
	record := goqu.Record{
		"status":     entities.SubscriptionInactive,
		"updated_at": now,
	}

	query, args, err := a.db.Update("subscriptions").Set(record).
		Where(goqu.Ex{"status": entities.SubscriptionActive}, goqu.C("expires_at").Lt(now)).
		Returning(subscriptionColumns...).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build update query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to expire subscriptions", err)
	}
	defer rows.Close()

	var expired []*entities.Subscription
	for rows.Next() {
		subscription, err := scanSubscription(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan subscription", err)
		}
		expired = append(expired, subscription)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate expired subscriptions", err)
	}

	return expired, nil
}
