package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/entities"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/providers"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/repositories"
	"github.com/zatekoja/fitbookingdesign/backend/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/fitbookingdesign/backend/pkg/errors"
)

// PurchaseService converts carts into bills and subscriptions
type PurchaseService struct {
	store    repositories.PurchaseStore
	bills    repositories.BillRepository
	eventBus providers.EventBus
	metrics  *observability.Metrics
}

// NewPurchaseService creates a new purchase service. EventBus and metrics
// may be nil.
func NewPurchaseService(
	store repositories.PurchaseStore,
	bills repositories.BillRepository,
	eventBus providers.EventBus,
	metrics *observability.Metrics,
) *PurchaseService {
	return &PurchaseService{
		store:    store,
		bills:    bills,
		eventBus: eventBus,
		metrics:  metrics,
	}
}

// purchasePayload is the event body published after a completed purchase
type purchasePayload struct {
	BillID        string   `json:"bill_id"`
	TotalPrice    float64  `json:"total_price"`
	Subscriptions []string `json:"subscriptions"`
}

// Purchase buys the given cart items. Item IDs are deduplicated; the store
// re-verifies ownership and state under its transaction, so a failure on any
// item leaves nothing persisted.
func (s *PurchaseService) Purchase(ctx context.Context, accountID string, itemIDs []string, assertedTotal float64) (*repositories.PurchaseResult, error) {
	deduped := dedupe(itemIDs)
	if len(deduped) == 0 {
		return nil, apperrors.NewValidationError("purchase requires at least one cart item")
	}

	result, err := s.store.Purchase(ctx, repositories.PurchaseRequest{
		AccountID:     accountID,
		CartItemIDs:   deduped,
		AssertedTotal: assertedTotal,
		Now:           time.Now(),
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		observability.RecordPurchase(ctx, s.metrics, result.Bill.TotalPrice, len(result.Bill.Items))
	}
	s.publishPurchaseEvent(ctx, result)

	return result, nil
}

// GetBill retrieves a bill, restricted to its owner
func (s *PurchaseService) GetBill(ctx context.Context, accountID, billID string) (*entities.Bill, error) {
	bill, err := s.bills.GetByID(ctx, billID)
	if err != nil {
		return nil, err
	}
	if bill.AccountID != accountID {
		return nil, apperrors.NewForbiddenError("bill does not belong to the caller")
	}
	return bill, nil
}

// ListBills retrieves the purchase history of an account
func (s *PurchaseService) ListBills(ctx context.Context, accountID string, limit, offset int) ([]*entities.Bill, error) {
	return s.bills.ListByAccount(ctx, accountID, limit, offset)
}

func (s *PurchaseService) publishPurchaseEvent(ctx context.Context, result *repositories.PurchaseResult) {
	if s.eventBus == nil {
		return
	}

	subscriptionIDs := make([]string, len(result.Subscriptions))
	for i, sub := range result.Subscriptions {
		subscriptionIDs[i] = sub.ID
	}

	payload, err := json.Marshal(purchasePayload{
		BillID:        result.Bill.ID,
		TotalPrice:    result.Bill.TotalPrice,
		Subscriptions: subscriptionIDs,
	})
	if err != nil {
		log.Warn().Err(err).Str("bill_id", result.Bill.ID).Msg("Failed to marshal purchase event")
		return
	}

	event := &entities.DomainEvent{
		ID:         uuid.New().String(),
		Type:       entities.EventPurchaseCompleted,
		AccountID:  result.Bill.AccountID,
		Payload:    payload,
		OccurredAt: time.Now(),
	}
	if err := s.eventBus.Publish(ctx, EventChannelPurchases, event); err != nil {
		log.Warn().Err(err).Str("bill_id", result.Bill.ID).Msg("Failed to publish purchase event")
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
