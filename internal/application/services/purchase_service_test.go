package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/zatekoja/fitbookingdesign/backend/internal/application/services"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/entities"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/repositories"
	apperrors "github.com/zatekoja/fitbookingdesign/backend/pkg/errors"
)

func TestPurchaseService_EmptyItemsRejectedBeforeStore(t *testing.T) {
	store := &MockPurchaseStore{}
	service := services.NewPurchaseService(store, &MockBillRepo{}, nil, nil)

	_, err := service.Purchase(context.Background(), "account-1", nil, 0)

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	store.AssertNotCalled(t, "Purchase", mock.Anything, mock.Anything)
}

func TestPurchaseService_DeduplicatesItemIDs(t *testing.T) {
	store := &MockPurchaseStore{}
	result := &repositories.PurchaseResult{
		Bill: &entities.Bill{ID: "bill-1", AccountID: "account-1", TotalPrice: 50,
			Items: []entities.BillItem{{ID: "bi-1"}}},
		Subscriptions: []*entities.Subscription{{ID: "sub-1"}},
	}
	store.On("Purchase", mock.Anything, mock.MatchedBy(func(req repositories.PurchaseRequest) bool {
		return len(req.CartItemIDs) == 2 &&
			req.CartItemIDs[0] == "item-1" && req.CartItemIDs[1] == "item-2" &&
			req.AssertedTotal == 50
	})).Return(result, nil)

	service := services.NewPurchaseService(store, &MockBillRepo{}, nil, nil)

	got, err := service.Purchase(context.Background(), "account-1", []string{"item-1", "item-2", "item-1", ""}, 50)

	assert.NoError(t, err)
	assert.Equal(t, "bill-1", got.Bill.ID)
	store.AssertExpectations(t)
}

func TestPurchaseService_PublishesEventAfterPurchase(t *testing.T) {
	store := &MockPurchaseStore{}
	bus := &MockEventBus{}
	result := &repositories.PurchaseResult{
		Bill: &entities.Bill{ID: "bill-1", AccountID: "account-1", TotalPrice: 75,
			Items: []entities.BillItem{{ID: "bi-1"}, {ID: "bi-2"}}},
		Subscriptions: []*entities.Subscription{{ID: "sub-1"}, {ID: "sub-2"}},
	}
	store.On("Purchase", mock.Anything, mock.Anything).Return(result, nil)
	bus.On("Publish", mock.Anything, services.EventChannelPurchases, mock.MatchedBy(func(event *entities.DomainEvent) bool {
		return event.Type == entities.EventPurchaseCompleted && event.AccountID == "account-1"
	})).Return(nil)

	service := services.NewPurchaseService(store, &MockBillRepo{}, bus, nil)

	_, err := service.Purchase(context.Background(), "account-1", []string{"item-1", "item-2"}, 75)

	assert.NoError(t, err)
	bus.AssertExpectations(t)
}

func TestPurchaseService_StoreFailurePublishesNothing(t *testing.T) {
	store := &MockPurchaseStore{}
	bus := &MockEventBus{}
	store.On("Purchase", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewConflictError("cart item item-1 is no longer in the cart"))

	service := services.NewPurchaseService(store, &MockBillRepo{}, bus, nil)

	_, err := service.Purchase(context.Background(), "account-1", []string{"item-1"}, 50)

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
	bus.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestPurchaseService_GetBill_ForeignBillForbidden(t *testing.T) {
	bills := &MockBillRepo{}
	bills.On("GetByID", mock.Anything, "bill-1").Return(&entities.Bill{
		ID:        "bill-1",
		AccountID: "someone-else",
	}, nil)

	service := services.NewPurchaseService(&MockPurchaseStore{}, bills, nil, nil)

	_, err := service.GetBill(context.Background(), "account-1", "bill-1")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeForbidden))
}

func TestPurchaseService_GetBill_OwnerAllowed(t *testing.T) {
	bills := &MockBillRepo{}
	bills.On("GetByID", mock.Anything, "bill-1").Return(&entities.Bill{
		ID:        "bill-1",
		AccountID: "account-1",
	}, nil)

	service := services.NewPurchaseService(&MockPurchaseStore{}, bills, nil, nil)

	bill, err := service.GetBill(context.Background(), "account-1", "bill-1")
	assert.NoError(t, err)
	assert.Equal(t, "bill-1", bill.ID)
}
