package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/zatekoja/fitbookingdesign/backend/internal/api/handlers"
	"github.com/zatekoja/fitbookingdesign/backend/internal/application/authz"
	"github.com/zatekoja/fitbookingdesign/backend/internal/application/services"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/entities"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/repositories"
	apperrors "github.com/zatekoja/fitbookingdesign/backend/pkg/errors"
)

type MockPurchaseStore struct {
	mock.Mock
}

func (m *MockPurchaseStore) Purchase(ctx context.Context, req repositories.PurchaseRequest) (*repositories.PurchaseResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.PurchaseResult), args.Error(1)
}

type MockBillRepo struct {
	mock.Mock
}

func (m *MockBillRepo) GetByID(ctx context.Context, id string) (*entities.Bill, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Bill), args.Error(1)
}

func (m *MockBillRepo) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*entities.Bill, error) {
	args := m.Called(ctx, accountID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Bill), args.Error(1)
}

func authenticatedRequest(method, target, body string, identity authz.Identity) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return req.WithContext(authz.WithIdentity(req.Context(), identity))
}

func member(id string) authz.Identity {
	return authz.Identity{ID: id, Roles: []entities.Role{entities.RoleMember}}
}

func TestPurchaseHandler_Purchase_Succeeds(t *testing.T) {
	store := new(MockPurchaseStore)
	store.On("Purchase", mock.Anything, mock.MatchedBy(func(req repositories.PurchaseRequest) bool {
		return req.AccountID == "user-1" && len(req.CartItemIDs) == 1 && req.AssertedTotal == 50
	})).Return(&repositories.PurchaseResult{
		Bill: &entities.Bill{ID: "bill-1", AccountID: "user-1", TotalPrice: 50,
			Items: []entities.BillItem{{ID: "bi-1"}}},
		Subscriptions: []*entities.Subscription{{ID: "sub-1", AccountID: "user-1"}},
	}, nil)

	service := services.NewPurchaseService(store, new(MockBillRepo), nil, nil)
	handler := handlers.NewPurchaseHandler(service)

	req := authenticatedRequest(http.MethodPost, "/api/purchase",
		`{"cart_item_ids":["item-1"],"total_price":50}`, member("user-1"))
	rec := httptest.NewRecorder()
	handler.Purchase(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var response struct {
		Bill          *entities.Bill           `json:"bill"`
		Subscriptions []*entities.Subscription `json:"subscriptions"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "bill-1", response.Bill.ID)
	assert.Len(t, response.Subscriptions, 1)
	store.AssertExpectations(t)
}

func TestPurchaseHandler_Purchase_RequiresAuthentication(t *testing.T) {
	service := services.NewPurchaseService(new(MockPurchaseStore), new(MockBillRepo), nil, nil)
	handler := handlers.NewPurchaseHandler(service)

	req := httptest.NewRequest(http.MethodPost, "/api/purchase", strings.NewReader(`{"cart_item_ids":["item-1"]}`))
	rec := httptest.NewRecorder()
	handler.Purchase(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPurchaseHandler_Purchase_ConflictMapsTo409(t *testing.T) {
	store := new(MockPurchaseStore)
	store.On("Purchase", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewConflictError("cart item item-1 is no longer in the cart"))

	service := services.NewPurchaseService(store, new(MockBillRepo), nil, nil)
	handler := handlers.NewPurchaseHandler(service)

	req := authenticatedRequest(http.MethodPost, "/api/purchase",
		`{"cart_item_ids":["item-1"],"total_price":50}`, member("user-1"))
	rec := httptest.NewRecorder()
	handler.Purchase(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)

	var response map[string]string
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Contains(t, response["error"], "item-1")
}

func TestPurchaseHandler_Purchase_EmptyItemsMapsTo400(t *testing.T) {
	service := services.NewPurchaseService(new(MockPurchaseStore), new(MockBillRepo), nil, nil)
	handler := handlers.NewPurchaseHandler(service)

	req := authenticatedRequest(http.MethodPost, "/api/purchase",
		`{"cart_item_ids":[],"total_price":0}`, member("user-1"))
	rec := httptest.NewRecorder()
	handler.Purchase(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPurchaseHandler_GetBill_ForeignBillMapsTo403(t *testing.T) {
	bills := new(MockBillRepo)
	bills.On("GetByID", mock.Anything, "bill-1").Return(&entities.Bill{
		ID:        "bill-1",
		AccountID: "someone-else",
	}, nil)

	service := services.NewPurchaseService(new(MockPurchaseStore), bills, nil, nil)
	handler := handlers.NewPurchaseHandler(service)

	req := authenticatedRequest(http.MethodGet, "/api/bills/bill-1", "", member("user-1"))
	req.SetPathValue("id", "bill-1")
	rec := httptest.NewRecorder()
	handler.GetBill(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPurchaseHandler_ListBills_ReturnsAccountHistory(t *testing.T) {
	bills := new(MockBillRepo)
	bills.On("ListByAccount", mock.Anything, "user-1", 20, 0).Return([]*entities.Bill{
		{ID: "bill-1", AccountID: "user-1"},
		{ID: "bill-2", AccountID: "user-1"},
	}, nil)

	service := services.NewPurchaseService(new(MockPurchaseStore), bills, nil, nil)
	handler := handlers.NewPurchaseHandler(service)

	req := authenticatedRequest(http.MethodGet, "/api/bills", "", member("user-1"))
	rec := httptest.NewRecorder()
	handler.ListBills(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response struct {
		Bills []*entities.Bill `json:"bills"`
		Count int              `json:"count"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, 2, response.Count)
}
