package handlers

import (
	"net/http"

	"github.com/zatekoja/fitbookingdesign/backend/internal/application/services"
)

// PurchaseHandler handles purchase and bill endpoints
type PurchaseHandler struct {
	purchaseService *services.PurchaseService
}

// NewPurchaseHandler creates a new purchase handler
func NewPurchaseHandler(purchaseService *services.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: purchaseService}
}

type purchaseRequest struct {
	CartItemIDs []string `json:"cart_item_ids"`
	TotalPrice  float64  `json:"total_price"`
}

// Purchase handles POST /api/purchase. The client sends the total it
// displayed; a mismatch against the server-side recomputation rejects the
// purchase.
func (h *PurchaseHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	var req purchaseRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.purchaseService.Purchase(r.Context(), identity.ID, req.CartItemIDs, req.TotalPrice)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"bill":          result.Bill,
		"subscriptions": result.Subscriptions,
	})
}

// GetBill handles GET /api/bills/{id}
func (h *PurchaseHandler) GetBill(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	billID := r.PathValue("id")
	if billID == "" {
		respondWithError(w, http.StatusBadRequest, "bill ID is required")
		return
	}

	bill, err := h.purchaseService.GetBill(r.Context(), identity.ID, billID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, bill)
}

// ListBills handles GET /api/bills
func (h *PurchaseHandler) ListBills(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	limit, offset := pageParams(r)
	bills, err := h.purchaseService.ListBills(r.Context(), identity.ID, limit, offset)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"bills": bills,
		"count": len(bills),
	})
}
