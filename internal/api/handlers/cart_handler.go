package handlers

import (
	"net/http"

	"github.com/zatekoja/fitbookingdesign/backend/internal/application/services"
)

// CartHandler handles cart endpoints. Every operation is scoped to the
// authenticated caller's own cart.
type CartHandler struct {
	cartService *services.CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *services.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// GetCart handles GET /api/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	cart, err := h.cartService.GetCart(r.Context(), identity.ID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, cart)
}

type addItemRequest struct {
	PackageID     string `json:"package_id"`
	PromotionCode string `json:"promotion_code"`
}

// AddItem handles POST /api/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	var req addItemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.PackageID == "" {
		respondWithError(w, http.StatusBadRequest, "package ID is required")
		return
	}

	item, err := h.cartService.AddItem(r.Context(), identity.ID, req.PackageID, req.PromotionCode)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, item)
}

// RemoveItem handles DELETE /api/cart/items/{id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	itemID := r.PathValue("id")
	if itemID == "" {
		respondWithError(w, http.StatusBadRequest, "cart item ID is required")
		return
	}

	if err := h.cartService.RemoveItem(r.Context(), identity.ID, itemID); err != nil {
		respondWithAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type updateItemPromotionRequest struct {
	PromotionCode string `json:"promotion_code"`
}

// UpdateItemPromotion handles PATCH /api/cart/items/{id}. An empty code
// clears the promotion and restores the base package price.
func (h *CartHandler) UpdateItemPromotion(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	itemID := r.PathValue("id")
	if itemID == "" {
		respondWithError(w, http.StatusBadRequest, "cart item ID is required")
		return
	}

	var req updateItemPromotionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	item, err := h.cartService.UpdateItemPromotion(r.Context(), identity.ID, itemID, req.PromotionCode)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, item)
}
