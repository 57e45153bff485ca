package handlers

import (
	"net/http"
	"time"

	"github.com/zatekoja/fitbookingdesign/backend/internal/application/services"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/entities"
	"github.com/zatekoja/fitbookingdesign/backend/pkg/listing"
)

var promotionListFields = []string{"code", "created_at", "valid_from"}

// PromotionHandler handles promotion endpoints. Creation and maintenance
// are admin-only; lookup by code is open so members can check a code before
// adding it to the cart.
type PromotionHandler struct {
	promotionService *services.PromotionService
}

// NewPromotionHandler creates a new promotion handler
func NewPromotionHandler(promotionService *services.PromotionService) *PromotionHandler {
	return &PromotionHandler{promotionService: promotionService}
}

type promotionRequest struct {
	Code         string                `json:"code"`
	FacilityID   *string               `json:"facility_id"`
	DiscountType entities.DiscountType `json:"discount_type"`
	Amount       float64               `json:"amount"`
	MaxUses      *int                  `json:"max_uses"`
	ValidFrom    time.Time             `json:"valid_from"`
	ValidUntil   *time.Time            `json:"valid_until"`
}

// CreatePromotion handles POST /api/admin/promotions
func (h *PromotionHandler) CreatePromotion(w http.ResponseWriter, r *http.Request) {
	var req promotionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	promotion := &entities.Promotion{
		Code:         req.Code,
		FacilityID:   req.FacilityID,
		DiscountType: req.DiscountType,
		Amount:       req.Amount,
		MaxUses:      req.MaxUses,
		ValidFrom:    req.ValidFrom,
		ValidUntil:   req.ValidUntil,
	}
	if err := h.promotionService.Create(r.Context(), promotion); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, promotion)
}

// GetPromotionByCode handles GET /api/promotions/{code}
func (h *PromotionHandler) GetPromotionByCode(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if code == "" {
		respondWithError(w, http.StatusBadRequest, "promotion code is required")
		return
	}

	promotion, err := h.promotionService.GetByCode(r.Context(), code)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, promotion)
}

// ListPromotions handles GET /api/admin/promotions
func (h *PromotionHandler) ListPromotions(w http.ResponseWriter, r *http.Request) {
	opts := listing.ParseOptions(r.URL.Query(), promotionListFields...)
	if opts.Limit == 0 {
		opts.Limit = 20
	}

	promotions, err := h.promotionService.List(r.Context(), opts)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"promotions": promotions,
		"count":      len(promotions),
	})
}

// UpdatePromotion handles PATCH /api/admin/promotions/{id}
func (h *PromotionHandler) UpdatePromotion(w http.ResponseWriter, r *http.Request) {
	promotion, err := h.promotionService.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	var req promotionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.Code != "" {
		promotion.Code = req.Code
	}
	if req.DiscountType != "" {
		promotion.DiscountType = req.DiscountType
	}
	if req.Amount > 0 {
		promotion.Amount = req.Amount
	}
	if req.MaxUses != nil {
		promotion.MaxUses = req.MaxUses
	}
	if !req.ValidFrom.IsZero() {
		promotion.ValidFrom = req.ValidFrom
	}
	if req.ValidUntil != nil {
		promotion.ValidUntil = req.ValidUntil
	}

	if err := h.promotionService.Update(r.Context(), promotion); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, promotion)
}

// DeletePromotion handles DELETE /api/admin/promotions/{id}
func (h *PromotionHandler) DeletePromotion(w http.ResponseWriter, r *http.Request) {
	if err := h.promotionService.Delete(r.Context(), r.PathValue("id")); err != nil {
		respondWithAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
