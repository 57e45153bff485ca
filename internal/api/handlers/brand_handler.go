package handlers

import (
	"net/http"

	"github.com/zatekoja/fitbookingdesign/backend/internal/application/authz"
	"github.com/zatekoja/fitbookingdesign/backend/internal/application/services"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/entities"
)

// BrandHandler handles brand endpoints
type BrandHandler struct {
	facilityService *services.FacilityService
	resolver        *authz.OwnershipResolver
}

// NewBrandHandler creates a new brand handler
func NewBrandHandler(facilityService *services.FacilityService, resolver *authz.OwnershipResolver) *BrandHandler {
	return &BrandHandler{
		facilityService: facilityService,
		resolver:        resolver,
	}
}

type brandRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateBrand handles POST /api/brands
func (h *BrandHandler) CreateBrand(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	var req brandRequest
	if !decodeBody(w, r, &req) {
		return
	}

	brand := &entities.Brand{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := h.facilityService.CreateBrand(r.Context(), identity.ID, brand); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, brand)
}

// GetBrand handles GET /api/brands/{id}
func (h *BrandHandler) GetBrand(w http.ResponseWriter, r *http.Request) {
	brandID := r.PathValue("id")
	if brandID == "" {
		respondWithError(w, http.StatusBadRequest, "brand ID is required")
		return
	}

	brand, err := h.facilityService.GetBrand(r.Context(), brandID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, brand)
}

// ListMyBrands handles GET /api/brands
func (h *BrandHandler) ListMyBrands(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	brands, err := h.facilityService.ListBrandsByOwner(r.Context(), identity.ID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"brands": brands,
		"count":  len(brands),
	})
}

// UpdateBrand handles PATCH /api/brands/{id}
func (h *BrandHandler) UpdateBrand(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	brand, err := h.resolver.ResolveBrand(r.Context(), r.PathValue("id"), identity)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	var req brandRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.Name != "" {
		brand.Name = req.Name
	}
	if req.Description != "" {
		brand.Description = req.Description
	}

	if err := h.facilityService.UpdateBrand(r.Context(), brand); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, brand)
}
