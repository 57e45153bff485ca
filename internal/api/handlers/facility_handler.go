package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/zatekoja/fitbookingdesign/backend/internal/application/authz"
	"github.com/zatekoja/fitbookingdesign/backend/internal/application/services"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/entities"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/repositories"
	"github.com/zatekoja/fitbookingdesign/backend/pkg/listing"
)

// facilityListFields are the columns reachable from listing query parameters
var facilityListFields = []string{"name", "created_at", "rating", "review_count"}

// FacilityHandler handles facility endpoints
type FacilityHandler struct {
	facilityService *services.FacilityService
	resolver        *authz.OwnershipResolver
}

// NewFacilityHandler creates a new facility handler
func NewFacilityHandler(facilityService *services.FacilityService, resolver *authz.OwnershipResolver) *FacilityHandler {
	return &FacilityHandler{
		facilityService: facilityService,
		resolver:        resolver,
	}
}

type facilityRequest struct {
	BrandID     string             `json:"brand_id"`
	Name        string             `json:"name"`
	Address     *entities.Address  `json:"address"`
	Location    *entities.Location `json:"location"`
	PhoneNumber string             `json:"phone_number"`
	Email       string             `json:"email"`
	Description string             `json:"description"`
	Categories  []string           `json:"categories"`
	Photos      []string           `json:"photos"`
}

// CreateFacility handles POST /api/facilities
func (h *FacilityHandler) CreateFacility(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	var req facilityRequest
	if !decodeBody(w, r, &req) {
		return
	}

	// Creating a facility under a brand requires owning the brand
	if _, err := h.resolver.ResolveBrand(r.Context(), req.BrandID, identity); err != nil {
		respondWithAppError(w, err)
		return
	}

	facility := &entities.Facility{
		BrandID:     req.BrandID,
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
		Description: req.Description,
		Categories:  req.Categories,
		Photos:      req.Photos,
	}
	if req.Address != nil {
		facility.Address = *req.Address
	}
	if req.Location != nil {
		facility.Location = *req.Location
	}

	if err := h.facilityService.CreateFacility(r.Context(), facility); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, facility)
}

// GetFacility handles GET /api/facilities/{id}
func (h *FacilityHandler) GetFacility(w http.ResponseWriter, r *http.Request) {
	facilityID := r.PathValue("id")
	if facilityID == "" {
		respondWithError(w, http.StatusBadRequest, "facility ID is required")
		return
	}

	facility, err := h.facilityService.GetFacility(r.Context(), facilityID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, facility)
}

// ListFacilities handles GET /api/facilities
func (h *FacilityHandler) ListFacilities(w http.ResponseWriter, r *http.Request) {
	opts := listing.ParseOptions(r.URL.Query(), facilityListFields...)
	if opts.Limit == 0 {
		opts.Limit = 20
	}

	facilities, err := h.facilityService.ListFacilities(r.Context(), opts)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"facilities": facilities,
		"count":      len(facilities),
	})
}

// ListMyFacilities handles GET /api/owner/facilities
func (h *FacilityHandler) ListMyFacilities(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	facilities, err := h.facilityService.ListFacilitiesByOwner(r.Context(), identity.ID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"facilities": facilities,
		"count":      len(facilities),
	})
}

// SearchFacilities handles GET /api/facilities/search
func (h *FacilityHandler) SearchFacilities(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, offset := pageParams(r)

	params := repositories.FacilitySearchParams{
		Query:  query.Get("q"),
		Limit:  limit,
		Offset: offset,
	}
	if categories := query.Get("categories"); categories != "" {
		params.Categories = strings.Split(categories, ",")
	}
	if minRating, err := strconv.ParseFloat(query.Get("min_rating"), 64); err == nil {
		params.MinRating = &minRating
	}

	facilities, total, err := h.facilityService.SearchFacilities(r.Context(), params)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"facilities": facilities,
		"count":      len(facilities),
		"total":      total,
	})
}

// UpdateFacility handles PATCH /api/facilities/{id}
func (h *FacilityHandler) UpdateFacility(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	facility, err := h.resolver.ResolveFacility(r.Context(), r.PathValue("id"), identity)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	var req facilityRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.Name != "" {
		facility.Name = req.Name
	}
	if req.Address != nil {
		facility.Address = *req.Address
	}
	if req.Location != nil {
		facility.Location = *req.Location
	}
	if req.PhoneNumber != "" {
		facility.PhoneNumber = req.PhoneNumber
	}
	if req.Email != "" {
		facility.Email = req.Email
	}
	if req.Description != "" {
		facility.Description = req.Description
	}
	if req.Categories != nil {
		facility.Categories = req.Categories
	}
	if req.Photos != nil {
		facility.Photos = req.Photos
	}

	if err := h.facilityService.UpdateFacility(r.Context(), facility); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, facility)
}

// ArchiveFacility handles DELETE /api/facilities/{id}
func (h *FacilityHandler) ArchiveFacility(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	facility, err := h.resolver.ResolveFacility(r.Context(), r.PathValue("id"), identity)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	if err := h.facilityService.ArchiveFacility(r.Context(), facility.ID); err != nil {
		respondWithAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
