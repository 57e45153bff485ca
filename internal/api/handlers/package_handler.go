package handlers

import (
	"net/http"

	"github.com/zatekoja/fitbookingdesign/backend/internal/application/authz"
	"github.com/zatekoja/fitbookingdesign/backend/internal/application/services"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/entities"
	"github.com/zatekoja/fitbookingdesign/backend/pkg/listing"
)

var packageListFields = []string{"name", "price", "created_at"}

// PackageHandler handles package and package type endpoints
type PackageHandler struct {
	packageService *services.PackageService
	resolver       *authz.OwnershipResolver
}

// NewPackageHandler creates a new package handler
func NewPackageHandler(packageService *services.PackageService, resolver *authz.OwnershipResolver) *PackageHandler {
	return &PackageHandler{
		packageService: packageService,
		resolver:       resolver,
	}
}

type packageRequest struct {
	FacilityID    string   `json:"facility_id"`
	PackageTypeID *string  `json:"package_type_id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Price         *float64 `json:"price"`
	DurationDays  *int     `json:"duration_days"`
}

// CreatePackage handles POST /api/packages
func (h *PackageHandler) CreatePackage(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	var req packageRequest
	if !decodeBody(w, r, &req) {
		return
	}

	facility, err := h.resolver.ResolveFacility(r.Context(), req.FacilityID, identity)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	pkg := &entities.Package{
		FacilityID:    facility.ID,
		PackageTypeID: req.PackageTypeID,
		Name:          req.Name,
		Description:   req.Description,
	}
	if req.Price != nil {
		pkg.Price = *req.Price
	}
	if req.DurationDays != nil {
		pkg.DurationDays = *req.DurationDays
	}

	if err := h.packageService.CreatePackage(r.Context(), pkg); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, pkg)
}

// GetPackage handles GET /api/packages/{id}
func (h *PackageHandler) GetPackage(w http.ResponseWriter, r *http.Request) {
	packageID := r.PathValue("id")
	if packageID == "" {
		respondWithError(w, http.StatusBadRequest, "package ID is required")
		return
	}

	pkg, err := h.packageService.GetPackage(r.Context(), packageID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, pkg)
}

// ListFacilityPackages handles GET /api/facilities/{id}/packages
func (h *PackageHandler) ListFacilityPackages(w http.ResponseWriter, r *http.Request) {
	facilityID := r.PathValue("id")
	if facilityID == "" {
		respondWithError(w, http.StatusBadRequest, "facility ID is required")
		return
	}

	opts := listing.ParseOptions(r.URL.Query(), packageListFields...)
	packages, err := h.packageService.ListFacilityPackages(r.Context(), facilityID, opts)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"packages": packages,
		"count":    len(packages),
	})
}

// UpdatePackage handles PATCH /api/packages/{id}
func (h *PackageHandler) UpdatePackage(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	pkg, _, err := h.resolver.ResolvePackage(r.Context(), r.PathValue("id"), identity)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	var req packageRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.Name != "" {
		pkg.Name = req.Name
	}
	if req.Description != "" {
		pkg.Description = req.Description
	}
	if req.Price != nil {
		pkg.Price = *req.Price
	}
	if req.DurationDays != nil {
		pkg.DurationDays = *req.DurationDays
	}

	if err := h.packageService.UpdatePackage(r.Context(), pkg); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, pkg)
}

// DeletePackage handles DELETE /api/packages/{id}
func (h *PackageHandler) DeletePackage(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	pkg, _, err := h.resolver.ResolvePackage(r.Context(), r.PathValue("id"), identity)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	if err := h.packageService.DeletePackage(r.Context(), pkg.ID); err != nil {
		respondWithAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type packageTypeRequest struct {
	FacilityID string                   `json:"facility_id"`
	Name       string                   `json:"name"`
	TimeType   entities.PackageTimeType `json:"time_type"`
}

// CreatePackageType handles POST /api/package-types
func (h *PackageHandler) CreatePackageType(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	var req packageTypeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	facility, err := h.resolver.ResolveFacility(r.Context(), req.FacilityID, identity)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	packageType := &entities.PackageType{
		FacilityID: facility.ID,
		Name:       req.Name,
		TimeType:   req.TimeType,
	}
	if err := h.packageService.CreatePackageType(r.Context(), packageType); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, packageType)
}

// ListFacilityPackageTypes handles GET /api/facilities/{id}/package-types
func (h *PackageHandler) ListFacilityPackageTypes(w http.ResponseWriter, r *http.Request) {
	facilityID := r.PathValue("id")
	if facilityID == "" {
		respondWithError(w, http.StatusBadRequest, "facility ID is required")
		return
	}

	packageTypes, err := h.packageService.ListFacilityPackageTypes(r.Context(), facilityID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"package_types": packageTypes,
		"count":         len(packageTypes),
	})
}

// UpdatePackageType handles PATCH /api/package-types/{id}
func (h *PackageHandler) UpdatePackageType(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	packageType, _, err := h.resolver.ResolvePackageType(r.Context(), r.PathValue("id"), identity)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	var req packageTypeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.Name != "" {
		packageType.Name = req.Name
	}
	if req.TimeType != "" {
		packageType.TimeType = req.TimeType
	}

	if err := h.packageService.UpdatePackageType(r.Context(), packageType); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, packageType)
}

// DeletePackageType handles DELETE /api/package-types/{id}
func (h *PackageHandler) DeletePackageType(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	packageType, _, err := h.resolver.ResolvePackageType(r.Context(), r.PathValue("id"), identity)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	if err := h.packageService.DeletePackageType(r.Context(), packageType.ID); err != nil {
		respondWithAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
