package handlers

import (
	"net/http"

	"github.com/zatekoja/fitbookingdesign/backend/internal/application/services"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/entities"
)

// ReviewHandler handles review endpoints
type ReviewHandler struct {
	reviewService *services.ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// CreateReview handles POST /api/facilities/{id}/reviews
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	facilityID := r.PathValue("id")
	if facilityID == "" {
		respondWithError(w, http.StatusBadRequest, "facility ID is required")
		return
	}

	var req reviewRequest
	if !decodeBody(w, r, &req) {
		return
	}

	review := &entities.Review{
		UserID:     identity.ID,
		FacilityID: facilityID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}
	if err := h.reviewService.Create(r.Context(), review); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, review)
}

// ListFacilityReviews handles GET /api/facilities/{id}/reviews
func (h *ReviewHandler) ListFacilityReviews(w http.ResponseWriter, r *http.Request) {
	facilityID := r.PathValue("id")
	if facilityID == "" {
		respondWithError(w, http.StatusBadRequest, "facility ID is required")
		return
	}

	limit, offset := pageParams(r)
	reviews, err := h.reviewService.ListByFacility(r.Context(), facilityID, limit, offset)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"reviews": reviews,
		"count":   len(reviews),
	})
}

// ListMyReviews handles GET /api/reviews
func (h *ReviewHandler) ListMyReviews(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	limit, offset := pageParams(r)
	reviews, err := h.reviewService.ListByUser(r.Context(), identity.ID, limit, offset)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"reviews": reviews,
		"count":   len(reviews),
	})
}

// DeleteReview handles DELETE /api/reviews/{id}. Only the author or an
// admin may delete a review.
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	review, err := h.reviewService.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	if review.UserID != identity.ID && !identity.HasRole(entities.RoleAdmin) {
		respondWithError(w, http.StatusForbidden, "review does not belong to the caller")
		return
	}

	if err := h.reviewService.Delete(r.Context(), review.ID); err != nil {
		respondWithAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
