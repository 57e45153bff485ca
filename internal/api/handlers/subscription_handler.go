package handlers

import (
	"net/http"

	"github.com/zatekoja/fitbookingdesign/backend/internal/application/authz"
	"github.com/zatekoja/fitbookingdesign/backend/internal/application/services"
)

// SubscriptionHandler handles subscription endpoints
type SubscriptionHandler struct {
	subscriptionService *services.SubscriptionService
	resolver            *authz.OwnershipResolver
}

// NewSubscriptionHandler creates a new subscription handler
func NewSubscriptionHandler(subscriptionService *services.SubscriptionService, resolver *authz.OwnershipResolver) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
		resolver:            resolver,
	}
}

// ListMySubscriptions handles GET /api/subscriptions
func (h *SubscriptionHandler) ListMySubscriptions(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	subscriptions, err := h.subscriptionService.ListByAccount(r.Context(), identity.ID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"subscriptions": subscriptions,
		"count":         len(subscriptions),
	})
}

// GetSubscription handles GET /api/subscriptions/{id}
func (h *SubscriptionHandler) GetSubscription(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	subscription, err := h.subscriptionService.GetByID(r.Context(), identity.ID, r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, subscription)
}

// RenewSubscription handles POST /api/subscriptions/{id}/renew
func (h *SubscriptionHandler) RenewSubscription(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	subscription, err := h.subscriptionService.Renew(r.Context(), identity.ID, r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, subscription)
}

type setRenewRequest struct {
	Renew bool `json:"renew"`
}

// SetSubscriptionRenew handles PATCH /api/subscriptions/{id}/renew
func (h *SubscriptionHandler) SetSubscriptionRenew(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	var req setRenewRequest
	if !decodeBody(w, r, &req) {
		return
	}

	subscription, err := h.subscriptionService.SetRenew(r.Context(), identity.ID, r.PathValue("id"), req.Renew)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, subscription)
}

// ListFacilitySubscriptions handles GET /api/facilities/{id}/subscriptions.
// Restricted to the facility owner (or an admin) via the resolver.
func (h *SubscriptionHandler) ListFacilitySubscriptions(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	facility, err := h.resolver.ResolveFacility(r.Context(), r.PathValue("id"), identity)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	subscriptions, err := h.subscriptionService.ListByFacility(r.Context(), facility.ID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"subscriptions": subscriptions,
		"count":         len(subscriptions),
	})
}
