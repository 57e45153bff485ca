package handlers

import (
	"net/http"

	"github.com/zatekoja/fitbookingdesign/backend/internal/application/services"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/entities"
)

// AuthHandler handles signup, login and account endpoints
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Signup handles POST /api/auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var input services.SignupInput
	if !decodeBody(w, r, &input) {
		return
	}

	user, err := h.authService.Signup(r.Context(), input)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	token, user, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// GetMe handles GET /api/auth/me
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	user, err := h.authService.GetUser(r.Context(), identity.ID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, user)
}

type updateRolesRequest struct {
	Roles []entities.Role `json:"roles"`
}

// UpdateUserRoles handles PUT /api/admin/users/{id}/roles
func (h *AuthHandler) UpdateUserRoles(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if userID == "" {
		respondWithError(w, http.StatusBadRequest, "user ID is required")
		return
	}

	var req updateRolesRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.authService.UpdateRoles(r.Context(), userID, req.Roles); err != nil {
		respondWithAppError(w, err)
		return
	}

	user, err := h.authService.GetUser(r.Context(), userID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, user)
}
