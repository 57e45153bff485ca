package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/zatekoja/fitbookingdesign/backend/internal/application/authz"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/entities"
	apperrors "github.com/zatekoja/fitbookingdesign/backend/pkg/errors"
)

// AuthMiddleware verifies bearer tokens and attaches the caller identity to
// the request context. Public routes pass through without a token; everything
// else fails UNAUTHORIZED before reaching the handler.
type AuthMiddleware struct {
	secret []byte
	gate   *authz.Gate
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(secret string, gate *authz.Gate) *AuthMiddleware {
	return &AuthMiddleware{
		secret: []byte(secret),
		gate:   gate,
	}
}

// publicRoute reports whether a request may proceed unauthenticated.
// Signup, login, health and the catalog browse reads are open; every
// write and every account-scoped read requires a token.
func publicRoute(r *http.Request) bool {
	path := r.URL.Path

	if path == "/health" || strings.HasPrefix(path, "/api/auth/") {
		return true
	}

	if r.Method != http.MethodGet {
		return false
	}

	switch {
	case strings.HasPrefix(path, "/api/facilities"):
		return true
	case strings.HasPrefix(path, "/api/promotions"):
		return true
	case strings.HasPrefix(path, "/api/holidays"):
		return true
	case strings.HasPrefix(path, "/api/packages"):
		return true
	}
	return false
}

// Middleware returns the authentication handler
func (m *AuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")

		if header == "" {
			if publicRoute(r) {
				next.ServeHTTP(w, r)
				return
			}
			respondUnauthorized(w, "missing bearer token")
			return
		}

		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			respondUnauthorized(w, "malformed authorization header")
			return
		}

		identity, err := m.parseToken(raw)
		if err != nil {
			respondUnauthorized(w, "invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(authz.WithIdentity(r.Context(), identity)))
	})
}

// parseToken verifies the signature and expiry and extracts the identity
func (m *AuthMiddleware) parseToken(raw string) (authz.Identity, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.NewUnauthorizedError("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return authz.Identity{}, apperrors.NewUnauthorizedError("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return authz.Identity{}, apperrors.NewUnauthorizedError("invalid token claims")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return authz.Identity{}, apperrors.NewUnauthorizedError("token has no subject")
	}

	var roles []entities.Role
	if rawRoles, ok := claims["roles"].([]interface{}); ok {
		for _, r := range rawRoles {
			if name, ok := r.(string); ok {
				roles = append(roles, entities.Role(name))
			}
		}
	}

	return authz.Identity{ID: sub, Roles: roles}, nil
}

// RequireRoles wraps a handler with a role check. The admin role always
// passes regardless of what is declared.
func (m *AuthMiddleware) RequireRoles(roles ...entities.Role) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			identity, ok := authz.IdentityFromContext(r.Context())
			if !ok {
				respondUnauthorized(w, "authentication required")
				return
			}
			if !m.gate.Allow(roles, identity) {
				respondForbidden(w, "caller lacks a required role")
				return
			}
			next(w, r)
		}
	}
}
