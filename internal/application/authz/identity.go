package authz

import (
	"context"

	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/entities"
)

// Identity is the authenticated caller attached to a request by the
// authentication middleware
type Identity struct {
	ID    string
	Roles []entities.Role
}

// HasRole reports whether the identity carries the given role
func (i Identity) HasRole(role entities.Role) bool {
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}

type contextKey struct{}

// WithIdentity returns a context carrying the identity
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, identity)
}

// IdentityFromContext extracts the identity attached by the auth middleware
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(contextKey{}).(Identity)
	return identity, ok
}
