// Package authz contains the authorization gate and the ownership
// resolvers. The gate is a pure decision function over the declared
// endpoint roles and the authenticated caller; ownership resolution is a
// per-resource lookup-and-compare, generic over anything that knows its
// owning account.
package authz

import (
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/entities"
	apperrors "github.com/zatekoja/fitbookingdesign/backend/pkg/errors"
)

// GateConfig configures the authorization gate.
//
// RolesOptional controls what happens on endpoints that declare no
// required roles: when true (the default) such endpoints admit any
// authenticated caller; when false, callers with an empty role set are
// denied everywhere.
type GateConfig struct {
	AdminRole     entities.Role
	RolesOptional bool
}

// DefaultGateConfig returns the gate configuration used in production
func DefaultGateConfig() GateConfig {
	return GateConfig{
		AdminRole:     entities.RoleAdmin,
		RolesOptional: true,
	}
}

// Gate decides whether a caller may reach an endpoint. It has no side
// effects and consults only the declared roles and the caller's role set.
type Gate struct {
	cfg GateConfig
}

// NewGate creates a gate with the given configuration
func NewGate(cfg GateConfig) *Gate {
	if cfg.AdminRole == "" {
		cfg.AdminRole = entities.RoleAdmin
	}
	return &Gate{cfg: cfg}
}

// Allow reports whether the caller may proceed given the roles declared
// on the endpoint. The admin role always passes, regardless of what is
// declared.
func (g *Gate) Allow(required []entities.Role, caller Identity) bool {
	if caller.HasRole(g.cfg.AdminRole) {
		return true
	}

	if len(required) == 0 {
		if g.cfg.RolesOptional {
			return true
		}
		return len(caller.Roles) > 0
	}

	for _, need := range required {
		if caller.HasRole(need) {
			return true
		}
	}
	return false
}

// Authorize is Allow returning a typed error on denial
func (g *Gate) Authorize(required []entities.Role, caller Identity) error {
	if !g.Allow(required, caller) {
		return apperrors.NewForbiddenError("caller lacks a required role")
	}
	return nil
}
