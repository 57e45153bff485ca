package authz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zatekoja/fitbookingdesign/backend/internal/application/authz"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/entities"
	apperrors "github.com/zatekoja/fitbookingdesign/backend/pkg/errors"
)

func TestGate_Allow(t *testing.T) {
	tests := []struct {
		name     string
		config   authz.GateConfig
		required []entities.Role
		caller   authz.Identity
		want     bool
	}{
		{
			name:     "no declared roles allows any caller by default",
			config:   authz.DefaultGateConfig(),
			required: nil,
			caller:   authz.Identity{ID: "u1", Roles: []entities.Role{entities.RoleMember}},
			want:     true,
		},
		{
			name:     "no declared roles allows caller without roles by default",
			config:   authz.DefaultGateConfig(),
			required: nil,
			caller:   authz.Identity{ID: "u1"},
			want:     true,
		},
		{
			name:     "strict config denies caller without roles on undeclared endpoint",
			config:   authz.GateConfig{AdminRole: entities.RoleAdmin, RolesOptional: false},
			required: nil,
			caller:   authz.Identity{ID: "u1"},
			want:     false,
		},
		{
			name:     "strict config still allows caller holding any role on undeclared endpoint",
			config:   authz.GateConfig{AdminRole: entities.RoleAdmin, RolesOptional: false},
			required: nil,
			caller:   authz.Identity{ID: "u1", Roles: []entities.Role{entities.RoleMember}},
			want:     true,
		},
		{
			name:     "admin always allowed regardless of declared roles",
			config:   authz.DefaultGateConfig(),
			required: []entities.Role{entities.RoleFacilityOwner},
			caller:   authz.Identity{ID: "u1", Roles: []entities.Role{entities.RoleAdmin}},
			want:     true,
		},
		{
			name:     "intersecting role sets allowed",
			config:   authz.DefaultGateConfig(),
			required: []entities.Role{entities.RoleFacilityOwner, entities.RoleMember},
			caller:   authz.Identity{ID: "u1", Roles: []entities.Role{entities.RoleMember}},
			want:     true,
		},
		{
			name:     "disjoint role sets denied",
			config:   authz.DefaultGateConfig(),
			required: []entities.Role{entities.RoleFacilityOwner},
			caller:   authz.Identity{ID: "u1", Roles: []entities.Role{entities.RoleMember}},
			want:     false,
		},
		{
			name:     "caller without roles denied on declared endpoint",
			config:   authz.DefaultGateConfig(),
			required: []entities.Role{entities.RoleMember},
			caller:   authz.Identity{ID: "u1"},
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := authz.NewGate(tt.config)
			assert.Equal(t, tt.want, gate.Allow(tt.required, tt.caller))
		})
	}
}

func TestGate_AuthorizeReturnsForbidden(t *testing.T) {
	gate := authz.NewGate(authz.DefaultGateConfig())

	err := gate.Authorize([]entities.Role{entities.RoleFacilityOwner}, authz.Identity{ID: "u1", Roles: []entities.Role{entities.RoleMember}})

	assert.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeForbidden))
}

func TestGate_AuthorizeAllows(t *testing.T) {
	gate := authz.NewGate(authz.DefaultGateConfig())

	err := gate.Authorize(nil, authz.Identity{ID: "u1"})

	assert.NoError(t, err)
}
