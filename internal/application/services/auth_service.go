package services

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/entities"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/repositories"
	"github.com/zatekoja/fitbookingdesign/backend/pkg/config"
	apperrors "github.com/zatekoja/fitbookingdesign/backend/pkg/errors"
)

const minPasswordLength = 8

// AuthService handles signup, login and role administration
type AuthService struct {
	users  repositories.UserRepository
	secret []byte
	ttl    time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(users repositories.UserRepository, cfg *config.JWTConfig) *AuthService {
	return &AuthService{
		users:  users,
		secret: []byte(cfg.Secret),
		ttl:    cfg.TTL,
	}
}

// SignupInput carries the fields needed to register an account
type SignupInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// Signup registers a new user. New accounts always start as MEMBER; elevated
// roles are granted separately by an admin.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*entities.User, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperrors.NewValidationError("a valid email is required")
	}
	if len(input.Password) < minPasswordLength {
		return nil, apperrors.NewValidationError("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to hash password", err)
	}

	now := time.Now()
	user := &entities.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Phone:        strings.TrimSpace(input.Phone),
		Roles:        []entities.Role{entities.RoleMember},
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login verifies credentials and issues a signed token. Unknown emails and
// wrong passwords both come back UNAUTHORIZED so the response does not reveal
// which accounts exist.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *entities.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			return "", nil, apperrors.NewUnauthorizedError("invalid credentials")
		}
		return "", nil, err
	}

	if !user.IsActive {
		return "", nil, apperrors.NewUnauthorizedError("account is disabled")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperrors.NewUnauthorizedError("invalid credentials")
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// UpdateRoles replaces the role set of a user. An empty set is rejected;
// every account keeps at least one role.
func (s *AuthService) UpdateRoles(ctx context.Context, userID string, roles []entities.Role) error {
	if len(roles) == 0 {
		return apperrors.NewValidationError("at least one role is required")
	}
	for _, role := range roles {
		switch role {
		case entities.RoleAdmin, entities.RoleFacilityOwner, entities.RoleMember:
		default:
			return apperrors.NewValidationError("unknown role: " + string(role))
		}
	}
	return s.users.UpdateRoles(ctx, userID, roles)
}

// GetUser retrieves a user by ID
func (s *AuthService) GetUser(ctx context.Context, id string) (*entities.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *AuthService) issueToken(user *entities.User) (string, error) {
	roles := make([]string, len(user.Roles))
	for i, role := range user.Roles {
		roles[i] = string(role)
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"roles": roles,
		"iat":   now.Unix(),
		"exp":   now.Add(s.ttl).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", apperrors.NewInternalError("failed to sign token", err)
	}
	return token, nil
}
