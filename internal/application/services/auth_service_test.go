package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/zatekoja/fitbookingdesign/backend/internal/application/services"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/entities"
	"github.com/zatekoja/fitbookingdesign/backend/pkg/config"
	apperrors "github.com/zatekoja/fitbookingdesign/backend/pkg/errors"
)

func newAuthService(users *MockUserRepo) *services.AuthService {
	return services.NewAuthService(users, &config.JWTConfig{
		Secret: "test-secret",
		TTL:    time.Hour,
	})
}

func TestAuthService_Signup_DefaultsToMember(t *testing.T) {
	users := &MockUserRepo{}
	users.On("Create", mock.Anything, mock.AnythingOfType("*entities.User")).Return(nil)

	service := newAuthService(users)

	user, err := service.Signup(context.Background(), services.SignupInput{
		Email:     "  Jamie@Example.com ",
		Password:  "correct-horse",
		FirstName: "Jamie",
		LastName:  "Doe",
	})

	assert.NoError(t, err)
	assert.Equal(t, "jamie@example.com", user.Email)
	assert.Equal(t, []entities.Role{entities.RoleMember}, user.Roles)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("correct-horse")))
	users.AssertExpectations(t)
}

func TestAuthService_Signup_RejectsInvalidInput(t *testing.T) {
	service := newAuthService(&MockUserRepo{})

	_, err := service.Signup(context.Background(), services.SignupInput{Email: "not-an-email", Password: "long-enough"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	_, err = service.Signup(context.Background(), services.SignupInput{Email: "a@b.com", Password: "short"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestAuthService_Login_IssuesToken(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.DefaultCost)
	assert.NoError(t, err)

	users := &MockUserRepo{}
	users.On("GetByEmail", mock.Anything, "jamie@example.com").Return(&entities.User{
		ID:           "user-1",
		Email:        "jamie@example.com",
		PasswordHash: string(hash),
		Roles:        []entities.Role{entities.RoleMember, entities.RoleFacilityOwner},
		IsActive:     true,
	}, nil)

	service := newAuthService(users)

	token, user, err := service.Login(context.Background(), "jamie@example.com", "correct-horse")

	assert.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	assert.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "user-1", claims["sub"])
	assert.ElementsMatch(t, []interface{}{"MEMBER", "FACILITY_OWNER"}, claims["roles"])
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.DefaultCost)

	users := &MockUserRepo{}
	users.On("GetByEmail", mock.Anything, "jamie@example.com").Return(&entities.User{
		ID:           "user-1",
		Email:        "jamie@example.com",
		PasswordHash: string(hash),
		IsActive:     true,
	}, nil)

	service := newAuthService(users)

	_, _, err := service.Login(context.Background(), "jamie@example.com", "wrong")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnauthorized))
}

func TestAuthService_Login_UnknownEmailHidesExistence(t *testing.T) {
	users := &MockUserRepo{}
	users.On("GetByEmail", mock.Anything, "ghost@example.com").
		Return(nil, apperrors.NewNotFoundError("user with email ghost@example.com not found"))

	service := newAuthService(users)

	_, _, err := service.Login(context.Background(), "ghost@example.com", "whatever")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnauthorized))
}

func TestAuthService_UpdateRoles(t *testing.T) {
	users := &MockUserRepo{}
	users.On("UpdateRoles", mock.Anything, "user-1", []entities.Role{entities.RoleFacilityOwner}).Return(nil)

	service := newAuthService(users)

	assert.NoError(t, service.UpdateRoles(context.Background(), "user-1", []entities.Role{entities.RoleFacilityOwner}))

	err := service.UpdateRoles(context.Background(), "user-1", nil)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	err = service.UpdateRoles(context.Background(), "user-1", []entities.Role{"SUPERUSER"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	users.AssertExpectations(t)
}
