package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/zatekoja/fitbookingdesign/backend/internal/application/services"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/entities"
	apperrors "github.com/zatekoja/fitbookingdesign/backend/pkg/errors"
)

func TestSubscriptionService_Renew_ExpiredStartsFromNow(t *testing.T) {
	subs := &MockSubscriptionRepo{}
	packages := &MockPackageRepo{}

	expiredAt := time.Now().AddDate(0, 0, -10)
	subs.On("GetByID", mock.Anything, "sub-1").Return(&entities.Subscription{
		ID:        "sub-1",
		AccountID: "account-1",
		PackageID: "pkg-1",
		ExpiresAt: expiredAt,
		Status:    entities.SubscriptionInactive,
	}, nil)
	packages.On("GetByID", mock.Anything, "pkg-1").Return(activePackage(), nil)
	subs.On("Update", mock.Anything, mock.AnythingOfType("*entities.Subscription")).Return(nil)

	service := services.NewSubscriptionService(subs, packages, nil, 0)

	subscription, err := service.Renew(context.Background(), "account-1", "sub-1")

	assert.NoError(t, err)
	assert.Equal(t, entities.SubscriptionActive, subscription.Status)
	// Renewed from now, not from the old expiry
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 30), subscription.ExpiresAt, time.Minute)
}

func TestSubscriptionService_Renew_ActiveExtendsCurrentExpiry(t *testing.T) {
	subs := &MockSubscriptionRepo{}
	packages := &MockPackageRepo{}

	expiresAt := time.Now().AddDate(0, 0, 5)
	subs.On("GetByID", mock.Anything, "sub-1").Return(&entities.Subscription{
		ID:        "sub-1",
		AccountID: "account-1",
		PackageID: "pkg-1",
		ExpiresAt: expiresAt,
		Status:    entities.SubscriptionActive,
	}, nil)
	packages.On("GetByID", mock.Anything, "pkg-1").Return(activePackage(), nil)
	subs.On("Update", mock.Anything, mock.AnythingOfType("*entities.Subscription")).Return(nil)

	service := services.NewSubscriptionService(subs, packages, nil, 0)

	subscription, err := service.Renew(context.Background(), "account-1", "sub-1")

	assert.NoError(t, err)
	assert.Equal(t, expiresAt.AddDate(0, 0, 30), subscription.ExpiresAt)
}

func TestSubscriptionService_Renew_ForeignSubscriptionForbidden(t *testing.T) {
	subs := &MockSubscriptionRepo{}
	subs.On("GetByID", mock.Anything, "sub-1").Return(&entities.Subscription{
		ID:        "sub-1",
		AccountID: "someone-else",
	}, nil)

	service := services.NewSubscriptionService(subs, &MockPackageRepo{}, nil, 0)

	_, err := service.Renew(context.Background(), "account-1", "sub-1")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeForbidden))
}

func TestSubscriptionService_Renew_InactivePackageConflicts(t *testing.T) {
	subs := &MockSubscriptionRepo{}
	packages := &MockPackageRepo{}

	subs.On("GetByID", mock.Anything, "sub-1").Return(&entities.Subscription{
		ID:        "sub-1",
		AccountID: "account-1",
		PackageID: "pkg-1",
	}, nil)
	pkg := activePackage()
	pkg.IsActive = false
	packages.On("GetByID", mock.Anything, "pkg-1").Return(pkg, nil)

	service := services.NewSubscriptionService(subs, packages, nil, 0)

	_, err := service.Renew(context.Background(), "account-1", "sub-1")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
}

func TestSubscriptionService_ExpireDue_PublishesEvents(t *testing.T) {
	subs := &MockSubscriptionRepo{}
	bus := &MockEventBus{}

	expired := []*entities.Subscription{
		{ID: "sub-1", AccountID: "account-1", FacilityID: "facility-1"},
		{ID: "sub-2", AccountID: "account-2", FacilityID: "facility-1"},
	}
	subs.On("ExpireDue", mock.Anything, mock.AnythingOfType("time.Time")).Return(expired, nil)
	bus.On("Publish", mock.Anything, services.EventChannelSubscriptions, mock.MatchedBy(func(event *entities.DomainEvent) bool {
		return event.Type == entities.EventSubscriptionExpired
	})).Return(nil).Twice()

	service := services.NewSubscriptionService(subs, &MockPackageRepo{}, bus, 0)

	count := service.ExpireDue(context.Background())

	assert.Equal(t, 2, count)
	bus.AssertExpectations(t)
}

func TestSubscriptionService_GetByID_ForeignForbidden(t *testing.T) {
	subs := &MockSubscriptionRepo{}
	subs.On("GetByID", mock.Anything, "sub-1").Return(&entities.Subscription{
		ID:        "sub-1",
		AccountID: "someone-else",
	}, nil)

	service := services.NewSubscriptionService(subs, &MockPackageRepo{}, nil, 0)

	_, err := service.GetByID(context.Background(), "account-1", "sub-1")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeForbidden))
}
