package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/zatekoja/fitbookingdesign/backend/internal/application/services"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/entities"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/repositories"
	apperrors "github.com/zatekoja/fitbookingdesign/backend/pkg/errors"
)

func TestFacilityService_CreateFacility_DenormalizesOwner(t *testing.T) {
	brands := &MockBrandRepo{}
	facilities := &MockFacilityRepo{}
	search := &MockSearchRepo{}

	brands.On("GetByID", mock.Anything, "brand-1").Return(&entities.Brand{
		ID:      "brand-1",
		OwnerID: "owner-1",
		Name:    "FitCo",
	}, nil)
	facilities.On("Create", mock.Anything, mock.MatchedBy(func(f *entities.Facility) bool {
		return f.OwnerID == "owner-1" && f.IsActive && f.Rating == 0 && f.ID != ""
	})).Return(nil)
	search.On("Index", mock.Anything, mock.AnythingOfType("*entities.Facility")).Return(nil)

	service := services.NewFacilityService(brands, facilities, search, nil)

	facility := &entities.Facility{BrandID: "brand-1", Name: "Downtown Gym"}
	err := service.CreateFacility(context.Background(), facility)

	assert.NoError(t, err)
	assert.Equal(t, "owner-1", facility.OwnerID)
	facilities.AssertExpectations(t)
	search.AssertExpectations(t)
}

func TestFacilityService_CreateFacility_UnknownBrand(t *testing.T) {
	brands := &MockBrandRepo{}
	facilities := &MockFacilityRepo{}

	brands.On("GetByID", mock.Anything, "brand-ghost").
		Return(nil, apperrors.NewNotFoundError("brand brand-ghost not found"))

	service := services.NewFacilityService(brands, facilities, nil, nil)

	err := service.CreateFacility(context.Background(), &entities.Facility{BrandID: "brand-ghost", Name: "Gym"})

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	facilities.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestFacilityService_CreateFacility_SurvivesIndexFailure(t *testing.T) {
	brands := &MockBrandRepo{}
	facilities := &MockFacilityRepo{}
	search := &MockSearchRepo{}

	brands.On("GetByID", mock.Anything, "brand-1").Return(&entities.Brand{ID: "brand-1", OwnerID: "owner-1"}, nil)
	facilities.On("Create", mock.Anything, mock.AnythingOfType("*entities.Facility")).Return(nil)
	search.On("Index", mock.Anything, mock.AnythingOfType("*entities.Facility")).
		Return(apperrors.NewExternalError("typesense unavailable", nil))

	service := services.NewFacilityService(brands, facilities, search, nil)

	err := service.CreateFacility(context.Background(), &entities.Facility{BrandID: "brand-1", Name: "Gym"})
	assert.NoError(t, err)
}

func TestFacilityService_ArchiveFacility_DropsFromIndexAndPublishes(t *testing.T) {
	facilities := &MockFacilityRepo{}
	search := &MockSearchRepo{}
	bus := &MockEventBus{}

	facilities.On("Archive", mock.Anything, "facility-1").Return(nil)
	search.On("Delete", mock.Anything, "facility-1").Return(nil)
	bus.On("Publish", mock.Anything, services.EventChannelFacilities, mock.MatchedBy(func(event *entities.DomainEvent) bool {
		return event.Type == entities.EventFacilityUpdated && event.FacilityID == "facility-1"
	})).Return(nil)

	service := services.NewFacilityService(&MockBrandRepo{}, facilities, search, bus)

	assert.NoError(t, service.ArchiveFacility(context.Background(), "facility-1"))
	search.AssertExpectations(t)
	bus.AssertExpectations(t)
}

func TestFacilityService_SearchUnavailableWithoutIndex(t *testing.T) {
	service := services.NewFacilityService(&MockBrandRepo{}, &MockFacilityRepo{}, nil, nil)

	_, _, err := service.SearchFacilities(context.Background(), repositories.FacilitySearchParams{Query: "gym"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExternal))
}

func TestFacilityService_RefreshRating_ReindexesFacility(t *testing.T) {
	facilities := &MockFacilityRepo{}
	search := &MockSearchRepo{}

	facilities.On("UpdateRating", mock.Anything, "facility-1", 4.5, 12).Return(nil)
	facilities.On("GetByID", mock.Anything, "facility-1").Return(activeFacility(), nil)
	search.On("Index", mock.Anything, mock.AnythingOfType("*entities.Facility")).Return(nil)

	service := services.NewFacilityService(&MockBrandRepo{}, facilities, search, nil)

	assert.NoError(t, service.RefreshRating(context.Background(), "facility-1", 4.5, 12))
	search.AssertExpectations(t)
}

func TestFacilityService_CreateBrand_RequiresName(t *testing.T) {
	service := services.NewFacilityService(&MockBrandRepo{}, &MockFacilityRepo{}, nil, nil)

	err := service.CreateBrand(context.Background(), "owner-1", &entities.Brand{Name: "  "})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}
