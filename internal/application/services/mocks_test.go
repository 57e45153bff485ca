package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/entities"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/repositories"
	"github.com/zatekoja/fitbookingdesign/backend/pkg/listing"
)

// MockUserRepo mocks repositories.UserRepository
type MockUserRepo struct{ mock.Mock }

func (m *MockUserRepo) Create(ctx context.Context, user *entities.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepo) Update(ctx context.Context, user *entities.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepo) UpdateRoles(ctx context.Context, id string, roles []entities.Role) error {
	return m.Called(ctx, id, roles).Error(0)
}

// MockBrandRepo mocks repositories.BrandRepository
type MockBrandRepo struct{ mock.Mock }

func (m *MockBrandRepo) Create(ctx context.Context, brand *entities.Brand) error {
	return m.Called(ctx, brand).Error(0)
}

func (m *MockBrandRepo) GetByID(ctx context.Context, id string) (*entities.Brand, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Brand), args.Error(1)
}

func (m *MockBrandRepo) ListByOwner(ctx context.Context, ownerID string) ([]*entities.Brand, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Brand), args.Error(1)
}

func (m *MockBrandRepo) Update(ctx context.Context, brand *entities.Brand) error {
	return m.Called(ctx, brand).Error(0)
}

// MockFacilityRepo mocks repositories.FacilityRepository
type MockFacilityRepo struct{ mock.Mock }

func (m *MockFacilityRepo) Create(ctx context.Context, facility *entities.Facility) error {
	return m.Called(ctx, facility).Error(0)
}

func (m *MockFacilityRepo) GetByID(ctx context.Context, id string) (*entities.Facility, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Facility), args.Error(1)
}

func (m *MockFacilityRepo) Update(ctx context.Context, facility *entities.Facility) error {
	return m.Called(ctx, facility).Error(0)
}

func (m *MockFacilityRepo) Archive(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockFacilityRepo) List(ctx context.Context, opts listing.Options) ([]*entities.Facility, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Facility), args.Error(1)
}

func (m *MockFacilityRepo) ListByOwner(ctx context.Context, ownerID string) ([]*entities.Facility, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Facility), args.Error(1)
}

func (m *MockFacilityRepo) UpdateRating(ctx context.Context, id string, rating float64, reviewCount int) error {
	return m.Called(ctx, id, rating, reviewCount).Error(0)
}

// MockSearchRepo mocks repositories.FacilitySearchRepository
type MockSearchRepo struct{ mock.Mock }

func (m *MockSearchRepo) Index(ctx context.Context, facility *entities.Facility) error {
	return m.Called(ctx, facility).Error(0)
}

func (m *MockSearchRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockSearchRepo) Search(ctx context.Context, params repositories.FacilitySearchParams) ([]*entities.Facility, int, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*entities.Facility), args.Int(1), args.Error(2)
}

// MockPackageRepo mocks repositories.PackageRepository
type MockPackageRepo struct{ mock.Mock }

func (m *MockPackageRepo) Create(ctx context.Context, pkg *entities.Package) error {
	return m.Called(ctx, pkg).Error(0)
}

func (m *MockPackageRepo) GetByID(ctx context.Context, id string) (*entities.Package, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Package), args.Error(1)
}

func (m *MockPackageRepo) ListByFacility(ctx context.Context, facilityID string, opts listing.Options) ([]*entities.Package, error) {
	args := m.Called(ctx, facilityID, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Package), args.Error(1)
}

func (m *MockPackageRepo) Update(ctx context.Context, pkg *entities.Package) error {
	return m.Called(ctx, pkg).Error(0)
}

func (m *MockPackageRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// MockPromotionRepo mocks repositories.PromotionRepository
type MockPromotionRepo struct{ mock.Mock }

func (m *MockPromotionRepo) Create(ctx context.Context, promotion *entities.Promotion) error {
	return m.Called(ctx, promotion).Error(0)
}

func (m *MockPromotionRepo) GetByID(ctx context.Context, id string) (*entities.Promotion, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Promotion), args.Error(1)
}

func (m *MockPromotionRepo) GetByCode(ctx context.Context, code string) (*entities.Promotion, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Promotion), args.Error(1)
}

func (m *MockPromotionRepo) List(ctx context.Context, opts listing.Options) ([]*entities.Promotion, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Promotion), args.Error(1)
}

func (m *MockPromotionRepo) Update(ctx context.Context, promotion *entities.Promotion) error {
	return m.Called(ctx, promotion).Error(0)
}

func (m *MockPromotionRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// MockCartRepo mocks repositories.CartRepository
type MockCartRepo struct{ mock.Mock }

func (m *MockCartRepo) Create(ctx context.Context, cart *entities.Cart) error {
	return m.Called(ctx, cart).Error(0)
}

func (m *MockCartRepo) GetByAccount(ctx context.Context, accountID string) (*entities.Cart, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Cart), args.Error(1)
}

func (m *MockCartRepo) AddItem(ctx context.Context, item *entities.CartItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockCartRepo) GetItem(ctx context.Context, id string) (*entities.CartItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CartItem), args.Error(1)
}

func (m *MockCartRepo) UpdateItem(ctx context.Context, item *entities.CartItem) error {
	return m.Called(ctx, item).Error(0)
}

// MockPurchaseStore mocks repositories.PurchaseStore
type MockPurchaseStore struct{ mock.Mock }

func (m *MockPurchaseStore) Purchase(ctx context.Context, req repositories.PurchaseRequest) (*repositories.PurchaseResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.PurchaseResult), args.Error(1)
}

// MockBillRepo mocks repositories.BillRepository
type MockBillRepo struct{ mock.Mock }

func (m *MockBillRepo) GetByID(ctx context.Context, id string) (*entities.Bill, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Bill), args.Error(1)
}

func (m *MockBillRepo) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*entities.Bill, error) {
	args := m.Called(ctx, accountID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Bill), args.Error(1)
}

// MockSubscriptionRepo mocks repositories.SubscriptionRepository
type MockSubscriptionRepo struct{ mock.Mock }

func (m *MockSubscriptionRepo) GetByID(ctx context.Context, id string) (*entities.Subscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepo) ListByAccount(ctx context.Context, accountID string) ([]*entities.Subscription, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepo) ListByFacility(ctx context.Context, facilityID string) ([]*entities.Subscription, error) {
	args := m.Called(ctx, facilityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepo) Update(ctx context.Context, subscription *entities.Subscription) error {
	return m.Called(ctx, subscription).Error(0)
}

func (m *MockSubscriptionRepo) ExpireDue(ctx context.Context, now time.Time) ([]*entities.Subscription, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Subscription), args.Error(1)
}

// MockEventBus mocks providers.EventBus
type MockEventBus struct{ mock.Mock }

func (m *MockEventBus) Publish(ctx context.Context, channel string, event *entities.DomainEvent) error {
	return m.Called(ctx, channel, event).Error(0)
}

func (m *MockEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.DomainEvent, error) {
	args := m.Called(ctx, channel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan *entities.DomainEvent), args.Error(1)
}

func (m *MockEventBus) Close() error {
	return m.Called().Error(0)
}
