package repositories

import (
	"context"

	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/entities"
)

// ScheduleRepository defines the interface for schedule operations.
// A facility has at most one schedule.
type ScheduleRepository interface {
	Create(ctx context.Context, schedule *entities.Schedule) error
	GetByID(ctx context.Context, id string) (*entities.Schedule, error)
	GetByFacility(ctx context.Context, facilityID string) (*entities.Schedule, error)
	Update(ctx context.Context, schedule *entities.Schedule) error
	Delete(ctx context.Context, id string) error
}

// HolidayRepository defines the interface for holiday operations
type HolidayRepository interface {
	Create(ctx context.Context, holiday *entities.Holiday) error
	GetByID(ctx context.Context, id string) (*entities.Holiday, error)
	ListByFacility(ctx context.Context, facilityID string) ([]*entities.Holiday, error)
	Update(ctx context.Context, holiday *entities.Holiday) error
	Delete(ctx context.Context, id string) error
}
