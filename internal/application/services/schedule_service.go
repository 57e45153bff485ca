package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/entities"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/repositories"
	apperrors "github.com/zatekoja/fitbookingdesign/backend/pkg/errors"
)

// ScheduleService handles opening hours and holidays
type ScheduleService struct {
	schedules  repositories.ScheduleRepository
	holidays   repositories.HolidayRepository
	facilities repositories.FacilityRepository
}

// NewScheduleService creates a new schedule service
func NewScheduleService(
	schedules repositories.ScheduleRepository,
	holidays repositories.HolidayRepository,
	facilities repositories.FacilityRepository,
) *ScheduleService {
	return &ScheduleService{
		schedules:  schedules,
		holidays:   holidays,
		facilities: facilities,
	}
}

// CreateSchedule creates the weekly schedule of a facility. A facility has
// at most one schedule; a second create conflicts.
func (s *ScheduleService) CreateSchedule(ctx context.Context, schedule *entities.Schedule) error {
	if err := validateWeeklyHours(schedule.WeeklyHours); err != nil {
		return err
	}

	facility, err := s.facilities.GetByID(ctx, schedule.FacilityID)
	if err != nil {
		return err
	}

	now := time.Now()
	schedule.ID = uuid.New().String()
	schedule.OwnerID = facility.OwnerID
	schedule.CreatedAt = now
	schedule.UpdatedAt = now

	return s.schedules.Create(ctx, schedule)
}

// GetSchedule retrieves a schedule by ID
func (s *ScheduleService) GetSchedule(ctx context.Context, id string) (*entities.Schedule, error) {
	return s.schedules.GetByID(ctx, id)
}

// GetFacilitySchedule retrieves the schedule of a facility
func (s *ScheduleService) GetFacilitySchedule(ctx context.Context, facilityID string) (*entities.Schedule, error) {
	return s.schedules.GetByFacility(ctx, facilityID)
}

// UpdateSchedule replaces the weekly hours of a schedule
func (s *ScheduleService) UpdateSchedule(ctx context.Context, schedule *entities.Schedule) error {
	if err := validateWeeklyHours(schedule.WeeklyHours); err != nil {
		return err
	}
	return s.schedules.Update(ctx, schedule)
}

// DeleteSchedule deletes a schedule
func (s *ScheduleService) DeleteSchedule(ctx context.Context, id string) error {
	return s.schedules.Delete(ctx, id)
}

// CreateHoliday adds a holiday closure for a facility
func (s *ScheduleService) CreateHoliday(ctx context.Context, holiday *entities.Holiday) error {
	if strings.TrimSpace(holiday.Name) == "" {
		return apperrors.NewValidationError("holiday name is required")
	}
	if holiday.Date.IsZero() {
		return apperrors.NewValidationError("holiday date is required")
	}

	facility, err := s.facilities.GetByID(ctx, holiday.FacilityID)
	if err != nil {
		return err
	}

	now := time.Now()
	holiday.ID = uuid.New().String()
	holiday.OwnerID = facility.OwnerID
	holiday.CreatedAt = now
	holiday.UpdatedAt = now

	return s.holidays.Create(ctx, holiday)
}

// GetHoliday retrieves a holiday by ID
func (s *ScheduleService) GetHoliday(ctx context.Context, id string) (*entities.Holiday, error) {
	return s.holidays.GetByID(ctx, id)
}

// ListFacilityHolidays retrieves the holidays of a facility
func (s *ScheduleService) ListFacilityHolidays(ctx context.Context, facilityID string) ([]*entities.Holiday, error) {
	return s.holidays.ListByFacility(ctx, facilityID)
}

// UpdateHoliday updates a holiday
func (s *ScheduleService) UpdateHoliday(ctx context.Context, holiday *entities.Holiday) error {
	if strings.TrimSpace(holiday.Name) == "" {
		return apperrors.NewValidationError("holiday name is required")
	}
	return s.holidays.Update(ctx, holiday)
}

// DeleteHoliday deletes a holiday
func (s *ScheduleService) DeleteHoliday(ctx context.Context, id string) error {
	return s.holidays.Delete(ctx, id)
}

func validateWeeklyHours(hours []entities.OpeningHours) error {
	if len(hours) == 0 {
		return apperrors.NewValidationError("weekly hours are required")
	}
	seen := make(map[int]bool, len(hours))
	for _, h := range hours {
		if h.Weekday < 0 || h.Weekday > 6 {
			return apperrors.NewValidationError("invalid weekday")
		}
		if seen[h.Weekday] {
			return apperrors.NewValidationError("duplicate weekday in schedule")
		}
		seen[h.Weekday] = true
		if h.Open == "" || h.Close == "" {
			return apperrors.NewValidationError("opening and closing times are required")
		}
	}
	return nil
}
