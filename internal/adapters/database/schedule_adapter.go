package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/entities"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/repositories"
	"github.com/zatekoja/fitbookingdesign/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/fitbookingdesign/backend/pkg/errors"
)

// ScheduleAdapter implements the ScheduleRepository interface.
// Weekly hours are stored as a jsonb column.
type ScheduleAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewScheduleAdapter creates a new schedule adapter
func NewScheduleAdapter(client *postgres.Client) repositories.ScheduleRepository {
	return &ScheduleAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var scheduleColumns = []interface{}{
	"id", "facility_id", "owner_id", "weekly_hours", "created_at", "updated_at",
}

// Create creates a new schedule
func (a *ScheduleAdapter) Create(ctx context.Context, schedule *entities.Schedule) error {
	hours, err := json.Marshal(schedule.WeeklyHours)
	if err != nil {
		return apperrors.NewInternalError("failed to marshal weekly hours", err)
	}

	record := goqu.Record{
		"id":           schedule.ID,
		"facility_id":  schedule.FacilityID,
		"owner_id":     schedule.OwnerID,
		"weekly_hours": hours,
		"created_at":   schedule.CreatedAt,
		"updated_at":   schedule.UpdatedAt,
	}

	query, args, err := a.db.Insert("schedules").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError(fmt.Sprintf("facility %s already has a schedule", schedule.FacilityID))
		}
		return apperrors.NewInternalError("failed to create schedule", err)
	}

	return nil
}

// GetByID retrieves a schedule by ID
func (a *ScheduleAdapter) GetByID(ctx context.Context, id string) (*entities.Schedule, error) {
	return a.getOne(ctx, goqu.Ex{"id": id}, fmt.Sprintf("schedule with id %s not found", id))
}

// GetByFacility retrieves the schedule of a facility
func (a *ScheduleAdapter) GetByFacility(ctx context.Context, facilityID string) (*entities.Schedule, error) {
	return a.getOne(ctx, goqu.Ex{"facility_id": facilityID}, fmt.Sprintf("facility %s has no schedule", facilityID))
}

func (a *ScheduleAdapter) getOne(ctx context.Context, where goqu.Ex, notFoundMsg string) (*entities.Schedule, error) {
	query, args, err := a.db.Select(scheduleColumns...).From("schedules").Where(where).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	schedule := &entities.Schedule{}
	var hours []byte

	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&schedule.ID,
		&schedule.FacilityID,
		&schedule.OwnerID,
		&hours,
		&schedule.CreatedAt,
		&schedule.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(notFoundMsg)
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get schedule", err)
	}

	if len(hours) > 0 {
		if err := json.Unmarshal(hours, &schedule.WeeklyHours); err != nil {
			return nil, apperrors.NewInternalError("failed to unmarshal weekly hours", err)
		}
	}

	return schedule, nil
}

// Update updates a schedule
func (a *ScheduleAdapter) Update(ctx context.Context, schedule *entities.Schedule) error {
	schedule.UpdatedAt = time.Now()

	hours, err := json.Marshal(schedule.WeeklyHours)
	if err != nil {
		return apperrors.NewInternalError("failed to marshal weekly hours", err)
	}

	record := goqu.Record{
		"weekly_hours": hours,
		"updated_at":   schedule.UpdatedAt,
	}

	query, args, err := a.db.Update("schedules").Set(record).Where(goqu.Ex{"id": schedule.ID}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update schedule", err)
	}

	return requireRowsAffected(result, fmt.Sprintf("schedule with id %s not found", schedule.ID))
}

// Delete deletes a schedule
func (a *ScheduleAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete("schedules").Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete schedule", err)
	}

	return requireRowsAffected(result, fmt.Sprintf("schedule with id %s not found", id))
}

// HolidayAdapter implements the HolidayRepository interface
type HolidayAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewHolidayAdapter creates a new holiday adapter
func NewHolidayAdapter(client *postgres.Client) repositories.HolidayRepository {
	return &HolidayAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var holidayColumns = []interface{}{
	"id", "facility_id", "owner_id", "name", "date", "created_at", "updated_at",
}

// Create creates a new holiday
func (a *HolidayAdapter) Create(ctx context.Context, holiday *entities.Holiday) error {
	record := goqu.Record{
		"id":          holiday.ID,
		"facility_id": holiday.FacilityID,
		"owner_id":    holiday.OwnerID,
		"name":        holiday.Name,
		"date":        holiday.Date,
		"created_at":  holiday.CreatedAt,
		"updated_at":  holiday.UpdatedAt,
	}

	query, args, err := a.db.Insert("holidays").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create holiday", err)
	}

	return nil
}

// GetByID retrieves a holiday by ID
func (a *HolidayAdapter) GetByID(ctx context.Context, id string) (*entities.Holiday, error) {
	query, args, err := a.db.Select(holidayColumns...).From("holidays").Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	holiday := &entities.Holiday{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&holiday.ID,
		&holiday.FacilityID,
		&holiday.OwnerID,
		&holiday.Name,
		&holiday.Date,
		&holiday.CreatedAt,
		&holiday.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("holiday with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get holiday", err)
	}

	return holiday, nil
}

// ListByFacility retrieves the holidays of a facility
func (a *HolidayAdapter) ListByFacility(ctx context.Context, facilityID string) ([]*entities.Holiday, error) {
	query, args, err := a.db.Select(holidayColumns...).From("holidays").
		Where(goqu.Ex{"facility_id": facilityID}).
		Order(goqu.I("date").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list holidays", err)
	}
	defer rows.Close()

	var holidays []*entities.Holiday
	for rows.Next() {
		holiday := &entities.Holiday{}
		if err := rows.Scan(
			&holiday.ID,
			&holiday.FacilityID,
			&holiday.OwnerID,
			&holiday.Name,
			&holiday.Date,
			&holiday.CreatedAt,
			&holiday.UpdatedAt,
		); err != nil {
			return nil, apperrors.NewInternalError("failed to scan holiday", err)
		}
		holidays = append(holidays, holiday)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate holidays", err)
	}

	return holidays, nil
}

// Update updates a holiday
func (a *HolidayAdapter) Update(ctx context.Context, holiday *entities.Holiday) error {
	holiday.UpdatedAt = time.Now()

	record := goqu.Record{
		"name":       holiday.Name,
		"date":       holiday.Date,
		"updated_at": holiday.UpdatedAt,
	}

	query, args, err := a.db.Update("holidays").Set(record).Where(goqu.Ex{"id": holiday.ID}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update holiday", err)
	}

	return requireRowsAffected(result, fmt.Sprintf("holiday with id %s not found", holiday.ID))
}

// Delete deletes a holiday
func (a *HolidayAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete("holidays").Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete holiday", err)
	}

	return requireRowsAffected(result, fmt.Sprintf("holiday with id %s not found", id))
}
