package handlers

import (
	"net/http"
	"time"

	"github.com/zatekoja/fitbookingdesign/backend/internal/application/authz"
	"github.com/zatekoja/fitbookingdesign/backend/internal/application/services"
	"github.com/zatekoja/fitbookingdesign/backend/internal/domain/entities"
)

// ScheduleHandler handles schedule and holiday endpoints
type ScheduleHandler struct {
	scheduleService *services.ScheduleService
	resolver        *authz.OwnershipResolver
}

// NewScheduleHandler creates a new schedule handler
func NewScheduleHandler(scheduleService *services.ScheduleService, resolver *authz.OwnershipResolver) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleService: scheduleService,
		resolver:        resolver,
	}
}

type scheduleRequest struct {
	WeeklyHours []entities.OpeningHours `json:"weekly_hours"`
}

// CreateSchedule handles POST /api/facilities/{id}/schedule
func (h *ScheduleHandler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	facility, err := h.resolver.ResolveFacility(r.Context(), r.PathValue("id"), identity)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	var req scheduleRequest
	if !decodeBody(w, r, &req) {
		return
	}

	schedule := &entities.Schedule{
		FacilityID:  facility.ID,
		WeeklyHours: req.WeeklyHours,
	}
	if err := h.scheduleService.CreateSchedule(r.Context(), schedule); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, schedule)
}

// GetFacilitySchedule handles GET /api/facilities/{id}/schedule
func (h *ScheduleHandler) GetFacilitySchedule(w http.ResponseWriter, r *http.Request) {
	facilityID := r.PathValue("id")
	if facilityID == "" {
		respondWithError(w, http.StatusBadRequest, "facility ID is required")
		return
	}

	schedule, err := h.scheduleService.GetFacilitySchedule(r.Context(), facilityID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, schedule)
}

// UpdateSchedule handles PUT /api/schedules/{id}
func (h *ScheduleHandler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	schedule, err := h.resolver.ResolveSchedule(r.Context(), r.PathValue("id"), identity)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	var req scheduleRequest
	if !decodeBody(w, r, &req) {
		return
	}

	schedule.WeeklyHours = req.WeeklyHours
	if err := h.scheduleService.UpdateSchedule(r.Context(), schedule); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, schedule)
}

// DeleteSchedule handles DELETE /api/schedules/{id}
func (h *ScheduleHandler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	schedule, err := h.resolver.ResolveSchedule(r.Context(), r.PathValue("id"), identity)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	if err := h.scheduleService.DeleteSchedule(r.Context(), schedule.ID); err != nil {
		respondWithAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type holidayRequest struct {
	Name string    `json:"name"`
	Date time.Time `json:"date"`
}

// CreateHoliday handles POST /api/facilities/{id}/holidays
func (h *ScheduleHandler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	facility, err := h.resolver.ResolveFacility(r.Context(), r.PathValue("id"), identity)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	var req holidayRequest
	if !decodeBody(w, r, &req) {
		return
	}

	holiday := &entities.Holiday{
		FacilityID: facility.ID,
		Name:       req.Name,
		Date:       req.Date,
	}
	if err := h.scheduleService.CreateHoliday(r.Context(), holiday); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, holiday)
}

// ListFacilityHolidays handles GET /api/facilities/{id}/holidays
func (h *ScheduleHandler) ListFacilityHolidays(w http.ResponseWriter, r *http.Request) {
	facilityID := r.PathValue("id")
	if facilityID == "" {
		respondWithError(w, http.StatusBadRequest, "facility ID is required")
		return
	}

	holidays, err := h.scheduleService.ListFacilityHolidays(r.Context(), facilityID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"holidays": holidays,
		"count":    len(holidays),
	})
}

// UpdateHoliday handles PATCH /api/holidays/{id}
func (h *ScheduleHandler) UpdateHoliday(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	holiday, err := h.resolver.ResolveHoliday(r.Context(), r.PathValue("id"), identity)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	var req holidayRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.Name != "" {
		holiday.Name = req.Name
	}
	if !req.Date.IsZero() {
		holiday.Date = req.Date
	}

	if err := h.scheduleService.UpdateHoliday(r.Context(), holiday); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, holiday)
}

// DeleteHoliday handles DELETE /api/holidays/{id}
func (h *ScheduleHandler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	holiday, err := h.resolver.ResolveHoliday(r.Context(), r.PathValue("id"), identity)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	if err := h.scheduleService.DeleteHoliday(r.Context(), holiday.ID); err != nil {
		respondWithAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
