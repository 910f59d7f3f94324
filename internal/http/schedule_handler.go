package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/example/course-scheduler/internal/application"
	"github.com/example/course-scheduler/internal/persistence"
	"github.com/example/course-scheduler/internal/scheduler"
)

type scheduleService interface {
	CreateSchedule(ctx context.Context, params application.CreateScheduleParams) (persistence.Schedule, error)
	UpdateSchedule(ctx context.Context, params application.UpdateScheduleParams) (persistence.Schedule, error)
	GetSchedule(ctx context.Context, id string) (persistence.Schedule, error)
	DeleteSchedules(ctx context.Context, ids []string) (int, error)
	ListSchedules(ctx context.Context, params application.ListSchedulesParams) ([]persistence.Schedule, []application.ConflictWarning, error)
}

type ScheduleHandler struct {
	service   scheduleService
	responder responder
	logger    *slog.Logger
}

func NewScheduleHandler(service scheduleService, logger *slog.Logger) *ScheduleHandler {
	base := defaultLogger(logger)
	return &ScheduleHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ScheduleHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ScheduleHandler", operation, attrs...)
}

func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	req, ok := h.decodeScheduleRequest(w, r, "Create")
	if !ok {
		return
	}

	input, ok := h.buildInput(w, r, req, "Create")
	if !ok {
		return
	}

	logger := h.log(r.Context(), "Create", "section_id", input.SectionID)

	schedule, err := h.service.CreateSchedule(r.Context(), application.CreateScheduleParams{Input: input})
	if err != nil {
		logger.ErrorContext(r.Context(), "schedule creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("schedule_id", schedule.ID).InfoContext(r.Context(), "schedule created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, scheduleResponse{Schedule: toScheduleDTO(schedule)})
}

func (h *ScheduleHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	scheduleID, ok := ScheduleIDFromContext(r.Context())
	if !ok || strings.TrimSpace(scheduleID) == "" {
		h.log(r.Context(), "Update", "error_kind", "bad_request").ErrorContext(r.Context(), "missing schedule id for update")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidScheduleID)
		return
	}

	req, ok := h.decodeScheduleRequest(w, r, "Update")
	if !ok {
		return
	}

	input, ok := h.buildInput(w, r, req, "Update")
	if !ok {
		return
	}

	logger := h.log(r.Context(), "Update", "schedule_id", scheduleID)

	schedule, err := h.service.UpdateSchedule(r.Context(), application.UpdateScheduleParams{
		ScheduleID: scheduleID,
		Input:      input,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "schedule update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "schedule updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, scheduleResponse{Schedule: toScheduleDTO(schedule)})
}

func (h *ScheduleHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	scheduleID, ok := ScheduleIDFromContext(r.Context())
	if !ok || strings.TrimSpace(scheduleID) == "" {
		h.log(r.Context(), "Get", "error_kind", "bad_request").ErrorContext(r.Context(), "missing schedule id")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidScheduleID)
		return
	}

	schedule, err := h.service.GetSchedule(r.Context(), scheduleID)
	if err != nil {
		h.log(r.Context(), "Get", "schedule_id", scheduleID).ErrorContext(r.Context(), "schedule lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, scheduleResponse{Schedule: toScheduleDTO(schedule)})
}

func (h *ScheduleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	scheduleID, ok := ScheduleIDFromContext(r.Context())
	if !ok || strings.TrimSpace(scheduleID) == "" {
		h.log(r.Context(), "Delete", "error_kind", "bad_request").ErrorContext(r.Context(), "missing schedule id for delete")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidScheduleID)
		return
	}

	logger := h.log(r.Context(), "Delete", "schedule_id", scheduleID)

	deleted, err := h.service.DeleteSchedules(r.Context(), []string{scheduleID})
	if err != nil {
		logger.ErrorContext(r.Context(), "schedule delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	if deleted == 0 {
		h.responder.handleServiceError(r.Context(), w, application.ErrNotFound)
		return
	}

	logger.InfoContext(r.Context(), "schedule deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// BulkDelete removes every schedule named in the request body and reports how
// many rows were actually deleted. Unknown ids are skipped, not errors.
func (h *ScheduleHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req bulkDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "BulkDelete", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode bulk delete request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	if err := validate.Struct(req); err != nil {
		h.responder.writeJSON(r.Context(), w, http.StatusUnprocessableEntity, errorResponse{
			Message: "validation failed",
			Errors:  validationDetails(err),
		})
		return
	}

	logger := h.log(r.Context(), "BulkDelete", "requested", len(req.IDs))

	deleted, err := h.service.DeleteSchedules(r.Context(), req.IDs)
	if err != nil {
		logger.ErrorContext(r.Context(), "bulk delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("deleted", deleted).InfoContext(r.Context(), "schedules deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, bulkDeleteResponse{Deleted: deleted})
}

func (h *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	schedules, warnings, err := h.service.ListSchedules(r.Context(), buildListParams(r.URL.Query()))
	if err != nil {
		h.log(r.Context(), "List").ErrorContext(r.Context(), "schedule listing failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listSchedulesResponse{
		Schedules: toScheduleDTOs(schedules),
		Warnings:  toWarningDTOs(warnings),
	})
}

func (h *ScheduleHandler) decodeScheduleRequest(w http.ResponseWriter, r *http.Request, operation string) (scheduleRequest, bool) {
	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), operation, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode schedule request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return scheduleRequest{}, false
	}
	if err := validate.Struct(req); err != nil {
		h.responder.writeJSON(r.Context(), w, http.StatusUnprocessableEntity, errorResponse{
			Message: "validation failed",
			Errors:  validationDetails(err),
		})
		return scheduleRequest{}, false
	}
	return req, true
}

func (h *ScheduleHandler) buildInput(w http.ResponseWriter, r *http.Request, req scheduleRequest, operation string) (application.ScheduleInput, bool) {
	input, fieldErrors := req.toInput()
	if len(fieldErrors) > 0 {
		h.log(r.Context(), operation, "error_kind", "validation").ErrorContext(r.Context(), "schedule request failed validation")
		h.responder.writeJSON(r.Context(), w, http.StatusUnprocessableEntity, errorResponse{
			Message: "validation failed",
			Errors:  fieldErrors,
		})
		return application.ScheduleInput{}, false
	}
	return input, true
}

type scheduleRequest struct {
	SectionID             string  `json:"sectionId" validate:"required"`
	DayOfWeek             string  `json:"dayOfWeek" validate:"required,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	StartTime             string  `json:"startTime" validate:"required,datetime=15:04"`
	EndTime               string  `json:"endTime" validate:"required,datetime=15:04"`
	MeetingPattern        string  `json:"meetingPattern" validate:"required,oneof=single weekly monday-wednesday-friday tuesday-thursday monday-wednesday tuesday-friday"`
	LocationType          string  `json:"locationType" validate:"required,oneof=in-person virtual hybrid"`
	RoomID                *string `json:"roomId"`
	VirtualMeetingURL     *string `json:"virtualMeetingUrl" validate:"omitempty,url"`
	UpdateSectionCapacity bool    `json:"updateSectionCapacity"`
	NewCapacity           int     `json:"newCapacity" validate:"omitempty,gte=1"`
}

// toInput converts the validated request into service input. Time-of-day
// strings are the one shape the validator cannot check, so parse failures come
// back as field errors in the same format.
func (r scheduleRequest) toInput() (application.ScheduleInput, map[string]string) {
	fieldErrors := make(map[string]string)

	start, err := scheduler.ParseTimeOfDay(r.StartTime)
	if err != nil {
		fieldErrors["startTime"] = "must be a valid HH:MM time"
	}
	end, err := scheduler.ParseTimeOfDay(r.EndTime)
	if err != nil {
		fieldErrors["endTime"] = "must be a valid HH:MM time"
	}
	if len(fieldErrors) > 0 {
		return application.ScheduleInput{}, fieldErrors
	}

	return application.ScheduleInput{
		SectionID:             strings.TrimSpace(r.SectionID),
		Day:                   scheduler.DayOfWeek(r.DayOfWeek),
		Start:                 start,
		End:                   end,
		MeetingPattern:        scheduler.MeetingPattern(r.MeetingPattern),
		LocationType:          scheduler.LocationType(r.LocationType),
		RoomID:                r.RoomID,
		VirtualMeetingURL:     r.VirtualMeetingURL,
		UpdateSectionCapacity: r.UpdateSectionCapacity,
		NewCapacity:           r.NewCapacity,
	}, nil
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids" validate:"required,min=1"`
}

type bulkDeleteResponse struct {
	Deleted int `json:"deleted"`
}

type scheduleResponse struct {
	Schedule scheduleDTO `json:"schedule"`
}

type listSchedulesResponse struct {
	Schedules []scheduleDTO        `json:"schedules"`
	Warnings  []conflictWarningDTO `json:"warnings,omitempty"`
}

type scheduleDTO struct {
	ID                string  `json:"id"`
	SectionID         string  `json:"sectionId"`
	DayOfWeek         string  `json:"dayOfWeek"`
	StartTime         string  `json:"startTime"`
	EndTime           string  `json:"endTime"`
	MeetingPattern    string  `json:"meetingPattern"`
	LocationType      string  `json:"locationType"`
	RoomID            *string `json:"roomId,omitempty"`
	VirtualMeetingURL *string `json:"virtualMeetingUrl,omitempty"`
	CreatedAt         string  `json:"createdAt"`
	UpdatedAt         string  `json:"updatedAt"`
}

func toScheduleDTO(schedule persistence.Schedule) scheduleDTO {
	return scheduleDTO{
		ID:                schedule.ID,
		SectionID:         schedule.SectionID,
		DayOfWeek:         string(schedule.Day),
		StartTime:         schedule.Start.String(),
		EndTime:           schedule.End.String(),
		MeetingPattern:    string(schedule.MeetingPattern),
		LocationType:      string(schedule.LocationType),
		RoomID:            schedule.RoomID,
		VirtualMeetingURL: schedule.VirtualMeetingURL,
		CreatedAt:         schedule.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:         schedule.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toScheduleDTOs(schedules []persistence.Schedule) []scheduleDTO {
	if len(schedules) == 0 {
		return nil
	}
	out := make([]scheduleDTO, 0, len(schedules))
	for _, schedule := range schedules {
		out = append(out, toScheduleDTO(schedule))
	}
	return out
}

type conflictWarningDTO struct {
	ScheduleID string  `json:"scheduleId"`
	Type       string  `json:"type"`
	RoomID     *string `json:"roomId,omitempty"`
	SectionID  string  `json:"sectionId,omitempty"`
}

func toWarningDTOs(warnings []application.ConflictWarning) []conflictWarningDTO {
	if len(warnings) == 0 {
		return nil
	}

	out := make([]conflictWarningDTO, 0, len(warnings))
	for _, warning := range warnings {
		out = append(out, conflictWarningDTO{
			ScheduleID: warning.ScheduleID,
			Type:       warning.Type,
			RoomID:     warning.RoomID,
			SectionID:  warning.SectionID,
		})
	}
	return out
}

func buildListParams(values url.Values) application.ListSchedulesParams {
	return application.ListSchedulesParams{
		SectionID: strings.TrimSpace(values.Get("sectionId")),
		RoomID:    strings.TrimSpace(values.Get("roomId")),
		Day:       scheduler.DayOfWeek(strings.TrimSpace(values.Get("dayOfWeek"))),
	}
}
