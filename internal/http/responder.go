package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/course-scheduler/internal/application"
	"github.com/example/course-scheduler/internal/logging"
	"github.com/example/course-scheduler/internal/scheduler"
)

var (
	errBadRequestBody    = errors.New("invalid request body")
	errInvalidScheduleID = errors.New("invalid schedule id")
	errInvalidSectionID  = errors.New("invalid section id")
	errInvalidRoomID     = errors.New("invalid room id")
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := statusMessage(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{Message: message})
}

// handleServiceError translates application layer outcomes into HTTP status
// codes. A ConflictError keeps its fixed user-facing message under the
// "conflict" key; everything else uses the errorResponse envelope.
func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("unknown error"))
		return
	}

	var cErr *application.ConflictError
	if errors.As(err, &cErr) {
		r.writeJSON(ctx, w, http.StatusConflict, conflictResponse{
			Conflict: cErr.Message,
			Details:  toConflictDetailDTOs(cErr.Conflicts),
		})
		return
	}

	var vErr *application.ValidationError
	if errors.As(err, &vErr) {
		r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
			Message: "validation failed",
			Errors:  vErr.FieldErrors,
		})
		return
	}

	switch {
	case errors.Is(err, application.ErrNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Message: "resource not found"})
	case errors.Is(err, application.ErrAlreadyExists):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{Message: "resource already exists"})
	default:
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "error", err)
		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Message: "internal server error"})
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := logging.FromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

func statusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "malformed request"
	case http.StatusNotFound:
		return "resource not found"
	case http.StatusConflict:
		return "request conflicts with the current state of the resource"
	case http.StatusUnprocessableEntity:
		return "validation failed"
	default:
		return "internal server error"
	}
}

type errorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

type conflictResponse struct {
	Conflict string              `json:"conflict"`
	Details  []conflictDetailDTO `json:"details,omitempty"`
}

type conflictDetailDTO struct {
	ScheduleID string  `json:"scheduleId"`
	Type       string  `json:"type"`
	RoomID     *string `json:"roomId,omitempty"`
	SectionID  string  `json:"sectionId,omitempty"`
}

func toConflictDetailDTOs(conflicts []scheduler.Conflict) []conflictDetailDTO {
	if len(conflicts) == 0 {
		return nil
	}

	out := make([]conflictDetailDTO, 0, len(conflicts))
	for _, conflict := range conflicts {
		out = append(out, conflictDetailDTO{
			ScheduleID: conflict.WithBookingID,
			Type:       string(conflict.Type),
			RoomID:     conflict.RoomID,
			SectionID:  conflict.SectionID,
		})
	}
	return out
}
