package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/course-scheduler/internal/application"
	"github.com/example/course-scheduler/internal/persistence"
)

type sectionService interface {
	CreateSection(ctx context.Context, input application.SectionInput) (persistence.Section, error)
	GetSection(ctx context.Context, id string) (persistence.Section, error)
	ListSections(ctx context.Context) ([]persistence.Section, error)
}

type SectionHandler struct {
	service   sectionService
	responder responder
	logger    *slog.Logger
}

func NewSectionHandler(service sectionService, logger *slog.Logger) *SectionHandler {
	base := defaultLogger(logger)
	return &SectionHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *SectionHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "SectionHandler", operation, attrs...)
}

func (h *SectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req sectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode section request", "error", err)
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

	logger := h.log(r.Context(), "Create", "course_code", req.CourseCode)

	section, err := h.service.CreateSection(r.Context(), application.SectionInput{
		CourseCode: req.CourseCode,
		Title:      req.Title,
		Capacity:   req.Capacity,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "section creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("section_id", section.ID).InfoContext(r.Context(), "section created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toSectionDTO(section))
}

func (h *SectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	sectionID, ok := SectionIDFromContext(r.Context())
	if !ok || strings.TrimSpace(sectionID) == "" {
		h.log(r.Context(), "Get", "error_kind", "bad_request").ErrorContext(r.Context(), "missing section id")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidSectionID)
		return
	}

	section, err := h.service.GetSection(r.Context(), sectionID)
	if err != nil {
		h.log(r.Context(), "Get", "section_id", sectionID).ErrorContext(r.Context(), "section lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toSectionDTO(section))
}

func (h *SectionHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	sections, err := h.service.ListSections(r.Context())
	if err != nil {
		h.log(r.Context(), "List").ErrorContext(r.Context(), "section listing failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]sectionDTO, 0, len(sections))
	for _, section := range sections {
		out = append(out, toSectionDTO(section))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listSectionsResponse{Sections: out})
}

type sectionRequest struct {
	CourseCode string `json:"courseCode" validate:"required"`
	Title      string `json:"title"`
	Capacity   int    `json:"capacity" validate:"required,gte=1"`
}

type listSectionsResponse struct {
	Sections []sectionDTO `json:"sections"`
}

type sectionDTO struct {
	ID         string `json:"id"`
	CourseCode string `json:"courseCode"`
	Title      string `json:"title,omitempty"`
	Capacity   int    `json:"capacity"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

func toSectionDTO(section persistence.Section) sectionDTO {
	return sectionDTO{
		ID:         section.ID,
		CourseCode: section.CourseCode,
		Title:      section.Title,
		Capacity:   section.Capacity,
		CreatedAt:  section.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:  section.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
