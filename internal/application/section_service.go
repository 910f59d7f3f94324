package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/course-scheduler/internal/persistence"
)

// SectionService manages the course sections that own schedules.
type SectionService struct {
	sections    persistence.SectionRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewSectionService wires dependencies for section operations.
func NewSectionService(sections persistence.SectionRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *SectionService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &SectionService{
		sections:    sections,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

// CreateSection validates and persists a new section.
func (s *SectionService) CreateSection(ctx context.Context, input SectionInput) (persistence.Section, error) {
	if s == nil || s.sections == nil {
		return persistence.Section{}, fmt.Errorf("section service not configured")
	}

	vErr := &ValidationError{}
	if strings.TrimSpace(input.CourseCode) == "" {
		vErr.add("courseCode", "course code is required")
	}
	if input.Capacity < 1 {
		vErr.add("capacity", "capacity must be a positive integer")
	}
	if vErr.HasErrors() {
		return persistence.Section{}, vErr
	}

	createdAt := s.now()
	section := persistence.Section{
		ID:         s.idGenerator(),
		CourseCode: strings.TrimSpace(input.CourseCode),
		Title:      strings.TrimSpace(input.Title),
		Capacity:   input.Capacity,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}

	if err := s.sections.CreateSection(ctx, section); err != nil {
		return persistence.Section{}, mapRepoError(err)
	}

	serviceLogger(ctx, s.logger, "SectionService", "CreateSection").
		InfoContext(ctx, "section created", "section_id", section.ID, "course_code", section.CourseCode)
	return section, nil
}

// GetSection retrieves a section by ID.
func (s *SectionService) GetSection(ctx context.Context, id string) (persistence.Section, error) {
	if s == nil || s.sections == nil {
		return persistence.Section{}, fmt.Errorf("section service not configured")
	}
	section, err := s.sections.GetSection(ctx, id)
	if err != nil {
		return persistence.Section{}, mapRepoError(err)
	}
	return section, nil
}

// ListSections enumerates all sections.
func (s *SectionService) ListSections(ctx context.Context) ([]persistence.Section, error) {
	if s == nil || s.sections == nil {
		return nil, fmt.Errorf("section service not configured")
	}
	sections, err := s.sections.ListSections(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return sections, nil
}
