package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/example/course-scheduler/internal/persistence"
	"github.com/example/course-scheduler/internal/scheduler"
)

// SchedulingService orchestrates validation, conflict detection, optional
// section capacity updates and persistence. Every create or update runs
// inside one transaction, so the conflict check, the capacity change and the
// schedule write either all take effect or none do.
type SchedulingService struct {
	transactor  persistence.Transactor
	schedules   persistence.ScheduleRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger

	warnings   *warningCache
	generation atomic.Uint64
}

// SchedulingServiceOptions tunes optional service behavior.
type SchedulingServiceOptions struct {
	WarningCacheTTL  time.Duration
	WarningCacheSize int
}

// NewSchedulingService wires dependencies for schedule operations.
func NewSchedulingService(transactor persistence.Transactor, schedules persistence.ScheduleRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger, opts SchedulingServiceOptions) *SchedulingService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &SchedulingService{
		transactor:  transactor,
		schedules:   schedules,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
		warnings:    newWarningCache(opts.WarningCacheTTL, opts.WarningCacheSize),
	}
}

// CreateSchedule validates the candidate, checks it for room conflicts and
// persists it. A requested capacity update on the owning section happens in
// the same transaction as the insert.
func (s *SchedulingService) CreateSchedule(ctx context.Context, params CreateScheduleParams) (persistence.Schedule, error) {
	if s == nil || s.transactor == nil {
		return persistence.Schedule{}, fmt.Errorf("scheduling service not configured")
	}

	input := normalizeInput(params.Input)

	vErr := &ValidationError{}
	validateScheduleCore(input, vErr)
	if vErr.HasErrors() {
		return persistence.Schedule{}, vErr
	}

	createdAt := s.now()
	schedule := persistence.Schedule{
		ID:                s.idGenerator(),
		SectionID:         input.SectionID,
		Day:               input.Day,
		Start:             input.Start,
		End:               input.End,
		MeetingPattern:    input.MeetingPattern,
		LocationType:      input.LocationType,
		RoomID:            input.RoomID,
		VirtualMeetingURL: input.VirtualMeetingURL,
		CreatedAt:         createdAt,
		UpdatedAt:         createdAt,
	}

	err := s.transactor.InTransaction(ctx, func(uow persistence.UnitOfWork) error {
		if err := s.checkRoomConflicts(ctx, uow, schedule, ""); err != nil {
			return err
		}

		section, err := uow.GetSection(ctx, schedule.SectionID)
		if err != nil {
			return mapRepoError(err)
		}

		if input.UpdateSectionCapacity {
			if err := uow.UpdateSectionCapacity(ctx, section.ID, input.NewCapacity); err != nil {
				return mapRepoError(err)
			}
		}

		return mapRepoError(uow.InsertSchedule(ctx, schedule))
	})
	if err != nil {
		s.logOutcome(ctx, "CreateSchedule", err, "section_id", input.SectionID)
		return persistence.Schedule{}, err
	}

	s.generation.Add(1)
	serviceLogger(ctx, s.logger, "SchedulingService", "CreateSchedule").
		InfoContext(ctx, "schedule created", "schedule_id", schedule.ID, "section_id", schedule.SectionID)
	return schedule, nil
}

// UpdateSchedule replaces the day, time and location fields of an existing
// schedule, re-running conflict detection with the schedule itself excluded.
// A requested capacity update applies to the schedule's current owning
// section, not a section supplied in the payload.
func (s *SchedulingService) UpdateSchedule(ctx context.Context, params UpdateScheduleParams) (persistence.Schedule, error) {
	if s == nil || s.transactor == nil {
		return persistence.Schedule{}, fmt.Errorf("scheduling service not configured")
	}

	input := normalizeInput(params.Input)

	vErr := &ValidationError{}
	validateScheduleCore(input, vErr)
	if vErr.HasErrors() {
		return persistence.Schedule{}, vErr
	}

	var persisted persistence.Schedule
	err := s.transactor.InTransaction(ctx, func(uow persistence.UnitOfWork) error {
		existing, err := uow.GetSchedule(ctx, params.ScheduleID)
		if err != nil {
			return mapRepoError(err)
		}

		updated := existing
		updated.Day = input.Day
		updated.Start = input.Start
		updated.End = input.End
		updated.MeetingPattern = input.MeetingPattern
		updated.LocationType = input.LocationType
		updated.RoomID = input.RoomID
		updated.VirtualMeetingURL = input.VirtualMeetingURL
		updated.UpdatedAt = s.now()

		if err := s.checkRoomConflicts(ctx, uow, updated, existing.ID); err != nil {
			return err
		}

		if input.UpdateSectionCapacity {
			if err := uow.UpdateSectionCapacity(ctx, existing.SectionID, input.NewCapacity); err != nil {
				return mapRepoError(err)
			}
		}

		if err := uow.UpdateSchedule(ctx, updated); err != nil {
			return mapRepoError(err)
		}

		persisted, err = uow.GetSchedule(ctx, updated.ID)
		return mapRepoError(err)
	})
	if err != nil {
		s.logOutcome(ctx, "UpdateSchedule", err, "schedule_id", params.ScheduleID)
		return persistence.Schedule{}, err
	}

	s.generation.Add(1)
	serviceLogger(ctx, s.logger, "SchedulingService", "UpdateSchedule").
		InfoContext(ctx, "schedule updated", "schedule_id", persisted.ID)
	return persisted, nil
}

// GetSchedule retrieves a single schedule.
func (s *SchedulingService) GetSchedule(ctx context.Context, id string) (persistence.Schedule, error) {
	if s == nil || s.schedules == nil {
		return persistence.Schedule{}, fmt.Errorf("scheduling service not configured")
	}
	schedule, err := s.schedules.GetSchedule(ctx, id)
	if err != nil {
		return persistence.Schedule{}, mapRepoError(err)
	}
	return schedule, nil
}

// DeleteSchedules removes the identified schedules. Unknown ids are ignored;
// the returned count reflects rows actually deleted.
func (s *SchedulingService) DeleteSchedules(ctx context.Context, ids []string) (int, error) {
	if s == nil || s.schedules == nil {
		return 0, fmt.Errorf("scheduling service not configured")
	}

	deleted, err := s.schedules.DeleteSchedules(ctx, ids)
	if err != nil {
		s.logOutcome(ctx, "DeleteSchedules", err)
		return 0, mapRepoError(err)
	}
	if deleted > 0 {
		s.generation.Add(1)
	}
	serviceLogger(ctx, s.logger, "SchedulingService", "DeleteSchedules").
		InfoContext(ctx, "schedules deleted", "requested", len(ids), "deleted", deleted)
	return deleted, nil
}

// ListSchedules enumerates schedules matching the filter together with
// advisory overlap warnings. Warnings never block a write; they include room
// collisions visible in the listing and time overlaps within one section,
// virtual meetings included.
func (s *SchedulingService) ListSchedules(ctx context.Context, params ListSchedulesParams) ([]persistence.Schedule, []ConflictWarning, error) {
	if s == nil || s.schedules == nil {
		return nil, nil, fmt.Errorf("scheduling service not configured")
	}

	schedules, err := s.schedules.ListSchedules(ctx, persistence.ScheduleFilter{
		SectionID: params.SectionID,
		RoomID:    params.RoomID,
		Day:       params.Day,
	})
	if err != nil {
		return nil, nil, mapRepoError(err)
	}

	key := fmt.Sprintf("%d|%s|%s|%s", s.generation.Load(), params.SectionID, params.RoomID, params.Day)
	if warnings, ok := s.warnings.Get(key); ok {
		return schedules, warnings, nil
	}

	warnings := detectListWarnings(schedules)
	s.warnings.Put(key, warnings)
	return schedules, warnings, nil
}

func (s *SchedulingService) checkRoomConflicts(ctx context.Context, uow persistence.UnitOfWork, candidate persistence.Schedule, excludeID string) error {
	if !candidate.LocationType.RequiresRoom() || candidate.RoomID == nil {
		return nil
	}

	exists, err := uow.RoomExists(ctx, *candidate.RoomID)
	if err != nil {
		return err
	}
	if !exists {
		vErr := &ValidationError{}
		vErr.add("roomId", "room does not exist")
		return vErr
	}

	existing, err := uow.SchedulesForSlot(ctx, candidate.Day, *candidate.RoomID)
	if err != nil {
		return err
	}

	bookings := make([]scheduler.Booking, 0, len(existing))
	for _, sched := range existing {
		bookings = append(bookings, sched.Booking())
	}

	if conflicts := scheduler.FindRoomConflicts(bookings, candidate.Booking(), excludeID); len(conflicts) > 0 {
		return newConflictError(conflicts)
	}
	return nil
}

func (s *SchedulingService) logOutcome(ctx context.Context, operation string, err error, attrs ...any) {
	logger := serviceLogger(ctx, s.logger, "SchedulingService", operation, attrs...)
	kind := ErrorKind(err)
	if kind == "unexpected" {
		logger.ErrorContext(ctx, "operation failed", "error", err, "kind", kind)
		return
	}
	logger.InfoContext(ctx, "operation rejected", "kind", kind)
}

// normalizeInput drops location fields the location type ignores: a virtual
// schedule carries no room, an in-person schedule carries no meeting URL.
func normalizeInput(input ScheduleInput) ScheduleInput {
	if !input.LocationType.RequiresRoom() {
		input.RoomID = nil
	}
	if !input.LocationType.RequiresMeetingURL() {
		input.VirtualMeetingURL = nil
	}
	return input
}

func validateScheduleCore(input ScheduleInput, vErr *ValidationError) {
	if input.SectionID == "" {
		vErr.add("sectionId", "section is required")
	}
	if !input.Day.Valid() {
		vErr.add("dayOfWeek", "invalid day of week")
	}
	if !input.Start.Before(input.End) {
		vErr.add("time", "start time must be before end time")
	}
	if !input.MeetingPattern.Valid() {
		vErr.add("meetingPattern", "invalid meeting pattern")
	}
	if !input.LocationType.Valid() {
		vErr.add("locationType", "invalid location type")
		return
	}

	if input.LocationType.RequiresRoom() && input.RoomID == nil {
		vErr.add("roomId", "room is required for this location type")
	}
	if input.LocationType.RequiresMeetingURL() {
		if input.VirtualMeetingURL == nil || *input.VirtualMeetingURL == "" {
			vErr.add("virtualMeetingUrl", "meeting URL is required for this location type")
		} else if _, err := url.ParseRequestURI(*input.VirtualMeetingURL); err != nil {
			vErr.add("virtualMeetingUrl", "must be a valid URL")
		}
	}

	if input.UpdateSectionCapacity && input.NewCapacity < 1 {
		vErr.add("newCapacity", "capacity must be a positive integer")
	}
}

func detectListWarnings(schedules []persistence.Schedule) []ConflictWarning {
	if len(schedules) <= 1 {
		return nil
	}

	bookings := make([]scheduler.Booking, len(schedules))
	for i, sched := range schedules {
		bookings[i] = sched.Booking()
	}

	var warnings []ConflictWarning
	for i, candidate := range bookings {
		if i+1 >= len(bookings) {
			break
		}
		for _, conflict := range scheduler.FindRoomConflicts(bookings[i+1:], candidate, "") {
			warnings = append(warnings, toWarning(conflict))
		}
	}
	for _, conflict := range scheduler.FindSectionOverlaps(bookings) {
		warnings = append(warnings, toWarning(conflict))
	}
	return warnings
}

func toWarning(conflict scheduler.Conflict) ConflictWarning {
	warning := ConflictWarning{
		ScheduleID: conflict.WithBookingID,
		Type:       string(conflict.Type),
		SectionID:  conflict.SectionID,
	}
	if conflict.RoomID != nil {
		roomID := *conflict.RoomID
		warning.RoomID = &roomID
	}
	return warning
}

func mapRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		return ErrAlreadyExists
	}
	if errors.Is(err, persistence.ErrForeignKeyViolation) {
		vErr := &ValidationError{}
		vErr.add("sectionId", "related records are missing")
		return vErr
	}
	if errors.Is(err, persistence.ErrConstraintViolation) {
		vErr := &ValidationError{}
		vErr.add("time", "start time must be before end time")
		return vErr
	}
	return err
}
