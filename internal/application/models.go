package application

import (
	"github.com/example/course-scheduler/internal/scheduler"
)

// ScheduleInput captures caller provided schedule fields. Shape validation
// (types, enum spellings) happens upstream; the service re-checks the domain
// invariants before any write.
type ScheduleInput struct {
	SectionID         string
	Day               scheduler.DayOfWeek
	Start             scheduler.TimeOfDay
	End               scheduler.TimeOfDay
	MeetingPattern    scheduler.MeetingPattern
	LocationType      scheduler.LocationType
	RoomID            *string
	VirtualMeetingURL *string

	// UpdateSectionCapacity requests a capacity change on the owning
	// section as part of the same transaction as the schedule write.
	UpdateSectionCapacity bool
	NewCapacity           int
}

// CreateScheduleParams wraps the data required to create a schedule.
type CreateScheduleParams struct {
	Input ScheduleInput
}

// UpdateScheduleParams wraps the data required to update an existing schedule.
type UpdateScheduleParams struct {
	ScheduleID string
	Input      ScheduleInput
}

// ListSchedulesParams narrows a schedule listing.
type ListSchedulesParams struct {
	SectionID string
	RoomID    string
	Day       scheduler.DayOfWeek
}

// ConflictWarning describes a non-blocking overlap surfaced by listings.
type ConflictWarning struct {
	ScheduleID string
	Type       string
	RoomID     *string
	SectionID  string
}

// SectionInput captures caller provided section fields.
type SectionInput struct {
	CourseCode string
	Title      string
	Capacity   int
}

// RoomInput captures caller provided room fields.
type RoomInput struct {
	Name     string
	Building string
	Capacity int
}
