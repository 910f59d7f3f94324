package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/course-scheduler/internal/persistence"
	"github.com/example/course-scheduler/internal/scheduler"
)

var (
	sectionCounter  uint64
	roomCounter     uint64
	scheduleCounter uint64
)

var referenceTime = time.Date(2025, time.September, 1, 12, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ----------------------------- Section fixtures -----------------------------

// SectionOption configures the generated section fixture.
type SectionOption func(*persistence.Section)

// NewSectionFixture returns a deterministic section with optional overrides.
func NewSectionFixture(opts ...SectionOption) persistence.Section {
	idx := atomic.AddUint64(&sectionCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	section := persistence.Section{
		ID:         fmt.Sprintf("section-%03d", idx),
		CourseCode: fmt.Sprintf("CS-%03d", idx),
		Title:      fmt.Sprintf("Course %03d", idx),
		Capacity:   30,
		CreatedAt:  created,
		UpdatedAt:  created,
	}
	for _, opt := range opts {
		opt(&section)
	}
	return section
}

// WithSectionID overrides the generated section ID.
func WithSectionID(id string) SectionOption {
	return func(s *persistence.Section) {
		s.ID = id
	}
}

// WithSectionCapacity overrides the generated capacity.
func WithSectionCapacity(capacity int) SectionOption {
	return func(s *persistence.Section) {
		s.Capacity = capacity
	}
}

// ----------------------------- Room fixtures -----------------------------

// RoomOption configures the generated room fixture.
type RoomOption func(*persistence.Room)

// NewRoomFixture returns a deterministic room with optional overrides.
func NewRoomFixture(opts ...RoomOption) persistence.Room {
	idx := atomic.AddUint64(&roomCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	room := persistence.Room{
		ID:        fmt.Sprintf("room-%03d", idx),
		Name:      fmt.Sprintf("Room %03d", idx),
		Building:  "Science Hall",
		Capacity:  45,
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&room)
	}
	return room
}

// WithRoomID overrides the generated room ID.
func WithRoomID(id string) RoomOption {
	return func(r *persistence.Room) {
		r.ID = id
	}
}

// ----------------------------- Schedule fixtures -----------------------------

// ScheduleOption configures the generated schedule fixture.
type ScheduleOption func(*persistence.Schedule)

// NewScheduleFixture returns a deterministic in-person Monday morning schedule
// with optional overrides. SectionID and RoomID default to empty and usually
// need to point at seeded rows before the fixture can be inserted.
func NewScheduleFixture(opts ...ScheduleOption) persistence.Schedule {
	idx := atomic.AddUint64(&scheduleCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	schedule := persistence.Schedule{
		ID:             fmt.Sprintf("schedule-%03d", idx),
		Day:            scheduler.Monday,
		Start:          scheduler.TimeOfDay(9 * 60),
		End:            scheduler.TimeOfDay(10 * 60),
		MeetingPattern: scheduler.PatternWeekly,
		LocationType:   scheduler.LocationInPerson,
		CreatedAt:      created,
		UpdatedAt:      created,
	}
	for _, opt := range opts {
		opt(&schedule)
	}
	return schedule
}

// WithScheduleID overrides the generated schedule ID.
func WithScheduleID(id string) ScheduleOption {
	return func(s *persistence.Schedule) {
		s.ID = id
	}
}

// WithScheduleSection points the schedule at a section.
func WithScheduleSection(sectionID string) ScheduleOption {
	return func(s *persistence.Schedule) {
		s.SectionID = sectionID
	}
}

// WithScheduleRoom points the schedule at a room.
func WithScheduleRoom(roomID string) ScheduleOption {
	return func(s *persistence.Schedule) {
		id := roomID
		s.RoomID = &id
	}
}

// WithScheduleDay overrides the generated day of week.
func WithScheduleDay(day scheduler.DayOfWeek) ScheduleOption {
	return func(s *persistence.Schedule) {
		s.Day = day
	}
}

// WithScheduleTimes overrides the generated start and end times.
func WithScheduleTimes(start, end scheduler.TimeOfDay) ScheduleOption {
	return func(s *persistence.Schedule) {
		s.Start = start
		s.End = end
	}
}

// WithScheduleVirtual converts the fixture into a virtual schedule carrying
// the provided meeting URL and no room.
func WithScheduleVirtual(meetingURL string) ScheduleOption {
	return func(s *persistence.Schedule) {
		url := meetingURL
		s.LocationType = scheduler.LocationVirtual
		s.VirtualMeetingURL = &url
		s.RoomID = nil
	}
}
