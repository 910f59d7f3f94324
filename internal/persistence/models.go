package persistence

import (
	"time"

	"github.com/example/course-scheduler/internal/scheduler"
)

// Section represents a course section that owns schedules and carries a
// mutable enrollment capacity.
type Section struct {
	ID         string
	CourseCode string
	Title      string
	Capacity   int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Room represents a bookable physical room.
type Room struct {
	ID        string
	Name      string
	Building  string
	Capacity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Schedule represents a booked meeting slot stored in persistence.
type Schedule struct {
	ID                string
	SectionID         string
	Day               scheduler.DayOfWeek
	Start             scheduler.TimeOfDay
	End               scheduler.TimeOfDay
	MeetingPattern    scheduler.MeetingPattern
	LocationType      scheduler.LocationType
	RoomID            *string
	VirtualMeetingURL *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Booking converts the stored schedule into the detector's value type.
func (s Schedule) Booking() scheduler.Booking {
	return scheduler.Booking{
		ID:           s.ID,
		SectionID:    s.SectionID,
		Day:          s.Day,
		Start:        s.Start,
		End:          s.End,
		LocationType: s.LocationType,
		RoomID:       s.RoomID,
	}
}
