package persistence

import (
	"context"

	"github.com/example/course-scheduler/internal/scheduler"
)

// ScheduleFilter narrows schedule queries.
type ScheduleFilter struct {
	SectionID string
	RoomID    string
	Day       scheduler.DayOfWeek
}

// SectionRepository exposes section storage operations.
type SectionRepository interface {
	CreateSection(ctx context.Context, section Section) error
	GetSection(ctx context.Context, id string) (Section, error)
	ListSections(ctx context.Context) ([]Section, error)
}

// RoomRepository exposes room storage operations.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room Room) error
	GetRoom(ctx context.Context, id string) (Room, error)
	ListRooms(ctx context.Context) ([]Room, error)
}

// ScheduleReader exposes read access to stored schedules.
type ScheduleReader interface {
	GetSchedule(ctx context.Context, id string) (Schedule, error)
	ListSchedules(ctx context.Context, filter ScheduleFilter) ([]Schedule, error)
}

// ScheduleRepository stores meeting-slot bookings.
type ScheduleRepository interface {
	ScheduleReader
	DeleteSchedules(ctx context.Context, ids []string) (int, error)
}

// UnitOfWork is the transactional view the scheduling service operates on.
// Every read and write issued through it belongs to one atomic transaction;
// the transaction commits only when the closure passed to the Transactor
// returns nil.
type UnitOfWork interface {
	SchedulesForSlot(ctx context.Context, day scheduler.DayOfWeek, roomID string) ([]Schedule, error)
	GetSchedule(ctx context.Context, id string) (Schedule, error)
	InsertSchedule(ctx context.Context, schedule Schedule) error
	UpdateSchedule(ctx context.Context, schedule Schedule) error
	GetSection(ctx context.Context, id string) (Section, error)
	UpdateSectionCapacity(ctx context.Context, sectionID string, capacity int) error
	RoomExists(ctx context.Context, id string) (bool, error)
}

// Transactor runs a closure inside a single write transaction, committing on
// nil and rolling back on any returned error. Implementations must hold the
// write lock for the whole closure so a conflict check and the insert it
// guards cannot interleave with another writer.
type Transactor interface {
	InTransaction(ctx context.Context, fn func(uow UnitOfWork) error) error
}
