package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/example/course-scheduler/internal/persistence"
	"github.com/example/course-scheduler/internal/scheduler"
)

// Transactor implements persistence.Transactor on top of the connection
// pool. Transactions begin IMMEDIATE (see Open), so the write lock is held
// before the first read inside the closure runs. That serializes the
// conflict check against concurrent writers: of two simultaneous creates for
// the same room/day window, the second observes the first's committed row.
type Transactor struct {
	pool *ConnectionPool
	now  func() time.Time
}

// NewTransactor wires a Transactor. The now function stamps capacity
// updates; it defaults to time.Now.
func NewTransactor(pool *ConnectionPool, now func() time.Time) *Transactor {
	if now == nil {
		now = time.Now
	}
	return &Transactor{pool: pool, now: now}
}

// InTransaction runs fn against a transactional unit of work, committing on
// nil and rolling back on any returned error.
func (t *Transactor) InTransaction(ctx context.Context, fn func(uow persistence.UnitOfWork) error) error {
	return t.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		return fn(&unitOfWork{tx: tx, now: t.now})
	})
}

// unitOfWork binds the repository operations the scheduling service needs to
// a single open transaction.
type unitOfWork struct {
	tx  *sql.Tx
	now func() time.Time
}

func (u *unitOfWork) SchedulesForSlot(ctx context.Context, day scheduler.DayOfWeek, roomID string) ([]persistence.Schedule, error) {
	return schedulesForSlot(ctx, u.tx, day, roomID)
}

func (u *unitOfWork) GetSchedule(ctx context.Context, id string) (persistence.Schedule, error) {
	return getSchedule(ctx, u.tx, id)
}

func (u *unitOfWork) InsertSchedule(ctx context.Context, schedule persistence.Schedule) error {
	return insertSchedule(ctx, u.tx, schedule)
}

func (u *unitOfWork) UpdateSchedule(ctx context.Context, schedule persistence.Schedule) error {
	return updateSchedule(ctx, u.tx, schedule)
}

func (u *unitOfWork) GetSection(ctx context.Context, id string) (persistence.Section, error) {
	return getSection(ctx, u.tx, id)
}

func (u *unitOfWork) UpdateSectionCapacity(ctx context.Context, sectionID string, capacity int) error {
	return updateSectionCapacity(ctx, u.tx, sectionID, capacity, u.now())
}

func (u *unitOfWork) RoomExists(ctx context.Context, id string) (bool, error) {
	return roomExists(ctx, u.tx, id)
}
