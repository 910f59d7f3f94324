package testfixtures

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/course-scheduler/internal/persistence"
	"github.com/example/course-scheduler/internal/persistence/sqlite"
)

// SQLiteHarness provides repository and transactor access backed by a
// temporary SQLite database for integration-style persistence tests.
type SQLiteHarness struct {
	Pool       *sqlite.ConnectionPool
	Sections   persistence.SectionRepository
	Rooms      persistence.RoomRepository
	Schedules  persistence.ScheduleRepository
	Transactor persistence.Transactor

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness constructs a SQLiteHarness using a temporary file that is
// migrated automatically. Callers may optionally invoke Close, but the helper
// also registers a cleanup callback with the provided testing.TB.
func NewSQLiteHarness(tb testing.TB, now func() time.Time) *SQLiteHarness {
	tb.Helper()

	dir := tb.TempDir()
	path := filepath.Join(dir, "scheduler.db")

	pool, err := sqlite.Open(path)
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}

	if err := pool.Migrate(context.Background()); err != nil {
		_ = pool.Close()
		tb.Fatalf("failed to migrate storage: %v", err)
	}

	if now == nil {
		now = time.Now
	}

	harness := &SQLiteHarness{
		Pool:       pool,
		Sections:   sqlite.NewSectionRepository(pool),
		Rooms:      sqlite.NewRoomRepository(pool),
		Schedules:  sqlite.NewScheduleRepository(pool),
		Transactor: sqlite.NewTransactor(pool, now),
		cleanup: func() {
			_ = pool.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}
