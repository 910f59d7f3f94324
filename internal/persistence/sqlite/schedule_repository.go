package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/course-scheduler/internal/persistence"
	"github.com/example/course-scheduler/internal/scheduler"
)

const scheduleColumns = "id, section_id, day_of_week, start_minutes, end_minutes, meeting_pattern, location_type, room_id, virtual_meeting_url, created_at, updated_at"

// dayOrdinal maps the textual day token to its calendar position so listings
// sort Monday first instead of alphabetically.
const dayOrdinal = "CASE day_of_week " +
	"WHEN 'monday' THEN 1 WHEN 'tuesday' THEN 2 WHEN 'wednesday' THEN 3 " +
	"WHEN 'thursday' THEN 4 WHEN 'friday' THEN 5 WHEN 'saturday' THEN 6 " +
	"WHEN 'sunday' THEN 7 ELSE 8 END"

// ScheduleRepository implements persistence.ScheduleRepository using SQLite.
type ScheduleRepository struct {
	pool *ConnectionPool
}

// NewScheduleRepository creates a new SQLite schedule repository.
func NewScheduleRepository(pool *ConnectionPool) *ScheduleRepository {
	return &ScheduleRepository{pool: pool}
}

// GetSchedule retrieves a schedule by ID.
func (r *ScheduleRepository) GetSchedule(ctx context.Context, id string) (persistence.Schedule, error) {
	return getSchedule(ctx, r.pool.db, id)
}

// ListSchedules lists schedules matching the filter, ordered by day, start
// time and id.
func (r *ScheduleRepository) ListSchedules(ctx context.Context, filter persistence.ScheduleFilter) ([]persistence.Schedule, error) {
	return listSchedules(ctx, r.pool.db, filter)
}

// DeleteSchedules removes the identified schedules and reports how many rows
// were deleted. Unknown ids are skipped silently.
func (r *ScheduleRepository) DeleteSchedules(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	deleted := 0
	err := r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		placeholders := make([]string, len(ids))
		args := make([]any, len(ids))
		for i, id := range ids {
			placeholders[i] = "?"
			args[i] = id
		}
		query := fmt.Sprintf("DELETE FROM schedules WHERE id IN (%s)", strings.Join(placeholders, ","))
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return mapError(err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("sqlite: rows affected: %w", err)
		}
		deleted = int(affected)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

func getSchedule(ctx context.Context, q querier, id string) (persistence.Schedule, error) {
	if id == "" {
		return persistence.Schedule{}, persistence.ErrNotFound
	}
	query := fmt.Sprintf("SELECT %s FROM schedules WHERE id = ?", scheduleColumns)
	return scanSchedule(q.QueryRowContext(ctx, query, id))
}

func listSchedules(ctx context.Context, q querier, filter persistence.ScheduleFilter) ([]persistence.Schedule, error) {
	query := fmt.Sprintf("SELECT %s FROM schedules", scheduleColumns)

	var conditions []string
	var args []any
	if filter.SectionID != "" {
		conditions = append(conditions, "section_id = ?")
		args = append(args, filter.SectionID)
	}
	if filter.RoomID != "" {
		conditions = append(conditions, "room_id = ?")
		args = append(args, filter.RoomID)
	}
	if filter.Day != "" {
		conditions = append(conditions, "day_of_week = ?")
		args = append(args, string(filter.Day))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY " + dayOrdinal + " ASC, start_minutes ASC, id ASC"

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var schedules []persistence.Schedule
	for rows.Next() {
		schedule, err := scanScheduleRow(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, schedule)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return schedules, nil
}

func insertSchedule(ctx context.Context, q querier, schedule persistence.Schedule) error {
	if schedule.ID == "" {
		return persistence.ErrConstraintViolation
	}

	query := fmt.Sprintf("INSERT INTO schedules (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", scheduleColumns)
	_, err := q.ExecContext(ctx, query,
		schedule.ID,
		schedule.SectionID,
		string(schedule.Day),
		schedule.Start.Minutes(),
		schedule.End.Minutes(),
		string(schedule.MeetingPattern),
		string(schedule.LocationType),
		nullString(schedule.RoomID),
		nullString(schedule.VirtualMeetingURL),
		schedule.CreatedAt.UTC().Format(time.RFC3339),
		schedule.UpdatedAt.UTC().Format(time.RFC3339),
	)
	return mapError(err)
}

func updateSchedule(ctx context.Context, q querier, schedule persistence.Schedule) error {
	if schedule.ID == "" {
		return persistence.ErrNotFound
	}

	query := `
		UPDATE schedules
		SET section_id = ?, day_of_week = ?, start_minutes = ?, end_minutes = ?,
		    meeting_pattern = ?, location_type = ?, room_id = ?, virtual_meeting_url = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := q.ExecContext(ctx, query,
		schedule.SectionID,
		string(schedule.Day),
		schedule.Start.Minutes(),
		schedule.End.Minutes(),
		string(schedule.MeetingPattern),
		string(schedule.LocationType),
		nullString(schedule.RoomID),
		nullString(schedule.VirtualMeetingURL),
		schedule.UpdatedAt.UTC().Format(time.RFC3339),
		schedule.ID,
	)
	if err != nil {
		return mapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

func schedulesForSlot(ctx context.Context, q querier, day scheduler.DayOfWeek, roomID string) ([]persistence.Schedule, error) {
	query := fmt.Sprintf("SELECT %s FROM schedules WHERE day_of_week = ? AND room_id = ? ORDER BY start_minutes ASC, id ASC", scheduleColumns)

	rows, err := q.QueryContext(ctx, query, string(day), roomID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var schedules []persistence.Schedule
	for rows.Next() {
		schedule, err := scanScheduleRow(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, schedule)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return schedules, nil
}

func scanSchedule(row *sql.Row) (persistence.Schedule, error) {
	var (
		schedule             persistence.Schedule
		day, pattern, loc    string
		startMin, endMin     int
		roomID, meetingURL   sql.NullString
		createdAt, updatedAt string
	)
	err := row.Scan(
		&schedule.ID,
		&schedule.SectionID,
		&day,
		&startMin,
		&endMin,
		&pattern,
		&loc,
		&roomID,
		&meetingURL,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.Schedule{}, mapError(err)
	}
	return buildSchedule(schedule, day, pattern, loc, startMin, endMin, roomID, meetingURL, createdAt, updatedAt)
}

func scanScheduleRow(rows *sql.Rows) (persistence.Schedule, error) {
	var (
		schedule             persistence.Schedule
		day, pattern, loc    string
		startMin, endMin     int
		roomID, meetingURL   sql.NullString
		createdAt, updatedAt string
	)
	err := rows.Scan(
		&schedule.ID,
		&schedule.SectionID,
		&day,
		&startMin,
		&endMin,
		&pattern,
		&loc,
		&roomID,
		&meetingURL,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.Schedule{}, mapError(err)
	}
	return buildSchedule(schedule, day, pattern, loc, startMin, endMin, roomID, meetingURL, createdAt, updatedAt)
}

func buildSchedule(schedule persistence.Schedule, day, pattern, loc string, startMin, endMin int, roomID, meetingURL sql.NullString, createdAt, updatedAt string) (persistence.Schedule, error) {
	schedule.Day = scheduler.DayOfWeek(day)
	schedule.Start = scheduler.TimeOfDay(startMin)
	schedule.End = scheduler.TimeOfDay(endMin)
	schedule.MeetingPattern = scheduler.MeetingPattern(pattern)
	schedule.LocationType = scheduler.LocationType(loc)
	schedule.RoomID = stringPtr(roomID)
	schedule.VirtualMeetingURL = stringPtr(meetingURL)

	var err error
	if schedule.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return persistence.Schedule{}, fmt.Errorf("sqlite: parse created_at: %w", err)
	}
	if schedule.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return persistence.Schedule{}, fmt.Errorf("sqlite: parse updated_at: %w", err)
	}
	return schedule, nil
}
