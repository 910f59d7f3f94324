package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/example/course-scheduler/internal/persistence"
)

const roomColumns = "id, name, building, capacity, created_at, updated_at"

// RoomRepository implements persistence.RoomRepository using SQLite.
type RoomRepository struct {
	pool *ConnectionPool
}

// NewRoomRepository creates a new SQLite room repository.
func NewRoomRepository(pool *ConnectionPool) *RoomRepository {
	return &RoomRepository{pool: pool}
}

// CreateRoom inserts a new room.
func (r *RoomRepository) CreateRoom(ctx context.Context, room persistence.Room) error {
	if room.ID == "" {
		return persistence.ErrConstraintViolation
	}
	query := fmt.Sprintf("INSERT INTO rooms (%s) VALUES (?, ?, ?, ?, ?, ?)", roomColumns)
	_, err := r.pool.db.ExecContext(ctx, query,
		room.ID,
		room.Name,
		room.Building,
		room.Capacity,
		room.CreatedAt.UTC().Format(time.RFC3339),
		room.UpdatedAt.UTC().Format(time.RFC3339),
	)
	return mapError(err)
}

// GetRoom retrieves a room by ID.
func (r *RoomRepository) GetRoom(ctx context.Context, id string) (persistence.Room, error) {
	if id == "" {
		return persistence.Room{}, persistence.ErrNotFound
	}

	var (
		room                 persistence.Room
		createdAt, updatedAt string
	)
	query := fmt.Sprintf("SELECT %s FROM rooms WHERE id = ?", roomColumns)
	err := r.pool.db.QueryRowContext(ctx, query, id).Scan(
		&room.ID,
		&room.Name,
		&room.Building,
		&room.Capacity,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.Room{}, mapError(err)
	}
	if room.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return persistence.Room{}, fmt.Errorf("sqlite: parse created_at: %w", err)
	}
	if room.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return persistence.Room{}, fmt.Errorf("sqlite: parse updated_at: %w", err)
	}
	return room, nil
}

// ListRooms returns all rooms ordered by name and id.
func (r *RoomRepository) ListRooms(ctx context.Context) ([]persistence.Room, error) {
	query := fmt.Sprintf("SELECT %s FROM rooms ORDER BY name ASC, id ASC", roomColumns)
	rows, err := r.pool.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var rooms []persistence.Room
	for rows.Next() {
		var (
			room                 persistence.Room
			createdAt, updatedAt string
		)
		if err := rows.Scan(&room.ID, &room.Name, &room.Building, &room.Capacity, &createdAt, &updatedAt); err != nil {
			return nil, mapError(err)
		}
		if room.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("sqlite: parse created_at: %w", err)
		}
		if room.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: parse updated_at: %w", err)
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return rooms, nil
}

func roomExists(ctx context.Context, q querier, id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	var count int
	if err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM rooms WHERE id = ?", id).Scan(&count); err != nil {
		return false, mapError(err)
	}
	return count > 0, nil
}
