package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/course-scheduler/internal/persistence"
)

// RoomService manages the catalog of bookable rooms.
type RoomService struct {
	rooms       persistence.RoomRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewRoomService wires dependencies for room operations.
func NewRoomService(rooms persistence.RoomRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *RoomService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &RoomService{
		rooms:       rooms,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

// CreateRoom validates and persists a new room.
func (s *RoomService) CreateRoom(ctx context.Context, input RoomInput) (persistence.Room, error) {
	if s == nil || s.rooms == nil {
		return persistence.Room{}, fmt.Errorf("room service not configured")
	}

	vErr := &ValidationError{}
	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}
	if input.Capacity < 0 {
		vErr.add("capacity", "capacity cannot be negative")
	}
	if vErr.HasErrors() {
		return persistence.Room{}, vErr
	}

	createdAt := s.now()
	room := persistence.Room{
		ID:        s.idGenerator(),
		Name:      strings.TrimSpace(input.Name),
		Building:  strings.TrimSpace(input.Building),
		Capacity:  input.Capacity,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}

	if err := s.rooms.CreateRoom(ctx, room); err != nil {
		return persistence.Room{}, mapRepoError(err)
	}

	serviceLogger(ctx, s.logger, "RoomService", "CreateRoom").
		InfoContext(ctx, "room created", "room_id", room.ID, "name", room.Name)
	return room, nil
}

// GetRoom retrieves a room by ID.
func (s *RoomService) GetRoom(ctx context.Context, id string) (persistence.Room, error) {
	if s == nil || s.rooms == nil {
		return persistence.Room{}, fmt.Errorf("room service not configured")
	}
	room, err := s.rooms.GetRoom(ctx, id)
	if err != nil {
		return persistence.Room{}, mapRepoError(err)
	}
	return room, nil
}

// ListRooms enumerates all rooms.
func (s *RoomService) ListRooms(ctx context.Context) ([]persistence.Room, error) {
	if s == nil || s.rooms == nil {
		return nil, fmt.Errorf("room service not configured")
	}
	rooms, err := s.rooms.ListRooms(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return rooms, nil
}
