package http

import (
	"context"
)

type contextKey string

const (
	scheduleIDContextKey contextKey = "schedule_id"
	sectionIDContextKey  contextKey = "section_id"
	roomIDContextKey     contextKey = "room_id"
)

// ContextWithScheduleID injects the schedule identifier resolved from the request path.
func ContextWithScheduleID(ctx context.Context, scheduleID string) context.Context {
	return context.WithValue(ctx, scheduleIDContextKey, scheduleID)
}

// ScheduleIDFromContext extracts a schedule identifier previously associated with the context.
func ScheduleIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(scheduleIDContextKey).(string)
	return id, ok
}

// ContextWithSectionID injects the section identifier resolved from the request path.
func ContextWithSectionID(ctx context.Context, sectionID string) context.Context {
	return context.WithValue(ctx, sectionIDContextKey, sectionID)
}

// SectionIDFromContext extracts a section identifier previously associated with the context.
func SectionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sectionIDContextKey).(string)
	return id, ok
}

// ContextWithRoomID injects the room identifier resolved from the request path.
func ContextWithRoomID(ctx context.Context, roomID string) context.Context {
	return context.WithValue(ctx, roomIDContextKey, roomID)
}

// RoomIDFromContext extracts a room identifier previously associated with the context.
func RoomIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(roomIDContextKey).(string)
	return id, ok
}
