package scheduler

// Booking represents a single meeting-time reservation in the course
// scheduling domain.
type Booking struct {
	ID           string
	SectionID    string
	Day          DayOfWeek
	Start        TimeOfDay
	End          TimeOfDay
	LocationType LocationType
	RoomID       *string
}

// ConflictType describes the type of conflict detected between bookings.
type ConflictType string

const (
	// ConflictTypeRoom indicates a room is double-booked.
	ConflictTypeRoom ConflictType = "room"
	// ConflictTypeSection indicates a section has overlapping meeting times.
	// Section overlaps are advisory; they never block a write.
	ConflictTypeSection ConflictType = "section"
)

// Conflict details an overlapping booking relation that callers can present
// to users.
type Conflict struct {
	WithBookingID string
	Type          ConflictType
	RoomID        *string
	SectionID     string
}

// Overlaps reports whether two half-open [start, end) intervals intersect.
// Touching intervals (one ends exactly when the other starts) do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd TimeOfDay) bool {
	return aStart < bEnd && aEnd > bStart
}

// FindRoomConflicts returns the room conflicts the candidate booking has
// against the existing set. A booking whose ID equals excludeID is skipped so
// a record being edited never conflicts with its own prior state. Candidates
// that do not require a physical room never conflict.
func FindRoomConflicts(existing []Booking, candidate Booking, excludeID string) []Conflict {
	if !candidate.LocationType.RequiresRoom() || candidate.RoomID == nil {
		return nil
	}

	var conflicts []Conflict
	for _, other := range existing {
		if excludeID != "" && other.ID == excludeID {
			continue
		}
		if other.Day != candidate.Day {
			continue
		}
		if !other.LocationType.RequiresRoom() || other.RoomID == nil {
			continue
		}
		if *other.RoomID != *candidate.RoomID {
			continue
		}
		if !Overlaps(other.Start, other.End, candidate.Start, candidate.End) {
			continue
		}
		roomID := *other.RoomID
		conflicts = append(conflicts, Conflict{
			WithBookingID: other.ID,
			Type:          ConflictTypeRoom,
			RoomID:        &roomID,
			SectionID:     other.SectionID,
		})
	}
	return conflicts
}

// HasRoomConflict reports whether the candidate booking collides with any
// existing booking for the same room and weekday.
func HasRoomConflict(existing []Booking, candidate Booking, excludeID string) bool {
	return len(FindRoomConflicts(existing, candidate, excludeID)) > 0
}

// FindSectionOverlaps returns advisory overlaps between bookings that belong
// to the same section and meet on the same weekday, regardless of location
// type.
func FindSectionOverlaps(bookings []Booking) []Conflict {
	var conflicts []Conflict
	for i, a := range bookings {
		for _, b := range bookings[i+1:] {
			if a.SectionID == "" || a.SectionID != b.SectionID {
				continue
			}
			if a.Day != b.Day {
				continue
			}
			if !Overlaps(a.Start, a.End, b.Start, b.End) {
				continue
			}
			conflicts = append(conflicts, Conflict{
				WithBookingID: b.ID,
				Type:          ConflictTypeSection,
				SectionID:     a.SectionID,
			})
		}
	}
	return conflicts
}
