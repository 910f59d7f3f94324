package scheduler

import (
	"fmt"
	"strconv"
	"strings"
)

// DayOfWeek identifies the weekday a schedule meets on.
type DayOfWeek string

const (
	Monday    DayOfWeek = "monday"
	Tuesday   DayOfWeek = "tuesday"
	Wednesday DayOfWeek = "wednesday"
	Thursday  DayOfWeek = "thursday"
	Friday    DayOfWeek = "friday"
	Saturday  DayOfWeek = "saturday"
	Sunday    DayOfWeek = "sunday"
)

// DaysOfWeek lists every valid weekday token in calendar order.
func DaysOfWeek() []DayOfWeek {
	return []DayOfWeek{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
}

// Valid reports whether the value is one of the closed weekday tokens.
func (d DayOfWeek) Valid() bool {
	switch d {
	case Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday:
		return true
	}
	return false
}

// MeetingPattern describes the recurrence of a schedule. It is informational
// for conflict purposes: detection operates per stored row, not per expanded
// occurrence.
type MeetingPattern string

const (
	PatternSingle                MeetingPattern = "single"
	PatternWeekly                MeetingPattern = "weekly"
	PatternMondayWednesdayFriday MeetingPattern = "monday-wednesday-friday"
	PatternTuesdayThursday       MeetingPattern = "tuesday-thursday"
	PatternMondayWednesday       MeetingPattern = "monday-wednesday"
	PatternTuesdayFriday         MeetingPattern = "tuesday-friday"
)

// Valid reports whether the value is one of the closed pattern tokens.
func (p MeetingPattern) Valid() bool {
	switch p {
	case PatternSingle, PatternWeekly, PatternMondayWednesdayFriday,
		PatternTuesdayThursday, PatternMondayWednesday, PatternTuesdayFriday:
		return true
	}
	return false
}

// LocationType describes where a schedule meets.
type LocationType string

const (
	LocationInPerson LocationType = "in-person"
	LocationVirtual  LocationType = "virtual"
	LocationHybrid   LocationType = "hybrid"
)

// Valid reports whether the value is one of the closed location tokens.
func (l LocationType) Valid() bool {
	switch l {
	case LocationInPerson, LocationVirtual, LocationHybrid:
		return true
	}
	return false
}

// RequiresRoom reports whether the location type implies physical presence
// and therefore a room booking.
func (l LocationType) RequiresRoom() bool {
	return l == LocationInPerson || l == LocationHybrid
}

// RequiresMeetingURL reports whether the location type implies a virtual
// meeting link.
func (l LocationType) RequiresMeetingURL() bool {
	return l == LocationVirtual || l == LocationHybrid
}

// TimeOfDay is a wall-clock time expressed as minutes since midnight.
type TimeOfDay int

// ParseTimeOfDay parses an "HH:MM" string into a TimeOfDay.
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time of day %q", value)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("invalid time of day %q", value)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid time of day %q", value)
	}
	return TimeOfDay(hours*60 + minutes), nil
}

// Minutes returns the value as minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return int(t)
}

// Before reports whether t is strictly earlier than other.
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t < other
}

// String formats the value as "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}
