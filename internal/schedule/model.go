package schedule

import (
	"errors"

	"github.com/campuskit/room-booking-backend/internal/pkg/timeutil"
)

var (
	ErrNoteNotFound   = errors.New("slot note not found")
	ErrInvalidWeekday = errors.New("weekday must be between 1 (Mon) and 6 (Sat)")
	ErrInvalidWindow  = errors.New("window end must be after start")
)

// Closed-all-day sentinel window. A weekday that carries this exact row is
// treated as explicitly closed regardless of any other rows.
const (
	ClosedSentinelStart = 0 // 00:00
	ClosedSentinelEnd   = 1 // 00:01
)

// OpenHour is one nominal opening window for a room on a weekday.
// Times are minutes from midnight. No rows for a weekday means the room
// is fully open that day.
type OpenHour struct {
	RoomID       string
	Weekday      int // 1=Mon .. 6=Sat
	StartMinutes int
	EndMinutes   int
}

// IsClosedSentinel reports whether this row is the closed-all-day marker.
func (o OpenHour) IsClosedSentinel() bool {
	return o.StartMinutes == ClosedSentinelStart && o.EndMinutes == ClosedSentinelEnd
}

// SlotNote is a recurring weekly commitment (e.g. a standing class) not
// tracked as a booking. Uniquely keyed by (room, weekday, start, end).
type SlotNote struct {
	RoomID       string
	Weekday      int
	StartMinutes int
	EndMinutes   int
	Professor    string
	Course       string
	Reason       string
}

// Key returns the identifying fields of the note.
func (n SlotNote) Key() NoteKey {
	return NoteKey{
		RoomID:       n.RoomID,
		Weekday:      n.Weekday,
		StartMinutes: n.StartMinutes,
		EndMinutes:   n.EndMinutes,
	}
}

// NoteKey identifies a slot note row.
type NoteKey struct {
	RoomID       string
	Weekday      int
	StartMinutes int
	EndMinutes   int
}

// DisplaySlot is one cell of the coarse student-facing grid.
type DisplaySlot struct {
	StartMinutes int
	EndMinutes   int
}

// Key renders the slot as "09:00-11:00", the map key used by the grid API.
func (d DisplaySlot) Key() string {
	return timeutil.FormatHHMM(d.StartMinutes) + "-" + timeutil.FormatHHMM(d.EndMinutes)
}

// DisplaySlots is the fixed grid shown to students: four two-hour blocks.
var DisplaySlots = []DisplaySlot{
	{StartMinutes: 9 * 60, EndMinutes: 11 * 60},
	{StartMinutes: 11 * 60, EndMinutes: 13 * 60},
	{StartMinutes: 13 * 60, EndMinutes: 15 * 60},
	{StartMinutes: 15 * 60, EndMinutes: 17 * 60},
}

// SlotStatus is the reconciled state of one display slot.
type SlotStatus struct {
	Available bool
	Note      *SlotNote
}
