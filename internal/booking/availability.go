package booking

import "time"

const (
	MinSlotDuration = 15
	MaxSlotDuration = 480
	MinSlotStep     = 5
	MaxSlotStep     = 120
)

// overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) share any time. Touching endpoints do not overlap.
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// AvailableSlots enumerates the bookable slots of one room day.
// Candidates start at openStart and advance by step minutes; a candidate
// is kept only when it ends inside the open window and clears every busy
// interval. The result is sorted by start time and deterministic for a
// given input.
func AvailableSlots(day time.Time, openStart, openEnd, duration, step int, busy []TimeSlot) []TimeSlot {
	base := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	windowStart := base.Add(time.Duration(openStart) * time.Minute)
	windowEnd := base.Add(time.Duration(openEnd) * time.Minute)

	slots := []TimeSlot{}
	for start := windowStart; ; start = start.Add(time.Duration(step) * time.Minute) {
		end := start.Add(time.Duration(duration) * time.Minute)
		if end.After(windowEnd) {
			break
		}

		free := true
		for _, b := range busy {
			if overlaps(start, end, b.StartTime, b.EndTime) {
				free = false
				break
			}
		}
		if free {
			slots = append(slots, TimeSlot{StartTime: start, EndTime: end})
		}
	}
	return slots
}
