package schedule

// ComputeGrid reconciles open hours, recurring notes and live bookings into
// one status per display slot. Precedence, highest to lowest:
//
//  1. no open-hour rows for the weekday: every slot defaults to open
//  2. closed-all-day sentinel row: every slot closed
//  3. otherwise a slot is open iff a row exactly matches its window
//  4. a note matching a slot forces it closed and attaches the note
//  5. a live booking starting at the slot start forces it closed,
//     preserving any note attached in step 4
//
// bookingStarts are minutes-from-midnight of PENDING/CONFIRMED bookings on
// the queried date. Pure projection: no side effects, recomputable at will.
func ComputeGrid(openHours []OpenHour, notes []SlotNote, bookingStarts []int) map[string]SlotStatus {
	closedAllDay := false
	for _, oh := range openHours {
		if oh.IsClosedSentinel() {
			closedAllDay = true
			break
		}
	}

	exactOpen := make(map[DisplaySlot]bool, len(openHours))
	for _, oh := range openHours {
		exactOpen[DisplaySlot{StartMinutes: oh.StartMinutes, EndMinutes: oh.EndMinutes}] = true
	}

	noteFor := make(map[DisplaySlot]*SlotNote, len(notes))
	for i := range notes {
		n := notes[i]
		noteFor[DisplaySlot{StartMinutes: n.StartMinutes, EndMinutes: n.EndMinutes}] = &n
	}

	booked := make(map[int]bool, len(bookingStarts))
	for _, m := range bookingStarts {
		booked[m] = true
	}

	grid := make(map[string]SlotStatus, len(DisplaySlots))
	for _, slot := range DisplaySlots {
		st := SlotStatus{}

		switch {
		case closedAllDay:
			st.Available = false
		case len(openHours) == 0:
			st.Available = true
		default:
			st.Available = exactOpen[slot]
		}

		if n, ok := noteFor[slot]; ok {
			st.Available = false
			st.Note = n
		}

		if booked[slot.StartMinutes] {
			st.Available = false
		}

		grid[slot.Key()] = st
	}

	return grid
}
