package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeGridDefaultOpen(t *testing.T) {
	grid := ComputeGrid(nil, nil, nil)

	require.Len(t, grid, 4)
	for key, st := range grid {
		assert.True(t, st.Available, "slot %s should default to open", key)
		assert.Nil(t, st.Note)
	}
}

func TestComputeGridClosedSentinel(t *testing.T) {
	openHours := []OpenHour{
		{Weekday: 1, StartMinutes: ClosedSentinelStart, EndMinutes: ClosedSentinelEnd},
		// Extra rows must not matter once the sentinel is present.
		{Weekday: 1, StartMinutes: 9 * 60, EndMinutes: 11 * 60},
	}

	grid := ComputeGrid(openHours, nil, nil)
	for key, st := range grid {
		assert.False(t, st.Available, "slot %s should be closed", key)
	}
}

func TestComputeGridExactMatchOnly(t *testing.T) {
	openHours := []OpenHour{
		{Weekday: 1, StartMinutes: 9 * 60, EndMinutes: 11 * 60},
	}

	grid := ComputeGrid(openHours, nil, nil)
	assert.True(t, grid["09:00-11:00"].Available)
	assert.False(t, grid["11:00-13:00"].Available)
	assert.False(t, grid["13:00-15:00"].Available)
	assert.False(t, grid["15:00-17:00"].Available)
}

func TestComputeGridNoteForcesClosed(t *testing.T) {
	notes := []SlotNote{
		{Weekday: 1, StartMinutes: 11 * 60, EndMinutes: 13 * 60, Professor: "Dr. Chen", Course: "Linear Algebra"},
	}

	grid := ComputeGrid(nil, notes, nil)

	st := grid["11:00-13:00"]
	assert.False(t, st.Available)
	require.NotNil(t, st.Note)
	assert.Equal(t, "Dr. Chen", st.Note.Professor)

	// Other slots still default-open.
	assert.True(t, grid["09:00-11:00"].Available)
}

func TestComputeGridBookingForcesClosedAndKeepsNote(t *testing.T) {
	notes := []SlotNote{
		{Weekday: 1, StartMinutes: 9 * 60, EndMinutes: 11 * 60, Professor: "Alice"},
	}
	starts := []int{9 * 60}

	grid := ComputeGrid(nil, notes, starts)

	st := grid["09:00-11:00"]
	assert.False(t, st.Available)
	require.NotNil(t, st.Note)
	assert.Equal(t, "Alice", st.Note.Professor)
}

func TestComputeGridApprovedBookingScenario(t *testing.T) {
	// Empty room: all four slots open.
	grid := ComputeGrid(nil, nil, nil)
	for _, st := range grid {
		assert.True(t, st.Available)
	}

	// After approval the 9-11 slot carries the requester's note and closes.
	notes := []SlotNote{
		{Weekday: 1, StartMinutes: 9 * 60, EndMinutes: 11 * 60, Professor: "bob@campus.edu"},
	}
	grid = ComputeGrid(nil, notes, []int{9 * 60})

	st := grid["09:00-11:00"]
	assert.False(t, st.Available)
	require.NotNil(t, st.Note)
	assert.Equal(t, "bob@campus.edu", st.Note.Professor)

	assert.True(t, grid["11:00-13:00"].Available)
	assert.True(t, grid["13:00-15:00"].Available)
	assert.True(t, grid["15:00-17:00"].Available)
}
