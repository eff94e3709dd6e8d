package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookingHttp "github.com/campuskit/room-booking-backend/internal/booking/http"
	bldgHttp "github.com/campuskit/room-booking-backend/internal/building/http"
	floorHttp "github.com/campuskit/room-booking-backend/internal/floor/http"
	roomHttp "github.com/campuskit/room-booking-backend/internal/room/http"
	"github.com/campuskit/room-booking-backend/internal/user"
)

// nextMonday returns next Monday at the given hour, UTC. Bookings in the
// tests must land on a weekday inside the advance window.
func nextMonday(hour int) time.Time {
	t := time.Now().UTC().AddDate(0, 0, 1)
	for t.Weekday() != time.Monday {
		t = t.AddDate(0, 0, 1)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), hour, 0, 0, 0, time.UTC)
}

// setupRoom creates a building, floor and room and returns the room ID.
func setupRoom(t *testing.T, adminToken, name string) string {
	wBldg := executeRequest("POST", "/v1/buildings", bldgHttp.CreateBuildingRequest{Name: name + " Hall"}, adminToken)
	require.Equal(t, http.StatusCreated, wBldg.Code, wBldg.Body.String())
	var bldg bldgHttp.BuildingResponse
	require.NoError(t, json.Unmarshal(wBldg.Body.Bytes(), &bldg))

	wFloor := executeRequest("POST", "/v1/floors", floorHttp.CreateFloorRequest{
		BuildingID: bldg.ID, Level: 1, Name: "1F",
	}, adminToken)
	require.Equal(t, http.StatusCreated, wFloor.Code, wFloor.Body.String())
	var fl floorHttp.FloorResponse
	require.NoError(t, json.Unmarshal(wFloor.Body.Bytes(), &fl))

	wRoom := executeRequest("POST", "/v1/rooms", roomHttp.CreateRoomRequest{
		FloorID: fl.ID, Name: name, Capacity: 8,
	}, adminToken)
	require.Equal(t, http.StatusCreated, wRoom.Code, wRoom.Body.String())
	var rm roomHttp.RoomResponse
	require.NoError(t, json.Unmarshal(wRoom.Body.Bytes(), &rm))

	return rm.ID
}

func createRequestPayload(roomID string, start time.Time, minutes int) bookingHttp.CreateBookingRequest {
	return bookingHttp.CreateBookingRequest{
		RoomID:    roomID,
		StartTime: start,
		EndTime:   start.Add(time.Duration(minutes) * time.Minute),
		Reason:    "project meeting",
	}
}

func TestBookingLifecycle(t *testing.T) {
	clearTables()

	admin := createTestUser(t, "admin@campus.edu", "pass", user.RoleAdmin)
	student := createTestUser(t, "student@campus.edu", "pass", user.RoleStudent)
	other := createTestUser(t, "other@campus.edu", "pass", user.RoleStudent)

	adminToken := generateToken(admin)
	studentToken := generateToken(student)
	otherToken := generateToken(other)

	roomID := setupRoom(t, adminToken, "Seminar Room A")
	start := nextMonday(10)

	var bookingID string

	t.Run("student opens a pending request", func(t *testing.T) {
		w := executeRequest("POST", "/v1/bookings/booking-requests", createRequestPayload(roomID, start, 60), studentToken)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var b bookingHttp.BookingResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))
		assert.Equal(t, "pending", b.Status)
		assert.Equal(t, student.ID, b.UserID)
		bookingID = b.ID
	})

	t.Run("pending request does not block a competing one", func(t *testing.T) {
		w := executeRequest("POST", "/v1/bookings/booking-requests", createRequestPayload(roomID, start, 60), otherToken)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})

	t.Run("student cannot approve", func(t *testing.T) {
		w := executeRequest("POST", fmt.Sprintf("/v1/bookings/%s/approve", bookingID), nil, studentToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin approves and a slot note appears", func(t *testing.T) {
		w := executeRequest("POST", fmt.Sprintf("/v1/bookings/%s/approve", bookingID), nil, adminToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp bookingHttp.DecisionResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "confirmed", resp.Booking.Status)
		assert.Empty(t, resp.Warning)

		wNotes := executeRequest("GET", fmt.Sprintf("/v1/rooms/%s/notes?weekday=1", roomID), nil, adminToken)
		require.Equal(t, http.StatusOK, wNotes.Code)
		assert.Contains(t, wNotes.Body.String(), "10:00")
	})

	t.Run("approving decided booking conflicts", func(t *testing.T) {
		w := executeRequest("POST", fmt.Sprintf("/v1/bookings/%s/approve", bookingID), nil, adminToken)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "already decided")
	})

	t.Run("confirmed booking blocks new requests", func(t *testing.T) {
		w := executeRequest("POST", "/v1/bookings/booking-requests", createRequestPayload(roomID, start, 60), otherToken)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("stranger cannot cancel", func(t *testing.T) {
		w := executeRequest("DELETE", "/v1/bookings/"+bookingID, nil, otherToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("owner cancels and the slot frees up", func(t *testing.T) {
		w := executeRequest("DELETE", "/v1/bookings/"+bookingID, nil, studentToken)
		require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

		wRetry := executeRequest("POST", "/v1/bookings/booking-requests", createRequestPayload(roomID, start, 60), otherToken)
		assert.Equal(t, http.StatusCreated, wRetry.Code, wRetry.Body.String())
	})

	t.Run("cancelling again conflicts", func(t *testing.T) {
		w := executeRequest("DELETE", "/v1/bookings/"+bookingID, nil, studentToken)
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestBookingRejection(t *testing.T) {
	clearTables()

	admin := createTestUser(t, "admin@campus.edu", "pass", user.RoleAdmin)
	student := createTestUser(t, "student@campus.edu", "pass", user.RoleStudent)
	adminToken := generateToken(admin)
	studentToken := generateToken(student)

	roomID := setupRoom(t, adminToken, "Seminar Room B")
	start := nextMonday(14)

	w := executeRequest("POST", "/v1/bookings/booking-requests", createRequestPayload(roomID, start, 60), studentToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var b bookingHttp.BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))

	wReject := executeRequest("POST", fmt.Sprintf("/v1/bookings/%s/reject", b.ID),
		bookingHttp.DecideBookingRequest{Note: "room reserved for exams"}, adminToken)
	require.Equal(t, http.StatusOK, wReject.Code, wReject.Body.String())

	var resp bookingHttp.DecisionResponse
	require.NoError(t, json.Unmarshal(wReject.Body.Bytes(), &resp))
	assert.Equal(t, "rejected", resp.Booking.Status)
	require.NotNil(t, resp.Booking.DecisionNote)
	assert.Equal(t, "room reserved for exams", *resp.Booking.DecisionNote)

	// A rejected booking releases the slot.
	wRetry := executeRequest("POST", "/v1/bookings/booking-requests", createRequestPayload(roomID, start, 60), studentToken)
	assert.Equal(t, http.StatusCreated, wRetry.Code, wRetry.Body.String())
}

func TestBookingValidation(t *testing.T) {
	clearTables()

	admin := createTestUser(t, "admin@campus.edu", "pass", user.RoleAdmin)
	student := createTestUser(t, "student@campus.edu", "pass", user.RoleStudent)
	adminToken := generateToken(admin)
	studentToken := generateToken(student)

	roomID := setupRoom(t, adminToken, "Seminar Room C")
	start := nextMonday(10)

	t.Run("end before start", func(t *testing.T) {
		p := createRequestPayload(roomID, start, 60)
		p.EndTime = p.StartTime.Add(-time.Hour)
		w := executeRequest("POST", "/v1/bookings/booking-requests", p, studentToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("too long", func(t *testing.T) {
		w := executeRequest("POST", "/v1/bookings/booking-requests", createRequestPayload(roomID, start, 300), studentToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("in the past", func(t *testing.T) {
		past := time.Now().UTC().AddDate(0, 0, -7)
		w := executeRequest("POST", "/v1/bookings/booking-requests", createRequestPayload(roomID, past, 60), studentToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("on a sunday", func(t *testing.T) {
		sunday := nextMonday(10).AddDate(0, 0, 6)
		w := executeRequest("POST", "/v1/bookings/booking-requests", createRequestPayload(roomID, sunday, 60), studentToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "sunday")
	})

	t.Run("unknown room", func(t *testing.T) {
		p := createRequestPayload("00000000-0000-0000-0000-000000000000", start, 60)
		w := executeRequest("POST", "/v1/bookings/booking-requests", p, studentToken)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

// Two admins race to approve competing pending requests for the same
// slot. Exactly one approval must win; the loser gets a conflict or an
// already-decided error, never a second confirmation.
func TestConcurrentApproval(t *testing.T) {
	clearTables()

	admin := createTestUser(t, "admin@campus.edu", "pass", user.RoleAdmin)
	student1 := createTestUser(t, "s1@campus.edu", "pass", user.RoleStudent)
	student2 := createTestUser(t, "s2@campus.edu", "pass", user.RoleStudent)
	adminToken := generateToken(admin)

	roomID := setupRoom(t, adminToken, "Seminar Room D")
	start := nextMonday(9)

	ids := make([]string, 2)
	for i, tok := range []string{generateToken(student1), generateToken(student2)} {
		w := executeRequest("POST", "/v1/bookings/booking-requests", createRequestPayload(roomID, start, 60), tok)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var b bookingHttp.BookingResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))
		ids[i] = b.ID
	}

	codes := make([]int, 2)
	var wg sync.WaitGroup
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w := executeRequest("POST", fmt.Sprintf("/v1/bookings/%s/approve", ids[i]), nil, adminToken)
			codes[i] = w.Code
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, code := range codes {
		switch code {
		case http.StatusOK:
			wins++
		case http.StatusConflict:
		default:
			t.Fatalf("unexpected status %d", code)
		}
	}
	assert.Equal(t, 1, wins, "exactly one approval must succeed")
}

// Two admins race to approve the one same pending request. The row lock
// in the decision transaction serializes them; the loser must get the
// already-decided conflict, not a duplicate confirmation.
func TestConcurrentApprovalSameBooking(t *testing.T) {
	clearTables()

	admin := createTestUser(t, "admin@campus.edu", "pass", user.RoleAdmin)
	student := createTestUser(t, "s1@campus.edu", "pass", user.RoleStudent)
	adminToken := generateToken(admin)

	roomID := setupRoom(t, adminToken, "Seminar Room E")
	start := nextMonday(11)

	w := executeRequest("POST", "/v1/bookings/booking-requests", createRequestPayload(roomID, start, 60), generateToken(student))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var b bookingHttp.BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))

	responses := make([]*httptest.ResponseRecorder, 2)
	var wg sync.WaitGroup
	for i := range responses {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			responses[i] = executeRequest("POST", fmt.Sprintf("/v1/bookings/%s/approve", b.ID), nil, adminToken)
		}(i)
	}
	wg.Wait()

	wins, losses := 0, 0
	for _, r := range responses {
		switch r.Code {
		case http.StatusOK:
			wins++
		case http.StatusConflict:
			losses++
			assert.Contains(t, r.Body.String(), "already decided")
		default:
			t.Fatalf("unexpected status %d: %s", r.Code, r.Body.String())
		}
	}
	assert.Equal(t, 1, wins, "exactly one approval must succeed")
	assert.Equal(t, 1, losses, "the loser must see the decided booking")

	w = executeRequest("GET", "/v1/bookings/"+b.ID, nil, adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	var decided bookingHttp.BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decided))
	assert.Equal(t, "confirmed", decided.Status)
}
