package booking

import (
	"net/http"
	"time"

	"github.com/campuskit/room-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "booking not found")
	ErrRoomNotFound     = apperror.New(http.StatusNotFound, "room not found")
	ErrRoomInactive     = apperror.New(http.StatusBadRequest, "room is not active")
	ErrInvalidTimeRange = apperror.New(http.StatusBadRequest, "start time must be before end time")
	ErrTooLong          = apperror.New(http.StatusBadRequest, "booking exceeds the maximum duration")
	ErrTooFarAhead      = apperror.New(http.StatusBadRequest, "booking starts beyond the advance window")
	ErrStartTimePast    = apperror.New(http.StatusBadRequest, "cannot create booking in the past")
	ErrSundayClosed     = apperror.New(http.StatusBadRequest, "rooms are closed on sundays")
	ErrTimeConflict     = apperror.New(http.StatusConflict, "time slot already booked")
	ErrAlreadyDecided   = apperror.New(http.StatusConflict, "booking already decided")
	ErrAlreadyFinal     = apperror.New(http.StatusConflict, "booking already cancelled or rejected")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "permission denied")
	ErrInvalidInput     = apperror.New(http.StatusBadRequest, "invalid input parameters")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// LiveStatuses are the statuses that occupy a room for display purposes.
var LiveStatuses = []Status{StatusPending, StatusConfirmed}

type Booking struct {
	ID           string
	RoomID       string
	RoomName     string
	UserID       string
	UserName     string
	StartTime    time.Time
	EndTime      time.Time
	Status       Status
	Reason       string
	StudentID    *string
	CourseName   *string
	DecidedByID  *string
	DecisionNote *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Filter struct {
	UserID    string
	RoomID    string
	Status    string
	StartTime *time.Time // bookings ending after this time
	EndTime   *time.Time // bookings starting before this time
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// TimeSlot is a half-open interval [StartTime, EndTime).
type TimeSlot struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}
