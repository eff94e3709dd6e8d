package http

import (
	"time"

	"github.com/campuskit/room-booking-backend/internal/booking"
	roomHttp "github.com/campuskit/room-booking-backend/internal/room/http"
)

type BookingResponse struct {
	ID           string           `json:"id"`
	Room         roomHttp.RoomTag `json:"room"`
	UserID       string           `json:"user_id"`
	UserName     string           `json:"user_name"`
	StartTime    time.Time        `json:"start_time"`
	EndTime      time.Time        `json:"end_time"`
	Status       string           `json:"status"`
	Reason       string           `json:"reason"`
	StudentID    *string          `json:"student_id,omitempty"`
	CourseName   *string          `json:"course_name,omitempty"`
	DecidedByID  *string          `json:"decided_by,omitempty"`
	DecisionNote *string          `json:"decision_note,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:           b.ID,
		Room:         roomHttp.RoomTag{ID: b.RoomID, Name: b.RoomName},
		UserID:       b.UserID,
		UserName:     b.UserName,
		StartTime:    b.StartTime,
		EndTime:      b.EndTime,
		Status:       string(b.Status),
		Reason:       b.Reason,
		StudentID:    b.StudentID,
		CourseName:   b.CourseName,
		DecidedByID:  b.DecidedByID,
		DecisionNote: b.DecisionNote,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

// DecisionResponse carries the booking plus a warning when the state
// changed but a side effect (the recurring slot note) failed.
type DecisionResponse struct {
	Booking BookingResponse `json:"booking"`
	Warning string          `json:"warning,omitempty"`
}

type CreateBookingRequest struct {
	RoomID     string    `json:"room_id" binding:"required,uuid"`
	StartTime  time.Time `json:"start_time" binding:"required"`
	EndTime    time.Time `json:"end_time" binding:"required"`
	Reason     string    `json:"reason" binding:"required"`
	StudentID  *string   `json:"student_id"`
	CourseName *string   `json:"course_name"`
}

type DecideBookingRequest struct {
	Note string `json:"note"`
}

type UpdateBookingRequest struct {
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
}
