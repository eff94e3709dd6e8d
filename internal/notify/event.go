package notify

import (
	"context"
	"time"
)

// EventType enumerates the booking lifecycle events fanned out to admins.
type EventType string

const (
	EventRequestCreated EventType = "REQUEST_CREATED"
	EventRequestDecided EventType = "REQUEST_DECIDED"
)

// Event is one booking lifecycle notification. Delivery is at-most-once,
// best effort: no persistence, no replay, no acknowledgment.
type Event struct {
	Type       EventType `json:"type"`
	BookingID  string    `json:"booking_id"`
	RoomID     string    `json:"room_id"`
	RoomName   string    `json:"room_name"`
	UserName   string    `json:"user_name"`
	Status     string    `json:"status"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Broadcaster is the notification port the booking state machine publishes
// through. Implementations must never block the caller for long and must
// swallow delivery failures.
type Broadcaster interface {
	Publish(ctx context.Context, e Event)
}

// Discard is a Broadcaster that drops everything. Useful in tests.
type Discard struct{}

func (Discard) Publish(context.Context, Event) {}
