package room

import (
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("room not found")
	ErrEmptyName    = errors.New("name cannot be empty")
	ErrInvalidFloor = errors.New("invalid floor_id")
	ErrBadCapacity  = errors.New("capacity must be positive")
	ErrHasBookings  = errors.New("room has bookings and cannot be deleted")
	ErrNoPhoto      = errors.New("room has no photo")
)

// Equipment is the fixed set of capability flags a room can carry.
// Deliberately not an open map: unknown keys are rejected at the boundary.
type Equipment struct {
	Projector  bool `json:"projector"`
	Monitor    bool `json:"monitor"`
	Whiteboard bool `json:"whiteboard"`
	Computer   bool `json:"computer"`
}

// Room is a bookable study room on a floor.
type Room struct {
	ID           string
	FloorID      string
	FloorName    string
	BuildingID   string
	BuildingName string
	Name         string
	Capacity     int
	Equipment    Equipment
	PhotoPath    *string
	IsActive     bool
	CreatedAt    time.Time
}

// Filter defines parameters for listing rooms.
type Filter struct {
	FloorID     string
	BuildingID  string
	MinCapacity int
	Projector   *bool
	Monitor     *bool
	Whiteboard  *bool
	Computer    *bool
	ActiveOnly  bool

	Page     int
	PageSize int
}
