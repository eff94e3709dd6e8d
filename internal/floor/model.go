package floor

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("floor not found")
	ErrEmptyName       = errors.New("name cannot be empty")
	ErrInvalidBuilding = errors.New("invalid building_id")
	ErrHasRooms        = errors.New("floor still has rooms")
)

// Floor belongs to exactly one building.
type Floor struct {
	ID           string
	BuildingID   string
	BuildingName string
	Level        int
	Name         string
	CreatedAt    time.Time
}

// Filter defines parameters for listing floors.
type Filter struct {
	BuildingID string
	Page       int
	PageSize   int
}
