package http

import (
	"time"

	bldgHttp "github.com/campuskit/room-booking-backend/internal/building/http"
	"github.com/campuskit/room-booking-backend/internal/floor"
)

// FloorTag is the minimal embed used by other modules' responses.
type FloorTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type FloorResponse struct {
	ID        string                `json:"id"`
	Building  bldgHttp.BuildingTag  `json:"building"`
	Level     int                   `json:"level"`
	Name      string                `json:"name"`
	CreatedAt time.Time             `json:"created_at"`
}

func NewFloorResponse(f *floor.Floor) FloorResponse {
	return FloorResponse{
		ID:        f.ID,
		Building:  bldgHttp.BuildingTag{ID: f.BuildingID, Name: f.BuildingName},
		Level:     f.Level,
		Name:      f.Name,
		CreatedAt: f.CreatedAt,
	}
}

type CreateFloorRequest struct {
	BuildingID string `json:"building_id" binding:"required,uuid"`
	Level      int    `json:"level"`
	Name       string `json:"name" binding:"required"`
}

type UpdateFloorRequest struct {
	Level *int    `json:"level"`
	Name  *string `json:"name"`
}
