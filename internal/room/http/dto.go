package http

import (
	"time"

	bldgHttp "github.com/campuskit/room-booking-backend/internal/building/http"
	floorHttp "github.com/campuskit/room-booking-backend/internal/floor/http"
	"github.com/campuskit/room-booking-backend/internal/room"
)

// RoomTag is the minimal embed used by other modules' responses.
type RoomTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type RoomResponse struct {
	ID        string               `json:"id"`
	Floor     floorHttp.FloorTag   `json:"floor"`
	Building  bldgHttp.BuildingTag `json:"building"`
	Name      string               `json:"name"`
	Capacity  int                  `json:"capacity"`
	Equipment room.Equipment       `json:"equipment"`
	HasPhoto  bool                 `json:"has_photo"`
	IsActive  bool                 `json:"is_active"`
	CreatedAt time.Time            `json:"created_at"`
}

func NewRoomResponse(rm *room.Room) RoomResponse {
	return RoomResponse{
		ID:        rm.ID,
		Floor:     floorHttp.FloorTag{ID: rm.FloorID, Name: rm.FloorName},
		Building:  bldgHttp.BuildingTag{ID: rm.BuildingID, Name: rm.BuildingName},
		Name:      rm.Name,
		Capacity:  rm.Capacity,
		Equipment: rm.Equipment,
		HasPhoto:  rm.PhotoPath != nil,
		IsActive:  rm.IsActive,
		CreatedAt: rm.CreatedAt,
	}
}

type CreateRoomRequest struct {
	FloorID   string         `json:"floor_id" binding:"required,uuid"`
	Name      string         `json:"name" binding:"required"`
	Capacity  int            `json:"capacity" binding:"required,min=1"`
	Equipment room.Equipment `json:"equipment"`
}

type UpdateRoomRequest struct {
	Name      *string         `json:"name"`
	Capacity  *int            `json:"capacity"`
	Equipment *room.Equipment `json:"equipment"`
	IsActive  *bool           `json:"is_active"`
}
