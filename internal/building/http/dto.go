package http

import (
	"time"

	"github.com/campuskit/room-booking-backend/internal/building"
)

// BuildingTag is the minimal embed used by other modules' responses.
type BuildingTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type BuildingResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

func NewBuildingResponse(b *building.Building) BuildingResponse {
	return BuildingResponse{
		ID:        b.ID,
		Name:      b.Name,
		Address:   b.Address,
		CreatedAt: b.CreatedAt,
	}
}

type CreateBuildingRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
}

type UpdateBuildingRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
}
