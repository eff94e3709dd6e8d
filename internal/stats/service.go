package stats

import (
	"context"
	"net/http"
	"time"

	"github.com/campuskit/room-booking-backend/internal/pkg/apperror"
)

var ErrInvalidRange = apperror.New(http.StatusBadRequest, "to must be after from")

const topRoomsLimit = 10

type Service interface {
	Summary(ctx context.Context, from, to time.Time) (*Summary, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Summary(ctx context.Context, from, to time.Time) (*Summary, error) {
	if !to.After(from) {
		return nil, ErrInvalidRange
	}

	byStatus, err := s.repo.CountByStatus(ctx, from, to)
	if err != nil {
		return nil, err
	}
	topRooms, err := s.repo.TopRooms(ctx, from, to, topRoomsLimit)
	if err != nil {
		return nil, err
	}
	byBuilding, err := s.repo.ConfirmedHoursByBuilding(ctx, from, to)
	if err != nil {
		return nil, err
	}

	if byStatus == nil {
		byStatus = []StatusCount{}
	}
	if topRooms == nil {
		topRooms = []RoomCount{}
	}
	if byBuilding == nil {
		byBuilding = []BuildingHours{}
	}

	return &Summary{
		ByStatus:   byStatus,
		TopRooms:   topRooms,
		ByBuilding: byBuilding,
	}, nil
}
