package room

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/campuskit/room-booking-backend/internal/floor"
	"github.com/campuskit/room-booking-backend/internal/pkg/storage"
)

type CreateRequest struct {
	FloorID   string
	Name      string
	Capacity  int
	Equipment Equipment
}

type UpdateRequest struct {
	Name      *string
	Capacity  *int
	Equipment *Equipment
	IsActive  *bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Room, error)
	GetByID(ctx context.Context, id string) (*Room, error)
	List(ctx context.Context, filter Filter) ([]*Room, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Room, error)
	Delete(ctx context.Context, id string) error

	// SetPhoto stores a thumbnail of the uploaded image and records its path.
	SetPhoto(ctx context.Context, id string, content io.Reader) (*Room, error)
	// GetPhoto streams the stored photo for the room.
	GetPhoto(ctx context.Context, id string) (io.ReadCloser, error)
}

type service struct {
	repo        Repository
	floorSvc    floor.Service
	store       storage.Storage
	thumbnailer *storage.ImageProcessor
}

func NewService(repo Repository, floorSvc floor.Service, store storage.Storage, thumbnailer *storage.ImageProcessor) Service {
	return &service{
		repo:        repo,
		floorSvc:    floorSvc,
		store:       store,
		thumbnailer: thumbnailer,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Room, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}
	if req.Capacity <= 0 {
		return nil, ErrBadCapacity
	}
	if req.FloorID == "" {
		return nil, ErrInvalidFloor
	}

	// Validation: floor must exist
	if _, err := s.floorSvc.GetByID(ctx, req.FloorID); err != nil {
		return nil, ErrInvalidFloor
	}

	rm := &Room{
		FloorID:   req.FloorID,
		Name:      strings.TrimSpace(req.Name),
		Capacity:  req.Capacity,
		Equipment: req.Equipment,
		IsActive:  true,
	}

	if err := s.repo.Create(ctx, rm); err != nil {
		return nil, err
	}
	return rm, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Room, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Room, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Room, error) {
	rm, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrEmptyName
		}
		rm.Name = strings.TrimSpace(*req.Name)
	}
	if req.Capacity != nil {
		if *req.Capacity <= 0 {
			return nil, ErrBadCapacity
		}
		rm.Capacity = *req.Capacity
	}
	if req.Equipment != nil {
		rm.Equipment = *req.Equipment
	}
	if req.IsActive != nil {
		rm.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, rm); err != nil {
		return nil, err
	}
	return rm, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	rm, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	// Photo removal is best effort; the row is already gone.
	if rm.PhotoPath != nil {
		_ = s.store.Delete(ctx, *rm.PhotoPath)
	}
	return nil
}

func (s *service) SetPhoto(ctx context.Context, id string, content io.Reader) (*Room, error) {
	rm, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	thumb, err := s.thumbnailer.GenerateThumbnail(content, 1280, 960)
	if err != nil {
		return nil, fmt.Errorf("process room photo failed: %w", err)
	}

	path := fmt.Sprintf("rooms/%s.jpg", rm.ID)
	if err := s.store.Save(ctx, path, thumb); err != nil {
		return nil, fmt.Errorf("save room photo failed: %w", err)
	}

	rm.PhotoPath = &path
	if err := s.repo.Update(ctx, rm); err != nil {
		return nil, err
	}
	return rm, nil
}

func (s *service) GetPhoto(ctx context.Context, id string) (io.ReadCloser, error) {
	rm, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rm.PhotoPath == nil {
		return nil, ErrNoPhoto
	}
	return s.store.Get(ctx, *rm.PhotoPath)
}
