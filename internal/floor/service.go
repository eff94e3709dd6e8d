package floor

import (
	"context"
	"strings"

	"github.com/campuskit/room-booking-backend/internal/building"
)

type CreateRequest struct {
	BuildingID string
	Level      int
	Name       string
}

type UpdateRequest struct {
	Level *int
	Name  *string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Floor, error)
	GetByID(ctx context.Context, id string) (*Floor, error)
	List(ctx context.Context, filter Filter) ([]*Floor, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Floor, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo        Repository
	bldgService building.Service
}

func NewService(repo Repository, bldgService building.Service) Service {
	return &service{
		repo:        repo,
		bldgService: bldgService,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Floor, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}
	if req.BuildingID == "" {
		return nil, ErrInvalidBuilding
	}

	// Validation: building must exist
	b, err := s.bldgService.GetByID(ctx, req.BuildingID)
	if err != nil {
		return nil, ErrInvalidBuilding
	}

	f := &Floor{
		BuildingID:   req.BuildingID,
		BuildingName: b.Name,
		Level:        req.Level,
		Name:         strings.TrimSpace(req.Name),
	}

	if err := s.repo.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Floor, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Floor, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Floor, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrEmptyName
		}
		f.Name = strings.TrimSpace(*req.Name)
	}
	if req.Level != nil {
		f.Level = *req.Level
	}

	if err := s.repo.Update(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
