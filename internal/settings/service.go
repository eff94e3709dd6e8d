package settings

import "context"

type Service interface {
	Get(ctx context.Context) (*Settings, error)
	Put(ctx context.Context, s *Settings) (*Settings, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Get(ctx context.Context) (*Settings, error) {
	return s.repo.Get(ctx)
}

func (s *service) Put(ctx context.Context, in *Settings) (*Settings, error) {
	if in.DefaultOpenEnd <= in.DefaultOpenStart {
		return nil, ErrInvalidWindow
	}
	if in.AutoCancelGraceMinutes < 0 {
		in.AutoCancelGraceMinutes = 0
	}
	if err := s.repo.Put(ctx, in); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx)
}
