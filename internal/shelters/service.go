package shelters

import (
	"context"

	"github.com/shelterstock/shelterstock/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Shelter, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (Shelter, error) {
	if id <= 0 {
		return Shelter{}, shared.ErrNotFound
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, input Input) (Shelter, error) {
	shelter, err := s.validate(input)
	if err != nil {
		return Shelter{}, err
	}
	return s.repo.Create(ctx, shelter)
}

func (s *Service) Update(ctx context.Context, id int64, input Input) (Shelter, error) {
	if id <= 0 {
		return Shelter{}, shared.ErrNotFound
	}
	shelter, err := s.validate(input)
	if err != nil {
		return Shelter{}, err
	}
	shelter.ID = id
	return s.repo.Update(ctx, shelter)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return shared.ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}
