package departments

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	mdshared "github.com/wareline/wareline/internal/masterdata/shared"
	"github.com/wareline/wareline/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters mdshared.ListFilters) ([]Department, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (Department, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, dept Department) (Department, error) {
	if err := validate(&dept); err != nil {
		return Department{}, err
	}
	dept.ID = shared.NewID()
	dept.IsActive = true
	return s.repo.Create(ctx, dept)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, dept Department) error {
	if err := validate(&dept); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, dept)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func validate(d *Department) error {
	d.Code = strings.ToUpper(strings.TrimSpace(d.Code))
	d.Name = strings.TrimSpace(d.Name)
	if d.Code == "" {
		return fmt.Errorf("%w: department code is required", shared.ErrValidation)
	}
	if d.Name == "" {
		return fmt.Errorf("%w: department name is required", shared.ErrValidation)
	}
	return nil
}
