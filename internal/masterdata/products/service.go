package products

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	mdshared "github.com/wareline/wareline/internal/masterdata/shared"
	"github.com/wareline/wareline/internal/shared"
)

type Service struct {
	repo  Repository
	title cases.Caser
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, title: cases.Title(language.English)}
}

func (s *Service) List(ctx context.Context, filters mdshared.ListFilters) ([]Product, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (Product, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, product Product) (Product, error) {
	if err := s.validate(&product); err != nil {
		return Product{}, err
	}
	product.ID = shared.NewID()
	product.IsActive = true
	return s.repo.Create(ctx, product)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, product Product) error {
	if err := s.validate(&product); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, product)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) validate(p *Product) error {
	p.SKU = strings.ToUpper(strings.TrimSpace(p.SKU))
	p.Name = s.title.String(strings.TrimSpace(p.Name))
	p.Unit = strings.TrimSpace(p.Unit)
	if p.SKU == "" {
		return fmt.Errorf("%w: product sku is required", shared.ErrValidation)
	}
	if p.Name == "" {
		return fmt.Errorf("%w: product name is required", shared.ErrValidation)
	}
	if p.Unit == "" {
		p.Unit = "pcs"
	}
	return nil
}
