package orders

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/wareline/wareline/internal/shared"
)

type CreateLineInput struct {
	ProductID string  `json:"productId" validate:"required,uuid4"`
	Qty       float64 `json:"qty" validate:"required,gt=0"`
	UnitPrice float64 `json:"unitPrice" validate:"gte=0"`
}

type CreateInput struct {
	Code          string            `json:"code" validate:"required"`
	CustomerName  string            `json:"customerName" validate:"required"`
	CustomerPhone string            `json:"customerPhone"`
	Address       string            `json:"address"`
	Note          string            `json:"note"`
	CODAmount     float64           `json:"codAmount" validate:"gte=0"`
	Lines         []CreateLineInput `json:"lines" validate:"required,min=1,dive"`
}

type Service struct {
	repo     Repository
	validate *validator.Validate
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Order, int, error) {
	if filters.Status != "" && !filters.Status.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown order status %q", shared.ErrValidation, filters.Status)
	}
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (Order, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Order, error) {
	if err := s.validate.Struct(in); err != nil {
		return Order{}, fmt.Errorf("%w: %s", shared.ErrValidation, err)
	}
	order := Order{
		ID:            shared.NewID(),
		Code:          strings.ToUpper(strings.TrimSpace(in.Code)),
		CustomerName:  strings.TrimSpace(in.CustomerName),
		CustomerPhone: strings.TrimSpace(in.CustomerPhone),
		Address:       strings.TrimSpace(in.Address),
		Status:        StatusDraft,
		Note:          in.Note,
		CODAmount:     in.CODAmount,
	}
	for _, line := range in.Lines {
		productID, err := shared.ParseID(line.ProductID)
		if err != nil {
			return Order{}, err
		}
		order.Lines = append(order.Lines, OrderLine{
			ID:        shared.NewID(),
			OrderID:   order.ID,
			ProductID: productID,
			Qty:       line.Qty,
			UnitPrice: line.UnitPrice,
		})
	}
	return s.repo.CreateWithLines(ctx, order)
}

func (s *Service) Confirm(ctx context.Context, id uuid.UUID) error {
	return s.repo.SetStatus(ctx, id, []Status{StatusDraft}, StatusConfirmed)
}

func (s *Service) Complete(ctx context.Context, id uuid.UUID) error {
	return s.repo.SetStatus(ctx, id, []Status{StatusConfirmed}, StatusCompleted)
}

func (s *Service) Cancel(ctx context.Context, id uuid.UUID) error {
	return s.repo.SetStatus(ctx, id, []Status{StatusDraft, StatusConfirmed}, StatusCancelled)
}

func (s *Service) GetOrderLines(ctx context.Context, orderID uuid.UUID) ([]OrderLine, error) {
	return s.repo.GetOrderLines(ctx, orderID)
}

func (s *Service) CollectCOD(ctx context.Context, id uuid.UUID, amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: COD amount must be positive", shared.ErrValidation)
	}
	return s.repo.MarkCODCollected(ctx, id, amount)
}

func (s *Service) RemitCOD(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkCODRemitted(ctx, id)
}
