package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wareline/wareline/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// InboundInput is a supplier receipt. The new lot starts fully unreserved.
type InboundInput struct {
	ProductID    string     `json:"productId" validate:"required,uuid4"`
	DepartmentID string     `json:"departmentId" validate:"required,uuid4"`
	Qty          float64    `json:"qty" validate:"required,gt=0"`
	ExpiryDate   *time.Time `json:"expiryDate"`
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Lot, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (Lot, error) {
	return s.repo.Get(ctx, id)
}

// PostInbound records a supplier receipt as a fresh lot.
func (s *Service) PostInbound(ctx context.Context, in InboundInput) (Lot, error) {
	productID, err := shared.ParseID(in.ProductID)
	if err != nil {
		return Lot{}, err
	}
	departmentID, err := shared.ParseID(in.DepartmentID)
	if err != nil {
		return Lot{}, err
	}
	if in.Qty <= 0 {
		return Lot{}, fmt.Errorf("%w: inbound quantity must be positive", shared.ErrValidation)
	}
	if in.ExpiryDate != nil && in.ExpiryDate.Before(time.Now()) {
		return Lot{}, fmt.Errorf("%w: expiry date is in the past", shared.ErrValidation)
	}
	lot := Lot{
		ID:           shared.NewID(),
		ProductID:    productID,
		DepartmentID: departmentID,
		QtyOnHand:    in.Qty,
		RemainQty:    in.Qty,
		ExpiryDate:   in.ExpiryDate,
	}
	return s.repo.Create(ctx, lot)
}

// ListExpiring returns lots with stock left that expire within the horizon.
func (s *Service) ListExpiring(ctx context.Context, within time.Duration) ([]Lot, error) {
	return s.repo.ListExpiring(ctx, time.Now().Add(within))
}
