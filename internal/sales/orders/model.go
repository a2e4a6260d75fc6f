package orders

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Order is a customer sales order. COD fields track cash-on-delivery
// settlement: collected by the courier, then remitted back to the business.
type Order struct {
	ID             uuid.UUID   `json:"id"`
	Code           string      `json:"code"`
	CustomerName   string      `json:"customerName"`
	CustomerPhone  string      `json:"customerPhone,omitempty"`
	Address        string      `json:"address,omitempty"`
	Status         Status      `json:"status"`
	Note           string      `json:"note,omitempty"`
	CODAmount      float64     `json:"codAmount"`
	CODCollectedAt *time.Time  `json:"codCollectedAt,omitempty"`
	CODRemittedAt  *time.Time  `json:"codRemittedAt,omitempty"`
	Lines          []OrderLine `json:"lines,omitempty"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

// OrderLine is one product position on an order. Preparation items reference
// lines by ID; a line may be picked across several tasks.
type OrderLine struct {
	ID        uuid.UUID `json:"id"`
	OrderID   uuid.UUID `json:"orderId"`
	ProductID uuid.UUID `json:"productId"`
	Qty       float64   `json:"qty"`
	UnitPrice float64   `json:"unitPrice"`
}

// ListFilters narrows order listings.
type ListFilters struct {
	Page   int
	Limit  int
	Search string
	Status Status
}
