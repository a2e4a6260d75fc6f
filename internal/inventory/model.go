package inventory

import (
	"time"

	"github.com/google/uuid"
)

// Lot is a batch of a product held by a department. QtyOnHand is the physical
// quantity; RemainQty is the portion not reserved by any active preparation
// task. 0 <= RemainQty <= QtyOnHand always holds.
type Lot struct {
	ID           uuid.UUID  `json:"id"`
	ProductID    uuid.UUID  `json:"productId"`
	DepartmentID uuid.UUID  `json:"departmentId"`
	QtyOnHand    float64    `json:"qtyOnHand"`
	RemainQty    float64    `json:"remainQty"`
	ExpiryDate   *time.Time `json:"expiryDate,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// ListFilters narrows lot listings.
type ListFilters struct {
	Page           int
	Limit          int
	ProductID      *uuid.UUID
	DepartmentID   *uuid.UUID
	ExpiringBefore *time.Time
}
