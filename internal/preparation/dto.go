package preparation

import "time"

type CreateItemInput struct {
	OrderLineID string  `json:"orderLineId" validate:"required,uuid4"`
	Qty         float64 `json:"qty" validate:"required,gt=0"`
	LotID       *string `json:"lotId,omitempty" validate:"omitempty,uuid4"`
}

type CreateInput struct {
	OrderID  string            `json:"orderId" validate:"required,uuid4"`
	PackerID string            `json:"packerId" validate:"required,uuid4"`
	Deadline time.Time         `json:"deadline" validate:"required"`
	Note     string            `json:"note"`
	Items    []CreateItemInput `json:"items" validate:"required,min=1,dive"`
}

// UpdateItemPatch updates one existing item by ID. Only the listed fields are
// mutable through the generic task update.
type UpdateItemPatch struct {
	ID      string   `json:"id" validate:"required,uuid4"`
	PreEvd  *string  `json:"preEvd,omitempty"`
	PostEvd *string  `json:"postEvd,omitempty"`
}

// UpdateInput is a partial patch of the task header. Status is deliberately
// absent: status moves only through the transition endpoints.
type UpdateInput struct {
	SupervisorID *string           `json:"supervisorId,omitempty" validate:"omitempty,uuid4"`
	PackerID     *string           `json:"packerId,omitempty" validate:"omitempty,uuid4"`
	Deadline     *time.Time        `json:"deadline,omitempty"`
	Note         *string           `json:"note,omitempty"`
	Items        []UpdateItemPatch `json:"items,omitempty" validate:"omitempty,dive"`
}

// PackerItemInput is the packer's pick record for one item.
type PackerItemInput struct {
	PostQty *float64 `json:"postQty,omitempty" validate:"omitempty,gte=0"`
	PreEvd  *string  `json:"preEvd,omitempty"`
	PostEvd *string  `json:"postEvd,omitempty"`
	LotID   *string  `json:"lotId,omitempty" validate:"omitempty,uuid4"`
}

type StatusInput struct {
	Status string `json:"status" validate:"required"`
}

type ReviewInput struct {
	Result string `json:"result" validate:"required"`
	Reason string `json:"reason"`
}
