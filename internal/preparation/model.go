package preparation

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusAssigned      Status = "assigned"
	StatusInProgress    Status = "in_progress"
	StatusPendingReview Status = "pending_review"
	StatusCompleted     Status = "completed"
	StatusCancelled     Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusAssigned, StatusInProgress, StatusPendingReview, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal states are absorbing: no further status or item writes.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type ReviewResult string

const (
	ReviewPending   ReviewResult = "pending"
	ReviewConfirmed ReviewResult = "confirmed"
	ReviewRejected  ReviewResult = "rejected"
)

func (r ReviewResult) Valid() bool {
	switch r {
	case ReviewPending, ReviewConfirmed, ReviewRejected:
		return true
	}
	return false
}

// Task is one unit of picking work: a header plus the items copied from the
// order's lines at creation.
type Task struct {
	ID           uuid.UUID     `json:"id"`
	OrderID      uuid.UUID     `json:"orderId"`
	SupervisorID uuid.UUID     `json:"supervisorId"`
	PackerID     uuid.UUID     `json:"packerId"`
	Status       Status        `json:"status"`
	ReviewResult *ReviewResult `json:"reviewResult,omitempty"`
	ReviewReason string        `json:"reviewReason,omitempty"`
	Deadline     time.Time     `json:"deadline"`
	Note         string        `json:"note,omitempty"`
	PickedCount  int           `json:"pickedCount"`
	StartedAt    *time.Time    `json:"startedAt,omitempty"`
	CompletedAt  *time.Time    `json:"completedAt,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
	Items        []Item        `json:"items,omitempty"`
}

// Item is one picking position. LotID, once bound, carries a reservation of
// RequestedQty against that lot until the task cancels or completes.
type Item struct {
	ID           uuid.UUID  `json:"id"`
	TaskID       uuid.UUID  `json:"taskId"`
	OrderLineID  uuid.UUID  `json:"orderLineId"`
	ProductID    uuid.UUID  `json:"productId"`
	LotID        *uuid.UUID `json:"lotId,omitempty"`
	RequestedQty float64    `json:"requestedQty"`
	PostQty      float64    `json:"postQty"`
	PreEvd       string     `json:"preEvd,omitempty"`
	PostEvd      string     `json:"postEvd,omitempty"`
}

// event is an edge in the status graph. Status and review endpoints both
// resolve to one of these before anything is written.
type event string

const (
	eventStart   event = "start"
	eventSubmit  event = "submit"
	eventConfirm event = "confirm"
	eventReject  event = "reject"
	eventCancel  event = "cancel"
)

// transitions maps each event to its allowed source states and target state.
var transitions = map[event]struct {
	from []Status
	to   Status
}{
	eventStart:   {from: []Status{StatusAssigned}, to: StatusInProgress},
	eventSubmit:  {from: []Status{StatusInProgress}, to: StatusPendingReview},
	eventConfirm: {from: []Status{StatusPendingReview}, to: StatusCompleted},
	eventReject:  {from: []Status{StatusPendingReview}, to: StatusInProgress},
	eventCancel:  {from: []Status{StatusAssigned, StatusInProgress, StatusPendingReview}, to: StatusCancelled},
}

// ListFilters narrows task listings.
type ListFilters struct {
	Page     int
	Limit    int
	Status   Status
	OrderID  *uuid.UUID
	PackerID *uuid.UUID
}
