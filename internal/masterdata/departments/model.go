package departments

import (
	"time"

	"github.com/google/uuid"
)

// Department groups warehouse staff for task assignment and reporting.
type Department struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	ManagerID *string   `json:"managerId,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
