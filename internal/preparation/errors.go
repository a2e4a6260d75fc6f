package preparation

import (
	"fmt"

	"github.com/wareline/wareline/internal/shared"
)

var (
	// ErrTaskTerminal rejects writes against a completed or cancelled task.
	ErrTaskTerminal = fmt.Errorf("%w: task is in a terminal state", shared.ErrConflict)
	// ErrInvalidTransition rejects a status change the graph does not allow.
	ErrInvalidTransition = fmt.Errorf("%w: status transition not allowed", shared.ErrConflict)
	// ErrReasonRequired rejects a review rejection without a reason.
	ErrReasonRequired = fmt.Errorf("%w: rejection reason is required", shared.ErrValidation)
	// ErrNotPacker rejects an item update by anyone but the assigned packer.
	ErrNotPacker = fmt.Errorf("%w: only the assigned packer may update items", shared.ErrForbidden)
	// ErrLineMismatch rejects an item referencing a line outside the task's order.
	ErrLineMismatch = fmt.Errorf("%w: order line does not belong to the order", shared.ErrValidation)
)
