package inventory

import (
	"fmt"

	"github.com/wareline/wareline/internal/shared"
)

var (
	// ErrInsufficientStock means a reservation asked for more than the lot's
	// remaining quantity.
	ErrInsufficientStock = fmt.Errorf("%w: insufficient remaining quantity", shared.ErrConflict)
	// ErrRestoreOverflow means a restore would push remain_qty past qty_on_hand,
	// which indicates corrupted reservation bookkeeping.
	ErrRestoreOverflow = fmt.Errorf("%w: restore exceeds on-hand quantity", shared.ErrDependency)
)
