package shared

import (
	"fmt"

	"github.com/google/uuid"
)

// ParseID validates an opaque identifier at the boundary. Every handler and
// service funnels raw identifier strings through here so malformed values are
// rejected in exactly one place.
func ParseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed id %q", ErrValidation, raw)
	}
	if id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: nil id", ErrValidation)
	}
	return id, nil
}

// NewID mints a fresh identifier.
func NewID() uuid.UUID {
	return uuid.New()
}
