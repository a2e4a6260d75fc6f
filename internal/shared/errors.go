package shared

import "errors"

// Error taxonomy shared by all modules. Domain packages wrap these so the HTTP
// layer can map kinds to status codes without knowing module internals.
var (
	// ErrValidation indicates malformed input: bad identifier format, missing
	// required field, out-of-enum value.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound indicates a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates a state-machine violation: editing a terminal task,
	// double-cancel, insufficient stock for a reservation.
	ErrConflict = errors.New("conflict")
	// ErrDuplicate indicates a unique-key violation.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrDependency indicates the backing store rejected an operation for a
	// reason not attributable to caller input.
	ErrDependency = errors.New("dependency failed")
	// ErrForbidden indicates the caller lacks permission.
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthorized indicates a missing or invalid session.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrCSRFTokenMissing occurs when the CSRF token is missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)

// UserSafeMessage returns a message suitable for API consumers. Taxonomy errors
// carry their own wording; anything else collapses to a generic message so
// internals never leak.
func UserSafeMessage(err error) string {
	for _, known := range []error{ErrValidation, ErrNotFound, ErrConflict, ErrDuplicate, ErrDependency, ErrForbidden, ErrUnauthorized, ErrInvalidCredentials} {
		if errors.Is(err, known) {
			return err.Error()
		}
	}
	return "internal error"
}
