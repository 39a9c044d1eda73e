/*
errors.go - Centralized error types for the engine and its collaborators

PURPOSE:
  All shared error sentinels in one place for consistency and discoverability.
  Domain packages wrap these with additional context.

ERROR CATEGORIES:
  1. Input errors - A precondition on caller-supplied data was violated
  2. Lookup errors - A referenced record does not exist
  3. Store errors - Database-level conflicts

USAGE:
  if errors.Is(err, generic.ErrInvalidPeriod) {
      // reject the request with 400
  }

SEE ALSO:
  - payroll/errors.go: InputError wraps these with field context
  - api/handlers.go: Maps them to HTTP status codes
*/
package generic

import "errors"

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidPeriod is returned for a month outside 1-12, a year outside
	// the supported range, or a date range whose end precedes its start.
	ErrInvalidPeriod = errors.New("invalid period")

	// ErrMissingEmployee is returned when no employee snapshot was supplied.
	ErrMissingEmployee = errors.New("missing employee")

	// ErrNegativeMonetaryInput is returned for a negative salary, bonus or
	// payment amount. Salaries are never clamped to zero.
	ErrNegativeMonetaryInput = errors.New("negative monetary input")

	// ErrInvalidStatus is returned for an attendance status outside the enum.
	ErrInvalidStatus = errors.New("invalid attendance status")

	// ErrInvalidInput is returned for a malformed or missing request field
	// that is not covered by a more specific sentinel.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEntityNotFound is returned when a referenced record doesn't exist.
	ErrEntityNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when a uniqueness constraint is violated.
	ErrDuplicate = errors.New("duplicate record")
)

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrMissingEmployee) ||
		errors.Is(err, ErrNegativeMonetaryInput) ||
		errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrDuplicate)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEntityNotFound)
}
