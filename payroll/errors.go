package payroll

import (
	"fmt"
	"time"

	"github.com/warp/payroll-engine/generic"
)

// Supported year range for payroll periods.
const (
	MinYear = 2000
	MaxYear = 2100
)

// InputError describes a violated precondition. It unwraps to one of the
// generic sentinels so callers can branch with errors.Is.
type InputError struct {
	Kind   error // generic.ErrInvalidPeriod, ErrMissingEmployee, ErrNegativeMonetaryInput, ErrInvalidStatus
	Field  string
	Value  any
	Reason string
}

func (e *InputError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%v: %s", e.Kind, e.Reason)
	}
	return fmt.Sprintf("%v: %s=%v %s", e.Kind, e.Field, e.Value, e.Reason)
}

func (e *InputError) Unwrap() error {
	return e.Kind
}

// =============================================================================
// PRECONDITIONS
// =============================================================================

// ValidatePeriod checks month 1-12 and year within [MinYear, MaxYear].
func ValidatePeriod(month time.Month, year int) error {
	if month < time.January || month > time.December {
		return &InputError{Kind: generic.ErrInvalidPeriod, Field: "month", Value: int(month), Reason: "must be between 1 and 12"}
	}
	return ValidateYear(year)
}

func ValidateYear(year int) error {
	if year < MinYear || year > MaxYear {
		return &InputError{Kind: generic.ErrInvalidPeriod, Field: "year", Value: year,
			Reason: fmt.Sprintf("must be between %d and %d", MinYear, MaxYear)}
	}
	return nil
}

// ValidateEmployee rejects a nil snapshot and negative salary or bonus.
func ValidateEmployee(emp *Employee) error {
	if emp == nil {
		return &InputError{Kind: generic.ErrMissingEmployee, Reason: "no employee snapshot supplied"}
	}
	if emp.MonthlySalary.IsNegative() {
		return &InputError{Kind: generic.ErrNegativeMonetaryInput, Field: "monthly_salary", Value: emp.MonthlySalary, Reason: "must not be negative"}
	}
	if emp.Bonus.Valid && emp.Bonus.Decimal.IsNegative() {
		return &InputError{Kind: generic.ErrNegativeMonetaryInput, Field: "bonus", Value: emp.Bonus.Decimal, Reason: "must not be negative"}
	}
	return nil
}

// ValidatePayment checks the amount and the month/year tag.
func ValidatePayment(p Payment) error {
	if p.Amount.IsNegative() {
		return &InputError{Kind: generic.ErrNegativeMonetaryInput, Field: "amount", Value: p.Amount, Reason: "must not be negative"}
	}
	return ValidatePeriod(p.Month, p.Year)
}

// ValidateAttendance checks the status and that a date is present.
func ValidateAttendance(r AttendanceRecord) error {
	if !r.Status.Valid() {
		return &InputError{Kind: generic.ErrInvalidStatus, Field: "status", Value: r.Status,
			Reason: "must be one of present, absent, half-day, paid-leave"}
	}
	if r.Date.IsZero() {
		return &InputError{Kind: generic.ErrInvalidPeriod, Field: "date", Value: "", Reason: "is required"}
	}
	return nil
}
