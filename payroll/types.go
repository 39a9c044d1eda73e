/*
Package payroll implements the payroll calculation and reconciliation engine.

PURPOSE:
  Given an employee snapshot, one period, the attendance records in that
  period and the payments tagged to it, derive earned salary, deductions,
  net salary and the outstanding (or overpaid) balance. Monthly results roll
  up into a yearly view.

PIPELINE (leaf-first):
  MonthCalendar      -> day count and date range for year+month
  WorkingDayPolicy   -> divisor for the per-day rate (default: every day)
  ResolveDayWeight   -> (earned, deducted) day weight for one status
  Accumulator        -> counts and summed day weights for the month
  Prorate            -> salary * days / workingDays, one division
  TallyPayments      -> total paid against the (employee, month, year) tag
  Calculator         -> ComputeMonth / ComputeYear orchestrate the above

PURITY:
  Everything except Service is pure: no I/O, no shared state, safe for
  concurrent use. Service only fetches inputs through Source and calls the
  Calculator, so every presentation path (JSON, CSV, XLSX, scheduler)
  computes through one algorithm.

PRECISION:
  All arithmetic uses decimal. Results keep full precision;
  MonthlyResult.Rounded is the only rounding point.

SEE ALSO:
  - generic/types.go: Money
  - api/handlers.go: Presentation of results
*/
package payroll

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/generic"
)

// =============================================================================
// ATTENDANCE STATUS
// =============================================================================

type AttendanceStatus string

const (
	StatusPresent   AttendanceStatus = "present"
	StatusAbsent    AttendanceStatus = "absent"
	StatusHalfDay   AttendanceStatus = "half-day"
	StatusPaidLeave AttendanceStatus = "paid-leave"
)

// AllStatuses lists every status in display order.
var AllStatuses = []AttendanceStatus{StatusPresent, StatusAbsent, StatusHalfDay, StatusPaidLeave}

func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusHalfDay, StatusPaidLeave:
		return true
	}
	return false
}

// ParseAttendanceStatus accepts the canonical spelling, case-insensitively.
func ParseAttendanceStatus(s string) (AttendanceStatus, error) {
	status := AttendanceStatus(strings.ToLower(strings.TrimSpace(s)))
	if !status.Valid() {
		return "", &InputError{Kind: generic.ErrInvalidStatus, Field: "status", Value: s,
			Reason: "must be one of present, absent, half-day, paid-leave"}
	}
	return status, nil
}

// =============================================================================
// INPUTS
// =============================================================================

// Employee is the read-only snapshot the engine needs.
type Employee struct {
	ID            string
	MonthlySalary generic.Money

	// Bonus is nullable in storage; null and blank mean zero.
	Bonus decimal.NullDecimal
}

// BonusAmount applies the defaulting rule: a missing bonus is 0.
func (e Employee) BonusAmount() generic.Money {
	if !e.Bonus.Valid {
		return generic.ZeroMoney()
	}
	return generic.NewMoney(e.Bonus.Decimal)
}

// AttendanceRecord is one day's status for one employee.
type AttendanceRecord struct {
	ID         string
	EmployeeID string
	Date       generic.TimePoint
	Status     AttendanceStatus
	Note       string
}

// Payment is a disbursement tagged to an (employee, month, year) bucket.
// Month/Year need not match PaymentDate: advances are recorded against a
// future period.
type Payment struct {
	ID          string
	EmployeeID  string
	Amount      generic.Money
	PaymentDate generic.TimePoint
	Month       time.Month
	Year        int
	Remarks     string
}

// InBucket reports whether the payment is tagged to the given bucket.
func (p Payment) InBucket(employeeID string, month time.Month, year int) bool {
	return p.EmployeeID == employeeID && p.Month == month && p.Year == year
}
