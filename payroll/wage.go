package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/generic"
)

var (
	half = decimal.New(5, -1)
	one  = decimal.NewFromInt(1)
)

// DayWeight is one attendance record's share of a working day on each side
// of the payslip. Earned and Deduction are tracked separately because
// payslips show gross earnings and gross deductions as separate lines.
type DayWeight struct {
	Earned    decimal.Decimal
	Deduction decimal.Decimal
}

// ResolveDayWeight maps a status to its weight in working days:
//
//	present     earned = 1      deduction = 0
//	paid-leave  earned = 1      deduction = 0
//	half-day    earned = 0.5    deduction = 0.5
//	absent      earned = 0      deduction = 1
//
// Half-day appears on both sides: the earned half counts toward effective
// working days and the other half is shown as an explicit deduction line.
func ResolveDayWeight(status AttendanceStatus) (DayWeight, error) {
	switch status {
	case StatusPresent, StatusPaidLeave:
		return DayWeight{Earned: one, Deduction: decimal.Zero}, nil
	case StatusHalfDay:
		return DayWeight{Earned: half, Deduction: half}, nil
	case StatusAbsent:
		return DayWeight{Earned: decimal.Zero, Deduction: one}, nil
	default:
		return DayWeight{}, &InputError{Kind: generic.ErrInvalidStatus, Field: "status", Value: status,
			Reason: "must be one of present, absent, half-day, paid-leave"}
	}
}

// Prorate returns salary * days / workingDays with a single division, so
// a full month of days gives back the salary exactly.
func Prorate(salary generic.Money, days decimal.Decimal, workingDays int) generic.Money {
	if days.IsZero() {
		return generic.ZeroMoney()
	}
	return salary.Mul(days).DivInt(int64(workingDays))
}
