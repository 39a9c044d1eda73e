package payroll

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/generic"
)

// =============================================================================
// MONTHLY RESULT
// =============================================================================

// MonthlyResult is the engine output for one employee and month.
// Amounts are full precision; call Rounded before display.
type MonthlyResult struct {
	EmployeeID string
	Year       int
	Month      time.Month

	TotalDaysInMonth int
	WorkingDays      int
	WorkingDayPolicy string

	PresentDays          int
	AbsentDays           int
	HalfDays             int
	PaidLeaveDays        int
	EffectiveWorkingDays decimal.Decimal

	MonthlySalary    generic.Money
	PerDaySalary     generic.Money
	EarnedSalary     generic.Money
	BonusAmount      generic.Money
	TotalEarnings    generic.Money
	AbsentDeduction  generic.Money
	HalfDayDeduction generic.Money
	TotalDeductions  generic.Money
	NetSalary        generic.Money
	TotalPaid        generic.Money
	PendingBalance   generic.Money

	Payments []Payment // payments matched to this bucket, input order

	// Inputs ignored because they belonged to another employee or period.
	SkippedAttendance int
	SkippedPayments   int
}

// Rounded returns a copy with every amount rounded half-up to two places.
// Each field is rounded from its own full-precision value, so rounding
// error never compounds across earnings, deductions and net.
func (r MonthlyResult) Rounded() MonthlyResult {
	out := r
	out.EffectiveWorkingDays = r.EffectiveWorkingDays.Round(generic.DisplayPlaces)
	out.MonthlySalary = r.MonthlySalary.Round2()
	out.PerDaySalary = r.PerDaySalary.Round2()
	out.EarnedSalary = r.EarnedSalary.Round2()
	out.BonusAmount = r.BonusAmount.Round2()
	out.TotalEarnings = r.TotalEarnings.Round2()
	out.AbsentDeduction = r.AbsentDeduction.Round2()
	out.HalfDayDeduction = r.HalfDayDeduction.Round2()
	out.TotalDeductions = r.TotalDeductions.Round2()
	out.NetSalary = r.NetSalary.Round2()
	out.TotalPaid = r.TotalPaid.Round2()
	out.PendingBalance = r.PendingBalance.Round2()
	return out
}

// =============================================================================
// CALCULATOR
// =============================================================================

// Calculator is the single canonical payroll algorithm. It is a value type
// with no mutable state; the zero value uses CalendarDaysPolicy.
type Calculator struct {
	Policy WorkingDayPolicy
}

func NewCalculator(policy WorkingDayPolicy) Calculator {
	return Calculator{Policy: policy}
}

func (c Calculator) policy() WorkingDayPolicy {
	if c.Policy == nil {
		return CalendarDaysPolicy{}
	}
	return c.Policy
}

// ComputeMonth derives the payroll for one employee and month.
//
// Steps:
//  1. Validate the period and the employee snapshot
//  2. MonthCalendar for the day count, policy for the divisor
//  3. Each in-period attendance record -> ResolveDayWeight -> Accumulator
//  4. earned = salary * earnedDays / workingDays, one division per line
//  5. Add bonus, subtract deductions
//  6. TallyPayments on the (employee, month, year) tag
//
// perDay = salary / workingDays is reported for display only; amounts are
// never built by summing it, so a fully present month nets exactly
// salary + bonus.
//
// Attendance for another employee or outside the month and payments tagged
// to another bucket are skipped and counted rather than trusted.
func (c Calculator) ComputeMonth(emp *Employee, attendance []AttendanceRecord, payments []Payment, month time.Month, year int) (MonthlyResult, error) {
	cal, err := MonthCalendar(year, month)
	if err != nil {
		return MonthlyResult{}, err
	}
	if err := ValidateEmployee(emp); err != nil {
		return MonthlyResult{}, err
	}

	policy := c.policy()
	workingDays := policy.WorkingDays(cal)
	perDay := emp.MonthlySalary.DivInt(int64(workingDays))

	var acc Accumulator
	skippedAttendance := 0
	for _, rec := range attendance {
		if rec.EmployeeID != emp.ID || !cal.Period.Contains(rec.Date) {
			skippedAttendance++
			continue
		}
		if err := acc.Add(rec.Status); err != nil {
			return MonthlyResult{}, err
		}
	}

	for _, p := range payments {
		if p.Amount.IsNegative() {
			return MonthlyResult{}, ValidatePayment(p)
		}
	}

	earned := Prorate(emp.MonthlySalary, acc.EarnedWeight, workingDays)
	absentDeduction := Prorate(emp.MonthlySalary, acc.AbsentWeight, workingDays)
	halfDayDeduction := Prorate(emp.MonthlySalary, acc.HalfDayDeductWeight, workingDays)
	totalDeductions := Prorate(emp.MonthlySalary, acc.DeductedWeight(), workingDays)

	bonus := emp.BonusAmount()
	totalEarnings := earned.Add(bonus)
	netSalary := totalEarnings.Sub(totalDeductions)
	tally := TallyPayments(emp.ID, month, year, payments)

	return MonthlyResult{
		EmployeeID:           emp.ID,
		Year:                 year,
		Month:                month,
		TotalDaysInMonth:     cal.TotalDays,
		WorkingDays:          workingDays,
		WorkingDayPolicy:     policy.Name(),
		PresentDays:          acc.PresentDays,
		AbsentDays:           acc.AbsentDays,
		HalfDays:             acc.HalfDays,
		PaidLeaveDays:        acc.PaidLeaveDays,
		EffectiveWorkingDays: acc.EffectiveWorkingDays(),
		MonthlySalary:        emp.MonthlySalary,
		PerDaySalary:         perDay,
		EarnedSalary:         earned,
		BonusAmount:          bonus,
		TotalEarnings:        totalEarnings,
		AbsentDeduction:      absentDeduction,
		HalfDayDeduction:     halfDayDeduction,
		TotalDeductions:      totalDeductions,
		NetSalary:            netSalary,
		TotalPaid:            tally.TotalPaid,
		PendingBalance:       PendingBalance(netSalary, tally.TotalPaid),
		Payments:             tally.Matched,
		SkippedAttendance:    skippedAttendance,
		SkippedPayments:      tally.Skipped,
	}, nil
}
