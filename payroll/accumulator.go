package payroll

import (
	"github.com/shopspring/decimal"
)

// Accumulator folds attendance records into status counts and day weights.
// Amounts are derived from the weights once per month (see Prorate) rather
// than summed per record. The zero value is ready to use.
type Accumulator struct {
	PresentDays   int
	AbsentDays    int
	HalfDays      int
	PaidLeaveDays int

	EarnedWeight        decimal.Decimal // present + paid leave + 0.5 * half days
	AbsentWeight        decimal.Decimal
	HalfDayDeductWeight decimal.Decimal
}

// Add records one attendance record. Duplicate dates are not collapsed:
// two records for the same day count twice.
func (a *Accumulator) Add(status AttendanceStatus) error {
	w, err := ResolveDayWeight(status)
	if err != nil {
		return err
	}
	switch status {
	case StatusPresent:
		a.PresentDays++
	case StatusPaidLeave:
		a.PaidLeaveDays++
	case StatusHalfDay:
		a.HalfDays++
		a.HalfDayDeductWeight = a.HalfDayDeductWeight.Add(w.Deduction)
	case StatusAbsent:
		a.AbsentDays++
		a.AbsentWeight = a.AbsentWeight.Add(w.Deduction)
	}
	a.EarnedWeight = a.EarnedWeight.Add(w.Earned)
	return nil
}

// Records is the number of records folded so far.
func (a *Accumulator) Records() int {
	return a.PresentDays + a.AbsentDays + a.HalfDays + a.PaidLeaveDays
}

// EffectiveWorkingDays = present + paid leave + 0.5 * half days.
func (a *Accumulator) EffectiveWorkingDays() decimal.Decimal {
	return a.EarnedWeight
}

// DeductedWeight is absent days plus the deducted halves of half days.
func (a *Accumulator) DeductedWeight() decimal.Decimal {
	return a.AbsentWeight.Add(a.HalfDayDeductWeight)
}
