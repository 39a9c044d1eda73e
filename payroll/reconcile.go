package payroll

import (
	"time"

	"github.com/warp/payroll-engine/generic"
)

// PaymentTally is the result of folding payments for one bucket.
type PaymentTally struct {
	Matched   []Payment
	TotalPaid generic.Money
	Skipped   int // payments tagged to another employee or bucket
}

// TallyPayments sums the payments tagged to (employeeID, month, year).
// The tag decides the bucket, never PaymentDate.
func TallyPayments(employeeID string, month time.Month, year int, payments []Payment) PaymentTally {
	tally := PaymentTally{TotalPaid: generic.ZeroMoney()}
	for _, p := range payments {
		if !p.InBucket(employeeID, month, year) {
			tally.Skipped++
			continue
		}
		tally.Matched = append(tally.Matched, p)
		tally.TotalPaid = tally.TotalPaid.Add(p.Amount)
	}
	return tally
}

// PendingBalance is net minus paid. Negative means overpaid; it is never clamped.
func PendingBalance(netSalary, totalPaid generic.Money) generic.Money {
	return netSalary.Sub(totalPaid)
}
