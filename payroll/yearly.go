package payroll

import (
	"time"

	"github.com/warp/payroll-engine/generic"
)

// YearlyResult rolls twelve monthly results into one view.
type YearlyResult struct {
	EmployeeID string
	Year       int
	Months     []MonthlyResult // January..December

	YearlyNetTotal     generic.Money
	YearlyPaidTotal    generic.Money
	YearlyPendingTotal generic.Money // may be negative if overpaid
}

// Rounded rounds every month and the totals. Totals are rounded from their
// full-precision sums, not re-added from rounded months.
func (y YearlyResult) Rounded() YearlyResult {
	out := y
	out.Months = make([]MonthlyResult, len(y.Months))
	for i, m := range y.Months {
		out.Months[i] = m.Rounded()
	}
	out.YearlyNetTotal = y.YearlyNetTotal.Round2()
	out.YearlyPaidTotal = y.YearlyPaidTotal.Round2()
	out.YearlyPendingTotal = y.YearlyPendingTotal.Round2()
	return out
}

// ComputeYear runs ComputeMonth for January through December. Attendance is
// bucketed by date and payments by their month/year tag before each month is
// computed; inputs for other years or employees are dropped. A month with no
// attendance is still computed (net salary = bonus).
func (c Calculator) ComputeYear(emp *Employee, attendance []AttendanceRecord, payments []Payment, year int) (YearlyResult, error) {
	if err := ValidateYear(year); err != nil {
		return YearlyResult{}, err
	}
	if err := ValidateEmployee(emp); err != nil {
		return YearlyResult{}, err
	}

	attendanceByMonth := make(map[time.Month][]AttendanceRecord, 12)
	for _, rec := range attendance {
		if rec.EmployeeID != emp.ID || rec.Date.Year() != year {
			continue
		}
		attendanceByMonth[rec.Date.Month()] = append(attendanceByMonth[rec.Date.Month()], rec)
	}
	paymentsByMonth := make(map[time.Month][]Payment, 12)
	for _, p := range payments {
		if p.EmployeeID != emp.ID || p.Year != year {
			continue
		}
		paymentsByMonth[p.Month] = append(paymentsByMonth[p.Month], p)
	}

	result := YearlyResult{
		EmployeeID:         emp.ID,
		Year:               year,
		Months:             make([]MonthlyResult, 0, 12),
		YearlyNetTotal:     generic.ZeroMoney(),
		YearlyPaidTotal:    generic.ZeroMoney(),
		YearlyPendingTotal: generic.ZeroMoney(),
	}
	for month := time.January; month <= time.December; month++ {
		monthly, err := c.ComputeMonth(emp, attendanceByMonth[month], paymentsByMonth[month], month, year)
		if err != nil {
			return YearlyResult{}, err
		}
		result.Months = append(result.Months, monthly)
		result.YearlyNetTotal = result.YearlyNetTotal.Add(monthly.NetSalary)
		result.YearlyPaidTotal = result.YearlyPaidTotal.Add(monthly.TotalPaid)
		result.YearlyPendingTotal = result.YearlyPendingTotal.Add(monthly.PendingBalance)
	}
	return result, nil
}
