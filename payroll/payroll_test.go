package payroll_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payroll-engine/generic"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

const empID = "emp-1"

func money(s string) generic.Money {
	return generic.MustParseMoney(s)
}

func date(year int, month time.Month, day int) generic.TimePoint {
	return generic.NewTimePoint(year, month, day)
}

func employee(salary, bonus string) *payroll.Employee {
	emp := &payroll.Employee{ID: empID, MonthlySalary: money(salary)}
	if bonus != "" {
		emp.Bonus = decimal.NewNullDecimal(decimal.RequireFromString(bonus))
	}
	return emp
}

func record(d generic.TimePoint, status payroll.AttendanceStatus) payroll.AttendanceRecord {
	return payroll.AttendanceRecord{EmployeeID: empID, Date: d, Status: status}
}

// monthOf builds one record per status run, starting on the 1st.
// Example: monthOf(2025, Feb, present, 20, absent, 3) -> Feb 1..20 present, Feb 21..23 absent.
func monthOf(year int, month time.Month, runs ...any) []payroll.AttendanceRecord {
	var records []payroll.AttendanceRecord
	day := 1
	for i := 0; i < len(runs); i += 2 {
		status := runs[i].(payroll.AttendanceStatus)
		n := runs[i+1].(int)
		for j := 0; j < n; j++ {
			records = append(records, record(date(year, month, day), status))
			day++
		}
	}
	return records
}

func payment(amount string, month time.Month, year int) payroll.Payment {
	return payroll.Payment{
		EmployeeID:  empID,
		Amount:      money(amount),
		PaymentDate: date(year, month, 28),
		Month:       month,
		Year:        year,
	}
}

func assertMoney(t *testing.T, want string, got generic.Money, field string) {
	t.Helper()
	assert.Equal(t, want, got.StringFixed(), field)
}

// =============================================================================
// PERIOD CALENDAR
// =============================================================================

func TestMonthCalendar_DayCounts(t *testing.T) {
	cases := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2025, time.February, 28},
		{2024, time.February, 29},
		{2000, time.February, 29},
		{2100, time.February, 28},
		{2025, time.January, 31},
		{2025, time.April, 30},
		{2025, time.December, 31},
	}
	for _, tc := range cases {
		cal, err := payroll.MonthCalendar(tc.year, tc.month)
		require.NoError(t, err)
		assert.Equal(t, tc.want, cal.TotalDays, "%d-%02d", tc.year, tc.month)
		assert.Equal(t, tc.want, cal.Period.Len())
	}
}

func TestMonthCalendar_RangeIsInclusive(t *testing.T) {
	cal, err := payroll.MonthCalendar(2024, time.February)
	require.NoError(t, err)

	assert.Equal(t, "2024-02-01", cal.Period.Start.String())
	assert.Equal(t, "2024-02-29", cal.Period.End.String())
	assert.True(t, cal.Period.Contains(date(2024, time.February, 29)))
	assert.False(t, cal.Period.Contains(date(2024, time.March, 1)))
	assert.False(t, cal.Period.Contains(date(2024, time.January, 31)))
}

func TestMonthCalendar_RejectsInvalidPeriod(t *testing.T) {
	for _, tc := range []struct {
		year  int
		month time.Month
	}{
		{2025, 0}, {2025, 13}, {1999, time.May}, {2101, time.May},
	} {
		_, err := payroll.MonthCalendar(tc.year, tc.month)
		assert.ErrorIs(t, err, generic.ErrInvalidPeriod, "%d-%d", tc.year, tc.month)
	}
}

// =============================================================================
// WORKING DAY POLICY
// =============================================================================

func TestCalendarDaysPolicy_EveryDayCounts(t *testing.T) {
	cal, _ := payroll.MonthCalendar(2025, time.February)
	assert.Equal(t, 28, payroll.CalendarDaysPolicy{}.WorkingDays(cal))
}

func TestWeekdaysPolicy_SkipsWeekendsAndHolidays(t *testing.T) {
	cal, _ := payroll.MonthCalendar(2025, time.February)

	assert.Equal(t, 20, payroll.WeekdaysPolicy{}.WorkingDays(cal))

	// Feb 17 2025 is a Monday, Feb 22 a Saturday (already excluded)
	holidays := generic.StaticHolidays{
		{Date: date(2025, time.February, 17), Name: "Founders Day"},
		{Date: date(2025, time.February, 22), Name: "Weekend Holiday"},
	}
	assert.Equal(t, 19, payroll.WeekdaysPolicy{Holidays: holidays}.WorkingDays(cal))
}

func TestPolicyByName(t *testing.T) {
	p, err := payroll.PolicyByName("", nil)
	require.NoError(t, err)
	assert.Equal(t, payroll.PolicyCalendarDays, p.Name())

	p, err = payroll.PolicyByName("weekdays", nil)
	require.NoError(t, err)
	assert.Equal(t, payroll.PolicyWeekdays, p.Name())

	_, err = payroll.PolicyByName("lunar", nil)
	assert.Error(t, err)
}

// =============================================================================
// DAY WEIGHTS
// =============================================================================

func TestResolveDayWeight_Table(t *testing.T) {
	cases := []struct {
		status    payroll.AttendanceStatus
		earned    string
		deduction string
	}{
		{payroll.StatusPresent, "1", "0"},
		{payroll.StatusPaidLeave, "1", "0"},
		{payroll.StatusHalfDay, "0.5", "0.5"},
		{payroll.StatusAbsent, "0", "1"},
	}
	for _, tc := range cases {
		w, err := payroll.ResolveDayWeight(tc.status)
		require.NoError(t, err)
		assert.True(t, w.Earned.Equal(decimal.RequireFromString(tc.earned)), "%s earned %s", tc.status, w.Earned)
		assert.True(t, w.Deduction.Equal(decimal.RequireFromString(tc.deduction)), "%s deduction %s", tc.status, w.Deduction)
	}
}

func TestResolveDayWeight_UnknownStatus(t *testing.T) {
	_, err := payroll.ResolveDayWeight("late")
	assert.ErrorIs(t, err, generic.ErrInvalidStatus)

	var inputErr *payroll.InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, "status", inputErr.Field)
}

func TestProrate_SingleDivision(t *testing.T) {
	salary := money("30000")

	// A full month gives the salary back exactly
	assert.True(t, payroll.Prorate(salary, decimal.NewFromInt(31), 31).Equal(salary))
	assert.True(t, payroll.Prorate(salary, decimal.Zero, 31).IsZero())
	assertMoney(t, "25714.29", payroll.Prorate(salary, decimal.NewFromInt(24), 28).Round2(), "24 of 28")
}

// =============================================================================
// ACCUMULATOR
// =============================================================================

func TestAccumulator_CountsAndWeights(t *testing.T) {
	var acc payroll.Accumulator
	for _, s := range []payroll.AttendanceStatus{
		payroll.StatusPresent, payroll.StatusPresent, payroll.StatusPaidLeave,
		payroll.StatusHalfDay, payroll.StatusAbsent,
	} {
		require.NoError(t, acc.Add(s))
	}

	assert.Equal(t, 2, acc.PresentDays)
	assert.Equal(t, 1, acc.PaidLeaveDays)
	assert.Equal(t, 1, acc.HalfDays)
	assert.Equal(t, 1, acc.AbsentDays)
	assert.Equal(t, 5, acc.Records())
	assert.Equal(t, "3.5", acc.EffectiveWorkingDays().String())
	assert.Equal(t, "1", acc.AbsentWeight.String())
	assert.Equal(t, "0.5", acc.HalfDayDeductWeight.String())
	assert.Equal(t, "1.5", acc.DeductedWeight().String())
}

func TestAccumulator_RejectsUnknownStatus(t *testing.T) {
	var acc payroll.Accumulator

	err := acc.Add("late")

	assert.ErrorIs(t, err, generic.ErrInvalidStatus)
	assert.Equal(t, 0, acc.Records())
}

// =============================================================================
// PAYMENT RECONCILER
// =============================================================================

func TestTallyPayments_MatchesByTagNotDate(t *testing.T) {
	// GIVEN: An advance paid on Dec 20 2024 but tagged to January 2025
	advance := payroll.Payment{
		EmployeeID:  empID,
		Amount:      money("2000"),
		PaymentDate: date(2024, time.December, 20),
		Month:       time.January,
		Year:        2025,
	}
	december := payment("1500", time.December, 2024)
	other := payment("999", time.January, 2025)
	other.EmployeeID = "emp-2"

	// WHEN: Tallying January 2025 and December 2024
	jan := payroll.TallyPayments(empID, time.January, 2025, []payroll.Payment{advance, december, other})
	dec := payroll.TallyPayments(empID, time.December, 2024, []payroll.Payment{advance, december, other})

	// THEN: The advance counts for January only
	assertMoney(t, "2000.00", jan.TotalPaid, "january paid")
	assert.Len(t, jan.Matched, 1)
	assert.Equal(t, 2, jan.Skipped)
	assertMoney(t, "1500.00", dec.TotalPaid, "december paid")
}

func TestPendingBalance_NotClamped(t *testing.T) {
	assertMoney(t, "-500.00", payroll.PendingBalance(money("1000"), money("1500")), "overpaid")
	assertMoney(t, "250.00", payroll.PendingBalance(money("1000"), money("750")), "pending")
}

// =============================================================================
// MONTHLY CALCULATOR
// =============================================================================

func TestComputeMonth_FebruaryScenario(t *testing.T) {
	// GIVEN: 30000/month, no bonus, Feb 2025 (28 days)
	//   20 present, 3 absent, 2 half-day, 3 paid-leave, one 5000 payment
	emp := employee("30000", "")
	att := monthOf(2025, time.February,
		payroll.StatusPresent, 20,
		payroll.StatusAbsent, 3,
		payroll.StatusHalfDay, 2,
		payroll.StatusPaidLeave, 3,
	)
	pays := []payroll.Payment{payment("5000", time.February, 2025)}

	// WHEN
	res, err := payroll.Calculator{}.ComputeMonth(emp, att, pays, time.February, 2025)
	require.NoError(t, err)
	r := res.Rounded()

	// THEN: earned = perDay*(present+paidLeave) + perDay*0.5*halfDays,
	// deductions = perDay*absent + perDay*0.5*halfDays
	assert.Equal(t, 28, r.TotalDaysInMonth)
	assert.Equal(t, 28, r.WorkingDays)
	assert.Equal(t, "calendar", r.WorkingDayPolicy)
	assert.Equal(t, 20, r.PresentDays)
	assert.Equal(t, 3, r.AbsentDays)
	assert.Equal(t, 2, r.HalfDays)
	assert.Equal(t, 3, r.PaidLeaveDays)
	assert.Equal(t, "24.00", r.EffectiveWorkingDays.StringFixed(2))
	assert.Equal(t, "1071.4285714285714286", res.PerDaySalary.String())
	assertMoney(t, "1071.43", r.PerDaySalary, "perDay")
	assertMoney(t, "25714.29", r.EarnedSalary, "earned")
	assertMoney(t, "0.00", r.BonusAmount, "bonus")
	assertMoney(t, "25714.29", r.TotalEarnings, "total earnings")
	assertMoney(t, "3214.29", r.AbsentDeduction, "absent deduction")
	assertMoney(t, "1071.43", r.HalfDayDeduction, "half-day deduction")
	assertMoney(t, "4285.71", r.TotalDeductions, "total deductions")
	assertMoney(t, "21428.57", r.NetSalary, "net")
	assertMoney(t, "5000.00", r.TotalPaid, "paid")
	assertMoney(t, "16428.57", r.PendingBalance, "pending")
}

func TestComputeMonth_AllPresent(t *testing.T) {
	// GIVEN: Every day of a 31-day month present, salary not divisible by 31
	emp := employee("30000", "1500")
	att := monthOf(2025, time.January, payroll.StatusPresent, 31)

	res, err := payroll.Calculator{}.ComputeMonth(emp, att, nil, time.January, 2025)
	require.NoError(t, err)

	// THEN: effective days == total days, no deductions, and net equals
	// salary + bonus exactly, before any rounding
	assert.True(t, res.EffectiveWorkingDays.Equal(decimal.NewFromInt(31)))
	assert.True(t, res.TotalDeductions.IsZero(), res.TotalDeductions.String())
	assert.True(t, res.EarnedSalary.Equal(money("30000")), res.EarnedSalary.String())
	assert.True(t, res.NetSalary.Equal(money("31500")), res.NetSalary.String())
	assert.True(t, res.PendingBalance.Equal(money("31500")), res.PendingBalance.String())
}

func TestComputeMonth_AllAbsent(t *testing.T) {
	// GIVEN: Every day absent, small bonus
	emp := employee("28000", "500")
	att := monthOf(2025, time.February, payroll.StatusAbsent, 28)

	res, err := payroll.Calculator{}.ComputeMonth(emp, att, nil, time.February, 2025)
	require.NoError(t, err)

	// THEN: nothing earned, deductions == salary, net == bonus - salary
	// (negative is valid), all exact before rounding
	assert.True(t, res.EarnedSalary.IsZero(), res.EarnedSalary.String())
	assert.True(t, res.TotalDeductions.Equal(money("28000")), res.TotalDeductions.String())
	assert.True(t, res.AbsentDeduction.Equal(money("28000")), res.AbsentDeduction.String())
	assert.True(t, res.NetSalary.Equal(money("-27500")), res.NetSalary.String())
}

func TestComputeMonth_FullMonthExactForEveryLength(t *testing.T) {
	// GIVEN: A salary that divides evenly into none of the month lengths
	emp := employee("30001", "")

	for _, tc := range []struct {
		year  int
		month time.Month
	}{
		{2025, time.January}, {2025, time.February}, {2024, time.February}, {2025, time.April},
	} {
		days := generic.DaysInMonth(tc.year, tc.month)
		present := monthOf(tc.year, tc.month, payroll.StatusPresent, days)
		paidLeave := monthOf(tc.year, tc.month, payroll.StatusPaidLeave, days)

		// WHEN: Every day is present, or every day is paid leave
		a, err := payroll.Calculator{}.ComputeMonth(emp, present, nil, tc.month, tc.year)
		require.NoError(t, err)
		b, err := payroll.Calculator{}.ComputeMonth(emp, paidLeave, nil, tc.month, tc.year)
		require.NoError(t, err)

		// THEN: Net is the salary to the last digit
		assert.True(t, a.NetSalary.Equal(money("30001")), "%d-%02d present: %s", tc.year, tc.month, a.NetSalary)
		assert.True(t, b.NetSalary.Equal(money("30001")), "%d-%02d paid leave: %s", tc.year, tc.month, b.NetSalary)
	}
}

func TestComputeMonth_NoAttendanceIsBonusOnly(t *testing.T) {
	emp := employee("30000", "750")

	res, err := payroll.Calculator{}.ComputeMonth(emp, nil, nil, time.March, 2025)
	require.NoError(t, err)
	r := res.Rounded()

	assert.Equal(t, 0, r.PresentDays+r.AbsentDays+r.HalfDays+r.PaidLeaveDays)
	assertMoney(t, "0.00", r.EarnedSalary, "earned")
	assertMoney(t, "0.00", r.TotalDeductions, "deductions")
	assertMoney(t, "750.00", r.NetSalary, "net")
}

func TestComputeMonth_ZeroSalary(t *testing.T) {
	emp := employee("0", "200")
	att := monthOf(2025, time.April,
		payroll.StatusPresent, 10,
		payroll.StatusAbsent, 10,
		payroll.StatusHalfDay, 10,
	)

	res, err := payroll.Calculator{}.ComputeMonth(emp, att, nil, time.April, 2025)
	require.NoError(t, err)

	assert.True(t, res.PerDaySalary.IsZero())
	assertMoney(t, "200.00", res.Rounded().NetSalary, "net")
}

func TestComputeMonth_LeapFebruaryChangesPerDay(t *testing.T) {
	emp := employee("30000", "")

	leap, err := payroll.Calculator{}.ComputeMonth(emp, nil, nil, time.February, 2024)
	require.NoError(t, err)
	common, err := payroll.Calculator{}.ComputeMonth(emp, nil, nil, time.February, 2025)
	require.NoError(t, err)

	assert.Equal(t, 29, leap.TotalDaysInMonth)
	assert.Equal(t, 28, common.TotalDaysInMonth)
	assertMoney(t, "1034.48", leap.Rounded().PerDaySalary, "leap perDay")
	assertMoney(t, "1071.43", common.Rounded().PerDaySalary, "common perDay")
}

func TestComputeMonth_BlankBonusIsZero(t *testing.T) {
	emp := &payroll.Employee{ID: empID, MonthlySalary: money("1000"), Bonus: decimal.NullDecimal{}}

	res, err := payroll.Calculator{}.ComputeMonth(emp, nil, nil, time.June, 2025)
	require.NoError(t, err)
	assert.True(t, res.BonusAmount.IsZero())
}

func TestComputeMonth_ReconciliationInvariant(t *testing.T) {
	emp := employee("31000", "0")
	att := monthOf(2025, time.March, payroll.StatusPresent, 31)

	for _, amounts := range [][]string{
		nil,
		{"1000"},
		{"10000", "20000.55"},
		{"31000", "5000"}, // overpaid
	} {
		var pays []payroll.Payment
		total := generic.ZeroMoney()
		for _, a := range amounts {
			pays = append(pays, payment(a, time.March, 2025))
			total = total.Add(money(a))
		}

		res, err := payroll.Calculator{}.ComputeMonth(emp, att, pays, time.March, 2025)
		require.NoError(t, err)
		assert.True(t, res.PendingBalance.Equal(res.NetSalary.Sub(total)), "amounts %v", amounts)
		assert.True(t, res.TotalPaid.Equal(total))
	}
}

func TestComputeMonth_Overpaid(t *testing.T) {
	emp := employee("31000", "")
	att := monthOf(2025, time.March, payroll.StatusPresent, 31)
	pays := []payroll.Payment{payment("40000", time.March, 2025)}

	res, err := payroll.Calculator{}.ComputeMonth(emp, att, pays, time.March, 2025)
	require.NoError(t, err)
	assertMoney(t, "-9000.00", res.Rounded().PendingBalance, "pending")
}

func TestComputeMonth_Idempotent(t *testing.T) {
	emp := employee("30000", "250")
	att := monthOf(2025, time.February, payroll.StatusPresent, 10, payroll.StatusHalfDay, 5, payroll.StatusAbsent, 2)
	pays := []payroll.Payment{payment("1200", time.February, 2025)}
	calc := payroll.NewCalculator(payroll.CalendarDaysPolicy{})

	first, err := calc.ComputeMonth(emp, att, pays, time.February, 2025)
	require.NoError(t, err)
	second, err := calc.ComputeMonth(emp, att, pays, time.February, 2025)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestComputeMonth_DuplicateDatesAreSummed(t *testing.T) {
	// GIVEN: The same day recorded twice as present
	emp := employee("31000", "")
	att := []payroll.AttendanceRecord{
		record(date(2025, time.March, 3), payroll.StatusPresent),
		record(date(2025, time.March, 3), payroll.StatusPresent),
	}

	res, err := payroll.Calculator{}.ComputeMonth(emp, att, nil, time.March, 2025)
	require.NoError(t, err)

	// THEN: Both records contribute
	assert.Equal(t, 2, res.PresentDays)
	assertMoney(t, "2000.00", res.Rounded().EarnedSalary, "earned")
}

func TestComputeMonth_SkipsForeignAndOutOfRangeRecords(t *testing.T) {
	emp := employee("31000", "")
	foreign := record(date(2025, time.March, 4), payroll.StatusPresent)
	foreign.EmployeeID = "emp-2"
	att := []payroll.AttendanceRecord{
		record(date(2025, time.March, 3), payroll.StatusPresent),
		record(date(2025, time.April, 1), payroll.StatusPresent),
		record(date(2025, time.February, 28), payroll.StatusAbsent),
		foreign,
	}
	otherBucket := payment("500", time.April, 2025)

	res, err := payroll.Calculator{}.ComputeMonth(emp, att, []payroll.Payment{otherBucket}, time.March, 2025)
	require.NoError(t, err)

	assert.Equal(t, 1, res.PresentDays)
	assert.Equal(t, 0, res.AbsentDays)
	assert.Equal(t, 3, res.SkippedAttendance)
	assert.Equal(t, 1, res.SkippedPayments)
	assert.True(t, res.TotalPaid.IsZero())
}

func TestComputeMonth_WeekdaysPolicy(t *testing.T) {
	// GIVEN: Weekday policy, Feb 2025 has 20 weekdays
	emp := employee("20000", "")
	calc := payroll.NewCalculator(payroll.WeekdaysPolicy{})

	res, err := calc.ComputeMonth(emp, monthOf(2025, time.February, payroll.StatusPresent, 3), nil, time.February, 2025)
	require.NoError(t, err)

	assert.Equal(t, 28, res.TotalDaysInMonth)
	assert.Equal(t, 20, res.WorkingDays)
	assertMoney(t, "1000.00", res.PerDaySalary, "perDay")
	assertMoney(t, "3000.00", res.EarnedSalary, "earned")
}

func TestComputeMonth_InputErrors(t *testing.T) {
	calc := payroll.Calculator{}
	good := employee("1000", "")

	_, err := calc.ComputeMonth(nil, nil, nil, time.May, 2025)
	assert.ErrorIs(t, err, generic.ErrMissingEmployee)

	_, err = calc.ComputeMonth(good, nil, nil, 13, 2025)
	assert.ErrorIs(t, err, generic.ErrInvalidPeriod)

	_, err = calc.ComputeMonth(good, nil, nil, time.May, 1999)
	assert.ErrorIs(t, err, generic.ErrInvalidPeriod)

	_, err = calc.ComputeMonth(employee("-1", ""), nil, nil, time.May, 2025)
	assert.ErrorIs(t, err, generic.ErrNegativeMonetaryInput)

	_, err = calc.ComputeMonth(employee("1000", "-5"), nil, nil, time.May, 2025)
	assert.ErrorIs(t, err, generic.ErrNegativeMonetaryInput)

	_, err = calc.ComputeMonth(good, nil, []payroll.Payment{payment("-10", time.May, 2025)}, time.May, 2025)
	assert.ErrorIs(t, err, generic.ErrNegativeMonetaryInput)

	bad := record(date(2025, time.May, 2), "late")
	_, err = calc.ComputeMonth(good, []payroll.AttendanceRecord{bad}, nil, time.May, 2025)
	assert.ErrorIs(t, err, generic.ErrInvalidStatus)
	assert.True(t, generic.IsClientError(err))
}

// =============================================================================
// YEARLY AGGREGATOR
// =============================================================================

func TestComputeYear_RollsUpPendingBalances(t *testing.T) {
	// GIVEN: Attendance in Jan and Feb, payments in Jan, Feb and an advance for Dec
	emp := employee("31000", "100")
	var att []payroll.AttendanceRecord
	att = append(att, monthOf(2025, time.January, payroll.StatusPresent, 31)...)
	att = append(att, monthOf(2025, time.February, payroll.StatusPresent, 14, payroll.StatusAbsent, 14)...)
	att = append(att, record(date(2024, time.December, 31), payroll.StatusPresent)) // other year

	advance := payment("700", time.December, 2025)
	advance.PaymentDate = date(2025, time.June, 1)
	pays := []payroll.Payment{
		payment("30000", time.January, 2025),
		payment("1000", time.February, 2025),
		advance,
		payment("123", time.January, 2024), // other year
	}

	// WHEN
	res, err := payroll.Calculator{}.ComputeYear(emp, att, pays, 2025)
	require.NoError(t, err)

	// THEN: 12 ordered months and the pending total equals their sum
	require.Len(t, res.Months, 12)
	sum := generic.ZeroMoney()
	for i, m := range res.Months {
		assert.Equal(t, time.Month(i+1), m.Month)
		assert.Equal(t, 0, m.SkippedAttendance)
		assert.Equal(t, 0, m.SkippedPayments)
		sum = sum.Add(m.PendingBalance)
	}
	assert.True(t, res.YearlyPendingTotal.Equal(sum))

	r := res.Rounded()
	assertMoney(t, "1100.00", r.Months[0].PendingBalance, "jan") // 31000+100-30000
	assertMoney(t, "100.00", r.Months[1].NetSalary, "feb net") // 15500+100-15500
	assertMoney(t, "-900.00", r.Months[1].PendingBalance, "feb pending")
	assertMoney(t, "100.00", r.Months[2].NetSalary, "mar bonus only")
	assertMoney(t, "-600.00", r.Months[11].PendingBalance, "dec advance")
}

func TestComputeYear_CanonicalPaidLeave(t *testing.T) {
	// Paid leave counts toward effective days in the yearly view too.
	emp := employee("31000", "")
	att := monthOf(2025, time.March, payroll.StatusPaidLeave, 31)

	res, err := payroll.Calculator{}.ComputeYear(emp, att, nil, 2025)
	require.NoError(t, err)

	march := res.Months[2].Rounded()
	assert.Equal(t, "31.00", march.EffectiveWorkingDays.StringFixed(2))
	assertMoney(t, "31000.00", march.NetSalary, "march")
}

func TestComputeYear_OrderIndependentTotal(t *testing.T) {
	emp := employee("30000", "50")
	var att []payroll.AttendanceRecord
	for _, m := range []time.Month{time.January, time.April, time.July, time.October} {
		att = append(att, monthOf(2025, m, payroll.StatusPresent, 12, payroll.StatusHalfDay, 4, payroll.StatusAbsent, 3)...)
	}
	reversed := make([]payroll.AttendanceRecord, len(att))
	for i := range att {
		reversed[len(att)-1-i] = att[i]
	}

	a, err := payroll.Calculator{}.ComputeYear(emp, att, nil, 2025)
	require.NoError(t, err)
	b, err := payroll.Calculator{}.ComputeYear(emp, reversed, nil, 2025)
	require.NoError(t, err)

	assert.True(t, a.YearlyPendingTotal.Equal(b.YearlyPendingTotal))
}

func TestComputeYear_InputErrors(t *testing.T) {
	_, err := payroll.Calculator{}.ComputeYear(nil, nil, nil, 2025)
	assert.ErrorIs(t, err, generic.ErrMissingEmployee)

	_, err = payroll.Calculator{}.ComputeYear(employee("1", ""), nil, nil, 2200)
	assert.ErrorIs(t, err, generic.ErrInvalidPeriod)
}

// =============================================================================
// ATTENDANCE SUMMARY
// =============================================================================

func TestSummarizeAttendance(t *testing.T) {
	records := monthOf(2025, time.May,
		payroll.StatusPresent, 5,
		payroll.StatusPaidLeave, 1,
		payroll.StatusHalfDay, 2,
		payroll.StatusAbsent, 2,
	)

	s := payroll.SummarizeAttendance(records)

	assert.Equal(t, 10, s.Total)
	assert.Equal(t, 5, s.Present)
	assert.Equal(t, 1, s.PaidLeave)
	assert.Equal(t, 2, s.HalfDay)
	assert.Equal(t, 2, s.Absent)
	assert.Equal(t, "70.00", s.PresentPercentage.StringFixed(2))

	empty := payroll.SummarizeAttendance(nil)
	assert.True(t, empty.PresentPercentage.IsZero())
}

func TestDailyBreakdown_GroupsAndOrdersByDate(t *testing.T) {
	// GIVEN: Two employees, records out of order
	other := record(date(2025, time.May, 2), payroll.StatusHalfDay)
	other.EmployeeID = "emp-2"
	records := []payroll.AttendanceRecord{
		record(date(2025, time.May, 3), payroll.StatusPaidLeave),
		other,
		record(date(2025, time.May, 2), payroll.StatusPresent),
		record(date(2025, time.April, 30), payroll.StatusAbsent),
	}

	// WHEN
	days := payroll.DailyBreakdown(records)

	// THEN: One row per date, oldest first
	require.Len(t, days, 3)
	assert.Equal(t, "2025-04-30", days[0].Date.String())
	assert.Equal(t, 1, days[0].Absent)
	assert.Equal(t, payroll.DayCount{Date: date(2025, time.May, 2), Present: 1, HalfDay: 1}, days[1])
	assert.Equal(t, 1, days[2].PaidLeave)
	assert.Empty(t, payroll.DailyBreakdown(nil))
}

func TestParseAttendanceStatus(t *testing.T) {
	s, err := payroll.ParseAttendanceStatus(" Half-Day ")
	require.NoError(t, err)
	assert.Equal(t, payroll.StatusHalfDay, s)

	_, err = payroll.ParseAttendanceStatus("sick")
	assert.ErrorIs(t, err, generic.ErrInvalidStatus)
}
