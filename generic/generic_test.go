package generic_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payroll-engine/generic"
)

// =============================================================================
// MONEY
// =============================================================================

func TestMoney_Round2HalfAwayFromZero(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1071.425", "1071.43"},
		{"1071.4249", "1071.42"},
		{"-3214.285", "-3214.29"},
		{"0.005", "0.01"},
		{"25714.2857142857", "25714.29"},
		{"30000", "30000.00"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, generic.MustParseMoney(tt.in).Round2().StringFixed())
		})
	}
}

func TestMoney_KeepsFullPrecision(t *testing.T) {
	// GIVEN: 30000 split over 28 days
	perDay := generic.MustParseMoney("30000").DivInt(28)

	// WHEN: Multiplying back without rounding in between
	back := perDay.Mul(decimal.NewFromInt(28))

	// THEN: The per-day rate is not pre-rounded
	assert.NotEqual(t, "1071.43", perDay.String())
	assert.Equal(t, "30000.00", back.Round2().StringFixed())
}

func TestMoney_JSON(t *testing.T) {
	// GIVEN: An amount with more than two places
	m := generic.MustParseMoney("16428.571428")

	// WHEN
	raw, err := json.Marshal(m)
	require.NoError(t, err)

	// THEN: It is emitted as a fixed two-place string
	assert.Equal(t, `"16428.57"`, string(raw))

	// AND: Both strings and numbers decode
	var fromString, fromNumber generic.Money
	require.NoError(t, json.Unmarshal([]byte(`"5000.5"`), &fromString))
	require.NoError(t, json.Unmarshal([]byte(`5000.5`), &fromNumber))
	assert.True(t, fromString.Equal(fromNumber))
}

func TestMoney_Arithmetic(t *testing.T) {
	a := generic.MustParseMoney("100.10")
	b := generic.MustParseMoney("0.20")

	assert.Equal(t, "100.30", a.Add(b).StringFixed())
	assert.Equal(t, "99.90", a.Sub(b).StringFixed())
	assert.True(t, b.Sub(a).IsNegative())
	assert.True(t, generic.ZeroMoney().IsZero())
	assert.Equal(t, "100.50", generic.SumMoney(a, b, b).StringFixed())

	_, err := generic.ParseMoney("12,50")
	assert.Error(t, err)
}

func TestMustParseMoney_PanicsOnMalformedInput(t *testing.T) {
	assert.Panics(t, func() { generic.MustParseMoney("not a number") })
	assert.Panics(t, func() { generic.MustParseMoney("") })
	assert.NotPanics(t, func() { generic.MustParseMoney("-0.5") })
}

// =============================================================================
// TIME
// =============================================================================

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2025, time.January, 31},
		{2025, time.February, 28},
		{2024, time.February, 29},
		{1900, time.February, 28},
		{2000, time.February, 29},
		{2025, time.April, 30},
		{2025, time.December, 31},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d-%02d", tt.year, tt.month), func(t *testing.T) {
			assert.Equal(t, tt.want, generic.DaysInMonth(tt.year, tt.month))
		})
	}
}

func TestTimePoint_ParseAndJSON(t *testing.T) {
	d, err := generic.ParseDate("2025-02-28")
	require.NoError(t, err)
	assert.Equal(t, "2025-02-28", d.String())

	_, err = generic.ParseDate("2025-02-30")
	assert.Error(t, err)

	raw, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2025-02-28"`, string(raw))

	var back generic.TimePoint
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, back.Equal(d))
	assert.Error(t, json.Unmarshal([]byte(`20250228`), &back))
}

func TestDayOf_DropsClockAndZone(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	late := time.Date(2025, time.March, 1, 23, 59, 0, 0, ist)

	assert.Equal(t, "2025-03-01", generic.DayOf(late).String())
}

func TestStaticHolidays(t *testing.T) {
	cal := generic.StaticHolidays{
		{Date: generic.NewTimePoint(2025, time.February, 17), Name: "Founders Day"},
		{Date: generic.NewTimePoint(2020, time.January, 26), Name: "Republic Day", Recurring: true},
	}

	assert.True(t, cal.IsHoliday(generic.NewTimePoint(2025, time.February, 17)))
	assert.False(t, cal.IsHoliday(generic.NewTimePoint(2026, time.February, 17)))
	assert.True(t, cal.IsHoliday(generic.NewTimePoint(2031, time.January, 26)))

	monday := generic.NewTimePoint(2025, time.February, 17)
	tuesday := generic.NewTimePoint(2025, time.February, 18)
	saturday := generic.NewTimePoint(2025, time.February, 22)
	assert.False(t, monday.IsWorkdayWithHolidays(cal))
	assert.True(t, tuesday.IsWorkdayWithHolidays(cal))
	assert.False(t, saturday.IsWorkdayWithHolidays(nil))
}

// =============================================================================
// PERIOD
// =============================================================================

func TestMonthPeriod(t *testing.T) {
	p := generic.MonthPeriod(2024, time.February)

	assert.Equal(t, "2024-02-01", p.Start.String())
	assert.Equal(t, "2024-02-29", p.End.String())
	assert.Equal(t, 29, p.Len())
	assert.Len(t, p.Days(), 29)
	assert.True(t, p.Contains(generic.NewTimePoint(2024, time.February, 29)))
	assert.False(t, p.Contains(generic.NewTimePoint(2024, time.March, 1)))
	assert.NoError(t, p.Validate())
}

func TestPeriod_ValidateRejectsReversedRange(t *testing.T) {
	p := generic.Period{
		Start: generic.NewTimePoint(2025, time.March, 10),
		End:   generic.NewTimePoint(2025, time.March, 1),
	}

	assert.ErrorIs(t, p.Validate(), generic.ErrInvalidPeriod)
}

func TestYearPeriod(t *testing.T) {
	assert.Equal(t, 366, generic.YearPeriod(2024).Len())
	assert.Equal(t, 365, generic.YearPeriod(2025).Len())
}

func TestPreviousMonth(t *testing.T) {
	year, month := generic.PreviousMonth(generic.NewTimePoint(2025, time.March, 10))
	assert.Equal(t, 2025, year)
	assert.Equal(t, time.February, month)

	year, month = generic.PreviousMonth(generic.NewTimePoint(2025, time.January, 1))
	assert.Equal(t, 2024, year)
	assert.Equal(t, time.December, month)
}

// =============================================================================
// ERRORS
// =============================================================================

func TestErrorClassification(t *testing.T) {
	wrapped := fmt.Errorf("employee E1: %w", generic.ErrEntityNotFound)

	assert.True(t, generic.IsNotFound(wrapped))
	assert.False(t, generic.IsClientError(wrapped))
	assert.True(t, generic.IsClientError(fmt.Errorf("bad: %w", generic.ErrNegativeMonetaryInput)))
	assert.True(t, generic.IsClientError(generic.ErrDuplicate))
	assert.False(t, generic.IsClientError(errors.New("disk full")))
}
