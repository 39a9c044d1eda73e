package payroll

import (
	"fmt"
	"time"

	"github.com/warp/payroll-engine/generic"
)

// =============================================================================
// PERIOD CALENDAR
// =============================================================================

// CalendarMonth holds the calendar facts for one Gregorian month.
type CalendarMonth struct {
	Year      int
	Month     time.Month
	TotalDays int
	Period    generic.Period // [1st, last day], used to filter attendance
}

// MonthCalendar computes the day count and inclusive date range of a month.
func MonthCalendar(year int, month time.Month) (CalendarMonth, error) {
	if err := ValidatePeriod(month, year); err != nil {
		return CalendarMonth{}, err
	}
	return CalendarMonth{
		Year:      year,
		Month:     month,
		TotalDays: generic.DaysInMonth(year, month),
		Period:    generic.MonthPeriod(year, month),
	}, nil
}

// =============================================================================
// WORKING DAY POLICY
// =============================================================================

// WorkingDayPolicy decides the divisor used to derive the per-day rate.
type WorkingDayPolicy interface {
	Name() string
	WorkingDays(cal CalendarMonth) int
}

const (
	PolicyCalendarDays = "calendar"
	PolicyWeekdays     = "weekdays"
)

// CalendarDaysPolicy counts every calendar day, weekends and holidays
// included. This is the default.
type CalendarDaysPolicy struct{}

func (CalendarDaysPolicy) Name() string                      { return PolicyCalendarDays }
func (CalendarDaysPolicy) WorkingDays(cal CalendarMonth) int { return cal.TotalDays }

// WeekdaysPolicy counts Monday-Friday, minus holidays when a calendar is set.
type WeekdaysPolicy struct {
	Holidays generic.HolidayCalendar
}

func (WeekdaysPolicy) Name() string { return PolicyWeekdays }

func (p WeekdaysPolicy) WorkingDays(cal CalendarMonth) int {
	n := 0
	for _, day := range cal.Period.Days() {
		if day.IsWorkdayWithHolidays(p.Holidays) {
			n++
		}
	}
	// A holiday calendar that blanks the whole month still needs a divisor.
	if n == 0 {
		return 1
	}
	return n
}

// PolicyByName resolves a configured policy name. Empty means calendar days.
func PolicyByName(name string, holidays generic.HolidayCalendar) (WorkingDayPolicy, error) {
	switch name {
	case "", PolicyCalendarDays:
		return CalendarDaysPolicy{}, nil
	case PolicyWeekdays:
		return WeekdaysPolicy{Holidays: holidays}, nil
	default:
		return nil, fmt.Errorf("unknown working day policy %q", name)
	}
}
