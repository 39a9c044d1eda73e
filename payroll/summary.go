package payroll

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/generic"
)

// AttendanceSummary counts statuses over an arbitrary date range.
type AttendanceSummary struct {
	Total     int
	Present   int
	Absent    int
	HalfDay   int
	PaidLeave int

	// (present + paid leave + 0.5 * half days) / total * 100, two places.
	// Zero when there are no records.
	PresentPercentage decimal.Decimal
}

// SummarizeAttendance folds records with the same counting rules as the
// Accumulator, so percentages agree with effective working days.
func SummarizeAttendance(records []AttendanceRecord) AttendanceSummary {
	var acc Accumulator
	for _, r := range records {
		// Stored statuses are validated on write; an unknown one is not counted.
		_ = acc.Add(r.Status)
	}

	summary := AttendanceSummary{
		Total:             acc.Records(),
		Present:           acc.PresentDays,
		Absent:            acc.AbsentDays,
		HalfDay:           acc.HalfDays,
		PaidLeave:         acc.PaidLeaveDays,
		PresentPercentage: decimal.Zero,
	}
	if summary.Total > 0 {
		summary.PresentPercentage = acc.EffectiveWorkingDays().
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(int64(summary.Total))).
			Round(generic.DisplayPlaces)
	}
	return summary
}

// DayCount is the status tally for one calendar date across employees.
type DayCount struct {
	Date      generic.TimePoint
	Present   int
	Absent    int
	HalfDay   int
	PaidLeave int
}

// DailyBreakdown tallies records per date, ordered by date. Dates with no
// records are omitted.
func DailyBreakdown(records []AttendanceRecord) []DayCount {
	byDate := make(map[string]*DayCount)
	for _, r := range records {
		key := r.Date.String()
		day, ok := byDate[key]
		if !ok {
			day = &DayCount{Date: r.Date}
			byDate[key] = day
		}
		switch r.Status {
		case StatusPresent:
			day.Present++
		case StatusAbsent:
			day.Absent++
		case StatusHalfDay:
			day.HalfDay++
		case StatusPaidLeave:
			day.PaidLeave++
		}
	}

	keys := make([]string, 0, len(byDate))
	for k := range byDate {
		keys = append(keys, k)
	}
	sort.Strings(keys) // YYYY-MM-DD sorts chronologically

	out := make([]DayCount, len(keys))
	for i, k := range keys {
		out[i] = *byDate[k]
	}
	return out
}
