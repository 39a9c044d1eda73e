package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/warp/payroll-engine/generic"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/store/sqlite"
)

// Recent activity page size.
const (
	defaultRecentLimit = 10
	maxRecentLimit     = 100
)

// =============================================================================
// DASHBOARD
// =============================================================================

// GetEmployeeStats returns today's headline counts over active employees.
// Anyone not marked present, half-day or paid-leave today counts as absent.
func (h *Handler) GetEmployeeStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	today := generic.DayOf(h.now())

	employees, err := h.Store.ListEmployees(ctx, sqlite.EmployeeActive)
	if err != nil {
		h.fail(w, r, "Failed to list employees", err)
		return
	}
	active := make(map[string]bool, len(employees))
	for _, emp := range employees {
		active[emp.ID] = true
	}

	records, err := h.Store.ListAttendance(ctx, sqlite.AttendanceFilter{From: today, To: today})
	if err != nil {
		h.fail(w, r, "Failed to list attendance", err)
		return
	}

	stats := EmployeeStatsDTO{Date: today.String(), TotalEmployees: len(employees)}
	for _, rec := range records {
		if !active[rec.EmployeeID] {
			continue
		}
		stats.MarkedToday++
		switch rec.Status {
		case payroll.StatusPresent, payroll.StatusHalfDay:
			stats.PresentToday++
		case payroll.StatusPaidLeave:
			stats.OnLeaveToday++
		}
	}
	stats.AbsentToday = stats.TotalEmployees - stats.PresentToday - stats.OnLeaveToday

	writeJSON(w, http.StatusOK, stats)
}

// GetRecentActivity returns the most recently marked attendance (?limit=).
func (h *Handler) GetRecentActivity(w http.ResponseWriter, r *http.Request) {
	limit := defaultRecentLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > maxRecentLimit {
			h.fail(w, r, "Invalid limit", invalidInput("limit", s, fmt.Sprintf("must be between 1 and %d", maxRecentLimit)))
			return
		}
		limit = n
	}

	entries, err := h.Store.RecentAttendance(r.Context(), limit)
	if err != nil {
		h.fail(w, r, "Failed to load recent activity", err)
		return
	}

	dtos := make([]AttendanceActivityDTO, len(entries))
	for i, e := range entries {
		dtos[i] = toAttendanceActivityDTO(e)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":   len(dtos),
		"records": dtos,
	})
}

// =============================================================================
// ATTENDANCE REPORTS
// =============================================================================

// GetAnalytics counts statuses across all employees (?start_date=&end_date=,
// both optional) and breaks them down per day.
func (h *Handler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	filter, ok := h.attendanceRangeFilter(w, r)
	if !ok {
		return
	}

	employees, err := h.Store.ListEmployees(ctx, sqlite.EmployeeActive)
	if err != nil {
		h.fail(w, r, "Failed to list employees", err)
		return
	}
	records, err := h.Store.ListAttendance(ctx, filter)
	if err != nil {
		h.fail(w, r, "Failed to list attendance", err)
		return
	}

	s := payroll.SummarizeAttendance(records)
	out := AnalyticsDTO{
		Overview: AnalyticsOverviewDTO{
			TotalRecords:      s.Total,
			Present:           s.Present,
			Absent:            s.Absent,
			HalfDay:           s.HalfDay,
			PaidLeave:         s.PaidLeave,
			TotalEmployees:    len(employees),
			PresentPercentage: s.PresentPercentage.StringFixed(generic.DisplayPlaces),
		},
		DailyBreakdown: []DailyBreakdownDTO{},
	}
	if !filter.From.IsZero() {
		out.StartDate = filter.From.String()
	}
	if !filter.To.IsZero() {
		out.EndDate = filter.To.String()
	}
	for _, day := range payroll.DailyBreakdown(records) {
		out.DailyBreakdown = append(out.DailyBreakdown, DailyBreakdownDTO{
			Date:      day.Date.String(),
			Present:   day.Present,
			Absent:    day.Absent,
			HalfDay:   day.HalfDay,
			PaidLeave: day.PaidLeave,
		})
	}

	writeJSON(w, http.StatusOK, out)
}

// GetAttendanceCSV exports attendance with employee details
// (?employee_id=&start_date=&end_date=). 404 when nothing matches.
func (h *Handler) GetAttendanceCSV(w http.ResponseWriter, r *http.Request) {
	filter, ok := h.attendanceRangeFilter(w, r)
	if !ok {
		return
	}
	filter.EmployeeID = r.URL.Query().Get("employee_id")

	entries, err := h.Store.ListAttendanceEntries(r.Context(), filter)
	if err != nil {
		h.fail(w, r, "Failed to list attendance", err)
		return
	}
	if len(entries) == 0 {
		writeError(w, http.StatusNotFound, "No attendance records found for the specified criteria", nil)
		return
	}

	filename := fmt.Sprintf("attendance_report_%s.csv", generic.DayOf(h.now()).String())
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.WriteHeader(http.StatusOK)

	if err := writeAttendanceCSV(w, entries); err != nil {
		h.Logger.ErrorContext(r.Context(), "Failed to write attendance CSV", "error", err)
	}
}

// attendanceRangeFilter reads optional start_date/end_date and rejects a
// reversed range.
func (h *Handler) attendanceRangeFilter(w http.ResponseWriter, r *http.Request) (sqlite.AttendanceFilter, bool) {
	q := r.URL.Query()
	var filter sqlite.AttendanceFilter
	var err error
	if filter.From, err = optionalDate(q.Get("start_date"), "start_date"); err != nil {
		h.fail(w, r, "Invalid start_date", err)
		return filter, false
	}
	if filter.To, err = optionalDate(q.Get("end_date"), "end_date"); err != nil {
		h.fail(w, r, "Invalid end_date", err)
		return filter, false
	}
	if !filter.From.IsZero() && !filter.To.IsZero() {
		if err := (generic.Period{Start: filter.From, End: filter.To}).Validate(); err != nil {
			h.fail(w, r, "Invalid date range", err)
			return filter, false
		}
	}
	return filter, true
}
