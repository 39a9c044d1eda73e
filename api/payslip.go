package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/warp/payroll-engine/generic"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/store/sqlite"
)

// =============================================================================
// PAYSLIP ENDPOINTS
// =============================================================================

// GetPayslip returns the monthly payslip for one employee.
func (h *Handler) GetPayslip(w http.ResponseWriter, r *http.Request) {
	emp, result, ok := h.monthlyFor(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toPayslipDTO(*emp, result, h.now()))
}

// GetPayslipCSV returns the monthly payslip as line items.
func (h *Handler) GetPayslipCSV(w http.ResponseWriter, r *http.Request) {
	emp, result, ok := h.monthlyFor(w, r)
	if !ok {
		return
	}

	filename := fmt.Sprintf("payslip_%s_%d-%02d.csv", emp.EmployeeCode, result.Year, int(result.Month))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.WriteHeader(http.StatusOK)

	if err := writePayslipCSV(w, toPayslipDTO(*emp, result, h.now())); err != nil {
		// Headers are gone; all that is left is to record it.
		h.Logger.ErrorContext(r.Context(), "Failed to write payslip CSV", "error", err)
	}
}

// GetYearlyPayslip returns the twelve-month rollup for one employee.
func (h *Handler) GetYearlyPayslip(w http.ResponseWriter, r *http.Request) {
	yearStr := r.URL.Query().Get("year")
	if yearStr == "" {
		h.fail(w, r, "Please provide year", &payroll.InputError{Kind: generic.ErrInvalidPeriod, Field: "year", Value: "", Reason: "is required"})
		return
	}
	year, err := parseYear(yearStr)
	if err != nil {
		h.fail(w, r, "Invalid year", err)
		return
	}

	emp, ok := h.loadEmployee(w, r, chi.URLParam(r, "employeeID"))
	if !ok {
		return
	}

	result, err := h.Payroll.Yearly(r.Context(), emp.ID, year)
	if err != nil {
		h.fail(w, r, "Failed to compute yearly payroll", err)
		return
	}
	writeJSON(w, http.StatusOK, toYearlyPayslipDTO(*emp, result, h.now()))
}

// monthlyFor parses ?month=&year=, loads the employee and computes the
// month. On failure the response is already written.
func (h *Handler) monthlyFor(w http.ResponseWriter, r *http.Request) (*sqlite.Employee, payroll.MonthlyResult, bool) {
	month, year, err := monthYearQuery(r)
	if err != nil {
		h.fail(w, r, "Please provide month and year", err)
		return nil, payroll.MonthlyResult{}, false
	}

	emp, ok := h.loadEmployee(w, r, chi.URLParam(r, "employeeID"))
	if !ok {
		return nil, payroll.MonthlyResult{}, false
	}

	result, err := h.Payroll.Monthly(r.Context(), emp.ID, month, year)
	if err != nil {
		h.fail(w, r, "Failed to compute payroll", err)
		return nil, payroll.MonthlyResult{}, false
	}
	return emp, result, true
}

// =============================================================================
// SALARY REPORT
// =============================================================================

// GetSalaryReport returns one row per active employee for a month.
func (h *Handler) GetSalaryReport(w http.ResponseWriter, r *http.Request) {
	report, ok := h.salaryReportFor(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// GetSalaryReportXLSX returns the salary report as a spreadsheet.
func (h *Handler) GetSalaryReportXLSX(w http.ResponseWriter, r *http.Request) {
	report, ok := h.salaryReportFor(w, r)
	if !ok {
		return
	}

	f, err := buildSalaryReportXLSX(report, h.now())
	if err != nil {
		h.fail(w, r, "Failed to build spreadsheet", err)
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("salary_report_%d-%02d.xlsx", report.Year, report.Month)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.WriteHeader(http.StatusOK)

	if err := f.Write(w); err != nil {
		h.Logger.ErrorContext(r.Context(), "Failed to write salary report", "error", err)
	}
}

func (h *Handler) salaryReportFor(w http.ResponseWriter, r *http.Request) (SalaryReportDTO, bool) {
	month, year, err := monthYearQuery(r)
	if err != nil {
		h.fail(w, r, "Please provide month and year", err)
		return SalaryReportDTO{}, false
	}

	report, err := h.salaryReport(r.Context(), month, year, r.URL.Query().Get("employee_id"))
	if err != nil {
		h.fail(w, r, "Failed to build salary report", err)
		return SalaryReportDTO{}, false
	}
	return report, true
}

// salaryReport computes every active employee (or just employeeID) through
// the same Service as the payslip. Payments are matched by their month/year
// tag. Totals are summed at full precision, then rounded.
func (h *Handler) salaryReport(ctx context.Context, month time.Month, year int, employeeID string) (SalaryReportDTO, error) {
	var employees []sqlite.Employee
	if employeeID != "" {
		emp, err := h.Store.GetEmployee(ctx, employeeID)
		if err != nil {
			return SalaryReportDTO{}, err
		}
		if emp == nil {
			return SalaryReportDTO{}, fmt.Errorf("employee %s: %w", employeeID, generic.ErrEntityNotFound)
		}
		employees = append(employees, *emp)
	} else {
		var err error
		employees, err = h.Store.ListEmployees(ctx, sqlite.EmployeeActive)
		if err != nil {
			return SalaryReportDTO{}, err
		}
	}

	report := SalaryReportDTO{
		Month:     int(month),
		MonthName: month.String(),
		Year:      year,
		Rows:      make([]SalaryReportRowDTO, 0, len(employees)),
	}
	net, paid, pending := generic.ZeroMoney(), generic.ZeroMoney(), generic.ZeroMoney()
	for _, emp := range employees {
		result, err := h.Payroll.Monthly(ctx, emp.ID, month, year)
		if err != nil {
			return SalaryReportDTO{}, fmt.Errorf("employee %s: %w", emp.EmployeeCode, err)
		}
		report.Rows = append(report.Rows, toSalaryReportRow(emp, result))
		net = net.Add(result.NetSalary)
		paid = paid.Add(result.TotalPaid)
		pending = pending.Add(result.PendingBalance)
	}
	report.TotalNet = net.Round2()
	report.TotalPaid = paid.Round2()
	report.TotalPending = pending.Round2()
	return report, nil
}

// =============================================================================
// SUMMARIES
// =============================================================================

// GetPaymentSummary returns the payments tagged to one (employee, month, year).
func (h *Handler) GetPaymentSummary(w http.ResponseWriter, r *http.Request) {
	month, year, err := monthYearQuery(r)
	if err != nil {
		h.fail(w, r, "Please provide month and year", err)
		return
	}
	employeeID := chi.URLParam(r, "employeeID")
	if _, ok := h.loadEmployee(w, r, employeeID); !ok {
		return
	}

	payments, err := h.Store.PaymentsForMonth(r.Context(), employeeID, month, year)
	if err != nil {
		h.fail(w, r, "Failed to load payments", err)
		return
	}
	tally := payroll.TallyPayments(employeeID, month, year, payments)

	writeJSON(w, http.StatusOK, PaymentSummaryDTO{
		EmployeeID:   employeeID,
		Month:        int(month),
		Year:         year,
		Payments:     toPaymentDTOs(tally.Matched),
		TotalPaid:    tally.TotalPaid.Round2(),
		PaymentCount: len(tally.Matched),
	})
}

// GetAttendanceSummary counts statuses between start_date and end_date
// (inclusive). Both default to the current month.
func (h *Handler) GetAttendanceSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	today := generic.DayOf(h.now())
	period := generic.MonthPeriod(today.Year(), today.Month())

	if s := q.Get("start_date"); s != "" {
		d, err := optionalDate(s, "start_date")
		if err != nil {
			h.fail(w, r, "Invalid start_date", err)
			return
		}
		period.Start = d
	}
	if s := q.Get("end_date"); s != "" {
		d, err := optionalDate(s, "end_date")
		if err != nil {
			h.fail(w, r, "Invalid end_date", err)
			return
		}
		period.End = d
	}
	if err := period.Validate(); err != nil {
		h.fail(w, r, "Invalid date range", err)
		return
	}

	employeeID := chi.URLParam(r, "employeeID")
	if _, ok := h.loadEmployee(w, r, employeeID); !ok {
		return
	}

	records, err := h.Store.AttendanceInRange(r.Context(), employeeID, period)
	if err != nil {
		h.fail(w, r, "Failed to load attendance", err)
		return
	}
	s := payroll.SummarizeAttendance(records)

	writeJSON(w, http.StatusOK, AttendanceSummaryDTO{
		EmployeeID:        employeeID,
		StartDate:         period.Start.String(),
		EndDate:           period.End.String(),
		Total:             s.Total,
		Present:           s.Present,
		Absent:            s.Absent,
		HalfDay:           s.HalfDay,
		PaidLeave:         s.PaidLeave,
		PresentPercentage: s.PresentPercentage.StringFixed(generic.DisplayPlaces),
	})
}
