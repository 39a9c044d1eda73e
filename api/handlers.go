/*
handlers.go - HTTP API handlers for the payroll engine

PURPOSE:
  Exposes the payroll engine and the records it reads via REST API. Handles
  HTTP request/response, JSON serialization, and delegates every salary
  figure to payroll.Service so all outputs share one algorithm.

ENDPOINTS:
  Employees:
    GET    /api/employees                   List employees (?status=)
    POST   /api/employees                   Create employee
    GET    /api/employees/{id}              Get employee
    PUT    /api/employees/{id}              Replace employee fields
    DELETE /api/employees/{id}              Delete employee
    GET    /api/employees/stats/dashboard   Today's totals (reports.go)

  Attendance:
    GET    /api/attendance                  List (?employee_id=&start_date=&end_date=&status=)
    POST   /api/attendance/mark             Upsert one day
    POST   /api/attendance/bulk-mark        Upsert many, atomically
    GET    /api/attendance/summary/{id}     Status counts over a range
    GET    /api/attendance/recent           Latest marks (?limit=, reports.go)
    DELETE /api/attendance/{id}             Delete one record

  Payments:
    GET    /api/payments                    List (?employee_id=&month=&year=)
    POST   /api/payments                    Record a payment
    GET    /api/payments/summary/{id}       Paid total for one bucket
    GET    /api/payments/{id}               Get payment
    PUT    /api/payments/{id}               Replace payment
    DELETE /api/payments/{id}               Delete payment

  Payroll (payslip.go):
    GET    /api/payslip/{id}                Monthly payslip (?month=&year=)
    GET    /api/payslip/{id}/csv            Monthly payslip as CSV
    GET    /api/payslip/{id}/yearly         Twelve-month rollup (?year=)
    GET    /api/reports/salary              All active employees (?month=&year=&employee_id=)
    GET    /api/reports/salary/xlsx         Same, as a spreadsheet
    GET    /api/reports/analytics           All-employee counts (reports.go)
    GET    /api/reports/attendance/csv      Attendance export (reports.go)

  Holidays:
    GET    /api/holidays                    List (?year=)
    POST   /api/holidays                    Create
    DELETE /api/holidays/{id}               Delete

  Reconciliation:
    GET    /api/reconciliation/runs         Month-close audit log (?status=)
    POST   /api/reconciliation/process      Close a month now
    GET    /api/reconciliation/status       Scheduler state and next run

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Database access
  - Payroll: Fetch-then-compute service over the Store
  - Reconciler: Month-close scheduler (shared with cmd/server)
  - Logger: slog logger for server-side failures

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input (generic.IsClientError)
  - 404: Resource not found (generic.IsNotFound)
  - 409: Conflict (duplicate employee code)
  - 500: Internal errors, logged

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - payslip.go: Payroll outputs
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/warp/payroll-engine/generic"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store      *sqlite.Store
	Payroll    *payroll.Service
	Reconciler *ReconciliationScheduler
	Logger     *slog.Logger

	now func() time.Time
}

// NewHandler creates a handler whose payroll figures use calc.
func NewHandler(store *sqlite.Store, calc payroll.Calculator, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	svc := payroll.NewService(store, calc)
	return &Handler{
		Store:      store,
		Payroll:    svc,
		Reconciler: NewReconciliationScheduler(store, svc, logger),
		Logger:     logger,
		now:        time.Now,
	}
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees, optionally filtered by status.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" && status != sqlite.EmployeeActive && status != sqlite.EmployeeInactive {
		h.fail(w, r, "Invalid status filter", invalidInput("status", status, "must be active or inactive"))
		return
	}

	employees, err := h.Store.ListEmployees(r.Context(), status)
	if err != nil {
		h.fail(w, r, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateEmployee creates a new employee.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req EmployeeRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, "Invalid request body", err)
		return
	}

	emp := sqlite.Employee{}
	if err := applyEmployeeRequest(&emp, req); err != nil {
		h.fail(w, r, "Invalid employee", err)
		return
	}

	if err := h.Store.SaveEmployee(r.Context(), &emp); err != nil {
		h.fail(w, r, "Failed to create employee", err)
		return
	}

	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
}

// GetEmployee returns a single employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.loadEmployee(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(*emp))
}

// UpdateEmployee replaces an employee's editable fields.
func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.loadEmployee(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req EmployeeRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, "Invalid request body", err)
		return
	}
	if err := applyEmployeeRequest(emp, req); err != nil {
		h.fail(w, r, "Invalid employee", err)
		return
	}

	if err := h.Store.SaveEmployee(r.Context(), emp); err != nil {
		h.fail(w, r, "Failed to update employee", err)
		return
	}

	writeJSON(w, http.StatusOK, toEmployeeDTO(*emp))
}

// DeleteEmployee removes an employee with their attendance and payments.
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Store.DeleteEmployee(r.Context(), id); err != nil {
		h.fail(w, r, "Failed to delete employee", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

func applyEmployeeRequest(emp *sqlite.Employee, req EmployeeRequest) error {
	if strings.TrimSpace(req.EmployeeCode) == "" {
		return invalidInput("employee_code", req.EmployeeCode, "is required")
	}
	if strings.TrimSpace(req.FullName) == "" {
		return invalidInput("full_name", req.FullName, "is required")
	}
	if !req.MonthlySalary.Valid {
		return invalidInput("monthly_salary", "", "is required")
	}
	status := req.Status
	if status == "" {
		status = sqlite.EmployeeActive
	}
	if status != sqlite.EmployeeActive && status != sqlite.EmployeeInactive {
		return invalidInput("status", req.Status, "must be active or inactive")
	}

	emp.EmployeeCode = strings.TrimSpace(req.EmployeeCode)
	emp.FullName = strings.TrimSpace(req.FullName)
	emp.MobileNumber = req.MobileNumber
	emp.Type = req.Type
	emp.MonthlySalary = generic.NewMoney(req.MonthlySalary.Decimal)
	emp.Bonus = req.Bonus.NullDecimal
	emp.Status = status

	snap := emp.Snapshot()
	return payroll.ValidateEmployee(&snap)
}

// loadEmployee writes a 404 and returns false when the employee is missing.
func (h *Handler) loadEmployee(w http.ResponseWriter, r *http.Request, id string) (*sqlite.Employee, bool) {
	emp, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		h.fail(w, r, "Failed to get employee", err)
		return nil, false
	}
	if emp == nil {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return nil, false
	}
	return emp, true
}

// =============================================================================
// ATTENDANCE HANDLERS
// =============================================================================

// ListAttendance returns attendance records matching the query filters.
func (h *Handler) ListAttendance(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := sqlite.AttendanceFilter{EmployeeID: q.Get("employee_id")}

	var err error
	if filter.From, err = optionalDate(q.Get("start_date"), "start_date"); err != nil {
		h.fail(w, r, "Invalid start_date", err)
		return
	}
	if filter.To, err = optionalDate(q.Get("end_date"), "end_date"); err != nil {
		h.fail(w, r, "Invalid end_date", err)
		return
	}
	if s := q.Get("status"); s != "" {
		if filter.Status, err = payroll.ParseAttendanceStatus(s); err != nil {
			h.fail(w, r, "Invalid status", err)
			return
		}
	}

	records, err := h.Store.ListAttendance(r.Context(), filter)
	if err != nil {
		h.fail(w, r, "Failed to list attendance", err)
		return
	}

	dtos := make([]AttendanceDTO, len(records))
	for i, rec := range records {
		dtos[i] = toAttendanceDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// MarkAttendance records one day's status, replacing any earlier mark.
func (h *Handler) MarkAttendance(w http.ResponseWriter, r *http.Request) {
	var req MarkAttendanceRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, "Invalid request body", err)
		return
	}

	rec, err := attendanceFromRequest(req, "")
	if err != nil {
		h.fail(w, r, "Invalid attendance", err)
		return
	}

	if err := h.Store.MarkAttendance(r.Context(), &rec); err != nil {
		h.fail(w, r, "Failed to mark attendance", err)
		return
	}

	writeJSON(w, http.StatusOK, toAttendanceDTO(rec))
}

// BulkMarkAttendance marks many records in one transaction.
func (h *Handler) BulkMarkAttendance(w http.ResponseWriter, r *http.Request) {
	var req BulkMarkRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, "Invalid request body", err)
		return
	}
	if len(req.Records) == 0 {
		h.fail(w, r, "Invalid attendance", invalidInput("records", nil, "must not be empty"))
		return
	}

	records := make([]payroll.AttendanceRecord, len(req.Records))
	for i, item := range req.Records {
		rec, err := attendanceFromRequest(item, req.Date)
		if err != nil {
			h.fail(w, r, fmt.Sprintf("Invalid attendance at index %d", i), err)
			return
		}
		records[i] = rec
	}

	if err := h.Store.MarkAttendanceBatch(r.Context(), records); err != nil {
		h.fail(w, r, "Failed to mark attendance", err)
		return
	}

	dtos := make([]AttendanceDTO, len(records))
	for i, rec := range records {
		dtos[i] = toAttendanceDTO(rec)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"marked":  len(dtos),
		"records": dtos,
	})
}

// DeleteAttendance removes one attendance record.
func (h *Handler) DeleteAttendance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Store.DeleteAttendance(r.Context(), id); err != nil {
		h.fail(w, r, "Failed to delete attendance", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

func attendanceFromRequest(req MarkAttendanceRequest, defaultDate string) (payroll.AttendanceRecord, error) {
	if req.EmployeeID == "" {
		return payroll.AttendanceRecord{}, invalidInput("employee_id", "", "is required")
	}
	dateStr := req.Date
	if dateStr == "" {
		dateStr = defaultDate
	}
	date, err := requiredDate(dateStr, "date")
	if err != nil {
		return payroll.AttendanceRecord{}, err
	}
	status, err := payroll.ParseAttendanceStatus(req.Status)
	if err != nil {
		return payroll.AttendanceRecord{}, err
	}

	rec := payroll.AttendanceRecord{
		EmployeeID: req.EmployeeID,
		Date:       date,
		Status:     status,
		Note:       req.Note,
	}
	return rec, payroll.ValidateAttendance(rec)
}

// =============================================================================
// PAYMENT HANDLERS
// =============================================================================

// ListPayments returns payments matching the query filters.
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := sqlite.PaymentFilter{EmployeeID: q.Get("employee_id")}

	if s := q.Get("month"); s != "" {
		m, err := parseMonth(s)
		if err != nil {
			h.fail(w, r, "Invalid month", err)
			return
		}
		filter.Month = m
	}
	if s := q.Get("year"); s != "" {
		y, err := parseYear(s)
		if err != nil {
			h.fail(w, r, "Invalid year", err)
			return
		}
		filter.Year = y
	}

	payments, err := h.Store.ListPayments(r.Context(), filter)
	if err != nil {
		h.fail(w, r, "Failed to list payments", err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentDTOs(payments))
}

// CreatePayment records a disbursement against a payroll bucket.
func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req PaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, "Invalid request body", err)
		return
	}

	p, err := paymentFromRequest(req)
	if err != nil {
		h.fail(w, r, "Invalid payment", err)
		return
	}

	if err := h.Store.SavePayment(r.Context(), &p); err != nil {
		h.fail(w, r, "Failed to record payment", err)
		return
	}

	writeJSON(w, http.StatusCreated, toPaymentDTO(p))
}

// GetPayment returns a single payment.
func (h *Handler) GetPayment(w http.ResponseWriter, r *http.Request) {
	p, err := h.Store.GetPayment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "Failed to get payment", err)
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "Payment not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentDTO(*p))
}

// UpdatePayment replaces a payment's amount, date, tag and remarks.
func (h *Handler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	existing, err := h.Store.GetPayment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "Failed to get payment", err)
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Payment not found", nil)
		return
	}

	var req PaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, "Invalid request body", err)
		return
	}
	req.EmployeeID = existing.EmployeeID

	p, err := paymentFromRequest(req)
	if err != nil {
		h.fail(w, r, "Invalid payment", err)
		return
	}
	p.ID = existing.ID

	if err := h.Store.SavePayment(r.Context(), &p); err != nil {
		h.fail(w, r, "Failed to update payment", err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentDTO(p))
}

// DeletePayment removes a payment.
func (h *Handler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Store.DeletePayment(r.Context(), id); err != nil {
		h.fail(w, r, "Failed to delete payment", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

func paymentFromRequest(req PaymentRequest) (payroll.Payment, error) {
	if req.EmployeeID == "" {
		return payroll.Payment{}, invalidInput("employee_id", "", "is required")
	}
	date, err := requiredDate(req.PaymentDate, "payment_date")
	if err != nil {
		return payroll.Payment{}, err
	}

	p := payroll.Payment{
		EmployeeID:  req.EmployeeID,
		Amount:      generic.NewMoney(req.Amount),
		PaymentDate: date,
		Month:       time.Month(req.Month),
		Year:        req.Year,
		Remarks:     req.Remarks,
	}
	if req.Month == 0 && req.Year == 0 {
		p.Month, p.Year = date.Month(), date.Year()
	}
	return p, payroll.ValidatePayment(p)
}

// =============================================================================
// HOLIDAY HANDLERS
// =============================================================================

// ListHolidays returns holidays, optionally resolved into one year.
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	year := 0
	if s := r.URL.Query().Get("year"); s != "" {
		y, err := parseYear(s)
		if err != nil {
			h.fail(w, r, "Invalid year", err)
			return
		}
		year = y
	}

	holidays, err := h.Store.ListHolidays(r.Context(), year)
	if err != nil {
		h.fail(w, r, "Failed to list holidays", err)
		return
	}

	dtos := make([]HolidayDTO, len(holidays))
	for i, hol := range holidays {
		dtos[i] = HolidayDTO{ID: hol.ID, Date: hol.Date.String(), Name: hol.Name, Recurring: hol.Recurring}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateHoliday adds a holiday.
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req HolidayRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, "Invalid request body", err)
		return
	}
	date, err := requiredDate(req.Date, "date")
	if err != nil {
		h.fail(w, r, "Invalid holiday", err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		h.fail(w, r, "Invalid holiday", invalidInput("name", req.Name, "is required"))
		return
	}

	hol := generic.Holiday{Date: date, Name: strings.TrimSpace(req.Name), Recurring: req.Recurring}
	if err := h.Store.SaveHoliday(r.Context(), &hol); err != nil {
		h.fail(w, r, "Failed to create holiday", err)
		return
	}
	writeJSON(w, http.StatusCreated, HolidayDTO{ID: hol.ID, Date: hol.Date.String(), Name: hol.Name, Recurring: hol.Recurring})
}

// DeleteHoliday removes a holiday.
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Store.DeleteHoliday(r.Context(), id); err != nil {
		h.fail(w, r, "Failed to delete holiday", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
}

// =============================================================================
// RECONCILIATION ENDPOINTS
// =============================================================================

// ListReconciliationRuns returns the month-close audit log.
func (h *Handler) ListReconciliationRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.Store.GetReconciliationRuns(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		h.fail(w, r, "Failed to get reconciliation runs", err)
		return
	}

	dtos := make([]ReconciliationRunDTO, len(runs))
	for i, run := range runs {
		dtos[i] = toReconciliationRunDTO(run)
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": dtos})
}

// ProcessReconciliation closes a month immediately. An empty body closes
// the previous calendar month.
func (h *Handler) ProcessReconciliation(w http.ResponseWriter, r *http.Request) {
	var req ProcessReconciliationRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.fail(w, r, "Invalid request body", err)
		return
	}

	var summary MonthCloseSummary
	var err error
	if req.Month == 0 && req.Year == 0 {
		summary, err = h.Reconciler.RunNow(r.Context())
	} else {
		month, year := time.Month(req.Month), req.Year
		if err := payroll.ValidatePeriod(month, year); err != nil {
			h.fail(w, r, "Invalid period", err)
			return
		}
		summary, err = h.Reconciler.CloseMonth(r.Context(), month, year)
	}
	if err != nil {
		h.fail(w, r, "Failed to process reconciliation", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// GetReconciliationStatus reports the scheduler state and next run.
func (h *Handler) GetReconciliationStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toSchedulerStatusDTO(h.Reconciler.Status()))
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// fail maps err to a status code and writes it. Server-side failures are logged.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, message string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.Logger.ErrorContext(r.Context(), message,
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
	}
	writeError(w, status, message, err)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, generic.ErrDuplicate):
		return http.StatusConflict
	case generic.IsNotFound(err):
		return http.StatusNotFound
	case generic.IsClientError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body: %w", generic.ErrInvalidInput, err)
		}
		return fmt.Errorf("%w: %v", generic.ErrInvalidInput, err)
	}
	return nil
}

func invalidInput(field string, value any, reason string) error {
	return &payroll.InputError{Kind: generic.ErrInvalidInput, Field: field, Value: value, Reason: reason}
}

func requiredDate(s, field string) (generic.TimePoint, error) {
	if s == "" {
		return generic.TimePoint{}, invalidInput(field, "", "is required")
	}
	return optionalDate(s, field)
}

func optionalDate(s, field string) (generic.TimePoint, error) {
	if s == "" {
		return generic.TimePoint{}, nil
	}
	d, err := generic.ParseDate(s)
	if err != nil {
		return generic.TimePoint{}, invalidInput(field, s, "must be YYYY-MM-DD")
	}
	return d, nil
}

func parseMonth(s string) (time.Month, error) {
	m, err := strconv.Atoi(s)
	if err != nil || m < 1 || m > 12 {
		return 0, &payroll.InputError{Kind: generic.ErrInvalidPeriod, Field: "month", Value: s, Reason: "must be between 1 and 12"}
	}
	return time.Month(m), nil
}

func parseYear(s string) (int, error) {
	y, err := strconv.Atoi(s)
	if err != nil {
		return 0, &payroll.InputError{Kind: generic.ErrInvalidPeriod, Field: "year", Value: s, Reason: "must be a number"}
	}
	return y, payroll.ValidateYear(y)
}

// monthYearQuery reads the required ?month=&year= pair.
func monthYearQuery(r *http.Request) (time.Month, int, error) {
	q := r.URL.Query()
	if q.Get("month") == "" || q.Get("year") == "" {
		return 0, 0, &payroll.InputError{Kind: generic.ErrInvalidPeriod, Reason: "month and year are required"}
	}
	month, err := parseMonth(q.Get("month"))
	if err != nil {
		return 0, 0, err
	}
	year, err := parseYear(q.Get("year"))
	if err != nil {
		return 0, 0, err
	}
	return month, year, nil
}
