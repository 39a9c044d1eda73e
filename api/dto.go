/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the payroll domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Employee:       EmployeeDTO, EmployeeRequest
  Attendance:     AttendanceDTO, MarkAttendanceRequest, BulkMarkRequest, AttendanceSummaryDTO
  Payment:        PaymentDTO, PaymentRequest, PaymentSummaryDTO
  Payslip:        PayslipDTO, YearlyPayslipDTO
  Report:         SalaryReportDTO, AnalyticsDTO
  Dashboard:      EmployeeStatsDTO, AttendanceActivityDTO
  Reconciliation: ReconciliationRunDTO, SchedulerStatusDTO

MONEY:
  generic.Money marshals as a fixed two-place string ("21428.57"). Every
  DTO is built from MonthlyResult.Rounded(), so JSON, CSV and XLSX agree.

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - payroll/calculator.go: MonthlyResult
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/generic"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/store/sqlite"
)

// =============================================================================
// EMPLOYEES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID            string         `json:"id"`
	EmployeeCode  string         `json:"employee_code"`
	FullName      string         `json:"full_name"`
	MobileNumber  string         `json:"mobile_number,omitempty"`
	Type          string         `json:"type,omitempty"`
	MonthlySalary generic.Money  `json:"monthly_salary"`
	Bonus         *generic.Money `json:"bonus"`
	Status        string         `json:"status"`
	CreatedAt     string         `json:"created_at,omitempty"`
	UpdatedAt     string         `json:"updated_at,omitempty"`
}

// EmployeeRequest creates or updates an employee. Salary and bonus accept a
// number, a numeric string, "" or null. A blank bonus means no bonus; a
// blank salary is rejected.
type EmployeeRequest struct {
	EmployeeCode  string          `json:"employee_code"`
	FullName      string          `json:"full_name"`
	MobileNumber  string          `json:"mobile_number"`
	Type          string          `json:"type"`
	MonthlySalary optionalDecimal `json:"monthly_salary"`
	Bonus         optionalDecimal `json:"bonus"`
	Status        string          `json:"status"`
}

func toEmployeeDTO(e sqlite.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		ID:            e.ID,
		EmployeeCode:  e.EmployeeCode,
		FullName:      e.FullName,
		MobileNumber:  e.MobileNumber,
		Type:          e.Type,
		MonthlySalary: e.MonthlySalary.Round2(),
		Status:        e.Status,
		CreatedAt:     e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     e.UpdatedAt.Format(time.RFC3339),
	}
	if e.Bonus.Valid {
		b := generic.NewMoney(e.Bonus.Decimal).Round2()
		dto.Bonus = &b
	}
	return dto
}

// optionalDecimal unmarshals a nullable amount leniently. An absent field
// stays invalid.
type optionalDecimal struct {
	decimal.NullDecimal
}

func (o *optionalDecimal) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		o.NullDecimal = decimal.NullDecimal{}
		return nil
	}
	return o.NullDecimal.UnmarshalJSON(data)
}

// =============================================================================
// ATTENDANCE
// =============================================================================

// AttendanceDTO represents one attendance record.
type AttendanceDTO struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	Status     string `json:"status"`
	Note       string `json:"note,omitempty"`
}

// MarkAttendanceRequest marks one day. An existing record for the same
// employee and date is overwritten.
type MarkAttendanceRequest struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	Status     string `json:"status"`
	Note       string `json:"note"`
}

// BulkMarkRequest marks one date for many employees.
type BulkMarkRequest struct {
	Date    string                  `json:"date"`
	Records []MarkAttendanceRequest `json:"records"`
}

func toAttendanceDTO(r payroll.AttendanceRecord) AttendanceDTO {
	return AttendanceDTO{
		ID:         r.ID,
		EmployeeID: r.EmployeeID,
		Date:       r.Date.String(),
		Status:     string(r.Status),
		Note:       r.Note,
	}
}

// AttendanceSummaryDTO counts statuses over a date range.
type AttendanceSummaryDTO struct {
	EmployeeID        string `json:"employee_id"`
	StartDate         string `json:"start_date"`
	EndDate           string `json:"end_date"`
	Total             int    `json:"total"`
	Present           int    `json:"present"`
	Absent            int    `json:"absent"`
	HalfDay           int    `json:"half_day"`
	PaidLeave         int    `json:"paid_leave"`
	PresentPercentage string `json:"present_percentage"`
}

// =============================================================================
// PAYMENTS
// =============================================================================

// PaymentDTO represents a payment.
type PaymentDTO struct {
	ID          string        `json:"id"`
	EmployeeID  string        `json:"employee_id"`
	Amount      generic.Money `json:"amount"`
	PaymentDate string        `json:"payment_date"`
	Month       int           `json:"month"`
	Year        int           `json:"year"`
	Remarks     string        `json:"remarks,omitempty"`
}

// PaymentRequest records a payment. Month and Year tag the payroll bucket
// and default to the payment date's month when omitted.
type PaymentRequest struct {
	EmployeeID  string          `json:"employee_id"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate string          `json:"payment_date"`
	Month       int             `json:"month"`
	Year        int             `json:"year"`
	Remarks     string          `json:"remarks"`
}

func toPaymentDTO(p payroll.Payment) PaymentDTO {
	return PaymentDTO{
		ID:          p.ID,
		EmployeeID:  p.EmployeeID,
		Amount:      p.Amount.Round2(),
		PaymentDate: p.PaymentDate.String(),
		Month:       int(p.Month),
		Year:        p.Year,
		Remarks:     p.Remarks,
	}
}

func toPaymentDTOs(payments []payroll.Payment) []PaymentDTO {
	dtos := make([]PaymentDTO, len(payments))
	for i, p := range payments {
		dtos[i] = toPaymentDTO(p)
	}
	return dtos
}

// PaymentSummaryDTO is the reconciler's view of one bucket.
type PaymentSummaryDTO struct {
	EmployeeID   string        `json:"employee_id"`
	Month        int           `json:"month"`
	Year         int           `json:"year"`
	Payments     []PaymentDTO  `json:"payments"`
	TotalPaid    generic.Money `json:"total_paid"`
	PaymentCount int           `json:"payment_count"`
}

// =============================================================================
// PAYSLIP
// =============================================================================

// PayslipDTO is the monthly payslip.
type PayslipDTO struct {
	Employee       PayslipEmployeeDTO   `json:"employee"`
	Period         PayslipPeriodDTO     `json:"period"`
	Attendance     PayslipAttendanceDTO `json:"attendance"`
	Salary         PayslipSalaryDTO     `json:"salary"`
	Deductions     PayslipDeductionsDTO `json:"deductions"`
	NetSalary      generic.Money        `json:"net_salary"`
	Payments       []PaymentDTO         `json:"payments"`
	TotalPaid      generic.Money        `json:"total_paid"`
	PendingBalance generic.Money        `json:"pending_balance"`
	GeneratedAt    string               `json:"generated_at"`
}

type PayslipEmployeeDTO struct {
	ID           string `json:"id"`
	EmployeeCode string `json:"employee_code"`
	Name         string `json:"name"`
	Type         string `json:"type,omitempty"`
}

type PayslipPeriodDTO struct {
	Month            string `json:"month"`
	MonthNumber      int    `json:"month_number"`
	Year             int    `json:"year"`
	TotalDays        int    `json:"total_days"`
	WorkingDays      int    `json:"working_days"`
	WorkingDayPolicy string `json:"working_day_policy"`
}

type PayslipAttendanceDTO struct {
	Present              int    `json:"present"`
	HalfDay              int    `json:"half_day"`
	Absent               int    `json:"absent"`
	PaidLeave            int    `json:"paid_leave"`
	EffectiveWorkingDays string `json:"effective_working_days"`
}

type PayslipSalaryDTO struct {
	Basic         generic.Money `json:"basic"`
	PerDay        generic.Money `json:"per_day"`
	Earned        generic.Money `json:"earned"`
	Bonus         generic.Money `json:"bonus"`
	TotalEarnings generic.Money `json:"total_earnings"`
}

type PayslipDeductionsDTO struct {
	Absent  generic.Money `json:"absent"`
	HalfDay generic.Money `json:"half_day"`
	Total   generic.Money `json:"total"`
}

func toPayslipDTO(emp sqlite.Employee, result payroll.MonthlyResult, generatedAt time.Time) PayslipDTO {
	r := result.Rounded()
	return PayslipDTO{
		Employee: PayslipEmployeeDTO{
			ID:           emp.ID,
			EmployeeCode: emp.EmployeeCode,
			Name:         emp.FullName,
			Type:         emp.Type,
		},
		Period: PayslipPeriodDTO{
			Month:            r.Month.String(),
			MonthNumber:      int(r.Month),
			Year:             r.Year,
			TotalDays:        r.TotalDaysInMonth,
			WorkingDays:      r.WorkingDays,
			WorkingDayPolicy: r.WorkingDayPolicy,
		},
		Attendance: PayslipAttendanceDTO{
			Present:              r.PresentDays,
			HalfDay:              r.HalfDays,
			Absent:               r.AbsentDays,
			PaidLeave:            r.PaidLeaveDays,
			EffectiveWorkingDays: r.EffectiveWorkingDays.StringFixed(generic.DisplayPlaces),
		},
		Salary: PayslipSalaryDTO{
			Basic:         r.MonthlySalary,
			PerDay:        r.PerDaySalary,
			Earned:        r.EarnedSalary,
			Bonus:         r.BonusAmount,
			TotalEarnings: r.TotalEarnings,
		},
		Deductions: PayslipDeductionsDTO{
			Absent:  r.AbsentDeduction,
			HalfDay: r.HalfDayDeduction,
			Total:   r.TotalDeductions,
		},
		NetSalary:      r.NetSalary,
		Payments:       toPaymentDTOs(r.Payments),
		TotalPaid:      r.TotalPaid,
		PendingBalance: r.PendingBalance,
		GeneratedAt:    generatedAt.UTC().Format(time.RFC3339),
	}
}

// MonthSummaryDTO is one row of the yearly payslip.
type MonthSummaryDTO struct {
	Month                int           `json:"month"`
	MonthName            string        `json:"month_name"`
	TotalDays            int           `json:"total_days"`
	Present              int           `json:"present"`
	HalfDay              int           `json:"half_day"`
	Absent               int           `json:"absent"`
	PaidLeave            int           `json:"paid_leave"`
	EffectiveWorkingDays string        `json:"effective_working_days"`
	EarnedSalary         generic.Money `json:"earned_salary"`
	Bonus                generic.Money `json:"bonus"`
	TotalDeductions      generic.Money `json:"total_deductions"`
	NetSalary            generic.Money `json:"net_salary"`
	TotalPaid            generic.Money `json:"total_paid"`
	PendingBalance       generic.Money `json:"pending_balance"`
}

// YearlyPayslipDTO is the twelve-month rollup.
type YearlyPayslipDTO struct {
	Employee           PayslipEmployeeDTO `json:"employee"`
	Year               int                `json:"year"`
	Months             []MonthSummaryDTO  `json:"months"`
	YearlyNetTotal     generic.Money      `json:"yearly_net_total"`
	YearlyPaidTotal    generic.Money      `json:"yearly_paid_total"`
	YearlyPendingTotal generic.Money      `json:"yearly_pending_total"`
	GeneratedAt        string             `json:"generated_at"`
}

func toYearlyPayslipDTO(emp sqlite.Employee, result payroll.YearlyResult, generatedAt time.Time) YearlyPayslipDTO {
	y := result.Rounded()
	months := make([]MonthSummaryDTO, len(y.Months))
	for i, m := range y.Months {
		months[i] = MonthSummaryDTO{
			Month:                int(m.Month),
			MonthName:            m.Month.String(),
			TotalDays:            m.TotalDaysInMonth,
			Present:              m.PresentDays,
			HalfDay:              m.HalfDays,
			Absent:               m.AbsentDays,
			PaidLeave:            m.PaidLeaveDays,
			EffectiveWorkingDays: m.EffectiveWorkingDays.StringFixed(generic.DisplayPlaces),
			EarnedSalary:         m.EarnedSalary,
			Bonus:                m.BonusAmount,
			TotalDeductions:      m.TotalDeductions,
			NetSalary:            m.NetSalary,
			TotalPaid:            m.TotalPaid,
			PendingBalance:       m.PendingBalance,
		}
	}
	return YearlyPayslipDTO{
		Employee: PayslipEmployeeDTO{
			ID:           emp.ID,
			EmployeeCode: emp.EmployeeCode,
			Name:         emp.FullName,
			Type:         emp.Type,
		},
		Year:               y.Year,
		Months:             months,
		YearlyNetTotal:     y.YearlyNetTotal,
		YearlyPaidTotal:    y.YearlyPaidTotal,
		YearlyPendingTotal: y.YearlyPendingTotal,
		GeneratedAt:        generatedAt.UTC().Format(time.RFC3339),
	}
}

// =============================================================================
// SALARY REPORT
// =============================================================================

// SalaryReportRowDTO is one employee's line in the salary report.
type SalaryReportRowDTO struct {
	EmployeeID           string        `json:"employee_id"`
	EmployeeCode         string        `json:"employee_code"`
	Name                 string        `json:"name"`
	Type                 string        `json:"type,omitempty"`
	MonthlySalary        generic.Money `json:"monthly_salary"`
	Present              int           `json:"present"`
	HalfDay              int           `json:"half_day"`
	Absent               int           `json:"absent"`
	PaidLeave            int           `json:"paid_leave"`
	EffectiveWorkingDays string        `json:"effective_working_days"`
	EarnedSalary         generic.Money `json:"earned_salary"`
	Bonus                generic.Money `json:"bonus"`
	TotalDeductions      generic.Money `json:"total_deductions"`
	NetSalary            generic.Money `json:"net_salary"`
	TotalPaid            generic.Money `json:"total_paid"`
	PendingBalance       generic.Money `json:"pending_balance"`
}

// SalaryReportDTO covers every active employee for one month.
type SalaryReportDTO struct {
	Month        int                  `json:"month"`
	MonthName    string               `json:"month_name"`
	Year         int                  `json:"year"`
	Rows         []SalaryReportRowDTO `json:"rows"`
	TotalNet     generic.Money        `json:"total_net"`
	TotalPaid    generic.Money        `json:"total_paid"`
	TotalPending generic.Money        `json:"total_pending"`
}

func toSalaryReportRow(emp sqlite.Employee, result payroll.MonthlyResult) SalaryReportRowDTO {
	r := result.Rounded()
	return SalaryReportRowDTO{
		EmployeeID:           emp.ID,
		EmployeeCode:         emp.EmployeeCode,
		Name:                 emp.FullName,
		Type:                 emp.Type,
		MonthlySalary:        r.MonthlySalary,
		Present:              r.PresentDays,
		HalfDay:              r.HalfDays,
		Absent:               r.AbsentDays,
		PaidLeave:            r.PaidLeaveDays,
		EffectiveWorkingDays: r.EffectiveWorkingDays.StringFixed(generic.DisplayPlaces),
		EarnedSalary:         r.EarnedSalary,
		Bonus:                r.BonusAmount,
		TotalDeductions:      r.TotalDeductions,
		NetSalary:            r.NetSalary,
		TotalPaid:            r.TotalPaid,
		PendingBalance:       r.PendingBalance,
	}
}

// =============================================================================
// HOLIDAYS
// =============================================================================

// HolidayDTO represents a holiday.
type HolidayDTO struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Name      string `json:"name"`
	Recurring bool   `json:"recurring"`
}

// HolidayRequest creates a holiday.
type HolidayRequest struct {
	Date      string `json:"date"`
	Name      string `json:"name"`
	Recurring bool   `json:"recurring"`
}

// =============================================================================
// DASHBOARD AND ANALYTICS
// =============================================================================

// EmployeeStatsDTO is the dashboard headline for today.
type EmployeeStatsDTO struct {
	Date           string `json:"date"`
	TotalEmployees int    `json:"total_employees"`
	PresentToday   int    `json:"present_today"` // present or half-day
	OnLeaveToday   int    `json:"on_leave_today"`
	AbsentToday    int    `json:"absent_today"` // marked absent or not marked
	MarkedToday    int    `json:"marked_today"`
}

// AttendanceActivityDTO is an attendance record with its employee.
type AttendanceActivityDTO struct {
	AttendanceDTO
	EmployeeCode string `json:"employee_code"`
	EmployeeName string `json:"employee_name"`
	Type         string `json:"type,omitempty"`
	MarkedAt     string `json:"marked_at"`
}

func toAttendanceActivityDTO(e sqlite.AttendanceEntry) AttendanceActivityDTO {
	return AttendanceActivityDTO{
		AttendanceDTO: toAttendanceDTO(e.AttendanceRecord),
		EmployeeCode:  e.EmployeeCode,
		EmployeeName:  e.FullName,
		Type:          e.Type,
		MarkedAt:      e.UpdatedAt.Format(time.RFC3339),
	}
}

// AnalyticsOverviewDTO counts statuses over all employees in a range.
type AnalyticsOverviewDTO struct {
	TotalRecords      int    `json:"total_records"`
	Present           int    `json:"present"`
	Absent            int    `json:"absent"`
	HalfDay           int    `json:"half_day"`
	PaidLeave         int    `json:"paid_leave"`
	TotalEmployees    int    `json:"total_employees"`
	PresentPercentage string `json:"present_percentage"`
}

// DailyBreakdownDTO is one date's counts.
type DailyBreakdownDTO struct {
	Date      string `json:"date"`
	Present   int    `json:"present"`
	Absent    int    `json:"absent"`
	HalfDay   int    `json:"half_day"`
	PaidLeave int    `json:"paid_leave"`
}

// AnalyticsDTO is the attendance analytics response.
type AnalyticsDTO struct {
	StartDate      string               `json:"start_date,omitempty"`
	EndDate        string               `json:"end_date,omitempty"`
	Overview       AnalyticsOverviewDTO `json:"overview"`
	DailyBreakdown []DailyBreakdownDTO  `json:"daily_breakdown"`
}

// =============================================================================
// RECONCILIATION
// =============================================================================

// ReconciliationRunDTO represents one month-close run.
type ReconciliationRunDTO struct {
	ID             string        `json:"id"`
	EmployeeID     string        `json:"employee_id"`
	Month          int           `json:"month"`
	Year           int           `json:"year"`
	Status         string        `json:"status"`
	NetSalary      generic.Money `json:"net_salary"`
	TotalPaid      generic.Money `json:"total_paid"`
	PendingBalance generic.Money `json:"pending_balance"`
	Error          string        `json:"error,omitempty"`
	StartedAt      *string       `json:"started_at,omitempty"`
	CompletedAt    *string       `json:"completed_at,omitempty"`
	CreatedAt      string        `json:"created_at"`
}

// ProcessReconciliationRequest optionally names the month to close.
// Both fields zero means the previous calendar month.
type ProcessReconciliationRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func toReconciliationRunDTO(r sqlite.ReconciliationRun) ReconciliationRunDTO {
	dto := ReconciliationRunDTO{
		ID:             r.ID,
		EmployeeID:     r.EmployeeID,
		Month:          int(r.Month),
		Year:           r.Year,
		Status:         r.Status,
		NetSalary:      r.NetSalary.Round2(),
		TotalPaid:      r.TotalPaid.Round2(),
		PendingBalance: r.PendingBalance.Round2(),
		Error:          r.Error,
		CreatedAt:      r.CreatedAt.Format(time.RFC3339),
	}
	if r.StartedAt != nil {
		s := r.StartedAt.Format(time.RFC3339)
		dto.StartedAt = &s
	}
	if r.CompletedAt != nil {
		s := r.CompletedAt.Format(time.RFC3339)
		dto.CompletedAt = &s
	}
	return dto
}

// SchedulerStatusDTO reports the month-close scheduler.
type SchedulerStatusDTO struct {
	Enabled   bool    `json:"enabled"`
	Running   bool    `json:"running"`
	Interval  string  `json:"interval"`
	LastRunAt *string `json:"last_run_at,omitempty"`
	NextRunAt *string `json:"next_run_at,omitempty"`
}

func toSchedulerStatusDTO(s SchedulerStatus) SchedulerStatusDTO {
	dto := SchedulerStatusDTO{
		Enabled:  s.Enabled,
		Running:  s.Running,
		Interval: s.Interval.String(),
	}
	if !s.LastRunAt.IsZero() {
		v := s.LastRunAt.UTC().Format(time.RFC3339)
		dto.LastRunAt = &v
	}
	if !s.NextRunAt.IsZero() {
		v := s.NextRunAt.UTC().Format(time.RFC3339)
		dto.NextRunAt = &v
	}
	return dto
}

// =============================================================================
// COMMON
// =============================================================================

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
