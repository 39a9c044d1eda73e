package api

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/warp/payroll-engine/store/sqlite"
	"github.com/xuri/excelize/v2"
)

// =============================================================================
// CSV PAYSLIP
// =============================================================================

// writePayslipCSV writes the payslip as section/item/value rows.
func writePayslipCSV(w io.Writer, p PayslipDTO) error {
	cw := csv.NewWriter(w)
	itoa := strconv.Itoa

	rows := [][]string{
		{"section", "item", "value"},
		{"employee", "id", p.Employee.ID},
		{"employee", "employee_code", p.Employee.EmployeeCode},
		{"employee", "name", p.Employee.Name},
		{"employee", "type", p.Employee.Type},
		{"period", "month", p.Period.Month},
		{"period", "year", itoa(p.Period.Year)},
		{"period", "total_days", itoa(p.Period.TotalDays)},
		{"period", "working_days", itoa(p.Period.WorkingDays)},
		{"attendance", "present", itoa(p.Attendance.Present)},
		{"attendance", "half_day", itoa(p.Attendance.HalfDay)},
		{"attendance", "absent", itoa(p.Attendance.Absent)},
		{"attendance", "paid_leave", itoa(p.Attendance.PaidLeave)},
		{"attendance", "effective_working_days", p.Attendance.EffectiveWorkingDays},
		{"salary", "basic", p.Salary.Basic.StringFixed()},
		{"salary", "per_day", p.Salary.PerDay.StringFixed()},
		{"salary", "earned", p.Salary.Earned.StringFixed()},
		{"salary", "bonus", p.Salary.Bonus.StringFixed()},
		{"salary", "total_earnings", p.Salary.TotalEarnings.StringFixed()},
		{"deductions", "absent", p.Deductions.Absent.StringFixed()},
		{"deductions", "half_day", p.Deductions.HalfDay.StringFixed()},
		{"deductions", "total", p.Deductions.Total.StringFixed()},
		{"summary", "net_salary", p.NetSalary.StringFixed()},
	}
	for _, pay := range p.Payments {
		rows = append(rows, []string{"payment", pay.PaymentDate, pay.Amount.StringFixed()})
	}
	rows = append(rows,
		[]string{"summary", "total_paid", p.TotalPaid.StringFixed()},
		[]string{"summary", "pending_balance", p.PendingBalance.StringFixed()},
		[]string{"summary", "generated_at", p.GeneratedAt},
	)

	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write payslip csv: %w", err)
	}
	return nil
}

// =============================================================================
// CSV ATTENDANCE REPORT
// =============================================================================

var attendanceCSVHeader = []string{
	"Date", "Employee Code", "Employee Name", "Type", "Monthly Salary", "Status", "Note", "Marked At",
}

// writeAttendanceCSV writes one row per attendance record.
func writeAttendanceCSV(w io.Writer, entries []sqlite.AttendanceEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(attendanceCSVHeader); err != nil {
		return fmt.Errorf("write attendance csv: %w", err)
	}
	for _, e := range entries {
		row := []string{
			e.Date.String(),
			e.EmployeeCode,
			e.FullName,
			e.Type,
			e.MonthlySalary.Round2().StringFixed(),
			string(e.Status),
			e.Note,
			e.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write attendance csv: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// =============================================================================
// XLSX SALARY REPORT
// =============================================================================

var salaryReportColumns = []struct {
	title string
	width float64
}{
	{"Employee Code", 15},
	{"Name", 25},
	{"Type", 18},
	{"Monthly Salary", 15},
	{"Present", 9},
	{"Half Day", 9},
	{"Absent", 9},
	{"Paid Leave", 11},
	{"Effective Days", 14},
	{"Earned", 14},
	{"Bonus", 12},
	{"Deductions", 14},
	{"Net Salary", 14},
	{"Paid", 14},
	{"Pending", 14},
}

// buildSalaryReportXLSX lays the report out on a single sheet. The caller
// closes the returned file.
func buildSalaryReportXLSX(report SalaryReportDTO, generatedAt time.Time) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Salary Report"
	index, err := f.NewSheet(sheet)
	if err != nil {
		f.Close()
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	moneyStyle, _ := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	totalStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, NumFmt: 4})

	// Title
	f.SetCellValue(sheet, "A1", fmt.Sprintf("SALARY REPORT - %s %d", report.MonthName, report.Year))
	f.MergeCell(sheet, "A1", "E1")
	f.SetCellStyle(sheet, "A1", "E1", headerStyle)
	f.SetRowHeight(sheet, 1, 25)

	// Column headers
	const headerRow = 3
	for i, col := range salaryReportColumns {
		name, _ := excelize.ColumnNumberToName(i + 1)
		cell := fmt.Sprintf("%s%d", name, headerRow)
		f.SetCellValue(sheet, cell, col.title)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
		f.SetColWidth(sheet, name, name, col.width)
	}

	row := headerRow + 1
	for _, r := range report.Rows {
		values := []any{
			r.EmployeeCode, r.Name, r.Type, r.MonthlySalary.Float64(),
			r.Present, r.HalfDay, r.Absent, r.PaidLeave, r.EffectiveWorkingDays,
			r.EarnedSalary.Float64(), r.Bonus.Float64(), r.TotalDeductions.Float64(),
			r.NetSalary.Float64(), r.TotalPaid.Float64(), r.PendingBalance.Float64(),
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &values); err != nil {
			f.Close()
			return nil, err
		}
		f.SetCellStyle(sheet, fmt.Sprintf("D%d", row), fmt.Sprintf("D%d", row), moneyStyle)
		f.SetCellStyle(sheet, fmt.Sprintf("J%d", row), fmt.Sprintf("O%d", row), moneyStyle)
		row++
	}

	// Totals
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "TOTAL")
	f.SetCellValue(sheet, fmt.Sprintf("M%d", row), report.TotalNet.Float64())
	f.SetCellValue(sheet, fmt.Sprintf("N%d", row), report.TotalPaid.Float64())
	f.SetCellValue(sheet, fmt.Sprintf("O%d", row), report.TotalPending.Float64())
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("O%d", row), totalStyle)

	row += 2
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row),
		fmt.Sprintf("Generated: %s", generatedAt.UTC().Format("02 January 2006 15:04:05")))

	return f, nil
}
