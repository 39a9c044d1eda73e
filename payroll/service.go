package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/warp/payroll-engine/generic"
)

// =============================================================================
// SOURCE - Where the collaborator keeps employees, attendance and payments
// =============================================================================

// Source supplies raw records to the engine.
//
// IMPLEMENTATIONS:
//   - store/sqlite: Production SQLite
//   - store/memory: In-memory for tests
type Source interface {
	// EmployeeSnapshot returns generic.ErrEntityNotFound for an unknown ID.
	EmployeeSnapshot(ctx context.Context, employeeID string) (*Employee, error)

	// AttendanceInRange returns the employee's records dated within period.
	AttendanceInRange(ctx context.Context, employeeID string, period generic.Period) ([]AttendanceRecord, error)

	// PaymentsForYear returns every payment tagged to the employee and year,
	// ordered by payment date.
	PaymentsForYear(ctx context.Context, employeeID string, year int) ([]Payment, error)

	// PaymentsForMonth returns payments tagged to (employee, month, year),
	// ordered by payment date.
	PaymentsForMonth(ctx context.Context, employeeID string, month time.Month, year int) ([]Payment, error)
}

// =============================================================================
// SERVICE - Fetch then compute
// =============================================================================

// Service loads inputs from a Source and runs the Calculator. Payslips,
// exports, reports and the month-close scheduler all go through it.
type Service struct {
	Source     Source
	Calculator Calculator
}

func NewService(source Source, calc Calculator) *Service {
	return &Service{Source: source, Calculator: calc}
}

// Monthly computes one employee's payroll for one month.
func (s *Service) Monthly(ctx context.Context, employeeID string, month time.Month, year int) (MonthlyResult, error) {
	cal, err := MonthCalendar(year, month)
	if err != nil {
		return MonthlyResult{}, err
	}

	emp, err := s.Source.EmployeeSnapshot(ctx, employeeID)
	if err != nil {
		return MonthlyResult{}, fmt.Errorf("load employee %s: %w", employeeID, err)
	}
	attendance, err := s.Source.AttendanceInRange(ctx, employeeID, cal.Period)
	if err != nil {
		return MonthlyResult{}, fmt.Errorf("load attendance: %w", err)
	}
	payments, err := s.Source.PaymentsForMonth(ctx, employeeID, month, year)
	if err != nil {
		return MonthlyResult{}, fmt.Errorf("load payments: %w", err)
	}

	return s.Calculator.ComputeMonth(emp, attendance, payments, month, year)
}

// Yearly computes the twelve-month rollup for one employee.
func (s *Service) Yearly(ctx context.Context, employeeID string, year int) (YearlyResult, error) {
	if err := ValidateYear(year); err != nil {
		return YearlyResult{}, err
	}

	emp, err := s.Source.EmployeeSnapshot(ctx, employeeID)
	if err != nil {
		return YearlyResult{}, fmt.Errorf("load employee %s: %w", employeeID, err)
	}
	attendance, err := s.Source.AttendanceInRange(ctx, employeeID, generic.YearPeriod(year))
	if err != nil {
		return YearlyResult{}, fmt.Errorf("load attendance: %w", err)
	}
	payments, err := s.Source.PaymentsForYear(ctx, employeeID, year)
	if err != nil {
		return YearlyResult{}, fmt.Errorf("load payments: %w", err)
	}

	return s.Calculator.ComputeYear(emp, attendance, payments, year)
}
