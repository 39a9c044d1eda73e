// Package memory provides an in-memory payroll.Source.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/payroll-engine/generic"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu         sync.RWMutex
	employees  map[string]payroll.Employee
	attendance map[string][]payroll.AttendanceRecord // by employee, sorted by date
	payments   map[string][]payroll.Payment          // by employee, sorted by payment date
}

func New() *Memory {
	return &Memory{
		employees:  make(map[string]payroll.Employee),
		attendance: make(map[string][]payroll.AttendanceRecord),
		payments:   make(map[string][]payroll.Payment),
	}
}

// PutEmployee adds or replaces an employee snapshot.
func (m *Memory) PutEmployee(emp payroll.Employee) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees[emp.ID] = emp
}

// AddAttendance inserts records keeping per-employee date order.
// Duplicate dates are kept; the engine decides what to do with them.
func (m *Memory) AddAttendance(records ...payroll.AttendanceRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, rec := range records {
		recs := m.attendance[rec.EmployeeID]
		i := sort.Search(len(recs), func(i int) bool {
			return recs[i].Date.After(rec.Date)
		})
		recs = append(recs, payroll.AttendanceRecord{})
		copy(recs[i+1:], recs[i:])
		recs[i] = rec
		m.attendance[rec.EmployeeID] = recs
	}
}

// AddPayments inserts payments keeping per-employee payment-date order.
func (m *Memory) AddPayments(payments ...payroll.Payment) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range payments {
		pays := m.payments[p.EmployeeID]
		i := sort.Search(len(pays), func(i int) bool {
			return pays[i].PaymentDate.After(p.PaymentDate)
		})
		pays = append(pays, payroll.Payment{})
		copy(pays[i+1:], pays[i:])
		pays[i] = p
		m.payments[p.EmployeeID] = pays
	}
}

// =============================================================================
// payroll.Source
// =============================================================================

func (m *Memory) EmployeeSnapshot(_ context.Context, employeeID string) (*payroll.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	emp, ok := m.employees[employeeID]
	if !ok {
		return nil, generic.ErrEntityNotFound
	}
	return &emp, nil
}

func (m *Memory) AttendanceInRange(_ context.Context, employeeID string, period generic.Period) ([]payroll.AttendanceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []payroll.AttendanceRecord
	for _, rec := range m.attendance[employeeID] {
		if period.Contains(rec.Date) {
			result = append(result, rec)
		}
	}
	return result, nil
}

func (m *Memory) PaymentsForYear(_ context.Context, employeeID string, year int) ([]payroll.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []payroll.Payment
	for _, p := range m.payments[employeeID] {
		if p.Year == year {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *Memory) PaymentsForMonth(_ context.Context, employeeID string, month time.Month, year int) ([]payroll.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []payroll.Payment
	for _, p := range m.payments[employeeID] {
		if p.InBucket(employeeID, month, year) {
			result = append(result, p)
		}
	}
	return result, nil
}
