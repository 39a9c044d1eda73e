/*
Package sqlite provides a SQLite-backed implementation of the payroll storage.

PURPOSE:
  Persists the records the payroll engine reads (employees, attendance,
  payments) plus the collaborator-owned tables around it (holidays,
  reconciliation runs). In production, the same patterns apply to
  PostgreSQL - only minor SQL dialect differences.

INTERFACES IMPLEMENTED:
  payroll.Source:          Employee snapshot, attendance and payment lookups
  generic.HolidayCalendar: Holiday lookup for WeekdaysPolicy

KEY TABLES:
  employees:           Employee master data (salary, bonus, status)
  attendance:          One row per employee per date (upserted)
  payments:            Disbursements tagged to an (employee, month, year) bucket
  holidays:            Dated or recurring non-working days
  reconciliation_runs: Month-close audit log written by the scheduler

MONEY:
  Amounts are stored as TEXT decimal strings and read back with
  shopspring/decimal, so no value ever passes through float64.

DATES:
  Calendar dates are stored as "YYYY-MM-DD" so range filters are plain
  string comparisons. Timestamps are RFC3339 UTC.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

USAGE:
  store, err := sqlite.New("./data/payroll.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  svc := payroll.NewService(store, payroll.Calculator{})

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - payroll/service.go: Source interface
  - store/memory: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/generic"
	"github.com/warp/payroll-engine/payroll"
)

// Store implements payroll persistence using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Every pooled connection to ":memory:" would get its own empty database.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Employees
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		employee_code TEXT NOT NULL UNIQUE,
		full_name TEXT NOT NULL,
		mobile_number TEXT,
		type TEXT,
		monthly_salary TEXT NOT NULL,
		bonus TEXT,
		status TEXT NOT NULL DEFAULT 'active',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_employees_status
		ON employees(status);

	-- Attendance: one row per employee per day
	CREATE TABLE IF NOT EXISTS attendance (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		date TEXT NOT NULL,
		status TEXT NOT NULL CHECK (status IN ('present', 'absent', 'half-day', 'paid-leave')),
		note TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		UNIQUE(employee_id, date)
	);

	CREATE INDEX IF NOT EXISTS idx_attendance_employee_date
		ON attendance(employee_id, date);

	-- Payments, tagged to a payroll bucket independent of payment_date
	CREATE TABLE IF NOT EXISTS payments (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		amount TEXT NOT NULL,
		payment_date TEXT NOT NULL,
		month INTEGER NOT NULL CHECK (month BETWEEN 1 AND 12),
		year INTEGER NOT NULL CHECK (year BETWEEN 2000 AND 2100),
		remarks TEXT,
		created_at TEXT NOT NULL
	);

	-- Hot path: payments for one bucket
	CREATE INDEX IF NOT EXISTS idx_payments_bucket
		ON payments(employee_id, year, month);

	-- Holidays
	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		recurring BOOLEAN DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_holidays_unique
		ON holidays(date, name);

	-- Reconciliation Runs (month-close audit log)
	CREATE TABLE IF NOT EXISTS reconciliation_runs (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		month INTEGER NOT NULL,
		year INTEGER NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		net_salary TEXT,
		total_paid TEXT,
		pending_balance TEXT,
		error TEXT,
		started_at TEXT,
		completed_at TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_reconciliation_runs_status
		ON reconciliation_runs(status);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_reconciliation_runs_unique
		ON reconciliation_runs(employee_id, year, month);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EMPLOYEE STORE
// =============================================================================

const (
	EmployeeActive   = "active"
	EmployeeInactive = "inactive"
)

// Employee represents an employee record.
type Employee struct {
	ID            string
	EmployeeCode  string
	FullName      string
	MobileNumber  string
	Type          string
	MonthlySalary generic.Money
	Bonus         decimal.NullDecimal
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Snapshot is the read-only view the payroll engine needs.
func (e Employee) Snapshot() payroll.Employee {
	return payroll.Employee{ID: e.ID, MonthlySalary: e.MonthlySalary, Bonus: e.Bonus}
}

// SaveEmployee inserts or updates an employee. A blank ID gets a new UUID.
// Returns generic.ErrDuplicate when the employee code is taken.
func (s *Store) SaveEmployee(ctx context.Context, emp *Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if emp.ID == "" {
		emp.ID = uuid.NewString()
	}
	if emp.Status == "" {
		emp.Status = EmployeeActive
	}
	if emp.CreatedAt.IsZero() {
		emp.CreatedAt = now
	}
	emp.UpdatedAt = now

	query := `
		INSERT INTO employees (id, employee_code, full_name, mobile_number, type,
			monthly_salary, bonus, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			employee_code = excluded.employee_code,
			full_name = excluded.full_name,
			mobile_number = excluded.mobile_number,
			type = excluded.type,
			monthly_salary = excluded.monthly_salary,
			bonus = excluded.bonus,
			status = excluded.status,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		emp.ID, emp.EmployeeCode, emp.FullName,
		nullString(emp.MobileNumber), nullString(emp.Type),
		emp.MonthlySalary.Value.String(), emp.Bonus,
		emp.Status,
		emp.CreatedAt.Format(time.RFC3339), emp.UpdatedAt.Format(time.RFC3339),
	)
	if isUniqueConstraintError(err) {
		return fmt.Errorf("employee code %q: %w", emp.EmployeeCode, generic.ErrDuplicate)
	}
	return err
}

const employeeColumns = `id, employee_code, full_name, mobile_number, type,
	monthly_salary, bonus, status, created_at, updated_at`

// GetEmployee retrieves an employee by ID. Returns nil, nil when missing.
func (s *Store) GetEmployee(ctx context.Context, id string) (*Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.getEmployee(ctx, id)
}

func (s *Store) getEmployee(ctx context.Context, id string) (*Employee, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+employeeColumns+" FROM employees WHERE id = ?", id)
	emp, err := scanEmployee(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

// ListEmployees returns employees ordered by name. An empty status
// returns all of them.
func (s *Store) ListEmployees(ctx context.Context, status string) ([]Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := "SELECT " + employeeColumns + " FROM employees"
	var args []any
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, status)
	}
	query += " ORDER BY full_name, employee_code"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

// DeleteEmployee removes an employee along with attendance and payments.
func (s *Store) DeleteEmployee(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM employees WHERE id = ?", id)
	return affectedOne(res, err)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (Employee, error) {
	var emp Employee
	var mobile, typ sql.NullString
	var salary decimal.Decimal
	var createdAt, updatedAt string

	if err := row.Scan(
		&emp.ID, &emp.EmployeeCode, &emp.FullName, &mobile, &typ,
		&salary, &emp.Bonus, &emp.Status, &createdAt, &updatedAt,
	); err != nil {
		return Employee{}, err
	}

	emp.MobileNumber = mobile.String
	emp.Type = typ.String
	emp.MonthlySalary = generic.NewMoney(salary)
	emp.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	emp.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return emp, nil
}

// =============================================================================
// ATTENDANCE STORE
// =============================================================================

// MarkAttendance upserts the record for (employee, date). An existing row
// keeps its ID; rec.ID is set to the stored ID.
func (s *Store) MarkAttendance(ctx context.Context, rec *payroll.AttendanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.markAttendance(ctx, s.db, rec)
}

// MarkAttendanceBatch upserts many records atomically.
func (s *Store) MarkAttendanceBatch(ctx context.Context, recs []payroll.AttendanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i := range recs {
		if err := s.markAttendance(ctx, tx, &recs[i]); err != nil {
			return err
		}
	}
	return tx.Commit()
}

type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) markAttendance(ctx context.Context, db queryer, rec *payroll.AttendanceRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	now := time.Now().UTC().Format(time.RFC3339)

	query := `
		INSERT INTO attendance (id, employee_id, date, status, note, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(employee_id, date) DO UPDATE SET
			status = excluded.status,
			note = excluded.note,
			updated_at = excluded.updated_at
	`

	_, err := db.ExecContext(ctx, query,
		rec.ID, rec.EmployeeID, rec.Date.String(), string(rec.Status),
		nullString(rec.Note), now, now,
	)
	if err != nil {
		if isForeignKeyError(err) {
			return fmt.Errorf("employee %s: %w", rec.EmployeeID, generic.ErrEntityNotFound)
		}
		return fmt.Errorf("failed to mark attendance: %w", err)
	}

	return db.QueryRowContext(ctx,
		"SELECT id FROM attendance WHERE employee_id = ? AND date = ?",
		rec.EmployeeID, rec.Date.String(),
	).Scan(&rec.ID)
}

// AttendanceFilter narrows ListAttendance. Zero fields match everything.
type AttendanceFilter struct {
	EmployeeID string
	From       generic.TimePoint
	To         generic.TimePoint
	Status     payroll.AttendanceStatus
}

// where renders the filter as a WHERE clause over the attendance table
// aliased as alias ("" for none).
func (f AttendanceFilter) where(alias string) (string, []any) {
	col := func(name string) string {
		if alias == "" {
			return name
		}
		return alias + "." + name
	}

	var where []string
	var args []any
	if f.EmployeeID != "" {
		where = append(where, col("employee_id")+" = ?")
		args = append(args, f.EmployeeID)
	}
	if !f.From.IsZero() {
		where = append(where, col("date")+" >= ?")
		args = append(args, f.From.String())
	}
	if !f.To.IsZero() {
		where = append(where, col("date")+" <= ?")
		args = append(args, f.To.String())
	}
	if f.Status != "" {
		where = append(where, col("status")+" = ?")
		args = append(args, string(f.Status))
	}
	if len(where) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(where, " AND "), args
}

// ListAttendance returns matching records ordered by date.
func (s *Store) ListAttendance(ctx context.Context, f AttendanceFilter) ([]payroll.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	where, args := f.where("")
	query := "SELECT id, employee_id, date, status, note FROM attendance" + where +
		" ORDER BY date ASC, employee_id"

	return s.queryAttendance(ctx, query, args...)
}

// AttendanceEntry is an attendance record joined with the employee it
// belongs to, for exports and activity feeds.
type AttendanceEntry struct {
	payroll.AttendanceRecord
	EmployeeCode  string
	FullName      string
	Type          string
	MonthlySalary generic.Money
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ListAttendanceEntries returns matching records with employee details,
// ordered by date then employee code.
func (s *Store) ListAttendanceEntries(ctx context.Context, f AttendanceFilter) ([]AttendanceEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	where, args := f.where("a")
	return s.queryAttendanceEntries(ctx, where+" ORDER BY a.date ASC, e.employee_code", args...)
}

// RecentAttendance returns the limit most recently marked or re-marked
// records, newest first.
func (s *Store) RecentAttendance(ctx context.Context, limit int) ([]AttendanceEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryAttendanceEntries(ctx, " ORDER BY a.updated_at DESC, a.date DESC, e.employee_code LIMIT ?", limit)
}

func (s *Store) queryAttendanceEntries(ctx context.Context, tail string, args ...any) ([]AttendanceEntry, error) {
	query := `
		SELECT a.id, a.employee_id, a.date, a.status, a.note, a.created_at, a.updated_at,
			e.employee_code, e.full_name, e.type, e.monthly_salary
		FROM attendance a
		JOIN employees e ON e.id = a.employee_id` + tail

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []AttendanceEntry
	for rows.Next() {
		var entry AttendanceEntry
		var dateStr, status, createdAt, updatedAt string
		var note, typ sql.NullString
		var salary decimal.Decimal
		if err := rows.Scan(
			&entry.ID, &entry.EmployeeID, &dateStr, &status, &note, &createdAt, &updatedAt,
			&entry.EmployeeCode, &entry.FullName, &typ, &salary,
		); err != nil {
			return nil, err
		}
		entry.Date, err = generic.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("attendance %s: %w", entry.ID, err)
		}
		entry.Status = payroll.AttendanceStatus(status)
		entry.Note = note.String
		entry.Type = typ.String
		entry.MonthlySalary = generic.NewMoney(salary)
		entry.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		entry.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// DeleteAttendance removes one record by ID.
func (s *Store) DeleteAttendance(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM attendance WHERE id = ?", id)
	return affectedOne(res, err)
}

func (s *Store) queryAttendance(ctx context.Context, query string, args ...any) ([]payroll.AttendanceRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []payroll.AttendanceRecord
	for rows.Next() {
		var rec payroll.AttendanceRecord
		var dateStr, status string
		var note sql.NullString
		if err := rows.Scan(&rec.ID, &rec.EmployeeID, &dateStr, &status, &note); err != nil {
			return nil, err
		}
		rec.Date, err = generic.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("attendance %s: %w", rec.ID, err)
		}
		rec.Status = payroll.AttendanceStatus(status)
		rec.Note = note.String
		records = append(records, rec)
	}
	return records, rows.Err()
}

// =============================================================================
// PAYMENT STORE
// =============================================================================

// SavePayment inserts or updates a payment. A blank ID gets a new UUID.
func (s *Store) SavePayment(ctx context.Context, p *payroll.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	query := `
		INSERT INTO payments (id, employee_id, amount, payment_date, month, year, remarks, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			amount = excluded.amount,
			payment_date = excluded.payment_date,
			month = excluded.month,
			year = excluded.year,
			remarks = excluded.remarks
	`

	_, err := s.db.ExecContext(ctx, query,
		p.ID, p.EmployeeID, p.Amount.Value.String(), p.PaymentDate.String(),
		int(p.Month), p.Year, nullString(p.Remarks),
		time.Now().UTC().Format(time.RFC3339),
	)
	if isForeignKeyError(err) {
		return fmt.Errorf("employee %s: %w", p.EmployeeID, generic.ErrEntityNotFound)
	}
	return err
}

// GetPayment retrieves a payment by ID. Returns nil, nil when missing.
func (s *Store) GetPayment(ctx context.Context, id string) (*payroll.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pays, err := s.queryPayments(ctx, "SELECT "+paymentColumns+" FROM payments WHERE id = ?", id)
	if err != nil || len(pays) == 0 {
		return nil, err
	}
	return &pays[0], nil
}

// PaymentFilter narrows ListPayments. Zero fields match everything.
type PaymentFilter struct {
	EmployeeID string
	Month      time.Month
	Year       int
}

// ListPayments returns matching payments, most recent payment date first.
func (s *Store) ListPayments(ctx context.Context, f PaymentFilter) ([]payroll.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var where []string
	var args []any
	if f.EmployeeID != "" {
		where = append(where, "employee_id = ?")
		args = append(args, f.EmployeeID)
	}
	if f.Month != 0 {
		where = append(where, "month = ?")
		args = append(args, int(f.Month))
	}
	if f.Year != 0 {
		where = append(where, "year = ?")
		args = append(args, f.Year)
	}

	query := "SELECT " + paymentColumns + " FROM payments"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY payment_date DESC, created_at DESC"

	return s.queryPayments(ctx, query, args...)
}

// DeletePayment removes a payment by ID.
func (s *Store) DeletePayment(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM payments WHERE id = ?", id)
	return affectedOne(res, err)
}

const paymentColumns = "id, employee_id, amount, payment_date, month, year, remarks"

func (s *Store) queryPayments(ctx context.Context, query string, args ...any) ([]payroll.Payment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []payroll.Payment
	for rows.Next() {
		var p payroll.Payment
		var amount decimal.Decimal
		var dateStr string
		var month int
		var remarks sql.NullString
		if err := rows.Scan(&p.ID, &p.EmployeeID, &amount, &dateStr, &month, &p.Year, &remarks); err != nil {
			return nil, err
		}
		p.PaymentDate, err = generic.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("payment %s: %w", p.ID, err)
		}
		p.Amount = generic.NewMoney(amount)
		p.Month = time.Month(month)
		p.Remarks = remarks.String
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// =============================================================================
// PAYROLL SOURCE (payroll.Source interface)
// =============================================================================

// EmployeeSnapshot returns generic.ErrEntityNotFound for an unknown ID.
func (s *Store) EmployeeSnapshot(ctx context.Context, employeeID string) (*payroll.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	emp, err := s.getEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if emp == nil {
		return nil, generic.ErrEntityNotFound
	}
	snap := emp.Snapshot()
	return &snap, nil
}

func (s *Store) AttendanceInRange(ctx context.Context, employeeID string, period generic.Period) ([]payroll.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryAttendance(ctx, `
		SELECT id, employee_id, date, status, note FROM attendance
		WHERE employee_id = ? AND date >= ? AND date <= ?
		ORDER BY date ASC
	`, employeeID, period.Start.String(), period.End.String())
}

func (s *Store) PaymentsForYear(ctx context.Context, employeeID string, year int) ([]payroll.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryPayments(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE employee_id = ? AND year = ? ORDER BY payment_date ASC, created_at ASC",
		employeeID, year,
	)
}

func (s *Store) PaymentsForMonth(ctx context.Context, employeeID string, month time.Month, year int) ([]payroll.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryPayments(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE employee_id = ? AND year = ? AND month = ? ORDER BY payment_date ASC, created_at ASC",
		employeeID, year, int(month),
	)
}

// =============================================================================
// HOLIDAY CALENDAR IMPLEMENTATION
// =============================================================================

// SaveHoliday saves a holiday. A blank ID gets a new UUID.
func (s *Store) SaveHoliday(ctx context.Context, h *generic.Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if h.ID == "" {
		h.ID = uuid.NewString()
	}

	query := `
		INSERT INTO holidays (id, date, name, recurring, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(date, name) DO UPDATE SET
			recurring = excluded.recurring
	`

	_, err := s.db.ExecContext(ctx, query,
		h.ID, h.Date.String(), h.Name, h.Recurring,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// DeleteHoliday deletes a holiday by ID.
func (s *Store) DeleteHoliday(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM holidays WHERE id = ?", id)
	return affectedOne(res, err)
}

// ListHolidays returns holidays falling in year, with recurring ones moved
// into that year. Year 0 returns every stored holiday as entered.
func (s *Store) ListHolidays(ctx context.Context, year int) ([]generic.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := "SELECT id, date, name, recurring FROM holidays"
	var args []any
	if year != 0 {
		query += " WHERE recurring = TRUE OR strftime('%Y', date) = ?"
		args = append(args, fmt.Sprintf("%04d", year))
	}
	query += " ORDER BY strftime('%m-%d', date), name"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []generic.Holiday
	for rows.Next() {
		var h generic.Holiday
		var dateStr string
		if err := rows.Scan(&h.ID, &dateStr, &h.Name, &h.Recurring); err != nil {
			return nil, err
		}
		h.Date, err = generic.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("holiday %s: %w", h.ID, err)
		}
		if h.Recurring && year != 0 {
			h.Date = generic.NewTimePoint(year, h.Date.Month(), h.Date.Day())
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// IsHoliday implements generic.HolidayCalendar. Lookup errors count as
// "not a holiday" since the interface cannot report them.
func (s *Store) IsHoliday(date generic.TimePoint) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT COUNT(*) FROM holidays
		WHERE (recurring = FALSE AND date = ?)
		   OR (recurring = TRUE AND strftime('%m-%d', date) = ?)
	`

	var count int
	err := s.db.QueryRow(query, date.String(), date.Time.Format("01-02")).Scan(&count)
	if err != nil {
		return false
	}
	return count > 0
}

// =============================================================================
// RECONCILIATION RUNS STORE
// =============================================================================

const (
	RunPending   = "pending"
	RunRunning   = "running"
	RunCompleted = "completed"
	RunFailed    = "failed"
)

// ReconciliationRun records one month-close computation for one employee.
type ReconciliationRun struct {
	ID             string
	EmployeeID     string
	Month          time.Month
	Year           int
	Status         string // pending, running, completed, failed
	NetSalary      generic.Money
	TotalPaid      generic.Money
	PendingBalance generic.Money
	Error          string
	StartedAt      *time.Time
	CompletedAt    *time.Time
	CreatedAt      time.Time
}

// SaveReconciliationRun saves a run, replacing any earlier run for the
// same (employee, month, year).
func (s *Store) SaveReconciliationRun(ctx context.Context, r *ReconciliationRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO reconciliation_runs (id, employee_id, month, year, status,
			net_salary, total_paid, pending_balance, error, started_at, completed_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(employee_id, year, month) DO UPDATE SET
			status = excluded.status,
			net_salary = excluded.net_salary,
			total_paid = excluded.total_paid,
			pending_balance = excluded.pending_balance,
			error = excluded.error,
			started_at = excluded.started_at,
			completed_at = excluded.completed_at
	`

	_, err := s.db.ExecContext(ctx, query,
		r.ID, r.EmployeeID, int(r.Month), r.Year, r.Status,
		r.NetSalary.Value.String(), r.TotalPaid.Value.String(), r.PendingBalance.Value.String(),
		nullString(r.Error), formatOptionalTime(r.StartedAt), formatOptionalTime(r.CompletedAt),
		r.CreatedAt.Format(time.RFC3339),
	)
	return err
}

// GetReconciliationRuns returns runs, newest period first. An empty status
// returns all of them.
func (s *Store) GetReconciliationRuns(ctx context.Context, status string) ([]ReconciliationRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, employee_id, month, year, status, net_salary, total_paid,
			pending_balance, error, started_at, completed_at, created_at
		FROM reconciliation_runs
	`
	var args []any
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, status)
	}
	query += " ORDER BY year DESC, month DESC, employee_id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []ReconciliationRun
	for rows.Next() {
		var r ReconciliationRun
		var month int
		var net, paid, pending decimal.NullDecimal
		var errText, startedAt, completedAt sql.NullString
		var createdAt string
		if err := rows.Scan(
			&r.ID, &r.EmployeeID, &month, &r.Year, &r.Status,
			&net, &paid, &pending, &errText, &startedAt, &completedAt, &createdAt,
		); err != nil {
			return nil, err
		}

		r.Month = time.Month(month)
		r.NetSalary = generic.NewMoney(net.Decimal)
		r.TotalPaid = generic.NewMoney(paid.Decimal)
		r.PendingBalance = generic.NewMoney(pending.Decimal)
		r.Error = errText.String
		r.StartedAt = parseOptionalTime(startedAt)
		r.CompletedAt = parseOptionalTime(completedAt)
		r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

		runs = append(runs, r)
	}

	return runs, rows.Err()
}

// IsReconciliationComplete checks if a month has already been closed for an employee.
func (s *Store) IsReconciliationComplete(ctx context.Context, employeeID string, month time.Month, year int) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT COUNT(*) FROM reconciliation_runs
		WHERE employee_id = ? AND month = ? AND year = ? AND status = 'completed'
	`

	var count int
	err := s.db.QueryRowContext(ctx, query, employeeID, int(month), year).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Helper functions

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func formatOptionalTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339), Valid: true}
}

func parseOptionalTime(s sql.NullString) *time.Time {
	if !s.Valid {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return nil
	}
	return &t
}

// affectedOne maps a delete that matched nothing to generic.ErrEntityNotFound.
func affectedOne(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return generic.ErrEntityNotFound
	}
	return nil
}

func isUniqueConstraintError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key"))
}

func isForeignKeyError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
