/*
scheduler.go - Automated month-close reconciliation

PURPOSE:
  Periodically closes the previous calendar month: for every active
  employee it computes the month's payroll and records net, paid and
  pending in reconciliation_runs. The rows are an audit log; the payroll
  engine itself persists nothing and recomputes on demand.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Targets the month before "now", so a month is closed once it has ended
  - Skips employees whose month is already completed (idempotent)
  - Failed runs are recorded and retried on the next tick

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 hour)
  - Enabled: Whether scheduler is active (default: true)

USAGE:
  scheduler := NewReconciliationScheduler(store, svc, logger)
  scheduler.Start()
  // ... later
  scheduler.Stop()

  A stopped scheduler can be started again.

SEE ALSO:
  - handlers.go: ProcessReconciliation endpoint (manual close)
  - payroll/service.go: Service.Monthly
*/
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/warp/payroll-engine/generic"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/store/sqlite"
)

// ReconciliationScheduler handles automated month-close reconciliation.
type ReconciliationScheduler struct {
	Store         *sqlite.Store
	Payroll       *payroll.Service
	Logger        *slog.Logger
	CheckInterval time.Duration
	Enabled       bool

	// Now is the clock used to pick the month to close.
	Now func() time.Time

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex

	// lastRun is guarded by stateMu; passes also run from RunNow.
	stateMu sync.Mutex
	lastRun time.Time
}

// SchedulerStatus is a point-in-time view of the scheduler.
type SchedulerStatus struct {
	Enabled   bool
	Running   bool
	Interval  time.Duration
	LastRunAt time.Time // zero before the first pass
	NextRunAt time.Time // zero when not running
}

// MonthCloseSummary reports one pass over all active employees.
type MonthCloseSummary struct {
	Month     int      `json:"month"`
	Year      int      `json:"year"`
	Processed int      `json:"processed"`
	Skipped   int      `json:"skipped"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors,omitempty"`
}

// NewReconciliationScheduler creates a new scheduler.
func NewReconciliationScheduler(store *sqlite.Store, svc *payroll.Service, logger *slog.Logger) *ReconciliationScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReconciliationScheduler{
		Store:         store,
		Payroll:       svc,
		Logger:        logger.With(slog.String("component", "reconciliation")),
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		Now:           time.Now,
	}
}

// Start begins the scheduler.
func (rs *ReconciliationScheduler) Start() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if !rs.Enabled {
		rs.Logger.Info("scheduler disabled, not starting")
		return
	}
	if rs.ticker != nil {
		return
	}

	rs.ticker = time.NewTicker(rs.CheckInterval)
	rs.stop = make(chan struct{})
	rs.wg.Add(1)

	go rs.run(rs.ticker, rs.stop)

	rs.Logger.Info("scheduler started", slog.Duration("interval", rs.CheckInterval))
}

// Stop stops the scheduler and waits for an in-flight pass to finish.
func (rs *ReconciliationScheduler) Stop() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.ticker != nil {
		rs.ticker.Stop()
		close(rs.stop)
		rs.wg.Wait()
		rs.ticker = nil
		rs.Logger.Info("scheduler stopped")
	}
}

func (rs *ReconciliationScheduler) run(ticker *time.Ticker, stop <-chan struct{}) {
	defer rs.wg.Done()

	// Run immediately on start
	rs.checkAndProcess()

	for {
		select {
		case <-ticker.C:
			rs.checkAndProcess()
		case <-stop:
			return
		}
	}
}

func (rs *ReconciliationScheduler) checkAndProcess() {
	summary, err := rs.RunNow(context.Background())
	if err != nil {
		rs.Logger.Error("month close failed", slog.Int("year", summary.Year), slog.Int("month", summary.Month), slog.Any("error", err))
		return
	}
	if summary.Processed > 0 || summary.Failed > 0 {
		rs.Logger.Info("month close completed",
			slog.Int("year", summary.Year),
			slog.Int("month", summary.Month),
			slog.Int("processed", summary.Processed),
			slog.Int("skipped", summary.Skipped),
			slog.Int("failed", summary.Failed),
		)
	}
}

// RunNow closes the month before Now immediately, outside the ticker.
func (rs *ReconciliationScheduler) RunNow(ctx context.Context) (MonthCloseSummary, error) {
	now := rs.Now()
	year, month := generic.PreviousMonth(generic.DayOf(now))

	rs.stateMu.Lock()
	rs.lastRun = now
	rs.stateMu.Unlock()

	summary, err := rs.CloseMonth(ctx, month, year)
	summary.Month, summary.Year = int(month), year
	return summary, err
}

// GetNextRunTime returns when the next scheduled check will occur, or the
// zero time when the scheduler is not running.
func (rs *ReconciliationScheduler) GetNextRunTime() time.Time {
	rs.mu.Lock()
	running := rs.ticker != nil
	rs.mu.Unlock()
	if !running {
		return time.Time{}
	}

	rs.stateMu.Lock()
	defer rs.stateMu.Unlock()
	if rs.lastRun.IsZero() {
		return rs.Now()
	}
	return rs.lastRun.Add(rs.CheckInterval)
}

// Status reports whether the scheduler is running and when it runs next.
func (rs *ReconciliationScheduler) Status() SchedulerStatus {
	rs.mu.Lock()
	running := rs.ticker != nil
	rs.mu.Unlock()

	rs.stateMu.Lock()
	lastRun := rs.lastRun
	rs.stateMu.Unlock()

	return SchedulerStatus{
		Enabled:   rs.Enabled,
		Running:   running,
		Interval:  rs.CheckInterval,
		LastRunAt: lastRun,
		NextRunAt: rs.GetNextRunTime(),
	}
}

// CloseMonth reconciles (month, year) for every active employee that has
// no completed run yet. A failure for one employee is recorded and does
// not stop the others.
func (rs *ReconciliationScheduler) CloseMonth(ctx context.Context, month time.Month, year int) (MonthCloseSummary, error) {
	if err := payroll.ValidatePeriod(month, year); err != nil {
		return MonthCloseSummary{}, err
	}

	employees, err := rs.Store.ListEmployees(ctx, sqlite.EmployeeActive)
	if err != nil {
		return MonthCloseSummary{}, fmt.Errorf("list employees: %w", err)
	}

	summary := MonthCloseSummary{Month: int(month), Year: year}
	for _, emp := range employees {
		done, err := rs.Store.IsReconciliationComplete(ctx, emp.ID, month, year)
		if err != nil {
			return summary, fmt.Errorf("check reconciliation status: %w", err)
		}
		if done {
			summary.Skipped++
			continue
		}

		if err := rs.processEmployee(ctx, emp.ID, month, year); err != nil {
			rs.Logger.Warn("reconciliation failed",
				slog.String("employee_id", emp.ID),
				slog.Int("year", year),
				slog.Int("month", int(month)),
				slog.Any("error", err),
			)
			summary.Failed++
			summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", emp.EmployeeCode, err))
			continue
		}
		summary.Processed++
	}
	return summary, nil
}

func (rs *ReconciliationScheduler) processEmployee(ctx context.Context, employeeID string, month time.Month, year int) error {
	startTime := rs.Now().UTC()

	run := sqlite.ReconciliationRun{
		EmployeeID: employeeID,
		Month:      month,
		Year:       year,
		Status:     sqlite.RunRunning,
		StartedAt:  &startTime,
		CreatedAt:  startTime,
	}
	if err := rs.Store.SaveReconciliationRun(ctx, &run); err != nil {
		return fmt.Errorf("failed to save run record: %w", err)
	}

	result, err := rs.Payroll.Monthly(ctx, employeeID, month, year)
	if err != nil {
		run.Status = sqlite.RunFailed
		run.Error = err.Error()
		if saveErr := rs.Store.SaveReconciliationRun(ctx, &run); saveErr != nil {
			return errors.Join(err, fmt.Errorf("failed to update run record: %w", saveErr))
		}
		return err
	}

	completedTime := rs.Now().UTC()
	run.Status = sqlite.RunCompleted
	run.NetSalary = result.NetSalary
	run.TotalPaid = result.TotalPaid
	run.PendingBalance = result.PendingBalance
	run.Error = ""
	run.CompletedAt = &completedTime

	if err := rs.Store.SaveReconciliationRun(ctx, &run); err != nil {
		return fmt.Errorf("failed to update run record: %w", err)
	}

	rs.Logger.Debug("reconciled",
		slog.String("employee_id", employeeID),
		slog.String("net", result.NetSalary.Round2().StringFixed()),
		slog.String("paid", result.TotalPaid.Round2().StringFixed()),
		slog.String("pending", result.PendingBalance.Round2().StringFixed()),
	)
	return nil
}
