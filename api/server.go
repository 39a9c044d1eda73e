/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi

MIDDLEWARE STACK:
  1. CORS:          Cross-origin requests for frontend
  2. RequestID:     Unique ID per request for tracing
  3. RequestLogger: Structured request logging (httplog, ECS schema)
  4. CleanPath:     Collapse duplicate slashes
  5. Recoverer:     Panic recovery (500 instead of crash)
  6. Heartbeat:     GET /api/health returns "." for load balancers

ROUTE GROUPS:
  /api/employees/*       Employee management
  /api/attendance/*      Daily attendance marks
  /api/payments/*        Salary payments
  /api/payslip/*         Monthly and yearly payslips
  /api/reports/*         Salary report (JSON, XLSX), analytics, attendance CSV
  /api/holidays/*        Holiday calendar (weekdays policy)
  /api/reconciliation/*  Month-close audit log
  /                      Index page listing the API

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

// DefaultAllowedOrigins is used when no origins are configured.
var DefaultAllowedOrigins = []string{"http://localhost:5173", "http://localhost:8080"}

// NewRouter creates a new router with all routes configured. Requests are
// logged through logger.
func NewRouter(h *Handler, logger *slog.Logger, allowedOrigins []string) *chi.Mux {
	if logger == nil {
		logger = h.Logger
	}
	if len(allowedOrigins) == 0 {
		allowedOrigins = DefaultAllowedOrigins
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))
	r.Use(middleware.RequestID)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))
	r.Use(middleware.CleanPath)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/api/health"))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Employee routes
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
			r.Get("/stats/dashboard", h.GetEmployeeStats)
			r.Get("/{id}", h.GetEmployee)
			r.Put("/{id}", h.UpdateEmployee)
			r.Delete("/{id}", h.DeleteEmployee)
		})

		// Attendance routes
		r.Route("/attendance", func(r chi.Router) {
			r.Get("/", h.ListAttendance)
			r.Post("/mark", h.MarkAttendance)
			r.Post("/bulk-mark", h.BulkMarkAttendance)
			r.Get("/recent", h.GetRecentActivity)
			r.Get("/summary/{employeeID}", h.GetAttendanceSummary)
			r.Delete("/{id}", h.DeleteAttendance)
		})

		// Payment routes
		r.Route("/payments", func(r chi.Router) {
			r.Get("/", h.ListPayments)
			r.Post("/", h.CreatePayment)
			r.Get("/summary/{employeeID}", h.GetPaymentSummary)
			r.Get("/{id}", h.GetPayment)
			r.Put("/{id}", h.UpdatePayment)
			r.Delete("/{id}", h.DeletePayment)
		})

		// Payslip routes
		r.Route("/payslip", func(r chi.Router) {
			r.Get("/{employeeID}", h.GetPayslip)
			r.Get("/{employeeID}/csv", h.GetPayslipCSV)
			r.Get("/{employeeID}/yearly", h.GetYearlyPayslip)
		})

		// Report routes
		r.Route("/reports", func(r chi.Router) {
			r.Get("/salary", h.GetSalaryReport)
			r.Get("/salary/xlsx", h.GetSalaryReportXLSX)
			r.Get("/analytics", h.GetAnalytics)
			r.Get("/attendance/csv", h.GetAttendanceCSV)
		})

		// Holiday routes
		r.Route("/holidays", func(r chi.Router) {
			r.Get("/", h.ListHolidays)
			r.Post("/", h.CreateHoliday)
			r.Delete("/{id}", h.DeleteHoliday)
		})

		// Reconciliation routes
		r.Route("/reconciliation", func(r chi.Router) {
			r.Get("/runs", h.ListReconciliationRuns)
			r.Post("/process", h.ProcessReconciliation)
			r.Get("/status", h.GetReconciliationStatus)
		})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Payroll Engine</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Payroll Engine API</h1>
<h2>API Endpoints</h2>
<ul>
<li><a href="/api/employees">/api/employees</a> - List employees</li>
<li><a href="/api/attendance">/api/attendance</a> - List attendance</li>
<li><a href="/api/payments">/api/payments</a> - List payments</li>
<li><a href="/api/holidays">/api/holidays</a> - List holidays</li>
<li><a href="/api/reconciliation/runs">/api/reconciliation/runs</a> - Month-close runs</li>
</ul>
</body>
</html>`))
	})

	return r
}
