package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payroll-engine/config"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"APP_PORT", "APP_ENV", "LOG_LEVEL", "DB_PATH", "CORS_ALLOWED_ORIGINS",
		"PAYROLL_WORKING_DAY_POLICY", "RECONCILIATION_ENABLED", "RECONCILIATION_INTERVAL",
	} {
		t.Setenv(key, "")
	}

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, "payroll.db", cfg.Database.Path)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "calendar", cfg.Payroll.WorkingDayPolicy)
	assert.True(t, cfg.Reconciliation.Enabled)
	assert.Equal(t, time.Hour, cfg.Reconciliation.Interval)
	assert.Equal(t, ":8080", cfg.Addr())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DB_PATH", ":memory:")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://hr.example.com, https://admin.example.com")
	t.Setenv("PAYROLL_WORKING_DAY_POLICY", "weekdays")
	t.Setenv("RECONCILIATION_ENABLED", "false")
	t.Setenv("RECONCILIATION_INTERVAL", "15m")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, ":memory:", cfg.Database.Path)
	assert.Equal(t, []string{"https://hr.example.com", "https://admin.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "weekdays", cfg.Payroll.WorkingDayPolicy)
	assert.False(t, cfg.Reconciliation.Enabled)
	assert.Equal(t, 15*time.Minute, cfg.Reconciliation.Interval)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"APP_PORT":                   "eighty",
		"PAYROLL_WORKING_DAY_POLICY": "lunar",
		"RECONCILIATION_INTERVAL":    "soon",
		"RECONCILIATION_ENABLED":     "maybe",
		"LOG_LEVEL":                  "loud",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	level, err := config.ParseLogLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)
}
