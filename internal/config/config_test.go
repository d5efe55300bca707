package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "http://localhost:5000", cfg.BackendBaseURL)
	assert.Equal(t, 15*time.Second, cfg.BackendTimeout)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Greater(t, cfg.RequestTimeout, cfg.BackendTimeout,
		"request budget must outlast a backend call")
	assert.Equal(t, "POS_USER", cfg.OperatorEmpID)
	assert.Equal(t, "POS Operator", cfg.OperatorUsername)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("POS_PORT", "9090")
	t.Setenv("POS_BACKEND_URL", "http://backend:5000")
	t.Setenv("POS_BACKEND_TIMEOUT", "5s")
	t.Setenv("POS_REQUEST_TIMEOUT", "12s")
	t.Setenv("POS_OPERATOR_EMPID", "KIOSK_2")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "http://backend:5000", cfg.BackendBaseURL)
	assert.Equal(t, 5*time.Second, cfg.BackendTimeout)
	assert.Equal(t, 12*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "KIOSK_2", cfg.OperatorEmpID)
}

func TestGetDuration(t *testing.T) {
	t.Setenv("D", "45")
	assert.Equal(t, 45*time.Second, getDuration("D", time.Minute), "bare integers are seconds")

	t.Setenv("D", "2m")
	assert.Equal(t, 2*time.Minute, getDuration("D", time.Minute))

	t.Setenv("D", "garbage")
	assert.Equal(t, time.Minute, getDuration("D", time.Minute))
}
