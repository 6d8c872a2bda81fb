// Package metrics holds the Prometheus collectors of the service
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	HTTPInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Number of HTTP requests currently being served",
		},
	)

	// LoginAttempts is partitioned by role and outcome (success, invalid_credentials, disabled, expired)
	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinic_login_attempts_total",
			Help: "Login attempts by role and outcome",
		},
		[]string{"role", "outcome"},
	)

	// OTPEvents counts send, verify and reset steps of the password reset flow
	OTPEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinic_password_reset_events_total",
			Help: "Password reset protocol events by step and outcome",
		},
		[]string{"step", "outcome"},
	)

	SalaryEntries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinic_salary_entries_total",
			Help: "Salary ledger entries appended by type",
		},
		[]string{"type"},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinic_notifications_total",
			Help: "Outbound notifications by channel and outcome",
		},
		[]string{"channel", "outcome"},
	)
)

// StatusLabel renders an HTTP status as a label value
func StatusLabel(status int) string {
	return strconv.Itoa(status)
}
