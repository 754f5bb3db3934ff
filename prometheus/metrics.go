package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// Login counters
	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "hr_auth_login_total",
			Help: "Total number of login attempts",
		},
	)

	RefreshCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "hr_auth_refresh_total",
			Help: "Total number of token refresh attempts",
		},
	)

	// Error counters
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hr_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"type"}, // type can be "invalid_credentials", "invalid_token", etc.
	)

	// Leave workflow counters
	LeaveSubmittedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "hr_leave_requests_submitted_total",
			Help: "Total number of submitted leave requests",
		},
	)

	LeaveTransitionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hr_leave_transitions_total",
			Help: "Total number of leave request status transitions",
		},
		[]string{"status"}, // APPROVED, REJECTED, CANCELLED
	)

	LeaveRejectionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hr_leave_validation_failures_total",
			Help: "Total number of leave submissions rejected by validation",
		},
		[]string{"reason"}, // "bad_dates", "overlap", "quota_exceeded"
	)

	// Notification counters
	NotificationCreatedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "hr_notifications_created_total",
			Help: "Total number of persisted notifications",
		},
	)

	NotificationPushCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hr_notification_pushes_total",
			Help: "Total number of real-time notification pushes",
		},
		[]string{"result"}, // "delivered", "offline"
	)

	// Chat counters
	ChatMessageCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hr_chat_messages_total",
			Help: "Total number of chat messages sent",
		},
		[]string{"kind"}, // "private", "group"
	)

	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hr_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hr_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hr_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // operation can be "query", "insert", "update", "delete"
	)
)

// Gauge metrics
var (
	// Active websocket connections
	ActiveWebsocketGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "hr_websocket_connections_active",
			Help: "Number of currently connected websocket clients",
		},
	)

	// Active sessions
	ActiveSessionGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "hr_auth_sessions_active",
			Help: "Number of currently active sessions",
		},
	)
)

// InitMetrics registers all metrics with the Prometheus registry
func InitMetrics() {
	prometheus.MustRegister(
		LoginCounter,
		RefreshCounter,
		AuthErrorCounter,
		LeaveSubmittedCounter,
		LeaveTransitionCounter,
		LeaveRejectionCounter,
		NotificationCreatedCounter,
		NotificationPushCounter,
		ChatMessageCounter,
		HTTPRequestCounter,
		RequestDuration,
		DBOperationDuration,
		ActiveWebsocketGauge,
		ActiveSessionGauge,
	)
}

// RecordAuthError increments the auth error counter for the given type
func RecordAuthError(errorType string) {
	AuthErrorCounter.WithLabelValues(errorType).Inc()
}

// TrackDBOperation returns a function that records the duration of a database
// operation when called. Use with defer:
//
//	defer prometheus.TrackDBOperation("query")(time.Now())
func TrackDBOperation(operation string) func(time.Time) {
	return func(start time.Time) {
		DBOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}

// MetricsMiddleware creates an Echo middleware function that records HTTP request metrics
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			status := c.Response().Status
			method := c.Request().Method
			path := c.Path()
			statusStr := strconv.Itoa(status)

			HTTPRequestCounter.WithLabelValues(path, method, statusStr).Inc()
			RequestDuration.WithLabelValues(path, method, statusStr).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// GetPrometheusHandler returns an HTTP handler for exposing Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}
