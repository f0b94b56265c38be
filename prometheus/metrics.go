package prometheus

import (
	"time"

	"storefront-service/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec

	// Authentication metrics
	LoginCounter    prometheus.Counter
	RegisterCounter prometheus.Counter
	AuthErrors      *prometheus.CounterVec

	// OTP metrics
	OTPRequestsCounter     prometheus.Counter
	OTPSendFailuresCounter prometheus.Counter

	// Database operation metrics
	DbOperationDuration *prometheus.HistogramVec

	// Product metrics
	ProductOperationsCounter *prometheus.CounterVec

	initialized bool
)

// InitMetrics initializes Prometheus metrics with configuration. Safe to
// call once per process; repeated calls are ignored because promauto
// panics on duplicate registration.
func InitMetrics(config *config.Config) {
	if initialized {
		return
	}
	initialized = true

	prefix := config.Metrics.Prefix

	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	LoginCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_login_attempts_total",
			Help: "Total number of login attempts",
		},
	)

	RegisterCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_register_attempts_total",
			Help: "Total number of registration attempts",
		},
	)

	AuthErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"reason"},
	)

	OTPRequestsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_otp_requests_total",
			Help: "Total number of OTP issuance requests",
		},
	)

	OTPSendFailuresCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_otp_send_failures_total",
			Help: "Total number of failed OTP mail deliveries",
		},
	)

	DbOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	ProductOperationsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_product_operations_total",
			Help: "Total number of product operations",
		},
		[]string{"operation"},
	)
}

// RecordHTTPRequest records one completed HTTP request
func RecordHTTPRequest(method, path, status string, duration float64) {
	if HttpRequestsTotal == nil {
		return
	}
	HttpRequestsTotal.WithLabelValues(method, path, status).Inc()
	HttpRequestDuration.WithLabelValues(method, path, status).Observe(duration)
}

// RecordLogin increments the login attempt counter
func RecordLogin() {
	if LoginCounter != nil {
		LoginCounter.Inc()
	}
}

// RecordRegister increments the registration attempt counter
func RecordRegister() {
	if RegisterCounter != nil {
		RegisterCounter.Inc()
	}
}

// RecordAuthError increments the auth error counter for a reason
func RecordAuthError(reason string) {
	if AuthErrors != nil {
		AuthErrors.WithLabelValues(reason).Inc()
	}
}

// RecordOTPRequest increments the OTP request counter
func RecordOTPRequest() {
	if OTPRequestsCounter != nil {
		OTPRequestsCounter.Inc()
	}
}

// RecordOTPSendFailure increments the OTP mail failure counter
func RecordOTPSendFailure() {
	if OTPSendFailuresCounter != nil {
		OTPSendFailuresCounter.Inc()
	}
}

// RecordProductOperation increments the counter for product operations
func RecordProductOperation(operation string) {
	if ProductOperationsCounter != nil {
		ProductOperationsCounter.WithLabelValues(operation).Inc()
	}
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		if DbOperationDuration == nil {
			return
		}
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}
