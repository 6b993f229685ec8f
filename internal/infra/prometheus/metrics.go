package prometheus

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Contact pipeline
	contactSubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contact_submissions_total",
			Help: "Contact form submissions accepted onto the queue",
		},
		[]string{"source"},
	)

	contactEmailsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contact_emails_total",
			Help: "Contact email delivery outcomes",
		},
		[]string{"result"},
	)

	// Analytics pipeline
	analyticsEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_events_total",
			Help: "Analytics events stored",
		},
		[]string{"type"},
	)
)

// Email delivery results.
const (
	EmailSent      = "sent"
	EmailRetried   = "retried"
	EmailDuplicate = "duplicate"
)

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(method, route string, status int, elapsed time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func RecordContactSubmission(source string) {
	contactSubmissionsTotal.WithLabelValues(source).Inc()
}

func RecordContactEmail(result string) {
	contactEmailsTotal.WithLabelValues(result).Inc()
}

func RecordAnalyticsEvent(eventType string) {
	analyticsEventsTotal.WithLabelValues(eventType).Inc()
}
