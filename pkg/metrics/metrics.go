package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MQ consumption latency in milliseconds
	MQConsumeLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mq_consume_latency_ms",
			Help:    "MQ message consumption latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(10, 2, 10), // 10ms to ~10s
		},
		[]string{"routing_key", "queue"},
	)

	// HTTP request latency in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// Habit toggle counter
	TrackingToggleCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracking_toggle_count",
			Help: "Total number of habit completion toggles",
		},
		[]string{"completed"}, // completed: true, false
	)

	// Subscription state transition counter
	SubscriptionTransitionCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subscription_transition_count",
			Help: "Total number of subscription state transitions",
		},
		[]string{"transition"}, // transition: submitted, approved, rejected, paused, resumed, expired
	)

	// Notification email counter
	EmailSentCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "email_sent_count",
			Help: "Total number of notification emails sent",
		},
		[]string{"status"}, // status: success, failed
	)

	// Slow query counter
	SlowQueryCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "db_slow_query_count",
			Help: "Total number of queries over the slow threshold",
		},
	)
)

// RecordMQConsumeLatency records MQ consumption latency
func RecordMQConsumeLatency(routingKey, queue string, duration time.Duration) {
	MQConsumeLatency.WithLabelValues(routingKey, queue).Observe(float64(duration.Milliseconds()))
}

// RecordHTTPRequestDuration records HTTP request latency
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// IncrementTrackingToggle counts one completion toggle
func IncrementTrackingToggle(completed string) {
	TrackingToggleCount.WithLabelValues(completed).Inc()
}

// IncrementSubscriptionTransition counts one subscription state change
func IncrementSubscriptionTransition(transition string) {
	SubscriptionTransitionCount.WithLabelValues(transition).Inc()
}

// IncrementEmailSent counts one notification email attempt
func IncrementEmailSent(status string) {
	EmailSentCount.WithLabelValues(status).Inc()
}

// IncrementSlowQuery counts one slow query
func IncrementSlowQuery() {
	SlowQueryCount.Inc()
}
