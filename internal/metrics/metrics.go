package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "services_booking"

var (
	once sync.Once

	bookingCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_created_total",
			Help:      "Count of bookings created.",
		},
	)

	bookingConflict = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_conflict_total",
			Help:      "Count of bookings rejected because the slot was taken.",
		},
		[]string{"stage"},
	)

	bookingStatus = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_status_changed_total",
			Help:      "Count of booking status transitions by target status.",
		},
		[]string{"status"},
	)

	leadCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lead_created_total",
			Help:      "Count of leads received by kind.",
		},
		[]string{"kind"},
	)

	notificationFailed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_failed_total",
			Help:      "Count of emails that could not be delivered.",
		},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			bookingCreated,
			bookingConflict,
			bookingStatus,
			leadCreated,
			notificationFailed,
			httpDuration,
		)
	})
}

func IncBookingCreated() {
	bookingCreated.Inc()
}

// IncBookingConflict counts a rejected booking. stage tells which guard
// caught it: "check" for the overlap check, "index" for the unique index.
func IncBookingConflict(stage string) {
	bookingConflict.WithLabelValues(stage).Inc()
}

func IncBookingStatus(status string) {
	bookingStatus.WithLabelValues(status).Inc()
}

func IncLeadCreated(kind string) {
	leadCreated.WithLabelValues(kind).Inc()
}

func IncNotificationFailed() {
	notificationFailed.Inc()
}

func ObserveHTTP(method, route, status string, seconds float64) {
	httpDuration.WithLabelValues(method, route, status).Observe(seconds)
}
