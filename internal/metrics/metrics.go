package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookminton_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bookminton_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookminton_bookings_total",
			Help: "Bookings created, by booking type",
		},
		[]string{"type"},
	)

	SchedulesCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookminton_schedules_created_total",
			Help: "Schedule entries materialised from bookings",
		},
	)

	BookingConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookminton_booking_conflicts_total",
			Help: "Bookings rejected because a slot was already held",
		},
	)

	BookingCancellationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookminton_booking_cancellations_total",
			Help: "Total number of booking cancellations",
		},
	)

	PackagePurchasesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookminton_package_purchases_total",
			Help: "Package purchases, by package type and payment mode",
		},
		[]string{"package_type", "mode"},
	)

	PurchasesExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookminton_purchases_expired_total",
			Help: "Package purchases moved to EXPIRED by the sweeper",
		},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookminton_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bookminton_email_queue_length",
			Help: "Current length of email queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// RecordBooking counts one booking and the schedule entries it produced.
func RecordBooking(bookingType string, schedules int) {
	BookingsTotal.WithLabelValues(bookingType).Inc()
	SchedulesCreatedTotal.Add(float64(schedules))
}

func RecordBookingConflict() {
	BookingConflictsTotal.Inc()
}

func RecordBookingCancellation() {
	BookingCancellationsTotal.Inc()
}

func RecordPackagePurchase(packageType, mode string) {
	PackagePurchasesTotal.WithLabelValues(packageType, mode).Inc()
}

func RecordPurchasesExpired(n int64) {
	PurchasesExpiredTotal.Add(float64(n))
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}
