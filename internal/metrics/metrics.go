package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ht_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ht_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ReservationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ht_reservations_total",
			Help: "Total number of reservations booked",
		},
		[]string{"type"},
	)

	BookingConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ht_booking_conflicts_total",
			Help: "Bookings refused because the slot was taken or the court unavailable",
		},
	)

	WeeklySeriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ht_weekly_series_total",
			Help: "Total number of weekly repeat series created",
		},
	)

	ReservationDeletionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ht_reservation_deletions_total",
			Help: "Total number of reservation deletions (series count as one)",
		},
	)

	CourtSetupClonesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ht_court_setup_clones_total",
			Help: "Total number of court setup clones",
		},
	)

	ReservationTransfersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ht_reservation_transfers_total",
			Help: "Reservations moved between court setups",
		},
		[]string{"outcome"},
	)

	ActivityEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ht_activity_events_total",
			Help: "Activity events queued to the stream",
		},
		[]string{"verb"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordReservation(resType string) {
	ReservationsTotal.WithLabelValues(resType).Inc()
}

func RecordBookingConflict() {
	BookingConflictsTotal.Inc()
}

func RecordWeeklySeries() {
	WeeklySeriesTotal.Inc()
}

func RecordReservationDeletion() {
	ReservationDeletionsTotal.Inc()
}

func RecordCourtSetupClone() {
	CourtSetupClonesTotal.Inc()
}

func RecordTransfer(outcome string) {
	ReservationTransfersTotal.WithLabelValues(outcome).Inc()
}

func RecordActivityEvent(verb string) {
	ActivityEventsTotal.WithLabelValues(verb).Inc()
}
