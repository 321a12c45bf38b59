package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	bookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookings_total",
			Help: "Total booking attempts by result",
		},
		[]string{"result"},
	)

	paymentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_total",
			Help: "Total payment operations by type and result",
		},
		[]string{"operation", "result"},
	)

	ledgerConflictsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seat_ledger_conflicts_total",
			Help: "Rejected seat ledger updates by reason",
		},
		[]string{"reason"},
	)

	reconcileDrift = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "inventory_reconcile_drift_seats",
			Help: "Seat drift found by the last reconcile run per event",
		},
		[]string{"event_id"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

func TrackBooking(result string) {
	bookingsTotal.WithLabelValues(result).Inc()
}

func TrackPayment(operation, result string) {
	paymentsTotal.WithLabelValues(operation, result).Inc()
}

func TrackLedgerConflict(reason string) {
	ledgerConflictsTotal.WithLabelValues(reason).Inc()
}

func TrackReconcileDrift(eventID string, drift int) {
	reconcileDrift.WithLabelValues(eventID).Set(float64(drift))
}

func TrackHTTPRequest(method, path, status string, duration time.Duration) {
	httpDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}
