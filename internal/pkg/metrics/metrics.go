package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	bookingSaves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_saves_total",
			Help: "Booking create/edit attempts by outcome",
		},
		[]string{"operation", "outcome"},
	)

	availabilityFindings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "availability_findings_total",
			Help: "Conflicts and warnings reported by availability checks",
		},
		[]string{"kind"},
	)

	statusTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_status_transitions_total",
			Help: "Booking status changes applied",
		},
		[]string{"from", "to"},
	)

	txRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "db_transaction_retries_total",
			Help: "Transactions retried after serialization failures or deadlocks",
		},
	)

	cacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "venue_days_cache_lookups_total",
			Help: "Venue unavailable-day cache lookups by result",
		},
		[]string{"result"},
	)

	quotes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "booking_quotes_total",
			Help: "Price quotes computed",
		},
	)

	acknowledgmentGates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_acknowledgment_gates_total",
			Help: "Saves that hit availability conflicts, by whether they were acknowledged",
		},
		[]string{"outcome"},
	)

	statusRefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "status_refresh_duration_seconds",
			Help:    "Duration of the periodic status refresh",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
		},
	)
)

func RecordBookingSave(operation, outcome string) {
	bookingSaves.WithLabelValues(operation, outcome).Inc()
}

func RecordAvailabilityFinding(kind string, n int) {
	if n <= 0 {
		return
	}
	availabilityFindings.WithLabelValues(kind).Add(float64(n))
}

func RecordStatusTransition(from, to string) {
	statusTransitions.WithLabelValues(from, to).Inc()
}

func RecordTxRetry() {
	txRetries.Inc()
}

func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookups.WithLabelValues(result).Inc()
}

func RecordQuote() {
	quotes.Inc()
}

func RecordAcknowledgmentGate(acknowledged bool) {
	outcome := "blocked"
	if acknowledged {
		outcome = "acknowledged"
	}
	acknowledgmentGates.WithLabelValues(outcome).Inc()
}

func ObserveStatusRefresh(seconds float64) {
	statusRefreshDuration.Observe(seconds)
}
