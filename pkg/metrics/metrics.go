package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Store metrics
	StoreOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nurseduty_store_operations_total",
			Help: "Total number of document store operations by collection, operation and result",
		},
		[]string{"collection", "operation", "result"},
	)

	StoreOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nurseduty_store_operation_duration_seconds",
			Help:    "Document store operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"collection", "operation"},
	)

	DocumentEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nurseduty_document_events_total",
			Help: "Total number of document change events by type and collection",
		},
		[]string{"type", "collection"},
	)

	RosterNurses = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "nurseduty_roster_nurses",
			Help: "Number of nurses on the roster by state",
		},
		[]string{"state"},
	)

	// API metrics
	APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nurseduty_api_requests_total",
			Help: "Total number of API requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nurseduty_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

func init() {
	prometheus.MustRegister(StoreOperationsTotal)
	prometheus.MustRegister(StoreOperationDuration)
	prometheus.MustRegister(DocumentEventsTotal)
	prometheus.MustRegister(RosterNurses)
	prometheus.MustRegister(APIRequestsTotal)
	prometheus.MustRegister(APIRequestDuration)
}

// Result label values for StoreOperationsTotal
const (
	ResultOK       = "ok"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

// SetRosterCounts updates the roster gauges
func SetRosterCounts(active, inactive int) {
	RosterNurses.WithLabelValues("active").Set(float64(active))
	RosterNurses.WithLabelValues("inactive").Set(float64(inactive))
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
