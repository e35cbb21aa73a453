package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// webhookRequestDuration measures webhook call latency up to the hand-off
	webhookRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "webhook_request_duration_seconds",
			Help:    "Duration of webhook requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status"},
	)

	webhookRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_requests_total",
			Help: "Total number of webhook requests",
		},
		[]string{"status"},
	)

	updatesProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "updates_processed_total",
			Help: "Total number of updates processed by workers",
		},
		[]string{"result"},
	)

	queueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "update_queue_depth",
			Help: "Number of updates waiting for a worker",
		},
	)

	ledgerOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ledger_operation_duration_seconds",
			Help:    "Duration of ledger operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "status"},
	)

	ledgerOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_operations_total",
			Help: "Total number of ledger operations",
		},
		[]string{"operation", "status"},
	)

	donationsStarsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "donations_stars_total",
			Help: "Total Stars received through confirmed payments",
		},
	)
)

// Handler exposes the prometheus registry
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordWebhook records a finished webhook request
func RecordWebhook(status int, duration time.Duration) {
	code := strconv.Itoa(status)
	webhookRequestDuration.WithLabelValues(code).Observe(duration.Seconds())
	webhookRequestsTotal.WithLabelValues(code).Inc()
}

// RecordUpdate records the result of processing one update
func RecordUpdate(result string) {
	updatesProcessedTotal.WithLabelValues(result).Inc()
}

// SetQueueDepth reports the current queue length
func SetQueueDepth(n int) {
	queueDepth.Set(float64(n))
}

// RecordLedgerOperation records a ledger call
func RecordLedgerOperation(operation string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	ledgerOperationDuration.WithLabelValues(operation, status).Observe(duration.Seconds())
	ledgerOperationsTotal.WithLabelValues(operation, status).Inc()
}

// RecordDonation adds confirmed Stars
func RecordDonation(amount int) {
	donationsStarsTotal.Add(float64(amount))
}
