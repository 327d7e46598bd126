package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	PollCyclesTotal     *prometheus.CounterVec
	NewRowsTotal        prometheus.Counter
	ThreatBatchesTotal  *prometheus.CounterVec
	ThreatBatchDuration prometheus.Histogram
	LedgerRowsTotal     *prometheus.CounterVec
	LedgerWriteFailures *prometheus.CounterVec
)

var initOnce sync.Once

// Init registers all collectors on the default registry. Safe to call
// more than once; only the first call registers.
func Init() {
	initOnce.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	PollCyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_poll_cycles_total",
			Help: "Total number of completed feed poll cycles.",
		},
		[]string{"outcome"}, // outcome: ok, source_unavailable, schema_mismatch, publish_failed
	)

	NewRowsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_new_rows_total",
			Help: "Total number of feed rows flagged as new by the differ.",
		},
	)

	ThreatBatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blacklist_batches_total",
			Help: "Total number of blacklist batch queries.",
		},
		[]string{"status"}, // status: success, failure
	)

	ThreatBatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "blacklist_batch_duration_seconds",
			Help:    "Duration of blacklist batch queries.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	LedgerRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_rows_written_total",
			Help: "Total number of rows appended to the ledger.",
		},
		[]string{"store"}, // store: csv, postgres
	)

	LedgerWriteFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_write_failures_total",
			Help: "Total number of failed ledger appends.",
		},
		[]string{"store"},
	)
}
