package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Global metric definitions. promauto registers them on the default registry
// so the server only has to mount the promhttp handler.

var (
	// HTTP surface.
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "beliefdb_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "beliefdb_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path"},
	)

	// Inference workload.
	SamplingRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "beliefdb_sampling_runs_total",
			Help: "Total number of sampling runs, by strategy and outcome",
		},
		[]string{"strategy", "outcome"},
	)

	SamplingIterationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "beliefdb_sampling_iterations_total",
			Help: "Total iterations drawn across all sampling runs",
		},
		[]string{"strategy"},
	)

	SamplingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "beliefdb_sampling_run_duration_seconds",
			Help:    "Wall-clock duration of sampling runs",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
		},
		[]string{"strategy"},
	)

	IndependenceChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "beliefdb_independence_checks_total",
			Help: "Total number of d-separation checks, by result",
		},
		[]string{"result"},
	)

	// Network size.
	NetworkNodes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "beliefdb_network_nodes",
			Help: "Number of live nodes in the network",
		},
	)
)
