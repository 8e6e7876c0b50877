package telemetry

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once sync.Once

	JobsStarted   = prometheus.NewCounter(prometheus.CounterOpts{Name: "gateway_jobs_started_total", Help: "Jobs accepted on the start endpoint"})
	JobsCompleted = prometheus.NewCounter(prometheus.CounterOpts{Name: "gateway_jobs_completed_total", Help: "Jobs that reached the completed state"})
	JobsFailed    = prometheus.NewCounter(prometheus.CounterOpts{Name: "gateway_jobs_failed_total", Help: "Jobs that reached the failed state"})
	PoolInFlight  = prometheus.NewGauge(prometheus.GaugeOpts{Name: "gateway_pool_inflight", Help: "External calls currently running on the worker pool"})
	StageDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gateway_stage_duration_seconds",
		Help:    "Duration of one generation stage",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
	}, []string{"stage"})
)

// Handler exposes the /metrics HTTP handler with a singleton registry.
func Handler() http.Handler {
	once.Do(func() {
		prometheus.MustRegister(
			JobsStarted,
			JobsCompleted,
			JobsFailed,
			PoolInFlight,
			StageDuration,
		)
	})
	return promhttp.Handler()
}
