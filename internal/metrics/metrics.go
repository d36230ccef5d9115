package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the service.
	Registry = prometheus.NewRegistry()

	// OracleCalls counts routing-oracle lookups by backend and outcome.
	OracleCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "oracle_calls_total", Help: "Routing oracle lookups by backend and outcome."},
		[]string{"backend", "outcome"},
	)
	// CacheLookups counts route-time cache hits and misses by backend.
	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "route_cache_lookups_total", Help: "Route-time cache lookups by backend and outcome."},
		[]string{"backend", "outcome"},
	)
	// SearchIterations records coordinate-descent iteration counts per search.
	SearchIterations = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "search_iterations", Help: "Coordinate-descent iterations per search.", Buckets: []float64{5, 10, 20, 40, 80, 160, 320}},
	)
	// OpDuration records internal operation durations in seconds.
	OpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "op_duration_seconds", Help: "Internal operation duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"op"},
	)
)

var regOnce sync.Once

// RegisterDefault registers collectors on the service registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(OracleCalls)
		Registry.MustRegister(CacheLookups)
		Registry.MustRegister(SearchIterations)
		Registry.MustRegister(OpDuration)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}
