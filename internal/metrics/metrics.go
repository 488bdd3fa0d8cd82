package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cycle outcomes.
const (
	CycleAdvanced = "advanced"
	CycleIdle     = "idle"
	CycleFailed   = "failed"
)

var (
	// Indexing metrics
	lastIndexedBlock = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "starosca_last_indexed_block",
			Help: "The persisted cursor: last block whose events are durably stored",
		},
	)

	chainHead = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "starosca_chain_head_block",
			Help: "The head block observed by the last poll cycle",
		},
	)

	pollCycles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "starosca_poll_cycles_total",
			Help: "Total number of poll cycles by outcome",
		},
		[]string{"outcome"},
	)

	pollCycleTime = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "starosca_poll_cycle_duration_seconds",
			Help:    "Duration of poll cycles by outcome",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	blocksProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "starosca_blocks_processed_total",
			Help: "Total number of blocks covered by committed poll cycles",
		},
	)

	eventsIndexed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "starosca_events_indexed_total",
			Help: "Total number of contract events applied to the store by kind",
		},
		[]string{"event"},
	)

	watchedPools = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "starosca_watched_pools",
			Help: "Number of pool contracts watched for events",
		},
	)

	// System metrics
	uptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "starosca_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)

	errorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "starosca_errors_total",
			Help: "Total number of errors by component",
		},
		[]string{"component"},
	)

	componentHealth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "starosca_component_health",
			Help: "Component health status (1=healthy, 0=unhealthy)",
		},
		[]string{"component"},
	)

	goroutines = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "starosca_goroutines",
			Help: "Number of active goroutines",
		},
	)

	memoryUsage = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "starosca_memory_usage_bytes",
			Help: "Memory usage statistics",
		},
		[]string{"type"},
	)

	startTime = time.Now()
)

func LastIndexedBlockSet(block uint64) {
	lastIndexedBlock.Set(float64(block))
}

func ChainHeadSet(block uint64) {
	chainHead.Set(float64(block))
}

func PollCycleLog(outcome string, duration time.Duration) {
	pollCycles.WithLabelValues(outcome).Inc()
	pollCycleTime.WithLabelValues(outcome).Observe(duration.Seconds())
}

func BlocksProcessedInc(count uint64) {
	blocksProcessed.Add(float64(count))
}

func EventIndexedInc(event string) {
	eventsIndexed.WithLabelValues(event).Inc()
}

func WatchedPoolsSet(count int) {
	watchedPools.Set(float64(count))
}

func ErrorsInc(component string) {
	errorsTotal.WithLabelValues(component).Inc()
}

func ComponentHealthSet(component string, healthy bool) {
	value := float64(1)
	if !healthy {
		value = 0
	}

	componentHealth.WithLabelValues(component).Set(value)
}

// UpdateSystemMetrics refreshes runtime gauges.
func UpdateSystemMetrics() {
	uptime.Set(time.Since(startTime).Seconds())
	goroutines.Set(float64(runtime.NumGoroutine()))

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	memoryUsage.WithLabelValues("alloc").Set(float64(m.Alloc))
	memoryUsage.WithLabelValues("sys").Set(float64(m.Sys))
	memoryUsage.WithLabelValues("heap_inuse").Set(float64(m.HeapInuse))
}
