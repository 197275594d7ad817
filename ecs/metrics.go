package ecs

import "github.com/prometheus/client_golang/prometheus"

// Package-level metric collectors, in the shape of cuemby/warren's
// pkg/metrics: plain prometheus.NewXxx vars registered once from init.
// Nothing in the core depends on a metrics server being mounted; a host
// process wires these into its own registry/handler.
var (
	batchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "ecs_scheduler_batch_duration_seconds",
			Help: "Wall-clock time spent executing one scheduler batch.",
		},
		[]string{"batch_index"},
	)

	tickDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name: "ecs_scheduler_tick_duration_seconds",
			Help: "Wall-clock time spent in one Scheduler.Run call, including flush.",
		},
	)

	workerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ecs_worker_pool_queue_depth",
			Help: "Number of tasks in the scheduler batch currently running on the worker pool (0 between batches).",
		},
	)

	commandsFlushed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecs_commands_flushed_total",
			Help: "Opcodes applied to the store by Commands.Flush, by opcode kind.",
		},
		[]string{"opcode"},
	)

	queryCacheSize = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ecs_query_cache_size",
			Help: "Live record count of a materialised query cache, by signature.",
		},
		[]string{"signature"},
	)
)

func init() {
	prometheus.MustRegister(batchDuration)
	prometheus.MustRegister(tickDuration)
	prometheus.MustRegister(workerQueueDepth)
	prometheus.MustRegister(commandsFlushed)
	prometheus.MustRegister(queryCacheSize)
}

// label names an opcode for the commandsFlushed counter.
func (op opcode) label() string {
	switch op {
	case opSpawn:
		return "spawn"
	case opAddToNew:
		return "add_to_new"
	case opAddComp:
		return "add_comp"
	case opRmComp:
		return "rm_comp"
	case opRmAll:
		return "rm_all"
	case opDestroy:
		return "destroy"
	case opDefer:
		return "defer"
	default:
		return "unknown"
	}
}
