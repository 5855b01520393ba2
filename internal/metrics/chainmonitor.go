package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	chainBlockFetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sourceverify",
		Subsystem: "chain_monitor",
		Name:      "block_fetch_total",
		Help:      "Count of block fetches performed by the chain-monitor block loop.",
	}, []string{"status"})
	chainBlockFetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "sourceverify",
		Subsystem: "chain_monitor",
		Name:      "block_fetch_duration_seconds",
		Help:      "Duration of a single block fetch.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"status"})

	chainCodeAtTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sourceverify",
		Subsystem: "chain_monitor",
		Name:      "code_at_total",
		Help:      "Count of eth_getCode calls issued for newly created contracts.",
	}, []string{"status"})
	chainCodeAtDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "sourceverify",
		Subsystem: "chain_monitor",
		Name:      "code_at_duration_seconds",
		Help:      "Duration of a single eth_getCode call.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"status"})

	chainContractCreationTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sourceverify",
		Subsystem: "chain_monitor",
		Name:      "contract_creation_total",
		Help:      "Count of contract-creation transactions observed.",
	})

	chainAssemblyStartTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sourceverify",
		Subsystem: "chain_monitor",
		Name:      "assembly_start_total",
		Help:      "Count of ContractAssembler.Assemble dispatches, by outcome.",
	}, []string{"status"})
)

// ChainMonitor tracks metrics for a chainmonitor.ChainMonitor's block loop.
type ChainMonitor struct{}

// NewChainMonitor constructs a metrics collector satisfying chainmonitor.Metrics.
func NewChainMonitor() ChainMonitor { return ChainMonitor{} }

func (ChainMonitor) ObserveBlockFetch(err error, started time.Time) {
	status := statusOf(err)
	chainBlockFetchTotal.WithLabelValues(status).Inc()
	chainBlockFetchDuration.WithLabelValues(status).Observe(time.Since(started).Seconds())
}

func (ChainMonitor) ObserveCodeAt(err error, started time.Time) {
	status := statusOf(err)
	chainCodeAtTotal.WithLabelValues(status).Inc()
	chainCodeAtDuration.WithLabelValues(status).Observe(time.Since(started).Seconds())
}

func (ChainMonitor) ObserveContractCreation() {
	chainContractCreationTotal.Inc()
}

func (ChainMonitor) ObserveAssemblyStart(err error) {
	chainAssemblyStartTotal.WithLabelValues(statusOf(err)).Inc()
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
