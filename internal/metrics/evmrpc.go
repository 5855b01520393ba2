package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	evmRPCRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sourceverify",
		Subsystem: "evm_rpc_client",
		Name:      "operations_total",
		Help:      "Count of EVM node RPC operations made on the user-driven injection path.",
	}, []string{"operation", "status"})
	evmRPCRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "sourceverify",
		Subsystem: "evm_rpc_client",
		Name:      "operation_duration_seconds",
		Help:      "Duration of EVM node RPC operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "status"})
)

// EVMRPCClient tracks metrics for evmrpc.ObservedClient calls.
type EVMRPCClient struct{}

// NewEVMRPCClient constructs a metrics collector satisfying evmrpc.RPCMetrics.
func NewEVMRPCClient() EVMRPCClient { return EVMRPCClient{} }

func (EVMRPCClient) Observe(operation string, err error, started time.Time) {
	status := statusOf(err)
	evmRPCRequestsTotal.WithLabelValues(operation, status).Inc()
	evmRPCRequestDuration.WithLabelValues(operation, status).Observe(time.Since(started).Seconds())
}
