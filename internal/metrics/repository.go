package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	repoOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sourceverify",
		Subsystem: "repository",
		Name:      "operations_total",
		Help:      "Count of filesystem repository operations.",
	}, []string{"operation", "status"})
	repoOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "sourceverify",
		Subsystem: "repository",
		Name:      "operation_duration_seconds",
		Help:      "Duration of filesystem repository operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "status"})
)

// Repository tracks metrics for the fsrepo.Store.
type Repository struct{}

// NewRepository constructs a metrics collector satisfying fsrepo.Metrics.
func NewRepository() Repository { return Repository{} }

func (Repository) Observe(operation string, err error, started time.Time) {
	status := statusOf(err)
	repoOperationsTotal.WithLabelValues(operation, status).Inc()
	repoOperationDuration.WithLabelValues(operation, status).Observe(time.Since(started).Seconds())
}
