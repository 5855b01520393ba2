package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fetcherDispatchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sourceverify",
		Subsystem: "fetcher",
		Name:      "dispatch_total",
		Help:      "Count of source-file fetch dispatches, by gateway origin.",
	}, []string{"origin", "status"})
	fetcherDispatchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "sourceverify",
		Subsystem: "fetcher",
		Name:      "dispatch_duration_seconds",
		Help:      "Duration of a source-file fetch dispatch.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"origin", "status"})
	fetcherCleanupTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sourceverify",
		Subsystem: "fetcher",
		Name:      "subscription_cleanup_total",
		Help:      "Count of stale subscriptions swept per gateway origin.",
	}, []string{"origin"})
)

// Fetcher tracks metrics for the fetcher.SourceFetcher.
type Fetcher struct{}

// NewFetcher constructs a metrics collector satisfying fetcher.Metrics.
func NewFetcher() Fetcher { return Fetcher{} }

func (Fetcher) ObserveDispatch(origin, status string, started time.Time) {
	if origin == "" {
		origin = "unknown"
	}
	fetcherDispatchTotal.WithLabelValues(origin, status).Inc()
	fetcherDispatchDuration.WithLabelValues(origin, status).Observe(time.Since(started).Seconds())
}

func (Fetcher) ObserveCleanup(origin string) {
	if origin == "" {
		origin = "unknown"
	}
	fetcherCleanupTotal.WithLabelValues(origin).Inc()
}
