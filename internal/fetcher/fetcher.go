// Package fetcher implements the deduplicating, rate-limited polling
// fetcher keyed by content-hash (spec §4.B). A single cooperative worker
// cycles through subscribed hashes, dispatching at most one new HTTP GET per
// fetchPause, so many subscribers may share one in-flight request per hash.
package fetcher

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/goodnatureofminers/sourceverify/internal/clock"
	"github.com/goodnatureofminers/sourceverify/internal/gateway"
	"go.uber.org/ratelimit"
	"go.uber.org/zap"
)

// SourceFetcher is the component B collaborator: Subscribe registers
// interest in a content-address; the background loop started by Run
// resolves it via the gateway Set and invokes every registered Subscriber
// exactly once on success.
type SourceFetcher struct {
	gateways *gateway.Set
	client   *http.Client
	logger   *zap.Logger
	metrics  Metrics

	fetchTimeout time.Duration
	fetchPause   time.Duration
	cleanupTime  time.Duration
	rl           ratelimit.Limiter

	mu            sync.Mutex
	subscriptions map[string]*subscription
}

// New constructs a SourceFetcher. fetchPause governs the dispatch rate
// limiter (spec §8 invariant 3: outbound dispatch rate ≤ 1 per fetchPause).
func New(gateways *gateway.Set, logger *zap.Logger, metrics Metrics, fetchTimeout, fetchPause, cleanupTime time.Duration) *SourceFetcher {
	return &SourceFetcher{
		gateways:      gateways,
		client:        &http.Client{},
		logger:        logger,
		metrics:       metrics,
		fetchTimeout:  fetchTimeout,
		fetchPause:    fetchPause,
		cleanupTime:   cleanupTime,
		rl:            ratelimit.New(1, ratelimit.Per(fetchPause), ratelimit.WithoutSlack),
		subscriptions: make(map[string]*subscription),
	}
}

// Subscribe registers cb to be invoked exactly once with addr's fetched
// bytes once fetched successfully. Repeated subscriptions for the same
// content-address share one in-flight fetch and refresh the cleanup clock
// (spec §9 design note (a)).
func (f *SourceFetcher) Subscribe(addr gateway.SourceAddress, cb Subscriber) error {
	url, err := f.gateways.URLFor(addr)
	if err != nil {
		return err
	}

	key := addr.UniqueID()

	f.mu.Lock()
	defer f.mu.Unlock()

	sub, ok := f.subscriptions[key]
	if !ok {
		sub = &subscription{url: url, origin: string(addr.Origin)}
		f.subscriptions[key] = sub
	}
	sub.lastTouched = time.Now()
	sub.subscribers = append(sub.subscribers, cb)
	return nil
}

// Run cycles through the current subscription key set until ctx is
// canceled. Each visit to a hash either skips (fast step) or dispatches a
// single HTTP GET, pacing dispatches via the fetchPause rate limiter.
func (f *SourceFetcher) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		keys := f.snapshotKeys()
		for _, key := range keys {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			f.visit(ctx, key)
		}

		if len(keys) == 0 {
			if err := clock.SleepWithContext(ctx, f.fetchPause); err != nil {
				return err
			}
		}
	}
}

func (f *SourceFetcher) snapshotKeys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	keys := make([]string, 0, len(f.subscriptions))
	for k := range f.subscriptions {
		keys = append(keys, k)
	}
	return keys
}

func (f *SourceFetcher) visit(ctx context.Context, key string) {
	f.mu.Lock()
	sub, ok := f.subscriptions[key]
	if !ok {
		f.mu.Unlock()
		return
	}
	if sub.beingProcessed {
		f.mu.Unlock()
		return
	}
	if time.Since(sub.lastTouched) > f.cleanupTime {
		delete(f.subscriptions, key)
		f.mu.Unlock()
		f.metrics.ObserveCleanup(sub.origin)
		f.logger.Debug("subscription expired, dropping", zap.String("key", key))
		return
	}

	sub.beingProcessed = true
	url := sub.url
	origin := sub.origin
	f.mu.Unlock()

	f.rl.Take()
	go f.dispatch(ctx, key, url, origin)
}

func (f *SourceFetcher) dispatch(ctx context.Context, key, url, origin string) {
	started := time.Now()

	reqCtx, cancel := context.WithTimeout(ctx, f.fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		f.logger.Error("build fetch request failed", zap.String("key", key), zap.Error(err))
		f.clearInFlight(key)
		f.metrics.ObserveDispatch(origin, "error", started)
		return
	}

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Warn("fetch transport error, will retry", zap.String("key", key), zap.Error(err))
		f.clearInFlight(key)
		f.metrics.ObserveDispatch(origin, "error", started)
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		f.logger.Warn("fetch body read error, will retry", zap.String("key", key), zap.Error(err))
		f.clearInFlight(key)
		f.metrics.ObserveDispatch(origin, "error", started)
		return
	}

	if resp.StatusCode != http.StatusOK {
		f.logger.Warn("fetch non-200, will retry",
			zap.String("key", key), zap.Int("status", resp.StatusCode), zap.ByteString("body", body))
		f.clearInFlight(key)
		f.metrics.ObserveDispatch(origin, "non_200", started)
		return
	}

	f.metrics.ObserveDispatch(origin, "success", started)
	f.notify(key, body)
}

func (f *SourceFetcher) clearInFlight(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if sub, ok := f.subscriptions[key]; ok {
		sub.beingProcessed = false
	}
}

// notify delivers a successful fetch to every subscriber. The subscription
// is removed before callbacks run, so a callback can never observe its own
// subscription (spec §9 design note (b)).
func (f *SourceFetcher) notify(key string, body []byte) {
	f.mu.Lock()
	sub, ok := f.subscriptions[key]
	if !ok {
		f.mu.Unlock()
		return
	}
	subscribers := sub.subscribers
	delete(f.subscriptions, key)
	f.mu.Unlock()

	for _, cb := range subscribers {
		cb(body)
	}
}
