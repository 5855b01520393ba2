package fetcher

import "time"

const (
	// DefaultFetchTimeout bounds a single in-flight HTTP GET (spec §6: MONITOR_FETCH_TIMEOUT).
	DefaultFetchTimeout = 5 * time.Minute
	// DefaultFetchPause is the minimum interval between dispatches (spec §6: MONITOR_FETCH_PAUSE).
	DefaultFetchPause = 1 * time.Second
	// DefaultCleanupTime is the max age of an unresolved subscription before it is dropped (spec §6: MONITOR_CLEANUP_PERIOD).
	DefaultCleanupTime = 30 * time.Minute
)
