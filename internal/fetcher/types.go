package fetcher

import "time"

// Metrics records per-dispatch outcomes for the fetcher loop.
type Metrics interface {
	ObserveDispatch(origin, status string, started time.Time)
	ObserveCleanup(origin string)
}

// Subscriber is invoked exactly once with a fetched file's bytes when the
// subscription it was registered under completes successfully.
type Subscriber func(content []byte)

type subscription struct {
	url            string
	origin         string
	beingProcessed bool
	subscribers    []Subscriber
	lastTouched    time.Time
}
