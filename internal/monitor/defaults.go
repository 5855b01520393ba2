package monitor

import "time"

const (
	injectionBatchSize     = 8
	injectionFlushInterval = 2 * time.Second
	injectionFlushRPS      = 4
	injectionPoolWorkers   = 4
)
