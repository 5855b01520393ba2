package fsrepo

import "time"

// Metrics records repository write observations, following the same
// operation/status/duration shape used across this codebase's other
// Metrics interfaces.
type Metrics interface {
	Observe(operation string, err error, started time.Time)
}
