package compiler

import "time"

// DefaultInvokeTimeout bounds a single solc subprocess invocation.
const DefaultInvokeTimeout = 2 * time.Minute
