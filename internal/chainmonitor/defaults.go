package chainmonitor

import "time"

const (
	// DefaultGetCodeRetryPause is the wait between eth_getCode retries (spec §6: GET_CODE_RETRY_PAUSE).
	DefaultGetCodeRetryPause = 2 * time.Second
	// DefaultGetBlockPause is the wait between block-loop iterations (spec §6: GET_BLOCK_PAUSE).
	DefaultGetBlockPause = 2 * time.Second
	// DefaultInitialGetBytecodeTries bounds eth_getCode retries per address (spec §6: INITIAL_GET_BYTECODE_TRIES).
	DefaultInitialGetBytecodeTries = 3
)
