package config

import (
	"errors"
	"fmt"
	"math/big"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goodnatureofminers/sourceverify/internal/monitor"
	"github.com/goodnatureofminers/sourceverify/pkg/safe"
	"github.com/jessevdk/go-flags"
)

// ErrTestingMode is returned when TESTING=true is set, reserved per spec §6.
var ErrTestingMode = errors.New("config: TESTING is set, refusing to start")

// Load parses args (typically os.Args) into an EnvConfig and builds
// monitor.Params from it. Chain start blocks come from the dynamic
// MONITOR_START_<chainId> variables (spec §6), read directly from the
// process environment since go-flags cannot declare a tag per chain id.
func Load(args []string) (*EnvConfig, *monitor.Params, error) {
	var cfg EnvConfig
	if _, err := flags.ParseArgs(&cfg, args); err != nil {
		return nil, nil, err
	}

	if cfg.Testing {
		return &cfg, nil, ErrTestingMode
	}

	chainIDs, err := parseChainIDs(cfg.Chains)
	if err != nil {
		return &cfg, nil, err
	}

	if err := validateNonNegative(cfg); err != nil {
		return &cfg, nil, err
	}

	chains := make([]monitor.ChainParams, 0, len(chainIDs))
	for _, id := range chainIDs {
		def, err := lookupChain(id)
		if err != nil {
			return &cfg, nil, err
		}
		if cfg.InfuraID == "" && strings.Contains(def.RPCURLTemplate, "%s") {
			return &cfg, nil, fmt.Errorf("chain %d requires INFURA_ID to be set", id)
		}

		chains = append(chains, monitor.ChainParams{
			ChainID:    id,
			RPCURL:     fmt.Sprintf(def.RPCURLTemplate, cfg.InfuraID),
			StartBlock: startBlockFor(id),
		})
	}

	params := &monitor.Params{
		IPFSGatewayURL:          cfg.IPFSURL,
		SwarmGatewayURL:         cfg.SwarmURL,
		FetchTimeout:            time.Duration(cfg.FetchTimeoutMS) * time.Millisecond,
		FetchPause:              time.Duration(cfg.FetchPauseMS) * time.Millisecond,
		CleanupTime:             time.Duration(cfg.CleanupMS) * time.Millisecond,
		GetBlockPause:           time.Duration(cfg.GetBlockPauseMS) * time.Millisecond,
		GetCodeRetryPause:       time.Duration(cfg.GetCodeRetryPauseMS) * time.Millisecond,
		InitialGetBytecodeTries: cfg.InitialGetBytecodeTries,
		CompilerDir:             cfg.CompilerDir,
		RepositoryDir:           cfg.RepositoryDir,
		Chains:                  chains,
	}

	return &cfg, params, nil
}

// validateNonNegative rejects env-supplied durations/retry counts that are
// negative, which would otherwise silently become negative time.Duration
// values or a zero-iteration retry loop.
func validateNonNegative(cfg EnvConfig) error {
	fields := map[string]int{
		"MONITOR_FETCH_TIMEOUT":      cfg.FetchTimeoutMS,
		"MONITOR_FETCH_PAUSE":        cfg.FetchPauseMS,
		"MONITOR_CLEANUP_PERIOD":     cfg.CleanupMS,
		"GET_CODE_RETRY_PAUSE":       cfg.GetCodeRetryPauseMS,
		"GET_BLOCK_PAUSE":            cfg.GetBlockPauseMS,
		"INITIAL_GET_BYTECODE_TRIES": cfg.InitialGetBytecodeTries,
	}
	for name, v := range fields {
		if _, err := safe.Uint64(v); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func parseChainIDs(csv string) ([]uint64, error) {
	parts := strings.Split(csv, ",")
	ids := make([]uint64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid chain id %q: %w", p, err)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, errors.New("no chain ids configured")
	}
	return ids, nil
}

// startBlockFor reads MONITOR_START_<chainId>; unset means "start at chain
// head" (spec §6).
func startBlockFor(chainID uint64) *big.Int {
	raw, ok := os.LookupEnv(fmt.Sprintf("MONITOR_START_%d", chainID))
	if !ok || raw == "" {
		return nil
	}
	n, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return nil
	}
	return n
}
