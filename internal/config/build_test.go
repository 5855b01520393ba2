package config

import (
	"errors"
	"os"
	"testing"
)

func TestLoad_RejectsTestingMode(t *testing.T) {
	t.Setenv("TESTING", "true")
	t.Setenv("MONITOR_CHAINS", "1")
	t.Setenv("INFURA_ID", "abc")

	_, _, err := Load([]string{"cmd"})
	if !errors.Is(err, ErrTestingMode) {
		t.Fatalf("err = %v, want ErrTestingMode", err)
	}
}

func TestLoad_RejectsUnknownChain(t *testing.T) {
	t.Setenv("MONITOR_CHAINS", "999999")
	t.Setenv("INFURA_ID", "abc")

	_, _, err := Load([]string{"cmd"})
	if err == nil {
		t.Fatalf("expected error for unknown chain id")
	}
}

func TestLoad_RequiresInfuraIDForTemplatedChains(t *testing.T) {
	t.Setenv("MONITOR_CHAINS", "1")
	os.Unsetenv("INFURA_ID")

	_, _, err := Load([]string{"cmd"})
	if err == nil {
		t.Fatalf("expected error for missing INFURA_ID")
	}
}

func TestLoad_RejectsNegativeDurations(t *testing.T) {
	t.Setenv("MONITOR_CHAINS", "1")
	t.Setenv("INFURA_ID", "abc")
	t.Setenv("MONITOR_FETCH_TIMEOUT", "-1")

	_, _, err := Load([]string{"cmd"})
	if err == nil {
		t.Fatalf("expected error for negative MONITOR_FETCH_TIMEOUT")
	}
}

func TestLoad_ResolvesChainParamsAndStartBlock(t *testing.T) {
	t.Setenv("MONITOR_CHAINS", "1,137")
	t.Setenv("INFURA_ID", "myproject")
	t.Setenv("MONITOR_START_1", "12345678")

	cfg, params, err := Load([]string{"cmd"})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.InfuraID != "myproject" {
		t.Fatalf("InfuraID = %q", cfg.InfuraID)
	}
	if len(params.Chains) != 2 {
		t.Fatalf("Chains = %d, want 2", len(params.Chains))
	}

	var mainnetIdx = -1
	for i := range params.Chains {
		if params.Chains[i].ChainID == 1 {
			mainnetIdx = i
		}
	}
	if mainnetIdx == -1 {
		t.Fatalf("chain 1 not resolved")
	}
	mainnet := params.Chains[mainnetIdx]
	if mainnet.StartBlock == nil || mainnet.StartBlock.String() != "12345678" {
		t.Fatalf("StartBlock = %v, want 12345678", mainnet.StartBlock)
	}
	if mainnet.RPCURL != "https://mainnet.infura.io/v3/myproject" {
		t.Fatalf("RPCURL = %q", mainnet.RPCURL)
	}
}
