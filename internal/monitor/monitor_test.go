package monitor

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

type noopFetcherMetrics struct{}

func (noopFetcherMetrics) ObserveDispatch(string, string, time.Time) {}
func (noopFetcherMetrics) ObserveCleanup(string)                     {}

type noopChainMetrics struct{}

func (noopChainMetrics) ObserveBlockFetch(error, time.Time) {}
func (noopChainMetrics) ObserveCodeAt(error, time.Time)     {}
func (noopChainMetrics) ObserveContractCreation()           {}
func (noopChainMetrics) ObserveAssemblyStart(error)         {}

type noopRepoMetrics struct{}

func (noopRepoMetrics) Observe(string, error, time.Time) {}

type noopRPCMetrics struct{}

func (noopRPCMetrics) Observe(string, error, time.Time) {}

func testMetrics() Metrics {
	return Metrics{
		Fetcher:      noopFetcherMetrics{},
		ChainMonitor: noopChainMetrics{},
		Repository:   noopRepoMetrics{},
		InjectorRPC:  noopRPCMetrics{},
	}
}

func TestNew_RequiresAtLeastOneChain(t *testing.T) {
	_, err := New(Params{
		IPFSGatewayURL:  "https://ipfs.example/",
		SwarmGatewayURL: "https://swarm.example/",
	}, zap.NewNop(), testMetrics())
	if err == nil {
		t.Fatalf("expected error for zero configured chains")
	}
}

func TestNew_WiresOneChainMonitorPerConfiguredChain(t *testing.T) {
	params := Params{
		IPFSGatewayURL:          "https://ipfs.example/",
		SwarmGatewayURL:         "https://swarm.example/",
		FetchTimeout:            time.Second,
		FetchPause:              time.Millisecond,
		CleanupTime:             time.Minute,
		GetBlockPause:           time.Millisecond,
		GetCodeRetryPause:       time.Millisecond,
		InitialGetBytecodeTries: 3,
		CompilerDir:             t.TempDir(),
		RepositoryDir:           t.TempDir(),
		Chains: []ChainParams{
			{ChainID: 1, RPCURL: "http://127.0.0.1:8545"},
			{ChainID: 137, RPCURL: "http://127.0.0.1:8546"},
		},
	}

	m, err := New(params, zap.NewNop(), testMetrics())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if len(m.chainMonitors) != 2 {
		t.Fatalf("chainMonitors = %d, want 2", len(m.chainMonitors))
	}
}

func TestNew_RejectsUnsupportedRPCScheme(t *testing.T) {
	params := Params{
		IPFSGatewayURL:  "https://ipfs.example/",
		SwarmGatewayURL: "https://swarm.example/",
		CompilerDir:     t.TempDir(),
		RepositoryDir:   t.TempDir(),
		Chains: []ChainParams{
			{ChainID: 1, RPCURL: "bogus://not-a-real-scheme"},
		},
	}

	if _, err := New(params, zap.NewNop(), testMetrics()); err == nil {
		t.Fatalf("expected error for unsupported RPC URL scheme")
	}
}
