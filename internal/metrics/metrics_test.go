package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func delta(t *testing.T, collector prometheus.Collector, observe func()) float64 {
	t.Helper()

	before := testutil.ToFloat64(collector)
	observe()
	after := testutil.ToFloat64(collector)
	return after - before
}

func TestFetcherRecords(t *testing.T) {
	m := NewFetcher()
	start := time.Now().Add(-time.Second)

	if inc := delta(t, fetcherDispatchTotal.WithLabelValues("ipfs", "success"), func() {
		m.ObserveDispatch("ipfs", "success", start)
	}); inc != 1 {
		t.Fatalf("expected dispatch counter increment, got %v", inc)
	}

	if inc := delta(t, fetcherCleanupTotal.WithLabelValues("ipfs"), func() {
		m.ObserveCleanup("ipfs")
	}); inc != 1 {
		t.Fatalf("expected cleanup counter increment, got %v", inc)
	}

	m.ObserveCleanup("")
}

func TestChainMonitorRecords(t *testing.T) {
	m := NewChainMonitor()
	start := time.Now().Add(-time.Second)

	if inc := delta(t, chainBlockFetchTotal.WithLabelValues("success"), func() {
		m.ObserveBlockFetch(nil, start)
	}); inc != 1 {
		t.Fatalf("expected block fetch counter increment, got %v", inc)
	}

	if inc := delta(t, chainCodeAtTotal.WithLabelValues("error"), func() {
		m.ObserveCodeAt(errors.New("boom"), start)
	}); inc != 1 {
		t.Fatalf("expected code_at error counter increment, got %v", inc)
	}

	if inc := delta(t, chainContractCreationTotal, func() {
		m.ObserveContractCreation()
	}); inc != 1 {
		t.Fatalf("expected contract creation counter increment, got %v", inc)
	}

	m.ObserveAssemblyStart(nil)
}

func TestRepositoryRecords(t *testing.T) {
	m := NewRepository()
	start := time.Now().Add(-time.Second)

	if inc := delta(t, repoOperationsTotal.WithLabelValues("store_full_match", "success"), func() {
		m.Observe("store_full_match", nil, start)
	}); inc != 1 {
		t.Fatalf("expected repository counter increment, got %v", inc)
	}
}

func TestEVMRPCClientRecords(t *testing.T) {
	m := NewEVMRPCClient()
	start := time.Now().Add(-time.Second)

	if inc := delta(t, evmRPCRequestsTotal.WithLabelValues("code_at", "success"), func() {
		m.Observe("code_at", nil, start)
	}); inc != 1 {
		t.Fatalf("expected rpc counter increment, got %v", inc)
	}
}
