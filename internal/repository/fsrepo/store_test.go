package fsrepo

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goodnatureofminers/sourceverify/internal/contract"
	"github.com/goodnatureofminers/sourceverify/internal/gateway"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type noopMetrics struct{}

func (noopMetrics) Observe(string, error, time.Time) {}

func TestStore_StoreFullMatch_IPFS(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, zap.NewNop(), noopMetrics{})

	sources := map[string]contract.Source{"Main.sol": {Content: "contract Main {}", Keccak256: "0xABCDEF"}}
	err := s.StoreFullMatch(context.Background(), gateway.OriginIPFS, "Qm123", []byte(`{"x":1}`), sources)
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(dir, "ipfs", "Qm123"))
	require.NoError(t, err)
	require.Equal(t, `{"x":1}`, string(got))

	src, err := os.ReadFile(filepath.Join(dir, "sources", "abcdef"))
	require.NoError(t, err)
	require.Equal(t, "contract Main {}", string(src))
}

func TestStore_StoreFullMatch_UnknownOrigin(t *testing.T) {
	s := New(t.TempDir(), zap.NewNop(), noopMetrics{})
	err := s.StoreFullMatch(context.Background(), gateway.Origin("unknown"), "k", []byte("x"), nil)
	require.Error(t, err)
}

func TestStore_StorePartialMatch(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, zap.NewNop(), noopMetrics{})

	err := s.StorePartialMatch(context.Background(), 1, "0xAbC", []byte(`{"partial":true}`), nil)
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(dir, "partial_matches", "1", "0xabc", "metadata.json"))
	require.NoError(t, err)
	require.Equal(t, `{"partial":true}`, string(got))
}

func TestStore_Idempotent(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, zap.NewNop(), noopMetrics{})

	for i := 0; i < 2; i++ {
		err := s.StoreFullMatch(context.Background(), gateway.OriginIPFS, "Qm1", []byte("same"), nil)
		require.NoErrorf(t, err, "iteration %d", i)
	}

	got, err := os.ReadFile(filepath.Join(dir, "ipfs", "Qm1"))
	require.NoError(t, err)
	require.Equal(t, "same", string(got))
}
