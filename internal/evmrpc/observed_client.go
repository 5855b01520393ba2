package evmrpc

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// RPCMetrics records metrics for RPC calls.
type RPCMetrics interface {
	Observe(operation string, err error, started time.Time)
}

// ObservedClient wraps a Client with metrics instrumentation.
type ObservedClient struct {
	client     Client
	rpcMetrics RPCMetrics
}

// NewObservedClient constructs an instrumented RPC client.
func NewObservedClient(client Client, rpcMetrics RPCMetrics) *ObservedClient {
	return &ObservedClient{client: client, rpcMetrics: rpcMetrics}
}

// BlockByNumber returns the block at number, or the latest block if number is nil.
func (c *ObservedClient) BlockByNumber(ctx context.Context, number *big.Int) (block *types.Block, err error) {
	started := time.Now()
	defer func() {
		c.rpcMetrics.Observe("block_by_number", err, started)
	}()
	return c.client.BlockByNumber(ctx, number)
}

// CodeAt returns the deployed bytecode at account at the given block.
func (c *ObservedClient) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) (code []byte, err error) {
	started := time.Now()
	defer func() {
		c.rpcMetrics.Observe("code_at", err, started)
	}()
	return c.client.CodeAt(ctx, account, blockNumber)
}
