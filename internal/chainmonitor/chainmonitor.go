// Package chainmonitor implements the per-chain block walker (spec §4.D):
// for each contract-creation transaction it resolves the deployed runtime
// bytecode (retrying against nodes that lag state one block behind head),
// extracts the CBOR metadata pointer, and drives the ContractAssembler.
package chainmonitor

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/goodnatureofminers/sourceverify/internal/clock"
	"github.com/goodnatureofminers/sourceverify/internal/contract"
	"github.com/goodnatureofminers/sourceverify/internal/evmrpc"
	"github.com/goodnatureofminers/sourceverify/internal/gateway"
	"go.uber.org/zap"
)

// ChainMonitor walks one chain's blocks from a configured starting height,
// forever. Contract-creation transactions are handed off to
// processBytecode, which runs independently of the block loop so a slow
// eth_getCode retry chain never stalls block progress.
type ChainMonitor struct {
	chainID    uint64
	client     evmrpc.Client
	assembler  Assembler
	injector   Injector
	logger     *zap.Logger
	metrics    Metrics
	sleep      func(context.Context, time.Duration) error

	getBlockPause           time.Duration
	getCodeRetryPause       time.Duration
	initialGetBytecodeTries int

	nextBlock *big.Int
}

// New constructs a ChainMonitor. startBlock nil means "start at chain head":
// the first BlockByNumber call with a nil number resolves to head, and the
// monitor adopts that block's number as its starting point.
func New(
	chainID uint64,
	client evmrpc.Client,
	assembler Assembler,
	injector Injector,
	logger *zap.Logger,
	metrics Metrics,
	startBlock *big.Int,
	getBlockPause, getCodeRetryPause time.Duration,
	initialGetBytecodeTries int,
) *ChainMonitor {
	return &ChainMonitor{
		chainID:                 chainID,
		client:                  client,
		assembler:               assembler,
		injector:                injector,
		logger:                  logger.With(zap.Uint64("chainId", chainID)),
		metrics:                 metrics,
		sleep:                   clock.SleepWithContext,
		getBlockPause:           getBlockPause,
		getCodeRetryPause:       getCodeRetryPause,
		initialGetBytecodeTries: initialGetBytecodeTries,
		nextBlock:               startBlock,
	}
}

// Run walks blocks until ctx is canceled. A block fetch failure (RPC error
// or block not yet available) waits getBlockPause and retries the *same*
// block number; a successful fetch also waits getBlockPause before
// advancing. Both paths re-schedule with a consistent block number, fixing
// the source's flagged bug where only the success path advanced.
func (m *ChainMonitor) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		block, ok := m.fetchBlock(ctx)
		if ok {
			m.scanBlock(ctx, block)
			m.nextBlock = new(big.Int).Add(block.Number(), big.NewInt(1))
		}

		if err := m.sleep(ctx, m.getBlockPause); err != nil {
			return err
		}
	}
}

func (m *ChainMonitor) fetchBlock(ctx context.Context) (*types.Block, bool) {
	started := time.Now()
	block, err := m.client.BlockByNumber(ctx, m.nextBlock)
	m.metrics.ObserveBlockFetch(err, started)
	if err != nil {
		m.logger.Debug("block not yet available, will retry", zap.Error(err))
		return nil, false
	}
	return block, true
}

func (m *ChainMonitor) scanBlock(ctx context.Context, block *types.Block) {
	signer := types.LatestSignerForChainID(new(big.Int).SetUint64(m.chainID))

	for _, tx := range block.Transactions() {
		if tx.To() != nil {
			continue
		}

		sender, err := types.Sender(signer, tx)
		if err != nil {
			m.logger.Warn("recover sender failed for creation tx", zap.String("txHash", tx.Hash().Hex()), zap.Error(err))
			continue
		}

		address := crypto.CreateAddress(sender, tx.Nonce())
		m.metrics.ObserveContractCreation()
		go m.processBytecode(ctx, address, m.initialGetBytecodeTries)
	}
}

// processBytecode resolves address's deployed bytecode, retrying while
// eth_getCode returns empty (state not yet indexed for a just-mined block).
// Exhausting initialGetBytecodeTries drops the address silently.
func (m *ChainMonitor) processBytecode(ctx context.Context, address common.Address, triesLeft int) {
	started := time.Now()
	code, err := m.client.CodeAt(ctx, address, nil)
	m.metrics.ObserveCodeAt(err, started)
	if err != nil {
		m.retryOrDrop(ctx, address, triesLeft, "eth_getCode failed", err)
		return
	}
	if len(code) == 0 {
		m.retryOrDrop(ctx, address, triesLeft, "empty code, state not yet indexed", nil)
		return
	}

	sourceAddr, err := gateway.ExtractSourceAddress(code)
	if err != nil {
		m.logger.Debug("no recognized metadata pointer in bytecode", zap.String("address", address.Hex()), zap.Error(err))
		return
	}

	err = m.assembler.Assemble(sourceAddr, func(checked *contract.CheckedContract) {
		m.injector.InjectFromChain(sourceAddr, checked, code, m.chainID, address.Hex())
	}, func(err error) {
		m.logger.Info("assembly failed, will rediscover on a future block scan",
			zap.String("address", address.Hex()), zap.Error(err))
	})
	m.metrics.ObserveAssemblyStart(err)
	if err != nil {
		m.logger.Warn("assemble failed to start", zap.String("address", address.Hex()), zap.Error(err))
	}
}

func (m *ChainMonitor) retryOrDrop(ctx context.Context, address common.Address, triesLeft int, reason string, err error) {
	if triesLeft <= 1 {
		m.logger.Debug("bytecode retries exhausted, dropping", zap.String("address", address.Hex()), zap.String("reason", reason))
		return
	}
	fields := []zap.Field{zap.String("address", address.Hex()), zap.String("reason", reason), zap.Int("triesLeft", triesLeft-1)}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	m.logger.Debug("retrying bytecode fetch", fields...)

	if sleepErr := m.sleep(ctx, m.getCodeRetryPause); sleepErr != nil {
		return
	}
	m.processBytecode(ctx, address, triesLeft-1)
}
