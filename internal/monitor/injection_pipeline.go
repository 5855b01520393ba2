// Package monitor is the lifecycle owner of one ChainMonitor per configured
// chain plus the shared ContractAssembler and Injector (spec §4.H). It has
// no external API; it is a long-running process.
package monitor

import (
	"context"

	"github.com/goodnatureofminers/sourceverify/internal/chainmonitor"
	"github.com/goodnatureofminers/sourceverify/internal/contract"
	"github.com/goodnatureofminers/sourceverify/internal/gateway"
	"github.com/goodnatureofminers/sourceverify/internal/injector"
	"github.com/goodnatureofminers/sourceverify/pkg/batcher"
	"github.com/goodnatureofminers/sourceverify/pkg/workerpool"
	"go.uber.org/zap"
)

// Injector is the subset of injector.Injector the pipeline needs.
type Injector interface {
	Inject(ctx context.Context, in injector.Input) ([]injector.Result, error)
}

type injectionJob struct {
	metadataAddress gateway.SourceAddress
	checked         *contract.CheckedContract
	onChainBytecode []byte
	chainID         uint64
	address         string
}

// injectionPipeline offloads Injector.Inject calls off the ChainMonitor's
// per-contract goroutines (spec §5: "Assembler callbacks ... must be
// non-blocking with respect to the fetcher loop — offload compilation/disk
// I/O to a different task or pool"). It batches completed assemblies and
// fans each batch out over a bounded worker pool, so the number of
// concurrent solc invocations is capped independently of how many contracts
// are discovered at once.
type injectionPipeline struct {
	injector Injector
	logger   *zap.Logger
	batcher  *batcher.Batcher[injectionJob]
}

func newInjectionPipeline(inj Injector, logger *zap.Logger) *injectionPipeline {
	p := &injectionPipeline{injector: inj, logger: logger}
	p.batcher = batcher.New(logger.Named("injectionBatcher"), p.flush, injectionBatchSize, injectionFlushInterval, injectionFlushRPS)
	return p
}

func (p *injectionPipeline) Start(ctx context.Context) {
	p.batcher.Start(ctx)
}

func (p *injectionPipeline) Stop() {
	p.batcher.Stop()
}

// InjectFromChain implements chainmonitor.Injector: it queues the completed
// assembly for batched, pool-bounded verification rather than running
// compile/match/store inline on the caller's goroutine.
func (p *injectionPipeline) InjectFromChain(metadataAddress gateway.SourceAddress, checked *contract.CheckedContract, onChainBytecode []byte, chainID uint64, address string) {
	job := injectionJob{
		metadataAddress: metadataAddress,
		checked:         checked,
		onChainBytecode: onChainBytecode,
		chainID:         chainID,
		address:         address,
	}
	if err := p.batcher.Add(context.Background(), job); err != nil {
		p.logger.Warn("drop injection job, batcher not accepting", zap.String("address", address), zap.Error(err))
	}
}

func (p *injectionPipeline) flush(ctx context.Context, jobs []injectionJob) error {
	return workerpool.Process(ctx, injectionPoolWorkers, jobs, p.processOne, nil)
}

// processOne never returns an error: a failed injection for one contract
// must not cancel the rest of the batch (spec §7 propagation policy — these
// are monitor-driven errors, logged and dropped, not surfaced to a caller).
func (p *injectionPipeline) processOne(ctx context.Context, job injectionJob) error {
	results, err := p.injector.Inject(ctx, injector.ChainInput{
		MetadataAddress: job.metadataAddress,
		Checked:         job.checked,
		OnChainBytecode: job.onChainBytecode,
		ChainID:         job.chainID,
		Address:         job.address,
	})
	if err != nil {
		p.logger.Warn("injection failed to run", zap.String("address", job.address), zap.Error(err))
		return nil
	}
	for _, r := range results {
		if r.Err != nil {
			p.logger.Info("injection did not verify", zap.String("address", r.Address), zap.Error(r.Err))
			continue
		}
		p.logger.Info("injection verified", zap.String("address", r.Address), zap.String("match", string(r.Match)))
	}
	return nil
}

var _ chainmonitor.Injector = (*injectionPipeline)(nil)
