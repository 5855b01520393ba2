package monitor

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/goodnatureofminers/sourceverify/internal/assembler"
	"github.com/goodnatureofminers/sourceverify/internal/chainmonitor"
	"github.com/goodnatureofminers/sourceverify/internal/compiler"
	"github.com/goodnatureofminers/sourceverify/internal/evmrpc"
	"github.com/goodnatureofminers/sourceverify/internal/fetcher"
	"github.com/goodnatureofminers/sourceverify/internal/gateway"
	"github.com/goodnatureofminers/sourceverify/internal/injector"
	"github.com/goodnatureofminers/sourceverify/internal/repository/fsrepo"
	"go.uber.org/zap"
)

// ChainParams configures one ChainMonitor.
type ChainParams struct {
	ChainID    uint64
	RPCURL     string
	StartBlock *big.Int // nil means "start at chain head"
}

// Params is the fully-resolved construction input for Monitor: every value
// is already parsed and validated (spec §9 design note: "the fetcher and
// monitors must receive their parameters by construction; avoid re-reading
// the environment at request time").
type Params struct {
	IPFSGatewayURL  string
	SwarmGatewayURL string

	FetchTimeout time.Duration
	FetchPause   time.Duration
	CleanupTime  time.Duration

	GetBlockPause           time.Duration
	GetCodeRetryPause       time.Duration
	InitialGetBytecodeTries int

	CompilerDir   string
	RepositoryDir string

	Chains []ChainParams
}

// Metrics aggregates the observation surfaces Monitor wires into its
// collaborators. InjectorRPC covers the chain calls the Injector makes
// directly (the user-driven path); ChainMonitor covers block-loop RPC calls,
// which each ChainMonitor already instruments itself.
type Metrics struct {
	Fetcher      fetcher.Metrics
	ChainMonitor chainmonitor.Metrics
	Repository   fsrepo.Metrics
	InjectorRPC  evmrpc.RPCMetrics
}

// Monitor owns one ChainMonitor per configured chain plus the shared
// SourceFetcher, ContractAssembler, and Injector for the process lifetime
// (spec §4.H).
type Monitor struct {
	logger        *zap.Logger
	fetcher       *fetcher.SourceFetcher
	chainMonitors []*chainmonitor.ChainMonitor
	pipeline      *injectionPipeline
}

// New constructs the full object graph: gateway set, fetcher, assembler,
// compiler driver, filesystem repository, injector, injection pipeline, and
// one ChainMonitor per params.Chains entry.
func New(params Params, logger *zap.Logger, metrics Metrics) (*Monitor, error) {
	if len(params.Chains) == 0 {
		return nil, fmt.Errorf("monitor: at least one chain must be configured")
	}

	gateways := gateway.NewSet(
		gateway.NewSimpleGateway(params.IPFSGatewayURL, gateway.OriginIPFS),
		gateway.NewSimpleGateway(params.SwarmGatewayURL, gateway.OriginBzzr0, gateway.OriginBzzr1),
	)

	fetch := fetcher.New(gateways, logger.Named("fetcher"), metrics.Fetcher, params.FetchTimeout, params.FetchPause, params.CleanupTime)
	asm := assembler.New(fetch, gateways, logger.Named("assembler"))

	driver := compiler.New(compiler.DirLocator{Dir: params.CompilerDir}, logger.Named("compiler"), compiler.DefaultInvokeTimeout)
	repo := fsrepo.New(params.RepositoryDir, logger.Named("repository"), metrics.Repository)

	chainClients := make(map[uint64]injector.ChainClient, len(params.Chains))
	rawClients := make(map[uint64]evmrpc.Client, len(params.Chains))
	for _, c := range params.Chains {
		rpc, err := ethclient.Dial(c.RPCURL)
		if err != nil {
			return nil, fmt.Errorf("dial chain %d rpc %s: %w", c.ChainID, c.RPCURL, err)
		}
		rawClients[c.ChainID] = rpc
		chainClients[c.ChainID] = evmrpc.NewObservedClient(rpc, metrics.InjectorRPC)
	}

	inj := injector.New(driver, repo, chainClients, logger.Named("injector"))
	pipeline := newInjectionPipeline(inj, logger.Named("injectionPipeline"))

	chainMonitors := make([]*chainmonitor.ChainMonitor, 0, len(params.Chains))
	for _, c := range params.Chains {
		cm := chainmonitor.New(
			c.ChainID,
			rawClients[c.ChainID],
			asm,
			pipeline,
			logger.Named("chainMonitor"),
			metrics.ChainMonitor,
			c.StartBlock,
			params.GetBlockPause,
			params.GetCodeRetryPause,
			params.InitialGetBytecodeTries,
		)
		chainMonitors = append(chainMonitors, cm)
	}

	return &Monitor{
		logger:        logger,
		fetcher:       fetch,
		chainMonitors: chainMonitors,
		pipeline:      pipeline,
	}, nil
}

// Start runs the fetcher loop, the injection pipeline, and every
// ChainMonitor concurrently until ctx is canceled or one of them returns a
// non-context error.
func (m *Monitor) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m.pipeline.Start(ctx)
	defer m.pipeline.Stop()

	var wg sync.WaitGroup
	errs := make(chan error, 1+len(m.chainMonitors))

	run := func(name string, fn func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(ctx); err != nil && ctx.Err() == nil {
				m.logger.Error("task failed", zap.String("task", name), zap.Error(err))
				select {
				case errs <- fmt.Errorf("%s: %w", name, err):
				default:
				}
				cancel()
			}
		}()
	}

	run("fetcher", m.fetcher.Run)
	for i, cm := range m.chainMonitors {
		run(fmt.Sprintf("chainMonitor[%d]", i), cm.Run)
	}

	wg.Wait()
	close(errs)

	select {
	case err := <-errs:
		return err
	default:
		return ctx.Err()
	}
}
