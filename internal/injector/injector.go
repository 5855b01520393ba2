// Package injector implements the Injector (spec §4.G): it orchestrates
// compile → match → store for both the assembler-driven path (a
// ChainMonitor has already resolved a CheckedContract and its on-chain
// bytecode) and the user-driven path (a caller uploads a flat file set and
// a list of addresses to verify against).
package injector

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/sourceverify/internal/compiler"
	"github.com/goodnatureofminers/sourceverify/internal/contract"
	"github.com/goodnatureofminers/sourceverify/internal/gateway"
	"github.com/goodnatureofminers/sourceverify/internal/matcher"
	"github.com/goodnatureofminers/sourceverify/internal/metadata"
	"go.uber.org/zap"
)

// Injector is the component H collaborator: given a CheckedContract (or the
// raw materials to build one) and the address it claims to verify, it
// recompiles, matches against on-chain bytecode, and persists the result.
type Injector struct {
	driver  CompilerDriver
	repo    Repository
	clients map[uint64]ChainClient
	logger  *zap.Logger
}

// New constructs an Injector. clients supplies a ChainClient per chain id
// for the user-driven path, where on-chain bytecode has not already been
// fetched by a ChainMonitor.
func New(driver CompilerDriver, repo Repository, clients map[uint64]ChainClient, logger *zap.Logger) *Injector {
	return &Injector{driver: driver, repo: repo, clients: clients, logger: logger}
}

// Inject dispatches on the concrete type of input — the only two accepted
// shapes are ChainInput and UserInput; anything else is a programming
// error caught here rather than silently ignored.
func (inj *Injector) Inject(ctx context.Context, in Input) ([]Result, error) {
	switch v := in.(type) {
	case ChainInput:
		r := inj.injectChain(ctx, v)
		return []Result{r}, nil
	case UserInput:
		return inj.injectUser(ctx, v)
	default:
		return nil, fmt.Errorf("injector: unsupported input type %T", in)
	}
}

func (inj *Injector) injectChain(ctx context.Context, in ChainInput) Result {
	doc := in.Checked.Metadata
	if err := compiler.AddLibraryLinks(doc, in.LibraryLinks); err != nil {
		return Result{Address: in.Address, Err: err}
	}

	sources := make(map[string]string, len(in.Checked.Sources))
	for name, src := range in.Checked.Sources {
		sources[name] = src.Content
	}

	runtimeBytecode, normalizedMetadata, err := inj.driver.Recompile(ctx, doc, sources)
	if err != nil {
		return Result{Address: in.Address, Err: err}
	}

	result := matcher.Match(in.OnChainBytecode, runtimeBytecode)
	if result == matcher.ResultNone {
		return Result{Address: in.Address, Match: result, Err: fmt.Errorf("%w: %s", ErrNoMatch, in.Address)}
	}

	if err := inj.store(ctx, result, in.MetadataAddress, in.ChainID, in.Address, normalizedMetadata, in.Checked.Sources); err != nil {
		return Result{Address: in.Address, Match: result, Err: err}
	}
	return Result{Address: in.Address, Match: result}
}

func (inj *Injector) injectUser(ctx context.Context, in UserInput) ([]Result, error) {
	doc, candidates, err := partitionFiles(in.Files)
	if err != nil {
		return nil, err
	}

	client := inj.clients[in.ChainID]
	results := make([]Result, 0, len(in.Addresses))

	for _, address := range in.Addresses {
		checked, err := assembleFromCandidates(doc, candidates)
		if err != nil {
			results = append(results, Result{Address: address, Err: err})
			continue
		}

		if err := compiler.AddLibraryLinks(checked.Metadata, in.LibraryLinks); err != nil {
			results = append(results, Result{Address: address, Err: err})
			continue
		}

		onChainBytecode, err := inj.fetchCode(ctx, client, address)
		if err != nil {
			results = append(results, Result{Address: address, Err: err})
			continue
		}

		runtimeBytecode, normalizedMetadata, err := inj.driver.Recompile(ctx, checked.Metadata, sourceContents(checked))
		if err != nil {
			results = append(results, Result{Address: address, Err: err})
			continue
		}

		matchResult := matcher.Match(onChainBytecode, runtimeBytecode)
		if matchResult == matcher.ResultNone {
			results = append(results, Result{Address: address, Match: matchResult, Err: fmt.Errorf("%w: %s", ErrNoMatch, address)})
			continue
		}

		metaAddr := gateway.SourceAddress{Origin: gateway.OriginIPFS, ID: metadata.IPFSHash(normalizedMetadata)}
		if err := inj.store(ctx, matchResult, metaAddr, in.ChainID, address, normalizedMetadata, checked.Sources); err != nil {
			results = append(results, Result{Address: address, Match: matchResult, Err: err})
			continue
		}
		results = append(results, Result{Address: address, Match: matchResult})
	}

	return results, nil
}

func (inj *Injector) fetchCode(ctx context.Context, client ChainClient, address string) ([]byte, error) {
	if client == nil {
		return nil, fmt.Errorf("no chain client configured for address %s", address)
	}
	return client.CodeAt(ctx, common.HexToAddress(address), nil)
}

func sourceContents(c *contract.CheckedContract) map[string]string {
	out := make(map[string]string, len(c.Sources))
	for name, src := range c.Sources {
		out[name] = src.Content
	}
	return out
}

// store persists a match result: perfect matches go to the content-addressed
// full-match path keyed by the metadata's own address (ipfs hash or swarm
// hash); partial matches go to the per-(chain,address) path (spec §6, §8
// scenarios 1-5).
func (inj *Injector) store(ctx context.Context, result matcher.Result, metaAddr gateway.SourceAddress, chainID uint64, address string, normalizedMetadata []byte, sources map[string]contract.Source) error {
	switch result {
	case matcher.ResultPerfect:
		return inj.repo.StoreFullMatch(ctx, metaAddr.Origin, metaAddr.ID, normalizedMetadata, sources)
	case matcher.ResultPartial:
		return inj.repo.StorePartialMatch(ctx, chainID, address, normalizedMetadata, sources)
	default:
		return fmt.Errorf("%w: %s", ErrNoMatch, address)
	}
}
