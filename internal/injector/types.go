package injector

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/sourceverify/internal/contract"
	"github.com/goodnatureofminers/sourceverify/internal/gateway"
	"github.com/goodnatureofminers/sourceverify/internal/matcher"
	"github.com/goodnatureofminers/sourceverify/internal/metadata"
)

// CompilerDriver is the subset of compiler.Driver the Injector needs.
type CompilerDriver interface {
	Recompile(ctx context.Context, doc *metadata.Document, sources map[string]string) (runtimeBytecode, normalizedMetadata []byte, err error)
}

// ChainClient fetches on-chain bytecode when the caller hasn't already
// supplied it (the user-driven path).
type ChainClient interface {
	CodeAt(ctx context.Context, address common.Address, blockNumber *big.Int) ([]byte, error)
}

// Repository is the component I collaborator: a write-through,
// content-addressed store. One writer per key at a time is assumed (spec
// §5 "Shared resources").
type Repository interface {
	StoreFullMatch(ctx context.Context, origin gateway.Origin, key string, metadataBytes []byte, sources map[string]contract.Source) error
	StorePartialMatch(ctx context.Context, chainID uint64, address string, metadataBytes []byte, sources map[string]contract.Source) error
}

// Input is the tagged union the Injector accepts: exactly one of
// ChainInput or UserInput, never an ambiguous positional parameter list
// (spec §9 design note (iii): "pick one [call convention] ... and reject
// the other").
type Input interface {
	isInjectorInput()
}

// ChainInput is the assembler-driven path (spec §4.G): a fully assembled
// CheckedContract plus the on-chain bytecode and address ChainMonitor
// already fetched.
type ChainInput struct {
	MetadataAddress gateway.SourceAddress
	Checked         *contract.CheckedContract
	OnChainBytecode []byte
	ChainID         uint64
	Address         string
	LibraryLinks    map[string]string
}

func (ChainInput) isInjectorInput() {}

// UserInput is the user-driven path: a flat, unordered set of uploaded
// files (sources and a metadata document mixed together, keyed by
// whatever filename the caller used) plus the chain and addresses to
// verify against.
type UserInput struct {
	ChainID      uint64
	Addresses    []string
	Files        map[string]string
	LibraryLinks map[string]string
}

func (UserInput) isInjectorInput() {}

// Result is the outcome of verifying one address.
type Result struct {
	Address string
	Match   matcher.Result
	Err     error
}
