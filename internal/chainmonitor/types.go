package chainmonitor

import (
	"time"

	"github.com/goodnatureofminers/sourceverify/internal/contract"
	"github.com/goodnatureofminers/sourceverify/internal/gateway"
)

// Metrics records observations for the block loop and bytecode resolution
// (spec §4.D).
type Metrics interface {
	ObserveBlockFetch(err error, started time.Time)
	ObserveCodeAt(err error, started time.Time)
	ObserveContractCreation()
	ObserveAssemblyStart(err error)
}

// Assembler is the component C collaborator: Assemble begins assembly of one
// contract's metadata address, firing onComplete or onFailure at most once;
// neither fires if a required source is never fetched.
type Assembler interface {
	Assemble(metadataAddress gateway.SourceAddress, onComplete func(*contract.CheckedContract), onFailure func(error)) error
}

// Injector is the component H collaborator invoked once a CheckedContract is
// fully assembled for an on-chain address.
type Injector interface {
	InjectFromChain(metadataAddress gateway.SourceAddress, checked *contract.CheckedContract, onChainBytecode []byte, chainID uint64, address string)
}
