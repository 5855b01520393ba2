// Package assembler walks the metadata graph for a single contract: it
// subscribes for the metadata document, then for every source file it
// references, until a complete compilable bundle (a CheckedContract) is
// assembled (spec §4.C). It never persists or verifies.
package assembler

import (
	"fmt"

	"github.com/goodnatureofminers/sourceverify/internal/contract"
	"github.com/goodnatureofminers/sourceverify/internal/fetcher"
	"github.com/goodnatureofminers/sourceverify/internal/gateway"
	"github.com/goodnatureofminers/sourceverify/internal/metadata"
	"go.uber.org/zap"
)

// SourceFetcher is the subset of fetcher.SourceFetcher the assembler needs.
type SourceFetcher interface {
	Subscribe(addr gateway.SourceAddress, cb fetcher.Subscriber) error
}

// ContractAssembler assembles CheckedContracts from a metadata address,
// fanning out source subscriptions through a shared SourceFetcher.
type ContractAssembler struct {
	fetcher  SourceFetcher
	gateways *gateway.Set
	logger   *zap.Logger
}

// New constructs a ContractAssembler.
func New(fetcher SourceFetcher, gateways *gateway.Set, logger *zap.Logger) *ContractAssembler {
	return &ContractAssembler{fetcher: fetcher, gateways: gateways, logger: logger}
}

// Assemble begins assembly of one contract. onComplete fires exactly once
// when every required artifact is present; onFailure fires at most once if
// assembly is aborted by a hash mismatch, malformed metadata, or an
// unresolvable source (spec §4.C step 3, §7 "Assembly" error kind). A
// source whose fetch is never satisfied causes silent abandonment per
// fetcher cleanup (spec §4.C "Failure policy") — neither callback fires.
func (a *ContractAssembler) Assemble(metadataAddress gateway.SourceAddress, onComplete func(*contract.CheckedContract), onFailure func(error)) error {
	logger := a.logger.With(zap.String("metadata_address", metadataAddress.String()))
	pc := newPendingContract(logger, onComplete, onFailure)

	return a.fetcher.Subscribe(metadataAddress, func(raw []byte) {
		a.onMetadata(pc, raw)
	})
}

func (a *ContractAssembler) onMetadata(pc *pendingContract, raw []byte) {
	doc, err := metadata.Parse(raw)
	if err != nil {
		pc.fail(fmt.Errorf("parse metadata: %w", err))
		return
	}
	pc.setMetadata(doc)

	for name, info := range doc.Sources {
		name, info := name, info

		if info.Content != nil {
			content := *info.Content
			if !contract.Keccak256Matches(content, info.Keccak256) {
				pc.fail(fmt.Errorf("inline source %q keccak256 mismatch", name))
				return
			}
			pc.resolveSource(name, content)
			continue
		}

		addr, ok := a.gateways.FirstResolvable(info.URLs)
		if !ok {
			pc.fail(fmt.Errorf("source %q has no resolvable gateway url among %v", name, info.URLs))
			return
		}

		expectedHash := info.Keccak256
		if err := a.fetcher.Subscribe(addr, func(body []byte) {
			content := string(body)
			if !contract.Keccak256Matches(content, expectedHash) {
				pc.fail(fmt.Errorf("source %q keccak256 mismatch", name))
				return
			}
			pc.resolveSource(name, content)
			pc.tryComplete()
		}); err != nil {
			pc.fail(fmt.Errorf("subscribe source %q: %w", name, err))
			return
		}
	}

	pc.tryComplete()
}
