package assembler

import (
	"sync"

	"github.com/goodnatureofminers/sourceverify/internal/contract"
	"github.com/goodnatureofminers/sourceverify/internal/metadata"
	"go.uber.org/zap"
)

// pendingContract is in-flight assembly state for one on-chain contract
// (spec §3). It is exclusively owned by the ContractAssembler until its
// completion callback fires exactly once, or it is abandoned after a
// per-source error or fetcher cleanup.
type pendingContract struct {
	mu         sync.Mutex
	logger     *zap.Logger
	onComplete func(*contract.CheckedContract)
	onFailure  func(error)

	doc      *metadata.Document
	resolved map[string]string
	fired    bool
	failed   bool
}

func newPendingContract(logger *zap.Logger, onComplete func(*contract.CheckedContract), onFailure func(error)) *pendingContract {
	return &pendingContract{
		logger:     logger,
		onComplete: onComplete,
		onFailure:  onFailure,
		resolved:   make(map[string]string),
	}
}

func (pc *pendingContract) setMetadata(doc *metadata.Document) {
	pc.mu.Lock()
	pc.doc = doc
	pc.mu.Unlock()
}

func (pc *pendingContract) resolveSource(name, content string) {
	pc.mu.Lock()
	if !pc.failed && !pc.fired {
		pc.resolved[name] = content
	}
	pc.mu.Unlock()
}

func (pc *pendingContract) fail(err error) {
	pc.mu.Lock()
	alreadyDone := pc.failed || pc.fired
	pc.failed = true
	pc.mu.Unlock()

	if alreadyDone {
		return
	}
	pc.logger.Warn("contract assembly aborted", zap.Error(err))
	if pc.onFailure != nil {
		pc.onFailure(err)
	}
}

// tryComplete builds and fires the CheckedContract once every declared
// source is present. It is safe to call repeatedly; it fires onComplete at
// most once (spec §3: "destroyed after callback fires exactly once").
func (pc *pendingContract) tryComplete() {
	pc.mu.Lock()
	if pc.failed || pc.fired || pc.doc == nil {
		pc.mu.Unlock()
		return
	}
	if len(pc.resolved) < len(pc.doc.Sources) {
		pc.mu.Unlock()
		return
	}

	doc := pc.doc
	resolved := make(map[string]string, len(pc.resolved))
	for k, v := range pc.resolved {
		resolved[k] = v
	}
	pc.fired = true
	pc.mu.Unlock()

	checked, err := contract.Build(doc, resolved)
	if err != nil {
		pc.logger.Warn("contract assembly failed at build", zap.Error(err))
		if pc.onFailure != nil {
			pc.onFailure(err)
		}
		return
	}
	pc.onComplete(checked)
}
