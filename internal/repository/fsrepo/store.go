// Package fsrepo implements the content-addressed filesystem layout of the
// Repository Store (spec §4.I, §6): full matches under ipfs/ or swarm/, and
// partial matches under a per-(chain,address) path, with a parallel
// sources/ tree keyed by keccak256.
package fsrepo

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/goodnatureofminers/sourceverify/internal/contract"
	"github.com/goodnatureofminers/sourceverify/internal/gateway"
	"go.uber.org/zap"
)

// Store is a single-root, write-through filesystem repository. No
// concurrent writers are assumed for the same key (spec §5).
type Store struct {
	root    string
	logger  *zap.Logger
	metrics Metrics
}

// New constructs a Store rooted at dir. dir need not exist; directories are
// created on demand as artifacts are written.
func New(dir string, logger *zap.Logger, metrics Metrics) *Store {
	return &Store{root: dir, logger: logger, metrics: metrics}
}

// StoreFullMatch writes metadataBytes at the content-addressed path for
// origin and key (spec §6: ipfs/<hash> or swarm/bzzr0|bzzr1/<hash>), plus
// every source under the parallel sources/ tree.
func (s *Store) StoreFullMatch(ctx context.Context, origin gateway.Origin, key string, metadataBytes []byte, sources map[string]contract.Source) error {
	started := time.Now()
	var err error
	defer func() { s.metrics.Observe("store_full_match", err, started) }()

	subdir, err := originSubdir(origin)
	if err != nil {
		return err
	}

	path := filepath.Join(s.root, subdir, key)
	if err = writeAtomic(path, metadataBytes); err != nil {
		return fmt.Errorf("write full match %s: %w", path, err)
	}

	if err = s.writeSources(sources); err != nil {
		return err
	}

	s.logger.Info("stored full match", zap.String("origin", string(origin)), zap.String("key", key))
	return nil
}

// StorePartialMatch writes metadataBytes at the per-(chain,address) path
// (spec §6: partial_matches/<chain>/<address>/metadata.json), plus every
// source under sources/.
func (s *Store) StorePartialMatch(ctx context.Context, chainID uint64, address string, metadataBytes []byte, sources map[string]contract.Source) error {
	started := time.Now()
	var err error
	defer func() { s.metrics.Observe("store_partial_match", err, started) }()

	path := filepath.Join(s.root, "partial_matches", strconv.FormatUint(chainID, 10), strings.ToLower(address), "metadata.json")
	if err = writeAtomic(path, metadataBytes); err != nil {
		return fmt.Errorf("write partial match %s: %w", path, err)
	}

	if err = s.writeSources(sources); err != nil {
		return err
	}

	s.logger.Info("stored partial match", zap.Uint64("chainId", chainID), zap.String("address", address))
	return nil
}

func (s *Store) writeSources(sources map[string]contract.Source) error {
	for name, src := range sources {
		key := strings.ToLower(strings.TrimPrefix(src.Keccak256, "0x"))
		path := filepath.Join(s.root, "sources", key)
		if err := writeAtomic(path, []byte(src.Content)); err != nil {
			return fmt.Errorf("write source %q: %w", name, err)
		}
	}
	return nil
}

func originSubdir(origin gateway.Origin) (string, error) {
	switch origin {
	case gateway.OriginIPFS:
		return "ipfs", nil
	case gateway.OriginBzzr0:
		return filepath.Join("swarm", "bzzr0"), nil
	case gateway.OriginBzzr1:
		return filepath.Join("swarm", "bzzr1"), nil
	default:
		return "", fmt.Errorf("unknown origin %q for full match storage", origin)
	}
}
