// Command sourceverify-inject drives the Injector's user-provided path
// (spec §4.G UserInput): given a directory of source files plus a
// metadata.json, recompile and match them against one or more on-chain
// addresses and persist any match into the filesystem repository.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/goodnatureofminers/sourceverify/internal/compiler"
	"github.com/goodnatureofminers/sourceverify/internal/evmrpc"
	"github.com/goodnatureofminers/sourceverify/internal/injector"
	"github.com/goodnatureofminers/sourceverify/internal/metrics"
	"github.com/goodnatureofminers/sourceverify/internal/repository/fsrepo"
	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"
)

type config struct {
	ChainID       uint64 `long:"chain-id" description:"chain id the addresses live on" required:"true"`
	RPCURL        string `long:"rpc-url" description:"EVM JSON-RPC endpoint for chain-id" required:"true"`
	Addresses     string `long:"addresses" description:"comma-separated contract addresses to verify" required:"true"`
	SourcesDir    string `long:"sources-dir" description:"directory containing metadata.json and source files" required:"true"`
	LibraryLinks  string `long:"library-links" description:"comma-separated name=address library link pairs"`
	CompilerDir   string `long:"compiler-dir" env:"SOLC_DIR" description:"directory of solc-<version> binaries" default:"/usr/local/solc"`
	RepositoryDir string `long:"repository-dir" env:"REPOSITORY_DIR" description:"filesystem repository root" default:"./repository"`
}

func main() {
	var cfg config

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	results, err := run(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("injection failed", zap.Error(err))
	}

	exitCode := 0
	for _, res := range results {
		if res.Err != nil {
			fmt.Printf("%s: no match (%v)\n", res.Address, res.Err)
			exitCode = 1
			continue
		}
		fmt.Printf("%s: %s match\n", res.Address, res.Match)
	}
	os.Exit(exitCode)
}

func run(ctx context.Context, cfg config, logger *zap.Logger) ([]injector.Result, error) {
	files, err := readSourcesDir(cfg.SourcesDir)
	if err != nil {
		return nil, fmt.Errorf("read sources dir: %w", err)
	}

	links, err := parseLibraryLinks(cfg.LibraryLinks)
	if err != nil {
		return nil, fmt.Errorf("parse library links: %w", err)
	}

	rpc, err := ethclient.Dial(cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc: %w", err)
	}

	driver := compiler.New(compiler.DirLocator{Dir: cfg.CompilerDir}, logger.Named("compiler"), compiler.DefaultInvokeTimeout)
	repo := fsrepo.New(cfg.RepositoryDir, logger.Named("repository"), metrics.NewRepository())
	clients := map[uint64]injector.ChainClient{
		cfg.ChainID: evmrpc.NewObservedClient(rpc, metrics.NewEVMRPCClient()),
	}
	inj := injector.New(driver, repo, clients, logger.Named("injector"))

	addresses := strings.Split(cfg.Addresses, ",")
	for i := range addresses {
		addresses[i] = strings.TrimSpace(addresses[i])
	}

	return inj.Inject(ctx, injector.UserInput{
		ChainID:      cfg.ChainID,
		Addresses:    addresses,
		Files:        files,
		LibraryLinks: links,
	})
}

func readSourcesDir(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	files := make(map[string]string, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", entry.Name(), err)
		}
		files[entry.Name()] = string(content)
	}
	return files, nil
}

func parseLibraryLinks(raw string) (map[string]string, error) {
	if raw == "" {
		return nil, nil
	}
	links := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		name, addr, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid library link %q, want name=address", pair)
		}
		links[name] = addr
	}
	return links, nil
}
