// Package compiler implements the Compiler Driver (spec §4.E): given a
// metadata document and resolved source contents, it selects the exact
// solc version metadata declares, reconstructs the compiler input verbatim
// from metadata's settings, invokes the compiler as a subprocess, and
// returns the recompiled runtime bytecode plus the compiler's own
// (byte-stable) metadata echo.
package compiler

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/goodnatureofminers/sourceverify/internal/metadata"
	"go.uber.org/zap"
)

// Driver invokes a resolved solc binary via its standard-json interface.
// Each invocation is isolated: the request and response are exchanged over
// stdin/stdout, so concurrent recompilations never share a workspace (spec
// §5: "in-flight compiler invocations must be isolated").
type Driver struct {
	locator       Locator
	logger        *zap.Logger
	invokeTimeout time.Duration
}

// New constructs a Driver.
func New(locator Locator, logger *zap.Logger, invokeTimeout time.Duration) *Driver {
	return &Driver{locator: locator, logger: logger, invokeTimeout: invokeTimeout}
}

// Recompile reconstructs metadata.Settings verbatim as compiler input,
// overlays sources under their declared logical names, invokes the
// compiler, and returns the single target contract's runtime bytecode and
// the compiler's own metadata output.
func (d *Driver) Recompile(ctx context.Context, doc *metadata.Document, sources map[string]string) (runtimeBytecode []byte, normalizedMetadata []byte, err error) {
	binPath, err := d.locator.Locate(doc.Compiler.Version)
	if err != nil {
		return nil, nil, err
	}

	targetFile, err := doc.TargetFile()
	if err != nil {
		return nil, nil, err
	}
	targetName, err := doc.TargetName()
	if err != nil {
		return nil, nil, err
	}

	req, err := buildInput(doc, sources)
	if err != nil {
		return nil, nil, err
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal compiler input: %w", err)
	}

	invokeCtx, cancel := context.WithTimeout(ctx, d.invokeTimeout)
	defer cancel()

	started := time.Now()
	resp, err := d.invoke(invokeCtx, binPath, reqBody)
	d.logger.Debug("compiler invocation finished",
		zap.String("version", doc.Compiler.Version), zap.Duration("elapsed", time.Since(started)), zap.Error(err))
	if err != nil {
		return nil, nil, err
	}

	var out output
	if err := json.Unmarshal(resp, &out); err != nil {
		return nil, nil, fmt.Errorf("parse compiler output: %w", err)
	}
	for _, e := range out.Errors {
		if e.isFatal() {
			return nil, nil, fmt.Errorf("compiler error: %s", e.FormattedMessage)
		}
	}

	fileOut, ok := out.Contracts[targetFile]
	if !ok {
		return nil, nil, fmt.Errorf("compiler output missing target file %q", targetFile)
	}
	contractOut, ok := fileOut[targetName]
	if !ok {
		return nil, nil, fmt.Errorf("compiler output missing target contract %q in %q", targetName, targetFile)
	}

	runtimeBytecode, err = hex.DecodeString(contractOut.EVM.DeployedBytecode.Object)
	if err != nil {
		return nil, nil, fmt.Errorf("decode deployed bytecode: %w", err)
	}

	return runtimeBytecode, []byte(contractOut.Metadata), nil
}

func buildInput(doc *metadata.Document, sources map[string]string) (*input, error) {
	reqSources := make(map[string]inputSource, len(doc.Sources))
	for name := range doc.Sources {
		content, ok := sources[name]
		if !ok {
			return nil, fmt.Errorf("source %q cannot be found", name)
		}
		reqSources[name] = inputSource{Content: content}
	}

	return &input{
		Language: firstNonEmpty(doc.Language, "Solidity"),
		Sources:  reqSources,
		Settings: inputSettings{
			Libraries:       doc.Settings.Libraries,
			Optimizer:       doc.Settings.Optimizer,
			EVMVersion:      doc.Settings.EVMVersion,
			Remappings:      doc.Settings.Remappings,
			OutputSelection: defaultOutputSelection(doc.Settings.OutputSelection),
		},
	}, nil
}

func defaultOutputSelection(declared json.RawMessage) json.RawMessage {
	if len(declared) > 0 {
		return declared
	}
	return json.RawMessage(`{"*":{"*":["evm.deployedBytecode","metadata"]}}`)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func (d *Driver) invoke(ctx context.Context, binPath string, input []byte) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binPath, "--standard-json")
	cmd.Stdin = bytes.NewReader(input)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("invoke %s: %w: %s", binPath, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}
