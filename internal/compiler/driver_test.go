package compiler

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goodnatureofminers/sourceverify/internal/metadata"
	"go.uber.org/zap"
)

func writeFakeCompiler(t *testing.T, dir, version, stdout string) {
	t.Helper()
	script := "#!/bin/sh\ncat <<'SOLCEOF'\n" + stdout + "\nSOLCEOF\n"
	path := filepath.Join(dir, "solc-"+version)
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake compiler: %v", err)
	}
}

func TestDriver_Recompile(t *testing.T) {
	dir := t.TempDir()
	version := "0.8.19+commit.7dd6d404"
	writeFakeCompiler(t, dir, version,
		`{"contracts":{"Main.sol":{"Main":{"metadata":"{\"normalized\":true}","evm":{"deployedBytecode":{"object":"6001600155"}}}}}}`)

	doc := &metadata.Document{
		Compiler: metadata.CompilerInfo{Version: version},
		Settings: metadata.Settings{CompilationTarget: map[string]string{"Main.sol": "Main"}},
		Sources:  map[string]metadata.SourceInfo{"Main.sol": {Keccak256: "0x00"}},
	}
	sources := map[string]string{"Main.sol": "contract Main {}"}

	d := New(DirLocator{Dir: dir}, zap.NewNop(), time.Second)
	bytecode, normalizedMetadata, err := d.Recompile(context.Background(), doc, sources)
	if err != nil {
		t.Fatalf("Recompile() error: %v", err)
	}

	want, _ := hex.DecodeString("6001600155")
	if !bytes.Equal(bytecode, want) {
		t.Fatalf("bytecode = %x, want %x", bytecode, want)
	}
	if string(normalizedMetadata) != `{"normalized":true}` {
		t.Fatalf("normalizedMetadata = %s", normalizedMetadata)
	}
}

func TestDriver_Recompile_UnsupportedVersion(t *testing.T) {
	dir := t.TempDir()
	doc := &metadata.Document{
		Compiler: metadata.CompilerInfo{Version: "0.4.11"},
		Settings: metadata.Settings{CompilationTarget: map[string]string{"Main.sol": "Main"}},
		Sources:  map[string]metadata.SourceInfo{"Main.sol": {Keccak256: "0x00"}},
	}

	d := New(DirLocator{Dir: dir}, zap.NewNop(), time.Second)
	_, _, err := d.Recompile(context.Background(), doc, map[string]string{"Main.sol": "x"})
	if !errors.Is(err, ErrUnsupportedVersion) {
		t.Fatalf("expected ErrUnsupportedVersion, got %v", err)
	}
}

func TestDriver_Recompile_MissingSource(t *testing.T) {
	dir := t.TempDir()
	version := "0.8.19"
	writeFakeCompiler(t, dir, version, `{"contracts":{}}`)

	doc := &metadata.Document{
		Compiler: metadata.CompilerInfo{Version: version},
		Settings: metadata.Settings{CompilationTarget: map[string]string{"Main.sol": "Main"}},
		Sources:  map[string]metadata.SourceInfo{"Main.sol": {Keccak256: "0x00"}},
	}

	d := New(DirLocator{Dir: dir}, zap.NewNop(), time.Second)
	_, _, err := d.Recompile(context.Background(), doc, map[string]string{})
	if err == nil {
		t.Fatalf("expected error for missing source content")
	}
}

func TestDriver_Recompile_CompilerError(t *testing.T) {
	dir := t.TempDir()
	version := "0.8.19"
	writeFakeCompiler(t, dir, version, `{"errors":[{"severity":"error","formattedMessage":"ParserError: bad syntax"}]}`)

	doc := &metadata.Document{
		Compiler: metadata.CompilerInfo{Version: version},
		Settings: metadata.Settings{CompilationTarget: map[string]string{"Main.sol": "Main"}},
		Sources:  map[string]metadata.SourceInfo{"Main.sol": {Keccak256: "0x00"}},
	}

	d := New(DirLocator{Dir: dir}, zap.NewNop(), time.Second)
	_, _, err := d.Recompile(context.Background(), doc, map[string]string{"Main.sol": "contract Main {}"})
	if err == nil {
		t.Fatalf("expected error for fatal compiler diagnostic")
	}
}
