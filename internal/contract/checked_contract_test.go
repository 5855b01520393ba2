package contract

import (
	"testing"

	"github.com/goodnatureofminers/sourceverify/internal/metadata"
)

func TestBuild_Success(t *testing.T) {
	content := "contract Simple {}"
	hash := Keccak256Hex(content)

	doc := &metadata.Document{
		Compiler: metadata.CompilerInfo{Version: "0.8.19+commit.7dd6d404"},
		Settings: metadata.Settings{CompilationTarget: map[string]string{"Simple.sol": "Simple"}},
		Sources: map[string]metadata.SourceInfo{
			"Simple.sol": {Keccak256: hash},
		},
	}

	got, err := Build(doc, map[string]string{"Simple.sol": content})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if got.Name != "Simple" {
		t.Fatalf("Name = %q, want Simple", got.Name)
	}
	if got.Sources["Simple.sol"].Content != content {
		t.Fatalf("Sources[Simple.sol].Content mismatch")
	}
}

func TestBuild_MissingSource(t *testing.T) {
	doc := &metadata.Document{
		Compiler: metadata.CompilerInfo{Version: "0.8.19"},
		Settings: metadata.Settings{CompilationTarget: map[string]string{"Simple.sol": "Simple"}},
		Sources: map[string]metadata.SourceInfo{
			"Simple.sol": {Keccak256: "0xdead"},
		},
	}

	_, err := Build(doc, map[string]string{})
	if err == nil {
		t.Fatalf("expected error for missing source")
	}
}

func TestBuild_HashMismatch(t *testing.T) {
	doc := &metadata.Document{
		Compiler: metadata.CompilerInfo{Version: "0.8.19"},
		Settings: metadata.Settings{CompilationTarget: map[string]string{"Simple.sol": "Simple"}},
		Sources: map[string]metadata.SourceInfo{
			"Simple.sol": {Keccak256: "0x" + "00"},
		},
	}

	_, err := Build(doc, map[string]string{"Simple.sol": "contract Simple {}"})
	if err == nil {
		t.Fatalf("expected error for keccak256 mismatch")
	}
}
