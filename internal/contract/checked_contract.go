// Package contract defines CheckedContract, the assembled input handed from
// the ContractAssembler (or a user-driven injection) to the Injector.
package contract

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/goodnatureofminers/sourceverify/internal/metadata"
)

// Source is one resolved source file: its content and the keccak256 digest
// that content must match against metadata's declared value.
type Source struct {
	Content   string
	Keccak256 string
}

// CheckedContract is the complete, verified-consistent assembly handed to
// the Injector: invariant I-4 (spec §8) — every source's keccak256 equals
// metadata's declared value for that name.
type CheckedContract struct {
	Name     string
	Metadata *metadata.Document
	Sources  map[string]Source
}

// Keccak256Hex returns the 0x-prefixed lowercase hex keccak256 digest of
// content, in the form metadata.json declares it.
func Keccak256Hex(content string) string {
	digest := crypto.Keccak256([]byte(content))
	return fmt.Sprintf("0x%x", digest)
}

// Build assembles a CheckedContract from a metadata document and a fully
// resolved name -> content map, verifying every declared source's hash
// (spec §8 invariant 4). It fails closed: any mismatch or missing source
// aborts assembly with the offending name.
func Build(doc *metadata.Document, contents map[string]string) (*CheckedContract, error) {
	name, err := doc.TargetName()
	if err != nil {
		return nil, err
	}

	sources := make(map[string]Source, len(doc.Sources))
	for sourceName, info := range doc.Sources {
		content, ok := contents[sourceName]
		if !ok {
			return nil, fmt.Errorf("source %q cannot be found", sourceName)
		}

		digest := Keccak256Hex(content)
		if !equalHex(digest, info.Keccak256) {
			return nil, fmt.Errorf("source %q keccak256 mismatch: got %s, metadata declares %s", sourceName, digest, info.Keccak256)
		}

		sources[sourceName] = Source{Content: content, Keccak256: digest}
	}

	return &CheckedContract{Name: name, Metadata: doc, Sources: sources}, nil
}

// Keccak256Matches reports whether content's keccak256 digest equals
// declaredHex (which may or may not carry a "0x" prefix).
func Keccak256Matches(content, declaredHex string) bool {
	return equalHex(Keccak256Hex(content), declaredHex)
}

func equalHex(a, b string) bool {
	norm := func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "0x")
	}
	return norm(a) == norm(b)
}
