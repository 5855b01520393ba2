// Package metadata models the canonical Solidity compiler metadata document
// (spec §6) and the hashing used to key it in the repository.
package metadata

import (
	"encoding/json"
	"fmt"
)

// Document is the Solidity compiler metadata JSON, as emitted by solc and
// consumed by the Assembler, Compiler Driver, and Injector.
type Document struct {
	Compiler CompilerInfo          `json:"compiler"`
	Language string                `json:"language,omitempty"`
	Settings Settings              `json:"settings"`
	Sources  map[string]SourceInfo `json:"sources"`
	Output   json.RawMessage       `json:"output,omitempty"`
}

// CompilerInfo names the exact compiler version used, e.g. "0.8.19+commit.7dd6d404".
type CompilerInfo struct {
	Version string `json:"version"`
}

// Settings is the full compiler input settings block, passed through
// verbatim to the Compiler Driver (spec §4.E step 2).
type Settings struct {
	CompilationTarget map[string]string `json:"compilationTarget"`
	Libraries         map[string]string `json:"libraries,omitempty"`
	Optimizer         json.RawMessage   `json:"optimizer,omitempty"`
	EVMVersion        string            `json:"evmVersion,omitempty"`
	Remappings        []string          `json:"remappings,omitempty"`
	OutputSelection   json.RawMessage   `json:"outputSelection,omitempty"`
	Metadata          json.RawMessage   `json:"metadata,omitempty"`
}

// SourceInfo is one entry of the metadata's "sources" map.
type SourceInfo struct {
	Keccak256 string   `json:"keccak256"`
	URLs      []string `json:"urls,omitempty"`
	Content   *string  `json:"content,omitempty"`
	License   string   `json:"license,omitempty"`
}

// Parse decodes a metadata document and validates the minimal shape the
// spec requires (compiler version, a single compilation target, sources).
func Parse(raw []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse metadata json: %w", err)
	}

	if doc.Compiler.Version == "" {
		return nil, fmt.Errorf("metadata missing compiler.version")
	}
	if len(doc.Settings.CompilationTarget) == 0 {
		return nil, fmt.Errorf("metadata missing settings.compilationTarget")
	}
	if len(doc.Sources) == 0 {
		return nil, fmt.Errorf("metadata missing sources")
	}

	return &doc, nil
}

// TargetName returns the single compiler target declared in
// settings.compilationTarget (spec §4.C step 4: "name = the single compiler
// target declared in metadata").
func (d *Document) TargetName() (string, error) {
	if len(d.Settings.CompilationTarget) != 1 {
		return "", fmt.Errorf("expected exactly one compilation target, got %d", len(d.Settings.CompilationTarget))
	}
	for _, name := range d.Settings.CompilationTarget {
		return name, nil
	}
	return "", fmt.Errorf("unreachable")
}

// TargetFile returns the logical source name declared as the compilation
// target's file.
func (d *Document) TargetFile() (string, error) {
	if len(d.Settings.CompilationTarget) != 1 {
		return "", fmt.Errorf("expected exactly one compilation target, got %d", len(d.Settings.CompilationTarget))
	}
	for file := range d.Settings.CompilationTarget {
		return file, nil
	}
	return "", fmt.Errorf("unreachable")
}
