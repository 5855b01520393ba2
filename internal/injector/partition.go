package injector

import (
	"fmt"
	"strings"

	"github.com/goodnatureofminers/sourceverify/internal/contract"
	"github.com/goodnatureofminers/sourceverify/internal/metadata"
)

// partitionFiles splits an unordered file set into the single metadata
// document and the remaining source candidates (spec §4.G user-driven step
// 1). The first file that parses as a metadata document wins; this assumes
// a well-formed upload contains exactly one.
func partitionFiles(files map[string]string) (*metadata.Document, map[string]string, error) {
	for name, content := range files {
		doc, err := metadata.Parse([]byte(content))
		if err != nil {
			continue
		}

		rest := make(map[string]string, len(files)-1)
		for otherName, otherContent := range files {
			if otherName == name {
				continue
			}
			rest[otherName] = otherContent
		}
		return doc, rest, nil
	}

	return nil, nil, ErrMetadataNotFound
}

// assembleFromCandidates builds a CheckedContract by keccak256-matching
// each metadata-declared source against the candidate file set, independent
// of the candidate's filename (spec §4.G user-driven step 2: uploads need
// not use the original logical names).
func assembleFromCandidates(doc *metadata.Document, candidates map[string]string) (*contract.CheckedContract, error) {
	byHash := make(map[string]string, len(candidates))
	for _, content := range candidates {
		byHash[contract.Keccak256Hex(content)] = content
	}

	resolved := make(map[string]string, len(doc.Sources))
	for sourceName, info := range doc.Sources {
		if info.Content != nil {
			resolved[sourceName] = *info.Content
			continue
		}
		content, ok := byHash[normalizedHex(info.Keccak256)]
		if !ok {
			return nil, fmt.Errorf("source %q cannot be found", sourceName)
		}
		resolved[sourceName] = content
	}

	return contract.Build(doc, resolved)
}

func normalizedHex(s string) string {
	return "0x" + strings.ToLower(strings.TrimPrefix(s, "0x"))
}
