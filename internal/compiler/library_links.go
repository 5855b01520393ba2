package compiler

import (
	"fmt"
	"strings"

	"github.com/goodnatureofminers/sourceverify/internal/metadata"
)

// AddLibraryLinks injects caller-supplied library addresses into a metadata
// document's settings.libraries, keyed by library name, not by source path
// (spec §4.G step 2, §8 scenario 5). links maps library name to a 20-byte
// address in any case; the stored value is normalized to lowercase hex with
// a "0x" prefix.
func AddLibraryLinks(doc *metadata.Document, links map[string]string) error {
	if len(links) == 0 {
		return nil
	}

	if doc.Settings.Libraries == nil {
		doc.Settings.Libraries = make(map[string]string)
	}

	for name, address := range links {
		if len(strings.TrimPrefix(address, "0x")) != 40 {
			return fmt.Errorf("library %q: address %q is not a 20-byte hex address", name, address)
		}
		doc.Settings.Libraries[name] = "0x" + strings.ToLower(strings.TrimPrefix(address, "0x"))
	}

	return nil
}
