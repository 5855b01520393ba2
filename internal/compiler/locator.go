package compiler

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrUnsupportedVersion is returned when no compiler binary is found for a
// metadata document's declared compiler version (spec §7: configuration error,
// fatal to the recompilation attempt but not to the process).
var ErrUnsupportedVersion = errors.New("unsupported compiler version")

// Locator resolves an exact compiler version string to an invocable binary
// path.
type Locator interface {
	Locate(version string) (string, error)
}

// DirLocator finds solc binaries laid out one-per-version under a single
// directory, named "solc-<version>" — the layout solc-select and most
// CI-managed toolchains use.
type DirLocator struct {
	Dir string
}

func (l DirLocator) Locate(version string) (string, error) {
	path := filepath.Join(l.Dir, "solc-"+version)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: %s (%s)", ErrUnsupportedVersion, version, path)
	}
	return path, nil
}
