package injector

import "errors"

// ErrMetadataNotFound is returned when a user-driven injection's file set
// contains no parseable metadata document (spec §8 scenario 6).
var ErrMetadataNotFound = errors.New(`Metadata file not found. Did you include "metadata.json"?`)

// ErrNoMatch is returned when recompiled bytecode matches on-chain bytecode
// under neither the perfect nor the partial relation (spec §8 scenario 8).
var ErrNoMatch = errors.New("Could not match on-chain deployed bytecode")
