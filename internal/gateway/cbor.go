package gateway

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// ErrNoMetadataPointer is returned when the bytecode's CBOR tail does not
// contain a recognized content-address field.
var ErrNoMetadataPointer = errors.New("no ipfs/bzzr metadata pointer in bytecode tail")

// ExtractSourceAddress reads the trailing CBOR auxiliary data from Solidity
// runtime bytecode and recovers the embedded metadata pointer. See spec §6:
// the last two bytes are a big-endian uint16 length L; the CBOR map occupies
// the L bytes immediately before that length field.
func ExtractSourceAddress(runtimeBytecode []byte) (SourceAddress, error) {
	if len(runtimeBytecode) < 2 {
		return SourceAddress{}, fmt.Errorf("bytecode too short for a CBOR tail: %d bytes", len(runtimeBytecode))
	}

	n := len(runtimeBytecode)
	length := int(runtimeBytecode[n-2])<<8 | int(runtimeBytecode[n-1])
	if length <= 0 || length+2 > n {
		return SourceAddress{}, fmt.Errorf("malformed CBOR tail length %d for %d-byte bytecode", length, n)
	}

	cborStart := n - 2 - length
	raw := runtimeBytecode[cborStart : n-2]

	var fields map[string]cbor.RawMessage
	if err := cbor.Unmarshal(raw, &fields); err != nil {
		return SourceAddress{}, fmt.Errorf("decode CBOR metadata tail: %w", err)
	}

	if b, ok := fields["ipfs"]; ok {
		var hash []byte
		if err := cbor.Unmarshal(b, &hash); err != nil {
			return SourceAddress{}, fmt.Errorf("decode ipfs field: %w", err)
		}
		return NewIPFSAddress(hash), nil
	}
	if b, ok := fields["bzzr1"]; ok {
		var hash []byte
		if err := cbor.Unmarshal(b, &hash); err != nil {
			return SourceAddress{}, fmt.Errorf("decode bzzr1 field: %w", err)
		}
		return NewSwarmAddress(OriginBzzr1, hash), nil
	}
	if b, ok := fields["bzzr0"]; ok {
		var hash []byte
		if err := cbor.Unmarshal(b, &hash); err != nil {
			return SourceAddress{}, fmt.Errorf("decode bzzr0 field: %w", err)
		}
		return NewSwarmAddress(OriginBzzr0, hash), nil
	}

	return SourceAddress{}, ErrNoMetadataPointer
}
