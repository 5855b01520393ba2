package metadata

import (
	"crypto/sha256"

	"github.com/btcsuite/btcd/btcutil/base58"
)

// sha256Multihash prefix: 0x12 (sha2-256 function code), 0x20 (32-byte digest length).
var sha256MultihashPrefix = []byte{0x12, 0x20}

// IPFSHash returns the CIDv0-style base58 multihash of metadata bytes, the
// key under which a full match is stored (spec §6: "ipfs/<ipfs-hash-of-metadata>").
func IPFSHash(raw []byte) string {
	digest := sha256.Sum256(raw)
	multihash := append(append([]byte{}, sha256MultihashPrefix...), digest[:]...)
	return base58.Encode(multihash)
}
