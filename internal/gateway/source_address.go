// Package gateway maps content-address origins to fetchable gateway URLs and
// recovers a SourceAddress from the CBOR auxiliary data Solidity appends to
// runtime bytecode.
package gateway

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
)

// Origin identifies the content-addressing scheme a SourceAddress belongs to.
type Origin string

const (
	OriginIPFS  Origin = "ipfs"
	OriginBzzr0 Origin = "bzzr0"
	OriginBzzr1 Origin = "bzzr1"
)

// SourceAddress is a content-address: an origin plus the hash in that
// origin's natural encoding (base58 for ipfs, hex for bzzr0/bzzr1).
type SourceAddress struct {
	Origin Origin
	ID     string
}

// NewIPFSAddress builds a SourceAddress from a raw IPFS multihash, encoding
// it as base58 the way a CIDv0 string is rendered.
func NewIPFSAddress(multihash []byte) SourceAddress {
	return SourceAddress{Origin: OriginIPFS, ID: base58.Encode(multihash)}
}

// NewSwarmAddress builds a SourceAddress from a raw bzzr0/bzzr1 hash,
// encoding it as hex.
func NewSwarmAddress(origin Origin, hash []byte) SourceAddress {
	return SourceAddress{Origin: origin, ID: fmt.Sprintf("%x", hash)}
}

// UniqueID is the fetcher's dedup key: "origin:id".
func (a SourceAddress) UniqueID() string {
	return string(a.Origin) + ":" + a.ID
}

func (a SourceAddress) String() string {
	return a.UniqueID()
}
