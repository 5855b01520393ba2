package gateway

import (
	"errors"
	"fmt"
)

// Gateway resolves a SourceAddress to a fetchable URL for origins it claims
// to serve.
type Gateway interface {
	WorksWith(origin Origin) bool
	CreateURL(id string) string
}

// SimpleGateway is a Gateway parameterized by a fixed set of accepted
// origins and a URL prefix; CreateURL is plain concatenation.
type SimpleGateway struct {
	origins map[Origin]struct{}
	prefix  string
}

// NewSimpleGateway builds a SimpleGateway serving the given origins under a
// single URL prefix.
func NewSimpleGateway(prefix string, origins ...Origin) *SimpleGateway {
	set := make(map[Origin]struct{}, len(origins))
	for _, o := range origins {
		set[o] = struct{}{}
	}
	return &SimpleGateway{origins: set, prefix: prefix}
}

func (g *SimpleGateway) WorksWith(origin Origin) bool {
	_, ok := g.origins[origin]
	return ok
}

func (g *SimpleGateway) CreateURL(id string) string {
	return g.prefix + id
}

// Set is the registered, ordered collection of gateways. The first gateway
// whose WorksWith matches an origin wins.
type Set struct {
	gateways []Gateway
}

// NewSet builds a Set from an ordered list of gateways. A Set with no
// gateways registered for a known origin is a configuration error the
// caller must catch at startup (spec §4.A); NewSet itself does not validate
// against a fixed origin list since the registered set is caller-supplied.
func NewSet(gateways ...Gateway) *Set {
	return &Set{gateways: gateways}
}

// ErrUnknownOrigin is returned when no registered gateway serves an origin.
var ErrUnknownOrigin = errors.New("no gateway registered for origin")

// URLFor returns the fetch URL for a SourceAddress, or ErrUnknownOrigin if
// no registered gateway claims the address's origin.
func (s *Set) URLFor(addr SourceAddress) (string, error) {
	for _, g := range s.gateways {
		if g.WorksWith(addr.Origin) {
			return g.CreateURL(addr.ID), nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownOrigin, addr.Origin)
}
