package gateway

import "strings"

// ParseContentURL recognizes the content-address URL forms Solidity
// metadata embeds in a source's "urls" list (spec §4.C step 1):
// "dweb:/ipfs/<hash>", "/ipfs/<hash>", "bzz-raw://<hash>".
func ParseContentURL(raw string) (SourceAddress, bool) {
	switch {
	case strings.HasPrefix(raw, "dweb:/ipfs/"):
		return SourceAddress{Origin: OriginIPFS, ID: strings.TrimPrefix(raw, "dweb:/ipfs/")}, true
	case strings.HasPrefix(raw, "/ipfs/"):
		return SourceAddress{Origin: OriginIPFS, ID: strings.TrimPrefix(raw, "/ipfs/")}, true
	case strings.HasPrefix(raw, "bzz-raw://"):
		return SourceAddress{Origin: OriginBzzr1, ID: strings.TrimPrefix(raw, "bzz-raw://")}, true
	case strings.HasPrefix(raw, "bzzr1://"):
		return SourceAddress{Origin: OriginBzzr1, ID: strings.TrimPrefix(raw, "bzzr1://")}, true
	case strings.HasPrefix(raw, "bzzr0://"):
		return SourceAddress{Origin: OriginBzzr0, ID: strings.TrimPrefix(raw, "bzzr0://")}, true
	default:
		return SourceAddress{}, false
	}
}

// FirstResolvable returns the SourceAddress for the first URL that both
// parses into a recognized content-address and is served by a registered
// gateway.
func (s *Set) FirstResolvable(urls []string) (SourceAddress, bool) {
	for _, raw := range urls {
		addr, ok := ParseContentURL(raw)
		if !ok {
			continue
		}
		if _, err := s.URLFor(addr); err == nil {
			return addr, true
		}
	}
	return SourceAddress{}, false
}
