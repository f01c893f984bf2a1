package entities

import (
	"fmt"
)

// V2FeePathPlaceholder marks a pair hop in a packed mixed path. Bit 23 is
// never set by a real V3 fee tier.
const V2FeePathPlaceholder uint32 = 1 << 23

// PartitionMixedRouteByProtocol splits the route's venues into maximal runs
// of the same protocol, in order
func PartitionMixedRouteByProtocol(route *Route) [][]Venue {
	var sections [][]Venue
	left := 0
	for right := 0; right < len(route.Pools); right++ {
		if route.Pools[left].Protocol() != route.Pools[right].Protocol() {
			sections = append(sections, route.Pools[left:right])
			left = right
		}
	}
	if left < len(route.Pools) {
		sections = append(sections, route.Pools[left:])
	}
	return sections
}

// OutputOfPools walks a run of venues from firstInput and returns the token it ends on
func OutputOfPools(pools []Venue, firstInput Token) (Token, error) {
	current := firstInput
	for i, p := range pools {
		if !p.InvolvesToken(current) {
			return Token{}, fmt.Errorf("%w: pool %d does not involve %s", ErrPathDiscontinuity, i, current.Symbol)
		}
		current = otherToken(p, current)
	}
	return current, nil
}

func feeOf(v Venue) uint32 {
	if p, ok := v.(*Pool); ok {
		return uint32(p.Fee())
	}
	return V2FeePathPlaceholder
}

func packPath(tokens []Token, fees []uint32) []byte {
	out := make([]byte, 0, len(tokens)*20+len(fees)*3)
	for i, t := range tokens {
		out = append(out, t.Address.Bytes()...)
		if i < len(fees) {
			f := fees[i]
			out = append(out, byte(f>>16), byte(f>>8), byte(f))
		}
	}
	return out
}

// EncodeMixedRouteToPath packs token, uint24 fee, token, ... in traversal
// order. Pair hops carry V2FeePathPlaceholder as their fee.
func EncodeMixedRouteToPath(route *Route) []byte {
	fees := make([]uint32, len(route.Pools))
	for i, p := range route.Pools {
		fees[i] = feeOf(p)
	}
	return packPath(route.Path, fees)
}

// EncodeRouteToPath packs a pool route the way the V3 router expects it.
// Exact-output paths run from output back to input.
func EncodeRouteToPath(route *Route, exactOutput bool) []byte {
	tokens := append([]Token(nil), route.Path...)
	fees := make([]uint32, len(route.Pools))
	for i, p := range route.Pools {
		fees[i] = feeOf(p)
	}
	if exactOutput {
		for i, j := 0, len(tokens)-1; i < j; i, j = i+1, j-1 {
			tokens[i], tokens[j] = tokens[j], tokens[i]
		}
		for i, j := 0, len(fees)-1; i < j; i, j = i+1, j-1 {
			fees[i], fees[j] = fees[j], fees[i]
		}
	}
	return packPath(tokens, fees)
}
