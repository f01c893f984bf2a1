package entities

import (
	"fmt"
	"strings"
)

// Route is an ordered list of venues from Input to Output. Path holds the
// wrapped token at every step, so len(Path) == len(Pools)+1.
type Route struct {
	Protocol Protocol
	Pools    []Venue
	Path     []Token
	Input    Currency
	Output   Currency

	midPrice Price
}

// NewV2Route builds a route over pairs only
func NewV2Route(pairs []*Pair, input, output Currency) (*Route, error) {
	venues := make([]Venue, len(pairs))
	for i, p := range pairs {
		venues[i] = p
	}
	return newRoute(ProtocolV2, venues, input, output)
}

// NewV3Route builds a route over pools only
func NewV3Route(pools []*Pool, input, output Currency) (*Route, error) {
	venues := make([]Venue, len(pools))
	for i, p := range pools {
		venues[i] = p
	}
	return newRoute(ProtocolV3, venues, input, output)
}

// NewMixedRoute builds a route over any combination of pairs and pools
func NewMixedRoute(pools []Venue, input, output Currency) (*Route, error) {
	return newRoute(ProtocolMixed, pools, input, output)
}

// NewRoute picks the narrowest protocol that fits the venues
func NewRoute(pools []Venue, input, output Currency) (*Route, error) {
	protocol := ProtocolMixed
	if len(pools) > 0 {
		protocol = pools[0].Protocol()
		for _, p := range pools[1:] {
			if p.Protocol() != protocol {
				protocol = ProtocolMixed
				break
			}
		}
	}
	return newRoute(protocol, pools, input, output)
}

func newRoute(protocol Protocol, pools []Venue, input, output Currency) (*Route, error) {
	if len(pools) == 0 {
		return nil, ErrPoolsEmpty
	}
	if protocol != ProtocolMixed {
		for _, p := range pools {
			if p.Protocol() != protocol {
				return nil, fmt.Errorf("%w: %s pool in %s route", ErrProtocolMismatch, p.Protocol(), protocol)
			}
		}
	}
	chainID := pools[0].ChainID()
	for _, p := range pools[1:] {
		if p.ChainID() != chainID {
			return nil, ErrChainMismatch
		}
	}
	wrappedIn := input.Wrapped()
	if !pools[0].InvolvesToken(wrappedIn) {
		return nil, ErrInputMismatch
	}
	if !pools[len(pools)-1].InvolvesToken(output.Wrapped()) {
		return nil, ErrOutputMismatch
	}

	path := make([]Token, 0, len(pools)+1)
	path = append(path, wrappedIn)
	for i, p := range pools {
		current := path[i]
		if !p.InvolvesToken(current) {
			return nil, fmt.Errorf("%w: pool %d (%s) does not involve %s", ErrPathDiscontinuity, i, p.Address().Hex(), current.Symbol)
		}
		path = append(path, otherToken(p, current))
	}
	if !path[len(path)-1].Equals(output.Wrapped()) {
		return nil, ErrOutputMismatch
	}

	r := &Route{
		Protocol: protocol,
		Pools:    append([]Venue(nil), pools...),
		Path:     path,
		Input:    input,
		Output:   output,
	}
	mid, err := r.computeMidPrice()
	if err != nil {
		return nil, err
	}
	r.midPrice = mid
	return r, nil
}

func (r *Route) ChainID() int64 { return r.Pools[0].ChainID() }

// MidPrice is the product of every venue's spot price in traversal direction
func (r *Route) MidPrice() Price { return r.midPrice }

func (r *Route) computeMidPrice() (Price, error) {
	price, err := r.Pools[0].PriceOf(r.Path[0])
	if err != nil {
		return Price{}, err
	}
	for i, p := range r.Pools[1:] {
		next, err := p.PriceOf(r.Path[i+1])
		if err != nil {
			return Price{}, err
		}
		if price, err = price.Mul(next); err != nil {
			return Price{}, err
		}
	}
	f := price.AsFraction()
	return NewPrice(r.Input, r.Output, f.Denominator, f.Numerator), nil
}

func (r *Route) String() string {
	symbols := make([]string, len(r.Path))
	for i, t := range r.Path {
		symbols[i] = t.Symbol
	}
	return fmt.Sprintf("%s[%s]", r.Protocol, strings.Join(symbols, " -> "))
}
