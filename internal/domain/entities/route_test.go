package entities

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewV2Route(t *testing.T) {
	pairAB := newTestPair(t, tokenA, tokenB, big.NewInt(100), big.NewInt(200))
	pairBC := newTestPair(t, tokenB, tokenC, big.NewInt(100), big.NewInt(300))

	route, err := NewV2Route([]*Pair{pairAB, pairBC}, tokenA, tokenC)
	require.NoError(t, err)
	assert.Equal(t, ProtocolV2, route.Protocol)
	assert.Equal(t, []Token{tokenA, tokenB, tokenC}, route.Path)
	assert.Equal(t, int64(1), route.ChainID())
	assert.Equal(t, "6", route.MidPrice().ToSignificant(6))
	assert.True(t, route.MidPrice().BaseCurrency.Equals(tokenA))
	assert.Equal(t, "V2[A -> B -> C]", route.String())

	reverse, err := NewV2Route([]*Pair{pairBC, pairAB}, tokenC, tokenA)
	require.NoError(t, err)
	assert.Equal(t, "0.166667", reverse.MidPrice().ToSignificant(6))
}

func TestRoutePathAdjacency(t *testing.T) {
	pairAB := newTestPair(t, tokenA, tokenB, e18(1), e18(1))
	poolBC := newFullRangePool(t, tokenB, tokenC, FeeMedium, e18(1))
	pairCD := newTestPair(t, tokenC, tokenD, e18(1), e18(1))

	route, err := NewMixedRoute([]Venue{pairAB, poolBC, pairCD}, tokenA, tokenD)
	require.NoError(t, err)
	require.Len(t, route.Path, len(route.Pools)+1)
	for i, v := range route.Pools {
		assert.True(t, v.InvolvesToken(route.Path[i]))
		assert.True(t, v.InvolvesToken(route.Path[i+1]))
		assert.False(t, route.Path[i].Equals(route.Path[i+1]))
	}
}

func TestRouteNativeCurrencies(t *testing.T) {
	eth := ether()
	pair := newTestPair(t, WETH, USDC, e18(1), big.NewInt(2000_000000))

	route, err := NewV2Route([]*Pair{pair}, eth, USDC)
	require.NoError(t, err)
	assert.True(t, route.Input.IsNative())
	assert.True(t, route.Path[0].Equals(WETH))
	assert.True(t, route.MidPrice().BaseCurrency.Equals(eth))
	assert.Equal(t, "2000", route.MidPrice().ToSignificant(6))
}

func TestRouteValidation(t *testing.T) {
	pairAB := newTestPair(t, tokenA, tokenB, e18(1), e18(1))
	pairCD := newTestPair(t, tokenC, tokenD, e18(1), e18(1))
	otherChainA := Token{ChainID: 10, Address: tokenA.Address, Symbol: "A"}
	otherChainB := Token{ChainID: 10, Address: tokenB.Address, Symbol: "B"}
	pairOther := newTestPair(t, otherChainA, otherChainB, e18(1), e18(1))
	pool := newFullRangePool(t, tokenB, tokenC, FeeLow, e18(1))

	tests := []struct {
		name    string
		build   func() (*Route, error)
		wantErr error
	}{
		{"empty", func() (*Route, error) { return NewMixedRoute(nil, tokenA, tokenB) }, ErrPoolsEmpty},
		{"chain mismatch", func() (*Route, error) { return NewMixedRoute([]Venue{pairAB, pairOther}, tokenA, tokenB) }, ErrChainMismatch},
		{"input mismatch", func() (*Route, error) { return NewV2Route([]*Pair{pairAB}, tokenC, tokenB) }, ErrInputMismatch},
		{"output mismatch", func() (*Route, error) { return NewV2Route([]*Pair{pairAB}, tokenA, tokenC) }, ErrOutputMismatch},
		{"discontinuous", func() (*Route, error) { return NewV2Route([]*Pair{pairAB, pairCD}, tokenA, tokenD) }, ErrPathDiscontinuity},
		{"pool in pair route", func() (*Route, error) { return newRoute(ProtocolV2, []Venue{pairAB, pool}, tokenA, tokenC) }, ErrProtocolMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build()
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewRoutePicksProtocol(t *testing.T) {
	pairAB := newTestPair(t, tokenA, tokenB, e18(1), e18(1))
	pairBC := newTestPair(t, tokenB, tokenC, e18(1), e18(1))
	poolBC := newFullRangePool(t, tokenB, tokenC, FeeLow, e18(1))

	r, err := NewRoute([]Venue{pairAB, pairBC}, tokenA, tokenC)
	require.NoError(t, err)
	assert.Equal(t, ProtocolV2, r.Protocol)

	r, err = NewRoute([]Venue{pairAB, poolBC}, tokenA, tokenC)
	require.NoError(t, err)
	assert.Equal(t, ProtocolMixed, r.Protocol)
}
