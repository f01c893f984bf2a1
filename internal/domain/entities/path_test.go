package entities

import (
	"encoding/hex"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartitionMixedRouteByProtocol(t *testing.T) {
	pairAB := newTestPair(t, tokenA, tokenB, e18(1), e18(1))
	poolBC := newFullRangePool(t, tokenB, tokenC, FeeMedium, e18(1))

	route, err := NewMixedRoute([]Venue{pairAB, poolBC}, tokenA, tokenC)
	require.NoError(t, err)

	sections := PartitionMixedRouteByProtocol(route)
	require.Len(t, sections, 2)
	assert.Equal(t, []Venue{pairAB}, sections[0])
	assert.Equal(t, []Venue{poolBC}, sections[1])

	out, err := OutputOfPools(sections[0], tokenA)
	require.NoError(t, err)
	assert.True(t, out.Equals(tokenB))

	_, err = OutputOfPools(sections[1], tokenA)
	assert.ErrorIs(t, err, ErrPathDiscontinuity)
}

// randomized family sequences of length 1-20 over a chain of distinct tokens
func TestPartitionProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	tokens := make([]Token, 22)
	for i := range tokens {
		tokens[i] = randomToken(i)
	}

	for iter := 0; iter < 200; iter++ {
		n := 1 + rng.Intn(20)
		venues := make([]Venue, n)
		for i := 0; i < n; i++ {
			if rng.Intn(2) == 0 {
				venues[i] = newTestPair(t, tokens[i], tokens[i+1], e18(1), e18(1))
			} else {
				venues[i] = newFullRangePool(t, tokens[i], tokens[i+1], FeeLow, e18(1))
			}
		}
		route, err := NewMixedRoute(venues, tokens[0], tokens[n])
		require.NoError(t, err)

		sections := PartitionMixedRouteByProtocol(route)
		var flat []Venue
		for i, s := range sections {
			require.NotEmpty(t, s)
			for _, v := range s {
				assert.Equal(t, s[0].Protocol(), v.Protocol())
			}
			if i > 0 {
				assert.NotEqual(t, sections[i-1][0].Protocol(), s[0].Protocol())
			}
			flat = append(flat, s...)
		}
		assert.Equal(t, venues, flat)
	}
}

func TestEncodeMixedRouteToPath(t *testing.T) {
	pairAB := newTestPair(t, tokenA, tokenB, e18(1), e18(1))
	poolBC := newFullRangePool(t, tokenB, tokenC, FeeMedium, e18(1))
	route, err := NewMixedRoute([]Venue{pairAB, poolBC}, tokenA, tokenC)
	require.NoError(t, err)

	want := "000000000000000000000000000000000000000a" + "800000" +
		"000000000000000000000000000000000000000b" + "000bb8" +
		"000000000000000000000000000000000000000c"
	assert.Equal(t, want, hex.EncodeToString(EncodeMixedRouteToPath(route)))
}

func TestEncodeRouteToPath(t *testing.T) {
	poolAB := newFullRangePool(t, tokenA, tokenB, FeeLow, e18(1))
	poolBC := newFullRangePool(t, tokenB, tokenC, FeeMedium, e18(1))
	route, err := NewV3Route([]*Pool{poolAB, poolBC}, tokenA, tokenC)
	require.NoError(t, err)

	forward := "000000000000000000000000000000000000000a" + "0001f4" +
		"000000000000000000000000000000000000000b" + "000bb8" +
		"000000000000000000000000000000000000000c"
	backward := "000000000000000000000000000000000000000c" + "000bb8" +
		"000000000000000000000000000000000000000b" + "0001f4" +
		"000000000000000000000000000000000000000a"
	assert.Equal(t, forward, hex.EncodeToString(EncodeRouteToPath(route, false)))
	assert.Equal(t, backward, hex.EncodeToString(EncodeRouteToPath(route, true)))
	assert.Len(t, EncodeRouteToPath(route, false), 20*3+3*2)
}
