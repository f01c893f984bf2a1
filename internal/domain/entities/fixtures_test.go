package entities

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

var (
	tokenA = Token{ChainID: 1, Address: common.HexToAddress("0x000000000000000000000000000000000000000A"), Symbol: "A", Decimals: 18}
	tokenB = Token{ChainID: 1, Address: common.HexToAddress("0x000000000000000000000000000000000000000B"), Symbol: "B", Decimals: 18}
	tokenC = Token{ChainID: 1, Address: common.HexToAddress("0x000000000000000000000000000000000000000C"), Symbol: "C", Decimals: 18}
	tokenD = Token{ChainID: 1, Address: common.HexToAddress("0x000000000000000000000000000000000000000D"), Symbol: "D", Decimals: 18}
)

func ether() Native {
	n, _ := Ether(ChainMainnet)
	return n
}

func bi(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad big int " + s)
	}
	return v
}

func e18(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), bi("1000000000000000000"))
}

func newTestPair(t *testing.T, a, b Token, reserveA, reserveB *big.Int, opts ...PairOption) *Pair {
	t.Helper()
	p, err := NewPair(a, b, reserveA, reserveB, opts...)
	require.NoError(t, err)
	return p
}

// newFullRangePool builds a 1:1 pool with liquidity across every usable tick
func newFullRangePool(t *testing.T, a, b Token, fee FeeAmount, liquidity *big.Int) *Pool {
	t.Helper()
	spacing := TickSpacings[fee]
	lower := (MinTick / spacing) * spacing
	upper := (MaxTick / spacing) * spacing
	ticks, err := NewTickList([]Tick{
		{Index: lower, LiquidityGross: liquidity, LiquidityNet: liquidity},
		{Index: upper, LiquidityGross: liquidity, LiquidityNet: new(big.Int).Neg(liquidity)},
	}, spacing)
	require.NoError(t, err)
	p, err := NewPool(a, b, fee, EncodeSqrtRatioX96(big.NewInt(1), big.NewInt(1)), liquidity, 0, ticks)
	require.NoError(t, err)
	return p
}
