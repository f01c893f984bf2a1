package entities

import (
	"errors"
	"math/big"

	"github.com/holiman/uint256"
)

const (
	MinTick = -887272
	MaxTick = 887272
)

var (
	MinSqrtRatio = uint256.NewInt(4295128739)
	MaxSqrtRatio = uint256.MustFromDecimal("1461446703485210103287273052203988822378723970342")

	q32  = new(uint256.Int).Lsh(uint256.NewInt(1), 32)
	q96  = new(uint256.Int).Lsh(uint256.NewInt(1), 96)
	q128 = new(uint256.Int).Lsh(uint256.NewInt(1), 128)

	maxUint256 = new(uint256.Int).SetAllOne()

	ErrTickOutOfRange  = errors.New("tick out of range")
	ErrSqrtRatioBounds = errors.New("sqrt ratio out of range")
)

// tick bit i contributes sqrt(1.0001)^-(2^i) in Q128.128
var tickRatios = []struct {
	bit   int
	ratio *uint256.Int
}{
	{0x2, uint256.MustFromHex("0xfff97272373d413259a46990580e213a")},
	{0x4, uint256.MustFromHex("0xfff2e50f5f656932ef12357cf3c7fdcc")},
	{0x8, uint256.MustFromHex("0xffe5caca7e10e4e61c3624eaa0941cd0")},
	{0x10, uint256.MustFromHex("0xffcb9843d60f6159c9db58835c926644")},
	{0x20, uint256.MustFromHex("0xff973b41fa98c081472e6896dfb254c0")},
	{0x40, uint256.MustFromHex("0xff2ea16466c96a3843ec78b326b52861")},
	{0x80, uint256.MustFromHex("0xfe5dee046a99a2a811c461f1969c3053")},
	{0x100, uint256.MustFromHex("0xfcbe86c7900a88aedcffc83b479aa3a4")},
	{0x200, uint256.MustFromHex("0xf987a7253ac413176f2b074cf7815e54")},
	{0x400, uint256.MustFromHex("0xf3392b0822b70005940c7a398e4b70f3")},
	{0x800, uint256.MustFromHex("0xe7159475a2c29b7443b29c7fa6e889d9")},
	{0x1000, uint256.MustFromHex("0xd097f3bdfd2022b8845ad8f792aa5825")},
	{0x2000, uint256.MustFromHex("0xa9f746462d870fdf8a65dc1f90e061e5")},
	{0x4000, uint256.MustFromHex("0x70d869a156d2a1b890bb3df62baf32f7")},
	{0x8000, uint256.MustFromHex("0x31be135f97d08fd981231505542fcfa6")},
	{0x10000, uint256.MustFromHex("0x9aa508b5b7a84e1c677de54f3e99bc9")},
	{0x20000, uint256.MustFromHex("0x5d6af8dedb81196699c329225ee604")},
	{0x40000, uint256.MustFromHex("0x2216e584f5fa1ea926041bedfe98")},
	{0x80000, uint256.MustFromHex("0x48a170391f7dc42444e8fa2")},
}

// GetSqrtRatioAtTick returns sqrt(1.0001^tick) as a Q64.96
func GetSqrtRatioAtTick(tick int) (*uint256.Int, error) {
	if tick < MinTick || tick > MaxTick {
		return nil, ErrTickOutOfRange
	}
	absTick := tick
	if tick < 0 {
		absTick = -tick
	}

	var ratio *uint256.Int
	if absTick&0x1 != 0 {
		ratio = uint256.MustFromHex("0xfffcb933bd6fad37aa2d162d1a594001")
	} else {
		ratio = new(uint256.Int).Set(q128)
	}
	for _, tr := range tickRatios {
		if absTick&tr.bit != 0 {
			ratio.Mul(ratio, tr.ratio)
			ratio.Rsh(ratio, 128)
		}
	}
	if tick > 0 {
		ratio.Div(maxUint256, ratio)
	}

	// Q128.128 to Q64.96, rounding up
	rem := new(uint256.Int).Mod(ratio, q32)
	ratio.Div(ratio, q32)
	if !rem.IsZero() {
		ratio.AddUint64(ratio, 1)
	}
	return ratio, nil
}

// GetTickAtSqrtRatio returns the greatest tick whose sqrt ratio is <= sqrtRatioX96
func GetTickAtSqrtRatio(sqrtRatioX96 *uint256.Int) (int, error) {
	if sqrtRatioX96.Lt(MinSqrtRatio) || !sqrtRatioX96.Lt(MaxSqrtRatio) {
		return 0, ErrSqrtRatioBounds
	}
	lo, hi := MinTick, MaxTick
	for lo < hi {
		mid := lo + (hi-lo+1)/2
		r, _ := GetSqrtRatioAtTick(mid)
		if r.Gt(sqrtRatioX96) {
			hi = mid - 1
		} else {
			lo = mid
		}
	}
	return lo, nil
}

func mustSqrtRatioAtTick(tick int) *uint256.Int {
	r, err := GetSqrtRatioAtTick(tick)
	if err != nil {
		panic(err)
	}
	return r
}

// EncodeSqrtRatioX96 returns sqrt(amount1/amount0) as a Q64.96
func EncodeSqrtRatioX96(amount1, amount0 *big.Int) *big.Int {
	numerator := new(big.Int).Lsh(amount1, 192)
	ratioX192 := numerator.Quo(numerator, amount0)
	return ratioX192.Sqrt(ratioX192)
}

func mulDiv(a, b, d *uint256.Int) *uint256.Int {
	r, _ := new(uint256.Int).MulDivOverflow(a, b, d)
	return r
}

func mulDivRoundingUp(a, b, d *uint256.Int) *uint256.Int {
	r := mulDiv(a, b, d)
	if !new(uint256.Int).MulMod(a, b, d).IsZero() {
		r.AddUint64(r, 1)
	}
	return r
}

func divRoundingUp(a, d *uint256.Int) *uint256.Int {
	r := new(uint256.Int).Div(a, d)
	if !new(uint256.Int).Mod(a, d).IsZero() {
		r.AddUint64(r, 1)
	}
	return r
}

func sortRatios(a, b *uint256.Int) (*uint256.Int, *uint256.Int) {
	if a.Gt(b) {
		return b, a
	}
	return a, b
}

// GetAmount0Delta is the token0 amount between two prices for liquidity
func GetAmount0Delta(sqrtA, sqrtB, liquidity *uint256.Int, roundUp bool) *uint256.Int {
	sqrtA, sqrtB = sortRatios(sqrtA, sqrtB)
	numerator1 := new(uint256.Int).Lsh(liquidity, 96)
	numerator2 := new(uint256.Int).Sub(sqrtB, sqrtA)
	if roundUp {
		return divRoundingUp(mulDivRoundingUp(numerator1, numerator2, sqrtB), sqrtA)
	}
	r := mulDiv(numerator1, numerator2, sqrtB)
	return r.Div(r, sqrtA)
}

// GetAmount1Delta is the token1 amount between two prices for liquidity
func GetAmount1Delta(sqrtA, sqrtB, liquidity *uint256.Int, roundUp bool) *uint256.Int {
	sqrtA, sqrtB = sortRatios(sqrtA, sqrtB)
	diff := new(uint256.Int).Sub(sqrtB, sqrtA)
	if roundUp {
		return mulDivRoundingUp(liquidity, diff, q96)
	}
	return mulDiv(liquidity, diff, q96)
}

func nextSqrtPriceFromAmount0RoundingUp(sqrtP, liquidity, amount *uint256.Int, add bool) (*uint256.Int, error) {
	if amount.IsZero() {
		return new(uint256.Int).Set(sqrtP), nil
	}
	numerator1 := new(uint256.Int).Lsh(liquidity, 96)
	product, overflow := new(uint256.Int).MulOverflow(amount, sqrtP)
	if add {
		if !overflow {
			denominator, carry := new(uint256.Int).AddOverflow(numerator1, product)
			if !carry {
				return mulDivRoundingUp(numerator1, sqrtP, denominator), nil
			}
		}
		denominator := new(uint256.Int).Div(numerator1, sqrtP)
		denominator.Add(denominator, amount)
		return divRoundingUp(numerator1, denominator), nil
	}
	if overflow || !numerator1.Gt(product) {
		return nil, ErrInsufficientLiquidity
	}
	denominator := new(uint256.Int).Sub(numerator1, product)
	return mulDivRoundingUp(numerator1, sqrtP, denominator), nil
}

func nextSqrtPriceFromAmount1RoundingDown(sqrtP, liquidity, amount *uint256.Int, add bool) (*uint256.Int, error) {
	if add {
		quotient := mulDiv(amount, q96, liquidity)
		return new(uint256.Int).Add(sqrtP, quotient), nil
	}
	quotient := mulDivRoundingUp(amount, q96, liquidity)
	if !sqrtP.Gt(quotient) {
		return nil, ErrInsufficientLiquidity
	}
	return new(uint256.Int).Sub(sqrtP, quotient), nil
}

func nextSqrtPriceFromInput(sqrtP, liquidity, amountIn *uint256.Int, zeroForOne bool) (*uint256.Int, error) {
	if zeroForOne {
		return nextSqrtPriceFromAmount0RoundingUp(sqrtP, liquidity, amountIn, true)
	}
	return nextSqrtPriceFromAmount1RoundingDown(sqrtP, liquidity, amountIn, true)
}

func nextSqrtPriceFromOutput(sqrtP, liquidity, amountOut *uint256.Int, zeroForOne bool) (*uint256.Int, error) {
	if zeroForOne {
		return nextSqrtPriceFromAmount1RoundingDown(sqrtP, liquidity, amountOut, false)
	}
	return nextSqrtPriceFromAmount0RoundingUp(sqrtP, liquidity, amountOut, false)
}
