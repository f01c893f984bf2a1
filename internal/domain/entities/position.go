package entities

import (
	"errors"
	"math/big"

	"github.com/holiman/uint256"
)

var (
	ErrTickOrder = errors.New("tickLower must be below tickUpper")
	ErrTickLower = errors.New("tickLower out of range or not on spacing")
	ErrTickUpper = errors.New("tickUpper out of range or not on spacing")
)

// Position is a liquidity position in a V3 pool between two ticks
type Position struct {
	Pool      *Pool
	TickLower int
	TickUpper int
	Liquidity *big.Int
}

func NewPosition(pool *Pool, liquidity *big.Int, tickLower, tickUpper int) (*Position, error) {
	if tickLower >= tickUpper {
		return nil, ErrTickOrder
	}
	spacing := pool.TickSpacing()
	if tickLower < MinTick || tickLower%spacing != 0 {
		return nil, ErrTickLower
	}
	if tickUpper > MaxTick || tickUpper%spacing != 0 {
		return nil, ErrTickUpper
	}
	return &Position{Pool: pool, TickLower: tickLower, TickUpper: tickUpper, Liquidity: new(big.Int).Set(liquidity)}, nil
}

func (p *Position) bounds() (*uint256.Int, *uint256.Int) {
	return mustSqrtRatioAtTick(p.TickLower), mustSqrtRatioAtTick(p.TickUpper)
}

func (p *Position) liquidity() *uint256.Int {
	l, _ := uint256.FromBig(p.Liquidity)
	return l
}

// Amount0 is the token0 value of the position at the current pool price
func (p *Position) Amount0() CurrencyAmount {
	lower, upper := p.bounds()
	a0, _ := amountsAt(p.Pool.tickCurrent, p.Pool.sqrtRatioX96, lower, upper, p.TickLower, p.TickUpper, p.liquidity(), false)
	return FromRawAmount(p.Pool.token0, a0.ToBig())
}

// Amount1 is the token1 value of the position at the current pool price
func (p *Position) Amount1() CurrencyAmount {
	lower, upper := p.bounds()
	_, a1 := amountsAt(p.Pool.tickCurrent, p.Pool.sqrtRatioX96, lower, upper, p.TickLower, p.TickUpper, p.liquidity(), false)
	return FromRawAmount(p.Pool.token1, a1.ToBig())
}

// MintAmounts are the amounts that must be sent to mint the position, rounded up
func (p *Position) MintAmounts() (amount0, amount1 *big.Int) {
	lower, upper := p.bounds()
	a0, a1 := amountsAt(p.Pool.tickCurrent, p.Pool.sqrtRatioX96, lower, upper, p.TickLower, p.TickUpper, p.liquidity(), true)
	return a0.ToBig(), a1.ToBig()
}

func amountsAt(tick int, sqrtPrice, lower, upper *uint256.Int, tickLower, tickUpper int, liquidity *uint256.Int, roundUp bool) (*uint256.Int, *uint256.Int) {
	switch {
	case tick < tickLower:
		return GetAmount0Delta(lower, upper, liquidity, roundUp), new(uint256.Int)
	case tick < tickUpper:
		return GetAmount0Delta(sqrtPrice, upper, liquidity, roundUp), GetAmount1Delta(lower, sqrtPrice, liquidity, roundUp)
	default:
		return new(uint256.Int), GetAmount1Delta(lower, upper, liquidity, roundUp)
	}
}

// MintAmountsWithSlippage returns the minimum amounts that must be sent for the
// mint to succeed if the pool price moves by up to slippageTolerance
func (p *Position) MintAmountsWithSlippage(slippageTolerance Percent) (amount0, amount1 *big.Int, err error) {
	price := p.Pool.Token0Price().AsFraction()
	priceLower := price.Mul(OneHundredPercent.Sub(slippageTolerance).Fraction)
	priceUpper := price.Mul(slippageTolerance.Add(OneHundredPercent).Fraction)

	sqrtLower := EncodeSqrtRatioX96(priceLower.Numerator, priceLower.Denominator)
	if minBig := MinSqrtRatio.ToBig(); sqrtLower.Cmp(minBig) <= 0 {
		sqrtLower = minBig.Add(minBig, one)
	}
	sqrtUpper := EncodeSqrtRatioX96(priceUpper.Numerator, priceUpper.Denominator)
	if maxBig := MaxSqrtRatio.ToBig(); sqrtUpper.Cmp(maxBig) >= 0 {
		sqrtUpper = maxBig.Sub(maxBig, one)
	}

	poolAt := func(sqrt *big.Int) (*Pool, error) {
		u, _ := uint256.FromBig(sqrt)
		tick, err := GetTickAtSqrtRatio(u)
		if err != nil {
			return nil, err
		}
		return NewPool(p.Pool.token0, p.Pool.token1, p.Pool.fee, sqrt, new(big.Int), tick, nil, WithPoolAddress(p.Pool.address))
	}
	poolLower, err := poolAt(sqrtLower)
	if err != nil {
		return nil, nil, err
	}
	poolUpper, err := poolAt(sqrtUpper)
	if err != nil {
		return nil, nil, err
	}

	mint0, mint1 := p.MintAmounts()
	created, err := PositionFromAmounts(p.Pool, p.TickLower, p.TickUpper, mint0, mint1, false)
	if err != nil {
		return nil, nil, err
	}

	atUpper := &Position{Pool: poolUpper, TickLower: p.TickLower, TickUpper: p.TickUpper, Liquidity: created.Liquidity}
	atLower := &Position{Pool: poolLower, TickLower: p.TickLower, TickUpper: p.TickUpper, Liquidity: created.Liquidity}
	amount0, _ = atUpper.MintAmounts()
	_, amount1 = atLower.MintAmounts()
	return amount0, amount1, nil
}

// PositionFromAmounts computes the maximum liquidity mintable from the given
// amounts at the current pool price. useFullPrecision false matches the
// rounding of the on-chain periphery.
func PositionFromAmounts(pool *Pool, tickLower, tickUpper int, amount0, amount1 *big.Int, useFullPrecision bool) (*Position, error) {
	if tickLower >= tickUpper {
		return nil, ErrTickOrder
	}
	if tickLower < MinTick {
		return nil, ErrTickLower
	}
	if tickUpper > MaxTick {
		return nil, ErrTickUpper
	}
	lower, upper := mustSqrtRatioAtTick(tickLower).ToBig(), mustSqrtRatioAtTick(tickUpper).ToBig()
	liquidity := MaxLiquidityForAmounts(pool.sqrtRatioX96.ToBig(), lower, upper, amount0, amount1, useFullPrecision)
	return NewPosition(pool, liquidity, tickLower, tickUpper)
}

var q96Big = new(big.Int).Lsh(big.NewInt(1), 96)

func maxLiquidityForAmount0Imprecise(a, b, amount0 *big.Int) *big.Int {
	if a.Cmp(b) > 0 {
		a, b = b, a
	}
	intermediate := new(big.Int).Mul(a, b)
	intermediate.Quo(intermediate, q96Big)
	r := new(big.Int).Mul(amount0, intermediate)
	return r.Quo(r, new(big.Int).Sub(b, a))
}

func maxLiquidityForAmount0Precise(a, b, amount0 *big.Int) *big.Int {
	if a.Cmp(b) > 0 {
		a, b = b, a
	}
	numerator := new(big.Int).Mul(amount0, a)
	numerator.Mul(numerator, b)
	denominator := new(big.Int).Mul(q96Big, new(big.Int).Sub(b, a))
	return numerator.Quo(numerator, denominator)
}

func maxLiquidityForAmount1(a, b, amount1 *big.Int) *big.Int {
	if a.Cmp(b) > 0 {
		a, b = b, a
	}
	r := new(big.Int).Mul(amount1, q96Big)
	return r.Quo(r, new(big.Int).Sub(b, a))
}

// MaxLiquidityForAmounts is the liquidity the amounts can back between sqrtA and sqrtB
func MaxLiquidityForAmounts(current, sqrtA, sqrtB, amount0, amount1 *big.Int, useFullPrecision bool) *big.Int {
	if sqrtA.Cmp(sqrtB) > 0 {
		sqrtA, sqrtB = sqrtB, sqrtA
	}
	forAmount0 := maxLiquidityForAmount0Imprecise
	if useFullPrecision {
		forAmount0 = maxLiquidityForAmount0Precise
	}
	switch {
	case current.Cmp(sqrtA) <= 0:
		return forAmount0(sqrtA, sqrtB, amount0)
	case current.Cmp(sqrtB) < 0:
		l0 := forAmount0(current, sqrtB, amount0)
		l1 := maxLiquidityForAmount1(sqrtA, current, amount1)
		if l0.Cmp(l1) < 0 {
			return l0
		}
		return l1
	default:
		return maxLiquidityForAmount1(sqrtA, sqrtB, amount1)
	}
}
