package entities

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// FeeAmount is a V3 fee tier in hundredths of a bip
type FeeAmount uint32

const (
	FeeLowest FeeAmount = 100
	FeeLow    FeeAmount = 500
	FeeMedium FeeAmount = 3000
	FeeHigh   FeeAmount = 10000
)

// TickSpacings maps each fee tier to its tick spacing
var TickSpacings = map[FeeAmount]int{
	FeeLowest: 1,
	FeeLow:    10,
	FeeMedium: 60,
	FeeHigh:   200,
}

var (
	UniswapV3Factory      = common.HexToAddress("0x1F98431c8aD98523631AE4a59f267346ea31F984")
	UniswapV3InitCodeHash = common.HexToHash("0xe34f199b19b2b4f47f68442619d555527d244f78a3297ea89325f843f87b8b54")

	ErrUnknownFeeTier = errors.New("unknown fee tier")
	ErrPriceBounds    = errors.New("sqrt price outside current tick")
)

// ComputePoolAddress derives the CREATE2 address of a V3 pool
func ComputePoolAddress(factory common.Address, tokenA, tokenB Token, fee FeeAmount) (common.Address, error) {
	token0, token1, err := sortTokens(tokenA, tokenB)
	if err != nil {
		return common.Address{}, err
	}
	salt := crypto.Keccak256Hash(
		common.LeftPadBytes(token0.Address.Bytes(), 32),
		common.LeftPadBytes(token1.Address.Bytes(), 32),
		common.LeftPadBytes(big.NewInt(int64(fee)).Bytes(), 32),
	)
	return crypto.CreateAddress2(factory, salt, UniswapV3InitCodeHash.Bytes()), nil
}

// Pool is an immutable snapshot of a concentrated-liquidity pool
type Pool struct {
	address      common.Address
	token0       Token
	token1       Token
	fee          FeeAmount
	sqrtRatioX96 *uint256.Int
	liquidity    *uint256.Int
	tickCurrent  int
	ticks        TickDataProvider
	updatedAt    int64
}

type PoolOption func(*Pool)

func WithPoolAddress(addr common.Address) PoolOption { return func(p *Pool) { p.address = addr } }

func WithPoolUpdatedAt(ts int64) PoolOption { return func(p *Pool) { p.updatedAt = ts } }

// NewPool builds a pool snapshot. A nil tick provider means no initialized
// ticks: liquidity stays constant across the whole price range.
func NewPool(tokenA, tokenB Token, fee FeeAmount, sqrtRatioX96, liquidity *big.Int, tickCurrent int, ticks TickDataProvider, opts ...PoolOption) (*Pool, error) {
	if _, ok := TickSpacings[fee]; !ok {
		return nil, ErrUnknownFeeTier
	}
	token0, token1, err := sortTokens(tokenA, tokenB)
	if err != nil {
		return nil, err
	}
	sqrt, overflow := uint256.FromBig(sqrtRatioX96)
	if overflow {
		return nil, ErrPriceBounds
	}
	liq, overflow := uint256.FromBig(liquidity)
	if overflow || liquidity.Sign() < 0 {
		return nil, ErrInsufficientLiquidity
	}
	lower, err := GetSqrtRatioAtTick(tickCurrent)
	if err != nil {
		return nil, err
	}
	upper, err := GetSqrtRatioAtTick(min(tickCurrent+1, MaxTick))
	if err != nil {
		return nil, err
	}
	if sqrt.Lt(lower) || sqrt.Gt(upper) {
		return nil, ErrPriceBounds
	}
	if ticks == nil {
		ticks = &TickList{}
	}

	p := &Pool{
		token0:       token0,
		token1:       token1,
		fee:          fee,
		sqrtRatioX96: sqrt,
		liquidity:    liq,
		tickCurrent:  tickCurrent,
		ticks:        ticks,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.address == (common.Address{}) {
		if p.address, err = ComputePoolAddress(UniswapV3Factory, token0, token1, fee); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Pool) Protocol() Protocol      { return ProtocolV3 }
func (p *Pool) ChainID() int64          { return p.token0.ChainID }
func (p *Pool) Address() common.Address { return p.address }
func (p *Pool) Token0() Token           { return p.token0 }
func (p *Pool) Token1() Token           { return p.token1 }
func (p *Pool) Fee() FeeAmount          { return p.fee }
func (p *Pool) TickSpacing() int        { return TickSpacings[p.fee] }
func (p *Pool) TickCurrent() int        { return p.tickCurrent }
func (p *Pool) SqrtRatioX96() *big.Int  { return p.sqrtRatioX96.ToBig() }
func (p *Pool) Liquidity() *big.Int     { return p.liquidity.ToBig() }
func (p *Pool) Ticks() TickDataProvider { return p.ticks }
func (p *Pool) UpdatedAt() int64        { return p.updatedAt }

func (p *Pool) InvolvesToken(token Token) bool {
	return token.Equals(p.token0) || token.Equals(p.token1)
}

// Token0Price is sqrtRatioX96^2 / 2^192, token0 in terms of token1
func (p *Pool) Token0Price() Price {
	sqrt := p.sqrtRatioX96.ToBig()
	return NewPrice(p.token0, p.token1, new(big.Int).Lsh(one, 192), new(big.Int).Mul(sqrt, sqrt))
}

func (p *Pool) Token1Price() Price {
	return p.Token0Price().Invert()
}

func (p *Pool) PriceOf(token Token) (Price, error) {
	switch {
	case token.Equals(p.token0):
		return p.Token0Price(), nil
	case token.Equals(p.token1):
		return p.Token1Price(), nil
	}
	return Price{}, ErrTokenNotInVenue
}

func (p *Pool) GetOutputAmount(ctx context.Context, amountIn CurrencyAmount) (CurrencyAmount, error) {
	tokenIn := amountIn.Currency.Wrapped()
	if !p.InvolvesToken(tokenIn) {
		return CurrencyAmount{}, ErrTokenNotInVenue
	}
	amount, overflow := uint256.FromBig(amountIn.Quotient())
	if overflow || amountIn.Quotient().Sign() < 0 {
		return CurrencyAmount{}, ErrInsufficientInputAmount
	}
	zeroForOne := tokenIn.Equals(p.token0)
	res, err := p.swap(ctx, zeroForOne, amount, true)
	if err != nil {
		return CurrencyAmount{}, err
	}
	return FromRawAmount(otherToken(p, tokenIn), res.ToBig()), nil
}

func (p *Pool) GetInputAmount(ctx context.Context, amountOut CurrencyAmount) (CurrencyAmount, error) {
	tokenOut := amountOut.Currency.Wrapped()
	if !p.InvolvesToken(tokenOut) {
		return CurrencyAmount{}, ErrTokenNotInVenue
	}
	amount, overflow := uint256.FromBig(amountOut.Quotient())
	if overflow || amountOut.Quotient().Sign() < 0 {
		return CurrencyAmount{}, ErrInsufficientReserves
	}
	zeroForOne := tokenOut.Equals(p.token1)
	res, err := p.swap(ctx, zeroForOne, amount, false)
	if err != nil {
		return CurrencyAmount{}, err
	}
	return FromRawAmount(otherToken(p, tokenOut), res.ToBig()), nil
}

// swap runs the tick-crossing loop without a price limit and returns the
// calculated side: the output for exactIn, the input (fees included) otherwise.
// Any unfilled remainder fails with ErrInsufficientLiquidity.
func (p *Pool) swap(ctx context.Context, zeroForOne bool, amountSpecified *uint256.Int, exactIn bool) (*uint256.Int, error) {
	var limit *uint256.Int
	if zeroForOne {
		limit = new(uint256.Int).AddUint64(MinSqrtRatio, 1)
	} else {
		limit = new(uint256.Int).SubUint64(MaxSqrtRatio, 1)
	}

	remaining := new(uint256.Int).Set(amountSpecified)
	calculated := new(uint256.Int)
	sqrtPrice := new(uint256.Int).Set(p.sqrtRatioX96)
	liquidity := new(uint256.Int).Set(p.liquidity)
	tick := p.tickCurrent
	spacing := p.TickSpacing()

	for !remaining.IsZero() && !sqrtPrice.Eq(limit) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := new(uint256.Int).Set(sqrtPrice)
		tickNext, initialized, err := p.ticks.NextInitializedTickWithinOneWord(ctx, tick, zeroForOne, spacing)
		if err != nil {
			return nil, err
		}
		tickNext = max(MinTick, min(MaxTick, tickNext))
		sqrtNext := mustSqrtRatioAtTick(tickNext)

		target := sqrtNext
		if (zeroForOne && sqrtNext.Lt(limit)) || (!zeroForOne && sqrtNext.Gt(limit)) {
			target = limit
		}
		step, err := computeSwapStep(sqrtPrice, target, liquidity, remaining, exactIn, uint64(p.fee))
		if err != nil {
			return nil, err
		}
		sqrtPrice = step.sqrtRatioNext

		if exactIn {
			spent := new(uint256.Int).Add(step.amountIn, step.feeAmount)
			if spent.Gt(remaining) {
				remaining.Clear()
			} else {
				remaining.Sub(remaining, spent)
			}
			calculated.Add(calculated, step.amountOut)
		} else {
			remaining.Sub(remaining, step.amountOut)
			calculated.Add(calculated, step.amountIn)
			calculated.Add(calculated, step.feeAmount)
		}

		if sqrtPrice.Eq(sqrtNext) {
			if initialized {
				t, err := p.ticks.GetTick(ctx, tickNext)
				if err != nil {
					return nil, err
				}
				net := t.LiquidityNet
				if zeroForOne {
					net = new(big.Int).Neg(net)
				}
				if liquidity, err = addDelta(liquidity, net); err != nil {
					return nil, err
				}
			}
			if zeroForOne {
				tick = tickNext - 1
			} else {
				tick = tickNext
			}
		} else if !sqrtPrice.Eq(start) {
			if tick, err = GetTickAtSqrtRatio(sqrtPrice); err != nil {
				return nil, err
			}
		}
	}

	if !remaining.IsZero() {
		return nil, ErrInsufficientLiquidity
	}
	return calculated, nil
}

func addDelta(x *uint256.Int, delta *big.Int) (*uint256.Int, error) {
	r := new(big.Int).Add(x.ToBig(), delta)
	if r.Sign() < 0 {
		return nil, ErrInsufficientLiquidity
	}
	out, overflow := uint256.FromBig(r)
	if overflow {
		return nil, ErrInsufficientLiquidity
	}
	return out, nil
}
