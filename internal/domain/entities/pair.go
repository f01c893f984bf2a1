package entities

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const DefaultPairFeeBps uint64 = 30

var (
	UniswapV2Factory      = common.HexToAddress("0x5C69bEe701ef814a2B6a3EDD4B1652CB9cc5aA6f")
	UniswapV2InitCodeHash = common.HexToHash("0x96e8ac4277198ff8b6f785478aa9a39f403cb768dd02cbee326c3e7da348845f")
)

// ComputePairAddress derives the CREATE2 address of a V2 pair
func ComputePairAddress(factory common.Address, initCodeHash common.Hash, tokenA, tokenB Token) (common.Address, error) {
	token0, token1, err := sortTokens(tokenA, tokenB)
	if err != nil {
		return common.Address{}, err
	}
	salt := crypto.Keccak256Hash(token0.Address.Bytes(), token1.Address.Bytes())
	return crypto.CreateAddress2(factory, salt, initCodeHash.Bytes()), nil
}

// Pair is an immutable snapshot of a constant-product liquidity pair
type Pair struct {
	address   common.Address
	token0    Token
	token1    Token
	reserve0  *big.Int
	reserve1  *big.Int
	dex       DEXType
	fee       uint64 // basis points, 30 = 0.3%
	updatedAt int64
}

type PairOption func(*Pair)

// WithPairFee overrides the 30 bps default
func WithPairFee(bps uint64) PairOption { return func(p *Pair) { p.fee = bps } }

// WithPairAddress pins the on-chain address, for forks deployed from another factory
func WithPairAddress(addr common.Address) PairOption { return func(p *Pair) { p.address = addr } }

func WithPairDEX(dex DEXType) PairOption { return func(p *Pair) { p.dex = dex } }

func WithPairUpdatedAt(ts int64) PairOption { return func(p *Pair) { p.updatedAt = ts } }

// NewPair sorts the tokens and their reserves into token0/token1 order
func NewPair(tokenA, tokenB Token, reserveA, reserveB *big.Int, opts ...PairOption) (*Pair, error) {
	token0, _, err := sortTokens(tokenA, tokenB)
	if err != nil {
		return nil, err
	}
	p := &Pair{dex: DEXUniswapV2, fee: DefaultPairFeeBps}
	if token0.Equals(tokenA) {
		p.token0, p.token1 = tokenA, tokenB
		p.reserve0, p.reserve1 = new(big.Int).Set(reserveA), new(big.Int).Set(reserveB)
	} else {
		p.token0, p.token1 = tokenB, tokenA
		p.reserve0, p.reserve1 = new(big.Int).Set(reserveB), new(big.Int).Set(reserveA)
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.fee >= 10000 {
		return nil, ErrInvalidFee
	}
	if p.address == (common.Address{}) {
		p.address, err = ComputePairAddress(UniswapV2Factory, UniswapV2InitCodeHash, p.token0, p.token1)
		if err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Pair) Protocol() Protocol      { return ProtocolV2 }
func (p *Pair) ChainID() int64          { return p.token0.ChainID }
func (p *Pair) Address() common.Address { return p.address }
func (p *Pair) Token0() Token           { return p.token0 }
func (p *Pair) Token1() Token           { return p.token1 }
func (p *Pair) DEX() DEXType            { return p.dex }
func (p *Pair) Fee() uint64             { return p.fee }
func (p *Pair) UpdatedAt() int64        { return p.updatedAt }
func (p *Pair) Reserve0() *big.Int      { return new(big.Int).Set(p.reserve0) }
func (p *Pair) Reserve1() *big.Int      { return new(big.Int).Set(p.reserve1) }

func (p *Pair) InvolvesToken(token Token) bool {
	return token.Equals(p.token0) || token.Equals(p.token1)
}

// HasZeroReserve reports whether either side is empty; such pairs can't quote
func (p *Pair) HasZeroReserve() bool {
	return p.reserve0.Sign() == 0 || p.reserve1.Sign() == 0
}

// Token0Price is the price of token0 in token1
func (p *Pair) Token0Price() Price {
	return NewPrice(p.token0, p.token1, p.reserve0, p.reserve1)
}

func (p *Pair) Token1Price() Price {
	return NewPrice(p.token1, p.token0, p.reserve1, p.reserve0)
}

func (p *Pair) PriceOf(token Token) (Price, error) {
	switch {
	case token.Equals(p.token0):
		return p.Token0Price(), nil
	case token.Equals(p.token1):
		return p.Token1Price(), nil
	}
	return Price{}, ErrTokenNotInVenue
}

// ReserveOf returns the reserve held for token
func (p *Pair) ReserveOf(token Token) (*big.Int, error) {
	switch {
	case token.Equals(p.token0):
		return p.reserve0, nil
	case token.Equals(p.token1):
		return p.reserve1, nil
	}
	return nil, ErrTokenNotInVenue
}

// afterTax scales amount by (10000 - bps) / 10000, rounding down
func afterTax(amount *big.Int, bps uint32) *big.Int {
	if bps == 0 {
		return amount
	}
	r := new(big.Int).Mul(amount, big.NewInt(10000-int64(bps)))
	return r.Quo(r, basisBase)
}

// GetOutputAmount applies the pair fee and any transfer taxes of the tokens
// involved. ctx is unused; pair quoting needs no data beyond the snapshot.
func (p *Pair) GetOutputAmount(_ context.Context, amountIn CurrencyAmount) (CurrencyAmount, error) {
	tokenIn := amountIn.Currency.Wrapped()
	if !p.InvolvesToken(tokenIn) {
		return CurrencyAmount{}, ErrTokenNotInVenue
	}
	if p.HasZeroReserve() {
		return CurrencyAmount{}, ErrInsufficientReserves
	}
	tokenOut := otherToken(p, tokenIn)
	reserveIn, _ := p.ReserveOf(tokenIn)
	reserveOut, _ := p.ReserveOf(tokenOut)

	in := afterTax(amountIn.Quotient(), tokenIn.SellFeeBps)

	// Apply fee (e.g., 0.3% fee means multiply by 9970/10000)
	amountInWithFee := new(big.Int).Mul(in, big.NewInt(10000-int64(p.fee)))
	numerator := new(big.Int).Mul(amountInWithFee, reserveOut)
	denominator := new(big.Int).Mul(reserveIn, basisBase)
	denominator.Add(denominator, amountInWithFee)
	out := numerator.Quo(numerator, denominator)
	if out.Sign() == 0 {
		return CurrencyAmount{}, ErrInsufficientInputAmount
	}

	out = afterTax(out, tokenOut.BuyFeeBps)
	if out.Cmp(reserveOut) > 0 {
		return CurrencyAmount{}, ErrInsufficientReserves
	}
	return FromRawAmount(tokenOut, out), nil
}

// GetInputAmount is the inverse of GetOutputAmount, rounding the input up
func (p *Pair) GetInputAmount(_ context.Context, amountOut CurrencyAmount) (CurrencyAmount, error) {
	tokenOut := amountOut.Currency.Wrapped()
	if !p.InvolvesToken(tokenOut) {
		return CurrencyAmount{}, ErrTokenNotInVenue
	}
	tokenIn := otherToken(p, tokenOut)
	if tokenOut.BuyFeeBps >= 10000 || tokenIn.SellFeeBps >= 10000 {
		return CurrencyAmount{}, ErrInsufficientInputAmount
	}
	reserveIn, _ := p.ReserveOf(tokenIn)
	reserveOut, _ := p.ReserveOf(tokenOut)

	out := amountOut.Quotient()
	if tokenOut.BuyFeeBps > 0 {
		out = new(big.Int).Mul(out, basisBase)
		out.Quo(out, big.NewInt(10000-int64(tokenOut.BuyFeeBps)))
		out.Add(out, one)
	}
	if p.HasZeroReserve() || out.Cmp(reserveOut) >= 0 {
		return CurrencyAmount{}, ErrInsufficientReserves
	}

	numerator := new(big.Int).Mul(reserveIn, out)
	numerator.Mul(numerator, basisBase)
	denominator := new(big.Int).Sub(reserveOut, out)
	denominator.Mul(denominator, big.NewInt(10000-int64(p.fee)))
	in := numerator.Quo(numerator, denominator)
	in.Add(in, one)

	if tokenIn.SellFeeBps > 0 {
		in.Mul(in, basisBase)
		in.Quo(in, big.NewInt(10000-int64(tokenIn.SellFeeBps)))
		in.Add(in, one)
	}
	return FromRawAmount(tokenIn, in), nil
}
