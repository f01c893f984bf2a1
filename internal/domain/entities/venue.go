package entities

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Protocol tags venues and routes
type Protocol string

const (
	ProtocolV2    Protocol = "V2"
	ProtocolV3    Protocol = "V3"
	ProtocolMixed Protocol = "MIXED"
)

// DEXType represents the type of decentralized exchange a venue snapshot came from
type DEXType string

const (
	DEXUniswapV2 DEXType = "uniswap_v2"
	DEXUniswapV3 DEXType = "uniswap_v3"
	DEXSushiswap DEXType = "sushiswap"
)

// ErrInsufficientLiquidity marks a quote the venue cannot fill. The search
// treats it as "skip this branch"; every other quoting error aborts.
var ErrInsufficientLiquidity = errors.New("insufficient liquidity")

var (
	ErrInsufficientReserves    = fmt.Errorf("insufficient reserves: %w", ErrInsufficientLiquidity)
	ErrInsufficientInputAmount = fmt.Errorf("insufficient input amount: %w", ErrInsufficientLiquidity)
	ErrTokenNotInVenue         = errors.New("token not in venue")
)

// Venue is a liquidity source a route can hop through: a V2 Pair or a V3 Pool
type Venue interface {
	Protocol() Protocol
	ChainID() int64
	Address() common.Address
	Token0() Token
	Token1() Token
	InvolvesToken(token Token) bool
	Token0Price() Price
	Token1Price() Price
	PriceOf(token Token) (Price, error)
	// GetOutputAmount quotes the output for an exact input of either token
	GetOutputAmount(ctx context.Context, amountIn CurrencyAmount) (CurrencyAmount, error)
	// GetInputAmount quotes the input needed for an exact output of either token
	GetInputAmount(ctx context.Context, amountOut CurrencyAmount) (CurrencyAmount, error)
}

// otherToken returns the venue token that is not t
func otherToken(v Venue, t Token) Token {
	if v.Token0().Equals(t) {
		return v.Token1()
	}
	return v.Token0()
}

func sortTokens(a, b Token) (Token, Token, error) {
	if a.ChainID != b.ChainID {
		return Token{}, Token{}, ErrChainMismatch
	}
	before, err := a.SortsBefore(b)
	if err != nil {
		return Token{}, Token{}, err
	}
	if before {
		return a, b, nil
	}
	return b, a, nil
}
