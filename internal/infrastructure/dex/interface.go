package dex

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	"github.com/bimakw/dex-router/internal/domain/entities"
	"github.com/bimakw/dex-router/internal/infrastructure/abi"
	ethclient "github.com/bimakw/dex-router/internal/infrastructure/ethereum"
)

var (
	ErrVenueNotFound   = errors.New("venue not found")
	ErrInvalidResponse = errors.New("invalid contract response")
	ErrSnapshotTokens  = errors.New("tokens do not match snapshot")
	ErrUnknownProtocol = errors.New("unknown snapshot protocol")
)

// Fetcher loads the current state of every venue one DEX has for a token pair
type Fetcher interface {
	FetchSnapshots(ctx context.Context, tokenA, tokenB entities.Token) ([]Snapshot, error)

	// DEXType returns the type of DEX
	DEXType() entities.DEXType
}

// Snapshot is the raw on-chain state of a pair or pool. It carries token
// addresses only so it can be cached and rebuilt against a token registry.
type Snapshot struct {
	DEX       entities.DEXType  `json:"dex"`
	Protocol  entities.Protocol `json:"protocol"`
	Address   common.Address    `json:"address"`
	Token0    common.Address    `json:"token0"`
	Token1    common.Address    `json:"token1"`
	UpdatedAt int64             `json:"updatedAt"`

	// V2
	Reserve0 *big.Int `json:"reserve0,omitempty"`
	Reserve1 *big.Int `json:"reserve1,omitempty"`
	FeeBps   uint64   `json:"feeBps,omitempty"`

	// V3
	Fee          uint32   `json:"fee,omitempty"`
	SqrtPriceX96 *big.Int `json:"sqrtPriceX96,omitempty"`
	Liquidity    *big.Int `json:"liquidity,omitempty"`
	Tick         int      `json:"tick"`
}

// Venue rebuilds the entity for the snapshot. tokenA and tokenB may be given
// in either order.
func (s Snapshot) Venue(tokenA, tokenB entities.Token) (entities.Venue, error) {
	token0, token1 := tokenA, tokenB
	if tokenA.Address == s.Token1 {
		token0, token1 = tokenB, tokenA
	}
	if token0.Address != s.Token0 || token1.Address != s.Token1 {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotTokens, s.Address.Hex())
	}

	switch s.Protocol {
	case entities.ProtocolV2:
		if s.Reserve0 == nil || s.Reserve1 == nil {
			return nil, fmt.Errorf("%w: pair %s has no reserves", ErrInvalidResponse, s.Address.Hex())
		}
		pair, err := entities.NewPair(token0, token1, s.Reserve0, s.Reserve1,
			entities.WithPairAddress(s.Address),
			entities.WithPairDEX(s.DEX),
			entities.WithPairFee(s.FeeBps),
			entities.WithPairUpdatedAt(s.UpdatedAt))
		if err != nil {
			return nil, err
		}
		return pair, nil
	case entities.ProtocolV3:
		if s.SqrtPriceX96 == nil || s.Liquidity == nil {
			return nil, fmt.Errorf("%w: pool %s has no price", ErrInvalidResponse, s.Address.Hex())
		}
		pool, err := entities.NewPool(token0, token1, entities.FeeAmount(s.Fee), s.SqrtPriceX96, s.Liquidity, s.Tick, nil,
			entities.WithPoolAddress(s.Address),
			entities.WithPoolUpdatedAt(s.UpdatedAt))
		if err != nil {
			return nil, err
		}
		return pool, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProtocol, s.Protocol)
	}
}

// sortTokens returns tokens in the order Uniswap factories store them
func sortTokens(tokenA, tokenB common.Address) (common.Address, common.Address) {
	if tokenA.Cmp(tokenB) < 0 {
		return tokenA, tokenB
	}
	return tokenB, tokenA
}

// callMsg packs a view call to contract
func callMsg(codec *abi.Codec, contract common.Address, signature string, args ...any) (ethereum.CallMsg, error) {
	data, err := codec.Encode(signature, args...)
	if err != nil {
		return ethereum.CallMsg{}, err
	}
	return ethereum.CallMsg{To: &contract, Data: data}, nil
}

// call runs one view call and unpacks its outputs
func call(ctx context.Context, caller ethclient.Caller, codec *abi.Codec, contract common.Address, signature string, args ...any) ([]any, error) {
	msg, err := callMsg(codec, contract, signature, args...)
	if err != nil {
		return nil, err
	}
	result, err := caller.CallContract(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("%s on %s: %w", signature, contract.Hex(), err)
	}
	values, err := codec.Decode(signature, result)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return values, nil
}

// decodeAddress reads a single address return value
func decodeAddress(values []any) (common.Address, error) {
	if len(values) != 1 {
		return common.Address{}, ErrInvalidResponse
	}
	addr, ok := values[0].(common.Address)
	if !ok {
		return common.Address{}, ErrInvalidResponse
	}
	return addr, nil
}
