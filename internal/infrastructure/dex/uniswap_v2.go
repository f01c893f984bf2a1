package dex

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/bimakw/dex-router/internal/domain/entities"
	"github.com/bimakw/dex-router/internal/infrastructure/abi"
	ethclient "github.com/bimakw/dex-router/internal/infrastructure/ethereum"
)

// UniswapV2Factory addresses
var (
	UniswapV2FactoryAddress = common.HexToAddress("0x5C69bEe701ef814a2B6a3EDD4B1652CB9cc5aA6f")
	SushiswapFactoryAddress = common.HexToAddress("0xC0AEe478e3658e2610c5F7A4A2E1777cE9e4f2Ac")
)

const (
	sigGetPair     = "getPair(address,address)"
	sigGetReserves = "getReserves()"
)

// UniswapV2Client fetches pair snapshots from Uniswap V2 compatible DEXes
type UniswapV2Client struct {
	caller  ethclient.Caller
	codec   *abi.Codec
	factory common.Address
	dexType entities.DEXType
	fee     uint64 // basis points
	now     func() time.Time
}

// NewUniswapV2Client creates a new Uniswap V2 client
func NewUniswapV2Client(caller ethclient.Caller, codec *abi.Codec) *UniswapV2Client {
	return &UniswapV2Client{
		caller:  caller,
		codec:   codec,
		factory: UniswapV2FactoryAddress,
		dexType: entities.DEXUniswapV2,
		fee:     entities.DefaultPairFeeBps,
		now:     time.Now,
	}
}

// NewSushiswapClient creates a Sushiswap client, same pair interface as Uniswap V2
func NewSushiswapClient(caller ethclient.Caller, codec *abi.Codec) *UniswapV2Client {
	c := NewUniswapV2Client(caller, codec)
	c.factory = SushiswapFactoryAddress
	c.dexType = entities.DEXSushiswap
	return c
}

// GetPairAddress asks the factory for the pair of two tokens.
// Returns ErrVenueNotFound when the pair was never created.
func (c *UniswapV2Client) GetPairAddress(ctx context.Context, tokenA, tokenB common.Address) (common.Address, error) {
	token0, token1 := sortTokens(tokenA, tokenB)

	values, err := call(ctx, c.caller, c.codec, c.factory, sigGetPair, token0, token1)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to get pair address: %w", err)
	}
	pairAddress, err := decodeAddress(values)
	if err != nil {
		return common.Address{}, err
	}
	if pairAddress == ethclient.ZeroAddress {
		return common.Address{}, ErrVenueNotFound
	}
	return pairAddress, nil
}

// FetchSnapshots returns the pair of tokenA and tokenB, or nothing when the
// factory has no such pair
func (c *UniswapV2Client) FetchSnapshots(ctx context.Context, tokenA, tokenB entities.Token) ([]Snapshot, error) {
	pairAddress, err := c.GetPairAddress(ctx, tokenA.Address, tokenB.Address)
	if errors.Is(err, ErrVenueNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	reserve0, reserve1, err := c.getReserves(ctx, pairAddress)
	if err != nil {
		return nil, err
	}

	token0, token1 := sortTokens(tokenA.Address, tokenB.Address)
	return []Snapshot{{
		DEX:       c.dexType,
		Protocol:  entities.ProtocolV2,
		Address:   pairAddress,
		Token0:    token0,
		Token1:    token1,
		UpdatedAt: c.now().Unix(),
		Reserve0:  reserve0,
		Reserve1:  reserve1,
		FeeBps:    c.fee,
	}}, nil
}

func (c *UniswapV2Client) getReserves(ctx context.Context, pairAddress common.Address) (*big.Int, *big.Int, error) {
	values, err := call(ctx, c.caller, c.codec, pairAddress, sigGetReserves)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get reserves: %w", err)
	}
	if len(values) != 3 {
		return nil, nil, ErrInvalidResponse
	}
	reserve0, ok0 := values[0].(*big.Int)
	reserve1, ok1 := values[1].(*big.Int)
	if !ok0 || !ok1 {
		return nil, nil, ErrInvalidResponse
	}
	return reserve0, reserve1, nil
}

// DEXType returns the DEX type
func (c *UniswapV2Client) DEXType() entities.DEXType {
	return c.dexType
}
