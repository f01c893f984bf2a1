package dex

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	"github.com/bimakw/dex-router/internal/domain/entities"
	"github.com/bimakw/dex-router/internal/infrastructure/abi"
	ethclient "github.com/bimakw/dex-router/internal/infrastructure/ethereum"
)

// Uniswap V3 factory (Ethereum Mainnet)
var UniswapV3FactoryAddress = common.HexToAddress("0x1F98431c8aD98523631AE4a59f267346ea31F984")

// V3FeeTiers in hundredths of a bip (1 = 0.0001%)
var V3FeeTiers = []entities.FeeAmount{
	entities.FeeLowest, // 0.01%
	entities.FeeLow,    // 0.05%
	entities.FeeMedium, // 0.30%
	entities.FeeHigh,   // 1.00%
}

const (
	sigGetPool   = "getPool(address,address,uint24)"
	sigSlot0     = "slot0()"
	sigLiquidity = "liquidity()"
)

// UniswapV3Client fetches pool snapshots for every fee tier of a token pair.
// Only slot0 and in-range liquidity are read, so the built pools quote with
// constant liquidity and no tick crossings.
type UniswapV3Client struct {
	caller  ethclient.Caller
	codec   *abi.Codec
	factory common.Address
	tiers   []entities.FeeAmount
	now     func() time.Time
}

func NewUniswapV3Client(caller ethclient.Caller, codec *abi.Codec) *UniswapV3Client {
	return &UniswapV3Client{
		caller:  caller,
		codec:   codec,
		factory: UniswapV3FactoryAddress,
		tiers:   V3FeeTiers,
		now:     time.Now,
	}
}

// GetPoolAddresses returns the deployed pool of each fee tier, keyed by tier
func (c *UniswapV3Client) GetPoolAddresses(ctx context.Context, tokenA, tokenB common.Address) (map[entities.FeeAmount]common.Address, error) {
	token0, token1 := sortTokens(tokenA, tokenB)

	calls := make([]ethereum.CallMsg, len(c.tiers))
	for i, fee := range c.tiers {
		msg, err := callMsg(c.codec, c.factory, sigGetPool, token0, token1, big.NewInt(int64(fee)))
		if err != nil {
			return nil, err
		}
		calls[i] = msg
	}
	results, err := ethclient.Multicall(ctx, c.caller, calls)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool addresses: %w", err)
	}

	pools := make(map[entities.FeeAmount]common.Address)
	for i, result := range results {
		values, err := c.codec.Decode(sigGetPool, result)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
		addr, err := decodeAddress(values)
		if err != nil {
			return nil, err
		}
		if addr != ethclient.ZeroAddress {
			pools[c.tiers[i]] = addr
		}
	}
	return pools, nil
}

// FetchSnapshots returns one snapshot per deployed fee tier, in tier order
func (c *UniswapV3Client) FetchSnapshots(ctx context.Context, tokenA, tokenB entities.Token) ([]Snapshot, error) {
	pools, err := c.GetPoolAddresses(ctx, tokenA.Address, tokenB.Address)
	if err != nil {
		return nil, err
	}

	token0, token1 := sortTokens(tokenA.Address, tokenB.Address)
	var snapshots []Snapshot
	for _, fee := range c.tiers {
		poolAddress, ok := pools[fee]
		if !ok {
			continue
		}
		snapshot, err := c.fetchPool(ctx, poolAddress)
		if err != nil {
			return nil, err
		}
		snapshot.Token0, snapshot.Token1 = token0, token1
		snapshot.Fee = uint32(fee)
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, nil
}

func (c *UniswapV3Client) fetchPool(ctx context.Context, poolAddress common.Address) (Snapshot, error) {
	slot0, err := callMsg(c.codec, poolAddress, sigSlot0)
	if err != nil {
		return Snapshot{}, err
	}
	liquidity, err := callMsg(c.codec, poolAddress, sigLiquidity)
	if err != nil {
		return Snapshot{}, err
	}
	results, err := ethclient.Multicall(ctx, c.caller, []ethereum.CallMsg{slot0, liquidity})
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read pool %s: %w", poolAddress.Hex(), err)
	}

	state, err := c.codec.Decode(sigSlot0, results[0])
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if len(state) < 2 {
		return Snapshot{}, ErrInvalidResponse
	}
	sqrtPriceX96, ok0 := state[0].(*big.Int)
	tick, ok1 := state[1].(*big.Int)
	if !ok0 || !ok1 {
		return Snapshot{}, ErrInvalidResponse
	}

	values, err := c.codec.Decode(sigLiquidity, results[1])
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if len(values) != 1 {
		return Snapshot{}, ErrInvalidResponse
	}
	liq, ok := values[0].(*big.Int)
	if !ok {
		return Snapshot{}, ErrInvalidResponse
	}

	return Snapshot{
		DEX:          entities.DEXUniswapV3,
		Protocol:     entities.ProtocolV3,
		Address:      poolAddress,
		UpdatedAt:    c.now().Unix(),
		SqrtPriceX96: sqrtPriceX96,
		Liquidity:    liq,
		Tick:         int(tick.Int64()),
	}, nil
}

// DEXType returns the DEX type identifier
func (c *UniswapV3Client) DEXType() entities.DEXType {
	return entities.DEXUniswapV3
}
