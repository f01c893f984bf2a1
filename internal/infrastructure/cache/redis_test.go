package cache

import (
	"context"
	"encoding/json"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bimakw/dex-router/internal/domain/entities"
	"github.com/bimakw/dex-router/internal/infrastructure/dex"
)

func TestSnapshotCacheKeyIgnoresOrder(t *testing.T) {
	a := SnapshotCacheKey(entities.DEXUniswapV2, entities.WETH.Address, entities.USDC.Address)
	b := SnapshotCacheKey(entities.DEXUniswapV2, entities.USDC.Address, entities.WETH.Address)
	assert.Equal(t, a, b)
	assert.Equal(t, "venues:uniswap_v2:0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48:0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2", a)
	assert.NotEqual(t, a, SnapshotCacheKey(entities.DEXSushiswap, entities.WETH.Address, entities.USDC.Address))
	assert.Equal(t, "price:0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2", PriceCacheKey(entities.WETH.Address))
}

func TestInMemoryCacheSnapshots(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0)
	c := NewInMemoryCache()
	c.now = func() time.Time { return now }

	_, ok, err := c.GetSnapshots(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	snapshots := []dex.Snapshot{{Protocol: entities.ProtocolV2, Reserve0: big.NewInt(1), Reserve1: big.NewInt(2)}}
	require.NoError(t, c.SetSnapshots(ctx, "k", snapshots, time.Minute))
	got, ok, err := c.GetSnapshots(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, snapshots, got)

	require.NoError(t, c.SetSnapshots(ctx, "empty", nil, time.Minute))
	got, ok, err = c.GetSnapshots(ctx, "empty")
	require.NoError(t, err)
	assert.True(t, ok, "an empty result is still a hit")
	assert.Empty(t, got)

	now = now.Add(time.Minute)
	_, ok, err = c.GetSnapshots(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok, "entries expire at their ttl")
}

func TestInMemoryCachePrices(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache()

	require.NoError(t, c.SetPrice(ctx, "p", "1850.25", time.Minute))
	price, ok, err := c.GetPrice(ctx, "p")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1850.25", price)

	require.NoError(t, c.Delete(ctx, "p"))
	_, ok, err = c.GetPrice(ctx, "p")
	require.NoError(t, err)
	assert.False(t, ok)
}

// the redis cache stores snapshots as JSON, so they must survive a round trip
// with their big integers intact
func TestSnapshotJSON(t *testing.T) {
	in := dex.Snapshot{
		DEX:          entities.DEXUniswapV3,
		Protocol:     entities.ProtocolV3,
		Address:      common.HexToAddress("0x88e6A0c2dDD26FEEb64F039a2c41296FcB3f5640"),
		Token0:       entities.USDC.Address,
		Token1:       entities.WETH.Address,
		Fee:          500,
		SqrtPriceX96: new(big.Int).Lsh(big.NewInt(1), 150),
		Liquidity:    big.NewInt(123456789),
		Tick:         -200000,
	}
	data, err := json.Marshal([]dex.Snapshot{in})
	require.NoError(t, err)

	var out []dex.Snapshot
	require.NoError(t, json.Unmarshal(data, &out))
	require.Len(t, out, 1)
	assert.Equal(t, in.Address, out[0].Address)
	assert.Equal(t, 0, in.SqrtPriceX96.Cmp(out[0].SqrtPriceX96))
	assert.Equal(t, in.Tick, out[0].Tick)
	assert.Nil(t, out[0].Reserve0)
}
