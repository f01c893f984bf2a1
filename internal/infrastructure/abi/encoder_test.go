package abi

import (
	"context"
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bimakw/dex-router/internal/domain/entities"
	"github.com/bimakw/dex-router/internal/domain/router"
)

func routerCodec(t *testing.T) *Codec {
	t.Helper()
	c, err := NewRouterCodec()
	require.NoError(t, err)
	return c
}

func TestCodecEncode(t *testing.T) {
	c := routerCodec(t)
	feeRecipient := common.HexToAddress("0x00000000000000000000000000000000000000F2")
	tokenA := common.HexToAddress("0x000000000000000000000000000000000000000A")
	tokenB := common.HexToAddress("0x000000000000000000000000000000000000000B")
	path, _ := hex.DecodeString("000000000000000000000000000000000000000a000bb8000000000000000000000000000000000000000b")

	tests := []struct {
		name string
		sig  string
		args []any
		want string
	}{
		{
			name: "payment with fee",
			sig:  "unwrapWETH9WithFee(uint256,uint256,address)",
			args: []any{big.NewInt(1000), big.NewInt(50), feeRecipient},
			want: "d4ef38de" +
				"00000000000000000000000000000000000000000000000000000000000003e8" +
				"0000000000000000000000000000000000000000000000000000000000000032" +
				"00000000000000000000000000000000000000000000000000000000000000f2",
		},
		{
			name: "static tuple",
			sig:  "exactInputSingle((address,address,uint24,address,uint256,uint256,uint160))",
			args: []any{router.ExactInputSingleParams{
				TokenIn:           tokenA,
				TokenOut:          tokenB,
				Fee:               big.NewInt(3000),
				Recipient:         router.AddressThis,
				AmountIn:          big.NewInt(1_000_000_000_000_000_000),
				AmountOutMinimum:  big.NewInt(99),
				SqrtPriceLimitX96: big.NewInt(0),
			}},
			want: "04e45aaf" +
				"000000000000000000000000000000000000000000000000000000000000000a" +
				"000000000000000000000000000000000000000000000000000000000000000b" +
				"0000000000000000000000000000000000000000000000000000000000000bb8" +
				"0000000000000000000000000000000000000000000000000000000000000002" +
				"0000000000000000000000000000000000000000000000000de0b6b3a7640000" +
				"0000000000000000000000000000000000000000000000000000000000000063" +
				"0000000000000000000000000000000000000000000000000000000000000000",
		},
		{
			name: "dynamic tuple",
			sig:  "exactInput((bytes,address,uint256,uint256))",
			args: []any{router.ExactInputParams{
				Path:             path,
				Recipient:        feeRecipient,
				AmountIn:         big.NewInt(5),
				AmountOutMinimum: big.NewInt(4),
			}},
			want: "b858183f" +
				"0000000000000000000000000000000000000000000000000000000000000020" +
				"0000000000000000000000000000000000000000000000000000000000000080" +
				"00000000000000000000000000000000000000000000000000000000000000f2" +
				"0000000000000000000000000000000000000000000000000000000000000005" +
				"0000000000000000000000000000000000000000000000000000000000000004" +
				"000000000000000000000000000000000000000000000000000000000000002b" +
				"000000000000000000000000000000000000000a000bb8000000000000000000" +
				"000000000000000000000b000000000000000000000000000000000000000000",
		},
		{
			name: "deadline multicall",
			sig:  "multicall(uint256,bytes[])",
			args: []any{big.NewInt(1_700_000_000), [][]byte{{0x01}, {0x02, 0x03}}},
			want: "5ae401dc" +
				"000000000000000000000000000000000000000000000000000000006553f100" +
				"0000000000000000000000000000000000000000000000000000000000000040" +
				"0000000000000000000000000000000000000000000000000000000000000002" +
				"0000000000000000000000000000000000000000000000000000000000000040" +
				"0000000000000000000000000000000000000000000000000000000000000080" +
				"0000000000000000000000000000000000000000000000000000000000000001" +
				"0100000000000000000000000000000000000000000000000000000000000000" +
				"0000000000000000000000000000000000000000000000000000000000000002" +
				"0203000000000000000000000000000000000000000000000000000000000000",
		},
		{
			name: "no arguments",
			sig:  "refundETH()",
			want: "12210e8a",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Encode(tt.sig, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, hex.EncodeToString(got))
		})
	}
}

func TestCodecOverloads(t *testing.T) {
	c := routerCodec(t)
	sigs := c.Signatures()
	for _, sig := range []string{
		"multicall(bytes[])",
		"multicall(uint256,bytes[])",
		"multicall(bytes32,bytes[])",
		"unwrapWETH9(uint256)",
		"unwrapWETH9(uint256,address)",
		"sweepTokenWithFee(address,uint256,address,uint256,address)",
		"increaseLiquidity((address,address,uint256,uint256,uint256))",
	} {
		assert.Contains(t, sigs, sig)
	}

	one, err := c.Encode("unwrapWETH9(uint256)", big.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, "49616997", hex.EncodeToString(one[:4]))
	two, err := c.Encode("unwrapWETH9(uint256,address)", big.NewInt(1), common.Address{})
	require.NoError(t, err)
	assert.Equal(t, "49404b7c", hex.EncodeToString(two[:4]))
}

func TestCodecErrors(t *testing.T) {
	c := routerCodec(t)

	_, err := c.Encode("transfer(address,uint256)", common.Address{}, big.NewInt(1))
	assert.ErrorIs(t, err, ErrUnknownSignature)

	_, err = c.Encode("wrapETH(uint256)", "not a number")
	assert.Error(t, err)

	_, err = NewCodec(`[{"type":"function",`)
	assert.Error(t, err)
}

func TestCodecDecode(t *testing.T) {
	c, err := NewVenueCodec()
	require.NoError(t, err)

	data, _ := hex.DecodeString(
		"000000000000000000000000000000000000000000000000000000000000007b" +
			"00000000000000000000000000000000000000000000000000000000000001c8" +
			"0000000000000000000000000000000000000000000000000000000000000315")
	values, err := c.Decode("getReserves()", data)
	require.NoError(t, err)
	require.Len(t, values, 3)
	assert.Equal(t, int64(123), values[0].(*big.Int).Int64())
	assert.Equal(t, int64(456), values[1].(*big.Int).Int64())
	assert.Equal(t, uint32(789), values[2].(uint32))

	_, err = c.Decode("getReserves()", data[:40])
	assert.Error(t, err)
}

// compiles real trades end to end so every struct the router emits is
// checked against the ABI
func TestRouterCompilesWithCodec(t *testing.T) {
	tokenA := entities.Token{ChainID: 1, Address: common.HexToAddress("0x000000000000000000000000000000000000000A"), Symbol: "A", Decimals: 18}
	tokenB := entities.Token{ChainID: 1, Address: common.HexToAddress("0x000000000000000000000000000000000000000B"), Symbol: "B", Decimals: 18}
	e18 := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

	pair, err := entities.NewPair(tokenA, entities.WETH, e18, e18)
	require.NoError(t, err)
	liquidity := new(big.Int).Set(e18)
	spacing := entities.TickSpacings[entities.FeeMedium]
	ticks, err := entities.NewTickList([]entities.Tick{
		{Index: (entities.MinTick / spacing) * spacing, LiquidityGross: liquidity, LiquidityNet: liquidity},
		{Index: (entities.MaxTick / spacing) * spacing, LiquidityGross: liquidity, LiquidityNet: new(big.Int).Neg(liquidity)},
	}, spacing)
	require.NoError(t, err)
	pool, err := entities.NewPool(entities.WETH, tokenB, entities.FeeMedium, entities.EncodeSqrtRatioX96(big.NewInt(1), big.NewInt(1)), liquidity, 0, ticks)
	require.NoError(t, err)

	route, err := entities.NewMixedRoute([]entities.Venue{pair, pool}, tokenA, tokenB)
	require.NoError(t, err)
	tr, err := entities.TradeFromRoute(context.Background(), route, entities.FromRawAmount(tokenA, big.NewInt(1_000_000_000_000_000)), entities.ExactInput)
	require.NoError(t, err)

	sr := router.NewSwapRouter(routerCodec(t))
	params, err := sr.SwapCallParameters([]*entities.Trade{tr}, router.SwapOptions{
		SlippageTolerance:           entities.PercentFromBps(50),
		DeadlineOrPreviousBlockhash: router.Deadline(big.NewInt(1_700_000_000)),
		InputTokenPermit:            &router.PermitOptions{V: 27, Amount: e18, Deadline: big.NewInt(1_700_000_000)},
		Fee:                         &router.FeeOptions{Fee: entities.PercentFromBps(10), Recipient: common.HexToAddress("0xF2")},
	})
	require.NoError(t, err)
	assert.Equal(t, "5ae401dc", hex.EncodeToString(params.Calldata[:4]))
	assert.Equal(t, "0x00", params.Value)

	wethToB, err := entities.NewV3Route([]*entities.Pool{pool}, entities.WETH, tokenB)
	require.NoError(t, err)
	swap, err := entities.TradeFromRoute(context.Background(), wethToB, entities.FromRawAmount(entities.WETH, big.NewInt(1_000_000_000_000_000)), entities.ExactInput)
	require.NoError(t, err)
	position, err := entities.NewPosition(pool, e18, -600, 600)
	require.NoError(t, err)
	params, err = sr.SwapAndAddCallParameters([]*entities.Trade{swap},
		router.SwapAndAddOptions{SwapOptions: router.SwapOptions{SlippageTolerance: entities.PercentFromBps(50)}},
		position, router.IncreaseIntent{TokenID: big.NewInt(7)}, router.ApprovalMax, router.ApprovalMaxMinusOne)
	require.NoError(t, err)
	assert.Equal(t, "ac9650d8", hex.EncodeToString(params.Calldata[:4]))
}
