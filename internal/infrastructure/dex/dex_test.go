package dex

import (
	"context"
	"encoding/hex"
	"errors"
	"math/big"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bimakw/dex-router/internal/domain/entities"
	"github.com/bimakw/dex-router/internal/infrastructure/abi"
)

// fakeChain answers eth_calls from a table keyed by target and calldata.
// Unknown calls return one zero word, which factories read as "no venue".
type fakeChain struct {
	mu        sync.Mutex
	responses map[string][]byte
	fail      map[common.Address]error
	calls     int
}

func newFakeChain() *fakeChain {
	return &fakeChain{responses: make(map[string][]byte), fail: make(map[common.Address]error)}
}

func callKey(to common.Address, data []byte) string {
	return to.Hex() + ":" + hex.EncodeToString(data)
}

func (f *fakeChain) CallContract(_ context.Context, msg ethereum.CallMsg) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err, ok := f.fail[*msg.To]; ok {
		return nil, err
	}
	if out, ok := f.responses[callKey(*msg.To, msg.Data)]; ok {
		return out, nil
	}
	return make([]byte, 32), nil
}

func (f *fakeChain) respond(t *testing.T, codec *abi.Codec, to common.Address, rawABI, method string, out []any, sig string, args ...any) {
	t.Helper()
	data, err := codec.Encode(sig, args...)
	require.NoError(t, err)
	parsed, err := ethabi.JSON(strings.NewReader(rawABI))
	require.NoError(t, err)
	packed, err := parsed.Methods[method].Outputs.Pack(out...)
	require.NoError(t, err)
	f.responses[callKey(to, data)] = packed
}

func venueCodec(t *testing.T) *abi.Codec {
	t.Helper()
	c, err := abi.NewVenueCodec()
	require.NoError(t, err)
	return c
}

var (
	pairAddr  = common.HexToAddress("0x00000000000000000000000000000000000000A1")
	poolLow   = common.HexToAddress("0x00000000000000000000000000000000000000B1")
	poolHigh  = common.HexToAddress("0x00000000000000000000000000000000000000B2")
	fixedTime = time.Unix(1_700_000_000, 0)
	q96       = new(big.Int).Lsh(big.NewInt(1), 96)
)

func TestUniswapV2FetchSnapshots(t *testing.T) {
	codec := venueCodec(t)
	chain := newFakeChain()
	token0, token1 := sortTokens(entities.USDC.Address, entities.WETH.Address)
	chain.respond(t, codec, UniswapV2FactoryAddress, abi.FactoryABI, "getPair", []any{pairAddr}, sigGetPair, token0, token1)
	chain.respond(t, codec, pairAddr, abi.PairABI, "getReserves",
		[]any{big.NewInt(5_000_000_000), big.NewInt(2_000_000_000_000_000_000), uint32(7)}, sigGetReserves)

	client := NewUniswapV2Client(chain, codec)
	client.now = func() time.Time { return fixedTime }

	snapshots, err := client.FetchSnapshots(context.Background(), entities.WETH, entities.USDC)
	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	s := snapshots[0]
	assert.Equal(t, entities.ProtocolV2, s.Protocol)
	assert.Equal(t, entities.DEXUniswapV2, s.DEX)
	assert.Equal(t, pairAddr, s.Address)
	assert.Equal(t, token0, s.Token0)
	assert.Equal(t, "5000000000", s.Reserve0.String())
	assert.Equal(t, fixedTime.Unix(), s.UpdatedAt)

	venue, err := s.Venue(entities.WETH, entities.USDC)
	require.NoError(t, err)
	pair, ok := venue.(*entities.Pair)
	require.True(t, ok)
	assert.Equal(t, pairAddr, pair.Address())
	assert.True(t, pair.Token0().Equals(entities.USDC))
	assert.Equal(t, "5000000000", pair.Reserve0().String())
}

func TestUniswapV2MissingPair(t *testing.T) {
	client := NewSushiswapClient(newFakeChain(), venueCodec(t))
	assert.Equal(t, entities.DEXSushiswap, client.DEXType())

	snapshots, err := client.FetchSnapshots(context.Background(), entities.WETH, entities.DAI)
	require.NoError(t, err)
	assert.Empty(t, snapshots)

	_, err = client.GetPairAddress(context.Background(), entities.WETH.Address, entities.DAI.Address)
	assert.ErrorIs(t, err, ErrVenueNotFound)
}

func TestUniswapV2RPCError(t *testing.T) {
	chain := newFakeChain()
	rpcErr := errors.New("connection reset")
	chain.fail[UniswapV2FactoryAddress] = rpcErr

	_, err := NewUniswapV2Client(chain, venueCodec(t)).FetchSnapshots(context.Background(), entities.WETH, entities.USDC)
	assert.ErrorIs(t, err, rpcErr)
}

func TestUniswapV3FetchSnapshots(t *testing.T) {
	codec := venueCodec(t)
	chain := newFakeChain()
	token0, token1 := sortTokens(entities.USDC.Address, entities.WETH.Address)
	chain.respond(t, codec, UniswapV3FactoryAddress, abi.FactoryABI, "getPool", []any{poolLow}, sigGetPool, token0, token1, big.NewInt(500))
	chain.respond(t, codec, UniswapV3FactoryAddress, abi.FactoryABI, "getPool", []any{poolHigh}, sigGetPool, token0, token1, big.NewInt(10000))
	for _, pool := range []common.Address{poolLow, poolHigh} {
		chain.respond(t, codec, pool, abi.PoolABI, "slot0",
			[]any{q96, big.NewInt(0), uint16(1), uint16(1), uint16(1), uint8(0), true}, sigSlot0)
		chain.respond(t, codec, pool, abi.PoolABI, "liquidity", []any{big.NewInt(1_000_000_000_000)}, sigLiquidity)
	}

	client := NewUniswapV3Client(chain, codec)
	client.now = func() time.Time { return fixedTime }

	snapshots, err := client.FetchSnapshots(context.Background(), entities.WETH, entities.USDC)
	require.NoError(t, err)
	require.Len(t, snapshots, 2)
	assert.Equal(t, poolLow, snapshots[0].Address)
	assert.Equal(t, uint32(500), snapshots[0].Fee)
	assert.Equal(t, poolHigh, snapshots[1].Address)
	assert.Equal(t, uint32(10000), snapshots[1].Fee)
	assert.Equal(t, 0, q96.Cmp(snapshots[0].SqrtPriceX96))
	assert.Equal(t, "1000000000000", snapshots[1].Liquidity.String())

	venue, err := snapshots[0].Venue(entities.USDC, entities.WETH)
	require.NoError(t, err)
	pool, ok := venue.(*entities.Pool)
	require.True(t, ok)
	assert.Equal(t, entities.FeeLow, pool.Fee())
	assert.Equal(t, poolLow, pool.Address())
	assert.Equal(t, 0, pool.TickCurrent())
}

func TestUniswapV3NoPools(t *testing.T) {
	chain := newFakeChain()
	snapshots, err := NewUniswapV3Client(chain, venueCodec(t)).FetchSnapshots(context.Background(), entities.WETH, entities.DAI)
	require.NoError(t, err)
	assert.Empty(t, snapshots)
	assert.Equal(t, len(V3FeeTiers), chain.calls)
}

func TestSnapshotVenueErrors(t *testing.T) {
	base := Snapshot{Address: pairAddr, Token0: entities.USDC.Address, Token1: entities.WETH.Address}

	tests := []struct {
		name     string
		snapshot func() Snapshot
		tokens   [2]entities.Token
		wantErr  error
	}{
		{
			name:     "tokens not in snapshot",
			snapshot: func() Snapshot { s := base; s.Protocol = entities.ProtocolV2; return s },
			tokens:   [2]entities.Token{entities.DAI, entities.WETH},
			wantErr:  ErrSnapshotTokens,
		},
		{
			name:     "pair without reserves",
			snapshot: func() Snapshot { s := base; s.Protocol = entities.ProtocolV2; return s },
			tokens:   [2]entities.Token{entities.USDC, entities.WETH},
			wantErr:  ErrInvalidResponse,
		},
		{
			name:     "pool without price",
			snapshot: func() Snapshot { s := base; s.Protocol = entities.ProtocolV3; return s },
			tokens:   [2]entities.Token{entities.WETH, entities.USDC},
			wantErr:  ErrInvalidResponse,
		},
		{
			name:     "unknown protocol",
			snapshot: func() Snapshot { s := base; s.Protocol = entities.ProtocolMixed; return s },
			tokens:   [2]entities.Token{entities.WETH, entities.USDC},
			wantErr:  ErrUnknownProtocol,
		},
		{
			name: "unknown fee tier",
			snapshot: func() Snapshot {
				s := base
				s.Protocol = entities.ProtocolV3
				s.Fee = 42
				s.SqrtPriceX96 = q96
				s.Liquidity = big.NewInt(1)
				return s
			},
			tokens:  [2]entities.Token{entities.WETH, entities.USDC},
			wantErr: entities.ErrUnknownFeeTier,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.snapshot().Venue(tt.tokens[0], tt.tokens[1])
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
