package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bimakw/dex-router/internal/domain/entities"
	"github.com/bimakw/dex-router/internal/domain/router"
	"github.com/bimakw/dex-router/internal/domain/services"
	"github.com/bimakw/dex-router/internal/infrastructure/abi"
	"github.com/bimakw/dex-router/internal/infrastructure/cache"
)

type fixedVenues []entities.Venue

func (f fixedVenues) LoadVenues(context.Context, []entities.Token) ([]entities.Venue, error) {
	return f, nil
}

func units(n int64, decimals int64) *big.Int {
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(decimals), nil)
	return scale.Mul(scale, big.NewInt(n))
}

// newTestServer routes the API over two V2 pairs pricing WETH at 2000 USDC and 2000 DAI
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	wethUsdc, err := entities.NewPair(entities.WETH, entities.USDC, units(1000, 18), units(2_000_000, 6))
	require.NoError(t, err)
	wethDai, err := entities.NewPair(entities.WETH, entities.DAI, units(1000, 18), units(2_000_000, 18))
	require.NoError(t, err)

	codec, err := abi.NewRouterCodec()
	require.NoError(t, err)
	routerService := services.NewRouterService(fixedVenues{wethUsdc, wethDai}, router.NewSwapRouter(codec), services.RouterConfig{
		MaxHops:            3,
		MaxResults:         3,
		DefaultSlippageBps: 50,
		DeadlineWindow:     20 * time.Minute,
		BaseTokens:         []entities.Token{entities.WETH},
	}, logger)
	priceService := services.NewPriceService(routerService, cache.NewInMemoryCache(), time.Minute, logger)
	tokens := NewTokenResolver(entities.DefaultRegistry(), entities.ChainMainnet)

	r := chi.NewRouter()
	r.Get("/health", NewHealthHandler("test", entities.ChainMainnet).Health)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/quote", NewQuoteHandler(routerService, tokens).GetQuote)
		r.Post("/swap", NewSwapHandler(routerService, tokens).BuildSwap)
		r.Get("/price/{tokenAddress}", NewPriceHandler(priceService, tokens).GetPrice)
	})

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp.StatusCode
}

func postJSON(t *testing.T, url string, body string, out any) int {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	server := newTestServer(t)

	var health HealthResponse
	status := getJSON(t, server.URL+"/health", &health)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, HealthResponse{Status: "ok", Version: "test", ChainID: 1}, health)
}

func TestGetQuote(t *testing.T) {
	server := newTestServer(t)

	var quote QuoteResponse
	status := getJSON(t, server.URL+"/api/v1/quote?tokenIn=USDC&tokenOut="+entities.DAI.Address.Hex()+"&amountIn=1000000000", &quote)
	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, entities.USDC.Address.Hex(), quote.TokenIn)
	assert.Equal(t, entities.DAI.Address.Hex(), quote.TokenOut)
	assert.Equal(t, "1000000000", quote.AmountIn)
	assert.Equal(t, "MIXED", quote.Protocol, "search results are mixed routes")
	assert.Equal(t, "0.50%", quote.Slippage)
	assert.Equal(t, 2, quote.VenuesSearched)
	assert.Empty(t, quote.PriceWarning)

	require.Len(t, quote.Route, 2)
	assert.Equal(t, entities.USDC.Address.Hex(), quote.Route[0].TokenIn)
	assert.Equal(t, entities.WETH.Address.Hex(), quote.Route[0].TokenOut)
	assert.Equal(t, entities.DAI.Address.Hex(), quote.Route[1].TokenOut)
	assert.Equal(t, "uniswap_v2", quote.Route[0].DEX)
	assert.Equal(t, "0.30%", quote.Route[0].Fee)

	out, ok := new(big.Int).SetString(quote.AmountOut, 10)
	require.True(t, ok)
	minOut, ok := new(big.Int).SetString(quote.MinAmountOut, 10)
	require.True(t, ok)
	assert.True(t, out.Cmp(units(990, 18)) > 0)
	assert.True(t, minOut.Cmp(out) < 0)
	assert.True(t, strings.HasPrefix(quote.AmountOutDecimal, "99"))
}

func TestGetQuoteHighImpact(t *testing.T) {
	server := newTestServer(t)

	var quote QuoteResponse
	status := getJSON(t, server.URL+"/api/v1/quote?tokenIn=WETH&tokenOut=USDC&amountIn=200000000000000000000", &quote)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "very high price impact", quote.PriceWarning, "a fifth of the pool moves the price far")
}

func TestGetQuoteErrors(t *testing.T) {
	server := newTestServer(t)

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantCode   string
	}{
		{"missing params", "tokenIn=USDC", http.StatusBadRequest, "missing_params"},
		{"unknown symbol", "tokenIn=NOPE&tokenOut=DAI&amountIn=1", http.StatusBadRequest, "invalid_token_in"},
		{"bad token out", "tokenIn=USDC&tokenOut=0x123&amountIn=1", http.StatusBadRequest, "invalid_token_out"},
		{"bad amount", "tokenIn=USDC&tokenOut=DAI&amountIn=1.5", http.StatusBadRequest, "invalid_amount"},
		{"zero amount", "tokenIn=USDC&tokenOut=DAI&amountIn=0", http.StatusBadRequest, "invalid_amount"},
		{"zero hops", "tokenIn=USDC&tokenOut=DAI&amountIn=1&maxHops=0", http.StatusBadRequest, "invalid_limits"},
		{"slippage too high", "tokenIn=USDC&tokenOut=DAI&amountIn=1&slippageBps=10001", http.StatusBadRequest, "invalid_slippage"},
		{"same currency", "tokenIn=ETH&tokenOut=WETH&amountIn=1", http.StatusBadRequest, "invalid_request"},
		{"no route", "tokenIn=USDT&tokenOut=DAI&amountIn=1000000", http.StatusNotFound, "no_route"},
		{"single hop only", "tokenIn=USDC&tokenOut=DAI&amountIn=1000000&maxHops=1", http.StatusNotFound, "no_route"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var errResp ErrorResponse
			status := getJSON(t, server.URL+"/api/v1/quote?"+tt.query, &errResp)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, errResp.Error)
			assert.NotEmpty(t, errResp.Message)
		})
	}
}

func TestBuildSwap(t *testing.T) {
	server := newTestServer(t)

	body := `{
		"tokenIn": "ETH",
		"tokenOut": "` + entities.DAI.Address.Hex() + `",
		"amountIn": "1000000000000000000",
		"recipient": "0x00000000000000000000000000000000000000aa",
		"deadline": "1800000000",
		"slippageBps": 100
	}`
	var swap SwapResponse
	status := postJSON(t, server.URL+"/api/v1/swap", body, &swap)
	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, router.SwapRouter02.Hex(), swap.To)
	assert.Equal(t, "0x0de0b6b3a7640000", swap.Value)
	assert.Equal(t, "1800000000", swap.Deadline)
	assert.True(t, strings.HasPrefix(swap.Calldata, "0x5ae401dc"), "deadline multicall selector")
	assert.Equal(t, NativeAddress.Hex(), swap.Quote.TokenIn)
	assert.Equal(t, "1.00%", swap.Quote.Slippage)
	assert.Empty(t, swap.Quote.Alternatives, "swaps search for a single trade")
}

func TestBuildSwapErrors(t *testing.T) {
	server := newTestServer(t)
	base := `"tokenIn": "USDC", "tokenOut": "DAI", "amountIn": "1000000"`

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"not json", `tokenIn=USDC`, http.StatusBadRequest, "invalid_body"},
		{"missing amount", `{"tokenIn": "USDC", "tokenOut": "DAI"}`, http.StatusBadRequest, "missing_params"},
		{"bad recipient", `{` + base + `, "recipient": "bob"}`, http.StatusBadRequest, "invalid_recipient"},
		{"bad deadline", `{` + base + `, "deadline": "-5"}`, http.StatusBadRequest, "invalid_deadline"},
		{"fee without recipient", `{` + base + `, "feeBps": 25}`, http.StatusBadRequest, "invalid_fee_recipient"},
		{"fee too large", `{` + base + `, "feeBps": 10000, "feeRecipient": "0x00000000000000000000000000000000000000fe"}`, http.StatusBadRequest, "invalid_request"},
		{"no route", `{"tokenIn": "USDT", "tokenOut": "DAI", "amountIn": "1000000"}`, http.StatusNotFound, "no_route"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var errResp ErrorResponse
			status := postJSON(t, server.URL+"/api/v1/swap", tt.body, &errResp)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, errResp.Error)
		})
	}
}

func TestGetPrice(t *testing.T) {
	server := newTestServer(t)

	var price PriceResponse
	status := getJSON(t, server.URL+"/api/v1/price/"+entities.WETH.Address.Hex(), &price)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "WETH", price.Symbol)
	assert.Equal(t, "USDC", price.Quote)
	assert.Equal(t, "2000", price.Price)
	assert.Equal(t, "MIXED[WETH -> USDC]", price.Route)

	var errResp ErrorResponse
	status = getJSON(t, server.URL+"/api/v1/price/ETH", &errResp)
	assert.Equal(t, http.StatusBadRequest, status, "native currency has no token price")
	assert.Equal(t, "invalid_token", errResp.Error)

	status = getJSON(t, server.URL+"/api/v1/price/"+entities.USDT.Address.Hex(), &errResp)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "no_route", errResp.Error)
}

func TestTokenResolver(t *testing.T) {
	r := NewTokenResolver(entities.DefaultRegistry(), entities.ChainMainnet)

	eth, err := r.Resolve("eth")
	require.NoError(t, err)
	assert.True(t, eth.IsNative())

	native, err := r.Resolve(NativeAddress.Hex())
	require.NoError(t, err)
	assert.True(t, native.IsNative())

	usdc, err := r.Resolve(strings.ToLower(entities.USDC.Address.Hex()))
	require.NoError(t, err)
	assert.True(t, usdc.Equals(entities.USDC))

	unlisted, err := r.ResolveToken("0x00000000000000000000000000000000000000bb")
	require.NoError(t, err)
	assert.Equal(t, "UNKNOWN", unlisted.Symbol)
	assert.Equal(t, uint8(18), unlisted.Decimals)

	_, err = r.Resolve("")
	assert.Error(t, err)

	_, err = NewTokenResolver(entities.DefaultRegistry(), 424242).Resolve("ETH")
	assert.Error(t, err)
}
