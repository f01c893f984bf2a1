package entities

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFractionArithmetic(t *testing.T) {
	half := NewFractionInt(1, 2)
	third := NewFractionInt(1, 3)

	assert.True(t, half.Add(third).EqualTo(NewFractionInt(5, 6)))
	assert.True(t, half.Sub(third).EqualTo(NewFractionInt(1, 6)))
	assert.True(t, half.Mul(third).EqualTo(NewFractionInt(1, 6)))
	assert.True(t, half.Div(third).EqualTo(NewFractionInt(3, 2)))
	assert.True(t, third.LessThan(half))
	assert.True(t, NewFractionInt(7, 2).Quotient().Cmp(big.NewInt(3)) == 0)
	assert.True(t, NewFractionInt(7, 2).Remainder().EqualTo(half))
	assert.True(t, half.Invert().EqualTo(NewFractionInt(2, 1)))
}

func TestFractionFormatting(t *testing.T) {
	tests := []struct {
		f     Fraction
		sig   int32
		fixed int32
		wantS string
		wantF string
	}{
		{NewFractionInt(1, 3), 4, 2, "0.3333", "0.33"},
		{NewFractionInt(2, 3), 2, 0, "0.67", "1"},
		{NewFractionInt(123456, 1), 3, 1, "123000", "123456.0"},
		{NewFractionInt(1, 800), 2, 5, "0.0013", "0.00125"},
		{NewFractionInt(0, 1), 3, 2, "0", "0.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.wantS, tt.f.ToSignificant(tt.sig))
		assert.Equal(t, tt.wantF, tt.f.ToFixed(tt.fixed))
	}
}

func TestCurrencyAmount(t *testing.T) {
	a := FromRawAmount(USDC, big.NewInt(1_500_000))
	b := FromRawAmount(USDC, big.NewInt(500_000))

	assert.Equal(t, "2", a.Add(b).ToExact())
	assert.Equal(t, "1", a.Sub(b).ToExact())
	assert.Equal(t, "1.5 USDC", a.String())
	assert.True(t, b.LessThan(a))

	assert.Panics(t, func() { a.Add(FromRawAmount(DAI, big.NewInt(1))) })

	eth := FromRawAmount(ether(), e18(2))
	assert.True(t, eth.Wrapped().Currency.Equals(WETH))
	assert.Equal(t, "2 ETH", eth.String())
}

func TestPriceQuote(t *testing.T) {
	price := NewPrice(WETH, USDC, e18(1), big.NewInt(2000_000000))
	out := price.Quote(FromRawAmount(WETH, e18(3)))
	assert.Equal(t, "6000", out.ToExact())
	assert.Equal(t, "2000", price.ToSignificant(5))
	assert.Equal(t, "0.0005", price.Invert().ToSignificant(5))

	daiPerUsdc := NewPrice(USDC, DAI, big.NewInt(1_000000), e18(1))
	chained, err := price.Mul(daiPerUsdc)
	require.NoError(t, err)
	assert.True(t, chained.QuoteCurrency.Equals(DAI))
	assert.Equal(t, "2000", chained.ToSignificant(5))

	_, err = price.Mul(price)
	assert.Error(t, err)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "0.50", PercentFromBps(50).ToFixed(2))
	assert.Equal(t, "0.50%", PercentFromBps(50).String())
	assert.True(t, NewPercent(-1, 100).IsNegative())
	assert.False(t, ZeroPercent.IsNegative())
}

func TestTokenEquality(t *testing.T) {
	renamed := USDC
	renamed.Symbol = "USDC.e"
	assert.True(t, USDC.Equals(renamed))
	assert.False(t, USDC.Equals(Token{ChainID: 10, Address: USDC.Address}))

	eth := ether()
	assert.False(t, eth.Equals(WETH))
	assert.False(t, WETH.Equals(eth))
	assert.True(t, eth.Wrapped().Equals(WETH))

	before, err := USDC.SortsBefore(WETH)
	require.NoError(t, err)
	assert.True(t, before)

	_, ok := Ether(999)
	assert.False(t, ok)
}

func TestTokenRegistryLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	data := `{"tokens":[
		{"address":"0x0000000000000000000000000000000000000abc","symbol":"TAX","name":"Taxed","decimals":9,"buyFeeBps":300,"sellFeeBps":500},
		{"chainId":10,"address":"0x4200000000000000000000000000000000000042","symbol":"OP","name":"Optimism","decimals":18}
	]}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	r := DefaultRegistry()
	require.NoError(t, r.LoadFromFile(path))
	assert.Equal(t, 6, r.Count())

	tax, ok := r.GetBySymbol("tax")
	require.True(t, ok)
	assert.Equal(t, uint32(500), tax.SellFeeBps)
	assert.Equal(t, ChainMainnet, tax.ChainID)

	op, ok := r.Resolve("0x4200000000000000000000000000000000000042")
	require.True(t, ok)
	assert.Equal(t, int64(10), op.ChainID)

	dai, ok := r.GetByAddress(common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F"))
	require.True(t, ok)
	assert.Equal(t, "DAI", dai.Symbol)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"tokens":[{"address":"nope","symbol":"X"}]}`), 0o600))
	assert.Error(t, r.LoadFromFile(bad))
}
