package entities

import (
	"fmt"
	"math/big"
)

// Price is the ratio quote/base in raw units
type Price struct {
	BaseCurrency  Currency
	QuoteCurrency Currency
	value         Fraction
}

// NewPrice builds a price where denominator base units buy numerator quote units
func NewPrice(base, quote Currency, denominator, numerator *big.Int) Price {
	return Price{BaseCurrency: base, QuoteCurrency: quote, value: NewFraction(numerator, denominator)}
}

func (p Price) AsFraction() Fraction { return p.value }

func (p Price) Invert() Price {
	return Price{BaseCurrency: p.QuoteCurrency, QuoteCurrency: p.BaseCurrency, value: p.value.Invert()}
}

// Mul chains p with o. o's base must be p's quote.
func (p Price) Mul(o Price) (Price, error) {
	if !p.QuoteCurrency.Equals(o.BaseCurrency) {
		return Price{}, fmt.Errorf("price chain: %s does not continue %s", SymbolOf(o.BaseCurrency), SymbolOf(p.QuoteCurrency))
	}
	return Price{BaseCurrency: p.BaseCurrency, QuoteCurrency: o.QuoteCurrency, value: p.value.Mul(o.value)}, nil
}

// Quote converts an amount of the base currency; it panics on any other currency
func (p Price) Quote(amount CurrencyAmount) CurrencyAmount {
	if !amount.Currency.Equals(p.BaseCurrency) {
		panic(fmt.Sprintf("quote: amount in %s, price base %s", SymbolOf(amount.Currency), SymbolOf(p.BaseCurrency)))
	}
	r := p.value.Mul(amount.value)
	return FromFractionalAmount(p.QuoteCurrency, r.Numerator, r.Denominator)
}

func (p Price) scalar() Fraction {
	pow := func(d uint8) *big.Int { return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(d)), nil) }
	return Fraction{Numerator: pow(p.BaseCurrency.Wrapped().Decimals), Denominator: pow(p.QuoteCurrency.Wrapped().Decimals)}
}

// AdjustedForDecimals is the price in whole units of each currency
func (p Price) AdjustedForDecimals() Fraction {
	return p.value.Mul(p.scalar())
}

func (p Price) ToSignificant(digits int32) string {
	return p.AdjustedForDecimals().ToSignificant(digits)
}

func (p Price) ToFixed(places int32) string {
	return p.AdjustedForDecimals().ToFixed(places)
}
