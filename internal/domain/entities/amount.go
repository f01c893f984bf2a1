package entities

import (
	"fmt"
	"math/big"
)

// CurrencyAmount is an exact amount of a currency in its smallest unit
type CurrencyAmount struct {
	Currency Currency
	value    Fraction
}

func FromRawAmount(c Currency, raw *big.Int) CurrencyAmount {
	return CurrencyAmount{Currency: c, value: NewFraction(raw, nil)}
}

func FromFractionalAmount(c Currency, num, den *big.Int) CurrencyAmount {
	return CurrencyAmount{Currency: c, value: NewFraction(num, den)}
}

func zeroAmount(c Currency) CurrencyAmount {
	return FromRawAmount(c, new(big.Int))
}

// Quotient is the integer raw amount
func (a CurrencyAmount) Quotient() *big.Int { return a.value.Quotient() }

func (a CurrencyAmount) AsFraction() Fraction { return a.value }

func (a CurrencyAmount) IsZero() bool { return a.value.IsZero() }

// Wrapped returns the same amount of the wrapped token for a native currency
func (a CurrencyAmount) Wrapped() CurrencyAmount {
	if a.Currency.IsToken() {
		return a
	}
	return CurrencyAmount{Currency: a.Currency.Wrapped(), value: a.value}
}

func (a CurrencyAmount) mustMatch(o CurrencyAmount) {
	if !a.Currency.Equals(o.Currency) {
		panic(fmt.Sprintf("currency mismatch: %s vs %s", SymbolOf(a.Currency), SymbolOf(o.Currency)))
	}
}

// Add panics when currencies differ, callers combine amounts of a validated trade
func (a CurrencyAmount) Add(o CurrencyAmount) CurrencyAmount {
	a.mustMatch(o)
	return CurrencyAmount{Currency: a.Currency, value: a.value.Add(o.value)}
}

func (a CurrencyAmount) Sub(o CurrencyAmount) CurrencyAmount {
	a.mustMatch(o)
	return CurrencyAmount{Currency: a.Currency, value: a.value.Sub(o.value)}
}

func (a CurrencyAmount) Mul(f Fraction) CurrencyAmount {
	return CurrencyAmount{Currency: a.Currency, value: a.value.Mul(f)}
}

func (a CurrencyAmount) Div(f Fraction) CurrencyAmount {
	return CurrencyAmount{Currency: a.Currency, value: a.value.Div(f)}
}

func (a CurrencyAmount) Cmp(o CurrencyAmount) int { return a.value.Cmp(o.value) }

func (a CurrencyAmount) LessThan(o CurrencyAmount) bool    { return a.Cmp(o) < 0 }
func (a CurrencyAmount) EqualTo(o CurrencyAmount) bool     { return a.Cmp(o) == 0 }
func (a CurrencyAmount) GreaterThan(o CurrencyAmount) bool { return a.Cmp(o) > 0 }

func (a CurrencyAmount) decimalScale() Fraction {
	return Fraction{Numerator: new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(a.Currency.Wrapped().Decimals)), nil), Denominator: big.NewInt(1)}
}

// ToExact renders the amount in whole units with every decimal kept
func (a CurrencyAmount) ToExact() string {
	d := a.value.Div(a.decimalScale()).Decimal(int32(a.Currency.Wrapped().Decimals))
	return d.String()
}

func (a CurrencyAmount) ToSignificant(digits int32) string {
	return a.value.Div(a.decimalScale()).ToSignificant(digits)
}

func (a CurrencyAmount) String() string {
	return a.ToExact() + " " + SymbolOf(a.Currency)
}
