package entities

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Fraction is an exact rational number. Operations never mutate their receiver.
type Fraction struct {
	Numerator   *big.Int
	Denominator *big.Int
}

// NewFraction builds num/den. A nil denominator means 1.
func NewFraction(num, den *big.Int) Fraction {
	if den == nil {
		den = big.NewInt(1)
	}
	return Fraction{Numerator: new(big.Int).Set(num), Denominator: new(big.Int).Set(den)}
}

func NewFractionInt(num, den int64) Fraction {
	return Fraction{Numerator: big.NewInt(num), Denominator: big.NewInt(den)}
}

// Quotient is the integer part, truncated toward zero
func (f Fraction) Quotient() *big.Int {
	return new(big.Int).Quo(f.Numerator, f.Denominator)
}

func (f Fraction) Remainder() Fraction {
	return Fraction{Numerator: new(big.Int).Rem(f.Numerator, f.Denominator), Denominator: new(big.Int).Set(f.Denominator)}
}

func (f Fraction) Invert() Fraction {
	return Fraction{Numerator: new(big.Int).Set(f.Denominator), Denominator: new(big.Int).Set(f.Numerator)}
}

func (f Fraction) Add(o Fraction) Fraction {
	if f.Denominator.Cmp(o.Denominator) == 0 {
		return Fraction{Numerator: new(big.Int).Add(f.Numerator, o.Numerator), Denominator: new(big.Int).Set(f.Denominator)}
	}
	num := new(big.Int).Mul(f.Numerator, o.Denominator)
	num.Add(num, new(big.Int).Mul(o.Numerator, f.Denominator))
	return Fraction{Numerator: num, Denominator: new(big.Int).Mul(f.Denominator, o.Denominator)}
}

func (f Fraction) Sub(o Fraction) Fraction {
	if f.Denominator.Cmp(o.Denominator) == 0 {
		return Fraction{Numerator: new(big.Int).Sub(f.Numerator, o.Numerator), Denominator: new(big.Int).Set(f.Denominator)}
	}
	num := new(big.Int).Mul(f.Numerator, o.Denominator)
	num.Sub(num, new(big.Int).Mul(o.Numerator, f.Denominator))
	return Fraction{Numerator: num, Denominator: new(big.Int).Mul(f.Denominator, o.Denominator)}
}

func (f Fraction) Mul(o Fraction) Fraction {
	return Fraction{
		Numerator:   new(big.Int).Mul(f.Numerator, o.Numerator),
		Denominator: new(big.Int).Mul(f.Denominator, o.Denominator),
	}
}

func (f Fraction) Div(o Fraction) Fraction {
	return Fraction{
		Numerator:   new(big.Int).Mul(f.Numerator, o.Denominator),
		Denominator: new(big.Int).Mul(f.Denominator, o.Numerator),
	}
}

// Cmp returns -1, 0 or +1. Denominators are assumed positive.
func (f Fraction) Cmp(o Fraction) int {
	l := new(big.Int).Mul(f.Numerator, o.Denominator)
	r := new(big.Int).Mul(o.Numerator, f.Denominator)
	return l.Cmp(r)
}

func (f Fraction) LessThan(o Fraction) bool    { return f.Cmp(o) < 0 }
func (f Fraction) EqualTo(o Fraction) bool     { return f.Cmp(o) == 0 }
func (f Fraction) GreaterThan(o Fraction) bool { return f.Cmp(o) > 0 }

func (f Fraction) IsZero() bool { return f.Numerator.Sign() == 0 }

// Decimal converts to a decimal rounded half-up at places
func (f Fraction) Decimal(places int32) decimal.Decimal {
	return decimal.NewFromBigInt(f.Numerator, 0).DivRound(decimal.NewFromBigInt(f.Denominator, 0), places)
}

func (f Fraction) ToFixed(places int32) string {
	return f.Decimal(places).StringFixed(places)
}

// ToSignificant renders f rounded to the given number of significant digits
func (f Fraction) ToSignificant(digits int32) string {
	d := f.Decimal(digits + 36)
	if d.IsZero() {
		return "0"
	}
	abs := d.Abs()
	magnitude := int32(abs.NumDigits()) + abs.Exponent() - 1
	return d.Round(digits - 1 - magnitude).String()
}

var (
	one       = big.NewInt(1)
	fracOne   = NewFractionInt(1, 1)
	basisBase = big.NewInt(10000)
)
