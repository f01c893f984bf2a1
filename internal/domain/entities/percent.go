package entities

import "math/big"

// Percent is a Fraction rendered as a percentage
type Percent struct {
	Fraction
}

func NewPercent(num, den int64) Percent {
	return Percent{NewFractionInt(num, den)}
}

// PercentFromBps converts basis points, 50 bps = 0.5%
func PercentFromBps(bps int64) Percent {
	return NewPercent(bps, 10000)
}

func PercentFromFraction(f Fraction) Percent {
	return Percent{f}
}

var (
	ZeroPercent       = NewPercent(0, 1)
	OneHundredPercent = NewPercent(1, 1)
)

func (p Percent) Add(o Percent) Percent { return Percent{p.Fraction.Add(o.Fraction)} }
func (p Percent) Sub(o Percent) Percent { return Percent{p.Fraction.Sub(o.Fraction)} }
func (p Percent) Mul(o Percent) Percent { return Percent{p.Fraction.Mul(o.Fraction)} }
func (p Percent) Div(o Percent) Percent { return Percent{p.Fraction.Div(o.Fraction)} }

func (p Percent) IsNegative() bool {
	return p.Numerator.Sign()*p.Denominator.Sign() < 0
}

// ToFixed renders the value multiplied by 100
func (p Percent) ToFixed(places int32) string {
	return p.Fraction.Mul(Fraction{Numerator: big.NewInt(100), Denominator: big.NewInt(1)}).ToFixed(places)
}

func (p Percent) ToSignificant(digits int32) string {
	return p.Fraction.Mul(Fraction{Numerator: big.NewInt(100), Denominator: big.NewInt(1)}).ToSignificant(digits)
}

func (p Percent) String() string {
	return p.ToFixed(2) + "%"
}
