package entities

import (
	"context"
	"sync"
)

type TradeType int

const (
	ExactInput TradeType = iota
	ExactOutput
)

func (t TradeType) String() string {
	if t == ExactOutput {
		return "EXACT_OUTPUT"
	}
	return "EXACT_INPUT"
}

// Swap is one leg of a trade: a route and the amounts flowing through it
type Swap struct {
	Route        *Route
	InputAmount  CurrencyAmount
	OutputAmount CurrencyAmount
}

// Trade splits one input/output currency pair across one or more routes.
// Derived values are computed once and are safe for concurrent reads.
type Trade struct {
	Swaps     []Swap
	TradeType TradeType

	inputOnce   sync.Once
	inputAmount CurrencyAmount

	outputOnce   sync.Once
	outputAmount CurrencyAmount

	impactOnce  sync.Once
	priceImpact Percent
}

// NewTrade validates legs that were already simulated. Every leg and its
// amounts must use the same input and output currency, native or wrapped.
func NewTrade(swaps []Swap, tradeType TradeType) (*Trade, error) {
	if len(swaps) == 0 {
		return nil, ErrNoRoutes
	}
	in := swaps[0].Route.Input
	out := swaps[0].Route.Output
	seen := make(map[string]struct{})
	for _, s := range swaps {
		if !s.Route.Input.Equals(in) || !s.InputAmount.Currency.Equals(in) {
			return nil, ErrInputCurrencyMismatch
		}
		if !s.Route.Output.Equals(out) || !s.OutputAmount.Currency.Equals(out) {
			return nil, ErrOutputCurrencyMismatch
		}
		if s.Route.Protocol == ProtocolMixed && tradeType != ExactInput {
			return nil, ErrTradeType
		}
		for _, p := range s.Route.Pools {
			key := p.Address().Hex()
			if _, dup := seen[key]; dup {
				return nil, ErrPoolsDuplicated
			}
			seen[key] = struct{}{}
		}
	}
	return &Trade{Swaps: append([]Swap(nil), swaps...), TradeType: tradeType}, nil
}

// RouteAmount pairs a route with the amount to push through it
type RouteAmount struct {
	Route  *Route
	Amount CurrencyAmount
}

// TradeFromRoute simulates amount through route. For ExactInput amount is in
// the route input currency, for ExactOutput in the route output currency.
func TradeFromRoute(ctx context.Context, route *Route, amount CurrencyAmount, tradeType TradeType) (*Trade, error) {
	leg, err := simulate(ctx, route, amount, tradeType)
	if err != nil {
		return nil, err
	}
	return NewTrade([]Swap{leg}, tradeType)
}

// TradeFromRoutes simulates every leg and aggregates them into one trade
func TradeFromRoutes(ctx context.Context, routes []RouteAmount, tradeType TradeType) (*Trade, error) {
	swaps := make([]Swap, 0, len(routes))
	for _, ra := range routes {
		leg, err := simulate(ctx, ra.Route, ra.Amount, tradeType)
		if err != nil {
			return nil, err
		}
		swaps = append(swaps, leg)
	}
	return NewTrade(swaps, tradeType)
}

func simulate(ctx context.Context, route *Route, amount CurrencyAmount, tradeType TradeType) (Swap, error) {
	if tradeType == ExactOutput {
		if route.Protocol == ProtocolMixed {
			return Swap{}, ErrTradeType
		}
		if !amount.Currency.Equals(route.Output) {
			return Swap{}, ErrAmountCurrency
		}
		current := amount.Wrapped()
		for i := len(route.Pools) - 1; i >= 0; i-- {
			var err error
			if current, err = route.Pools[i].GetInputAmount(ctx, current); err != nil {
				return Swap{}, err
			}
		}
		f := current.AsFraction()
		return Swap{
			Route:        route,
			InputAmount:  FromFractionalAmount(route.Input, f.Numerator, f.Denominator),
			OutputAmount: amount,
		}, nil
	}

	if !amount.Currency.Equals(route.Input) {
		return Swap{}, ErrAmountCurrency
	}
	current := amount.Wrapped()
	for _, p := range route.Pools {
		var err error
		if current, err = p.GetOutputAmount(ctx, current); err != nil {
			return Swap{}, err
		}
	}
	f := current.AsFraction()
	return Swap{
		Route:        route,
		InputAmount:  amount,
		OutputAmount: FromFractionalAmount(route.Output, f.Numerator, f.Denominator),
	}, nil
}

// Route returns the only route of a single-leg trade
func (t *Trade) Route() (*Route, error) {
	if len(t.Swaps) != 1 {
		return nil, ErrMultipleRoutes
	}
	return t.Swaps[0].Route, nil
}

func (t *Trade) NumberOfSwaps() int { return len(t.Swaps) }

func (t *Trade) InputAmount() CurrencyAmount {
	t.inputOnce.Do(func() {
		total := zeroAmount(t.Swaps[0].InputAmount.Currency)
		for _, s := range t.Swaps {
			total = total.Add(s.InputAmount)
		}
		t.inputAmount = total
	})
	return t.inputAmount
}

func (t *Trade) OutputAmount() CurrencyAmount {
	t.outputOnce.Do(func() {
		total := zeroAmount(t.Swaps[0].OutputAmount.Currency)
		for _, s := range t.Swaps {
			total = total.Add(s.OutputAmount)
		}
		t.outputAmount = total
	})
	return t.outputAmount
}

// ExecutionPrice is the average price over all legs
func (t *Trade) ExecutionPrice() Price {
	in, out := t.InputAmount(), t.OutputAmount()
	return NewPrice(in.Currency, out.Currency, in.Quotient(), out.Quotient())
}

// InputTax is the sell tax of the input token, zero for native input
func (t *Trade) InputTax() Percent {
	c := t.InputAmount().Currency
	if c.IsNative() || c.Wrapped().SellFeeBps == 0 {
		return ZeroPercent
	}
	return PercentFromBps(int64(c.Wrapped().SellFeeBps))
}

// OutputTax is the buy tax of the output token, zero for native output
func (t *Trade) OutputTax() Percent {
	c := t.OutputAmount().Currency
	if c.IsNative() || c.Wrapped().BuyFeeBps == 0 {
		return ZeroPercent
	}
	return PercentFromBps(int64(c.Wrapped().BuyFeeBps))
}

// PriceImpact compares the output against the spot output at every leg's mid
// price, net of token taxes. Degenerate spot or a fully taxed output give zero.
func (t *Trade) PriceImpact() Percent {
	t.impactOnce.Do(func() {
		outputTax := t.OutputTax()
		if outputTax.EqualTo(OneHundredPercent.Fraction) {
			t.priceImpact = ZeroPercent
			return
		}
		inputRemaining := OneHundredPercent.Sub(t.InputTax()).Fraction

		spot := zeroAmount(t.OutputAmount().Currency)
		for _, s := range t.Swaps {
			postTaxIn := s.InputAmount.Mul(inputRemaining)
			spot = spot.Add(s.Route.MidPrice().Quote(postTaxIn))
		}
		if spot.IsZero() {
			t.priceImpact = ZeroPercent
			return
		}

		preTaxOut := t.OutputAmount().Div(OneHundredPercent.Sub(outputTax).Fraction)
		impact := spot.AsFraction().Sub(preTaxOut.AsFraction()).Div(spot.AsFraction())
		t.priceImpact = PercentFromFraction(impact)
	})
	return t.priceImpact
}

// MinimumAmountOut is the least the trade may return under slippageTolerance
func (t *Trade) MinimumAmountOut(slippageTolerance Percent) (CurrencyAmount, error) {
	return t.MinimumAmountOutFor(slippageTolerance, t.OutputAmount())
}

// MinimumAmountOutFor applies the trade's slippage rule to one leg's output
func (t *Trade) MinimumAmountOutFor(slippageTolerance Percent, amountOut CurrencyAmount) (CurrencyAmount, error) {
	if slippageTolerance.IsNegative() {
		return CurrencyAmount{}, ErrInvalidSlippage
	}
	if t.TradeType == ExactOutput {
		return amountOut, nil
	}
	adjusted := fracOne.Add(slippageTolerance.Fraction).Invert().Mul(NewFraction(amountOut.Quotient(), nil)).Quotient()
	return FromRawAmount(amountOut.Currency, adjusted), nil
}

// MaximumAmountIn is the most the trade may spend under slippageTolerance
func (t *Trade) MaximumAmountIn(slippageTolerance Percent) (CurrencyAmount, error) {
	return t.MaximumAmountInFor(slippageTolerance, t.InputAmount())
}

func (t *Trade) MaximumAmountInFor(slippageTolerance Percent, amountIn CurrencyAmount) (CurrencyAmount, error) {
	if slippageTolerance.IsNegative() {
		return CurrencyAmount{}, ErrInvalidSlippage
	}
	if t.TradeType == ExactInput {
		return amountIn, nil
	}
	adjusted := fracOne.Add(slippageTolerance.Fraction).Mul(NewFraction(amountIn.Quotient(), nil)).Quotient()
	return FromRawAmount(amountIn.Currency, adjusted), nil
}

// WorstExecutionPrice is the price if the trade fills at the slippage bound
func (t *Trade) WorstExecutionPrice(slippageTolerance Percent) (Price, error) {
	in, err := t.MaximumAmountIn(slippageTolerance)
	if err != nil {
		return Price{}, err
	}
	out, err := t.MinimumAmountOut(slippageTolerance)
	if err != nil {
		return Price{}, err
	}
	return NewPrice(in.Currency, out.Currency, in.Quotient(), out.Quotient()), nil
}

// totalPathLength sums the path lengths of every leg
func (t *Trade) totalPathLength() int {
	n := 0
	for _, s := range t.Swaps {
		n += len(s.Route.Path)
	}
	return n
}
