package router

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/bimakw/dex-router/internal/domain/entities"
)

// SwapRouter compiles trades into SwapRouter02 multicalls
type SwapRouter struct {
	enc Encoder
}

// NewSwapRouter creates a new swap router compiler
func NewSwapRouter(enc Encoder) *SwapRouter {
	return &SwapRouter{enc: enc}
}

// leg is one swap of a trade, encoded on its own
type leg struct {
	trade *entities.Trade
	swap  entities.Swap
}

// EncodedSwaps is the swap part of a router call plus the totals needed to
// finish it
type EncodedSwaps struct {
	Calldatas         [][]byte
	SampleTrade       *entities.Trade
	RouterMustCustody bool
	InputIsNative     bool
	OutputIsNative    bool
	TotalAmountIn     entities.CurrencyAmount
	MinimumAmountOut  entities.CurrencyAmount
	QuoteAmountOut    entities.CurrencyAmount
}

// withDefaults treats an unset slippage tolerance as zero
func withDefaults(opts SwapOptions) SwapOptions {
	if opts.SlippageTolerance.Numerator == nil || opts.SlippageTolerance.Denominator == nil {
		opts.SlippageTolerance = entities.ZeroPercent
	}
	return opts
}

func validateOptions(opts SwapOptions) error {
	if opts.SlippageTolerance.IsNegative() {
		return entities.ErrInvalidSlippage
	}
	if opts.Fee != nil && (opts.Fee.Fee.IsNegative() || !opts.Fee.Fee.LessThan(entities.OneHundredPercent.Fraction)) {
		return entities.ErrInvalidFee
	}
	return nil
}

// EncodeSwaps encodes every leg of trades. All trades must share input
// currency, output currency and trade type.
func (r *SwapRouter) EncodeSwaps(trades []*entities.Trade, opts SwapOptions, isSwapAndAdd bool) (*EncodedSwaps, error) {
	if len(trades) == 0 {
		return nil, ErrNoTrades
	}
	opts = withDefaults(opts)
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	sample := trades[0]
	inputCurrency := sample.InputAmount().Currency
	outputCurrency := sample.OutputAmount().Currency
	var legs []leg
	for _, t := range trades {
		if !t.InputAmount().Currency.Equals(inputCurrency) {
			return nil, ErrTokenInDiff
		}
		if !t.OutputAmount().Currency.Equals(outputCurrency) {
			return nil, ErrTokenOutDiff
		}
		if t.TradeType != sample.TradeType {
			return nil, ErrTradeTypeDiff
		}
		for _, s := range t.Swaps {
			legs = append(legs, leg{trade: t, swap: s})
		}
	}

	out := &EncodedSwaps{
		SampleTrade:    sample,
		InputIsNative:  inputCurrency.IsNative(),
		OutputIsNative: outputCurrency.IsNative(),
	}
	// many small exact-input legs are checked once against their sum
	aggregated := sample.TradeType == entities.ExactInput && len(legs) > 2
	out.RouterMustCustody = out.OutputIsNative || opts.Fee != nil || isSwapAndAdd || aggregated

	if opts.InputTokenPermit != nil {
		if !inputCurrency.IsToken() {
			return nil, ErrNonTokenPermit
		}
		data, err := EncodePermit(r.enc, inputCurrency.Wrapped(), *opts.InputTokenPermit)
		if err != nil {
			return nil, err
		}
		out.Calldatas = append(out.Calldatas, data)
	}

	recipient := MSGSender
	if opts.Recipient != nil {
		recipient = *opts.Recipient
	}
	if out.RouterMustCustody {
		recipient = AddressThis
	}

	out.TotalAmountIn = entities.FromRawAmount(inputCurrency, new(big.Int))
	out.MinimumAmountOut = entities.FromRawAmount(outputCurrency, new(big.Int))
	out.QuoteAmountOut = entities.FromRawAmount(outputCurrency, new(big.Int))
	for _, l := range legs {
		amountIn, err := l.trade.MaximumAmountInFor(opts.SlippageTolerance, l.swap.InputAmount)
		if err != nil {
			return nil, err
		}
		amountOut, err := l.trade.MinimumAmountOutFor(opts.SlippageTolerance, l.swap.OutputAmount)
		if err != nil {
			return nil, err
		}

		var calldatas [][]byte
		switch l.swap.Route.Protocol {
		case entities.ProtocolV2:
			calldatas, err = r.encodeV2Swap(l, amountIn.Quotient(), amountOut.Quotient(), recipient, aggregated)
		case entities.ProtocolV3:
			calldatas, err = r.encodeV3Swap(l, amountIn.Quotient(), amountOut.Quotient(), recipient, aggregated)
		case entities.ProtocolMixed:
			calldatas, err = r.encodeMixedRouteSwap(l, amountIn.Quotient(), amountOut.Quotient(), recipient, aggregated)
		default:
			err = fmt.Errorf("unsupported route protocol %q", l.swap.Route.Protocol)
		}
		if err != nil {
			return nil, err
		}
		out.Calldatas = append(out.Calldatas, calldatas...)

		out.TotalAmountIn = out.TotalAmountIn.Add(amountIn)
		out.MinimumAmountOut = out.MinimumAmountOut.Add(amountOut)
		out.QuoteAmountOut = out.QuoteAmountOut.Add(l.swap.OutputAmount)
	}
	return out, nil
}

func minimumOut(amountOut *big.Int, aggregated bool) *big.Int {
	if aggregated {
		return new(big.Int)
	}
	return amountOut
}

func addresses(tokens []entities.Token) []common.Address {
	out := make([]common.Address, len(tokens))
	for i, t := range tokens {
		out[i] = t.Address
	}
	return out
}

func (r *SwapRouter) encodeV2Swap(l leg, amountIn, amountOut *big.Int, recipient common.Address, aggregated bool) ([][]byte, error) {
	path := addresses(l.swap.Route.Path)
	var (
		data []byte
		err  error
	)
	if l.trade.TradeType == entities.ExactInput {
		data, err = encode(r.enc, sigSwapExactTokensForTokens, amountIn, minimumOut(amountOut, aggregated), path, recipient)
	} else {
		data, err = encode(r.enc, sigSwapTokensForExactTokens, amountOut, amountIn, path, recipient)
	}
	if err != nil {
		return nil, err
	}
	return [][]byte{data}, nil
}

func (r *SwapRouter) encodeV3Swap(l leg, amountIn, amountOut *big.Int, recipient common.Address, aggregated bool) ([][]byte, error) {
	route := l.swap.Route
	exactIn := l.trade.TradeType == entities.ExactInput

	var (
		data []byte
		err  error
	)
	if len(route.Pools) == 1 {
		pool, ok := route.Pools[0].(*entities.Pool)
		if !ok {
			return nil, entities.ErrProtocolMismatch
		}
		fee := big.NewInt(int64(pool.Fee()))
		if exactIn {
			data, err = encode(r.enc, sigExactInputSingle, ExactInputSingleParams{
				TokenIn:           route.Path[0].Address,
				TokenOut:          route.Path[1].Address,
				Fee:               fee,
				Recipient:         recipient,
				AmountIn:          amountIn,
				AmountOutMinimum:  minimumOut(amountOut, aggregated),
				SqrtPriceLimitX96: new(big.Int),
			})
		} else {
			data, err = encode(r.enc, sigExactOutputSingle, ExactOutputSingleParams{
				TokenIn:           route.Path[0].Address,
				TokenOut:          route.Path[1].Address,
				Fee:               fee,
				Recipient:         recipient,
				AmountOut:         amountOut,
				AmountInMaximum:   amountIn,
				SqrtPriceLimitX96: new(big.Int),
			})
		}
	} else {
		path := entities.EncodeRouteToPath(route, !exactIn)
		if exactIn {
			data, err = encode(r.enc, sigExactInput, ExactInputParams{
				Path:             path,
				Recipient:        recipient,
				AmountIn:         amountIn,
				AmountOutMinimum: minimumOut(amountOut, aggregated),
			})
		} else {
			data, err = encode(r.enc, sigExactOutput, ExactOutputParams{
				Path:            path,
				Recipient:       recipient,
				AmountOut:       amountOut,
				AmountInMaximum: amountIn,
			})
		}
	}
	if err != nil {
		return nil, err
	}
	return [][]byte{data}, nil
}

// encodeMixedRouteSwap encodes a mixed leg as one call per run of
// same-protocol venues. Only the first run spends the input and only the
// last run checks the output and pays the recipient.
func (r *SwapRouter) encodeMixedRouteSwap(l leg, amountIn, amountOut *big.Int, recipient common.Address, aggregated bool) ([][]byte, error) {
	if l.trade.TradeType != entities.ExactInput {
		return nil, entities.ErrTradeType
	}
	route := l.swap.Route

	if len(route.Pools) == 1 {
		if pool, ok := route.Pools[0].(*entities.Pool); ok {
			data, err := encode(r.enc, sigExactInputSingle, ExactInputSingleParams{
				TokenIn:           route.Path[0].Address,
				TokenOut:          route.Path[1].Address,
				Fee:               big.NewInt(int64(pool.Fee())),
				Recipient:         recipient,
				AmountIn:          amountIn,
				AmountOutMinimum:  minimumOut(amountOut, aggregated),
				SqrtPriceLimitX96: new(big.Int),
			})
			if err != nil {
				return nil, err
			}
			return [][]byte{data}, nil
		}
		data, err := encode(r.enc, sigSwapExactTokensForTokens, amountIn, minimumOut(amountOut, aggregated), addresses(route.Path), recipient)
		if err != nil {
			return nil, err
		}
		return [][]byte{data}, nil
	}

	sections := entities.PartitionMixedRouteByProtocol(route)
	calldatas := make([][]byte, 0, len(sections))
	input := route.Input.Wrapped()
	for i, section := range sections {
		output, err := entities.OutputOfPools(section, input)
		if err != nil {
			return nil, err
		}
		sub, err := entities.NewMixedRoute(section, input, output)
		if err != nil {
			return nil, err
		}

		in, minOut, to := new(big.Int), new(big.Int), AddressThis
		if i == 0 {
			in = amountIn
		}
		if i == len(sections)-1 {
			minOut, to = amountOut, recipient
		}

		var data []byte
		if section[0].Protocol() == entities.ProtocolV3 {
			data, err = encode(r.enc, sigExactInput, ExactInputParams{
				Path:             entities.EncodeMixedRouteToPath(sub),
				Recipient:        to,
				AmountIn:         in,
				AmountOutMinimum: minOut,
			})
		} else {
			data, err = encode(r.enc, sigSwapExactTokensForTokens, in, minOut, addresses(sub.Path), to)
		}
		if err != nil {
			return nil, err
		}
		calldatas = append(calldatas, data)
		input = output
	}
	return calldatas, nil
}

// riskOfPartialFill reports whether any trade moves the price far enough
// that part of the native input may be left unspent
func riskOfPartialFill(trades []*entities.Trade) bool {
	for _, t := range trades {
		if t.PriceImpact().GreaterThan(RefundETHPriceImpactThreshold.Fraction) {
			return true
		}
	}
	return false
}

// SwapCallParameters compiles trades into one multicall. Value is the ETH to
// attach, hex encoded.
func (r *SwapRouter) SwapCallParameters(trades []*entities.Trade, opts SwapOptions) (*MethodParameters, error) {
	encoded, err := r.EncodeSwaps(trades, opts, false)
	if err != nil {
		return nil, err
	}
	calldatas := encoded.Calldatas

	if encoded.RouterMustCustody {
		var data []byte
		minOut := encoded.MinimumAmountOut.Quotient()
		if encoded.OutputIsNative {
			data, err = EncodeUnwrapWETH9(r.enc, minOut, opts.Recipient, opts.Fee)
		} else {
			data, err = EncodeSweepToken(r.enc, encoded.SampleTrade.OutputAmount().Currency.Wrapped(), minOut, opts.Recipient, opts.Fee)
		}
		if err != nil {
			return nil, err
		}
		calldatas = append(calldatas, data)
	}

	if encoded.InputIsNative {
		if encoded.SampleTrade.TradeType == entities.ExactOutput || riskOfPartialFill(trades) {
			data, err := EncodeRefundETH(r.enc)
			if err != nil {
				return nil, err
			}
			calldatas = append(calldatas, data)
		}
	}

	calldata, err := EncodeMulticall(r.enc, calldatas, opts.DeadlineOrPreviousBlockhash)
	if err != nil {
		return nil, err
	}
	value := new(big.Int)
	if encoded.InputIsNative {
		value = encoded.TotalAmountIn.Quotient()
	}
	return &MethodParameters{Calldata: calldata, Value: toHex(value)}, nil
}

// SwapAndAddCallParameters swaps part of one token into the other, then adds
// both to position in the same transaction. Value is a decimal string.
func (r *SwapRouter) SwapAndAddCallParameters(trades []*entities.Trade, opts SwapAndAddOptions, position *entities.Position, intent AddLiquidityIntent, tokenInApproval, tokenOutApproval ApprovalType) (*MethodParameters, error) {
	opts.SwapOptions = withDefaults(opts.SwapOptions)
	encoded, err := r.EncodeSwaps(trades, opts.SwapOptions, true)
	if err != nil {
		return nil, err
	}
	calldatas := encoded.Calldatas
	push := func(data []byte, err error) error {
		if err != nil {
			return err
		}
		calldatas = append(calldatas, data)
		return nil
	}

	if opts.OutputTokenPermit != nil {
		if !encoded.QuoteAmountOut.Currency.IsToken() {
			return nil, ErrNonTokenPermitOutput
		}
		if err := push(EncodePermit(r.enc, encoded.QuoteAmountOut.Currency.Wrapped(), *opts.OutputTokenPermit)); err != nil {
			return nil, err
		}
	}

	pool := position.Pool
	swappedIn := encoded.TotalAmountIn.Currency.Wrapped()
	swappedOut := encoded.QuoteAmountOut.Currency.Wrapped()
	if !pool.InvolvesToken(swappedIn) || !pool.InvolvesToken(swappedOut) {
		return nil, ErrPositionMismatch
	}
	zeroForOne := pool.Token0().Address == swappedIn.Address
	positionAmountIn, positionAmountOut := positionAmounts(position, zeroForOne)

	chainID := encoded.SampleTrade.Swaps[0].Route.ChainID()
	tokenIn, tokenOut := positionAmountIn.Currency.Wrapped(), positionAmountOut.Currency.Wrapped()
	if encoded.InputIsNative || encoded.OutputIsNative {
		weth, ok := entities.WETH9[chainID]
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrUnknownChain, chainID)
		}
		if encoded.InputIsNative {
			tokenIn = weth
		}
		if encoded.OutputIsNative {
			tokenOut = weth
		}
	}

	// the swap may not produce all of the output side, pull or wrap the rest
	amountOutRemaining := positionAmountOut.Sub(encoded.QuoteAmountOut.Wrapped())
	if amountOutRemaining.Quotient().Sign() > 0 {
		if encoded.OutputIsNative {
			err = push(EncodeWrapETH(r.enc, amountOutRemaining.Quotient()))
		} else {
			err = push(EncodePull(r.enc, tokenOut, amountOutRemaining.Quotient()))
		}
		if err != nil {
			return nil, err
		}
	}

	if encoded.InputIsNative {
		err = push(EncodeWrapETH(r.enc, positionAmountIn.Quotient()))
	} else {
		err = push(EncodePull(r.enc, tokenIn, positionAmountIn.Quotient()))
	}
	if err != nil {
		return nil, err
	}

	if tokenInApproval != ApprovalNotRequired {
		if err := push(EncodeApprove(r.enc, tokenIn, tokenInApproval)); err != nil {
			return nil, err
		}
	}
	if tokenOutApproval != ApprovalNotRequired {
		if err := push(EncodeApprove(r.enc, tokenOut, tokenOutApproval)); err != nil {
			return nil, err
		}
	}

	// the position funded by the worst-case swap output
	amount0, amount1 := position.Amount0().Quotient(), encoded.MinimumAmountOut.Quotient()
	if !zeroForOne {
		amount0, amount1 = encoded.MinimumAmountOut.Quotient(), position.Amount1().Quotient()
	}
	minimal, err := entities.PositionFromAmounts(pool, position.TickLower, position.TickUpper, amount0, amount1, false)
	if err != nil {
		return nil, err
	}
	if err := push(EncodeAddLiquidity(r.enc, position, minimal, intent, opts.SlippageTolerance)); err != nil {
		return nil, err
	}

	zero := new(big.Int)
	if encoded.InputIsNative {
		err = push(EncodeUnwrapWETH9(r.enc, zero, nil, nil))
	} else {
		err = push(EncodeSweepToken(r.enc, tokenIn, zero, nil, nil))
	}
	if err != nil {
		return nil, err
	}
	if encoded.OutputIsNative {
		err = push(EncodeUnwrapWETH9(r.enc, zero, nil, nil))
	} else {
		err = push(EncodeSweepToken(r.enc, tokenOut, zero, nil, nil))
	}
	if err != nil {
		return nil, err
	}

	value := new(big.Int)
	switch {
	case encoded.InputIsNative:
		value = encoded.TotalAmountIn.Wrapped().Add(positionAmountIn.Wrapped()).Quotient()
	case encoded.OutputIsNative && amountOutRemaining.Quotient().Sign() > 0:
		value = amountOutRemaining.Quotient()
	}

	calldata, err := EncodeMulticall(r.enc, calldatas, opts.DeadlineOrPreviousBlockhash)
	if err != nil {
		return nil, err
	}
	return &MethodParameters{Calldata: calldata, Value: value.String()}, nil
}

// positionAmounts splits the position's mint amounts into the side the swap
// spends and the side it produces
func positionAmounts(position *entities.Position, zeroForOne bool) (in, out entities.CurrencyAmount) {
	amount0, amount1 := position.MintAmounts()
	a0 := entities.FromRawAmount(position.Pool.Token0(), amount0)
	a1 := entities.FromRawAmount(position.Pool.Token1(), amount1)
	if zeroForOne {
		return a0, a1
	}
	return a1, a0
}
