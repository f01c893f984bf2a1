package entities

import "errors"

// Route and trade construction errors. These are invariant violations of the
// caller's input and are never retried.
var (
	ErrPoolsEmpty             = errors.New("route has no pools")
	ErrChainMismatch          = errors.New("pools span more than one chain")
	ErrInputMismatch          = errors.New("first pool does not involve the input currency")
	ErrOutputMismatch         = errors.New("last pool does not involve the output currency")
	ErrPathDiscontinuity      = errors.New("route path is not continuous")
	ErrProtocolMismatch       = errors.New("pool type does not match route protocol")
	ErrNoRoutes               = errors.New("trade has no routes")
	ErrInputCurrencyMismatch  = errors.New("routes have different input currencies")
	ErrOutputCurrencyMismatch = errors.New("routes have different output currencies")
	ErrPoolsDuplicated        = errors.New("pool used by more than one route")
	ErrTradeType              = errors.New("mixed routes support exact input only")
	ErrAmountCurrency         = errors.New("amount currency does not match route")
	ErrMultipleRoutes         = errors.New("trade has more than one route")
	ErrInvalidSlippage        = errors.New("slippage tolerance must be non-negative")
	ErrInvalidFee             = errors.New("fee must be below 10000 bps")
	ErrInvalidMaxHops         = errors.New("maxHops must be positive")
	ErrInvalidMaxResults      = errors.New("maxNumResults must be positive")
)
