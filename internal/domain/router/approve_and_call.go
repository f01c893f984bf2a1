package router

import (
	"fmt"
	"math/big"

	"github.com/bimakw/dex-router/internal/domain/entities"
)

// EncodeApprove approves the position manager to spend the router's token
func EncodeApprove(enc Encoder, token entities.Currency, approval ApprovalType) ([]byte, error) {
	addr := token.Wrapped().Address
	switch approval {
	case ApprovalMax:
		return encode(enc, sigApproveMax, addr)
	case ApprovalMaxMinusOne:
		return encode(enc, sigApproveMaxMinusOne, addr)
	case ApprovalZeroThenMax:
		return encode(enc, sigApproveZeroThenMax, addr)
	case ApprovalZeroThenMaxMinusOne:
		return encode(enc, sigApproveZeroThenMaxMinusOne, addr)
	default:
		return nil, fmt.Errorf("%w: %d", ErrApprovalType, approval)
	}
}

// EncodeCallPositionManager forwards calldatas to the position manager,
// wrapped in its multicall when there is more than one
func EncodeCallPositionManager(enc Encoder, calldatas [][]byte) ([]byte, error) {
	switch len(calldatas) {
	case 0:
		return nil, ErrNullCalldata
	case 1:
		return encode(enc, sigCallPositionManager, calldatas[0])
	}
	inner, err := encode(enc, sigMulticall, calldatas)
	if err != nil {
		return nil, err
	}
	return encode(enc, sigCallPositionManager, inner)
}

// EncodeAddLiquidity mints or increases position. The minimums are the
// lower of the slippage-adjusted amounts and the amounts of minimal, the
// position the worst-case swap output would fund.
func EncodeAddLiquidity(enc Encoder, position, minimal *entities.Position, intent AddLiquidityIntent, slippageTolerance entities.Percent) ([]byte, error) {
	amount0Min, amount1Min, err := position.MintAmountsWithSlippage(slippageTolerance)
	if err != nil {
		return nil, err
	}
	if m := minimal.Amount0().Quotient(); m.Cmp(amount0Min) < 0 {
		amount0Min = m
	}
	if m := minimal.Amount1().Quotient(); m.Cmp(amount1Min) < 0 {
		amount1Min = m
	}

	pool := position.Pool
	switch in := intent.(type) {
	case MintIntent:
		return encode(enc, sigMint, MintParams{
			Token0:     pool.Token0().Address,
			Token1:     pool.Token1().Address,
			Fee:        big.NewInt(int64(pool.Fee())),
			TickLower:  big.NewInt(int64(position.TickLower)),
			TickUpper:  big.NewInt(int64(position.TickUpper)),
			Amount0Min: amount0Min,
			Amount1Min: amount1Min,
			Recipient:  in.Recipient,
		})
	case IncreaseIntent:
		return encode(enc, sigIncreaseLiquidity, IncreaseLiquidityParams{
			Token0:     pool.Token0().Address,
			Token1:     pool.Token1().Address,
			Amount0Min: amount0Min,
			Amount1Min: amount1Min,
			TokenID:    orZero(in.TokenID),
		})
	default:
		return nil, fmt.Errorf("unsupported add liquidity intent %T", intent)
	}
}
