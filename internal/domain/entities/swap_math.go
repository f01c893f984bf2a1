package entities

import (
	"github.com/holiman/uint256"
)

var pipsDenominator = uint256.NewInt(1_000_000)

type swapStep struct {
	sqrtRatioNext *uint256.Int
	amountIn      *uint256.Int
	amountOut     *uint256.Int
	feeAmount     *uint256.Int
}

// computeSwapStep moves the price from current toward target within one
// range of constant liquidity. amountRemaining is the unsigned amount still
// to be swapped; exactIn says whether it is an input or an output amount.
func computeSwapStep(current, target, liquidity, amountRemaining *uint256.Int, exactIn bool, feePips uint64) (swapStep, error) {
	zeroForOne := !current.Lt(target)
	fee := uint256.NewInt(feePips)
	feeComplement := new(uint256.Int).Sub(pipsDenominator, fee)

	var (
		step swapStep
		err  error
	)
	if exactIn {
		lessFee := mulDiv(amountRemaining, feeComplement, pipsDenominator)
		if zeroForOne {
			step.amountIn = GetAmount0Delta(target, current, liquidity, true)
		} else {
			step.amountIn = GetAmount1Delta(current, target, liquidity, true)
		}
		if !lessFee.Lt(step.amountIn) {
			step.sqrtRatioNext = new(uint256.Int).Set(target)
		} else if step.sqrtRatioNext, err = nextSqrtPriceFromInput(current, liquidity, lessFee, zeroForOne); err != nil {
			return swapStep{}, err
		}
	} else {
		if zeroForOne {
			step.amountOut = GetAmount1Delta(target, current, liquidity, false)
		} else {
			step.amountOut = GetAmount0Delta(current, target, liquidity, false)
		}
		if !amountRemaining.Lt(step.amountOut) {
			step.sqrtRatioNext = new(uint256.Int).Set(target)
		} else if step.sqrtRatioNext, err = nextSqrtPriceFromOutput(current, liquidity, amountRemaining, zeroForOne); err != nil {
			return swapStep{}, err
		}
	}

	reachedTarget := target.Eq(step.sqrtRatioNext)
	if zeroForOne {
		if !(reachedTarget && exactIn) {
			step.amountIn = GetAmount0Delta(step.sqrtRatioNext, current, liquidity, true)
		}
		if !(reachedTarget && !exactIn) {
			step.amountOut = GetAmount1Delta(step.sqrtRatioNext, current, liquidity, false)
		}
	} else {
		if !(reachedTarget && exactIn) {
			step.amountIn = GetAmount1Delta(current, step.sqrtRatioNext, liquidity, true)
		}
		if !(reachedTarget && !exactIn) {
			step.amountOut = GetAmount0Delta(current, step.sqrtRatioNext, liquidity, false)
		}
	}

	if !exactIn && step.amountOut.Gt(amountRemaining) {
		step.amountOut = new(uint256.Int).Set(amountRemaining)
	}

	if exactIn && !reachedTarget {
		// the remainder of the input is taken as fee
		step.feeAmount = new(uint256.Int).Sub(amountRemaining, step.amountIn)
	} else {
		step.feeAmount = mulDivRoundingUp(step.amountIn, fee, feeComplement)
	}
	return step, nil
}
