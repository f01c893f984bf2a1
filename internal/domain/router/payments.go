package router

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/bimakw/dex-router/internal/domain/entities"
)

var basisPoints = entities.NewFractionInt(10000, 1)

func feeBips(fee entities.Percent) *big.Int {
	return fee.Fraction.Mul(basisPoints).Quotient()
}

// EncodeUnwrapWETH9 unwraps the router's WETH balance and sends ETH on.
// A nil recipient leaves the ETH with msg.sender.
func EncodeUnwrapWETH9(enc Encoder, amountMinimum *big.Int, recipient *common.Address, fee *FeeOptions) ([]byte, error) {
	switch {
	case recipient != nil && fee != nil:
		return encode(enc, sigUnwrapWETH9WithFeeRecipient, amountMinimum, *recipient, feeBips(fee.Fee), fee.Recipient)
	case recipient != nil:
		return encode(enc, sigUnwrapWETH9Recipient, amountMinimum, *recipient)
	case fee != nil:
		return encode(enc, sigUnwrapWETH9WithFee, amountMinimum, feeBips(fee.Fee), fee.Recipient)
	default:
		return encode(enc, sigUnwrapWETH9, amountMinimum)
	}
}

// EncodeSweepToken sends the router's whole balance of token on
func EncodeSweepToken(enc Encoder, token entities.Token, amountMinimum *big.Int, recipient *common.Address, fee *FeeOptions) ([]byte, error) {
	switch {
	case recipient != nil && fee != nil:
		return encode(enc, sigSweepTokenWithFeeRecipient, token.Address, amountMinimum, *recipient, feeBips(fee.Fee), fee.Recipient)
	case recipient != nil:
		return encode(enc, sigSweepTokenRecipient, token.Address, amountMinimum, *recipient)
	case fee != nil:
		return encode(enc, sigSweepTokenWithFee, token.Address, amountMinimum, feeBips(fee.Fee), fee.Recipient)
	default:
		return encode(enc, sigSweepToken, token.Address, amountMinimum)
	}
}

// EncodePull moves amount of token from msg.sender into the router
func EncodePull(enc Encoder, token entities.Token, amount *big.Int) ([]byte, error) {
	return encode(enc, sigPull, token.Address, amount)
}

// EncodeWrapETH wraps amount of the call value into WETH held by the router
func EncodeWrapETH(enc Encoder, amount *big.Int) ([]byte, error) {
	return encode(enc, sigWrapETH, amount)
}

func EncodeRefundETH(enc Encoder) ([]byte, error) {
	return encode(enc, sigRefundETH)
}
