package router

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/bimakw/dex-router/internal/domain/entities"
)

// RefundETHPriceImpactThreshold is the price impact above which a native
// input swap may partially fill, so leftover ETH is refunded
var RefundETHPriceImpactThreshold = entities.NewPercent(50, 100)

// Validation guards a multicall with either a deadline or the hash of the
// previous block. The zero value applies no guard.
type Validation struct {
	deadline  *big.Int
	blockhash *common.Hash
}

// Deadline rejects the transaction once block.timestamp passes ts
func Deadline(ts *big.Int) Validation {
	return Validation{deadline: new(big.Int).Set(ts)}
}

// PreviousBlockhash pins the transaction to the block after h
func PreviousBlockhash(h common.Hash) Validation {
	return Validation{blockhash: &h}
}

func (v Validation) IsZero() bool { return v.deadline == nil && v.blockhash == nil }

// PermitOptions carries a signed permit. Nonce and Expiry set means the token
// uses the DAI-style allowed permit, otherwise Amount and Deadline apply.
type PermitOptions struct {
	V uint8
	R common.Hash
	S common.Hash

	Amount   *big.Int
	Deadline *big.Int

	Nonce  *big.Int
	Expiry *big.Int
}

func (p PermitOptions) allowed() bool { return p.Nonce != nil && p.Expiry != nil }

// FeeOptions takes a cut of the output before it reaches the recipient
type FeeOptions struct {
	Fee       entities.Percent
	Recipient common.Address
}

// SwapOptions controls how trades are compiled into router calls. A nil
// Recipient leaves the output with msg.sender.
type SwapOptions struct {
	SlippageTolerance           entities.Percent
	Recipient                   *common.Address
	DeadlineOrPreviousBlockhash Validation
	InputTokenPermit            *PermitOptions
	Fee                         *FeeOptions
}

// SwapAndAddOptions extends SwapOptions with a permit for the output token,
// which the router spends when it tops up the position
type SwapAndAddOptions struct {
	SwapOptions
	OutputTokenPermit *PermitOptions
}

// ApprovalType selects how the router approves the position manager
type ApprovalType int

const (
	ApprovalNotRequired ApprovalType = iota
	ApprovalMax
	ApprovalMaxMinusOne
	ApprovalZeroThenMax
	ApprovalZeroThenMaxMinusOne
)

// AddLiquidityIntent is either a new position or more liquidity for an
// existing one
type AddLiquidityIntent interface {
	isAddLiquidityIntent()
}

// MintIntent mints a new position NFT to Recipient
type MintIntent struct {
	Recipient common.Address
}

// IncreaseIntent tops up the position identified by TokenID
type IncreaseIntent struct {
	TokenID *big.Int
}

func (MintIntent) isAddLiquidityIntent()     {}
func (IncreaseIntent) isAddLiquidityIntent() {}
