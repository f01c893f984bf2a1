package router

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Encoder turns a full function signature and its arguments into calldata
// (4-byte selector followed by the ABI-encoded arguments).
//
// Tuple arguments are passed as the structs defined in this package,
// uint8 as uint8, every other integer width as *big.Int.
type Encoder interface {
	Encode(signature string, args ...any) ([]byte, error)
}

// Router sentinel addresses understood by SwapRouter02
var (
	MSGSender   = common.HexToAddress("0x0000000000000000000000000000000000000001")
	AddressThis = common.HexToAddress("0x0000000000000000000000000000000000000002")
)

// SwapRouter02 is the mainnet deployment the compiled multicalls target
var SwapRouter02 = common.HexToAddress("0x68b3465833fb72A70ecDF485E0e4C7bD8665Fc45")

var (
	ErrTokenInDiff          = errors.New("trades have different input currencies")
	ErrTokenOutDiff         = errors.New("trades have different output currencies")
	ErrTradeTypeDiff        = errors.New("trades have different trade types")
	ErrNonTokenPermit       = errors.New("input permit requires a token input")
	ErrNonTokenPermitOutput = errors.New("output permit requires a token output")
	ErrNoTrades             = errors.New("no trades to encode")
	ErrNullCalldata         = errors.New("no calldata to forward")
	ErrApprovalType         = errors.New("invalid approval type")
	ErrPositionMismatch     = errors.New("position pool does not hold the traded tokens")
	ErrUnknownChain         = errors.New("no wrapped native token for chain")
)

// MethodParameters is a ready-to-send router call
type MethodParameters struct {
	Calldata []byte
	Value    string
}

// Function signatures for every call the compiler emits
const (
	sigSwapExactTokensForTokens = "swapExactTokensForTokens(uint256,uint256,address[],address)"
	sigSwapTokensForExactTokens = "swapTokensForExactTokens(uint256,uint256,address[],address)"
	sigExactInputSingle         = "exactInputSingle((address,address,uint24,address,uint256,uint256,uint160))"
	sigExactOutputSingle        = "exactOutputSingle((address,address,uint24,address,uint256,uint256,uint160))"
	sigExactInput               = "exactInput((bytes,address,uint256,uint256))"
	sigExactOutput              = "exactOutput((bytes,address,uint256,uint256))"

	sigUnwrapWETH9                 = "unwrapWETH9(uint256)"
	sigUnwrapWETH9Recipient        = "unwrapWETH9(uint256,address)"
	sigUnwrapWETH9WithFee          = "unwrapWETH9WithFee(uint256,uint256,address)"
	sigUnwrapWETH9WithFeeRecipient = "unwrapWETH9WithFee(uint256,address,uint256,address)"
	sigSweepToken                  = "sweepToken(address,uint256)"
	sigSweepTokenRecipient         = "sweepToken(address,uint256,address)"
	sigSweepTokenWithFee           = "sweepTokenWithFee(address,uint256,uint256,address)"
	sigSweepTokenWithFeeRecipient  = "sweepTokenWithFee(address,uint256,address,uint256,address)"
	sigPull                        = "pull(address,uint256)"
	sigWrapETH                     = "wrapETH(uint256)"
	sigRefundETH                   = "refundETH()"
	sigSelfPermit                  = "selfPermit(address,uint256,uint256,uint8,bytes32,bytes32)"
	sigSelfPermitAllowed           = "selfPermitAllowed(address,uint256,uint256,uint8,bytes32,bytes32)"
	sigMulticall                   = "multicall(bytes[])"
	sigMulticallDeadline           = "multicall(uint256,bytes[])"
	sigMulticallBlockhash          = "multicall(bytes32,bytes[])"
	sigApproveMax                  = "approveMax(address)"
	sigApproveMaxMinusOne          = "approveMaxMinusOne(address)"
	sigApproveZeroThenMax          = "approveZeroThenMax(address)"
	sigApproveZeroThenMaxMinusOne  = "approveZeroThenMaxMinusOne(address)"
	sigCallPositionManager         = "callPositionManager(bytes)"
	sigMint                        = "mint((address,address,uint24,int24,int24,uint256,uint256,address))"
	sigIncreaseLiquidity           = "increaseLiquidity((address,address,uint256,uint256,uint256))"
)

// ExactInputSingleParams mirrors IV3SwapRouter.ExactInputSingleParams
type ExactInputSingleParams struct {
	TokenIn           common.Address
	TokenOut          common.Address
	Fee               *big.Int
	Recipient         common.Address
	AmountIn          *big.Int
	AmountOutMinimum  *big.Int
	SqrtPriceLimitX96 *big.Int
}

type ExactOutputSingleParams struct {
	TokenIn           common.Address
	TokenOut          common.Address
	Fee               *big.Int
	Recipient         common.Address
	AmountOut         *big.Int
	AmountInMaximum   *big.Int
	SqrtPriceLimitX96 *big.Int
}

type ExactInputParams struct {
	Path             []byte
	Recipient        common.Address
	AmountIn         *big.Int
	AmountOutMinimum *big.Int
}

type ExactOutputParams struct {
	Path            []byte
	Recipient       common.Address
	AmountOut       *big.Int
	AmountInMaximum *big.Int
}

// MintParams mirrors IApproveAndCall.MintParams
type MintParams struct {
	Token0     common.Address
	Token1     common.Address
	Fee        *big.Int
	TickLower  *big.Int
	TickUpper  *big.Int
	Amount0Min *big.Int
	Amount1Min *big.Int
	Recipient  common.Address
}

type IncreaseLiquidityParams struct {
	Token0     common.Address
	Token1     common.Address
	Amount0Min *big.Int
	Amount1Min *big.Int
	TokenID    *big.Int `abi:"tokenId"`
}

func encode(enc Encoder, signature string, args ...any) ([]byte, error) {
	data, err := enc.Encode(signature, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", signature, err)
	}
	return data, nil
}

// toHex renders a quantity as 0x-prefixed, even-length hex
func toHex(v *big.Int) string {
	h := v.Text(16)
	if len(h)%2 != 0 {
		h = "0" + h
	}
	return "0x" + h
}
