package handlers

import (
	"encoding/json"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/bimakw/dex-router/internal/domain/router"
	"github.com/bimakw/dex-router/internal/domain/services"
)

// SwapHandler compiles the best trade of a quote into router calldata
type SwapHandler struct {
	routerService *services.RouterService
	tokens        *TokenResolver
}

func NewSwapHandler(routerService *services.RouterService, tokens *TokenResolver) *SwapHandler {
	return &SwapHandler{
		routerService: routerService,
		tokens:        tokens,
	}
}

// SwapRequest is the body of POST /api/v1/swap. A missing recipient leaves
// output with the caller, a missing deadline uses the configured window.
type SwapRequest struct {
	TokenIn      string `json:"tokenIn"`
	TokenOut     string `json:"tokenOut"`
	AmountIn     string `json:"amountIn"`
	SlippageBps  *int64 `json:"slippageBps,omitempty"`
	MaxHops      int    `json:"maxHops,omitempty"`
	Recipient    string `json:"recipient,omitempty"`
	Deadline     string `json:"deadline,omitempty"`
	FeeBps       int64  `json:"feeBps,omitempty"`
	FeeRecipient string `json:"feeRecipient,omitempty"`
}

// SwapResponse is a transaction ready to sign
type SwapResponse struct {
	Quote    QuoteResponse `json:"quote"`
	To       string        `json:"to"`
	Calldata string        `json:"calldata"`
	Value    string        `json:"value"`
	Deadline string        `json:"deadline"`
}

// BuildSwap handles POST /api/v1/swap
func (h *SwapHandler) BuildSwap(w http.ResponseWriter, r *http.Request) {
	var body SwapRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "request body must be JSON")
		return
	}

	quoteReq, code, msg := quoteParams{
		TokenIn:     body.TokenIn,
		TokenOut:    body.TokenOut,
		AmountIn:    body.AmountIn,
		MaxHops:     body.MaxHops,
		MaxResults:  1,
		SlippageBps: body.SlippageBps,
	}.parse(h.tokens)
	if code != "" {
		writeError(w, http.StatusBadRequest, code, msg)
		return
	}

	req := services.SwapRequest{QuoteRequest: quoteReq, FeeBps: body.FeeBps}
	if body.Recipient != "" {
		if !common.IsHexAddress(body.Recipient) {
			writeError(w, http.StatusBadRequest, "invalid_recipient", "recipient must be an address")
			return
		}
		recipient := common.HexToAddress(body.Recipient)
		req.Recipient = &recipient
	}
	if body.Deadline != "" {
		deadline, ok := new(big.Int).SetString(body.Deadline, 10)
		if !ok || deadline.Sign() <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_deadline", "deadline must be a unix timestamp")
			return
		}
		req.Deadline = deadline
	}
	if body.FeeBps != 0 {
		if !common.IsHexAddress(body.FeeRecipient) {
			writeError(w, http.StatusBadRequest, "invalid_fee_recipient", "feeRecipient is required with feeBps")
			return
		}
		req.FeeRecipient = common.HexToAddress(body.FeeRecipient)
	}

	swap, err := h.routerService.BuildSwap(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, SwapResponse{
		Quote:    buildQuoteResponse(quoteReq, swap.Quote),
		To:       router.SwapRouter02.Hex(),
		Calldata: hexutil.Encode(swap.Parameters.Calldata),
		Value:    swap.Parameters.Value,
		Deadline: swap.Deadline.String(),
	})
}
