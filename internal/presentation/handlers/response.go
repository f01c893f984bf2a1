package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/bimakw/dex-router/internal/domain/entities"
	"github.com/bimakw/dex-router/internal/domain/router"
	"github.com/bimakw/dex-router/internal/domain/services"
)

// NativeAddress is the placeholder wallets use for the chain's native currency
var NativeAddress = common.HexToAddress("0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE")

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: message,
	})
}

// writeServiceError maps service and domain errors onto HTTP statuses
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNoRoute):
		writeError(w, http.StatusNotFound, "no_route", err.Error())
	case errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrSameCurrency),
		errors.Is(err, entities.ErrInvalidSlippage),
		errors.Is(err, entities.ErrInvalidFee),
		errors.Is(err, entities.ErrInvalidMaxHops),
		errors.Is(err, entities.ErrInvalidMaxResults),
		errors.Is(err, router.ErrNonTokenPermit):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeError(w, http.StatusBadGateway, "upstream_error", err.Error())
	}
}

// TokenResolver turns request strings into currencies: "ETH" or the native
// placeholder address, a registered symbol or address, or any other address
// as an unlisted 18-decimal token
type TokenResolver struct {
	registry *entities.TokenRegistry
	chainID  int64
}

func NewTokenResolver(registry *entities.TokenRegistry, chainID int64) *TokenResolver {
	return &TokenResolver{registry: registry, chainID: chainID}
}

func (r *TokenResolver) Resolve(s string) (entities.Currency, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("token is required")
	}
	if strings.EqualFold(s, "ETH") || (common.IsHexAddress(s) && common.HexToAddress(s) == NativeAddress) {
		native, ok := entities.Ether(r.chainID)
		if !ok {
			return nil, fmt.Errorf("no native currency on chain %d", r.chainID)
		}
		return native, nil
	}
	if token, ok := r.registry.Resolve(s); ok {
		return token, nil
	}
	if !common.IsHexAddress(s) {
		return nil, fmt.Errorf("unknown token %q", s)
	}
	return entities.Token{
		ChainID:  r.chainID,
		Address:  common.HexToAddress(s),
		Symbol:   "UNKNOWN",
		Decimals: 18,
	}, nil
}

// ResolveToken is Resolve restricted to ERC20 tokens
func (r *TokenResolver) ResolveToken(s string) (entities.Token, error) {
	c, err := r.Resolve(s)
	if err != nil {
		return entities.Token{}, err
	}
	token, ok := c.(entities.Token)
	if !ok {
		return entities.Token{}, fmt.Errorf("%s is not a token", s)
	}
	return token, nil
}

// currencyID renders a currency the way Resolve accepts it back
func currencyID(c entities.Currency) string {
	if c.IsNative() {
		return NativeAddress.Hex()
	}
	return c.Wrapped().Address.Hex()
}
