package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bimakw/dex-router/internal/domain/entities"
	"github.com/bimakw/dex-router/internal/domain/services"
)

type PriceHandler struct {
	priceService *services.PriceService
	tokens       *TokenResolver
	now          func() time.Time
}

func NewPriceHandler(priceService *services.PriceService, tokens *TokenResolver) *PriceHandler {
	return &PriceHandler{
		priceService: priceService,
		tokens:       tokens,
		now:          time.Now,
	}
}

type PriceResponse struct {
	Token     string `json:"token"`
	Symbol    string `json:"symbol"`
	Quote     string `json:"quote"`
	Price     string `json:"price"`
	Route     string `json:"route,omitempty"`
	UpdatedAt string `json:"updatedAt"`
}

// GetPrice handles GET /api/v1/price/{tokenAddress}
func (h *PriceHandler) GetPrice(w http.ResponseWriter, r *http.Request) {
	token, err := h.tokens.ResolveToken(chi.URLParam(r, "tokenAddress"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_token", err.Error())
		return
	}

	price, err := h.priceService.GetTokenPrice(r.Context(), token)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, PriceResponse{
		Token:     token.Address.Hex(),
		Symbol:    entities.SymbolOf(token),
		Quote:     entities.SymbolOf(price.Quote),
		Price:     price.Price,
		Route:     price.Route,
		UpdatedAt: h.now().UTC().Format(time.RFC3339),
	})
}
