package handlers

import (
	"math/big"
	"net/http"
	"strconv"

	"github.com/bimakw/dex-router/internal/domain/entities"
	"github.com/bimakw/dex-router/internal/domain/services"
)

// Price impact levels that add a warning to the response
var (
	highPriceImpact     = entities.NewPercent(5, 100)
	veryHighPriceImpact = entities.NewPercent(15, 100)
)

// QuoteHandler handles quote requests
type QuoteHandler struct {
	routerService *services.RouterService
	tokens        *TokenResolver
}

// NewQuoteHandler creates a new quote handler
func NewQuoteHandler(routerService *services.RouterService, tokens *TokenResolver) *QuoteHandler {
	return &QuoteHandler{
		routerService: routerService,
		tokens:        tokens,
	}
}

// RouteHop is one venue of a route
type RouteHop struct {
	Protocol string `json:"protocol"`
	DEX      string `json:"dex"`
	Venue    string `json:"venue"`
	TokenIn  string `json:"tokenIn"`
	TokenOut string `json:"tokenOut"`
	Fee      string `json:"fee"`
}

// TradeSummary describes a ranked alternative to the best trade
type TradeSummary struct {
	Protocol         string     `json:"protocol"`
	Route            []RouteHop `json:"route"`
	AmountOut        string     `json:"amountOut"`
	AmountOutDecimal string     `json:"amountOutDecimal"`
	ExecutionPrice   string     `json:"executionPrice"`
	PriceImpact      string     `json:"priceImpact"`
}

// QuoteResponse represents a quote response. Amounts are raw integers,
// *Decimal fields are in whole token units.
type QuoteResponse struct {
	TokenIn          string         `json:"tokenIn"`
	TokenOut         string         `json:"tokenOut"`
	AmountIn         string         `json:"amountIn"`
	AmountOut        string         `json:"amountOut"`
	AmountOutDecimal string         `json:"amountOutDecimal"`
	MinAmountOut     string         `json:"minAmountOut"`
	Slippage         string         `json:"slippage"`
	Protocol         string         `json:"protocol"`
	Route            []RouteHop     `json:"route"`
	ExecutionPrice   string         `json:"executionPrice"`
	PriceImpact      string         `json:"priceImpact"`
	PriceWarning     string         `json:"priceWarning,omitempty"`
	Alternatives     []TradeSummary `json:"alternatives,omitempty"`
	VenuesSearched   int            `json:"venuesSearched"`
}

// quoteParams are the inputs shared by the quote and swap endpoints
type quoteParams struct {
	TokenIn     string
	TokenOut    string
	AmountIn    string
	MaxHops     int
	MaxResults  int
	SlippageBps *int64
}

// parse validates p into a service request, or returns an error code and message
func (p quoteParams) parse(tokens *TokenResolver) (services.QuoteRequest, string, string) {
	if p.TokenIn == "" || p.TokenOut == "" || p.AmountIn == "" {
		return services.QuoteRequest{}, "missing_params", "tokenIn, tokenOut, and amountIn are required"
	}
	in, err := tokens.Resolve(p.TokenIn)
	if err != nil {
		return services.QuoteRequest{}, "invalid_token_in", err.Error()
	}
	out, err := tokens.Resolve(p.TokenOut)
	if err != nil {
		return services.QuoteRequest{}, "invalid_token_out", err.Error()
	}
	amountIn, ok := new(big.Int).SetString(p.AmountIn, 10)
	if !ok || amountIn.Sign() <= 0 {
		return services.QuoteRequest{}, "invalid_amount", "amountIn must be a positive integer"
	}
	if p.MaxHops < 0 || p.MaxResults < 0 {
		return services.QuoteRequest{}, "invalid_limits", "maxHops and maxResults must be positive"
	}
	if p.SlippageBps != nil && (*p.SlippageBps < 0 || *p.SlippageBps > 10000) {
		return services.QuoteRequest{}, "invalid_slippage", "slippage must be 0-10000 basis points"
	}
	return services.QuoteRequest{
		CurrencyIn:  in,
		CurrencyOut: out,
		AmountIn:    amountIn,
		MaxHops:     p.MaxHops,
		MaxResults:  p.MaxResults,
		SlippageBps: p.SlippageBps,
	}, "", ""
}

// GetQuote handles GET /api/v1/quote
func (h *QuoteHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := quoteParams{
		TokenIn:  q.Get("tokenIn"),
		TokenOut: q.Get("tokenOut"),
		AmountIn: q.Get("amountIn"),
	}
	for name, dst := range map[string]*int{"maxHops": &params.MaxHops, "maxResults": &params.MaxResults} {
		if v := q.Get(name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				writeError(w, http.StatusBadRequest, "invalid_limits", name+" must be a positive integer")
				return
			}
			*dst = n
		}
	}
	if v := q.Get("slippageBps"); v != "" {
		bps, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_slippage", "slippage must be 0-10000 basis points")
			return
		}
		params.SlippageBps = &bps
	}

	req, code, msg := params.parse(h.tokens)
	if code != "" {
		writeError(w, http.StatusBadRequest, code, msg)
		return
	}

	quote, err := h.routerService.GetQuote(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, buildQuoteResponse(req, quote))
}

// buildQuoteResponse converts a Quote to a QuoteResponse
func buildQuoteResponse(req services.QuoteRequest, quote *services.Quote) QuoteResponse {
	best := summarize(quote.Best)

	var alternatives []TradeSummary
	for _, trade := range quote.Trades[1:] {
		alternatives = append(alternatives, summarize(trade))
	}

	impact := quote.Best.PriceImpact()
	warning := ""
	switch {
	case impact.GreaterThan(veryHighPriceImpact.Fraction):
		warning = "very high price impact"
	case impact.GreaterThan(highPriceImpact.Fraction):
		warning = "high price impact"
	}

	return QuoteResponse{
		TokenIn:          currencyID(req.CurrencyIn),
		TokenOut:         currencyID(req.CurrencyOut),
		AmountIn:         req.AmountIn.String(),
		AmountOut:        best.AmountOut,
		AmountOutDecimal: best.AmountOutDecimal,
		MinAmountOut:     quote.MinimumAmountOut.Quotient().String(),
		Slippage:         quote.Slippage.String(),
		Protocol:         best.Protocol,
		Route:            best.Route,
		ExecutionPrice:   best.ExecutionPrice,
		PriceImpact:      best.PriceImpact,
		PriceWarning:     warning,
		Alternatives:     alternatives,
		VenuesSearched:   quote.VenuesSearched,
	}
}

func summarize(trade *entities.Trade) TradeSummary {
	out := trade.OutputAmount()
	summary := TradeSummary{
		AmountOut:        out.Quotient().String(),
		AmountOutDecimal: out.ToExact(),
		ExecutionPrice:   trade.ExecutionPrice().ToSignificant(6),
		PriceImpact:      trade.PriceImpact().String(),
	}
	for _, swap := range trade.Swaps {
		summary.Protocol = string(swap.Route.Protocol)
		summary.Route = append(summary.Route, routeHops(swap.Route)...)
	}
	return summary
}

func routeHops(route *entities.Route) []RouteHop {
	hops := make([]RouteHop, len(route.Pools))
	for i, venue := range route.Pools {
		hop := RouteHop{
			Protocol: string(venue.Protocol()),
			Venue:    venue.Address().Hex(),
			TokenIn:  route.Path[i].Address.Hex(),
			TokenOut: route.Path[i+1].Address.Hex(),
		}
		switch v := venue.(type) {
		case *entities.Pair:
			hop.DEX = string(v.DEX())
			hop.Fee = entities.PercentFromBps(int64(v.Fee())).String()
		case *entities.Pool:
			hop.DEX = string(entities.DEXUniswapV3)
			hop.Fee = entities.NewPercent(int64(v.Fee()), 1_000_000).String()
		}
		hops[i] = hop
	}
	return hops
}
