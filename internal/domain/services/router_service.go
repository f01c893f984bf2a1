package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/bimakw/dex-router/internal/domain/entities"
	"github.com/bimakw/dex-router/internal/domain/router"
)

var (
	ErrNoRoute       = errors.New("no valid route found")
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrSameCurrency  = errors.New("input and output currency are the same")
)

// RouterConfig holds the search bounds and calldata defaults of RouterService
type RouterConfig struct {
	MaxHops            int
	MaxResults         int
	DefaultSlippageBps int64
	DeadlineWindow     time.Duration
	// BaseTokens are offered to the search as intermediate hops
	BaseTokens []entities.Token
}

// QuoteRequest asks for the best exact-input trades. Zero MaxHops and
// MaxResults and a nil SlippageBps fall back to the configured defaults.
type QuoteRequest struct {
	CurrencyIn  entities.Currency
	CurrencyOut entities.Currency
	AmountIn    *big.Int
	MaxHops     int
	MaxResults  int
	SlippageBps *int64
}

// Quote is the ranked search result, best trade first
type Quote struct {
	Trades           []*entities.Trade
	Best             *entities.Trade
	Slippage         entities.Percent
	MinimumAmountOut entities.CurrencyAmount
	VenuesSearched   int
}

// SwapRequest extends a quote with what the router calldata needs
type SwapRequest struct {
	QuoteRequest
	Recipient    *common.Address
	Deadline     *big.Int
	FeeBps       int64
	FeeRecipient common.Address
}

// Swap is a quote plus the multicall that executes its best trade
type Swap struct {
	Quote      *Quote
	Deadline   *big.Int
	Parameters *router.MethodParameters
}

// RouterService finds routes over the loaded venues and compiles them into
// swap router calldata
type RouterService struct {
	venues VenueLoader
	router *router.SwapRouter
	cfg    RouterConfig
	now    func() time.Time
	logger *slog.Logger
}

func NewRouterService(venues VenueLoader, swapRouter *router.SwapRouter, cfg RouterConfig, logger *slog.Logger) *RouterService {
	return &RouterService{
		venues: venues,
		router: swapRouter,
		cfg:    cfg,
		now:    time.Now,
		logger: logger,
	}
}

// GetQuote loads the venues between the two currencies and the base tokens
// and runs the exact-input search over them
func (s *RouterService) GetQuote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	if req.AmountIn == nil || req.AmountIn.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	if req.CurrencyIn.Wrapped().Equals(req.CurrencyOut.Wrapped()) {
		return nil, ErrSameCurrency
	}

	slippageBps := s.cfg.DefaultSlippageBps
	if req.SlippageBps != nil {
		slippageBps = *req.SlippageBps
	}
	slippage := entities.PercentFromBps(slippageBps)
	if slippage.IsNegative() {
		return nil, entities.ErrInvalidSlippage
	}

	opts := entities.BestTradeOptions{MaxHops: s.cfg.MaxHops, MaxNumResults: s.cfg.MaxResults}
	if req.MaxHops > 0 {
		opts.MaxHops = req.MaxHops
	}
	if req.MaxResults > 0 {
		opts.MaxNumResults = req.MaxResults
	}

	tokens := append([]entities.Token{req.CurrencyIn.Wrapped(), req.CurrencyOut.Wrapped()}, s.cfg.BaseTokens...)
	venues, err := s.venues.LoadVenues(ctx, tokens)
	if err != nil {
		return nil, fmt.Errorf("failed to load venues: %w", err)
	}
	if len(venues) == 0 {
		return nil, ErrNoRoute
	}

	trades, err := entities.BestTradeExactIn(ctx, venues, entities.FromRawAmount(req.CurrencyIn, req.AmountIn), req.CurrencyOut, opts)
	if err != nil {
		return nil, fmt.Errorf("route search failed: %w", err)
	}
	if len(trades) == 0 {
		return nil, ErrNoRoute
	}

	best := trades[0]
	minOut, err := best.MinimumAmountOut(slippage)
	if err != nil {
		return nil, err
	}

	s.logger.Info("quote",
		slog.String("in", entities.SymbolOf(req.CurrencyIn)),
		slog.String("out", entities.SymbolOf(req.CurrencyOut)),
		slog.String("amountIn", req.AmountIn.String()),
		slog.String("amountOut", best.OutputAmount().Quotient().String()),
		slog.Int("venues", len(venues)),
		slog.Int("trades", len(trades)),
	)

	return &Quote{
		Trades:           trades,
		Best:             best,
		Slippage:         slippage,
		MinimumAmountOut: minOut,
		VenuesSearched:   len(venues),
	}, nil
}

// BuildSwap quotes and compiles the best trade into one multicall guarded by
// a deadline. Without an explicit deadline the configured window from now is used.
func (s *RouterService) BuildSwap(ctx context.Context, req SwapRequest) (*Swap, error) {
	quote, err := s.GetQuote(ctx, req.QuoteRequest)
	if err != nil {
		return nil, err
	}

	deadline := req.Deadline
	if deadline == nil {
		deadline = big.NewInt(s.now().Add(s.cfg.DeadlineWindow).Unix())
	}

	opts := router.SwapOptions{
		SlippageTolerance:           quote.Slippage,
		Recipient:                   req.Recipient,
		DeadlineOrPreviousBlockhash: router.Deadline(deadline),
	}
	if req.FeeBps != 0 {
		opts.Fee = &router.FeeOptions{
			Fee:       entities.PercentFromBps(req.FeeBps),
			Recipient: req.FeeRecipient,
		}
	}

	params, err := s.router.SwapCallParameters([]*entities.Trade{quote.Best}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to build calldata: %w", err)
	}

	return &Swap{
		Quote:      quote,
		Deadline:   deadline,
		Parameters: params,
	}, nil
}
