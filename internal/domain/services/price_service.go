package services

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/bimakw/dex-router/internal/domain/entities"
	"github.com/bimakw/dex-router/internal/infrastructure/cache"
)

// priceDigits is the number of significant digits a price is rendered with
const priceDigits = 6

// TokenPrice is the mid price of the best route from Token into Quote
type TokenPrice struct {
	Token entities.Token
	Quote entities.Token
	Price string
	Route string
}

// PriceService prices tokens against a reference token (USDC by default)
type PriceService struct {
	router     *RouterService
	cache      cache.Cache
	cacheTTL   time.Duration
	quoteToken entities.Token
	logger     *slog.Logger
}

func NewPriceService(routerService *RouterService, c cache.Cache, cacheTTL time.Duration, logger *slog.Logger) *PriceService {
	return &PriceService{
		router:     routerService,
		cache:      c,
		cacheTTL:   cacheTTL,
		quoteToken: entities.USDC,
		logger:     logger,
	}
}

// GetTokenPrice quotes one whole token into the reference token and reports
// the mid price of the best route found
func (s *PriceService) GetTokenPrice(ctx context.Context, token entities.Token) (*TokenPrice, error) {
	if token.Equals(s.quoteToken) {
		return &TokenPrice{Token: token, Quote: s.quoteToken, Price: "1", Route: entities.SymbolOf(token)}, nil
	}

	key := cache.PriceCacheKey(token.Address)
	if s.cache != nil {
		if price, ok, err := s.cache.GetPrice(ctx, key); err == nil && ok {
			return &TokenPrice{Token: token, Quote: s.quoteToken, Price: price}, nil
		}
	}

	oneToken := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(token.Decimals)), nil)
	zero := int64(0)
	quote, err := s.router.GetQuote(ctx, QuoteRequest{
		CurrencyIn:  token,
		CurrencyOut: s.quoteToken,
		AmountIn:    oneToken,
		MaxResults:  1,
		SlippageBps: &zero,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to price %s: %w", token.Symbol, err)
	}

	route, err := quote.Best.Route()
	if err != nil {
		return nil, err
	}
	price := route.MidPrice().ToSignificant(priceDigits)

	if s.cache != nil {
		if err := s.cache.SetPrice(ctx, key, price, s.cacheTTL); err != nil {
			s.logger.Warn("price cache write failed", slog.String("key", key), slog.String("error", err.Error()))
		}
	}

	return &TokenPrice{Token: token, Quote: s.quoteToken, Price: price, Route: route.String()}, nil
}
