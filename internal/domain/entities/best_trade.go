package entities

import (
	"context"
	"errors"
	"fmt"
)

// TradeComparator orders trades best first: higher output, then lower input,
// then fewer hops. Both trades must share input and output currencies.
func TradeComparator(a, b *Trade) int {
	if c := b.OutputAmount().Cmp(a.OutputAmount()); c != 0 {
		return c
	}
	if c := a.InputAmount().Cmp(b.InputAmount()); c != 0 {
		return c
	}
	return a.totalPathLength() - b.totalPathLength()
}

// SortedInsert inserts item into items, which is kept sorted by cmp and
// bounded by maxSize. When the list is full the worst element is dropped and
// returned with evicted true; that element may be item itself.
func SortedInsert[T any](items []T, item T, maxSize int, cmp func(a, b T) int) (result []T, dropped T, evicted bool) {
	if maxSize <= 0 {
		return items, item, true
	}
	if len(items) == 0 {
		return append(items, item), dropped, false
	}
	full := len(items) >= maxSize
	if full && cmp(items[len(items)-1], item) <= 0 {
		return items, item, true
	}

	lo, hi := 0, len(items)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if cmp(items[mid], item) <= 0 {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	items = append(items, item)
	copy(items[lo+1:], items[lo:])
	items[lo] = item
	if full {
		dropped = items[len(items)-1]
		return items[:len(items)-1], dropped, true
	}
	return items, dropped, false
}

// BestTradeOptions bounds the exact-input search
type BestTradeOptions struct {
	MaxNumResults int
	MaxHops       int
}

func DefaultBestTradeOptions() BestTradeOptions {
	return BestTradeOptions{MaxNumResults: 3, MaxHops: 3}
}

// BestTradeExactIn searches simple paths of at most MaxHops venues from
// amountIn's currency to currencyOut and returns up to MaxNumResults single
// route trades, best first. Venues are quoted one at a time in slice order.
func BestTradeExactIn(ctx context.Context, venues []Venue, amountIn CurrencyAmount, currencyOut Currency, opts BestTradeOptions) ([]*Trade, error) {
	if opts.MaxNumResults <= 0 {
		return nil, ErrInvalidMaxResults
	}
	return bestTradeExactIn(ctx, venues, amountIn, currencyOut, opts, nil, amountIn, nil)
}

func bestTradeExactIn(
	ctx context.Context,
	venues []Venue,
	currencyAmountIn CurrencyAmount,
	currencyOut Currency,
	opts BestTradeOptions,
	current []Venue,
	nextAmountIn CurrencyAmount,
	best []*Trade,
) ([]*Trade, error) {
	if len(venues) == 0 {
		return nil, ErrPoolsEmpty
	}
	if opts.MaxHops <= 0 {
		return nil, ErrInvalidMaxHops
	}

	amountIn := nextAmountIn.Wrapped()
	tokenIn := amountIn.Currency.Wrapped()
	tokenOut := currencyOut.Wrapped()

	for i, venue := range venues {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !venue.InvolvesToken(tokenIn) {
			continue
		}
		if pair, ok := venue.(*Pair); ok && pair.HasZeroReserve() {
			continue
		}

		amountOut, err := venue.GetOutputAmount(ctx, amountIn)
		if err != nil {
			if errors.Is(err, ErrInsufficientLiquidity) {
				continue
			}
			return nil, fmt.Errorf("quote %s: %w", venue.Address().Hex(), err)
		}

		path := append(append(make([]Venue, 0, len(current)+1), current...), venue)
		if amountOut.Currency.IsToken() && amountOut.Currency.Equals(tokenOut) {
			route, err := NewMixedRoute(path, currencyAmountIn.Currency, currencyOut)
			if err != nil {
				return nil, err
			}
			trade, err := TradeFromRoute(ctx, route, currencyAmountIn, ExactInput)
			if err != nil {
				return nil, err
			}
			best, _, _ = SortedInsert(best, trade, opts.MaxNumResults, TradeComparator)
		} else if opts.MaxHops > 1 && len(venues) > 1 {
			rest := append(append(make([]Venue, 0, len(venues)-1), venues[:i]...), venues[i+1:]...)
			next := BestTradeOptions{MaxNumResults: opts.MaxNumResults, MaxHops: opts.MaxHops - 1}
			if best, err = bestTradeExactIn(ctx, rest, currencyAmountIn, currencyOut, next, path, amountOut, best); err != nil {
				return nil, err
			}
		}
	}
	return best, nil
}
