package entities

import (
	"context"
	"errors"
	"math/big"
	"sort"
)

var (
	ErrTicksUnsorted  = errors.New("ticks not sorted")
	ErrTickSpacing    = errors.New("tick not a multiple of spacing")
	ErrTickNetNonZero = errors.New("tick liquidity net does not sum to zero")
	ErrTickNotFound   = errors.New("tick not initialized")
)

// Tick is an initialized tick of a V3 pool
type Tick struct {
	Index          int      `json:"index"`
	LiquidityGross *big.Int `json:"liquidityGross"`
	LiquidityNet   *big.Int `json:"liquidityNet"`
}

// TickDataProvider serves initialized ticks to the swap loop. Implementations
// may load ticks lazily, hence the context.
type TickDataProvider interface {
	GetTick(ctx context.Context, tick int) (Tick, error)
	NextInitializedTickWithinOneWord(ctx context.Context, tick int, lte bool, tickSpacing int) (int, bool, error)
}

// TickList is an in-memory TickDataProvider over a sorted tick slice
type TickList struct {
	ticks []Tick
}

// NewTickList validates ordering, spacing and that net liquidity nets out to zero
func NewTickList(ticks []Tick, tickSpacing int) (*TickList, error) {
	sum := new(big.Int)
	for i, t := range ticks {
		if t.Index%tickSpacing != 0 {
			return nil, ErrTickSpacing
		}
		if i > 0 && ticks[i-1].Index >= t.Index {
			return nil, ErrTicksUnsorted
		}
		sum.Add(sum, t.LiquidityNet)
	}
	if sum.Sign() != 0 {
		return nil, ErrTickNetNonZero
	}
	return &TickList{ticks: append([]Tick(nil), ticks...)}, nil
}

func (l *TickList) Ticks() []Tick { return l.ticks }

func (l *TickList) GetTick(_ context.Context, index int) (Tick, error) {
	i := sort.Search(len(l.ticks), func(i int) bool { return l.ticks[i].Index >= index })
	if i == len(l.ticks) || l.ticks[i].Index != index {
		return Tick{}, ErrTickNotFound
	}
	return l.ticks[i], nil
}

// nextInitialized returns the nearest initialized tick at or below tick (lte)
// or strictly above it
func (l *TickList) nextInitialized(tick int, lte bool) int {
	// largest i with ticks[i].Index <= tick
	i := sort.Search(len(l.ticks), func(i int) bool { return l.ticks[i].Index > tick }) - 1
	if lte {
		return l.ticks[i].Index
	}
	return l.ticks[i+1].Index
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func (l *TickList) NextInitializedTickWithinOneWord(_ context.Context, tick int, lte bool, tickSpacing int) (int, bool, error) {
	compressed := floorDiv(tick, tickSpacing)
	if lte {
		wordPos := compressed >> 8
		minimum := (wordPos << 8) * tickSpacing
		if len(l.ticks) == 0 || tick < l.ticks[0].Index {
			return minimum, false, nil
		}
		index := l.nextInitialized(tick, true)
		next := max(minimum, index)
		return next, next == index, nil
	}
	wordPos := (compressed + 1) >> 8
	maximum := (((wordPos + 1) << 8) - 1) * tickSpacing
	if len(l.ticks) == 0 || tick >= l.ticks[len(l.ticks)-1].Index {
		return maximum, false, nil
	}
	index := l.nextInitialized(tick, false)
	next := min(maximum, index)
	return next, next == index, nil
}
