package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bimakw/dex-router/internal/domain/entities"
	"github.com/bimakw/dex-router/internal/infrastructure/cache"
	"github.com/bimakw/dex-router/internal/infrastructure/dex"
)

// maxConcurrentFetches bounds the (token pair, DEX) fetches in flight
const maxConcurrentFetches = 8

// VenueLoader supplies the venues a search runs over
type VenueLoader interface {
	LoadVenues(ctx context.Context, tokens []entities.Token) ([]entities.Venue, error)
}

// PoolService loads venue snapshots for every pair of a token set from every
// configured DEX, through the snapshot cache
type PoolService struct {
	fetchers []dex.Fetcher
	cache    cache.Cache
	cacheTTL time.Duration
	logger   *slog.Logger
}

func NewPoolService(fetchers []dex.Fetcher, c cache.Cache, cacheTTL time.Duration, logger *slog.Logger) *PoolService {
	return &PoolService{
		fetchers: fetchers,
		cache:    c,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

type fetchJob struct {
	tokenA, tokenB entities.Token
	fetcher        dex.Fetcher
}

// LoadVenues fetches concurrently but returns venues in a fixed order: by
// token pair in input order, then by fetcher, then by the fetcher's own order.
// A DEX that fails is logged and skipped; only cancellation aborts the load.
func (s *PoolService) LoadVenues(ctx context.Context, tokens []entities.Token) ([]entities.Venue, error) {
	tokens = uniqueTokens(tokens)

	var jobs []fetchJob
	for i := range tokens {
		for j := i + 1; j < len(tokens); j++ {
			if tokens[i].ChainID != tokens[j].ChainID {
				continue
			}
			for _, f := range s.fetchers {
				jobs = append(jobs, fetchJob{tokenA: tokens[i], tokenB: tokens[j], fetcher: f})
			}
		}
	}

	results := make([][]entities.Venue, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)
	for i, job := range jobs {
		g.Go(func() error {
			venues, err := s.load(gctx, job)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				s.logger.Warn("venue fetch failed",
					slog.String("dex", string(job.fetcher.DEXType())),
					slog.String("tokenA", job.tokenA.Symbol),
					slog.String("tokenB", job.tokenB.Symbol),
					slog.String("error", err.Error()),
				)
				return nil
			}
			results[i] = venues
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var venues []entities.Venue
	seen := make(map[string]bool)
	for _, batch := range results {
		for _, v := range batch {
			key := string(v.Protocol()) + v.Address().Hex()
			if seen[key] {
				continue
			}
			seen[key] = true
			venues = append(venues, v)
		}
	}

	s.logger.Debug("venues loaded",
		slog.Int("tokens", len(tokens)),
		slog.Int("jobs", len(jobs)),
		slog.Int("venues", len(venues)),
	)
	return venues, nil
}

func (s *PoolService) load(ctx context.Context, job fetchJob) ([]entities.Venue, error) {
	key := cache.SnapshotCacheKey(job.fetcher.DEXType(), job.tokenA.Address, job.tokenB.Address)

	var snapshots []dex.Snapshot
	hit := false
	if s.cache != nil {
		cached, ok, err := s.cache.GetSnapshots(ctx, key)
		if err != nil {
			s.logger.Warn("snapshot cache read failed", slog.String("key", key), slog.String("error", err.Error()))
		}
		snapshots, hit = cached, ok
	}

	if !hit {
		fetched, err := job.fetcher.FetchSnapshots(ctx, job.tokenA, job.tokenB)
		if err != nil {
			return nil, err
		}
		snapshots = fetched
		if s.cache != nil {
			if err := s.cache.SetSnapshots(ctx, key, snapshots, s.cacheTTL); err != nil {
				s.logger.Warn("snapshot cache write failed", slog.String("key", key), slog.String("error", err.Error()))
			}
		}
	}

	venues := make([]entities.Venue, 0, len(snapshots))
	for _, snapshot := range snapshots {
		venue, err := snapshot.Venue(job.tokenA, job.tokenB)
		if err != nil {
			s.logger.Warn("skipping venue",
				slog.String("address", snapshot.Address.Hex()),
				slog.String("error", err.Error()),
			)
			continue
		}
		venues = append(venues, venue)
	}
	return venues, nil
}

func uniqueTokens(tokens []entities.Token) []entities.Token {
	out := make([]entities.Token, 0, len(tokens))
	for _, t := range tokens {
		dup := false
		for _, o := range out {
			if o.Equals(t) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, t)
		}
	}
	return out
}
