package store

import (
	"context"
	"time"

	"github.com/hyunwoo/tradeideas/internal/contracts"
	"github.com/hyunwoo/tradeideas/pkg/logger"
	"github.com/hyunwoo/tradeideas/pkg/redis"
)

// fundamentalsMaxAge bounds how old a stored snapshot may be before it
// is refetched from upstream.
const fundamentalsMaxAge = 24 * time.Hour

// coverageSlackDays tolerates weekends and holidays at either edge of
// the stored range when deciding whether it covers a request.
const coverageSlackDays = 3

// priceStore is the slice of PriceRepository the price decorator needs.
type priceStore interface {
	DateBounds(ctx context.Context, symbol string) (earliest, latest time.Time, err error)
	GetRange(ctx context.Context, symbol string, from, to time.Time) (contracts.PriceSeries, error)
	SaveSeries(ctx context.Context, symbol string, series contracts.PriceSeries) error
}

// CachedPriceProvider serves price history from PostgreSQL when the
// stored range already covers the request, and falls through to the
// upstream provider otherwise. Fetched series are written back, so the
// store warms up as scans run. Cache failures degrade to upstream
// fetches, never to scan failures.
type CachedPriceProvider struct {
	upstream contracts.PriceProvider
	repo     priceStore
	logger   *logger.Logger
}

// NewCachedPriceProvider wraps an upstream price provider with the
// store.
func NewCachedPriceProvider(upstream contracts.PriceProvider, repo priceStore, log *logger.Logger) *CachedPriceProvider {
	return &CachedPriceProvider{
		upstream: upstream,
		repo:     repo,
		logger:   log,
	}
}

// FetchPrices implements contracts.PriceProvider.
func (p *CachedPriceProvider) FetchPrices(ctx context.Context, symbol string, from, to time.Time) (contracts.PriceSeries, error) {
	earliest, latest, err := p.repo.DateBounds(ctx, symbol)
	if err != nil {
		p.logger.WithError(err).WithField("symbol", symbol).Warn("Price store lookup failed, fetching upstream")
		return p.upstream.FetchPrices(ctx, symbol, from, to)
	}

	// Stored data covers the request only when BOTH edges are inside
	// the stored range, each with weekend slack. A narrow earlier fetch
	// must not satisfy a wider one: a truncated head would read as
	// insufficient history downstream.
	covered := !latest.IsZero() &&
		latest.After(to.AddDate(0, 0, -coverageSlackDays)) &&
		!earliest.After(from.AddDate(0, 0, coverageSlackDays))

	if covered {
		series, err := p.repo.GetRange(ctx, symbol, from, to)
		if err == nil && len(series) > 0 {
			return series, nil
		}
		if err != nil {
			p.logger.WithError(err).WithField("symbol", symbol).Warn("Price store read failed, fetching upstream")
		}
	}

	series, err := p.upstream.FetchPrices(ctx, symbol, from, to)
	if err != nil {
		return nil, err
	}

	if err := p.repo.SaveSeries(ctx, symbol, series); err != nil {
		p.logger.WithError(err).WithField("symbol", symbol).Warn("Price store write failed")
	}
	return series, nil
}

// CachedFundamentalsProvider layers Redis and PostgreSQL in front of an
// upstream fundamentals provider. Redis absorbs repeat lookups within a
// scan; the store survives restarts.
type CachedFundamentalsProvider struct {
	upstream contracts.FundamentalsProvider
	repo     *FundamentalsRepository
	cache    *redis.Cache
	logger   *logger.Logger
}

// NewCachedFundamentalsProvider wraps an upstream fundamentals
// provider. The cache may be nil when Redis is disabled.
func NewCachedFundamentalsProvider(upstream contracts.FundamentalsProvider, repo *FundamentalsRepository, cache *redis.Cache, log *logger.Logger) *CachedFundamentalsProvider {
	return &CachedFundamentalsProvider{
		upstream: upstream,
		repo:     repo,
		cache:    cache,
		logger:   log,
	}
}

// FetchFundamentals implements contracts.FundamentalsProvider.
func (p *CachedFundamentalsProvider) FetchFundamentals(ctx context.Context, symbol string) (contracts.FundamentalsSnapshot, error) {
	if p.cache != nil {
		var cached contracts.FundamentalsSnapshot
		hit, err := p.cache.Get(ctx, redis.FundamentalsKey(symbol), &cached)
		if err == nil && hit {
			return cached, nil
		}
	}

	if p.repo != nil {
		stored, fetchedAt, err := p.repo.Get(ctx, symbol)
		if err != nil {
			p.logger.WithError(err).WithField("symbol", symbol).Warn("Fundamentals store lookup failed")
		} else if stored != nil && time.Since(fetchedAt) < fundamentalsMaxAge {
			p.cacheSet(ctx, symbol, *stored)
			return *stored, nil
		}
	}

	snapshot, err := p.upstream.FetchFundamentals(ctx, symbol)
	if err != nil {
		return contracts.FundamentalsSnapshot{}, err
	}

	if p.repo != nil {
		if err := p.repo.Save(ctx, &snapshot); err != nil {
			p.logger.WithError(err).WithField("symbol", symbol).Warn("Fundamentals store write failed")
		}
	}
	p.cacheSet(ctx, symbol, snapshot)

	return snapshot, nil
}

func (p *CachedFundamentalsProvider) cacheSet(ctx context.Context, symbol string, snapshot contracts.FundamentalsSnapshot) {
	if p.cache == nil {
		return
	}
	if err := p.cache.Set(ctx, redis.FundamentalsKey(symbol), snapshot, redis.TTLMedium); err != nil {
		p.logger.WithError(err).WithField("symbol", symbol).Debug("Fundamentals cache write failed")
	}
}

// CachedConstituentsProvider memoizes scraped index membership lists in
// Redis. Scraping a list page is slow and the membership changes
// rarely, so a one hour TTL is plenty.
type CachedConstituentsProvider struct {
	upstream contracts.ConstituentsProvider
	cache    *redis.Cache
}

// NewCachedConstituentsProvider wraps an upstream constituents
// provider. The cache may be nil when Redis is disabled.
func NewCachedConstituentsProvider(upstream contracts.ConstituentsProvider, cache *redis.Cache) *CachedConstituentsProvider {
	return &CachedConstituentsProvider{upstream: upstream, cache: cache}
}

// Constituents implements contracts.ConstituentsProvider.
func (p *CachedConstituentsProvider) Constituents(ctx context.Context, index string) ([]contracts.Company, error) {
	if p.cache == nil {
		return p.upstream.Constituents(ctx, index)
	}

	var companies []contracts.Company
	err := p.cache.GetOrSet(ctx, redis.ConstituentsKey(index), &companies, redis.TTLLong, func() (interface{}, error) {
		return p.upstream.Constituents(ctx, index)
	})
	if err != nil {
		return nil, err
	}
	return companies, nil
}
