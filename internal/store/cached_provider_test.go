package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyunwoo/tradeideas/internal/contracts"
	"github.com/hyunwoo/tradeideas/pkg/logger"
)

// memPriceStore is an in-memory priceStore keyed by symbol with
// date-ordered rows.
type memPriceStore struct {
	rows      map[string]contracts.PriceSeries
	boundsErr error
}

func newMemPriceStore() *memPriceStore {
	return &memPriceStore{rows: make(map[string]contracts.PriceSeries)}
}

func (m *memPriceStore) DateBounds(ctx context.Context, symbol string) (time.Time, time.Time, error) {
	if m.boundsErr != nil {
		return time.Time{}, time.Time{}, m.boundsErr
	}
	series := m.rows[symbol]
	if len(series) == 0 {
		return time.Time{}, time.Time{}, nil
	}
	return series[0].Date, series[len(series)-1].Date, nil
}

func (m *memPriceStore) GetRange(ctx context.Context, symbol string, from, to time.Time) (contracts.PriceSeries, error) {
	var out contracts.PriceSeries
	for _, p := range m.rows[symbol] {
		if !p.Date.Before(from) && !p.Date.After(to) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPriceStore) SaveSeries(ctx context.Context, symbol string, series contracts.PriceSeries) error {
	existing := make(map[string]bool, len(m.rows[symbol]))
	for _, p := range m.rows[symbol] {
		existing[p.Date.Format("2006-01-02")] = true
	}
	for _, p := range series {
		if !existing[p.Date.Format("2006-01-02")] {
			m.rows[symbol] = append(m.rows[symbol], p)
		}
	}
	sortSeries(m.rows[symbol])
	return nil
}

func sortSeries(series contracts.PriceSeries) {
	for i := 1; i < len(series); i++ {
		for j := i; j > 0 && series[j].Date.Before(series[j-1].Date); j-- {
			series[j], series[j-1] = series[j-1], series[j]
		}
	}
}

// countingPriceProvider serves a daily series over the requested range
// and counts fetches.
type countingPriceProvider struct {
	calls int
	err   error
}

func (c *countingPriceProvider) FetchPrices(ctx context.Context, symbol string, from, to time.Time) (contracts.PriceSeries, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	var series contracts.PriceSeries
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		series = append(series, contracts.PricePoint{Date: d, Close: 100})
	}
	return series, nil
}

func dailySeries(from, to time.Time) contracts.PriceSeries {
	var series contracts.PriceSeries
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		series = append(series, contracts.PricePoint{Date: d, Close: 100})
	}
	return series
}

func TestCachedPriceProvider_ServesCoveredRange(t *testing.T) {
	now := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	from := now.AddDate(0, 0, -380)

	repo := newMemPriceStore()
	require.NoError(t, repo.SaveSeries(context.Background(), "AAA", dailySeries(from, now)))

	upstream := &countingPriceProvider{}
	provider := NewCachedPriceProvider(upstream, repo, logger.NewNop())

	series, err := provider.FetchPrices(context.Background(), "AAA", from, now)
	require.NoError(t, err)
	assert.Len(t, series, 381)
	assert.Zero(t, upstream.calls, "covered range must not hit upstream")
}

func TestCachedPriceProvider_NarrowCacheDoesNotServeWideRequest(t *testing.T) {
	now := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	repo := newMemPriceStore()
	upstream := &countingPriceProvider{}
	provider := NewCachedPriceProvider(upstream, repo, logger.NewNop())
	ctx := context.Background()

	// A performance-study sized fetch warms the store with 90 days.
	narrow, err := provider.FetchPrices(ctx, "AAA", now.AddDate(0, 0, -90), now)
	require.NoError(t, err)
	assert.Len(t, narrow, 91)
	require.Equal(t, 1, upstream.calls)

	// A cross scan needs the full lookback-plus-warmup window. The
	// stored head is 290 days short, so the store must not answer
	// even though its newest row is fresh.
	wideFrom := now.AddDate(0, 0, -380)
	wide, err := provider.FetchPrices(ctx, "AAA", wideFrom, now)
	require.NoError(t, err)
	assert.Len(t, wide, 381, "full history, not the truncated cached slice")
	assert.Equal(t, 2, upstream.calls)

	// The wide fetch back-fills the store; a repeat is served locally.
	repeat, err := provider.FetchPrices(ctx, "AAA", wideFrom, now)
	require.NoError(t, err)
	assert.Len(t, repeat, 381)
	assert.Equal(t, 2, upstream.calls)
}

func TestCachedPriceProvider_StaleEndGoesUpstream(t *testing.T) {
	now := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	from := now.AddDate(0, 0, -380)

	repo := newMemPriceStore()
	// Stored history ends ten days ago.
	require.NoError(t, repo.SaveSeries(context.Background(), "AAA", dailySeries(from, now.AddDate(0, 0, -10))))

	upstream := &countingPriceProvider{}
	provider := NewCachedPriceProvider(upstream, repo, logger.NewNop())

	_, err := provider.FetchPrices(context.Background(), "AAA", from, now)
	require.NoError(t, err)
	assert.Equal(t, 1, upstream.calls)
}

func TestCachedPriceProvider_EdgeSlackToleratesWeekend(t *testing.T) {
	now := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	from := now.AddDate(0, 0, -380)

	repo := newMemPriceStore()
	// Trading rows start two days after the requested start (weekend)
	// and end two days before the requested end.
	require.NoError(t, repo.SaveSeries(context.Background(), "AAA",
		dailySeries(from.AddDate(0, 0, 2), now.AddDate(0, 0, -2))))

	upstream := &countingPriceProvider{}
	provider := NewCachedPriceProvider(upstream, repo, logger.NewNop())

	series, err := provider.FetchPrices(context.Background(), "AAA", from, now)
	require.NoError(t, err)
	assert.NotEmpty(t, series)
	assert.Zero(t, upstream.calls)
}

func TestCachedPriceProvider_StoreFailureDegradesToUpstream(t *testing.T) {
	now := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	repo := newMemPriceStore()
	repo.boundsErr = errors.New("connection refused")

	upstream := &countingPriceProvider{}
	provider := NewCachedPriceProvider(upstream, repo, logger.NewNop())

	series, err := provider.FetchPrices(context.Background(), "AAA", now.AddDate(0, 0, -30), now)
	require.NoError(t, err)
	assert.NotEmpty(t, series)
	assert.Equal(t, 1, upstream.calls)
}
