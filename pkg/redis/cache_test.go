package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyunwoo/tradeideas/pkg/config"
)

func disabledCache(t *testing.T) *Cache {
	t.Helper()
	client, err := New(&config.Config{})
	require.NoError(t, err)
	return NewCache(client, "test")
}

func TestCache_DisabledClientIsNoop(t *testing.T) {
	cache := disabledCache(t)
	ctx := context.Background()

	var out string
	found, err := cache.Get(ctx, "key", &out)
	assert.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, cache.Set(ctx, "key", "value", TTLShort))
	assert.NoError(t, cache.Delete(ctx, "key"))
}

func TestCache_GetOrSetCallsFnOnMiss(t *testing.T) {
	cache := disabledCache(t)

	var out []string
	calls := 0
	err := cache.GetOrSet(context.Background(), "constituents", &out, TTLLong, func() (interface{}, error) {
		calls++
		return []string{"AAPL", "MSFT"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{"AAPL", "MSFT"}, out)
}

func TestCache_GetOrSetPropagatesFnError(t *testing.T) {
	cache := disabledCache(t)

	wantErr := errors.New("upstream down")
	var out string
	err := cache.GetOrSet(context.Background(), "key", &out, TTLShort, func() (interface{}, error) {
		return nil, wantErr
	})
	assert.ErrorIs(t, err, wantErr)
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "fundamentals:AAPL", FundamentalsKey("AAPL"))
	assert.Equal(t, "constituents:sp500", ConstituentsKey("sp500"))
	assert.Equal(t, "prices:AAPL:2026-01-01:2026-06-30", PricesKey("AAPL", "2026-01-01", "2026-06-30"))
}
