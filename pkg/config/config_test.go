package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8088", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 8, cfg.Scan.Workers)
	assert.Equal(t, 180, cfg.Scan.LookbackDays)
	assert.False(t, cfg.Redis.Enabled)

	// Published S&P 500 admission thresholds.
	assert.InDelta(t, 22.7e9, cfg.Criteria.MinMarketCap, 1)
	assert.InDelta(t, 50, cfg.Criteria.MinFloatPct, 1e-9)
	assert.InDelta(t, 250_000, cfg.Criteria.MinMonthlyVolume, 1e-9)
	assert.InDelta(t, 0.75, cfg.Criteria.MinLiquidityRatio, 1e-9)
	assert.Equal(t, "United States", cfg.Criteria.Domicile)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ENV", "production")
	t.Setenv("SCAN_WORKERS", "2")
	t.Setenv("CRITERIA_MIN_MARKET_CAP", "30e9")
	t.Setenv("DB_MAX_CONN_LIFETIME", "2h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, 2, cfg.Scan.Workers)
	assert.InDelta(t, 30e9, cfg.Criteria.MinMarketCap, 1)
	assert.Equal(t, 2*time.Hour, cfg.Database.MaxConnLifetime)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown env", "ENV", "sandbox"},
		{"zero workers", "SCAN_WORKERS", "0"},
		{"lookback below minimum", "SCAN_LOOKBACK_DAYS", "30"},
		{"float pct above 100", "CRITERIA_MIN_FLOAT_PCT", "120"},
		{"negative market cap", "CRITERIA_MIN_MARKET_CAP", "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("X_INT", "42")
	t.Setenv("X_FLOAT", "1.5")
	t.Setenv("X_BOOL", "true")
	t.Setenv("X_DUR", "90s")
	t.Setenv("X_BAD_INT", "not a number")

	assert.Equal(t, 42, getEnvAsInt("X_INT", 0))
	assert.Equal(t, 7, getEnvAsInt("X_MISSING", 7))
	assert.Equal(t, 7, getEnvAsInt("X_BAD_INT", 7), "unparsable values fall back")
	assert.InDelta(t, 1.5, getEnvAsFloat("X_FLOAT", 0), 1e-9)
	assert.True(t, getEnvAsBool("X_BOOL", false))
	assert.Equal(t, 90*time.Second, getEnvAsDuration("X_DUR", "1m"))
	assert.Equal(t, time.Minute, getEnvAsDuration("X_MISSING", "1m"))
}
