package cross

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyunwoo/tradeideas/internal/contracts"
	"github.com/hyunwoo/tradeideas/pkg/logger"
)

// seriesOf builds a daily series from closes, one day apart, ending at
// the returned time.
func seriesOf(closes []float64) (contracts.PriceSeries, time.Time) {
	end := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	series := make(contracts.PriceSeries, len(closes))
	for i := range closes {
		series[i] = contracts.PricePoint{
			Date:  end.AddDate(0, 0, i-len(closes)+1),
			Close: closes[i],
		}
	}
	return series, end
}

// flatThen returns n flat closes at 100 followed by the given tail.
func flatThen(n int, tail ...float64) []float64 {
	closes := make([]float64, 0, n+len(tail))
	for i := 0; i < n; i++ {
		closes = append(closes, 100)
	}
	return append(closes, tail...)
}

func TestDetector_GoldenCrossInWindow(t *testing.T) {
	// Flat history, then a jump held for three days. The 50 day average
	// overtakes the 200 day average on the first jump day, two days
	// before now.
	closes := flatThen(215, 200, 200, 200)
	series, now := seriesOf(closes)

	d := NewDetector(logger.NewNop())
	event, reason := d.Detect("AAA", series, now)

	require.Equal(t, contracts.SkipNone, reason)
	require.NotNil(t, event)

	assert.Equal(t, "AAA", event.Symbol)
	assert.Equal(t, contracts.GoldenCross, event.CrossType)
	assert.True(t, event.IsBullish())
	assert.Equal(t, now.AddDate(0, 0, -2), event.CrossDate)

	// Latest close and averages with three days at 200.
	assert.InDelta(t, 200, event.Price, 1e-9)
	assert.InDelta(t, (47*100+3*200)/50.0, event.MA50, 1e-9)
	assert.InDelta(t, (197*100+3*200)/200.0, event.MA200, 1e-9)

	// One large gain and no losses in the trailing window.
	require.NotNil(t, event.RSI)
	assert.InDelta(t, 100, *event.RSI, 1e-9)
}

func TestDetector_CrossOutsideWindowIgnored(t *testing.T) {
	// Jump held for eleven days: the cross happened ten days before now,
	// outside the seven day confirmation window.
	closes := flatThen(215)
	for i := 0; i < 11; i++ {
		closes = append(closes, 200)
	}
	series, now := seriesOf(closes)

	d := NewDetector(logger.NewNop())
	event, reason := d.Detect("BBB", series, now)

	assert.Equal(t, contracts.SkipNone, reason)
	assert.Nil(t, event, "stale cross must not be reported")
}

func TestDetector_GoldenTakesPrecedence(t *testing.T) {
	// A spike and collapse produce a golden cross followed by a death
	// cross inside the same window.
	closes := flatThen(210, 200, 1, 1)
	series, now := seriesOf(closes)

	d := NewDetector(logger.NewNop())
	event, reason := d.Detect("CCC", series, now)

	require.Equal(t, contracts.SkipNone, reason)
	require.NotNil(t, event)
	assert.Equal(t, contracts.GoldenCross, event.CrossType)
	assert.Equal(t, now.AddDate(0, 0, -2), event.CrossDate)
}

func TestDetector_InsufficientHistory(t *testing.T) {
	d := NewDetector(logger.NewNop())

	tests := []struct {
		name string
		days int
	}{
		{"below long window", 120},
		{"too few aligned samples", 205},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			series, now := seriesOf(flatThen(tt.days))
			event, reason := d.Detect("DDD", series, now)

			assert.Nil(t, event)
			assert.Equal(t, contracts.SkipInsufficientHistory, reason)
		})
	}
}

func TestDetector_FlatSeriesNoCross(t *testing.T) {
	series, now := seriesOf(flatThen(260))

	d := NewDetector(logger.NewNop())
	event, reason := d.Detect("EEE", series, now)

	assert.Nil(t, event)
	assert.Equal(t, contracts.SkipNone, reason)
}
