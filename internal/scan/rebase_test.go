package scan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyunwoo/tradeideas/internal/contracts"
)

func day(d int) time.Time {
	return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, d)
}

func pricesAt(days []int, closes []float64) contracts.PriceSeries {
	series := make(contracts.PriceSeries, len(days))
	for i := range days {
		series[i] = contracts.PricePoint{Date: day(days[i]), Close: closes[i]}
	}
	return series
}

func TestRebase_ExactAnchor(t *testing.T) {
	series := pricesAt([]int{8, 9, 10, 11, 12}, []float64{80, 90, 100, 110, 130})

	points, reason := Rebase(series, day(10))
	require.Equal(t, contracts.SkipNone, reason)
	require.Len(t, points, 5)

	anchor := points[2]
	assert.InDelta(t, 1.0, anchor.Rebased, 1e-9)
	assert.Equal(t, 0, anchor.DayOffset)

	assert.InDelta(t, 0.8, points[0].Rebased, 1e-9)
	assert.Equal(t, -2, points[0].DayOffset)
	assert.InDelta(t, 1.3, points[4].Rebased, 1e-9)
	assert.Equal(t, 2, points[4].DayOffset)
}

func TestRebase_WeekendAnnouncementSnapsToNearest(t *testing.T) {
	// Trading days around, announcement in a gap: nearest day anchors.
	series := pricesAt([]int{5, 6, 9, 10}, []float64{50, 60, 90, 100})

	points, reason := Rebase(series, day(8))
	require.Equal(t, contracts.SkipNone, reason)

	// day(9) is one day away, day(6) is two: day(9) anchors.
	for _, p := range points {
		if p.DayOffset == 0 {
			assert.InDelta(t, 90, p.Price, 1e-9)
			assert.InDelta(t, 1.0, p.Rebased, 1e-9)
		}
	}
}

func TestRebase_TieBreaksToEarlierDate(t *testing.T) {
	// Announcement equidistant from two trading days.
	series := pricesAt([]int{6, 10}, []float64{60, 100})

	points, reason := Rebase(series, day(8))
	require.Equal(t, contracts.SkipNone, reason)

	assert.Equal(t, 0, points[0].DayOffset, "earlier of two equidistant days anchors")
	assert.InDelta(t, 1.0, points[0].Rebased, 1e-9)
}

func TestRebase_NoAnchorWithinTolerance(t *testing.T) {
	series := pricesAt([]int{0, 1, 2}, []float64{10, 11, 12})

	points, reason := Rebase(series, day(20))
	assert.Nil(t, points)
	assert.Equal(t, contracts.SkipInvalidAnchor, reason)
}

func TestRebase_DegenerateAnchorPrice(t *testing.T) {
	series := pricesAt([]int{9, 10, 11}, []float64{10, 0, 12})

	points, reason := Rebase(series, day(10))
	assert.Nil(t, points)
	assert.Equal(t, contracts.SkipComputationDegenerate, reason)
}

func TestRebase_EmptySeries(t *testing.T) {
	points, reason := Rebase(nil, day(10))
	assert.Nil(t, points)
	assert.Equal(t, contracts.SkipDataUnavailable, reason)
}
