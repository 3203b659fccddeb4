// Package indicator computes technical indicators over daily closing
// price series. All indicators are pure functions of their input.
package indicator

import (
	"time"

	"github.com/hyunwoo/tradeideas/internal/contracts"
)

// Sample is a single moving-average value for one trading date.
type Sample struct {
	Date  time.Time
	Value float64
}

// MASample carries the short and long moving averages for one date.
// Only dates where both windows are full produce a sample.
type MASample struct {
	Date  time.Time
	Short float64
	Long  float64
}

// SMASeries computes the simple moving average over the given window.
// Dates with fewer than window prior closes (inclusive) produce no
// value; they are excluded from the result rather than zero-filled,
// which keeps downstream cross detection honest near the series start.
func SMASeries(series contracts.PriceSeries, window int) []Sample {
	if window <= 0 || len(series) < window {
		return nil
	}

	samples := make([]Sample, 0, len(series)-window+1)

	var sum float64
	for i, p := range series {
		sum += p.Close
		if i >= window {
			sum -= series[i-window].Close
		}
		if i >= window-1 {
			samples = append(samples, Sample{
				Date:  p.Date,
				Value: sum / float64(window),
			})
		}
	}

	return samples
}

// MovingAverages aligns a short and a long simple moving average over
// the same series. The result covers exactly the dates where both
// windows are full, i.e. it starts longWindow-1 points into the series.
func MovingAverages(series contracts.PriceSeries, shortWindow, longWindow int) []MASample {
	if shortWindow <= 0 || longWindow <= shortWindow || len(series) < longWindow {
		return nil
	}

	short := SMASeries(series, shortWindow)
	long := SMASeries(series, longWindow)

	// The short series is longer; its tail lines up with the long one.
	offset := len(short) - len(long)
	aligned := make([]MASample, len(long))
	for i, l := range long {
		aligned[i] = MASample{
			Date:  l.Date,
			Short: short[offset+i].Value,
			Long:  l.Value,
		}
	}

	return aligned
}
