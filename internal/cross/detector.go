// Package cross detects golden and death crosses in daily price series.
package cross

import (
	"time"

	"github.com/hyunwoo/tradeideas/internal/contracts"
	"github.com/hyunwoo/tradeideas/internal/indicator"
	"github.com/hyunwoo/tradeideas/pkg/logger"
)

const (
	// ShortWindow and LongWindow are the conventional crossover pair.
	ShortWindow = 50
	LongWindow  = 200

	// minAlignedSamples is the minimum number of dates with both
	// averages defined before detection is meaningful.
	minAlignedSamples = 10

	// confirmWindowDays is the trailing confirmation window: only
	// crosses within this many days of "now" are reported.
	confirmWindowDays = 7
)

// Detector identifies whether a golden or death cross occurred within
// the trailing confirmation window.
type Detector struct {
	shortWindow int
	longWindow  int
	logger      *logger.Logger
}

// NewDetector creates a detector with the standard 50/200 windows.
func NewDetector(log *logger.Logger) *Detector {
	return &Detector{
		shortWindow: ShortWindow,
		longWindow:  LongWindow,
		logger:      log,
	}
}

// Detect scans the series for a crossover inside the confirmation
// window ending at now. A nil event with SkipNone means the symbol was
// analyzed and simply has no recent cross. Insufficient history is a
// skip outcome, not an error.
//
// When noisy data produces both a golden and a death cross inside the
// window, the golden cross wins.
func (d *Detector) Detect(symbol string, series contracts.PriceSeries, now time.Time) (*contracts.CrossEvent, contracts.SkipReason) {
	if len(series) < d.longWindow {
		return nil, contracts.SkipInsufficientHistory
	}

	samples := indicator.MovingAverages(series, d.shortWindow, d.longWindow)
	if len(samples) < minAlignedSamples {
		return nil, contracts.SkipInsufficientHistory
	}

	// Signal series: +1 where MA50 > MA200, else -1. A day-over-day
	// change of +2 is a golden cross, -2 a death cross.
	windowStart := now.AddDate(0, 0, -confirmWindowDays)

	var lastGolden, lastDeath time.Time
	prev := signOf(samples[0])
	for i := 1; i < len(samples); i++ {
		cur := signOf(samples[i])
		diff := cur - prev
		prev = cur

		if diff == 0 {
			continue
		}
		date := samples[i].Date
		if date.Before(windowStart) || date.After(now) {
			continue
		}
		// Keep only the most recent cross per type in the window.
		if diff > 0 {
			lastGolden = date
		} else {
			lastDeath = date
		}
	}

	var crossType contracts.CrossType
	var crossDate time.Time
	switch {
	case !lastGolden.IsZero():
		crossType, crossDate = contracts.GoldenCross, lastGolden
	case !lastDeath.IsZero():
		crossType, crossDate = contracts.DeathCross, lastDeath
	default:
		return nil, contracts.SkipNone
	}

	latest := samples[len(samples)-1]
	lastPrice, _ := series.Latest()

	event := &contracts.CrossEvent{
		Symbol:    symbol,
		Company:   symbol, // enrichment may replace this
		CrossType: crossType,
		CrossDate: crossDate,
		Price:     lastPrice.Close,
		MA50:      latest.Short,
		MA200:     latest.Long,
	}

	if rsi, ok := indicator.RSI(series, indicator.DefaultRSIPeriod); ok {
		event.RSI = &rsi
	}

	d.logger.WithFields(map[string]interface{}{
		"symbol":     symbol,
		"cross_type": crossType,
		"cross_date": crossDate.Format("2006-01-02"),
	}).Debug("Detected cross")

	return event, contracts.SkipNone
}

func signOf(s indicator.MASample) int {
	if s.Short > s.Long {
		return 1
	}
	return -1
}
