package scan

import (
	"context"
	"math"
	"time"

	"github.com/hyunwoo/tradeideas/internal/contracts"
	"github.com/hyunwoo/tradeideas/pkg/logger"
)

// tradingDaysPerYear annualizes daily volatility.
const tradingDaysPerYear = 252

// PerformanceStudy rebases symbols' prices around an index-change
// announcement so their relative performance can be compared.
type PerformanceStudy struct {
	prices contracts.PriceProvider
	logger *logger.Logger
}

// SymbolPerformance is one symbol's rebased series.
type SymbolPerformance struct {
	Symbol string                   `json:"symbol"`
	Points []contracts.RebasedPoint `json:"points"`
}

// PerformanceReport aggregates rebased series and summary metrics for
// a batch of symbols. Symbols without an anchor near the announcement
// date are excluded, and that exclusion is observable via the counts.
type PerformanceReport struct {
	Announcement time.Time                      `json:"announcement"`
	Symbols      []SymbolPerformance            `json:"symbols"`
	Metrics      []contracts.PerformanceMetrics `json:"metrics"`
	Requested    int                            `json:"requested"`
	Included     int                            `json:"included"`
	Excluded     int                            `json:"excluded"`
}

// NewPerformanceStudy creates a performance study.
func NewPerformanceStudy(prices contracts.PriceProvider, log *logger.Logger) *PerformanceStudy {
	return &PerformanceStudy{
		prices: prices,
		logger: log,
	}
}

// Run fetches and rebases each symbol's prices over [from, to] around
// the announcement date. Per-symbol failures exclude that symbol only.
func (p *PerformanceStudy) Run(ctx context.Context, symbols []string, announcement, from, to time.Time) (*PerformanceReport, error) {
	report := &PerformanceReport{
		Announcement: announcement,
		Requested:    len(symbols),
	}

	for _, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		points, reason := p.rebaseSymbol(ctx, symbol, announcement, from, to)
		if reason.Skipped() {
			p.logger.WithFields(map[string]interface{}{
				"symbol": symbol,
				"reason": reason,
			}).Warn("Symbol excluded from performance study")
			report.Excluded++
			continue
		}

		report.Included++
		report.Symbols = append(report.Symbols, SymbolPerformance{
			Symbol: symbol,
			Points: points,
		})

		if metrics, ok := computeMetrics(symbol, points); ok {
			report.Metrics = append(report.Metrics, metrics)
		}
	}

	p.logger.WithFields(map[string]interface{}{
		"requested": report.Requested,
		"included":  report.Included,
		"excluded":  report.Excluded,
	}).Info("Performance study completed")

	return report, nil
}

func (p *PerformanceStudy) rebaseSymbol(ctx context.Context, symbol string, announcement, from, to time.Time) ([]contracts.RebasedPoint, contracts.SkipReason) {
	// Buffer the fetch so the anchor search has trading days to work
	// with at the window edges.
	series, err := p.prices.FetchPrices(ctx, symbol, from.AddDate(0, 0, -10), to.AddDate(0, 0, 10))
	if err != nil {
		return nil, contracts.SkipDataUnavailable
	}

	// Trim back to the requested window.
	trimmed := make(contracts.PriceSeries, 0, len(series))
	for _, pt := range series {
		if pt.Date.Before(from) || pt.Date.After(to) {
			continue
		}
		trimmed = append(trimmed, pt)
	}
	if len(trimmed) == 0 {
		return nil, contracts.SkipDataUnavailable
	}

	return Rebase(trimmed, announcement)
}

// computeMetrics summarises pre/post announcement returns and realized
// volatility. Both sides of the announcement must have data.
func computeMetrics(symbol string, points []contracts.RebasedPoint) (contracts.PerformanceMetrics, bool) {
	var before, after []contracts.RebasedPoint
	for _, pt := range points {
		switch {
		case pt.DayOffset < 0:
			before = append(before, pt)
		case pt.DayOffset > 0:
			after = append(after, pt)
		}
	}
	if len(before) == 0 || len(after) == 0 {
		return contracts.PerformanceMetrics{}, false
	}

	start := before[0].Rebased
	end := after[len(after)-1].Rebased
	const announcementPrice = 1.0

	metrics := contracts.PerformanceMetrics{
		Symbol:         symbol,
		PreReturnPct:   (announcementPrice - start) / start * 100,
		PostReturnPct:  (end - announcementPrice) / announcementPrice * 100,
		TotalReturnPct: (end - start) / start * 100,
	}

	// Annualized standard deviation of daily rebased returns.
	var returns []float64
	for i := 1; i < len(points); i++ {
		if points[i-1].Rebased == 0 {
			continue
		}
		returns = append(returns, points[i].Rebased/points[i-1].Rebased-1)
	}
	if len(returns) > 1 {
		var mean float64
		for _, r := range returns {
			mean += r
		}
		mean /= float64(len(returns))

		var variance float64
		for _, r := range returns {
			variance += (r - mean) * (r - mean)
		}
		variance /= float64(len(returns) - 1)

		metrics.VolatilityPct = math.Sqrt(variance) * math.Sqrt(tradingDaysPerYear) * 100
	}

	return metrics, true
}
