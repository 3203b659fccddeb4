package contracts

import (
	"fmt"
	"time"
)

// PricePoint represents one daily closing price for a symbol.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// PriceSeries is an ordered sequence of daily closes for one symbol.
// Invariant: strictly increasing dates, no duplicates.
type PriceSeries []PricePoint

// Closes returns the closing prices in date order.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, p := range s {
		closes[i] = p.Close
	}
	return closes
}

// Latest returns the most recent price point.
func (s PriceSeries) Latest() (PricePoint, bool) {
	if len(s) == 0 {
		return PricePoint{}, false
	}
	return s[len(s)-1], true
}

// Validate checks the series invariants.
func (s PriceSeries) Validate() error {
	for i, p := range s {
		if p.Close <= 0 {
			return fmt.Errorf("non-positive close %.4f at %s", p.Close, p.Date.Format("2006-01-02"))
		}
		if i > 0 && !s[i-1].Date.Before(p.Date) {
			return fmt.Errorf("dates not strictly increasing at index %d (%s)", i, p.Date.Format("2006-01-02"))
		}
	}
	return nil
}

// RebasedPoint is a price point normalized to an anchor date.
// Rebased equals 1.0 on the anchor day; DayOffset is the signed
// calendar-day distance from the anchor.
type RebasedPoint struct {
	Date      time.Time `json:"date"`
	Price     float64   `json:"price"`
	Rebased   float64   `json:"rebased"`
	DayOffset int       `json:"day_offset"`
}

// PerformanceMetrics summarises a symbol's rebased series around an
// announcement date.
type PerformanceMetrics struct {
	Symbol         string  `json:"symbol"`
	PreReturnPct   float64 `json:"pre_return_pct"`  // window start to announcement
	PostReturnPct  float64 `json:"post_return_pct"` // announcement to window end
	TotalReturnPct float64 `json:"total_return_pct"`
	VolatilityPct  float64 `json:"volatility_pct"` // annualized stddev of daily returns
}
