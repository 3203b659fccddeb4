package contracts

// FundamentalsSnapshot is a point-in-time view of a company's
// fundamentals. Every numeric field defaults to 0 when the upstream
// source omits it, so downstream arithmetic never sees a null.
// Percentages (margins, growth, ROE) are expressed as whole percent
// values, e.g. 12.5 for 12.5%.
type FundamentalsSnapshot struct {
	Symbol            string  `json:"symbol"`
	Name              string  `json:"name,omitempty"` // best-effort long name
	MarketCap         float64 `json:"market_cap"`     // USD
	FloatShares       float64 `json:"float_shares"`
	SharesOutstanding float64 `json:"shares_outstanding"`
	AvgDailyVolume    float64 `json:"avg_daily_volume"` // shares/day
	ProfitMargin      float64 `json:"profit_margin"`    // %
	ROE               float64 `json:"roe"`              // %
	RevenueGrowth     float64 `json:"revenue_growth"`   // %
	EarningsGrowth    float64 `json:"earnings_growth"`  // %
	DebtToEquity      float64 `json:"debt_to_equity"`
	FreeCashFlow      float64 `json:"free_cash_flow"` // USD
	Country           string  `json:"country"`

	// Valuation extras carried for cross-scan enrichment.
	TrailingPE float64 `json:"trailing_pe,omitempty"`
	ForwardPE  float64 `json:"forward_pe,omitempty"`
}

// FloatPct returns the public float as a percentage of shares
// outstanding. Zero shares outstanding yields 0, never a division by
// zero.
func (f *FundamentalsSnapshot) FloatPct() float64 {
	if f.SharesOutstanding <= 0 {
		return 0
	}
	return f.FloatShares / f.SharesOutstanding * 100
}

// MonthlyVolume approximates monthly traded shares from the daily
// average (20 trading days).
func (f *FundamentalsSnapshot) MonthlyVolume() float64 {
	return f.AvgDailyVolume * 20
}

// ScoreBreakdown maps a criterion name to the points it contributed.
// Keys: market_cap, liquidity, float, profitability, growth,
// financial_health.
type ScoreBreakdown map[string]float64

// Total sums all criterion contributions.
func (b ScoreBreakdown) Total() float64 {
	var sum float64
	for _, v := range b {
		sum += v
	}
	return sum
}

// CandidateResult is the outcome of scoring one company against the
// index admission criteria. Ranking key is Score descending.
type CandidateResult struct {
	Symbol            string               `json:"symbol"`
	Company           string               `json:"company"`
	Sector            string               `json:"sector"`
	Fundamentals      FundamentalsSnapshot `json:"fundamentals"`
	Score             float64              `json:"score"` // 0..100
	Breakdown         ScoreBreakdown       `json:"breakdown"`
	MeetsHardCriteria bool                 `json:"meets_hard_criteria"`
}
