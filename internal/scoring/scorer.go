// Package scoring ranks companies by how closely their fundamentals
// match a target index's quantitative admission criteria.
package scoring

import (
	"math"

	"github.com/hyunwoo/tradeideas/internal/contracts"
	"github.com/hyunwoo/tradeideas/pkg/logger"
)

// Criterion names used in ScoreBreakdown.
const (
	CriterionMarketCap       = "market_cap"
	CriterionLiquidity       = "liquidity"
	CriterionFloat           = "float"
	CriterionProfitability   = "profitability"
	CriterionGrowth          = "growth"
	CriterionFinancialHealth = "financial_health"
)

// Criteria holds the admission thresholds for one index regime. It is
// immutable per scoring run and injectable so tests and future rule
// revisions can swap thresholds without touching the scorer.
type Criteria struct {
	MinMarketCap       float64 // USD
	MinFloatPct        float64 // percent of shares publicly traded
	MinMonthlyVolume   float64 // shares per month
	MinLiquidityRatio  float64 // annual volume / float-adjusted market cap
	ProfitableQuarters int     // trailing quarters of positive earnings
	Domicile           string  // required country, empty disables the check
}

// DefaultCriteria returns the published S&P 500 thresholds.
func DefaultCriteria() Criteria {
	return Criteria{
		MinMarketCap:       22.7e9,
		MinFloatPct:        50,
		MinMonthlyVolume:   250_000,
		MinLiquidityRatio:  0.75,
		ProfitableQuarters: 4,
		Domicile:           "United States",
	}
}

// Scorer computes inclusion-likelihood scores from fundamentals.
type Scorer struct {
	criteria Criteria
	logger   *logger.Logger
}

// NewScorer creates a scorer for one criteria regime.
func NewScorer(criteria Criteria, log *logger.Logger) *Scorer {
	return &Scorer{
		criteria: criteria,
		logger:   log,
	}
}

// Criteria returns the regime the scorer was built with.
func (s *Scorer) Criteria() Criteria {
	return s.criteria
}

// Score evaluates one fundamentals snapshot. The total is additive
// across six criteria, each with its own point cap, and is clamped to
// 0..100. meetsHard is false as soon as any hard check (market cap,
// liquidity, float, domicile) fails, independent of the numeric score.
func (s *Scorer) Score(snapshot contracts.FundamentalsSnapshot) (total float64, breakdown contracts.ScoreBreakdown, meetsHard bool) {
	breakdown = contracts.ScoreBreakdown{
		CriterionMarketCap:       0,
		CriterionLiquidity:       0,
		CriterionFloat:           0,
		CriterionProfitability:   0,
		CriterionGrowth:          0,
		CriterionFinancialHealth: 0,
	}
	meetsHard = true

	// Market cap (0-30, hard). Crossing the threshold is worth 20
	// points, with one more per extra billion up to the cap.
	if snapshot.MarketCap >= s.criteria.MinMarketCap {
		breakdown[CriterionMarketCap] = math.Min(30, 20+(snapshot.MarketCap-s.criteria.MinMarketCap)/1e9)
	} else {
		meetsHard = false
	}

	// Liquidity (0-10, hard). Proportional credit below the monthly
	// volume threshold, but still a hard fail.
	monthly := snapshot.MonthlyVolume()
	if monthly >= s.criteria.MinMonthlyVolume {
		breakdown[CriterionLiquidity] = 10
	} else {
		breakdown[CriterionLiquidity] = math.Max(0, monthly/s.criteria.MinMonthlyVolume*10)
		meetsHard = false
	}

	// Float (0-20, hard). Zero shares outstanding counts as 0% float.
	if snapshot.FloatPct() >= s.criteria.MinFloatPct {
		breakdown[CriterionFloat] = 20
	} else {
		meetsHard = false
	}

	// Profitability (0-10, soft): both margin and ROE must be positive.
	if snapshot.ProfitMargin > 0 && snapshot.ROE > 0 {
		breakdown[CriterionProfitability] = math.Min(10, (snapshot.ProfitMargin+snapshot.ROE)/2)
	}

	// Growth (0-10, soft): best of revenue or earnings growth.
	if snapshot.RevenueGrowth > 0 || snapshot.EarningsGrowth > 0 {
		breakdown[CriterionGrowth] = math.Min(10, math.Max(snapshot.RevenueGrowth, snapshot.EarningsGrowth)/2)
	}

	// Financial health (0-10, soft). Missing or negative debt/equity is
	// treated as absent, not penalized.
	debtScore := 5.0
	if snapshot.DebtToEquity > 0 {
		debtScore = math.Max(0, 5-snapshot.DebtToEquity/10)
	}
	var fcfScore float64
	if snapshot.FreeCashFlow > 0 {
		fcfScore = 5
	}
	breakdown[CriterionFinancialHealth] = debtScore + fcfScore

	// Domicile (hard): the index only admits companies based in the
	// configured country.
	if s.criteria.Domicile != "" && snapshot.Country != s.criteria.Domicile {
		meetsHard = false
	}

	total = math.Min(100, breakdown.Total())

	s.logger.WithFields(map[string]interface{}{
		"symbol":     snapshot.Symbol,
		"score":      total,
		"meets_hard": meetsHard,
	}).Debug("Scored candidate")

	return total, breakdown, meetsHard
}
