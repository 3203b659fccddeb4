package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyunwoo/tradeideas/internal/contracts"
	"github.com/hyunwoo/tradeideas/pkg/logger"
)

// strongSnapshot clears every criterion comfortably.
func strongSnapshot() contracts.FundamentalsSnapshot {
	return contracts.FundamentalsSnapshot{
		Symbol:            "STR",
		MarketCap:         40e9,
		FloatShares:       900e6,
		SharesOutstanding: 1e9,
		AvgDailyVolume:    5e6,
		ProfitMargin:      12,
		ROE:               18,
		RevenueGrowth:     25,
		EarningsGrowth:    10,
		DebtToEquity:      20,
		FreeCashFlow:      3e9,
		Country:           "United States",
	}
}

func TestScorer_StrongCandidate(t *testing.T) {
	s := NewScorer(DefaultCriteria(), logger.NewNop())

	total, breakdown, meetsHard := s.Score(strongSnapshot())

	assert.True(t, meetsHard)

	// 22.7B threshold plus 17.3B extra, capped contributions elsewhere.
	assert.InDelta(t, 30, breakdown[CriterionMarketCap], 1e-9)
	assert.InDelta(t, 10, breakdown[CriterionLiquidity], 1e-9)
	assert.InDelta(t, 20, breakdown[CriterionFloat], 1e-9)
	assert.InDelta(t, 10, breakdown[CriterionProfitability], 1e-9)
	assert.InDelta(t, 10, breakdown[CriterionGrowth], 1e-9)
	// Debt/equity 20 costs 2 of the 5 debt points, FCF adds 5.
	assert.InDelta(t, 8, breakdown[CriterionFinancialHealth], 1e-9)

	assert.InDelta(t, 98, total, 1e-9)
}

func TestScorer_MarketCapThresholdContinuity(t *testing.T) {
	s := NewScorer(DefaultCriteria(), logger.NewNop())

	atMin := strongSnapshot()
	atMin.MarketCap = DefaultCriteria().MinMarketCap
	_, breakdown, meetsHard := s.Score(atMin)

	// Exactly at the threshold: hard pass worth the 20 point base.
	assert.True(t, meetsHard)
	assert.InDelta(t, 20, breakdown[CriterionMarketCap], 1e-9)

	below := strongSnapshot()
	below.MarketCap = DefaultCriteria().MinMarketCap - 1
	_, breakdown, meetsHard = s.Score(below)

	assert.False(t, meetsHard)
	assert.Zero(t, breakdown[CriterionMarketCap])
}

func TestScorer_LiquidityPartialCreditStillHardFails(t *testing.T) {
	s := NewScorer(DefaultCriteria(), logger.NewNop())

	snapshot := strongSnapshot()
	snapshot.AvgDailyVolume = 5_000 // 100k/month, 40% of the 250k minimum

	_, breakdown, meetsHard := s.Score(snapshot)

	assert.False(t, meetsHard, "thin liquidity is a hard fail")
	assert.InDelta(t, 4, breakdown[CriterionLiquidity], 1e-9, "but partial credit accrues")
}

func TestScorer_HardFails(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*contracts.FundamentalsSnapshot)
	}{
		{"foreign domicile", func(f *contracts.FundamentalsSnapshot) { f.Country = "Ireland" }},
		{"thin float", func(f *contracts.FundamentalsSnapshot) { f.FloatShares = 400e6 }},
		{"zero shares outstanding", func(f *contracts.FundamentalsSnapshot) {
			f.SharesOutstanding = 0
			f.FloatShares = 0
		}},
	}

	s := NewScorer(DefaultCriteria(), logger.NewNop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snapshot := strongSnapshot()
			tt.mutate(&snapshot)

			_, _, meetsHard := s.Score(snapshot)
			assert.False(t, meetsHard)
		})
	}
}

func TestScorer_EmptyDomicileDisablesCheck(t *testing.T) {
	criteria := DefaultCriteria()
	criteria.Domicile = ""
	s := NewScorer(criteria, logger.NewNop())

	snapshot := strongSnapshot()
	snapshot.Country = "Ireland"

	_, _, meetsHard := s.Score(snapshot)
	assert.True(t, meetsHard)
}

func TestScorer_SoftCriteria(t *testing.T) {
	s := NewScorer(DefaultCriteria(), logger.NewNop())

	t.Run("unprofitable company scores zero profitability", func(t *testing.T) {
		snapshot := strongSnapshot()
		snapshot.ProfitMargin = -3

		_, breakdown, meetsHard := s.Score(snapshot)
		assert.True(t, meetsHard, "soft criteria never hard-fail")
		assert.Zero(t, breakdown[CriterionProfitability])
	})

	t.Run("absent debt reading keeps the 5 point default", func(t *testing.T) {
		snapshot := strongSnapshot()
		snapshot.DebtToEquity = 0
		snapshot.FreeCashFlow = 0

		_, breakdown, _ := s.Score(snapshot)
		assert.InDelta(t, 5, breakdown[CriterionFinancialHealth], 1e-9)
	})

	t.Run("growth takes the better of revenue and earnings", func(t *testing.T) {
		snapshot := strongSnapshot()
		snapshot.RevenueGrowth = 4
		snapshot.EarningsGrowth = 12

		_, breakdown, _ := s.Score(snapshot)
		assert.InDelta(t, 6, breakdown[CriterionGrowth], 1e-9)
	})
}

func TestScorer_ZeroSnapshot(t *testing.T) {
	s := NewScorer(DefaultCriteria(), logger.NewNop())

	total, breakdown, meetsHard := s.Score(contracts.FundamentalsSnapshot{Symbol: "NIL"})

	assert.False(t, meetsHard)
	// Only the absent-debt default survives an all-zero snapshot.
	assert.InDelta(t, 5, total, 1e-9)
	require.Len(t, breakdown, 6, "every criterion key is always present")
	for _, name := range []string{
		CriterionMarketCap, CriterionLiquidity, CriterionFloat,
		CriterionProfitability, CriterionGrowth, CriterionFinancialHealth,
	} {
		assert.Contains(t, breakdown, name)
	}
}

func TestScorer_PerfectCandidate(t *testing.T) {
	s := NewScorer(DefaultCriteria(), logger.NewNop())

	snapshot := strongSnapshot()
	snapshot.MarketCap = 500e9
	snapshot.DebtToEquity = 0 // absent reading keeps 5, FCF adds 5

	total, _, meetsHard := s.Score(snapshot)
	assert.True(t, meetsHard)
	// All six caps hit: 30 + 10 + 20 + 10 + 10 + 10.
	assert.InDelta(t, 90, total, 1e-9)
	assert.LessOrEqual(t, total, 100.0)
}
