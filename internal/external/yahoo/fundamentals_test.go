package yahoo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyunwoo/tradeideas/internal/contracts"
)

func TestParseQuoteSummary(t *testing.T) {
	body := []byte(`{
		"quoteSummary": {
			"result": [{
				"price": {
					"longName": "Acme Industries Inc.",
					"marketCap": {"raw": 45000000000, "fmt": "45B"}
				},
				"summaryDetail": {
					"averageVolume": {"raw": 3200000},
					"trailingPE": {"raw": 28.4},
					"forwardPE": {"raw": 22.1}
				},
				"defaultKeyStatistics": {
					"floatShares": {"raw": 880000000},
					"sharesOutstanding": {"raw": 1000000000}
				},
				"financialData": {
					"profitMargins": {"raw": 0.125},
					"returnOnEquity": {"raw": 0.21},
					"revenueGrowth": {"raw": 0.18},
					"earningsGrowth": {"raw": -0.05},
					"debtToEquity": {"raw": 42.7},
					"freeCashflow": {"raw": 2100000000}
				},
				"assetProfile": {"country": "United States"}
			}],
			"error": null
		}
	}`)

	snapshot := contracts.FundamentalsSnapshot{Symbol: "ACME"}
	require.NoError(t, parseQuoteSummary(body, &snapshot))

	assert.Equal(t, "Acme Industries Inc.", snapshot.Name)
	assert.InDelta(t, 45e9, snapshot.MarketCap, 1e-3)
	assert.InDelta(t, 3.2e6, snapshot.AvgDailyVolume, 1e-3)
	assert.InDelta(t, 28.4, snapshot.TrailingPE, 1e-9)
	assert.InDelta(t, 22.1, snapshot.ForwardPE, 1e-9)
	assert.InDelta(t, 880e6, snapshot.FloatShares, 1e-3)
	assert.InDelta(t, 1e9, snapshot.SharesOutstanding, 1e-3)

	// Fractional ratios become whole percents; debt/equity stays as-is.
	assert.InDelta(t, 12.5, snapshot.ProfitMargin, 1e-9)
	assert.InDelta(t, 21, snapshot.ROE, 1e-9)
	assert.InDelta(t, 18, snapshot.RevenueGrowth, 1e-9)
	assert.InDelta(t, -5, snapshot.EarningsGrowth, 1e-9)
	assert.InDelta(t, 42.7, snapshot.DebtToEquity, 1e-9)
	assert.InDelta(t, 2.1e9, snapshot.FreeCashFlow, 1e-3)
	assert.Equal(t, "United States", snapshot.Country)

	assert.InDelta(t, 88, snapshot.FloatPct(), 1e-9)
	assert.InDelta(t, 64e6, snapshot.MonthlyVolume(), 1e-3)
}

func TestParseQuoteSummary_MissingModules(t *testing.T) {
	// Only the price module present: everything else stays zero.
	body := []byte(`{
		"quoteSummary": {
			"result": [{
				"price": {"longName": "Sparse Co", "marketCap": {"raw": 1000000}}
			}]
		}
	}`)

	snapshot := contracts.FundamentalsSnapshot{Symbol: "SPRS"}
	require.NoError(t, parseQuoteSummary(body, &snapshot))

	assert.Equal(t, "Sparse Co", snapshot.Name)
	assert.InDelta(t, 1e6, snapshot.MarketCap, 1e-9)
	assert.Zero(t, snapshot.AvgDailyVolume)
	assert.Zero(t, snapshot.ProfitMargin)
	assert.Zero(t, snapshot.FloatPct(), "zero shares outstanding never divides by zero")
}

func TestParseQuoteSummary_UnknownSymbol(t *testing.T) {
	body := []byte(`{"quoteSummary": {"result": [], "error": null}}`)

	snapshot := contracts.FundamentalsSnapshot{Symbol: "NOPE"}
	require.NoError(t, parseQuoteSummary(body, &snapshot))
	assert.Zero(t, snapshot.MarketCap)
	assert.Empty(t, snapshot.Name)
}
