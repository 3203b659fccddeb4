package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/hyunwoo/tradeideas/internal/contracts"
)

// rawValue is Yahoo's {"raw": n, "fmt": "..."} number wrapper. A nil
// pointer to it collapses to the snapshot's 0 default.
type rawValue struct {
	Raw float64 `json:"raw"`
}

func (v *rawValue) value() float64 {
	if v == nil {
		return 0
	}
	return v.Raw
}

// percent converts Yahoo's fractional ratios (0.125) to whole percent.
func (v *rawValue) percent() float64 {
	return v.value() * 100
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			Price *struct {
				LongName  string    `json:"longName"`
				MarketCap *rawValue `json:"marketCap"`
			} `json:"price"`
			SummaryDetail *struct {
				AverageVolume *rawValue `json:"averageVolume"`
				TrailingPE    *rawValue `json:"trailingPE"`
				ForwardPE     *rawValue `json:"forwardPE"`
			} `json:"summaryDetail"`
			DefaultKeyStatistics *struct {
				FloatShares       *rawValue `json:"floatShares"`
				SharesOutstanding *rawValue `json:"sharesOutstanding"`
			} `json:"defaultKeyStatistics"`
			FinancialData *struct {
				ProfitMargins  *rawValue `json:"profitMargins"`
				ReturnOnEquity *rawValue `json:"returnOnEquity"`
				RevenueGrowth  *rawValue `json:"revenueGrowth"`
				EarningsGrowth *rawValue `json:"earningsGrowth"`
				DebtToEquity   *rawValue `json:"debtToEquity"`
				FreeCashflow   *rawValue `json:"freeCashflow"`
			} `json:"financialData"`
			AssetProfile *struct {
				Country string `json:"country"`
			} `json:"assetProfile"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

const quoteSummaryModules = "price,summaryDetail,defaultKeyStatistics,financialData,assetProfile"

// FetchFundamentals fetches a point-in-time fundamentals snapshot.
// Every field the source omits stays at its zero default so the scorer
// never has to null-check.
func (c *Client) FetchFundamentals(ctx context.Context, symbol string) (contracts.FundamentalsSnapshot, error) {
	snapshot := contracts.FundamentalsSnapshot{Symbol: symbol}

	if err := c.limiter.Wait(ctx); err != nil {
		return snapshot, err
	}

	url := fmt.Sprintf(
		"%s/v10/finance/quoteSummary/%s?modules=%s",
		c.quoteBaseURL, symbol, quoteSummaryModules,
	)

	resp, err := c.httpClient.Get(ctx, url)
	if err != nil {
		return snapshot, fmt.Errorf("quoteSummary request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		return snapshot, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return snapshot, fmt.Errorf("read response body failed: %w", err)
	}

	if err := parseQuoteSummary(body, &snapshot); err != nil {
		return snapshot, fmt.Errorf("parse quoteSummary failed: %w", err)
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol":     symbol,
		"market_cap": snapshot.MarketCap,
	}).Debug("Fetched fundamentals")
	return snapshot, nil
}

func parseQuoteSummary(body []byte, snapshot *contracts.FundamentalsSnapshot) error {
	var parsed quoteSummaryResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return err
	}

	if len(parsed.QuoteSummary.Result) == 0 {
		// Unknown symbol: zero-valued snapshot, not an error.
		return nil
	}

	result := parsed.QuoteSummary.Result[0]

	if p := result.Price; p != nil {
		snapshot.Name = p.LongName
		snapshot.MarketCap = p.MarketCap.value()
	}
	if d := result.SummaryDetail; d != nil {
		snapshot.AvgDailyVolume = d.AverageVolume.value()
		snapshot.TrailingPE = d.TrailingPE.value()
		snapshot.ForwardPE = d.ForwardPE.value()
	}
	if k := result.DefaultKeyStatistics; k != nil {
		snapshot.FloatShares = k.FloatShares.value()
		snapshot.SharesOutstanding = k.SharesOutstanding.value()
	}
	if f := result.FinancialData; f != nil {
		snapshot.ProfitMargin = f.ProfitMargins.percent()
		snapshot.ROE = f.ReturnOnEquity.percent()
		snapshot.RevenueGrowth = f.RevenueGrowth.percent()
		snapshot.EarningsGrowth = f.EarningsGrowth.percent()
		// Yahoo already reports debt/equity as a percent-style ratio.
		snapshot.DebtToEquity = f.DebtToEquity.value()
		snapshot.FreeCashFlow = f.FreeCashflow.value()
	}
	if a := result.AssetProfile; a != nil {
		snapshot.Country = a.Country
	}

	return nil
}
