package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hyunwoo/tradeideas/internal/contracts"
)

// chartResponse mirrors the v8 chart endpoint payload, trimmed to the
// fields the core consumes.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchPrices fetches daily closing prices for a symbol. An unknown
// symbol or an empty range returns an empty series with a nil error,
// per the provider contract; only transport failures are errors.
func (c *Client) FetchPrices(ctx context.Context, symbol string, from, to time.Time) (contracts.PriceSeries, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf(
		"%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d&events=div%%2Csplit",
		c.chartBaseURL, symbol, from.Unix(), to.Unix(),
	)

	resp, err := c.httpClient.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("chart request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// Unknown symbol: empty series, not an error.
		return contracts.PriceSeries{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body failed: %w", err)
	}

	series, err := parseChartResponse(body)
	if err != nil {
		return nil, fmt.Errorf("parse chart response failed: %w", err)
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"count":  len(series),
	}).Debug("Fetched prices")
	return series, nil
}

// parseChartResponse extracts the daily close series. Null closes
// (halts, partial sessions) are dropped so the series invariant holds.
func parseChartResponse(body []byte) (contracts.PriceSeries, error) {
	var parsed chartResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, err
	}

	if parsed.Chart.Error != nil {
		// Yahoo reports unknown symbols here; treat as no data.
		return contracts.PriceSeries{}, nil
	}
	if len(parsed.Chart.Result) == 0 {
		return contracts.PriceSeries{}, nil
	}

	result := parsed.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return contracts.PriceSeries{}, nil
	}
	closes := result.Indicators.Quote[0].Close

	series := make(contracts.PriceSeries, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil || *closes[i] <= 0 {
			continue
		}
		series = append(series, contracts.PricePoint{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *closes[i],
		})
	}

	return series, nil
}
