// Package wikipedia scrapes index constituent tables and the S&P 500
// historical changes table. It satisfies the ConstituentsProvider
// contract; the core never imports this package directly.
package wikipedia

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/hyunwoo/tradeideas/pkg/config"
	"github.com/hyunwoo/tradeideas/pkg/httputil"
	"github.com/hyunwoo/tradeideas/pkg/logger"
)

// symbolCleanRe strips markup artifacts from scraped tickers.
var symbolCleanRe = regexp.MustCompile(`[^\w.-]`)

// footnoteRe removes wiki footnote markers like [1] from names.
var footnoteRe = regexp.MustCompile(`\[.*?\]`)

// Client handles communication with Wikipedia.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new Wikipedia client.
func NewClient(cfg *config.Config, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    cfg.Wikipedia.BaseURL,
	}
}

// fetchDocument fetches a page and parses it into a goquery document.
func (c *Client) fetchDocument(ctx context.Context, path string) (*goquery.Document, error) {
	url := c.baseURL + path

	resp, err := c.httpClient.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse HTML failed: %w", err)
	}

	return doc, nil
}

// cleanSymbol normalizes a scraped ticker cell.
func cleanSymbol(raw string) string {
	return symbolCleanRe.ReplaceAllString(strings.TrimSpace(raw), "")
}

// cleanName strips footnote markers from a scraped company name.
func cleanName(raw string) string {
	return strings.TrimSpace(footnoteRe.ReplaceAllString(raw, ""))
}
