// Package yahoo fetches price history and fundamentals from the Yahoo
// Finance JSON endpoints. All Yahoo calls live in this package.
package yahoo

import (
	"golang.org/x/time/rate"

	"github.com/hyunwoo/tradeideas/pkg/config"
	"github.com/hyunwoo/tradeideas/pkg/httputil"
	"github.com/hyunwoo/tradeideas/pkg/logger"
)

// Client handles communication with Yahoo Finance.
type Client struct {
	httpClient   *httputil.Client
	logger       *logger.Logger
	limiter      *rate.Limiter
	chartBaseURL string
	quoteBaseURL string
}

// NewClient creates a new Yahoo Finance client. The in-process limiter
// keeps request bursts under the unauthenticated budget regardless of
// how many scan workers share the client.
func NewClient(cfg *config.Config, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient:   httpClient,
		logger:       log,
		limiter:      rate.NewLimiter(rate.Limit(cfg.Yahoo.RatePerSec), cfg.Yahoo.RateBurst),
		chartBaseURL: cfg.Yahoo.ChartBaseURL,
		quoteBaseURL: cfg.Yahoo.QuoteBaseURL,
	}
}
