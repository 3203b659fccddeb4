package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/hyunwoo/tradeideas/internal/store"
	"github.com/hyunwoo/tradeideas/pkg/logger"
)

// priceRetention keeps roughly two years of closes, enough for a 200
// day moving average over any lookback the scanners use.
const priceRetention = 730 * 24 * time.Hour

// PricePruneJob removes stored closes older than the retention window.
type PricePruneJob struct {
	prices *store.PriceRepository
	logger *logger.Logger
}

// NewPricePruneJob creates a new price prune job.
func NewPricePruneJob(prices *store.PriceRepository, log *logger.Logger) *PricePruneJob {
	return &PricePruneJob{
		prices: prices,
		logger: log,
	}
}

// Name returns the job name.
func (j *PricePruneJob) Name() string {
	return "price_prune"
}

// Schedule returns the cron schedule (Sunday 06:00 UTC).
func (j *PricePruneJob) Schedule() string {
	return "0 0 6 * * 0"
}

// Run executes the prune.
func (j *PricePruneJob) Run(ctx context.Context) error {
	cutoff := time.Now().Add(-priceRetention)

	removed, err := j.prices.DeleteBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("prune prices: %w", err)
	}

	if removed > 0 {
		j.logger.WithField("removed", removed).Info("Pruned stale price rows")
	}

	return nil
}
