// Package jobs holds the scheduled scan jobs.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/hyunwoo/tradeideas/internal/contracts"
	"github.com/hyunwoo/tradeideas/internal/external/wikipedia"
	"github.com/hyunwoo/tradeideas/internal/scan"
	"github.com/hyunwoo/tradeideas/pkg/config"
	"github.com/hyunwoo/tradeideas/pkg/logger"
)

// CrossScanJob scans the S&P 500 for fresh moving average crosses after
// the US close.
type CrossScanJob struct {
	scanner      *scan.CrossScanner
	constituents contracts.ConstituentsProvider
	config       *config.Config
	logger       *logger.Logger
}

// NewCrossScanJob creates a new cross scan job.
func NewCrossScanJob(
	scanner *scan.CrossScanner,
	constituents contracts.ConstituentsProvider,
	cfg *config.Config,
	log *logger.Logger,
) *CrossScanJob {
	return &CrossScanJob{
		scanner:      scanner,
		constituents: constituents,
		config:       cfg,
		logger:       log,
	}
}

// Name returns the job name.
func (j *CrossScanJob) Name() string {
	return "cross_scan"
}

// Schedule returns the cron schedule (weekdays 22:30 UTC, after the US
// close).
func (j *CrossScanJob) Schedule() string {
	return "0 30 22 * * 1-5"
}

// Run executes the cross scan.
func (j *CrossScanJob) Run(ctx context.Context) error {
	companies, err := j.constituents.Constituents(ctx, wikipedia.IndexSP500)
	if err != nil {
		return fmt.Errorf("fetch constituents: %w", err)
	}

	symbols := make([]string, 0, len(companies))
	for _, c := range companies {
		symbols = append(symbols, c.Symbol)
	}

	report, err := j.scanner.Scan(ctx, symbols, j.config.Scan.LookbackDays, time.Now())
	if err != nil {
		return fmt.Errorf("cross scan: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"requested": report.Requested,
		"analyzed":  report.Analyzed,
		"skipped":   report.Skipped,
		"crosses":   len(report.Events),
	}).Info("Scheduled cross scan completed")

	for _, event := range report.Events {
		j.logger.WithFields(map[string]interface{}{
			"symbol": event.Symbol,
			"type":   event.CrossType,
			"date":   event.CrossDate.Format("2006-01-02"),
		}).Info("Cross detected")
	}

	return nil
}
