package jobs

import (
	"context"
	"fmt"

	"github.com/hyunwoo/tradeideas/internal/contracts"
	"github.com/hyunwoo/tradeideas/internal/external/wikipedia"
	"github.com/hyunwoo/tradeideas/internal/scan"
	"github.com/hyunwoo/tradeideas/pkg/logger"
)

// CandidateScanJob scores index admission candidates once a week. The
// pool is Russell 1000 members not already in the S&P 500.
type CandidateScanJob struct {
	scanner      *scan.CandidateScanner
	constituents contracts.ConstituentsProvider
	logger       *logger.Logger
}

// NewCandidateScanJob creates a new candidate scan job.
func NewCandidateScanJob(
	scanner *scan.CandidateScanner,
	constituents contracts.ConstituentsProvider,
	log *logger.Logger,
) *CandidateScanJob {
	return &CandidateScanJob{
		scanner:      scanner,
		constituents: constituents,
		logger:       log,
	}
}

// Name returns the job name.
func (j *CandidateScanJob) Name() string {
	return "candidate_scan"
}

// Schedule returns the cron schedule (Saturday 08:00 UTC, on closed
// markets).
func (j *CandidateScanJob) Schedule() string {
	return "0 0 8 * * 6"
}

// Run executes the candidate scan.
func (j *CandidateScanJob) Run(ctx context.Context) error {
	pool, err := j.constituents.Constituents(ctx, wikipedia.IndexRussell1k)
	if err != nil {
		return fmt.Errorf("fetch candidate pool: %w", err)
	}

	members, err := j.constituents.Constituents(ctx, wikipedia.IndexSP500)
	if err != nil {
		return fmt.Errorf("fetch index members: %w", err)
	}

	existing := make(map[string]bool, len(members))
	for _, m := range members {
		existing[m.Symbol] = true
	}

	var candidates []contracts.Company
	for _, c := range pool {
		if !existing[c.Symbol] {
			candidates = append(candidates, c)
		}
	}

	report, err := j.scanner.Scan(ctx, candidates)
	if err != nil {
		return fmt.Errorf("candidate scan: %w", err)
	}

	qualified := report.Qualified()
	j.logger.WithFields(map[string]interface{}{
		"requested": report.Requested,
		"scored":    report.Scored,
		"skipped":   report.Skipped,
		"qualified": len(qualified),
	}).Info("Scheduled candidate scan completed")

	// Top ten by score for the log
	for i, c := range qualified {
		if i >= 10 {
			break
		}
		j.logger.WithFields(map[string]interface{}{
			"symbol": c.Symbol,
			"score":  c.Score,
		}).Info("Qualified candidate")
	}

	return nil
}
