package scan

import (
	"context"
	"sort"
	"sync"

	"github.com/hyunwoo/tradeideas/internal/contracts"
	"github.com/hyunwoo/tradeideas/internal/scoring"
	"github.com/hyunwoo/tradeideas/pkg/logger"
)

// CandidateScanner scores a list of companies against index admission
// criteria and ranks them by score.
type CandidateScanner struct {
	scorer       *scoring.Scorer
	fundamentals contracts.FundamentalsProvider
	workers      int
	logger       *logger.Logger

	// OnProgress is invoked after each company completes. Optional.
	OnProgress Progress
}

// CandidateReport holds ranked scoring results. Candidates are sorted
// by score descending.
type CandidateReport struct {
	Candidates  []contracts.CandidateResult  `json:"candidates"`
	Requested   int                          `json:"requested"`
	Scored      int                          `json:"scored"`
	Skipped     int                          `json:"skipped"`
	SkipReasons map[contracts.SkipReason]int `json:"skip_reasons,omitempty"`
}

// Qualified returns only candidates passing every hard criterion.
func (r *CandidateReport) Qualified() []contracts.CandidateResult {
	qualified := make([]contracts.CandidateResult, 0, len(r.Candidates))
	for _, c := range r.Candidates {
		if c.MeetsHardCriteria {
			qualified = append(qualified, c)
		}
	}
	return qualified
}

// NewCandidateScanner creates a candidate scanner.
func NewCandidateScanner(
	scorer *scoring.Scorer,
	fundamentals contracts.FundamentalsProvider,
	workers int,
	log *logger.Logger,
) *CandidateScanner {
	if workers < 1 {
		workers = 1
	}
	return &CandidateScanner{
		scorer:       scorer,
		fundamentals: fundamentals,
		workers:      workers,
		logger:       log,
	}
}

type candidateOutcome struct {
	result *contracts.CandidateResult
	reason contracts.SkipReason
}

// Scan scores every company in isolation. Companies whose fundamentals
// cannot be fetched are counted as skipped; a cancelled context
// returns the candidates gathered so far with the context error.
func (s *CandidateScanner) Scan(ctx context.Context, companies []contracts.Company) (*CandidateReport, error) {
	report := &CandidateReport{
		Requested:   len(companies),
		SkipReasons: make(map[contracts.SkipReason]int),
	}
	if len(companies) == 0 {
		return report, nil
	}

	s.logger.WithField("companies", len(companies)).Info("Starting candidate scoring")

	jobs := make(chan contracts.Company)
	outcomes := make(chan candidateOutcome)

	workers := s.workers
	if workers > len(companies) {
		workers = len(companies)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for company := range jobs {
				outcomes <- s.evaluate(ctx, company)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, company := range companies {
			select {
			case jobs <- company:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	done := 0
	for outcome := range outcomes {
		done++
		if s.OnProgress != nil {
			s.OnProgress(done, len(companies), "")
		}

		if outcome.reason.Skipped() {
			report.Skipped++
			report.SkipReasons[outcome.reason]++
			continue
		}
		report.Scored++
		report.Candidates = append(report.Candidates, *outcome.result)
	}

	// Inclusion candidates by score descending.
	sort.Slice(report.Candidates, func(i, j int) bool {
		return report.Candidates[i].Score > report.Candidates[j].Score
	})

	s.logger.WithFields(map[string]interface{}{
		"requested": report.Requested,
		"scored":    report.Scored,
		"skipped":   report.Skipped,
	}).Info("Candidate scoring completed")

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

func (s *CandidateScanner) evaluate(ctx context.Context, company contracts.Company) candidateOutcome {
	snapshot, err := s.fundamentals.FetchFundamentals(ctx, company.Symbol)
	if err != nil {
		s.logger.WithFields(map[string]interface{}{
			"symbol": company.Symbol,
			"error":  err.Error(),
		}).Warn("Fundamentals fetch failed, skipping candidate")
		return candidateOutcome{reason: contracts.SkipDataUnavailable}
	}

	// A snapshot with neither market cap nor volume means the source
	// had nothing for this symbol.
	if snapshot.MarketCap == 0 && snapshot.AvgDailyVolume == 0 {
		return candidateOutcome{reason: contracts.SkipDataUnavailable}
	}

	score, breakdown, meetsHard := s.scorer.Score(snapshot)

	name := company.Name
	if name == "" {
		name = company.Symbol
	}

	return candidateOutcome{result: &contracts.CandidateResult{
		Symbol:            company.Symbol,
		Company:           name,
		Sector:            company.Sector,
		Fundamentals:      snapshot,
		Score:             score,
		Breakdown:         breakdown,
		MeetsHardCriteria: meetsHard,
	}}
}
