// Package scan batches per-symbol analyses into ranked result tables.
// Every symbol is evaluated in isolation: one bad symbol never aborts
// a batch, it is counted as skipped and processing continues.
package scan

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hyunwoo/tradeideas/internal/contracts"
	"github.com/hyunwoo/tradeideas/internal/cross"
	"github.com/hyunwoo/tradeideas/pkg/logger"
)

// Progress observes batch progress. The core calls it after every
// symbol; UI concerns (progress bars, spinners) stay outside.
type Progress func(done, total int, symbol string)

// CrossScanner runs cross detection across a universe of symbols.
type CrossScanner struct {
	detector     *cross.Detector
	prices       contracts.PriceProvider
	fundamentals contracts.FundamentalsProvider // optional enrichment
	workers      int
	logger       *logger.Logger

	// OnProgress is invoked after each symbol completes. Optional.
	OnProgress Progress
}

// CrossScanReport is the outcome of one scan. Events are sorted by
// cross date descending. Requested vs Analyzed+Skipped makes partial
// failure observable to callers.
type CrossScanReport struct {
	Events      []contracts.CrossEvent      `json:"events"`
	Requested   int                         `json:"requested"`
	Analyzed    int                         `json:"analyzed"`
	Skipped     int                         `json:"skipped"`
	SkipReasons map[contracts.SkipReason]int `json:"skip_reasons,omitempty"`
}

// NewCrossScanner creates a scanner. fundamentals may be nil, in which
// case events carry only price-derived fields.
func NewCrossScanner(
	detector *cross.Detector,
	prices contracts.PriceProvider,
	fundamentals contracts.FundamentalsProvider,
	workers int,
	log *logger.Logger,
) *CrossScanner {
	if workers < 1 {
		workers = 1
	}
	return &CrossScanner{
		detector:     detector,
		prices:       prices,
		fundamentals: fundamentals,
		workers:      workers,
		logger:       log,
	}
}

type crossOutcome struct {
	event  *contracts.CrossEvent
	reason contracts.SkipReason
}

// Scan evaluates every symbol for a recent cross. lookbackDays bounds
// the history window on top of the long moving-average warmup. A
// cancelled context abandons the remaining symbols but still returns
// the results gathered so far alongside the context error.
func (s *CrossScanner) Scan(ctx context.Context, symbols []string, lookbackDays int, now time.Time) (*CrossScanReport, error) {
	report := &CrossScanReport{
		Requested:   len(symbols),
		SkipReasons: make(map[contracts.SkipReason]int),
	}
	if len(symbols) == 0 {
		return report, nil
	}

	s.logger.WithFields(map[string]interface{}{
		"symbols":  len(symbols),
		"lookback": lookbackDays,
	}).Info("Starting cross scan")

	// History must cover the lookback plus the long MA warmup.
	from := now.AddDate(0, 0, -(lookbackDays + cross.LongWindow))

	jobs := make(chan string)
	outcomes := make(chan crossOutcome)

	workers := s.workers
	if workers > len(symbols) {
		workers = len(symbols)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for symbol := range jobs {
				event, reason := s.evaluate(ctx, symbol, from, now)
				outcomes <- crossOutcome{event: event, reason: reason}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, symbol := range symbols {
			select {
			case jobs <- symbol:
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
			s.OnProgress(done, len(symbols), "")
		}

		if outcome.reason.Skipped() {
			report.Skipped++
			report.SkipReasons[outcome.reason]++
			continue
		}
		report.Analyzed++
		if outcome.event != nil {
			report.Events = append(report.Events, *outcome.event)
		}
	}

	// Cross events by date descending.
	sort.Slice(report.Events, func(i, j int) bool {
		return report.Events[i].CrossDate.After(report.Events[j].CrossDate)
	})

	s.logger.WithFields(map[string]interface{}{
		"requested": report.Requested,
		"analyzed":  report.Analyzed,
		"skipped":   report.Skipped,
		"events":    len(report.Events),
	}).Info("Cross scan completed")

	if err := ctx.Err(); err != nil {
		// Partial results, not all-or-nothing.
		return report, err
	}
	return report, nil
}

// evaluate analyzes a single symbol. All data-fetch and computation
// failures are converted to skip outcomes.
func (s *CrossScanner) evaluate(ctx context.Context, symbol string, from, now time.Time) (*contracts.CrossEvent, contracts.SkipReason) {
	series, err := s.prices.FetchPrices(ctx, symbol, from, now)
	if err != nil {
		s.logger.WithFields(map[string]interface{}{
			"symbol": symbol,
			"error":  err.Error(),
		}).Warn("Price fetch failed, skipping symbol")
		return nil, contracts.SkipDataUnavailable
	}
	if len(series) == 0 {
		return nil, contracts.SkipDataUnavailable
	}

	event, reason := s.detector.Detect(symbol, series, now)
	if event == nil || reason.Skipped() {
		return nil, reason
	}

	s.enrich(ctx, event)
	return event, contracts.SkipNone
}

// enrich attaches company name and valuation fields best-effort. A
// failed fundamentals fetch leaves the event price-only.
func (s *CrossScanner) enrich(ctx context.Context, event *contracts.CrossEvent) {
	if s.fundamentals == nil {
		return
	}

	snapshot, err := s.fundamentals.FetchFundamentals(ctx, event.Symbol)
	if err != nil {
		s.logger.WithFields(map[string]interface{}{
			"symbol": event.Symbol,
			"error":  err.Error(),
		}).Debug("Fundamentals enrichment failed")
		return
	}

	if snapshot.Name != "" {
		event.Company = snapshot.Name
	}
	if snapshot.ForwardPE != 0 {
		v := snapshot.ForwardPE
		event.ForwardPE = &v
	}
	if snapshot.TrailingPE != 0 {
		v := snapshot.TrailingPE
		event.TrailingPE = &v
	}
	if snapshot.MarketCap != 0 {
		v := snapshot.MarketCap / 1e9
		event.MarketCapB = &v
	}
}
