// Package handlers implements the HTTP API endpoints.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hyunwoo/tradeideas/internal/contracts"
	"github.com/hyunwoo/tradeideas/internal/external/wikipedia"
	"github.com/hyunwoo/tradeideas/internal/scan"
	"github.com/hyunwoo/tradeideas/pkg/config"
	"github.com/hyunwoo/tradeideas/pkg/logger"
)

// defaultPerformanceWindowDays is the span fetched on each side of the
// announcement date when the caller does not override it.
const defaultPerformanceWindowDays = 90

var errBadSymbols = errors.New("invalid symbols parameter")

// ScanHandler handles scan-related API endpoints.
type ScanHandler struct {
	crosses      *scan.CrossScanner
	candidates   *scan.CandidateScanner
	performance  *scan.PerformanceStudy
	constituents contracts.ConstituentsProvider
	config       *config.Config
	logger       *logger.Logger
}

// NewScanHandler creates a new scan handler.
func NewScanHandler(
	crosses *scan.CrossScanner,
	candidates *scan.CandidateScanner,
	performance *scan.PerformanceStudy,
	constituents contracts.ConstituentsProvider,
	cfg *config.Config,
	log *logger.Logger,
) *ScanHandler {
	return &ScanHandler{
		crosses:      crosses,
		candidates:   candidates,
		performance:  performance,
		constituents: constituents,
		config:       cfg,
		logger:       log,
	}
}

// ScanCrosses runs a moving average cross scan over an index or an
// explicit symbol list.
// GET /api/scan/crosses?index=sp500&lookback=180
// GET /api/scan/crosses?symbols=AAPL,MSFT
func (h *ScanHandler) ScanCrosses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	symbols, err := h.resolveSymbols(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	lookback := h.config.Scan.LookbackDays
	if v := r.URL.Query().Get("lookback"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "Invalid lookback (positive day count expected)")
			return
		}
		lookback = n
	}

	report, err := h.crosses.Scan(ctx, symbols, lookback, time.Now())
	if err != nil {
		h.logger.WithError(err).Error("Cross scan aborted")
		respondError(w, http.StatusInternalServerError, "Cross scan failed")
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// ScanCandidates scores index admission candidates. The candidate pool
// defaults to Russell 1000 members that are not already in the S&P 500.
// GET /api/candidates?limit=20&qualified=true
func (h *ScanHandler) ScanCandidates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	pool := q.Get("index")
	if pool == "" {
		pool = wikipedia.IndexRussell1k
	}

	companies, err := h.constituents.Constituents(ctx, pool)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch candidate pool")
		respondError(w, http.StatusBadGateway, "Failed to fetch candidate pool")
		return
	}

	members, err := h.constituents.Constituents(ctx, wikipedia.IndexSP500)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch index members")
		respondError(w, http.StatusBadGateway, "Failed to fetch index members")
		return
	}
	companies = excludeMembers(companies, members)

	report, err := h.candidates.Scan(ctx, companies)
	if err != nil {
		h.logger.WithError(err).Error("Candidate scan aborted")
		respondError(w, http.StatusInternalServerError, "Candidate scan failed")
		return
	}

	results := report.Candidates
	if q.Get("qualified") == "true" {
		results = report.Qualified()
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n < len(results) {
			results = results[:n]
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"candidates":   results,
		"requested":    report.Requested,
		"scored":       report.Scored,
		"skipped":      report.Skipped,
		"skip_reasons": report.SkipReasons,
	})
}

// Performance rebases a symbol batch around an announcement date and
// returns the rebased series plus summary metrics.
// GET /api/performance?symbols=AAPL,MSFT&date=2026-03-20&window=90
func (h *ScanHandler) Performance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	symbols := splitSymbols(q.Get("symbols"))
	if len(symbols) == 0 {
		respondError(w, http.StatusBadRequest, "Missing symbols parameter")
		return
	}

	announcement, err := time.Parse("2006-01-02", q.Get("date"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid date (expected YYYY-MM-DD)")
		return
	}

	window := defaultPerformanceWindowDays
	if v := q.Get("window"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "Invalid window (positive day count expected)")
			return
		}
		window = n
	}

	from := announcement.AddDate(0, 0, -window)
	to := announcement.AddDate(0, 0, window)

	report, err := h.performance.Run(ctx, symbols, announcement, from, to)
	if err != nil {
		h.logger.WithError(err).Error("Performance study aborted")
		respondError(w, http.StatusInternalServerError, "Performance study failed")
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// ListIndexes returns the index identifiers available for scanning.
// GET /api/indexes
func (h *ScanHandler) ListIndexes(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"indexes": wikipedia.SupportedIndexes(),
	})
}

// resolveSymbols reads either an explicit symbols list or an index name
// from the request.
func (h *ScanHandler) resolveSymbols(r *http.Request) ([]string, error) {
	q := r.URL.Query()

	if raw := q.Get("symbols"); raw != "" {
		symbols := splitSymbols(raw)
		if len(symbols) == 0 {
			return nil, errBadSymbols
		}
		return symbols, nil
	}

	index := q.Get("index")
	if index == "" {
		index = wikipedia.IndexSP500
	}

	companies, err := h.constituents.Constituents(r.Context(), index)
	if err != nil {
		return nil, err
	}

	symbols := make([]string, 0, len(companies))
	for _, c := range companies {
		symbols = append(symbols, c.Symbol)
	}
	return symbols, nil
}

func splitSymbols(raw string) []string {
	var symbols []string
	for _, s := range strings.Split(raw, ",") {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s != "" {
			symbols = append(symbols, s)
		}
	}
	return symbols
}

// excludeMembers drops pool companies already in the member list.
func excludeMembers(pool, members []contracts.Company) []contracts.Company {
	existing := make(map[string]bool, len(members))
	for _, m := range members {
		existing[m.Symbol] = true
	}

	var filtered []contracts.Company
	for _, c := range pool {
		if !existing[c.Symbol] {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
