package scan

import (
	"math"
	"time"

	"github.com/hyunwoo/tradeideas/internal/contracts"
)

// anchorToleranceDays bounds how far from the announcement date the
// anchor trading day may sit.
const anchorToleranceDays = 5

// Rebase normalizes a price series so the close on the announcement
// date equals 1.0. When the announcement falls on a non-trading day,
// the nearest trading date within the tolerance window anchors instead
// (ties broken toward the earlier date). Each point is tagged with its
// signed calendar-day offset from the anchor.
//
// No trading day within tolerance, or a non-positive anchor price,
// excludes the symbol via a skip outcome.
func Rebase(series contracts.PriceSeries, announcement time.Time) ([]contracts.RebasedPoint, contracts.SkipReason) {
	if len(series) == 0 {
		return nil, contracts.SkipDataUnavailable
	}

	anchorIdx := -1
	bestDiff := math.MaxInt
	for i, p := range series {
		diff := absDays(p.Date, announcement)
		if diff < bestDiff {
			bestDiff = diff
			anchorIdx = i
		}
	}

	if bestDiff > anchorToleranceDays {
		return nil, contracts.SkipInvalidAnchor
	}

	anchor := series[anchorIdx]
	if anchor.Close <= 0 {
		return nil, contracts.SkipComputationDegenerate
	}

	points := make([]contracts.RebasedPoint, len(series))
	for i, p := range series {
		points[i] = contracts.RebasedPoint{
			Date:      p.Date,
			Price:     p.Close,
			Rebased:   p.Close / anchor.Close,
			DayOffset: signedDays(anchor.Date, p.Date),
		}
	}

	return points, contracts.SkipNone
}

// signedDays returns the calendar-day distance from a to b, negative
// when b precedes a.
func signedDays(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bd.Sub(ad).Hours() / 24)
}

func absDays(a, b time.Time) int {
	d := signedDays(a, b)
	if d < 0 {
		return -d
	}
	return d
}
