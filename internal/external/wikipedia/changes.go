package wikipedia

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/hyunwoo/tradeideas/internal/contracts"
)

// changeDateLayouts covers the date styles the changes table has used
// over the years.
var changeDateLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"2006-01-02",
}

// symbolNameRe matches compact "SYM (Company Name)" change cells.
var symbolNameRe = regexp.MustCompile(`^([A-Z][\w.-]*)\s*\((.+)\)$`)

// Changes scrapes the S&P 500 historical component changes table,
// newest change first.
func (c *Client) Changes(ctx context.Context) ([]contracts.IndexChange, error) {
	doc, err := c.fetchDocument(ctx, indexPages[IndexSP500].path)
	if err != nil {
		return nil, fmt.Errorf("fetch index changes: %w", err)
	}

	table := doc.Find("table#changes").First()
	if table.Length() == 0 {
		table = findTableWithHeaders(doc, "added", "removed")
	}
	if table == nil || table.Length() == 0 {
		return nil, fmt.Errorf("changes table not found")
	}

	changes := parseChangesTable(table)
	if len(changes) == 0 {
		return nil, fmt.Errorf("changes table yielded no rows")
	}

	sort.Slice(changes, func(i, j int) bool {
		return changes[i].Date.After(changes[j].Date)
	})

	c.logger.WithField("count", len(changes)).Info("Scraped index change history")

	return changes, nil
}

// ChangesSince filters the change history to events on or after the cutoff.
func (c *Client) ChangesSince(ctx context.Context, cutoff time.Time) ([]contracts.IndexChange, error) {
	all, err := c.Changes(ctx)
	if err != nil {
		return nil, err
	}

	var recent []contracts.IndexChange
	for _, ch := range all {
		if !ch.Date.Before(cutoff) {
			recent = append(recent, ch)
		}
	}
	return recent, nil
}

// parseChangesTable extracts additions and removals from the changes
// table. The wide layout carries separate ticker and security columns
// for each side; older revisions collapse a side into one
// "SYM (Company)" cell, which parseChangeCell also accepts.
func parseChangesTable(table *goquery.Selection) []contracts.IndexChange {
	var (
		changes  []contracts.IndexChange
		lastDate time.Time
	)

	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 3 {
			return
		}

		texts := make([]string, cells.Length())
		for i := range texts {
			texts[i] = cleanName(cells.Eq(i).Text())
		}

		col := 0
		date, ok := parseChangeDate(texts[0])
		if ok {
			lastDate = date
			col = 1
		} else if lastDate.IsZero() {
			return // no date context yet
		} else {
			// Rowspan continuation: the date cell is omitted and the
			// row starts directly with the added ticker.
			date = lastDate
		}

		var added, removed changeEntry
		switch {
		case cells.Length()-col >= 4:
			added = changeEntry{symbol: cleanSymbol(texts[col]), name: texts[col+1]}
			removed = changeEntry{symbol: cleanSymbol(texts[col+2]), name: texts[col+3]}
		case cells.Length()-col >= 2:
			added = parseChangeCell(texts[col])
			removed = parseChangeCell(texts[col+1])
		default:
			return
		}

		reason := ""
		if n := cells.Length(); n > col {
			reason = texts[n-1]
		}

		if added.symbol != "" {
			changes = append(changes, contracts.IndexChange{
				Date:       date,
				ChangeType: contracts.ChangeAdded,
				Symbol:     added.symbol,
				Company:    added.name,
				Reason:     reason,
			})
		}
		if removed.symbol != "" {
			changes = append(changes, contracts.IndexChange{
				Date:       date,
				ChangeType: contracts.ChangeRemoved,
				Symbol:     removed.symbol,
				Company:    removed.name,
				Reason:     reason,
			})
		}
	})

	return changes
}

// changeEntry is one side (added or removed) of a change row.
type changeEntry struct {
	symbol string
	name   string
}

// parseChangeCell handles the compact "SYM (Company)" cell format.
func parseChangeCell(text string) changeEntry {
	text = strings.TrimSpace(text)
	if text == "" {
		return changeEntry{}
	}
	if m := symbolNameRe.FindStringSubmatch(text); m != nil {
		return changeEntry{symbol: cleanSymbol(m[1]), name: strings.TrimSpace(m[2])}
	}
	// Bare ticker with no company name.
	if sym := cleanSymbol(text); sym != "" && sym == strings.ToUpper(sym) && len(sym) <= 6 {
		return changeEntry{symbol: sym}
	}
	return changeEntry{}
}

// parseChangeDate tries the known table date layouts.
func parseChangeDate(text string) (time.Time, bool) {
	text = strings.TrimSpace(text)
	for _, layout := range changeDateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
