package wikipedia

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/hyunwoo/tradeideas/internal/contracts"
)

// Supported index identifiers.
const (
	IndexSP500     = "sp500"
	IndexNasdaq100 = "nasdaq100"
	IndexRussell1k = "russell1000"
	IndexFTSE100   = "ftse100"
	IndexEuroStoxx = "eurostoxx50"
)

// indexPage describes how one index list page is laid out.
type indexPage struct {
	path      string
	selector  string // table selector, first match wins
	symbolCol int
	nameCol   int
	suffix    string // appended to every symbol, e.g. ".L" for LSE
}

var indexPages = map[string]indexPage{
	IndexSP500: {
		path:      "/wiki/List_of_S%26P_500_companies",
		selector:  "table#constituents",
		symbolCol: 0,
		nameCol:   1,
	},
	IndexNasdaq100: {
		path:      "/wiki/Nasdaq-100",
		selector:  "table#constituents",
		symbolCol: 1,
		nameCol:   0,
	},
	IndexRussell1k: {
		path:      "/wiki/Russell_1000_Index",
		selector:  "table.wikitable",
		symbolCol: 1,
		nameCol:   0,
	},
	IndexFTSE100: {
		path:      "/wiki/FTSE_100_Index",
		selector:  "table#constituents",
		symbolCol: 1,
		nameCol:   0,
		suffix:    ".L",
	},
	IndexEuroStoxx: {
		path:      "/wiki/EURO_STOXX_50",
		selector:  "table#constituents",
		symbolCol: 1,
		nameCol:   0,
	},
}

// SupportedIndexes returns the index identifiers this provider can scrape.
func SupportedIndexes() []string {
	return []string{IndexSP500, IndexNasdaq100, IndexRussell1k, IndexFTSE100, IndexEuroStoxx}
}

// Constituents scrapes the membership list of the given index.
// Implements contracts.ConstituentsProvider.
func (c *Client) Constituents(ctx context.Context, index string) ([]contracts.Company, error) {
	page, ok := indexPages[strings.ToLower(index)]
	if !ok {
		return nil, fmt.Errorf("unsupported index: %s", index)
	}

	doc, err := c.fetchDocument(ctx, page.path)
	if err != nil {
		return nil, fmt.Errorf("fetch %s constituents: %w", index, err)
	}

	table := doc.Find(page.selector).First()
	if table.Length() == 0 {
		// Some list pages drop the id attribute between edits.
		table = findTableWithHeaders(doc, "symbol", "ticker")
	}
	if table == nil || table.Length() == 0 {
		return nil, fmt.Errorf("constituent table not found for %s", index)
	}

	companies := parseConstituentTable(table, page)
	if len(companies) == 0 {
		return nil, fmt.Errorf("constituent table for %s yielded no rows", index)
	}

	c.logger.WithFields(map[string]interface{}{
		"index": index,
		"count": len(companies),
	}).Info("Scraped index constituents")

	return companies, nil
}

// parseConstituentTable walks a wikitable body and extracts one company
// per row. Rows too short for the configured columns are skipped.
func parseConstituentTable(table *goquery.Selection, page indexPage) []contracts.Company {
	var companies []contracts.Company
	seen := make(map[string]bool)

	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		maxCol := page.symbolCol
		if page.nameCol > maxCol {
			maxCol = page.nameCol
		}
		if cells.Length() <= maxCol {
			return // header row or malformed row
		}

		symbol := cleanSymbol(cells.Eq(page.symbolCol).Text())
		if symbol == "" || seen[symbol] {
			return
		}
		seen[symbol] = true

		company := contracts.Company{
			Symbol: symbol + page.suffix,
			Name:   cleanName(cells.Eq(page.nameCol).Text()),
		}
		if cells.Length() > page.nameCol+2 {
			company.Sector = cleanName(cells.Eq(page.nameCol + 1).Text())
			company.SubIndustry = cleanName(cells.Eq(page.nameCol + 2).Text())
		}

		companies = append(companies, company)
	})

	return companies
}

// findTableWithHeaders returns the first wikitable whose header row
// mentions any of the given keywords.
func findTableWithHeaders(doc *goquery.Document, keywords ...string) *goquery.Selection {
	var match *goquery.Selection

	doc.Find("table.wikitable").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		header := strings.ToLower(table.Find("th").Text())
		for _, kw := range keywords {
			if strings.Contains(header, kw) {
				match = table
				return false
			}
		}
		return true
	})

	return match
}
