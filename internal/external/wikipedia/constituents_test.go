package wikipedia

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docFrom(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

const sp500TableHTML = `
<table id="constituents" class="wikitable">
<tbody>
<tr><th>Symbol</th><th>Security</th><th>GICS Sector</th><th>GICS Sub-Industry</th></tr>
<tr><td>MMM</td><td>3M</td><td>Industrials</td><td>Industrial Conglomerates</td></tr>
<tr><td>AOS</td><td>A. O. Smith</td><td>Industrials</td><td>Building Products</td></tr>
<tr><td>BRK.B</td><td>Berkshire Hathaway</td><td>Financials</td><td>Multi-Sector Holdings</td></tr>
<tr><td>MMM</td><td>Duplicate row</td><td>Industrials</td><td>Industrial Conglomerates</td></tr>
<tr><td>AAPL[1]</td><td>Apple Inc.[2]</td><td>Information Technology</td><td>Technology Hardware</td></tr>
</tbody>
</table>`

func TestParseConstituentTable_SP500(t *testing.T) {
	doc := docFrom(t, sp500TableHTML)
	table := doc.Find("table#constituents").First()

	companies := parseConstituentTable(table, indexPages[IndexSP500])
	require.Len(t, companies, 4, "duplicate symbols are dropped")

	assert.Equal(t, "MMM", companies[0].Symbol)
	assert.Equal(t, "3M", companies[0].Name)
	assert.Equal(t, "Industrials", companies[0].Sector)
	assert.Equal(t, "Industrial Conglomerates", companies[0].SubIndustry)

	// Dotted share classes survive symbol cleaning.
	assert.Equal(t, "BRK.B", companies[2].Symbol)

	// Footnote markers are stripped from both columns.
	assert.Equal(t, "AAPL1", companies[3].Symbol) // brackets go, digits stay
	assert.Equal(t, "Apple Inc.", companies[3].Name)
}

func TestParseConstituentTable_SymbolSuffix(t *testing.T) {
	html := `
<table id="constituents" class="wikitable">
<tbody>
<tr><th>Company</th><th>Ticker</th></tr>
<tr><td>Shell plc</td><td>SHEL</td></tr>
<tr><td>AstraZeneca</td><td>AZN</td></tr>
</tbody>
</table>`

	doc := docFrom(t, html)
	table := doc.Find("table#constituents").First()

	companies := parseConstituentTable(table, indexPages[IndexFTSE100])
	require.Len(t, companies, 2)
	assert.Equal(t, "SHEL.L", companies[0].Symbol)
	assert.Equal(t, "Shell plc", companies[0].Name)
	assert.Equal(t, "AZN.L", companies[1].Symbol)
}

func TestParseConstituentTable_ShortRowsSkipped(t *testing.T) {
	html := `
<table id="constituents" class="wikitable">
<tbody>
<tr><th>Symbol</th><th>Security</th></tr>
<tr><td>ONLY</td></tr>
<tr><td>OK</td><td>Okay Corp</td></tr>
</tbody>
</table>`

	doc := docFrom(t, html)
	table := doc.Find("table#constituents").First()

	companies := parseConstituentTable(table, indexPages[IndexSP500])
	require.Len(t, companies, 1)
	assert.Equal(t, "OK", companies[0].Symbol)
}

func TestFindTableWithHeaders(t *testing.T) {
	html := `
<table class="wikitable"><tbody><tr><th>Something else</th></tr></tbody></table>
<table class="wikitable"><tbody><tr><th>Ticker</th><th>Company</th></tr></tbody></table>`

	doc := docFrom(t, html)
	table := findTableWithHeaders(doc, "ticker")
	require.NotNil(t, table)
	assert.Contains(t, strings.ToLower(table.Find("th").Text()), "ticker")

	assert.Nil(t, findTableWithHeaders(doc, "nonexistent"))
}

func TestCleanSymbol(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{" AAPL \n", "AAPL"},
		{"BRK.B", "BRK.B"},
		{"RDS-A", "RDS-A"},
		{"MC ", "MC"}, // non-breaking space from wiki markup
		{"NYSE: GE", "NYSEGE"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanSymbol(tt.in), "input %q", tt.in)
	}
}

func TestSupportedIndexes(t *testing.T) {
	for _, index := range SupportedIndexes() {
		_, ok := indexPages[index]
		assert.True(t, ok, "index %s must have a page layout", index)
	}
}
