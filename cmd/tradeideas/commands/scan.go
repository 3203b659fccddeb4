package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hyunwoo/tradeideas/internal/external/wikipedia"
	"github.com/hyunwoo/tradeideas/internal/scan"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for moving average crosses",
	Long: `Scans an index or an explicit symbol list for golden and death
crosses of the 50 and 200 day moving averages, confirmed within the
last seven days.

Example:
  go run ./cmd/tradeideas scan --index sp500
  go run ./cmd/tradeideas scan --symbols AAPL,MSFT,NVDA --lookback 365`,
	RunE: runScan,
}

var (
	scanIndex    string
	scanSymbols  string
	scanLookback int
)

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVar(&scanIndex, "index", wikipedia.IndexSP500, "index to scan")
	scanCmd.Flags().StringVar(&scanSymbols, "symbols", "", "comma separated symbols (overrides --index)")
	scanCmd.Flags().IntVar(&scanLookback, "lookback", 0, "price history window in days (default from config)")
}

func runScan(cmd *cobra.Command, args []string) error {
	d, err := build(true)
	if err != nil {
		return err
	}
	defer d.close()

	ctx := cmd.Context()

	symbols, label, err := resolveScanSymbols(cmd, d, scanSymbols, scanIndex)
	if err != nil {
		return err
	}

	lookback := d.cfg.Scan.LookbackDays
	if scanLookback > 0 {
		lookback = scanLookback
	}

	if !jsonOutput {
		printBanner(fmt.Sprintf("Cross Scan: %s (%d symbols, %dd lookback)", label, len(symbols), lookback))
		d.crosses.OnProgress = func(done, total int, symbol string) {
			if done%25 == 0 || done == total {
				fmt.Printf("  [%d/%d] %s\n", done, total, symbol)
			}
		}
	}

	report, err := d.crosses.Scan(ctx, symbols, lookback, time.Now())
	if err != nil {
		return fmt.Errorf("cross scan: %w", err)
	}

	if jsonOutput {
		return printJSON(report)
	}

	printCrossReport(report)
	return nil
}

// resolveScanSymbols turns the flag pair into a symbol list plus a
// label for output.
func resolveScanSymbols(cmd *cobra.Command, d *deps, rawSymbols, index string) ([]string, string, error) {
	if rawSymbols != "" {
		var symbols []string
		for _, s := range strings.Split(rawSymbols, ",") {
			s = strings.ToUpper(strings.TrimSpace(s))
			if s != "" {
				symbols = append(symbols, s)
			}
		}
		if len(symbols) == 0 {
			return nil, "", fmt.Errorf("no valid symbols in %q", rawSymbols)
		}
		return symbols, "custom list", nil
	}

	companies, err := d.constituents.Constituents(cmd.Context(), index)
	if err != nil {
		return nil, "", fmt.Errorf("fetch %s constituents: %w", index, err)
	}

	symbols := make([]string, 0, len(companies))
	for _, c := range companies {
		symbols = append(symbols, c.Symbol)
	}
	return symbols, index, nil
}

func printCrossReport(report *scan.CrossScanReport) {
	fmt.Println()
	if len(report.Events) == 0 {
		fmt.Println("No crosses found in the confirmation window.")
	}

	for _, e := range report.Events {
		marker := "🟡 GOLDEN"
		if !e.IsBullish() {
			marker = "🔴 DEATH "
		}

		fmt.Printf("%s  %-6s %s  close %.2f  MA50 %.2f  MA200 %.2f",
			marker, e.Symbol, e.CrossDate.Format("2006-01-02"), e.Price, e.MA50, e.MA200)
		if e.RSI != nil {
			fmt.Printf("  RSI %.1f", *e.RSI)
		}
		fmt.Println()
	}

	fmt.Println()
	fmt.Printf("Analyzed %d/%d symbols, %d skipped\n",
		report.Analyzed, report.Requested, report.Skipped)
	for reason, count := range report.SkipReasons {
		fmt.Printf("  skipped (%s): %d\n", reason, count)
	}
}
