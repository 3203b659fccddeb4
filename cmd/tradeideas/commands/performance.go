package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hyunwoo/tradeideas/internal/scan"
)

// performanceCmd represents the performance command
var performanceCmd = &cobra.Command{
	Use:   "performance",
	Short: "Study price performance around an announcement date",
	Long: `Rebases each symbol's closes to 1.0 at the trading day nearest
the announcement date and reports pre, post and total returns plus
annualized volatility.

Example:
  go run ./cmd/tradeideas performance --symbols TSLA --date 2020-12-21
  go run ./cmd/tradeideas performance --symbols COIN,HOOD --date 2025-03-24 --window 120`,
	RunE: runPerformance,
}

var (
	perfSymbols string
	perfDate    string
	perfWindow  int
)

func init() {
	rootCmd.AddCommand(performanceCmd)

	performanceCmd.Flags().StringVar(&perfSymbols, "symbols", "", "comma separated symbols (required)")
	performanceCmd.Flags().StringVar(&perfDate, "date", "", "announcement date YYYY-MM-DD (required)")
	performanceCmd.Flags().IntVar(&perfWindow, "window", 90, "days fetched on each side of the date")
	performanceCmd.MarkFlagRequired("symbols")
	performanceCmd.MarkFlagRequired("date")
}

func runPerformance(cmd *cobra.Command, args []string) error {
	announcement, err := time.Parse("2006-01-02", perfDate)
	if err != nil {
		return fmt.Errorf("invalid --date (expected YYYY-MM-DD): %w", err)
	}
	if perfWindow <= 0 {
		return fmt.Errorf("invalid --window: %d", perfWindow)
	}

	var symbols []string
	for _, s := range strings.Split(perfSymbols, ",") {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s != "" {
			symbols = append(symbols, s)
		}
	}
	if len(symbols) == 0 {
		return fmt.Errorf("no valid symbols in %q", perfSymbols)
	}

	d, err := build(true)
	if err != nil {
		return err
	}
	defer d.close()

	from := announcement.AddDate(0, 0, -perfWindow)
	to := announcement.AddDate(0, 0, perfWindow)

	report, err := d.performance.Run(cmd.Context(), symbols, announcement, from, to)
	if err != nil {
		return fmt.Errorf("performance study: %w", err)
	}

	if jsonOutput {
		return printJSON(report)
	}

	printPerformanceReport(report)
	return nil
}

func printPerformanceReport(report *scan.PerformanceReport) {
	printBanner(fmt.Sprintf("Performance around %s (%d/%d symbols included)",
		report.Announcement.Format("2006-01-02"), report.Included, report.Requested))

	fmt.Println()
	fmt.Printf("%-7s %9s %9s %9s %9s\n", "Symbol", "Pre %", "Post %", "Total %", "Vol %")
	for _, m := range report.Metrics {
		fmt.Printf("%-7s %9.2f %9.2f %9.2f %9.2f\n",
			m.Symbol, m.PreReturnPct, m.PostReturnPct, m.TotalReturnPct, m.VolatilityPct)
	}

	if report.Excluded > 0 {
		fmt.Printf("\n%d symbols excluded (no anchor near the announcement date)\n", report.Excluded)
	}
}
