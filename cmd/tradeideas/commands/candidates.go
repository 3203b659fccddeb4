package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hyunwoo/tradeideas/internal/contracts"
	"github.com/hyunwoo/tradeideas/internal/external/wikipedia"
	"github.com/hyunwoo/tradeideas/internal/scoring"
)

// candidatesCmd represents the candidates command
var candidatesCmd = &cobra.Command{
	Use:   "candidates",
	Short: "Score index inclusion candidates",
	Long: `Scores companies against the S&P 500 quantitative admission
criteria. The candidate pool defaults to Russell 1000 members not
already in the index.

Example:
  go run ./cmd/tradeideas candidates --limit 20
  go run ./cmd/tradeideas candidates --qualified --json`,
	RunE: runCandidates,
}

var (
	candidatesPool      string
	candidatesLimit     int
	candidatesQualified bool
)

func init() {
	rootCmd.AddCommand(candidatesCmd)

	candidatesCmd.Flags().StringVar(&candidatesPool, "index", wikipedia.IndexRussell1k, "candidate pool index")
	candidatesCmd.Flags().IntVar(&candidatesLimit, "limit", 25, "max candidates to print (0 = all)")
	candidatesCmd.Flags().BoolVar(&candidatesQualified, "qualified", false, "only candidates passing every hard criterion")
}

func runCandidates(cmd *cobra.Command, args []string) error {
	d, err := build(true)
	if err != nil {
		return err
	}
	defer d.close()

	ctx := cmd.Context()

	pool, err := d.constituents.Constituents(ctx, candidatesPool)
	if err != nil {
		return fmt.Errorf("fetch candidate pool: %w", err)
	}

	members, err := d.constituents.Constituents(ctx, wikipedia.IndexSP500)
	if err != nil {
		return fmt.Errorf("fetch index members: %w", err)
	}

	existing := make(map[string]bool, len(members))
	for _, m := range members {
		existing[m.Symbol] = true
	}
	var companies []contracts.Company
	for _, c := range pool {
		if !existing[c.Symbol] {
			companies = append(companies, c)
		}
	}

	if !jsonOutput {
		printBanner(fmt.Sprintf("Inclusion Candidates: %d companies from %s", len(companies), candidatesPool))
		d.candidates.OnProgress = func(done, total int, symbol string) {
			if done%25 == 0 || done == total {
				fmt.Printf("  [%d/%d] %s\n", done, total, symbol)
			}
		}
	}

	report, err := d.candidates.Scan(ctx, companies)
	if err != nil {
		return fmt.Errorf("candidate scan: %w", err)
	}

	results := report.Candidates
	if candidatesQualified {
		results = report.Qualified()
	}
	if candidatesLimit > 0 && candidatesLimit < len(results) {
		results = results[:candidatesLimit]
	}

	if jsonOutput {
		return printJSON(map[string]interface{}{
			"candidates": results,
			"requested":  report.Requested,
			"scored":     report.Scored,
			"skipped":    report.Skipped,
		})
	}

	printCandidates(results)
	fmt.Printf("\nScored %d/%d companies, %d skipped\n",
		report.Scored, report.Requested, report.Skipped)
	for reason, count := range report.SkipReasons {
		fmt.Printf("  %s: %d\n", reason, count)
	}
	return nil
}

func printCandidates(results []contracts.CandidateResult) {
	fmt.Println()
	fmt.Printf("%-4s %-7s %-30s %7s  %5s %5s %5s  %s\n",
		"#", "Symbol", "Company", "Score", "Cap", "Liq", "Flt", "Hard")

	for i, c := range results {
		hard := "pass"
		if !c.MeetsHardCriteria {
			hard = "FAIL"
		}

		name := c.Company
		if len(name) > 30 {
			name = name[:27] + "..."
		}

		fmt.Printf("%-4d %-7s %-30s %7.1f  %5.1f %5.1f %5.1f  %s\n",
			i+1, c.Symbol, name, c.Score,
			c.Breakdown[scoring.CriterionMarketCap],
			c.Breakdown[scoring.CriterionLiquidity],
			c.Breakdown[scoring.CriterionFloat],
			hard)
	}
}
