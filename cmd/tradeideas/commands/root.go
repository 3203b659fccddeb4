package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	jsonOutput bool
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tradeideas",
	Short: "Equity signal scanner and index inclusion screener",
	Long: `tradeideas scans US equities for moving average cross signals and
scores index inclusion candidates against the published S&P 500
admission criteria.

Usage:
  go run ./cmd/tradeideas [command]

Examples:
  go run ./cmd/tradeideas scan --index sp500
  go run ./cmd/tradeideas candidates --limit 20
  go run ./cmd/tradeideas performance --symbols TSLA --date 2020-12-21
  go run ./cmd/tradeideas api`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print results as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
