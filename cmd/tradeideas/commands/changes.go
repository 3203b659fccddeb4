package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hyunwoo/tradeideas/internal/contracts"
)

// changesCmd represents the changes command
var changesCmd = &cobra.Command{
	Use:   "changes",
	Short: "List recent S&P 500 membership changes",
	Long: `Lists additions and removals from the S&P 500 historical changes
table. Useful for picking announcement dates for the performance
command.

Example:
  go run ./cmd/tradeideas changes --months 12`,
	RunE: runChanges,
}

var changesMonths int

func init() {
	rootCmd.AddCommand(changesCmd)

	changesCmd.Flags().IntVar(&changesMonths, "months", 6, "history window in months")
}

func runChanges(cmd *cobra.Command, args []string) error {
	d, err := build(false)
	if err != nil {
		return err
	}
	defer d.close()

	cutoff := time.Now().AddDate(0, -changesMonths, 0)
	changes, err := d.wiki.ChangesSince(cmd.Context(), cutoff)
	if err != nil {
		return fmt.Errorf("fetch index changes: %w", err)
	}

	if jsonOutput {
		return printJSON(changes)
	}

	printBanner(fmt.Sprintf("S&P 500 changes, last %d months (%d events)", changesMonths, len(changes)))
	fmt.Println()
	for _, ch := range changes {
		direction := "+"
		if ch.ChangeType == contracts.ChangeRemoved {
			direction = "-"
		}
		fmt.Printf("%s  %s %-7s %s\n",
			ch.Date.Format("2006-01-02"), direction, ch.Symbol, ch.Company)
	}

	return nil
}
