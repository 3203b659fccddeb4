package commands

import (
	"encoding/json"
	"fmt"
	"os"
)

// printBanner prints a section header shared by all commands.
func printBanner(title string) {
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Printf("  %s\n", title)
	fmt.Println("═══════════════════════════════════════════════════════════")
}

// printJSON writes indented JSON to stdout for --json mode.
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
