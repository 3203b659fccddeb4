package main

import (
	"os"

	"github.com/hyunwoo/tradeideas/cmd/tradeideas/commands"
)

// main is the entry point for the tradeideas CLI.
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
