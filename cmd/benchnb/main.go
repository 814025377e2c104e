// Package main is the entry point for the benchnb CLI.
//
// This binary generates a benchmark analysis notebook from a CSV file and
// optionally provisions a Python virtual environment next to it. All
// functionality lives in internal/cli.
//
// Build-time variables (version, commit, date) are injected via ldflags.
// During development, they default to "dev", "none", and "unknown".
package main

import (
	// Loads a .env file from the working directory, so BENCHNB_* settings
	// can be kept next to the benchmark results.
	_ "github.com/joho/godotenv/autoload"

	"github.com/shinji-kodama/benchnb/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	rootCmd := cli.NewRootCommand()
	cli.Execute(rootCmd)
}
