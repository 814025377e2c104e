// Package cli implements the cobra-based command line of benchnb.
//
// benchnb has a single action, so the root command itself generates the
// notebook (generate.go). This file defines the root command, its global
// flags and the error/exit-code handling shared by the whole CLI.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/benchnb/internal/model"
)

// Global flag variables. They are bound in NewRootCommand, which also resets
// them to their defaults.
var (
	// jsonOutput controls whether command output is formatted as JSON.
	jsonOutput bool

	// verbose enables [verbose] trace lines on stderr.
	verbose bool
)

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates the benchnb command with all flags registered.
func NewRootCommand() *cobra.Command {
	flags := &generateFlags{}

	rootCmd := &cobra.Command{
		Use:   "benchnb <csv_file>",
		Short: "Generate a Jupyter notebook for benchmark analysis",
		Long: `benchnb generates a Jupyter notebook that loads a benchmark results CSV
and charts it: summary statistics, mean execution time, percentiles and
performance relative to the fastest benchmark.

Unless --no-venv is given, a Python virtual environment with the analysis
dependencies is created in a .venv directory next to the notebook. An
existing .venv is left untouched.

Examples:
  benchnb benchmark_results.csv
  benchnb -o reports/sorting.ipynb sorting.csv
  benchnb --no-venv results.csv
  benchnb --python /usr/bin/python3.12 results.csv`,

		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(1)(cmd, args); err != nil {
				return model.WrapCLIError(model.ExitUsage, "invalid arguments", err)
			}
			return nil
		},

		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args[0], flags)
		},

		// Errors are printed by Execute so that --json is honored.
		SilenceUsage:  true,
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),
	}

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return model.WrapCLIError(model.ExitUsage, "invalid flag", err)
	})

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	registerGenerateFlags(rootCmd, flags)

	return rootCmd
}

// Execute runs the root command and exits with the code carried by the
// returned error. Usage errors also print the usage text.
func Execute(rootCmd *cobra.Command) {
	err := rootCmd.Execute()
	if err == nil {
		return
	}

	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		printError(cliErr.Message, cliErr.Err)
		if cliErr.Code == model.ExitUsage && !jsonOutput {
			fmt.Fprint(os.Stderr, rootCmd.UsageString())
		}
		os.Exit(int(cliErr.Code))
	}

	printError(err.Error(), nil)
	os.Exit(int(model.ExitGeneralError))
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag.
func printError(message string, underlying error) {
	if jsonOutput {
		errObj := map[string]interface{}{
			"error": map[string]interface{}{
				"message": message,
			},
		}
		if underlying != nil {
			if errMap, ok := errObj["error"].(map[string]interface{}); ok {
				errMap["detail"] = underlying.Error()
			}
		}
		// stdout is reserved for successful command output.
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(os.Stderr, string(data))
		return
	}

	if underlying != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", message, underlying)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", message)
	}
}

// VerboseLog prints a message to stderr only when verbose mode is enabled.
func VerboseLog(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[verbose] "+format+"\n", args...)
	}
}

// IsJSONOutput returns whether the --json flag is set.
func IsJSONOutput() bool {
	return jsonOutput
}
