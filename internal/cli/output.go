package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/benchnb/internal/model"
)

var (
	progressColor = color.New(color.FgCyan)
	successColor  = color.New(color.FgGreen, color.Bold)
)

// colorEnabledFor reports whether colored output suits f. color.NoColor only
// describes stdout, so streams such as stderr are checked on their own.
func colorEnabledFor(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// printProgress writes one provisioning progress line.
func printProgress(w io.Writer, msg string) {
	progressColor.Fprintln(w, msg)
}

// printGenerateResult outputs the generate result in text or JSON format.
func printGenerateResult(cmd *cobra.Command, result model.GenerateResult) error {
	if IsJSONOutput() {
		return printGenerateResultJSON(cmd.OutOrStdout(), result)
	}
	printGenerateResultText(cmd.OutOrStdout(), result)
	return nil
}

// printGenerateResultJSON outputs the result as structured JSON.
func printGenerateResultJSON(w io.Writer, result model.GenerateResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to encode result", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

// printGenerateResultText prints the confirmation line.
func printGenerateResultText(w io.Writer, result model.GenerateResult) {
	successColor.Fprintf(w, "Generated: %s\n", result.Output)
}
