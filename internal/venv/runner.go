package venv

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Runner runs an external command to completion.
//
// Implementations must return a non-nil error when the command cannot be
// started or exits with a non-zero status. ExecRunner preserves the
// *exec.ExitError in the error chain so callers can recover the exit code.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// ExecRunner runs commands with os/exec, streaming their output.
//
// The command's stdout and stderr are passed through rather than captured:
// pip's own diagnostics are what the user needs to see when an install
// fails.
type ExecRunner struct {
	// Stdout and Stderr receive the command's output. Nil means the
	// corresponding stream of the current process.
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes name with args and waits for it to exit. No timeout is
// applied beyond what ctx carries.
func (r ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	// #nosec G204 -- name is the configured interpreter or the environment's pip
	cmd := exec.CommandContext(ctx, name, args...)

	cmd.Stdout = r.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = r.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %s failed: %w", name, strings.Join(args, " "), err)
	}
	return nil
}
