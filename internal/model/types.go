package model

import (
	"errors"
	"fmt"
	"os/exec"
)

// EnvironmentStatus describes what happened to the dependency environment
// during a generate run.
//
// The state transitions for a given output directory are:
//
//	[absent] → created → existing (every later run)
//
// A run with --no-venv reports skipped regardless of what is on disk.
type EnvironmentStatus string

const (
	// EnvCreated indicates the environment was created and the requirements
	// were installed during this run.
	EnvCreated EnvironmentStatus = "created"

	// EnvExisting indicates an environment directory was already present,
	// so provisioning was a no-op.
	EnvExisting EnvironmentStatus = "existing"

	// EnvSkipped indicates provisioning was disabled with --no-venv.
	EnvSkipped EnvironmentStatus = "skipped"
)

// String returns the string representation of EnvironmentStatus.
func (s EnvironmentStatus) String() string {
	return string(s)
}

// IsValid checks whether the EnvironmentStatus value is one of the
// predefined states.
func (s EnvironmentStatus) IsValid() bool {
	switch s {
	case EnvCreated, EnvExisting, EnvSkipped:
		return true
	default:
		return false
	}
}

// EnvironmentInfo reports the dependency environment associated with a
// generated notebook.
type EnvironmentInfo struct {
	// Path is the absolute path of the environment directory.
	// Empty when provisioning was skipped.
	Path string `json:"path,omitempty"`

	// Status is the outcome of the provisioning step.
	Status EnvironmentStatus `json:"status"`
}

// GenerateResult is the outcome of one successful generate run. It is
// printed as JSON when the --json flag is set.
type GenerateResult struct {
	// Output is the path the notebook was written to, as given by the user.
	Output string `json:"output"`

	// CSVPath is the benchmark CSV path embedded in the notebook, verbatim.
	CSVPath string `json:"csvPath"`

	// Cells is the number of cells in the generated notebook.
	Cells int `json:"cells"`

	// Environment describes the provisioning step.
	Environment EnvironmentInfo `json:"environment"`
}

// ExitCode defines the CLI exit codes. Provisioning failures are the
// exception: they propagate the failed subprocess's own exit code when
// it is known.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitUsage indicates invalid arguments or flags.
	ExitUsage ExitCode = 2

	// ExitConfigError indicates the configuration file could not be
	// read, parsed or validated.
	ExitConfigError ExitCode = 3

	// ExitWriteFailed indicates the notebook could not be written.
	ExitWriteFailed ExitCode = 4

	// ExitProvisionFailed indicates the environment could not be created
	// and the failing process did not report an exit code of its own
	// (for example, the interpreter binary was not found).
	ExitProvisionFailed ExitCode = 5
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}

// ProcessExitCode returns the exit code of the first *exec.ExitError in
// err's chain. When there is none, or the process was killed by a signal
// and has no meaningful code, fallback is returned.
func ProcessExitCode(err error, fallback ExitCode) ExitCode {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code > 0 {
			return ExitCode(code)
		}
	}
	return fallback
}
