// Package model defines the shared result types, exit codes and error type
// for the benchnb CLI.
//
// This package contains pure data structures with no external dependencies.
// The notebook document itself lives in internal/notebook; the types here
// describe the outcome of a single generate run so that the CLI layer can
// render it as text or JSON.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
