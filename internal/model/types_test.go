package model

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvironmentStatus_String(t *testing.T) {
	tests := []struct {
		status EnvironmentStatus
		want   string
	}{
		{EnvCreated, "created"},
		{EnvExisting, "existing"},
		{EnvSkipped, "skipped"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.String())
		})
	}
}

func TestEnvironmentStatus_IsValid(t *testing.T) {
	assert.True(t, EnvCreated.IsValid())
	assert.True(t, EnvExisting.IsValid())
	assert.True(t, EnvSkipped.IsValid())
	assert.False(t, EnvironmentStatus("").IsValid())
	assert.False(t, EnvironmentStatus("deleted").IsValid())
}

// TestCLIError verifies the custom error type used for exit code mapping.
func TestCLIError(t *testing.T) {
	t.Run("simple error", func(t *testing.T) {
		err := NewCLIError(ExitWriteFailed, "cannot write notebook")
		assert.Equal(t, ExitWriteFailed, err.Code)
		assert.Equal(t, "cannot write notebook", err.Error())
		assert.Nil(t, err.Unwrap())
	})

	t.Run("wrapped error", func(t *testing.T) {
		inner := errors.New("permission denied")
		err := WrapCLIError(ExitWriteFailed, "cannot write notebook", inner)
		assert.Equal(t, ExitWriteFailed, err.Code)
		assert.Contains(t, err.Error(), "permission denied")
		assert.Equal(t, inner, err.Unwrap())
	})

	t.Run("errors.Is chain", func(t *testing.T) {
		inner := errors.New("permission denied")
		err := WrapCLIError(ExitWriteFailed, "cannot write notebook", inner)
		assert.True(t, errors.Is(err, inner))
	})

	t.Run("errors.As through fmt wrapping", func(t *testing.T) {
		err := fmt.Errorf("generate: %w", NewCLIError(ExitConfigError, "bad config"))
		var cliErr *CLIError
		require.True(t, errors.As(err, &cliErr))
		assert.Equal(t, ExitConfigError, cliErr.Code)
	})
}

// TestProcessExitCode verifies that a subprocess's exit status is recovered
// from a wrapped *exec.ExitError and that other errors use the fallback.
func TestProcessExitCode(t *testing.T) {
	t.Run("non exit error uses fallback", func(t *testing.T) {
		got := ProcessExitCode(errors.New("executable file not found"), ExitProvisionFailed)
		assert.Equal(t, ExitProvisionFailed, got)
	})

	t.Run("nil uses fallback", func(t *testing.T) {
		assert.Equal(t, ExitGeneralError, ProcessExitCode(nil, ExitGeneralError))
	})

	t.Run("exit error code is propagated", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("requires a POSIX shell")
		}
		runErr := exec.Command("sh", "-c", "exit 3").Run()
		require.Error(t, runErr)

		wrapped := fmt.Errorf("pip install failed: %w", runErr)
		assert.Equal(t, ExitCode(3), ProcessExitCode(wrapped, ExitProvisionFailed))
	})
}
