package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestCommandError(t *testing.T) {
	t.Run("implements error interface", func(t *testing.T) {
		err := NewCommandError(ExitNoKeywords)
		assert.Error(t, err)
		assert.Equal(t, "command failed", err.Error())
	})

	t.Run("returns exit code", func(t *testing.T) {
		err := NewCommandError(42)
		assert.Equal(t, 42, err.ExitCode())
	})

	t.Run("reason", func(t *testing.T) {
		err := NewCommandError(ExitDiagnostics).Because("2 keyword warning(s)")
		assert.Equal(t, "command failed: 2 keyword warning(s)", err.Error())
	})

	t.Run("survives wrapping", func(t *testing.T) {
		err := fmt.Errorf("scan: %w", NewCommandError(ExitNoKeywords))
		var cmdErr *CommandError
		assert.True(t, errors.As(err, &cmdErr))
		assert.Equal(t, ExitNoKeywords, cmdErr.ExitCode())
	})
}
