package cli

import "fmt"

// Exit codes returned by commands through CommandError.
const (
	// ExitNoKeywords means the keyword source held no keywords.
	ExitNoKeywords = 1
	// ExitDiagnostics means --strict rejected a keyword list with warnings.
	ExitDiagnostics = 2
)

// CommandError signals a command failure with a specific exit code.
// Commands return this after printing their errors to stderr, so main only
// has to exit.
type CommandError struct {
	exitCode int
	reason   string
}

// NewCommandError creates a new CommandError with the given exit code.
func NewCommandError(exitCode int) *CommandError {
	return &CommandError{exitCode: exitCode}
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	if e.reason != "" {
		return fmt.Sprintf("command failed: %s", e.reason)
	}
	return "command failed"
}

// ExitCode returns the exit code associated with this error.
func (e *CommandError) ExitCode() int {
	return e.exitCode
}

// Because attaches a short reason shown by Error.
func (e *CommandError) Because(reason string) *CommandError {
	e.reason = reason
	return e
}
