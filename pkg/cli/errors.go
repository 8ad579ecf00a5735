package cli

import (
	"errors"
	"fmt"
)

// Exit statuses returned by ExitCode.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// UsageError reports a command invoked with bad arguments or flags.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

// CommandError represents an error from a command execution.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewUsageError creates a UsageError with a formatted message.
func NewUsageError(format string, args ...any) *UsageError {
	return &UsageError{Message: fmt.Sprintf(format, args...)}
}

// NewCommandError creates a new CommandError.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Err:     err,
	}
}

// ExitCode returns the process exit status for err.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var usage *UsageError
	if errors.As(err, &usage) {
		return ExitUsage
	}
	return ExitError
}
