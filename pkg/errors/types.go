package errors

import (
	"fmt"
)

// MissingFieldError represents a missing required field.
type MissingFieldError struct {
	Field string
}

func (err MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", err.Field)
}

// FileNotFound represents when we were unable to access a file
// because the path didn't exist, or wasn't a regular file.
type FileNotFound struct {
	Path string
}

func (err FileNotFound) Error() string {
	return fmt.Sprintf("%q does not exist", err.Path)
}

// ToolNotFound represents when the transfer tool executable couldn't be
// resolved.
type ToolNotFound struct {
	Path string
}

func (err ToolNotFound) Error() string {
	return fmt.Sprintf("transfer tool not found at %q", err.Path)
}

// TransferFailed represents a transfer tool invocation that exited with a
// non-zero status.
type TransferFailed struct {
	Command  string
	ExitCode int
	Detail   string
}

func (err TransferFailed) Error() string {
	msg := fmt.Sprintf("%q exited with status %d", err.Command, err.ExitCode)
	if err.Detail != "" {
		msg += ": " + err.Detail
	}
	return msg
}
