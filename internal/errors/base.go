package errors

import (
	"fmt"
)

// SkillError is the base error type for all application errors
type SkillError struct {
	Message  string        // Human-readable error message
	Context  *ErrorContext // Rich error context
	Cause    error         // Underlying error (for wrapping)
	ExitCode ExitCode      // Exit code for CLI
}

// Error returns the error message with cause if present
func (e *SkillError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause
func (e *SkillError) Unwrap() error {
	return e.Cause
}

// Code returns the CLI exit code for this error. Embedding promotes it to
// every derived error type.
func (e *SkillError) Code() ExitCode {
	return e.ExitCode
}

// GetUserMessage returns a user-friendly error message with context
func (e *SkillError) GetUserMessage() string {
	msg := fmt.Sprintf("ERROR: %s", Sanitize(e.Message))

	if e.Cause != nil {
		msg += fmt.Sprintf("\nCause: %s", Sanitize(e.Cause.Error()))
	}

	if e.Context != nil {
		msg += e.Context.Format()
	}

	return msg
}

// NewError creates a new SkillError with the given message and exit code
func NewError(message string, exitCode ExitCode) *SkillError {
	return &SkillError{
		Message:  message,
		ExitCode: exitCode,
	}
}

// WrapError wraps an existing error with additional context
func WrapError(cause error, message string, exitCode ExitCode) *SkillError {
	return &SkillError{
		Message:  message,
		Cause:    cause,
		ExitCode: exitCode,
	}
}

// WrapErrorWithContext wraps an error with full context
func WrapErrorWithContext(cause error, message string, exitCode ExitCode, context *ErrorContext) *SkillError {
	return &SkillError{
		Message:  message,
		Context:  context,
		Cause:    cause,
		ExitCode: exitCode,
	}
}
