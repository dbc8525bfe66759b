// Package errors defines the coded errors returned by the log analysis pipeline.
//
// Only two conditions surface from the parsing library itself: a nil line
// sequence (ErrInvalidArgument) and a missing log file (ErrNotFound). Every
// other oddity in log content degrades to default values instead.
package errors

import (
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

const (
	// Parsing errors (LOG-001 to LOG-099)
	ErrCodeInvalidArgument ErrorCode = "LOG-001"

	// File I/O errors (IO-001 to IO-099)
	ErrCodeFileNotFound     ErrorCode = "IO-001"
	ErrCodeFileReadFailed   ErrorCode = "IO-002"
	ErrCodeOutputFailed     ErrorCode = "IO-003"
	ErrCodeInvalidFormat    ErrorCode = "IO-004"
	ErrCodeDirectoryFailure ErrorCode = "IO-005"

	// Configuration errors (CFG-001 to CFG-099)
	ErrCodeConfigInvalid ErrorCode = "CFG-001"

	// Run repository errors (RUN-001 to RUN-099)
	ErrCodeRunNotLoaded ErrorCode = "RUN-001"
)

// Sentinels for errors.Is comparisons. Matching is by code.
var (
	ErrInvalidArgument = New(ErrCodeInvalidArgument, "invalid argument")
	ErrNotFound        = New(ErrCodeFileNotFound, "not found")
	ErrRunNotLoaded    = New(ErrCodeRunNotLoaded, "run not loaded")
	ErrConfigInvalid   = New(ErrCodeConfigInvalid, "invalid configuration")
)

// AnalysisError is an error with a code, optional suggestions and a cause
type AnalysisError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	Cause       error
}

// Error implements the error interface
func (e *AnalysisError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *AnalysisError) Unwrap() error {
	return e.Cause
}

// Is matches any AnalysisError carrying the same code
func (e *AnalysisError) Is(target error) bool {
	t, ok := target.(*AnalysisError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new AnalysisError
func New(code ErrorCode, message string) *AnalysisError {
	return &AnalysisError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new AnalysisError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *AnalysisError {
	return &AnalysisError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *AnalysisError) WithSuggestion(suggestion string) *AnalysisError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// CodeOf returns the code of the first AnalysisError in the chain, or "" when none
func CodeOf(err error) ErrorCode {
	for err != nil {
		if analysisErr, ok := err.(*AnalysisError); ok {
			return analysisErr.Code
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = unwrapper.Unwrap()
	}
	return ""
}

// NewNilLinesError reports a nil line sequence handed to the parser
func NewNilLinesError() *AnalysisError {
	return New(ErrCodeInvalidArgument, "log lines cannot be nil").
		WithSuggestion("Pass an empty slice to parse an empty log")
}

// NewFileNotFoundError creates a file not found error
func NewFileNotFoundError(path string) *AnalysisError {
	return New(ErrCodeFileNotFound, fmt.Sprintf("log file not found: %s", path)).
		WithSuggestion("Check if the file path is correct").
		WithSuggestion("Verify the file exists and you have read permissions")
}

// NewFileReadError wraps a failure while reading a log file
func NewFileReadError(path string, cause error) *AnalysisError {
	return Wrap(ErrCodeFileReadFailed, fmt.Sprintf("failed to read log file: %s", path), cause)
}

// NewOutputError wraps a failure while writing rendered results
func NewOutputError(target string, cause error) *AnalysisError {
	return Wrap(ErrCodeOutputFailed, fmt.Sprintf("failed to write output: %s", target), cause)
}

// NewUnsupportedFormatError reports an unknown output format
func NewUnsupportedFormatError(format string) *AnalysisError {
	return New(ErrCodeInvalidFormat, fmt.Sprintf("unsupported output format: %s", format)).
		WithSuggestion("Use one of: text, json, yaml, xlsx")
}

// NewConfigError reports an invalid configuration value
func NewConfigError(details string, cause error) *AnalysisError {
	return Wrap(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", details), cause)
}

// NewRunNotLoadedError reports a repository lookup for an unknown run
func NewRunNotLoadedError(runID string) *AnalysisError {
	return New(ErrCodeRunNotLoaded, fmt.Sprintf("run not loaded: %s", runID)).
		WithSuggestion("Load the run log before comparing it")
}
