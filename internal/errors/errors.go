package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// ConfigurationError indicates required input is missing or invalid
	ConfigurationError ErrorCode = "CONFIGURATION_ERROR"
	// DirectoryReadError indicates a directory could not be enumerated
	DirectoryReadError ErrorCode = "DIRECTORY_READ_ERROR"
	// FileReadError indicates a file could not be read
	FileReadError ErrorCode = "FILE_READ_ERROR"
	// PatternError indicates the filter pattern is not a usable regular expression
	PatternError ErrorCode = "PATTERN_ERROR"
	// DiffParseError indicates the diff text could not be parsed
	DiffParseError ErrorCode = "DIFF_PARSE_ERROR"
	// GitUnavailable indicates the path is not a git repository or git is missing
	GitUnavailable ErrorCode = "GIT_UNAVAILABLE"
	// GitCommandFailed indicates git exited with an error
	GitCommandFailed ErrorCode = "GIT_COMMAND_FAILED"
	// Timeout indicates an operation timed out
	Timeout ErrorCode = "TIMEOUT"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixActionType represents the type of fix action
type FixActionType string

const (
	// RunCommand suggests running a command
	RunCommand FixActionType = "run-command"
	// OpenDocs suggests opening documentation
	OpenDocs FixActionType = "open-docs"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Type        FixActionType `json:"type" yaml:"type"`
	Command     string        `json:"command,omitempty" yaml:"command,omitempty"`
	Safe        bool          `json:"safe,omitempty" yaml:"safe,omitempty"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	URL         string        `json:"url,omitempty" yaml:"url,omitempty"`
}

// AffectedError represents an error with a stable code, message, and suggestions
type AffectedError struct {
	Code           ErrorCode   `json:"code" yaml:"code"`
	Message        string      `json:"message" yaml:"message"`
	Details        interface{} `json:"details,omitempty" yaml:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty" yaml:"suggestedFixes,omitempty"`
	cause          error       // Underlying error (not exported to JSON)
}

// NewAffectedError creates a new AffectedError
func NewAffectedError(code ErrorCode, message string, cause error, suggestedFixes []FixAction) *AffectedError {
	return &AffectedError{
		Code:           code,
		Message:        message,
		cause:          cause,
		SuggestedFixes: suggestedFixes,
	}
}

// Error implements the error interface
func (e *AffectedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AffectedError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *AffectedError) WithDetails(details interface{}) *AffectedError {
	e.Details = details
	return e
}

// Is reports whether any error in err's chain is an AffectedError with the given code.
func Is(err error, code ErrorCode) bool {
	var ae *AffectedError
	if stderrors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}

// As returns the first AffectedError in err's chain.
func As(err error) (*AffectedError, bool) {
	var ae *AffectedError
	if stderrors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// CodeOf returns the code of the first AffectedError in err's chain,
// or InternalError when there is none.
func CodeOf(err error) ErrorCode {
	var ae *AffectedError
	if stderrors.As(err, &ae) {
		return ae.Code
	}
	return InternalError
}

// ErrorActions maps error codes to suggested fix actions
var ErrorActions = map[ErrorCode][]FixAction{
	ConfigurationError: {
		{
			Type:        RunCommand,
			Command:     "affected --repositoryPath <path>",
			Safe:        true,
			Description: "Pass the repository root explicitly",
		},
	},
	PatternError: {
		{
			Type:        OpenDocs,
			URL:         "https://pkg.go.dev/regexp/syntax",
			Description: "Check the filter pattern syntax; it needs at least one capturing group",
		},
	},
	GitUnavailable: {
		{
			Type:        RunCommand,
			Command:     "git status",
			Safe:        true,
			Description: "Verify the path is inside a git repository",
		},
	},
	Timeout: {
		{
			Type:        RunCommand,
			Command:     "affected --git-timeout=60s",
			Safe:        true,
			Description: "Retry with a longer git timeout",
		},
	},
}

// GetSuggestedFixes returns suggested fixes for an error code
func GetSuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := ErrorActions[code]; ok {
		return fixes
	}
	return nil
}

// New creates an AffectedError carrying the predefined fixes for its code.
func New(code ErrorCode, message string, cause error) *AffectedError {
	return NewAffectedError(code, message, cause, GetSuggestedFixes(code))
}
