package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType categorizes a usage query failure
type ErrorType string

const (
	// The executable could not be found
	ErrorTypeExecutionNotFound ErrorType = "execution_not_found"
	// The executable exists but may not be run by this user
	ErrorTypePermission ErrorType = "permission"
	// ccusage ran and exited non-zero, or could not be started for another reason
	ErrorTypeExecutionFailed ErrorType = "execution_failed"
	// ccusage did not finish within the configured timeout
	ErrorTypeTimeout ErrorType = "timeout"
	// stdout was not the expected JSON document
	ErrorTypeMalformedResponse ErrorType = "malformed_response"
	// a calendar computation failed
	ErrorTypeInvalidDate ErrorType = "invalid_date"
)

// Component identifies which executable a failure refers to
type Component string

const (
	ComponentNone    Component = ""
	ComponentRuntime Component = "runtime"
	ComponentTool    Component = "tool"
)

// FailureReason refines ErrorTypeExecutionFailed, mostly from ccusage's stderr
type FailureReason string

const (
	ReasonNone          FailureReason = ""
	ReasonToolNotFound  FailureReason = "tool_not_found"
	ReasonNotAccessible FailureReason = "not_accessible"
	ReasonPermission    FailureReason = "permission"
	ReasonSession       FailureReason = "session"
	ReasonBrokenInstall FailureReason = "broken_install"
	ReasonUnknown       FailureReason = "unknown"
)

// UsageError is a categorized failure carrying a display-ready message
type UsageError struct {
	Type         ErrorType
	Component    Component
	Reason       FailureReason
	Command      string
	Message      string
	Stderr       string
	ExitCode     int
	RecoveryHint string
	Cause        error
	Context      map[string]interface{}
	Timestamp    time.Time
}

// Error returns the display-ready message
func (e *UsageError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return string(e.Type)
}

func (e *UsageError) Unwrap() error {
	return e.Cause
}

// Summary returns a single-line description suitable for logs
func (e *UsageError) Summary() string {
	s := string(e.Type)
	if e.Component != ComponentNone {
		s += "/" + string(e.Component)
	}
	if e.Reason != ReasonNone {
		s += "/" + string(e.Reason)
	}
	if e.Command != "" {
		s += " (" + e.Command + ")"
	}
	if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	return s
}

func newError(t ErrorType, message string, cause error) *UsageError {
	return &UsageError{
		Type:      t,
		Message:   message,
		Cause:     cause,
		Context:   make(map[string]interface{}),
		Timestamp: time.Now(),
	}
}

// MalformedResponse wraps a decode failure of ccusage's stdout. The decoder's
// own diagnostic is always part of the message.
func MalformedResponse(command string, cause error) *UsageError {
	e := newError(ErrorTypeMalformedResponse,
		fmt.Sprintf("Failed to parse ccusage %s output: %v", command, cause), cause)
	e.Command = command
	e.RecoveryHint = "Update ccusage to a version that supports --json output"
	return e
}

// InvalidDate reports a failed calendar computation
func InvalidDate(detail string) *UsageError {
	e := newError(ErrorTypeInvalidDate, fmt.Sprintf("Failed to aggregate usage: invalid date (%s)", detail), nil)
	return e
}

// AsUsageError extracts a *UsageError from err's chain
func AsUsageError(err error) (*UsageError, bool) {
	var ue *UsageError
	if stderrors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}

// TypeOf returns the category of err, or "" when err is not a UsageError
func TypeOf(err error) ErrorType {
	if ue, ok := AsUsageError(err); ok {
		return ue.Type
	}
	return ""
}

// IsType reports whether err is a UsageError of type t
func IsType(err error, t ErrorType) bool {
	return TypeOf(err) == t
}
