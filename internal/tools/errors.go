package tools

import (
	"errors"
	"fmt"
)

// ErrToolNotFound is returned by Lookup for an unregistered name.
var ErrToolNotFound = errors.New("tool not found")

// ToolRegistrationError reports why a tool was refused by the registry.
type ToolRegistrationError struct {
	Name   string
	Reason string
}

func (e *ToolRegistrationError) Error() string {
	return fmt.Sprintf("register tool %q: %s", e.Name, e.Reason)
}

// Error codes carried by ErrorResult.
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeTransportFailure = "TRANSPORT_FAILURE"
	CodeTimeout          = "TIMEOUT"
	CodeUpstreamFailure  = "UPSTREAM_FAILURE"
	CodeDecodeFailure    = "DECODE_FAILURE"
)

// ErrorResult is the structured value a tool returns instead of raising on
// a recoverable external failure.
type ErrorResult struct {
	Error   string         `json:"error" yaml:"error"`
	Code    string         `json:"code,omitempty" yaml:"code,omitempty"`
	Details map[string]any `json:"details,omitempty" yaml:"details,omitempty"`
}

// IsErrorResult reports whether a tool result is an ErrorResult.
func IsErrorResult(r any) bool {
	switch r.(type) {
	case ErrorResult, *ErrorResult:
		return true
	}
	return false
}

func errorResult(code, format string, args ...any) ErrorResult {
	return ErrorResult{Error: fmt.Sprintf(format, args...), Code: code}
}
