package llm

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotConfigured is the cause of errors from operations that need an LLM
// client when none was set up.
var ErrNotConfigured = errors.New("no LLM client configured")

// NotConfigured returns the error reported when feature needs an LLM client
// and none was set up.
func NotConfigured(feature string) *Error {
	return &Error{Message: feature + " is not configured", Cause: ErrNotConfigured}
}

// Error represents a failed completion: transport, quota, timeout, or an
// empty/malformed response. Callers may retry since output is nondeterministic.
type Error struct {
	Provider Provider
	Message  string
	Cause    error
}

func (e *Error) Error() string {
	if e.Provider == "" {
		if e.Cause != nil {
			return fmt.Sprintf("llm error: %s: %v", e.Message, e.Cause)
		}
		return "llm error: " + e.Message
	}
	if e.Cause != nil {
		return fmt.Sprintf("llm error (%s): %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("llm error (%s): %s", e.Provider, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Timeout reports whether the call was cut off by its deadline.
func (e *Error) Timeout() bool {
	return errors.Is(e.Cause, context.DeadlineExceeded)
}
