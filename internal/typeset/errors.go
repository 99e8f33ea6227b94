// Package typeset compiles LaTeX documents to PDF and manages the scratch files involved.
package typeset

import "fmt"

// RenderError represents a typesetting failure: malformed markup, a missing
// toolchain, a missing or unreadable output file, or a timeout.
type RenderError struct {
	Message   string
	LogOutput string
	Timeout   bool
	Cause     error
}

func (e *RenderError) Error() string {
	msg := e.Message
	if e.Timeout {
		msg += " (timeout)"
	}
	if e.Cause != nil {
		return fmt.Sprintf("render error: %s: %v", msg, e.Cause)
	}
	return fmt.Sprintf("render error: %s", msg)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// InspectError represents a PDF that could not be parsed
type InspectError struct {
	Message string
	Cause   error
}

func (e *InspectError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("pdf inspect error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("pdf inspect error: %s", e.Message)
}

func (e *InspectError) Unwrap() error {
	return e.Cause
}
