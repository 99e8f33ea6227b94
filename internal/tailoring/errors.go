package tailoring

import "fmt"

// TailorError reports a failed rewrite of one entry.
type TailorError struct {
	Section Section
	Index   int
	Message string
	Cause   error
}

func (e *TailorError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("tailor error: %s[%d]: %s: %v", e.Section, e.Index, e.Message, e.Cause)
	}
	return fmt.Sprintf("tailor error: %s[%d]: %s", e.Section, e.Index, e.Message)
}

func (e *TailorError) Unwrap() error {
	return e.Cause
}
