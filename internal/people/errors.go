package people

import "fmt"

// SourceError represents a failed lookup from a single sourcing strategy.
type SourceError struct {
	Source  string
	Message string
	Cause   error
}

func (e *SourceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s sourcing error: %s: %v", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s sourcing error: %s", e.Source, e.Message)
}

func (e *SourceError) Unwrap() error {
	return e.Cause
}
