package discovery

import "fmt"

// InputError reports a request that was rejected before any work was done.
type InputError struct {
	Field   string
	Message string
	Cause   error
}

func (e *InputError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *InputError) Unwrap() error {
	return e.Cause
}
