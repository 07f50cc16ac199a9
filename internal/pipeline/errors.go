package pipeline

import "fmt"

// InputError reports a submission whose company input failed validation.
type InputError struct {
	Cause error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input: %v", e.Cause)
}

func (e *InputError) Unwrap() error {
	return e.Cause
}
