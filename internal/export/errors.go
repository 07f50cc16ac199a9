package export

import (
	"errors"
	"fmt"
)

// ErrTargetMissing is returned when the document has no element with the requested id.
var ErrTargetMissing = errors.New("export target missing")

// FailedMessage is the user-facing message for any rasterization or PDF failure.
const FailedMessage = "export failed"

// Error represents a failure while rasterizing a region or building the PDF
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func failed(stage string, err error) error {
	return &Error{Message: FailedMessage, Cause: fmt.Errorf("%s: %w", stage, err)}
}
