package parsing

import (
	"errors"
	"fmt"
)

// APICallError represents an error from the text generation API
type APICallError struct {
	Message string
	Cause   error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("API call failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("API call failed: %s", e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// MalformedResponseMessage is the user-facing message for a model response that is not JSON
// or is a bare null.
const MalformedResponseMessage = "malformed AI response"

var errNullResponse = errors.New("response is null")

// ParseError represents an error parsing the API response
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// FieldWarning records a persona field that was missing or mistyped and replaced by its default.
type FieldWarning struct {
	Index   int    `json:"index"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (w FieldWarning) String() string {
	return fmt.Sprintf("persona %d: %s: %s", w.Index, w.Field, w.Message)
}
