package llm

import (
	"fmt"
	"strings"
)

// PlaceholderAPIKey is the value shipped in sample configs; it is treated as no key at all.
const PlaceholderAPIKey = "YOUR_API_KEY_PLACEHOLDER"

// ConfigError reports a missing or rejected credential. It is raised before any network call
// when the key is absent, and mapped from upstream errors when the provider rejects the key.
type ConfigError struct {
	Message string
	Cause   error
}

func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// NoContentError indicates the model answered without any usable text.
type NoContentError struct {
	Reason string
}

func (e *NoContentError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("no content in model response: %s", e.Reason)
	}
	return "no content in model response"
}

// CheckAPIKey fails when the key is empty or still the placeholder value.
func CheckAPIKey(apiKey string) error {
	key := strings.TrimSpace(apiKey)
	if key == "" {
		return &ConfigError{Message: "Gemini API key is not set (GEMINI_API_KEY)"}
	}
	if key == PlaceholderAPIKey {
		return &ConfigError{Message: "Gemini API key is still the placeholder value"}
	}
	return nil
}

// classifyError maps provider errors that indicate a rejected key to ConfigError.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "API_KEY_INVALID") {
		return &ConfigError{Message: "Gemini API key is invalid", Cause: err}
	}
	return err
}
