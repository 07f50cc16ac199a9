// Package server provides the HTTP API and form pages for persona-studio.
package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/persona-studio/internal/export"
	"github.com/jonathan/persona-studio/internal/ingestion"
	"github.com/jonathan/persona-studio/internal/llm"
	"github.com/jonathan/persona-studio/internal/parsing"
	"github.com/jonathan/persona-studio/internal/pipeline"
)

// ErrSuperseded is reported when a newer submission from the same session replaced this one.
var ErrSuperseded = errors.New("superseded by a newer submission")

// ErrNotFound indicates the requested submission or persona does not exist.
var ErrNotFound = errors.New("not found")

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return "validation error: " + e.Message
	}
	return "validation error: " + e.Field + " - " + e.Message
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validation *ErrValidation
		input      *pipeline.InputError
		tooMany    *ingestion.TooManyFilesError
		tooLarge   *http.MaxBytesError
		configErr  *llm.ConfigError
		parseErr   *parsing.ParseError
		apiErr     *parsing.APICallError
		noContent  *llm.NoContentError
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &validation), errors.As(err, &input), errors.As(err, &tooMany):
		return http.StatusBadRequest
	case errors.Is(err, ErrSuperseded):
		return http.StatusConflict
	case errors.Is(err, ErrNotFound), errors.Is(err, export.ErrTargetMissing):
		return http.StatusNotFound
	// a rejected key surfaces wrapped in an API call error
	case errors.As(err, &configErr):
		return http.StatusServiceUnavailable
	case errors.As(err, &parseErr), errors.As(err, &apiErr), errors.As(err, &noContent):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message shown to clients for err. Upstream and export causes
// are logged, not returned.
func PublicMessage(err error) string {
	var (
		configErr *llm.ConfigError
		parseErr  *parsing.ParseError
		exportErr *export.Error
	)

	switch {
	case errors.As(err, &configErr):
		return configErr.Message
	case errors.As(err, &parseErr):
		return parseErr.Message
	case errors.As(err, &exportErr):
		return exportErr.Message
	}

	status := HTTPStatus(err)
	if status == http.StatusBadGateway {
		return "persona generation failed upstream"
	}
	if status >= http.StatusInternalServerError {
		return http.StatusText(status)
	}
	return err.Error()
}
