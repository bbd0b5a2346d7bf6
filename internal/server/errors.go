package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/atul48kumar90/resume-tailor-agent/internal/rendering"
	"github.com/atul48kumar90/resume-tailor-agent/internal/schemas"
	"github.com/atul48kumar90/resume-tailor-agent/internal/versions"
)

// ErrValidation indicates a malformed request that never reached schema
// validation, such as a body that is not JSON.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		notFound    *versions.NotFoundError
		inputErr    *versions.InputError
		schemaErr   *schemas.ValidationError
		formatErr   *rendering.FormatError
		requestErr  *ErrValidation
		tooLargeErr *http.MaxBytesError
	)
	switch {
	case err == nil:
		return http.StatusInternalServerError
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &tooLargeErr):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &inputErr), errors.As(err, &schemaErr),
		errors.As(err, &formatErr), errors.As(err, &requestErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// errorDetails returns the per-field errors of a validation failure.
func errorDetails(err error) []schemas.FieldError {
	var schemaErr *schemas.ValidationError
	if errors.As(err, &schemaErr) {
		return schemaErr.Errors
	}
	return nil
}
