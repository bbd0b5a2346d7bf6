package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atul48kumar90/resume-tailor-agent/internal/rendering"
	"github.com/atul48kumar90/resume-tailor-agent/internal/schemas"
	"github.com/atul48kumar90/resume-tailor-agent/internal/versions"
)

func TestErrValidation(t *testing.T) {
	err := &ErrValidation{Field: "body", Message: "invalid JSON"}
	assert.Equal(t, "validation error: body - invalid JSON", err.Error())
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "version not found",
			err:      &versions.NotFoundError{Kind: "version", ResumeID: "r1", VersionID: "v9"},
			expected: http.StatusNotFound,
		},
		{
			name:     "wrapped not found",
			err:      fmt.Errorf("failed to compare: %w", &versions.NotFoundError{Kind: "previous version", ResumeID: "r1"}),
			expected: http.StatusNotFound,
		},
		{
			name:     "blank resume id",
			err:      &versions.InputError{Field: "resume_id", Message: "must not be empty"},
			expected: http.StatusBadRequest,
		},
		{
			name:     "schema validation",
			err:      &schemas.ValidationError{Errors: []schemas.FieldError{{Field: "skills", Message: "Invalid type"}}},
			expected: http.StatusBadRequest,
		},
		{
			name:     "unsupported export format",
			err:      &rendering.FormatError{Format: "pdf"},
			expected: http.StatusBadRequest,
		},
		{
			name:     "malformed request",
			err:      &ErrValidation{Field: "body", Message: "invalid JSON"},
			expected: http.StatusBadRequest,
		},
		{
			name:     "body too large",
			err:      &http.MaxBytesError{Limit: 10},
			expected: http.StatusRequestEntityTooLarge,
		},
		{
			name:     "template failure",
			err:      &rendering.TemplateError{Message: "failed to parse template"},
			expected: http.StatusInternalServerError,
		},
		{
			name:     "Unknown error",
			err:      assert.AnError,
			expected: http.StatusInternalServerError,
		},
		{
			name:     "Nil error",
			err:      nil,
			expected: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}

func TestErrorDetails(t *testing.T) {
	ve := &schemas.ValidationError{Errors: []schemas.FieldError{{Field: "snapshot", Message: "is required"}}}
	assert.Equal(t, ve.Errors, errorDetails(fmt.Errorf("decode: %w", ve)))
	assert.Nil(t, errorDetails(assert.AnError))
}
