// Package schemas validates documents arriving at the service boundary
// against the embedded JSON Schemas and decodes them into typed values.
package schemas

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/xeipuuv/gojsonschema"

	"github.com/atul48kumar90/resume-tailor-agent/internal/ats"
	"github.com/atul48kumar90/resume-tailor-agent/internal/types"
	schemafiles "github.com/atul48kumar90/resume-tailor-agent/schemas"
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:")
	for i, err := range ve.Errors {
		fmt.Fprintf(&sb, "\n  %d. %s: %s", i+1, err.Field, err.Message)
	}
	return sb.String()
}

// invalid builds a single-field ValidationError.
func invalid(field, message string) *ValidationError {
	return &ValidationError{Errors: []FieldError{{Field: field, Message: message}}}
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Name    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Name, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Name, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

var (
	compiled   = map[string]*gojsonschema.Schema{}
	compiledMu sync.Mutex
)

// load compiles an embedded schema once.
func load(name string) (*gojsonschema.Schema, error) {
	compiledMu.Lock()
	defer compiledMu.Unlock()

	if s, ok := compiled[name]; ok {
		return s, nil
	}
	data, err := schemafiles.FS.ReadFile(name)
	if err != nil {
		return nil, &SchemaLoadError{Name: name, Message: "schema not embedded", Cause: err}
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &SchemaLoadError{Name: name, Message: "invalid schema", Cause: err}
	}
	compiled[name] = s
	return s, nil
}

// Validate checks raw JSON against the named embedded schema.
func Validate(name string, raw []byte) error {
	s, err := load(name)
	if err != nil {
		return err
	}
	result, err := s.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return invalid("(root)", "malformed JSON: "+err.Error())
	}
	if result.Valid() {
		return nil
	}
	return fromResult(result)
}

// ValidateJSONString validates JSON string content against schema string content
func ValidateJSONString(schemaContent, jsonContent string) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schemaContent),
		gojsonschema.NewStringLoader(jsonContent),
	)
	if err != nil {
		return &SchemaLoadError{Name: "(string schema)", Message: "schema validation failed during load", Cause: err}
	}
	if result.Valid() {
		return nil
	}
	return fromResult(result)
}

func fromResult(result *gojsonschema.Result) *ValidationError {
	ve := &ValidationError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		ve.Errors = append(ve.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return ve
}

// DecodeDocument validates raw against the resume document schema and
// decodes it. Empty input and JSON null decode to nil.
func DecodeDocument(raw []byte) (*types.ResumeDocument, error) {
	if isNull(raw) {
		return nil, nil
	}
	if err := Validate(schemafiles.ResumeDocument, raw); err != nil {
		return nil, err
	}
	var doc types.ResumeDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, invalid("(root)", err.Error())
	}
	return &doc, nil
}

// DecodeRequirements accepts any payload ats.ParseRequirements understands
// and checks the normalized set against the requirements schema. Empty
// input and JSON null decode to nil.
func DecodeRequirements(raw []byte) (*types.JobRequirementSet, error) {
	if isNull(raw) {
		return nil, nil
	}
	var loose any
	if err := json.Unmarshal(raw, &loose); err != nil {
		return nil, invalid("requirements", "malformed JSON: "+err.Error())
	}
	reqs, err := ats.ParseRequirements(loose)
	if err != nil {
		var re *ats.RequirementsError
		if errors.As(err, &re) {
			return nil, invalid("requirements", re.Error())
		}
		return nil, err
	}
	normalized, err := json.Marshal(reqs)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal requirements: %w", err)
	}
	if err := Validate(schemafiles.JobRequirements, normalized); err != nil {
		return nil, err
	}
	return reqs, nil
}

func isNull(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// FromValidator converts validator/v10 struct errors into a ValidationError
// keyed by JSON field names. Other errors pass through unchanged.
func FromValidator(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	ve := &ValidationError{Errors: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   jsonName(fe.Field()),
			Message: describeTag(fe),
		})
	}
	return ve
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "failed " + fe.Tag() + " check"
	}
}

// jsonName maps Go field names such as ParentVersionID to parent_version_id.
func jsonName(goName string) string {
	var sb strings.Builder
	runes := []rune(goName)
	for i, r := range runes {
		upper := r >= 'A' && r <= 'Z'
		if upper && i > 0 {
			prevLower := runes[i-1] >= 'a' && runes[i-1] <= 'z'
			nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
			if prevLower || nextLower {
				sb.WriteByte('_')
			}
		}
		if upper {
			r += 'a' - 'A'
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
