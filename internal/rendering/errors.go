// Package rendering turns resume documents and diffs into display formats:
// plain text, LaTeX, and the side-by-side comparison view.
package rendering

import "fmt"

// TemplateError represents an error loading, parsing or executing an export
// template.
type TemplateError struct {
	Path    string
	Message string
	Cause   error
}

func (e *TemplateError) Error() string {
	where := "template"
	if e.Path != "" {
		where = fmt.Sprintf("template %s", e.Path)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", where, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", where, e.Message)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// FormatError reports an export format that is not supported.
type FormatError struct {
	Format string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unsupported export format %q (want text or latex)", e.Format)
}
