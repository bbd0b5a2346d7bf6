package rendering

import (
	_ "embed"
	"errors"
	"io/fs"
	"os"
	"strings"
	"text/template"

	"github.com/atul48kumar90/resume-tailor-agent/internal/parsing"
	"github.com/atul48kumar90/resume-tailor-agent/internal/types"
)

//go:embed templates/resume.tex
var defaultLaTeXTemplate string

// Export formats.
const (
	FormatText  = "text"
	FormatLaTeX = "latex"
)

// latexData is what export templates see: the document's sections plus the
// pre-joined contact header.
type latexData struct {
	*types.ResumeDocument
	Name        string
	ContactLine string
}

// RenderLaTeX renders doc through the LaTeX template at templatePath, or the
// embedded default when templatePath is empty. Text is escaped in the
// template with the escape function. Skills are exported in canonical
// display form.
func RenderLaTeX(doc *types.ResumeDocument, templatePath string) (string, error) {
	tmpl, err := parseTemplate(templatePath)
	if err != nil {
		return "", err
	}

	clone := doc.Clone()
	clone.Skills = parsing.NormalizeSkills(clone.Skills)
	data := latexData{ResumeDocument: &clone}
	if c := clone.Contact; c != nil {
		data.Name = strings.TrimSpace(c.Name)
		data.ContactLine = joinNonEmpty(" | ", c.Email, c.Phone, c.Location, c.LinkedIn, c.Website)
	}

	var out strings.Builder
	if err := tmpl.Execute(&out, data); err != nil {
		return "", &TemplateError{Path: templatePath, Message: "failed to execute template", Cause: err}
	}
	return out.String(), nil
}

// Export renders doc in the named format.
func Export(doc *types.ResumeDocument, format, templatePath string) (string, error) {
	switch format {
	case "", FormatText:
		return PlainText(doc), nil
	case FormatLaTeX:
		return RenderLaTeX(doc, templatePath)
	}
	return "", &FormatError{Format: format}
}

func parseTemplate(templatePath string) (*template.Template, error) {
	content := defaultLaTeXTemplate
	if templatePath != "" {
		raw, err := os.ReadFile(templatePath)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, &TemplateError{Path: templatePath, Message: "template file not found", Cause: err}
			}
			return nil, &TemplateError{Path: templatePath, Message: "failed to read template file", Cause: err}
		}
		content = string(raw)
	}

	tmpl, err := template.New("resume").Funcs(template.FuncMap{
		"escape": EscapeLaTeX,
		"join":   func(items []string) string { return joinNonEmpty(", ", items...) },
	}).Parse(content)
	if err != nil {
		return nil, &TemplateError{Path: templatePath, Message: "failed to parse template", Cause: err}
	}
	return tmpl, nil
}

// ContentType returns the MIME type for an export format.
func ContentType(format string) string {
	if format == FormatLaTeX {
		return "application/x-latex; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}
