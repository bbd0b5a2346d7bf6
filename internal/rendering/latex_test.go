package rendering

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atul48kumar90/resume-tailor-agent/internal/types"
)

func exportFixture() *types.ResumeDocument {
	return &types.ResumeDocument{
		Contact: &types.Contact{Name: "Jane Doe", Email: "jane@example.com", Phone: "555-0100"},
		Summary: "Go developer",
		Experience: []types.ExperienceEntry{
			{Title: "Engineer", Company: "Acme", Dates: "2020-2023", Bullets: []string{"Cut spend 30%"}},
		},
		Skills:         []string{"Go", "C#"},
		Certifications: []types.CertificationEntry{{Name: "CKA", Issuer: "CNCF", Date: "2021"}},
	}
}

func TestRenderLaTeX_DefaultTemplate(t *testing.T) {
	out, err := RenderLaTeX(exportFixture(), "")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, `\documentclass`))
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), `\end{document}`))
	assert.Contains(t, out, `{\LARGE\bfseries Jane Doe}`)
	assert.Contains(t, out, `jane@example.com | 555-0100`)
	assert.Contains(t, out, `\textbf{Engineer}, Acme \hfill 2020-2023`)
	assert.Contains(t, out, `\item Cut spend 30\%`)
	assert.Contains(t, out, "\\section*{Skills}\nGo, C\\#")
	assert.Contains(t, out, `CKA (CNCF) \hfill 2021`)
	assert.NotContains(t, out, `\section*{Awards}`)
	assert.NotContains(t, out, `\section*{Education}`)
}

func TestRenderLaTeX_EmptyDocument(t *testing.T) {
	out, err := RenderLaTeX(nil, "")
	require.NoError(t, err)
	assert.Contains(t, out, `\begin{document}`)
	assert.NotContains(t, out, `\section*`)
}

func TestRenderLaTeX_CustomTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.tex")
	require.NoError(t, os.WriteFile(path, []byte(`Name: {{escape .Name}} Skills: {{join .Skills}}`), 0644))

	out, err := RenderLaTeX(exportFixture(), path)
	require.NoError(t, err)
	assert.Equal(t, "Name: Jane Doe Skills: Go, C#", out)
}

func TestRenderLaTeX_CanonicalSkills(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skills.tex")
	require.NoError(t, os.WriteFile(path, []byte(`{{join .Skills}}`), 0644))

	doc := &types.ResumeDocument{Skills: []string{"golang", "k8s", "Go", "python"}}
	out, err := RenderLaTeX(doc, path)
	require.NoError(t, err)
	assert.Equal(t, "Go, Kubernetes, Python", out)
	assert.Equal(t, []string{"golang", "k8s", "Go", "python"}, doc.Skills, "the stored snapshot is untouched")
}

func TestRenderLaTeX_NonASCIISkills(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skills.tex")
	require.NoError(t, os.WriteFile(path, []byte(`{{join .Skills}}`), 0644))

	out, err := RenderLaTeX(&types.ResumeDocument{Skills: []string{"élan", "русский"}}, path)
	require.NoError(t, err)
	assert.True(t, utf8.ValidString(out))
	assert.Equal(t, "Élan, Русский", out)
}

func TestRenderLaTeX_TemplateErrors(t *testing.T) {
	_, err := RenderLaTeX(exportFixture(), "/nonexistent/template.tex")
	var templateErr *TemplateError
	require.ErrorAs(t, err, &templateErr)
	assert.Contains(t, err.Error(), "template file not found")

	path := filepath.Join(t.TempDir(), "invalid.tex")
	require.NoError(t, os.WriteFile(path, []byte(`{{.Summary`), 0644))
	_, err = RenderLaTeX(exportFixture(), path)
	require.ErrorAs(t, err, &templateErr)
	assert.Contains(t, err.Error(), "failed to parse template")

	path = filepath.Join(t.TempDir(), "badfield.tex")
	require.NoError(t, os.WriteFile(path, []byte(`{{.NoSuchField}}`), 0644))
	_, err = RenderLaTeX(exportFixture(), path)
	require.ErrorAs(t, err, &templateErr)
	assert.Contains(t, err.Error(), "failed to execute template")
}

func TestExport(t *testing.T) {
	doc := exportFixture()

	text, err := Export(doc, FormatText, "")
	require.NoError(t, err)
	assert.Equal(t, PlainText(doc), text)

	defaulted, err := Export(doc, "", "")
	require.NoError(t, err)
	assert.Equal(t, text, defaulted)

	latex, err := Export(doc, FormatLaTeX, "")
	require.NoError(t, err)
	assert.Contains(t, latex, `\documentclass`)

	_, err = Export(doc, "pdf", "")
	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, "pdf", formatErr.Format)

	assert.Equal(t, "application/x-latex; charset=utf-8", ContentType(FormatLaTeX))
	assert.Equal(t, "text/plain; charset=utf-8", ContentType(FormatText))
}
