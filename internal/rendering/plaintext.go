package rendering

import (
	"strings"

	"github.com/atul48kumar90/resume-tailor-agent/internal/types"
)

// lineWriter accumulates output lines. Empty lines are dropped and breaks
// collapse, so callers can write optional fields unconditionally.
type lineWriter struct {
	lines []string
}

func (w *lineWriter) line(s string) {
	if s = strings.TrimSpace(s); s != "" {
		w.lines = append(w.lines, s)
	}
}

func (w *lineWriter) blank() {
	if n := len(w.lines); n > 0 && w.lines[n-1] != "" {
		w.lines = append(w.lines, "")
	}
}

func (w *lineWriter) String() string {
	return strings.TrimSpace(strings.Join(w.lines, "\n"))
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

// PlainText renders doc as human-readable text, one heading per non-empty
// section in a fixed order. A nil document renders as "".
func PlainText(doc *types.ResumeDocument) string {
	if doc == nil {
		return ""
	}
	var w lineWriter

	if c := doc.Contact; c != nil {
		w.line(strings.ToUpper(c.Name))
		w.line(joinNonEmpty(" • ", c.Email, c.Phone, c.Location, c.LinkedIn, c.Website))
		w.blank()
	}

	if strings.TrimSpace(doc.Summary) != "" {
		w.line("SUMMARY")
		w.line(doc.Summary)
		w.blank()
	}

	if len(doc.Experience) > 0 {
		w.line("EXPERIENCE")
		for _, e := range doc.Experience {
			w.line(joinNonEmpty(", ", e.Company, e.Title))
			w.line(e.Dates)
			writeBullets(&w, e.Bullets)
			w.blank()
		}
	}

	if len(doc.Education) > 0 {
		w.line("EDUCATION")
		for _, e := range doc.Education {
			field := ""
			if strings.TrimSpace(e.FieldOfStudy) != "" {
				field = "in " + e.FieldOfStudy
			}
			w.line(joinNonEmpty(", ", e.Institution, e.Degree, field))
			w.line(e.Dates)
			w.blank()
		}
	}

	writeList(&w, "SKILLS", doc.Skills)

	if len(doc.Certifications) > 0 {
		w.line("CERTIFICATIONS")
		for _, c := range doc.Certifications {
			issuer := ""
			if strings.TrimSpace(c.Issuer) != "" {
				issuer = "(" + c.Issuer + ")"
			}
			w.line(joinNonEmpty(" • ", c.Name, issuer))
			if strings.TrimSpace(c.Date) != "" {
				w.line("Date: " + c.Date)
			}
		}
		w.blank()
	}

	if len(doc.Projects) > 0 {
		w.line("PROJECTS")
		for _, p := range doc.Projects {
			w.line(p.Name)
			w.line(p.Description)
			if tech := joinNonEmpty(", ", p.Technologies...); tech != "" {
				w.line("Technologies: " + tech)
			}
			writeBullets(&w, p.Bullets)
			w.blank()
		}
	}

	writeList(&w, "LANGUAGES", doc.Languages)
	writeList(&w, "AWARDS", doc.Awards)

	return w.String()
}

func writeBullets(w *lineWriter, bullets []string) {
	for _, b := range bullets {
		if strings.TrimSpace(b) != "" {
			w.line("- " + b)
		}
	}
}

func writeList(w *lineWriter, heading string, items []string) {
	joined := joinNonEmpty(", ", items...)
	if joined == "" {
		return
	}
	w.line(heading)
	w.line(joined)
	w.blank()
}
