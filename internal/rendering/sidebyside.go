package rendering

import (
	"strings"

	"github.com/atul48kumar90/resume-tailor-agent/internal/diff"
)

// ChangeSpan marks a changed region of a panel's content. Start and End are
// byte offsets into Content.
type ChangeSpan struct {
	Start int             `json:"start"`
	End   int             `json:"end"`
	Type  diff.ChangeType `json:"type"`
	Text  string          `json:"text"`
}

// Panel is one side of a section.
type Panel struct {
	Content     string       `json:"content"`
	ChangeSpans []ChangeSpan `json:"change_spans"`
	WordCount   int          `json:"word_count"`
}

// SectionView pairs the before (left) and after (right) rendering of a
// section.
type SectionView struct {
	SectionName string `json:"section_name"`
	Changed     bool   `json:"changed"`
	Left        Panel  `json:"left"`
	Right       Panel  `json:"right"`
}

// SideBySideView is the render-ready form of a diff.Result.
type SideBySideView struct {
	Format   string        `json:"format"`
	Sections []SectionView `json:"sections"`
}

type side int

const (
	left side = iota
	right
)

// hidden is the segment type a side never shows.
func (s side) hidden() diff.ChangeType {
	if s == left {
		return diff.Added
	}
	return diff.Removed
}

type panelWriter struct {
	sb       strings.Builder
	spans    []ChangeSpan
	suppress bool
}

func (p *panelWriter) write(s string, kind diff.ChangeType) {
	if s == "" {
		return
	}
	start := p.sb.Len()
	p.sb.WriteString(s)
	if kind != diff.Unchanged && !p.suppress {
		p.spans = append(p.spans, ChangeSpan{Start: start, End: p.sb.Len(), Type: kind, Text: s})
	}
}

func (p *panelWriter) newline() {
	if p.sb.Len() > 0 {
		p.sb.WriteByte('\n')
	}
}

// block writes fn's output as one span of kind, with no inner spans.
func (p *panelWriter) block(kind diff.ChangeType, fn func()) {
	start := p.sb.Len()
	p.suppress = true
	fn()
	p.suppress = false
	if end := p.sb.Len(); end > start {
		p.spans = append(p.spans, ChangeSpan{Start: start, End: end, Type: kind, Text: p.sb.String()[start:end]})
	}
}

func (p *panelWriter) segments(segs []diff.Segment, s side) {
	first := true
	for _, seg := range segs {
		if seg.Type == s.hidden() {
			continue
		}
		if !first {
			p.write(" ", diff.Unchanged)
		}
		p.write(seg.Content, seg.Type)
		first = false
	}
}

func (p *panelWriter) panel(words int) Panel {
	spans := p.spans
	if spans == nil {
		spans = []ChangeSpan{}
	}
	return Panel{Content: p.sb.String(), ChangeSpans: spans, WordCount: words}
}

// FormatSideBySide lays out r as aligned left/right panels, one section per
// known section name in diff.SectionOrder. It performs no comparison of its
// own: every marker comes from r.
func FormatSideBySide(r *diff.Result) *SideBySideView {
	view := &SideBySideView{Format: "structured", Sections: []SectionView{}}
	if r == nil {
		return view
	}
	for _, name := range diff.SectionOrder {
		sec := r.Section(name)
		if sec == nil {
			continue
		}
		words := sec.Words()
		view.Sections = append(view.Sections, SectionView{
			SectionName: string(name),
			Changed:     sec.IsChanged(),
			Left:        renderSection(sec, left).panel(words.Before()),
			Right:       renderSection(sec, right).panel(words.After()),
		})
	}
	return view
}

func renderSection(sec diff.Section, s side) *panelWriter {
	p := &panelWriter{}
	switch d := sec.(type) {
	case *diff.TextDiff:
		p.segments(d.Segments, s)
	case *diff.SetDiff:
		renderSet(p, d, s)
	case *diff.RecordsDiff:
		renderRecords(p, d, s)
	case *diff.FieldsDiff:
		renderFields(p, d, s)
	}
	return p
}

func renderSet(p *panelWriter, d *diff.SetDiff, s side) {
	items, marked, kind := d.Before, d.Removed, diff.Removed
	if s == right {
		items, marked, kind = d.After, d.Added, diff.Added
	}
	isMarked := make(map[string]bool, len(marked))
	for _, m := range marked {
		isMarked[m] = true
	}
	for i, item := range items {
		if i > 0 {
			p.write(", ", diff.Unchanged)
		}
		if isMarked[item] {
			p.write(item, kind)
		} else {
			p.write(item, diff.Unchanged)
		}
	}
}

func renderFields(p *panelWriter, d *diff.FieldsDiff, s side) {
	for _, f := range d.Fields {
		if sideValue(f, s) == "" {
			continue
		}
		p.newline()
		p.write(f.Field+": ", diff.Unchanged)
		writeField(p, f, s)
	}
}

func sideValue(f diff.FieldChange, s side) string {
	if s == left {
		return strings.TrimSpace(f.Before)
	}
	return strings.TrimSpace(f.After)
}

func writeField(p *panelWriter, f diff.FieldChange, s side) {
	if f.Changed {
		p.segments(f.Segments, s)
		return
	}
	p.write(sideValue(f, s), diff.Unchanged)
}

func renderRecords(p *panelWriter, d *diff.RecordsDiff, s side) {
	for i := range d.Entries {
		e := &d.Entries[i]
		if (s == left && e.BeforeIndex == nil) || (s == right && e.AfterIndex == nil) {
			continue
		}
		if p.sb.Len() > 0 {
			p.sb.WriteString("\n\n")
		}
		switch {
		case s == left && e.Action == diff.Removed:
			p.block(diff.Removed, func() { renderEntry(p, e, s) })
		case s == right && e.Action == diff.Added:
			p.block(diff.Added, func() { renderEntry(p, e, s) })
		default:
			renderEntry(p, e, s)
		}
	}
}

func renderEntry(p *panelWriter, e *diff.EntryDiff, s side) {
	first := true
	for _, f := range e.Fields {
		if sideValue(f, s) == "" {
			continue
		}
		if !first {
			p.write(" | ", diff.Unchanged)
		}
		writeField(p, f, s)
		first = false
	}
	if e.Bullets == nil {
		return
	}
	for _, b := range orderedBullets(e.Bullets, s) {
		p.newline()
		p.write("- ", diff.Unchanged)
		p.write(b.text, b.kind)
	}
}

type sideBullet struct {
	text string
	kind diff.ChangeType
}

// orderedBullets lists one side's bullets in their original order, each
// tagged with how it fared in the diff.
func orderedBullets(d *diff.BulletsDiff, s side) []sideBullet {
	n := d.BeforeCount
	if s == right {
		n = d.AfterCount
	}
	out := make([]sideBullet, n)
	set := func(idx int, text string, kind diff.ChangeType) {
		if idx >= 0 && idx < n {
			out[idx] = sideBullet{text: text, kind: kind}
		}
	}
	for _, pr := range d.Unchanged {
		if s == left {
			set(pr.BeforeIndex, pr.Before, diff.Unchanged)
		} else {
			set(pr.AfterIndex, pr.After, diff.Unchanged)
		}
	}
	for _, pr := range d.Modified {
		if s == left {
			set(pr.BeforeIndex, pr.Before, diff.Modified)
		} else {
			set(pr.AfterIndex, pr.After, diff.Modified)
		}
	}
	if s == left {
		for _, b := range d.Removed {
			set(b.Index, b.Text, diff.Removed)
		}
	} else {
		for _, b := range d.Added {
			set(b.Index, b.Text, diff.Added)
		}
	}
	return out
}
