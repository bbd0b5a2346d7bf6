package diff

import "github.com/atul48kumar90/resume-tailor-agent/internal/parsing"

// ChangeType labels a segment, bullet or entry.
type ChangeType string

const (
	Unchanged ChangeType = "unchanged"
	Added     ChangeType = "added"
	Removed   ChangeType = "removed"
	Modified  ChangeType = "modified"
)

// SectionName identifies one of the resume sections the engine compares.
type SectionName string

const (
	SectionSummary        SectionName = "summary"
	SectionExperience     SectionName = "experience"
	SectionSkills         SectionName = "skills"
	SectionEducation      SectionName = "education"
	SectionCertifications SectionName = "certifications"
	SectionProjects       SectionName = "projects"
	SectionLanguages      SectionName = "languages"
	SectionAwards         SectionName = "awards"
	SectionContact        SectionName = "contact"
)

// SectionOrder is the fixed order sections are reported and rendered in.
var SectionOrder = []SectionName{
	SectionSummary,
	SectionExperience,
	SectionSkills,
	SectionEducation,
	SectionCertifications,
	SectionProjects,
	SectionLanguages,
	SectionAwards,
	SectionContact,
}

// Segment is a run of consecutive words sharing a change type.
type Segment struct {
	Type    ChangeType `json:"type"`
	Content string     `json:"content"`
}

// Section is the common view over every per-section diff payload.
type Section interface {
	IsChanged() bool
	// Changes counts discrete change units: changed text segments, set
	// items, entries and contact fields.
	Changes() int
	// Words reports the word tally of the section on both sides.
	Words() WordTally
}

// WordTally splits a section's words into the ones only one side has and the
// ones both sides share. Kept words are counted per side since normalized
// matches may differ in spelling.
type WordTally struct {
	Added      int
	Removed    int
	KeptBefore int
	KeptAfter  int
}

// Before is the word count of the before side.
func (w WordTally) Before() int { return w.KeptBefore + w.Removed }

// After is the word count of the after side.
func (w WordTally) After() int { return w.KeptAfter + w.Added }

func (w *WordTally) add(o WordTally) {
	w.Added += o.Added
	w.Removed += o.Removed
	w.KeptBefore += o.KeptBefore
	w.KeptAfter += o.KeptAfter
}

func segmentTally(segs []Segment) WordTally {
	var t WordTally
	for _, s := range segs {
		n := parsing.WordCount(s.Content)
		switch s.Type {
		case Added:
			t.Added += n
		case Removed:
			t.Removed += n
		default:
			t.KeptBefore += n
			t.KeptAfter += n
		}
	}
	return t
}

// TextDiff is a word-level diff of a free-text section.
type TextDiff struct {
	Changed  bool      `json:"changed"`
	Before   string    `json:"before"`
	After    string    `json:"after"`
	Segments []Segment `json:"segments"`
}

func (d *TextDiff) IsChanged() bool { return d.Changed }

func (d *TextDiff) Changes() int {
	n := 0
	for _, s := range d.Segments {
		if s.Type != Unchanged {
			n++
		}
	}
	return n
}

func (d *TextDiff) Words() WordTally { return segmentTally(d.Segments) }

// SetDiff compares two unordered string collections by normalized key.
// Added, Removed and Unchanged are sorted; Before and After keep the
// original order with duplicates dropped.
type SetDiff struct {
	Changed     bool     `json:"changed"`
	Added       []string `json:"added"`
	Removed     []string `json:"removed"`
	Unchanged   []string `json:"unchanged"`
	Before      []string `json:"before"`
	After       []string `json:"after"`
	BeforeCount int      `json:"before_count"`
	AfterCount  int      `json:"after_count"`
}

func (d *SetDiff) IsChanged() bool { return d.Changed }

func (d *SetDiff) Changes() int { return len(d.Added) + len(d.Removed) }

func (d *SetDiff) Words() WordTally {
	t := WordTally{
		Added:   wordsIn(d.Added),
		Removed: wordsIn(d.Removed),
	}
	t.KeptBefore = wordsIn(d.Before) - t.Removed
	t.KeptAfter = wordsIn(d.After) - t.Added
	return t
}

func wordsIn(items []string) int {
	n := 0
	for _, s := range items {
		n += parsing.WordCount(s)
	}
	return n
}

// FieldChange compares one named scalar field.
type FieldChange struct {
	Field    string    `json:"field"`
	Changed  bool      `json:"changed"`
	Before   string    `json:"before"`
	After    string    `json:"after"`
	Segments []Segment `json:"segments,omitempty"`
}

func (f FieldChange) words() WordTally {
	if f.Changed {
		return segmentTally(f.Segments)
	}
	return WordTally{KeptBefore: parsing.WordCount(f.Before), KeptAfter: parsing.WordCount(f.After)}
}

// BulletRef is a bullet present on one side only.
type BulletRef struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// BulletPair links a before bullet to its after counterpart.
type BulletPair struct {
	BeforeIndex int       `json:"before_index"`
	AfterIndex  int       `json:"after_index"`
	Before      string    `json:"before"`
	After       string    `json:"after"`
	Similarity  float64   `json:"similarity"`
	Segments    []Segment `json:"segments,omitempty"`
}

// BulletsDiff is the multiset comparison of one entry's bullets. Added
// indexes refer to the after list, Removed indexes to the before list.
type BulletsDiff struct {
	Changed     bool         `json:"changed"`
	Added       []BulletRef  `json:"added"`
	Removed     []BulletRef  `json:"removed"`
	Modified    []BulletPair `json:"modified"`
	Unchanged   []BulletPair `json:"unchanged"`
	BeforeCount int          `json:"before_count"`
	AfterCount  int          `json:"after_count"`
}

func (d *BulletsDiff) words() WordTally {
	var t WordTally
	for _, b := range d.Added {
		t.Added += parsing.WordCount(b.Text)
	}
	for _, b := range d.Removed {
		t.Removed += parsing.WordCount(b.Text)
	}
	for _, p := range d.Modified {
		t.add(segmentTally(p.Segments))
	}
	for _, p := range d.Unchanged {
		t.KeptBefore += parsing.WordCount(p.Before)
		t.KeptAfter += parsing.WordCount(p.After)
	}
	return t
}

// EntryDiff is one aligned record of a list section. Added entries carry
// only AfterIndex, removed entries only BeforeIndex.
type EntryDiff struct {
	Action      ChangeType    `json:"action"`
	BeforeIndex *int          `json:"before_index"`
	AfterIndex  *int          `json:"after_index"`
	Fields      []FieldChange `json:"fields"`
	Bullets     *BulletsDiff  `json:"bullets,omitempty"`
}

// Field returns the named field change, or false.
func (e *EntryDiff) Field(name string) (FieldChange, bool) {
	for _, f := range e.Fields {
		if f.Field == name {
			return f, true
		}
	}
	return FieldChange{}, false
}

func (e *EntryDiff) words() WordTally {
	var t WordTally
	for _, f := range e.Fields {
		t.add(f.words())
	}
	if e.Bullets != nil {
		t.add(e.Bullets.words())
	}
	return t
}

// RecordsDiff compares a list section of structured entries.
type RecordsDiff struct {
	Changed     bool        `json:"changed"`
	Entries     []EntryDiff `json:"entries"`
	BeforeCount int         `json:"before_count"`
	AfterCount  int         `json:"after_count"`
}

func (d *RecordsDiff) IsChanged() bool { return d.Changed }

// Changes counts each added, removed or modified entry once.
func (d *RecordsDiff) Changes() int {
	n := 0
	for _, e := range d.Entries {
		if e.Action != Unchanged {
			n++
		}
	}
	return n
}

func (d *RecordsDiff) Words() WordTally {
	var t WordTally
	for i := range d.Entries {
		t.add(d.Entries[i].words())
	}
	return t
}

// FieldsDiff compares a fixed set of named fields.
type FieldsDiff struct {
	Changed bool          `json:"changed"`
	Fields  []FieldChange `json:"fields"`
}

func (d *FieldsDiff) IsChanged() bool { return d.Changed }

func (d *FieldsDiff) Changes() int {
	n := 0
	for _, f := range d.Fields {
		if f.Changed {
			n++
		}
	}
	return n
}

func (d *FieldsDiff) Words() WordTally {
	var t WordTally
	for _, f := range d.Fields {
		t.add(f.words())
	}
	return t
}

// LineDiff is a line-oriented diff of two plain-text renderings.
type LineDiff struct {
	Lines     []Segment `json:"lines"`
	Added     int       `json:"added"`
	Removed   int       `json:"removed"`
	Unchanged int       `json:"unchanged"`
}

// Result is the structured diff of two resume documents. Every section is
// always present.
type Result struct {
	Summary        *TextDiff    `json:"summary"`
	Experience     *RecordsDiff `json:"experience"`
	Skills         *SetDiff     `json:"skills"`
	Education      *RecordsDiff `json:"education"`
	Certifications *RecordsDiff `json:"certifications"`
	Projects       *RecordsDiff `json:"projects"`
	Languages      *SetDiff     `json:"languages"`
	Awards         *SetDiff     `json:"awards"`
	Contact        *FieldsDiff  `json:"contact"`
	TextDiff       *LineDiff    `json:"text_diff,omitempty"`
}

// Section returns the payload for name, or nil for an unknown or missing
// section.
func (r *Result) Section(name SectionName) Section {
	switch name {
	case SectionSummary:
		return nonNil(r.Summary)
	case SectionExperience:
		return nonNil(r.Experience)
	case SectionSkills:
		return nonNil(r.Skills)
	case SectionEducation:
		return nonNil(r.Education)
	case SectionCertifications:
		return nonNil(r.Certifications)
	case SectionProjects:
		return nonNil(r.Projects)
	case SectionLanguages:
		return nonNil(r.Languages)
	case SectionAwards:
		return nonNil(r.Awards)
	case SectionContact:
		return nonNil(r.Contact)
	}
	return nil
}

func nonNil[T any, P interface {
	*T
	Section
}](p P) Section {
	if p == nil {
		return nil
	}
	return p
}

// ChangedSections lists changed sections in SectionOrder.
func (r *Result) ChangedSections() []SectionName {
	out := []SectionName{}
	for _, name := range SectionOrder {
		if s := r.Section(name); s != nil && s.IsChanged() {
			out = append(out, name)
		}
	}
	return out
}
