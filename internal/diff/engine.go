// Package diff compares two resume documents section by section and
// summarizes the result as change statistics.
package diff

import (
	"fmt"

	"github.com/atul48kumar90/resume-tailor-agent/internal/types"
)

// Options tunes entry alignment and bullet pairing.
type Options struct {
	// TitleOverlap is the minimum token overlap between two entry titles
	// for them to anchor an alignment when entry counts differ.
	TitleOverlap float64 `json:"title_overlap" mapstructure:"title_overlap"`
	// BulletSimilarity is the minimum token overlap for two different
	// bullets to be reported as one modified bullet.
	BulletSimilarity float64 `json:"bullet_similarity" mapstructure:"bullet_similarity"`
}

// DefaultOptions returns the thresholds used when none are configured.
func DefaultOptions() Options {
	return Options{TitleOverlap: 0.6, BulletSimilarity: 0.8}
}

// Validate checks that both thresholds lie in (0, 1].
func (o Options) Validate() error {
	if o.TitleOverlap <= 0 || o.TitleOverlap > 1 {
		return fmt.Errorf("title_overlap must be in (0, 1], got %v", o.TitleOverlap)
	}
	if o.BulletSimilarity <= 0 || o.BulletSimilarity > 1 {
		return fmt.Errorf("bullet_similarity must be in (0, 1], got %v", o.BulletSimilarity)
	}
	return nil
}

// Engine computes structured diffs. It holds no mutable state and is safe
// for concurrent use.
type Engine struct {
	opts Options
}

// NewEngine returns an engine using opts, or the defaults if opts is invalid.
func NewEngine(opts Options) *Engine {
	if opts.Validate() != nil {
		opts = DefaultOptions()
	}
	return &Engine{opts: opts}
}

// Options returns the engine's effective thresholds.
func (e *Engine) Options() Options { return e.opts }

// Diff compares before and after with default options.
func Diff(before, after *types.ResumeDocument) *Result {
	return NewEngine(DefaultOptions()).Diff(before, after)
}

// Diff compares before and after. A nil document is treated as empty.
func (e *Engine) Diff(before, after *types.ResumeDocument) *Result {
	b, a := before.Clone(), after.Clone()
	return &Result{
		Summary:        diffText(b.Summary, a.Summary),
		Experience:     diffRecords(experienceRecords(b.Experience), experienceRecords(a.Experience), e.opts),
		Skills:         diffSet(b.Skills, a.Skills),
		Education:      diffRecords(educationRecords(b.Education), educationRecords(a.Education), e.opts),
		Certifications: diffRecords(certificationRecords(b.Certifications), certificationRecords(a.Certifications), e.opts),
		Projects:       diffRecords(projectRecords(b.Projects), projectRecords(a.Projects), e.opts),
		Languages:      diffSet(b.Languages, a.Languages),
		Awards:         diffSet(b.Awards, a.Awards),
		Contact:        diffContact(b.Contact, a.Contact),
	}
}

func diffContact(before, after *types.Contact) *FieldsDiff {
	bf, af := before.ContactFields(), after.ContactFields()
	d := &FieldsDiff{Fields: make([]FieldChange, 0, len(bf))}
	for i := range bf {
		fc := FieldChange{Field: bf[i][0], Before: bf[i][1], After: af[i][1]}
		if !sameText(fc.Before, fc.After) {
			fc.Changed = true
			fc.Segments = WordDiff(fc.Before, fc.After)
			d.Changed = true
		}
		d.Fields = append(d.Fields, fc)
	}
	return d
}
