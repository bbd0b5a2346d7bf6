package ats

import (
	"slices"

	"github.com/atul48kumar90/resume-tailor-agent/internal/types"
)

// BulletAttribution lists the requirement keywords a single experience bullet carries
type BulletAttribution struct {
	EntryIndex  int      `json:"entry_index"`
	BulletIndex int      `json:"bullet_index"`
	Text        string   `json:"text"`
	Keywords    []string `json:"keywords"`
}

// AttributeBullets reports, for every experience bullet that matches at least
// one keyword exactly or through an alias, which keywords it carries. Only
// the stronger match types are used so that attributions stay explainable.
func AttributeBullets(resume *types.ResumeDocument, reqs *types.JobRequirementSet) []BulletAttribution {
	if resume == nil || reqs.IsEmpty() {
		return nil
	}

	var all []string
	all = append(all, reqs.RequiredSkills...)
	all = append(all, reqs.OptionalSkills...)
	all = append(all, reqs.ToolKeywords...)
	keywords := dedupeKeywords(all)

	var out []BulletAttribution
	for ei, entry := range resume.Experience {
		for bi, bullet := range entry.Bullets {
			idx := newResumeIndex([]string{bullet})
			var hits []string
			for _, kw := range keywords {
				if mt, _ := idx.match(kw); mt == MatchExact || mt == MatchAlias {
					hits = append(hits, kw)
				}
			}
			if len(hits) == 0 {
				continue
			}
			slices.Sort(hits)
			out = append(out, BulletAttribution{EntryIndex: ei, BulletIndex: bi, Text: bullet, Keywords: hits})
		}
	}
	return out
}
