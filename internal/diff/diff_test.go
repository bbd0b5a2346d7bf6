package diff

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atul48kumar90/resume-tailor-agent/internal/types"
)

func sampleResume() *types.ResumeDocument {
	return &types.ResumeDocument{
		Summary: "Backend engineer building APIs in Go",
		Experience: []types.ExperienceEntry{
			{
				Title: "Senior Engineer", Company: "Acme", Dates: "2020-2023",
				Bullets: []string{
					"Built REST APIs serving 2M requests per day with Go",
					"Mentored four junior engineers",
					"Led migration to Kubernetes",
				},
			},
			{
				Title: "Engineer", Company: "Globex", Dates: "2017-2020",
				Bullets: []string{"Maintained billing pipeline"},
			},
		},
		Skills: []string{"Go", "Docker", "PostgreSQL"},
		Education: []types.EducationEntry{
			{Institution: "State University", Degree: "BSc", FieldOfStudy: "Computer Science", Dates: "2013-2017"},
		},
		Certifications: []types.CertificationEntry{{Name: "CKA", Issuer: "CNCF", Date: "2021"}},
		Projects: []types.ProjectEntry{
			{Name: "ratelimit", Description: "Token bucket library", Technologies: []string{"Go"}, Bullets: []string{"Published to GitHub"}},
		},
		Languages: []string{"English"},
		Awards:    []string{"Hackathon winner 2019"},
		Contact:   &types.Contact{Name: "Jane Doe", Email: "jane@example.com"},
	}
}

func revisedResume() *types.ResumeDocument {
	doc := sampleResume().Clone()
	doc.Summary = "Staff backend engineer building reliable APIs in Go"
	doc.Experience[0].Bullets = []string{
		"Built REST APIs serving 3M requests per day with Go",
		"Led migration to Kubernetes",
		"Cut cloud spend by 30%",
	}
	doc.Skills = []string{"Go", "Kubernetes", "PostgreSQL"}
	doc.Certifications = append(doc.Certifications, types.CertificationEntry{
		Name: "AWS Solutions Architect", Issuer: "Amazon", Date: "2023",
	})
	doc.Languages = []string{"English", "German"}
	doc.Contact.Email = "jane.doe@example.com"
	return &doc
}

func TestWordDiff(t *testing.T) {
	tests := []struct {
		name   string
		before string
		after  string
		want   []Segment
	}{
		{
			name:   "insertions",
			before: "Built APIs in Go",
			after:  "Built scalable APIs in Go and Rust",
			want: []Segment{
				{Unchanged, "Built"},
				{Added, "scalable"},
				{Unchanged, "APIs in Go"},
				{Added, "and Rust"},
			},
		},
		{
			name:   "replacement",
			before: "serving 2M requests",
			after:  "serving 3M requests",
			want: []Segment{
				{Unchanged, "serving"},
				{Removed, "2M"},
				{Added, "3M"},
				{Unchanged, "requests"},
			},
		},
		{
			name:   "from empty",
			before: "",
			after:  "Go developer",
			want:   []Segment{{Added, "Go developer"}},
		},
		{
			name:   "both empty",
			before: "  ",
			after:  "",
			want:   []Segment{},
		},
		{
			name:   "whitespace only differences",
			before: "Go   developer",
			after:  "Go developer\n",
			want:   []Segment{{Unchanged, "Go developer"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WordDiff(tt.before, tt.after))
		})
	}
}

func TestWordDiff_MirrorsOnSwap(t *testing.T) {
	pairs := [][2]string{
		{"x y", "y x"},
		{"a b c d", "d c b a"},
		{"Backend engineer building APIs in Go", "Staff backend engineer building reliable APIs in Go"},
		{"one two two three", "two one three two"},
	}
	for _, p := range pairs {
		forward := WordDiff(p[0], p[1])
		backward := WordDiff(p[1], p[0])
		assert.Equal(t, wordsOf(forward, Added), wordsOf(backward, Removed), "%q -> %q", p[0], p[1])
		assert.Equal(t, wordsOf(forward, Removed), wordsOf(backward, Added), "%q -> %q", p[0], p[1])
	}
}

func wordsOf(segs []Segment, kind ChangeType) []string {
	var out []string
	for _, s := range segs {
		if s.Type == kind {
			out = append(out, s.Content)
		}
	}
	return out
}

func TestLines(t *testing.T) {
	got := Lines("a\nb\nc\n", "a\nc\nd")

	assert.Equal(t, []Segment{
		{Unchanged, "a"},
		{Removed, "b"},
		{Unchanged, "c"},
		{Added, "d"},
	}, got.Lines)
	assert.Equal(t, 1, got.Added)
	assert.Equal(t, 1, got.Removed)
	assert.Equal(t, 2, got.Unchanged)

	empty := Lines("", "")
	assert.Empty(t, empty.Lines)
}

func TestDiff_Identical(t *testing.T) {
	for name, doc := range map[string]*types.ResumeDocument{
		"nil":     nil,
		"empty":   {},
		"sample":  sampleResume(),
		"revised": revisedResume(),
	} {
		t.Run(name, func(t *testing.T) {
			result := Diff(doc, doc)
			for _, section := range SectionOrder {
				assert.False(t, result.Section(section).IsChanged(), "section %s", section)
			}
			stats := Summarize(result)
			assert.Equal(t, 0, stats.TotalChanges)
			assert.Equal(t, 0, stats.WordsAdded)
			assert.Equal(t, 0, stats.WordsRemoved)
			assert.Empty(t, stats.SectionsChanged)
			assert.Equal(t, "0 words", stats.NetChangeDisplay)
		})
	}
}

func TestDiff_AllSectionsPresent(t *testing.T) {
	data, err := json.Marshal(Diff(nil, sampleResume()))
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, section := range SectionOrder {
		var payload struct {
			Changed *bool `json:"changed"`
		}
		require.Contains(t, raw, string(section))
		require.NoError(t, json.Unmarshal(raw[string(section)], &payload))
		assert.NotNil(t, payload.Changed, "section %s lacks changed flag", section)
	}
}

func TestDiff_SampleRevision(t *testing.T) {
	result := Diff(sampleResume(), revisedResume())

	assert.Equal(t, []Segment{
		{Removed, "Backend"},
		{Added, "Staff backend"},
		{Unchanged, "engineer building"},
		{Added, "reliable"},
		{Unchanged, "APIs in Go"},
	}, result.Summary.Segments)

	require.Len(t, result.Experience.Entries, 2)
	acme := result.Experience.Entries[0]
	assert.Equal(t, Modified, acme.Action)
	require.NotNil(t, acme.Bullets)
	require.Len(t, acme.Bullets.Modified, 1)
	assert.InDelta(t, 0.9, acme.Bullets.Modified[0].Similarity, 1e-9)
	assert.Equal(t, []BulletRef{{Index: 1, Text: "Mentored four junior engineers"}}, acme.Bullets.Removed)
	assert.Equal(t, []BulletRef{{Index: 2, Text: "Cut cloud spend by 30%"}}, acme.Bullets.Added)
	require.Len(t, acme.Bullets.Unchanged, 1)
	assert.Equal(t, 2, acme.Bullets.Unchanged[0].BeforeIndex)
	assert.Equal(t, 1, acme.Bullets.Unchanged[0].AfterIndex)
	assert.Equal(t, Unchanged, result.Experience.Entries[1].Action)

	assert.Equal(t, []string{"Kubernetes"}, result.Skills.Added)
	assert.Equal(t, []string{"Docker"}, result.Skills.Removed)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, result.Skills.Unchanged)

	require.Len(t, result.Certifications.Entries, 2)
	assert.Equal(t, Unchanged, result.Certifications.Entries[0].Action)
	assert.Equal(t, Added, result.Certifications.Entries[1].Action)
	assert.Nil(t, result.Certifications.Entries[1].BeforeIndex)
	assert.Equal(t, 1, *result.Certifications.Entries[1].AfterIndex)

	assert.False(t, result.Education.Changed)
	assert.False(t, result.Projects.Changed)
	assert.False(t, result.Awards.Changed)
	assert.Equal(t, []string{"German"}, result.Languages.Added)

	email, ok := findField(result.Contact.Fields, "email")
	require.True(t, ok)
	assert.True(t, email.Changed)
	assert.Equal(t, "jane.doe@example.com", email.After)

	stats := Summarize(result)
	assert.Equal(t, []string{"summary", "experience", "skills", "certifications", "languages", "contact"}, stats.SectionsChanged)
	assert.Equal(t, 9, stats.TotalChanges)
	assert.Equal(t, 17, stats.WordsAdded)
	assert.Equal(t, 8, stats.WordsRemoved)
	assert.Equal(t, 9, stats.NetChange)
	assert.Equal(t, "+9 words", stats.NetChangeDisplay)
	assert.Equal(t, 61, stats.BeforeWordCount)
	assert.Equal(t, 70, stats.AfterWordCount)
}

func findField(fields []FieldChange, name string) (FieldChange, bool) {
	for _, f := range fields {
		if f.Field == name {
			return f, true
		}
	}
	return FieldChange{}, false
}

func TestDiff_NearIdenticalBulletIsModified(t *testing.T) {
	before := &types.ResumeDocument{Experience: []types.ExperienceEntry{{
		Title: "Engineer", Company: "Acme",
		Bullets: []string{"Built REST APIs serving 2M requests per day with Go"},
	}}}
	after := &types.ResumeDocument{Experience: []types.ExperienceEntry{{
		Title: "Engineer", Company: "Acme",
		Bullets: []string{"Built REST APIs serving 3M requests per day with Go"},
	}}}

	result := Diff(before, after)

	bullets := result.Experience.Entries[0].Bullets
	require.Len(t, bullets.Modified, 1)
	assert.Empty(t, bullets.Added)
	assert.Empty(t, bullets.Removed)
	assert.Equal(t, []Segment{
		{Unchanged, "Built REST APIs serving"},
		{Removed, "2M"},
		{Added, "3M"},
		{Unchanged, "requests per day with Go"},
	}, bullets.Modified[0].Segments)

	stats := Summarize(result)
	assert.Equal(t, 1, stats.WordsAdded)
	assert.Equal(t, 1, stats.WordsRemoved)
	assert.Equal(t, 1, stats.TotalChanges)
}

func TestDiff_UnrelatedBulletIsAddedAndRemoved(t *testing.T) {
	before := &types.ResumeDocument{Projects: []types.ProjectEntry{{Name: "cli", Bullets: []string{"Wrote docs"}}}}
	after := &types.ResumeDocument{Projects: []types.ProjectEntry{{Name: "cli", Bullets: []string{"Shipped v2 release"}}}}

	bullets := Diff(before, after).Projects.Entries[0].Bullets

	assert.Empty(t, bullets.Modified)
	assert.Equal(t, []BulletRef{{Index: 0, Text: "Shipped v2 release"}}, bullets.Added)
	assert.Equal(t, []BulletRef{{Index: 0, Text: "Wrote docs"}}, bullets.Removed)
}

func TestDiff_ReorderedBulletsAreUnchanged(t *testing.T) {
	before := &types.ResumeDocument{Experience: []types.ExperienceEntry{{
		Title: "Engineer", Bullets: []string{"Led migration", "Cut costs", "Hired team"},
	}}}
	after := &types.ResumeDocument{Experience: []types.ExperienceEntry{{
		Title: "Engineer", Bullets: []string{"Hired team", "Led  migration", "Cut costs"},
	}}}

	result := Diff(before, after)

	assert.False(t, result.Experience.Changed)
	assert.Len(t, result.Experience.Entries[0].Bullets.Unchanged, 3)
}

func TestDiff_CaseAndPunctuationEditIsModified(t *testing.T) {
	before := &types.ResumeDocument{Experience: []types.ExperienceEntry{{
		Title: "Engineer", Company: "Acme", Bullets: []string{"Led the API team.", "Cut costs"},
	}}}
	after := &types.ResumeDocument{Experience: []types.ExperienceEntry{{
		Title: "Engineer", Company: "Acme", Bullets: []string{"Cut costs", "led the api team"},
	}}}

	result := Diff(before, after)

	assert.True(t, result.Experience.Changed)
	entry := result.Experience.Entries[0]
	assert.Equal(t, Modified, entry.Action)
	require.Len(t, entry.Bullets.Modified, 1)
	pair := entry.Bullets.Modified[0]
	assert.Equal(t, 0, pair.BeforeIndex)
	assert.Equal(t, 1, pair.AfterIndex)
	assert.Equal(t, 1.0, pair.Similarity)
	words := func(kind ChangeType) []string {
		return strings.Fields(strings.Join(wordsOf(pair.Segments, kind), " "))
	}
	assert.Equal(t, []string{"Led", "API", "team."}, words(Removed))
	assert.Equal(t, []string{"led", "api", "team"}, words(Added))
	assert.Len(t, entry.Bullets.Unchanged, 1)
	assert.Empty(t, entry.Bullets.Added)
	assert.Empty(t, entry.Bullets.Removed)

	stats := Summarize(result)
	assert.Equal(t, 1, stats.TotalChanges)
	assert.Equal(t, 3, stats.WordsAdded)
	assert.Equal(t, 3, stats.WordsRemoved)
	assert.Contains(t, stats.SectionsChanged, "experience")
}

func TestDiff_InsertedEntryRealigns(t *testing.T) {
	acme := types.ExperienceEntry{Title: "Engineer", Company: "Acme", Bullets: []string{"Built things"}}
	globex := types.ExperienceEntry{Title: "Senior Engineer", Company: "Globex", Bullets: []string{"Ran things"}}
	initech := types.ExperienceEntry{Title: "Product Manager", Company: "Initech", Bullets: []string{"Planned things"}}

	before := &types.ResumeDocument{Experience: []types.ExperienceEntry{acme, globex}}
	after := &types.ResumeDocument{Experience: []types.ExperienceEntry{initech, acme, globex}}

	result := Diff(before, after)

	require.Len(t, result.Experience.Entries, 3)
	first := result.Experience.Entries[0]
	assert.Equal(t, Added, first.Action)
	assert.Equal(t, 0, *first.AfterIndex)
	for i, e := range result.Experience.Entries[1:] {
		assert.Equal(t, Unchanged, e.Action)
		assert.Equal(t, i, *e.BeforeIndex)
		assert.Equal(t, i+1, *e.AfterIndex)
	}
	assert.Equal(t, 1, Summarize(result).TotalChanges)
}

func TestDiff_RemovedEntryWithRetitledNeighbour(t *testing.T) {
	before := &types.ResumeDocument{Education: []types.EducationEntry{
		{Institution: "State University", Degree: "MSc Computer Science"},
		{Institution: "City College", Degree: "BSc Computer Science"},
		{Institution: "Night School", Degree: "Diploma"},
	}}
	after := &types.ResumeDocument{Education: []types.EducationEntry{
		{Institution: "State University", Degree: "MSc in Computer Science"},
		{Institution: "Night School", Degree: "Diploma"},
	}}

	result := Diff(before, after)

	require.Len(t, result.Education.Entries, 3)
	assert.Equal(t, Modified, result.Education.Entries[0].Action)
	assert.Equal(t, Removed, result.Education.Entries[1].Action)
	assert.Equal(t, 1, *result.Education.Entries[1].BeforeIndex)
	assert.Equal(t, Unchanged, result.Education.Entries[2].Action)
}

func TestDiff_SetsFoldVariants(t *testing.T) {
	before := &types.ResumeDocument{Skills: []string{"Go", "golang", "k8s", " "}}
	after := &types.ResumeDocument{Skills: []string{"go", "Kubernetes"}}

	skills := Diff(before, after).Skills

	assert.False(t, skills.Changed)
	assert.Equal(t, []string{"Go", "k8s"}, skills.Before)
	assert.Equal(t, 2, skills.BeforeCount)
}

func TestDiff_SetsFoldNonASCIICase(t *testing.T) {
	before := &types.ResumeDocument{Languages: []string{"Русский", "French"}}
	after := &types.ResumeDocument{Languages: []string{"русский", "french"}}

	languages := Diff(before, after).Languages

	assert.False(t, languages.Changed)
	assert.Empty(t, languages.Added)
	assert.Empty(t, languages.Removed)
	assert.Len(t, languages.Unchanged, 2)
}

func TestDiff_NilAgainstDocument(t *testing.T) {
	result := Diff(nil, sampleResume())
	stats := Summarize(result)

	assert.Equal(t, 0, stats.WordsRemoved)
	assert.Equal(t, 61, stats.WordsAdded)
	assert.Equal(t, 0, stats.BeforeWordCount)
	for _, e := range result.Experience.Entries {
		assert.Equal(t, Added, e.Action)
	}
}

func symmetryFixtures() []*types.ResumeDocument {
	return []*types.ResumeDocument{
		{},
		sampleResume(),
		revisedResume(),
		{
			Summary:   "Data engineer",
			Skills:    []string{"Python", "Spark", "Go"},
			Awards:    []string{"Hackathon winner 2019", "Best paper"},
			Languages: []string{"German"},
			Experience: []types.ExperienceEntry{
				{Title: "Data Engineer", Company: "Initech", Bullets: []string{"Built Spark jobs"}},
				{Title: "Senior Engineer", Company: "Acme", Bullets: []string{"Led migration to Kubernetes"}},
			},
		},
		{
			Summary: "Backend engineer building APIs in Go",
			Experience: []types.ExperienceEntry{
				{Title: "Platform Lead", Company: "Hooli", Bullets: []string{"Set platform direction"}},
				{
					Title: "Senior Engineer", Company: "Acme", Dates: "2020-2024",
					Bullets: []string{
						"built REST APIs serving 2M requests per day with Go.",
						"Mentored four junior backend engineers",
						"Ran on-call rotation",
					},
				},
				{Title: "Engineer", Company: "Globex", Dates: "2017-2020", Bullets: []string{"Maintained billing pipeline"}},
			},
			Education: []types.EducationEntry{
				{Institution: "Night School", Degree: "Certificate"},
				{Institution: "State University", Degree: "MSc", FieldOfStudy: "Computer Science", Dates: "2013-2017"},
			},
			Projects: []types.ProjectEntry{
				{Name: "ratelimit", Description: "Token bucket library for Go", Bullets: []string{"Published to GitHub", "Reached 1k stars"}},
				{Name: "dotfiles", Bullets: []string{"Shell setup"}},
			},
			Contact: &types.Contact{Name: "Jane Doe", Phone: "555-0100"},
		},
	}
}

// assertRecordsMirror checks that diffing b against a is the exact mirror
// of diffing a against b: added and removed entries trade places, paired
// entries keep their action and swap sides, and so do their bullets.
func assertRecordsMirror(t *testing.T, forward, backward *RecordsDiff, msg string) {
	t.Helper()
	type sides struct{ added, removed []int }
	type pairKey struct{ bi, ai int }
	collect := func(d *RecordsDiff) (sides, map[pairKey]EntryDiff) {
		var s sides
		pairs := make(map[pairKey]EntryDiff)
		for _, e := range d.Entries {
			switch {
			case e.BeforeIndex == nil:
				s.added = append(s.added, *e.AfterIndex)
			case e.AfterIndex == nil:
				s.removed = append(s.removed, *e.BeforeIndex)
			default:
				pairs[pairKey{*e.BeforeIndex, *e.AfterIndex}] = e
			}
		}
		return s, pairs
	}
	fs, fp := collect(forward)
	bs, bp := collect(backward)

	assert.Equal(t, fs.added, bs.removed, "%s: added entries", msg)
	assert.Equal(t, fs.removed, bs.added, "%s: removed entries", msg)
	require.Len(t, bp, len(fp), "%s: paired entries", msg)

	for k, f := range fp {
		b, ok := bp[pairKey{k.ai, k.bi}]
		require.True(t, ok, "%s: entry pair %v has no mirror", msg, k)
		assert.Equal(t, f.Action, b.Action, "%s: entry pair %v", msg, k)

		require.Len(t, b.Fields, len(f.Fields))
		for i := range f.Fields {
			assert.Equal(t, f.Fields[i].Changed, b.Fields[i].Changed, "%s: field %s", msg, f.Fields[i].Field)
			assert.Equal(t, f.Fields[i].Before, b.Fields[i].After, "%s: field %s", msg, f.Fields[i].Field)
		}

		if f.Bullets == nil {
			assert.Nil(t, b.Bullets)
			continue
		}
		assert.Equal(t, f.Bullets.Added, b.Bullets.Removed, "%s: bullets added in pair %v", msg, k)
		assert.Equal(t, f.Bullets.Removed, b.Bullets.Added, "%s: bullets removed in pair %v", msg, k)
		assert.ElementsMatch(t, swapPairs(f.Bullets.Modified), stripSegments(b.Bullets.Modified), "%s: bullets modified in pair %v", msg, k)
		assert.ElementsMatch(t, swapPairs(f.Bullets.Unchanged), stripSegments(b.Bullets.Unchanged), "%s: bullets unchanged in pair %v", msg, k)
	}
}

func swapPairs(ps []BulletPair) []BulletPair {
	out := make([]BulletPair, len(ps))
	for i, p := range ps {
		out[i] = BulletPair{BeforeIndex: p.AfterIndex, AfterIndex: p.BeforeIndex, Before: p.After, After: p.Before, Similarity: p.Similarity}
	}
	return out
}

func stripSegments(ps []BulletPair) []BulletPair {
	out := make([]BulletPair, len(ps))
	for i, p := range ps {
		p.Segments = nil
		out[i] = p
	}
	return out
}

func TestDiff_Symmetry(t *testing.T) {
	docs := symmetryFixtures()

	for i, a := range docs {
		for j, b := range docs {
			forward, backward := Diff(a, b), Diff(b, a)
			msg := fmt.Sprintf("docs %d->%d", i, j)

			for _, set := range []SectionName{SectionSkills, SectionLanguages, SectionAwards} {
				f, r := forward.Section(set).(*SetDiff), backward.Section(set).(*SetDiff)
				assert.Equal(t, f.Added, r.Removed, "%s section %s", msg, set)
				assert.Equal(t, f.Removed, r.Added, "%s section %s", msg, set)
			}
			for _, list := range []SectionName{SectionExperience, SectionEducation, SectionCertifications, SectionProjects} {
				assertRecordsMirror(t, forward.Section(list).(*RecordsDiff), backward.Section(list).(*RecordsDiff),
					fmt.Sprintf("%s section %s", msg, list))
			}

			require.Len(t, backward.Contact.Fields, len(forward.Contact.Fields))
			for k, f := range forward.Contact.Fields {
				r := backward.Contact.Fields[k]
				assert.Equal(t, f.Changed, r.Changed, "%s contact %s", msg, f.Field)
				assert.Equal(t, f.Before, r.After, "%s contact %s", msg, f.Field)
				assert.Equal(t, f.After, r.Before, "%s contact %s", msg, f.Field)
			}

			assert.Equal(t, wordsOf(forward.Summary.Segments, Added), wordsOf(backward.Summary.Segments, Removed))

			fs, bs := Summarize(forward), Summarize(backward)
			assert.Equal(t, fs.WordsAdded, bs.WordsRemoved, msg)
			assert.Equal(t, fs.WordsRemoved, bs.WordsAdded, msg)
			assert.Equal(t, fs.TotalChanges, bs.TotalChanges, msg)
			assert.Equal(t, fs.SectionsChanged, bs.SectionsChanged, msg)
			assert.Equal(t, fs.BeforeWordCount, bs.AfterWordCount, msg)
		}
	}
}

func TestDiff_UnequalEntryCountsRealign(t *testing.T) {
	docs := symmetryFixtures()
	before, after := docs[1], docs[4]

	experience := Diff(before, after).Experience

	require.Len(t, experience.Entries, 3)
	hooli := experience.Entries[0]
	assert.Equal(t, Added, hooli.Action)
	assert.Equal(t, 0, *hooli.AfterIndex)

	acme := experience.Entries[1]
	assert.Equal(t, Modified, acme.Action)
	assert.Equal(t, 0, *acme.BeforeIndex)
	assert.Equal(t, 1, *acme.AfterIndex)
	require.NotNil(t, acme.Bullets)
	assert.Len(t, acme.Bullets.Modified, 2, "case edit and reworded mentoring bullet")

	globex := experience.Entries[2]
	assert.Equal(t, Unchanged, globex.Action)
	assert.Equal(t, 1, *globex.BeforeIndex)
	assert.Equal(t, 2, *globex.AfterIndex)

	mirrored := Diff(after, before).Experience
	assertRecordsMirror(t, experience, mirrored, "sample vs realigned")
}

func TestNewEngine_InvalidOptionsFallBack(t *testing.T) {
	e := NewEngine(Options{TitleOverlap: 2})
	assert.Equal(t, DefaultOptions(), e.Options())
	assert.Error(t, Options{TitleOverlap: 0.5}.Validate())
}

func TestSummarize_Nil(t *testing.T) {
	stats := Summarize(nil)
	assert.Equal(t, 0, stats.TotalChanges)
	assert.NotNil(t, stats.SectionsChanged)
}
