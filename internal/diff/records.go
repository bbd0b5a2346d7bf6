package diff

import (
	"strings"

	"github.com/atul48kumar90/resume-tailor-agent/internal/parsing"
	"github.com/atul48kumar90/resume-tailor-agent/internal/types"
)

type field struct {
	name  string
	value string
}

// record is the section-independent shape of a list entry. key names the
// organization (company, institution, issuer) and title the role or item.
type record struct {
	key        string
	title      string
	fields     []field
	bullets    []string
	hasBullets bool
}

func (r record) signature() string {
	var sb strings.Builder
	for _, f := range r.fields {
		sb.WriteString(f.value)
		sb.WriteByte('\x00')
	}
	sb.WriteString(strings.Join(r.bullets, "\x00"))
	return sb.String()
}

func experienceRecords(entries []types.ExperienceEntry) []record {
	out := make([]record, len(entries))
	for i, e := range entries {
		out[i] = record{
			key:   e.Company,
			title: e.Title,
			fields: []field{
				{"title", e.Title},
				{"company", e.Company},
				{"dates", e.Dates},
			},
			bullets:    e.Bullets,
			hasBullets: true,
		}
	}
	return out
}

func educationRecords(entries []types.EducationEntry) []record {
	out := make([]record, len(entries))
	for i, e := range entries {
		out[i] = record{
			key:   e.Institution,
			title: e.Degree,
			fields: []field{
				{"institution", e.Institution},
				{"degree", e.Degree},
				{"field_of_study", e.FieldOfStudy},
				{"dates", e.Dates},
			},
		}
	}
	return out
}

func certificationRecords(entries []types.CertificationEntry) []record {
	out := make([]record, len(entries))
	for i, e := range entries {
		out[i] = record{
			key:   e.Issuer,
			title: e.Name,
			fields: []field{
				{"name", e.Name},
				{"issuer", e.Issuer},
				{"date", e.Date},
			},
		}
	}
	return out
}

func projectRecords(entries []types.ProjectEntry) []record {
	out := make([]record, len(entries))
	for i, e := range entries {
		out[i] = record{
			title: e.Name,
			fields: []field{
				{"name", e.Name},
				{"description", e.Description},
				{"technologies", strings.Join(e.Technologies, ", ")},
			},
			bullets:    e.Bullets,
			hasBullets: true,
		}
	}
	return out
}

// affinity scores how likely two entries describe the same thing. Equal
// key and title is a perfect anchor; otherwise titles must overlap by at
// least titleOverlap. Zero means the pair cannot anchor an alignment.
func affinity(a, b record, titleOverlap float64) float64 {
	ka, kb := parsing.NormalizeText(a.key), parsing.NormalizeText(b.key)
	ta, tb := parsing.NormalizeText(a.title), parsing.NormalizeText(b.title)
	if ka == kb && ta == tb && (ka != "" || ta != "") {
		return 1
	}
	sim := parsing.TokenOverlap(parsing.TokenList(a.title), parsing.TokenList(b.title))
	if sim >= titleOverlap {
		return sim
	}
	return 0
}

type pair struct{ bi, ai int }

// align pairs before and after entries. Equal-length lists pair by
// position. Otherwise an order-preserving alignment maximizing total
// affinity picks anchors, and entries between anchors pair by position.
// Unpaired entries come back with -1 on the missing side.
func align(before, after []record, titleOverlap float64) []pair {
	if len(before) == len(after) {
		out := make([]pair, len(before))
		for i := range before {
			out[i] = pair{i, i}
		}
		return out
	}

	n, m := len(before), len(after)
	width := m + 1
	sim := make([]float64, n*m)
	for i := range before {
		for j := range after {
			sim[i*m+j] = affinity(before[i], after[j], titleOverlap)
		}
	}
	best := make([]float64, (n+1)*width)
	at := func(i, j int) float64 { return best[i*width+j] }
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			v := max(at(i+1, j), at(i, j+1))
			if s := sim[i*m+j]; s > 0 {
				v = max(v, s+at(i+1, j+1))
			}
			best[i*width+j] = v
		}
	}

	var anchors []pair
	i, j := 0, 0
	for i < n && j < m {
		s := sim[i*m+j]
		switch {
		case s > 0 && s+at(i+1, j+1) == at(i, j):
			anchors = append(anchors, pair{i, j})
			i++
			j++
		case at(i+1, j) > at(i, j+1):
			i++
		case at(i+1, j) < at(i, j+1):
			j++
		case before[i].signature() <= after[j].signature():
			i++
		default:
			j++
		}
	}

	var out []pair
	pi, pj := 0, 0
	fill := func(toI, toJ int) {
		for pi < toI && pj < toJ {
			out = append(out, pair{pi, pj})
			pi++
			pj++
		}
		for ; pi < toI; pi++ {
			out = append(out, pair{pi, -1})
		}
		for ; pj < toJ; pj++ {
			out = append(out, pair{-1, pj})
		}
	}
	for _, a := range anchors {
		fill(a.bi, a.ai)
		out = append(out, a)
		pi, pj = a.bi+1, a.ai+1
	}
	fill(n, m)
	return out
}

func diffRecords(before, after []record, opts Options) *RecordsDiff {
	d := &RecordsDiff{
		Entries:     []EntryDiff{},
		BeforeCount: len(before),
		AfterCount:  len(after),
	}
	for _, p := range align(before, after, opts.TitleOverlap) {
		var e EntryDiff
		switch {
		case p.ai < 0:
			e = entryDiff(&before[p.bi], nil, opts)
			e.BeforeIndex = ptr(p.bi)
		case p.bi < 0:
			e = entryDiff(nil, &after[p.ai], opts)
			e.AfterIndex = ptr(p.ai)
		default:
			e = entryDiff(&before[p.bi], &after[p.ai], opts)
			e.BeforeIndex, e.AfterIndex = ptr(p.bi), ptr(p.ai)
		}
		if e.Action != Unchanged {
			d.Changed = true
		}
		d.Entries = append(d.Entries, e)
	}
	return d
}

// entryDiff compares two records of the same shape. A nil side yields an
// added or removed entry whose fields and bullets are all one-sided.
func entryDiff(before, after *record, opts Options) EntryDiff {
	var e EntryDiff
	var b, a record
	switch {
	case before == nil:
		e.Action, a = Added, *after
		b = record{fields: blankFields(a.fields), hasBullets: a.hasBullets}
	case after == nil:
		e.Action, b = Removed, *before
		a = record{fields: blankFields(b.fields), hasBullets: b.hasBullets}
	default:
		e.Action, b, a = Unchanged, *before, *after
	}

	changed := false
	for k := range b.fields {
		fb, fa := b.fields[k].value, a.fields[k].value
		fc := FieldChange{Field: b.fields[k].name, Before: fb, After: fa}
		if !sameText(fb, fa) {
			fc.Changed = true
			fc.Segments = WordDiff(fb, fa)
			changed = true
		}
		e.Fields = append(e.Fields, fc)
	}
	if b.hasBullets {
		e.Bullets = diffBullets(b.bullets, a.bullets, opts.BulletSimilarity)
		changed = changed || e.Bullets.Changed
	}
	if e.Action == Unchanged && changed {
		e.Action = Modified
	}
	return e
}

func blankFields(fields []field) []field {
	out := make([]field, len(fields))
	for i, f := range fields {
		out[i] = field{name: f.name}
	}
	return out
}

func ptr(i int) *int { return &i }
