package diff

import "strings"

// WordDiff computes a word-level LCS diff of before and after, merging
// consecutive words of the same change type into one segment. Words are
// whitespace-delimited and compared exactly.
func WordDiff(before, after string) []Segment {
	a, b := strings.Fields(before), strings.Fields(after)
	segs := []Segment{}
	var (
		cur   ChangeType
		words []string
	)
	flush := func() {
		if len(words) > 0 {
			segs = append(segs, Segment{Type: cur, Content: strings.Join(words, " ")})
			words = words[:0]
		}
	}
	for _, o := range lcsOps(a, b) {
		kind, word := Unchanged, ""
		switch o.kind {
		case opEqual:
			word = a[o.ai]
		case opDelete:
			kind, word = Removed, a[o.ai]
		case opInsert:
			kind, word = Added, b[o.bi]
		}
		if kind != cur {
			flush()
			cur = kind
		}
		words = append(words, word)
	}
	flush()
	return segs
}

func diffText(before, after string) *TextDiff {
	segs := WordDiff(before, after)
	changed := false
	for _, s := range segs {
		if s.Type != Unchanged {
			changed = true
			break
		}
	}
	return &TextDiff{Changed: changed, Before: before, After: after, Segments: segs}
}

// Lines diffs two texts line by line. Trailing whitespace is ignored when
// comparing but blank lines count.
func Lines(before, after string) *LineDiff {
	a, b := splitLines(before), splitLines(after)
	out := &LineDiff{Lines: []Segment{}}
	for _, o := range lcsOps(a, b) {
		switch o.kind {
		case opEqual:
			out.Lines = append(out.Lines, Segment{Type: Unchanged, Content: a[o.ai]})
			out.Unchanged++
		case opDelete:
			out.Lines = append(out.Lines, Segment{Type: Removed, Content: a[o.ai]})
			out.Removed++
		case opInsert:
			out.Lines = append(out.Lines, Segment{Type: Added, Content: b[o.bi]})
			out.Added++
		}
	}
	return out
}

func splitLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t\r")
	}
	return lines
}

// sameText reports whether two strings are equal after collapsing
// whitespace.
func sameText(a, b string) bool {
	return collapseSpace(a) == collapseSpace(b)
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
