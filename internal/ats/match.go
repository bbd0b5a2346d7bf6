package ats

import (
	"slices"
	"strings"

	"github.com/atul48kumar90/resume-tailor-agent/internal/parsing"
	"github.com/atul48kumar90/resume-tailor-agent/internal/types"
)

// MatchType records how a keyword was found in the resume
type MatchType string

// Match types, strongest first
const (
	MatchExact MatchType = "exact"
	MatchAlias MatchType = "alias"
	MatchStem  MatchType = "stem"
	MatchFuzzy MatchType = "fuzzy"
	MatchNone  MatchType = "none"
)

const (
	// maxGram is the longest n-gram indexed for multi-word keywords
	maxGram = 3
	// substringRatio is the minimum keyword/token length ratio for a prefix match
	substringRatio = 0.6
	// fuzzy edit-distance matching only applies to tokens in this rune range
	minFuzzyLen = 4
	maxFuzzyLen = 8
)

// resumeIndex is the searchable token view of a resume
type resumeIndex struct {
	fragments [][]string
	grams     map[string]bool
	canonical map[string]bool
	stems     map[string]bool
	tokens    []string // unique, sorted
}

func newResumeIndex(fragments []string) *resumeIndex {
	idx := &resumeIndex{
		grams:     make(map[string]bool),
		canonical: make(map[string]bool),
		stems:     make(map[string]bool),
	}
	tokenSet := make(map[string]bool)

	for _, fragment := range fragments {
		toks := parsing.TokenList(fragment)
		if len(toks) == 0 {
			continue
		}
		idx.fragments = append(idx.fragments, toks)

		stemmed := make([]string, len(toks))
		for i, t := range toks {
			tokenSet[t] = true
			stemmed[i] = parsing.Stem(t)
		}

		for _, g := range parsing.Grams(toks, maxGram) {
			idx.grams[g] = true
			if c, ok := parsing.CanonicalTerm(g); ok {
				idx.canonical[c] = true
			}
		}
		for _, g := range parsing.Grams(stemmed, maxGram) {
			idx.stems[g] = true
		}
	}

	idx.tokens = make([]string, 0, len(tokenSet))
	for t := range tokenSet {
		idx.tokens = append(idx.tokens, t)
	}
	slices.Sort(idx.tokens)
	return idx
}

// match finds the strongest way keyword occurs in the resume. The second
// return value is the resume term that satisfied the match.
func (idx *resumeIndex) match(keyword string) (MatchType, string) {
	kwTokens := parsing.TokenList(keyword)
	if len(kwTokens) == 0 {
		return MatchNone, ""
	}
	phrase := strings.Join(kwTokens, " ")

	if idx.hasPhrase(kwTokens) {
		return MatchExact, phrase
	}

	if c, ok := parsing.CanonicalTerm(phrase); ok && (idx.canonical[c] || idx.grams[c]) {
		return MatchAlias, c
	}

	stemmed := make([]string, len(kwTokens))
	for i, t := range kwTokens {
		stemmed[i] = parsing.Stem(t)
	}
	if s := strings.Join(stemmed, " "); len(kwTokens) <= maxGram && idx.stems[s] {
		return MatchStem, s
	}
	if len(kwTokens) == 1 {
		if term, ok := idx.prefixMatch(stemmed[0]); ok {
			return MatchStem, term
		}
	}

	if term, ok := idx.fuzzyMatch(kwTokens); ok {
		return MatchFuzzy, term
	}

	return MatchNone, ""
}

// hasPhrase reports whether the token sequence occurs contiguously in one fragment.
func (idx *resumeIndex) hasPhrase(kwTokens []string) bool {
	if len(kwTokens) <= maxGram {
		return idx.grams[strings.Join(kwTokens, " ")]
	}
	for _, frag := range idx.fragments {
		for i := 0; i+len(kwTokens) <= len(frag); i++ {
			if slices.Equal(frag[i:i+len(kwTokens)], kwTokens) {
				return true
			}
		}
	}
	return false
}

// prefixMatch finds a resume token that starts with stem and is not much longer
// than it (postgres -> postgresql, but not java -> javascript).
func (idx *resumeIndex) prefixMatch(stem string) (string, bool) {
	if len(stem) < minFuzzyLen {
		return "", false
	}
	for _, tok := range idx.tokens {
		if strings.HasPrefix(tok, stem) && float64(len(stem))/float64(len(tok)) >= substringRatio {
			return tok, true
		}
	}
	return "", false
}

// fuzzyMatch requires every keyword token to be present exactly or, for short
// tokens, within edit distance one of some resume token.
func (idx *resumeIndex) fuzzyMatch(kwTokens []string) (string, bool) {
	matched := make([]string, 0, len(kwTokens))
	for _, kt := range kwTokens {
		if _, found := slices.BinarySearch(idx.tokens, kt); found {
			matched = append(matched, kt)
			continue
		}
		n := len([]rune(kt))
		if n < minFuzzyLen || n > maxFuzzyLen {
			return "", false
		}
		term := ""
		for _, tok := range idx.tokens {
			d := len([]rune(tok)) - n
			if d < -1 || d > 1 {
				continue
			}
			if parsing.EditDistance(kt, tok) <= 1 {
				term = tok
				break
			}
		}
		if term == "" {
			return "", false
		}
		matched = append(matched, term)
	}
	return strings.Join(matched, " "), true
}

// documentFragments returns the text of every section as separate fragments so
// n-grams never span two unrelated fields.
func documentFragments(doc *types.ResumeDocument) []string {
	if doc == nil {
		return nil
	}

	var out []string
	add := func(s ...string) {
		for _, v := range s {
			if strings.TrimSpace(v) != "" {
				out = append(out, v)
			}
		}
	}

	add(doc.Summary)
	for _, e := range doc.Experience {
		add(e.Title, e.Company)
		add(e.Bullets...)
	}
	add(doc.Skills...)
	for _, e := range doc.Education {
		add(e.Institution, e.Degree, e.FieldOfStudy)
	}
	for _, c := range doc.Certifications {
		add(c.Name, c.Issuer)
	}
	for _, p := range doc.Projects {
		add(p.Name, p.Description)
		add(p.Technologies...)
		add(p.Bullets...)
	}
	add(doc.Languages...)
	add(doc.Awards...)
	return out
}
