// Package ats scores resumes against job requirement sets the way an
// applicant tracking system keyword filter would.
package ats

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/atul48kumar90/resume-tailor-agent/internal/parsing"
	"github.com/atul48kumar90/resume-tailor-agent/internal/types"
)

// Category is a requirement category
type Category string

// Requirement categories
const (
	CategoryRequired Category = "required_skills"
	CategoryOptional Category = "optional_skills"
	CategoryTools    Category = "tool_keywords"
)

// Categories lists every category in reporting order
var Categories = []Category{CategoryRequired, CategoryOptional, CategoryTools}

// Risk bands for the total score
const (
	RiskHigh   = "high"
	RiskMedium = "medium"
	RiskLow    = "low"
)

// CategoryScore is the breakdown for one requirement category
type CategoryScore struct {
	Weight   float64  `json:"weight"`
	Total    int      `json:"total"`
	Matched  []string `json:"matched"`
	Missing  []string `json:"missing"`
	Score    int      `json:"score"`
	Coverage string   `json:"coverage"`
}

// KeywordMatch describes how one keyword was matched
type KeywordMatch struct {
	Keyword     string    `json:"keyword"`
	Category    Category  `json:"category"`
	MatchType   MatchType `json:"match_type"`
	MatchedTerm string    `json:"matched_term,omitempty"`
}

// Result is the outcome of scoring a resume
type Result struct {
	Score           int                        `json:"score"`
	Risk            string                     `json:"risk"`
	MatchedKeywords []string                   `json:"matched_keywords"`
	MissingKeywords []string                   `json:"missing_keywords"`
	Breakdown       map[Category]CategoryScore `json:"breakdown"`
	Matches         []KeywordMatch             `json:"matches"`
	Warnings        []string                   `json:"warnings,omitempty"`
}

// Service scores documents. Both Scorer and CachedScorer implement it.
type Service interface {
	ScoreContext(ctx context.Context, resume *types.ResumeDocument, reqs *types.JobRequirementSet) *Result
}

// Scorer computes ATS scores with a fixed weight configuration
type Scorer struct {
	weights Weights
}

// NewScorer creates a Scorer. Invalid weights fall back to DefaultWeights.
func NewScorer(w Weights) *Scorer {
	if w.Validate() != nil {
		w = DefaultWeights()
	}
	return &Scorer{weights: w}
}

// Weights returns the scorer's configuration.
func (s *Scorer) Weights() Weights {
	return s.weights
}

// Score scores resume against reqs using the default weights.
func Score(resume *types.ResumeDocument, reqs *types.JobRequirementSet) *Result {
	return NewScorer(DefaultWeights()).Score(resume, reqs)
}

// ScoreContext implements Service. Scoring is pure CPU work so ctx is unused.
func (s *Scorer) ScoreContext(_ context.Context, resume *types.ResumeDocument, reqs *types.JobRequirementSet) *Result {
	return s.Score(resume, reqs)
}

// Score computes the match of resume against reqs. An empty requirement set
// scores 100 by convention; an empty resume scores 0 with everything missing.
// If every category that holds keywords is weighted zero, those categories
// are weighted equally.
func (s *Scorer) Score(resume *types.ResumeDocument, reqs *types.JobRequirementSet) *Result {
	keywords := map[Category][]string{}
	if reqs != nil {
		keywords[CategoryRequired] = dedupeKeywords(reqs.RequiredSkills)
		keywords[CategoryOptional] = dedupeKeywords(reqs.OptionalSkills)
		keywords[CategoryTools] = dedupeKeywords(reqs.ToolKeywords)
	}

	result := &Result{
		MatchedKeywords: []string{},
		MissingKeywords: []string{},
		Breakdown:       make(map[Category]CategoryScore, len(Categories)),
		Matches:         []KeywordMatch{},
	}

	populated := 0
	totalWeight := 0.0
	for _, c := range Categories {
		if len(keywords[c]) > 0 {
			populated++
			totalWeight += s.weights.weight(c)
		}
	}

	if populated == 0 {
		for _, c := range Categories {
			result.Breakdown[c] = CategoryScore{Matched: []string{}, Missing: []string{}, Coverage: "0/0"}
		}
		result.Score = 100
		result.Risk = riskLevel(result.Score)
		return result
	}

	idx := newResumeIndex(documentFragments(resume))
	matchedSet := make(map[string]bool)
	weighted := 0.0
	requiredCoverage := 1.0

	for _, c := range Categories {
		kws := keywords[c]
		cs := CategoryScore{Total: len(kws), Matched: []string{}, Missing: []string{}}
		switch {
		case len(kws) == 0:
		case totalWeight == 0:
			// every populated category is weighted zero; share equally
			cs.Weight = 1 / float64(populated)
		default:
			cs.Weight = s.weights.weight(c) / totalWeight
		}

		credit := 0.0
		for _, kw := range kws {
			mt, term := idx.match(kw)
			result.Matches = append(result.Matches, KeywordMatch{Keyword: kw, Category: c, MatchType: mt, MatchedTerm: term})
			if mt == MatchNone {
				cs.Missing = append(cs.Missing, kw)
				continue
			}
			credit += s.weights.credit(mt)
			cs.Matched = append(cs.Matched, kw)
			matchedSet[kw] = true
		}

		slices.Sort(cs.Matched)
		slices.Sort(cs.Missing)
		cs.Coverage = fmt.Sprintf("%d/%d", len(cs.Matched), cs.Total)
		if cs.Total > 0 {
			frac := credit / float64(cs.Total)
			cs.Score = int(math.Round(100 * frac))
			weighted += cs.Weight * frac
			if c == CategoryRequired {
				requiredCoverage = float64(len(cs.Matched)) / float64(cs.Total)
			}
		}
		result.Breakdown[c] = cs
	}

	score := clamp(int(math.Round(100*weighted)), 0, 100)
	if requiredCoverage < s.weights.RequiredFloor && score > s.weights.FloorCap {
		score = s.weights.FloorCap
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"Required skill coverage %s is below %d%%; score capped at %d",
			result.Breakdown[CategoryRequired].Coverage, int(s.weights.RequiredFloor*100), s.weights.FloorCap))
	}

	result.Score = score
	result.Risk = riskLevel(score)
	for kw := range matchedSet {
		result.MatchedKeywords = append(result.MatchedKeywords, kw)
	}
	slices.Sort(result.MatchedKeywords)
	result.MissingKeywords = append(result.MissingKeywords, result.Breakdown[CategoryRequired].Missing...)
	if len(result.MissingKeywords) > 0 {
		result.Warnings = append(result.Warnings,
			"Missing critical required skills: "+strings.Join(result.MissingKeywords, ", "))
	}

	return result
}

// dedupeKeywords trims keywords and drops empty and duplicate entries,
// comparing on normalized text.
func dedupeKeywords(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, kw := range in {
		kw = strings.TrimSpace(kw)
		key := parsing.NormalizeText(kw)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, kw)
	}
	return out
}

func riskLevel(score int) string {
	switch {
	case score < 50:
		return RiskHigh
	case score < 70:
		return RiskMedium
	default:
		return RiskLow
	}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
