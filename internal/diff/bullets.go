package diff

import (
	"sort"

	"github.com/atul48kumar90/resume-tailor-agent/internal/parsing"
)

type bulletCandidate struct {
	bi, ai int
	sim    float64
	lo, hi string
}

// diffBullets compares two bullet lists as multisets. Bullets with the same
// text, ignoring whitespace runs, pair up first as unchanged, in order of
// appearance. Bullets that differ only in case or punctuation pair up next
// as modified with similarity 1. The rest are paired greedily by descending
// token overlap, and a pair at or above threshold is reported as modified.
// Everything unpaired is added or removed. Pairing depends only on content,
// so swapping the inputs swaps Added and Removed.
func diffBullets(before, after []string, threshold float64) *BulletsDiff {
	d := &BulletsDiff{
		Added:       []BulletRef{},
		Removed:     []BulletRef{},
		Modified:    []BulletPair{},
		Unchanged:   []BulletPair{},
		BeforeCount: len(before),
		AfterCount:  len(after),
	}

	usedB := make([]bool, len(before))
	usedA := make([]bool, len(after))

	pairBy := func(key func(string) string, record func(i, j int)) {
		byKey := make(map[string][]int)
		for i, b := range before {
			if !usedB[i] {
				k := key(b)
				byKey[k] = append(byKey[k], i)
			}
		}
		for j, a := range after {
			if usedA[j] {
				continue
			}
			k := key(a)
			queue := byKey[k]
			if len(queue) == 0 {
				continue
			}
			i := queue[0]
			byKey[k] = queue[1:]
			usedB[i], usedA[j] = true, true
			record(i, j)
		}
	}

	pairBy(collapseSpace, func(i, j int) {
		d.Unchanged = append(d.Unchanged, BulletPair{
			BeforeIndex: i, AfterIndex: j,
			Before: before[i], After: after[j],
			Similarity: 1,
		})
	})
	pairBy(parsing.NormalizeText, func(i, j int) {
		d.Modified = append(d.Modified, BulletPair{
			BeforeIndex: i, AfterIndex: j,
			Before: before[i], After: after[j],
			Similarity: 1,
			Segments:   WordDiff(before[i], after[j]),
		})
	})

	tokB := make([][]string, len(before))
	for i, b := range before {
		if !usedB[i] {
			tokB[i] = parsing.TokenList(b)
		}
	}
	var cands []bulletCandidate
	for j, a := range after {
		if usedA[j] {
			continue
		}
		tokA := parsing.TokenList(a)
		for i, b := range before {
			if usedB[i] {
				continue
			}
			sim := parsing.TokenOverlap(tokB[i], tokA)
			if sim < threshold {
				continue
			}
			lo, hi := b, a
			if hi < lo {
				lo, hi = hi, lo
			}
			cands = append(cands, bulletCandidate{bi: i, ai: j, sim: sim, lo: lo, hi: hi})
		}
	}
	sort.Slice(cands, func(x, y int) bool {
		cx, cy := cands[x], cands[y]
		if cx.sim != cy.sim {
			return cx.sim > cy.sim
		}
		if cx.lo != cy.lo {
			return cx.lo < cy.lo
		}
		if cx.hi != cy.hi {
			return cx.hi < cy.hi
		}
		if sx, sy := cx.bi+cx.ai, cy.bi+cy.ai; sx != sy {
			return sx < sy
		}
		return min(cx.bi, cx.ai) < min(cy.bi, cy.ai)
	})
	for _, c := range cands {
		if usedB[c.bi] || usedA[c.ai] {
			continue
		}
		usedB[c.bi], usedA[c.ai] = true, true
		d.Modified = append(d.Modified, BulletPair{
			BeforeIndex: c.bi, AfterIndex: c.ai,
			Before: before[c.bi], After: after[c.ai],
			Similarity: c.sim,
			Segments:   WordDiff(before[c.bi], after[c.ai]),
		})
	}

	for i, b := range before {
		if !usedB[i] {
			d.Removed = append(d.Removed, BulletRef{Index: i, Text: b})
		}
	}
	for j, a := range after {
		if !usedA[j] {
			d.Added = append(d.Added, BulletRef{Index: j, Text: a})
		}
	}

	byBefore := func(ps []BulletPair) {
		sort.Slice(ps, func(x, y int) bool { return ps[x].BeforeIndex < ps[y].BeforeIndex })
	}
	byBefore(d.Unchanged)
	byBefore(d.Modified)

	d.Changed = len(d.Added)+len(d.Removed)+len(d.Modified) > 0
	return d
}
