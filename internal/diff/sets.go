package diff

import (
	"sort"
	"strings"

	"github.com/atul48kumar90/resume-tailor-agent/internal/parsing"
)

// dedupe drops blank items and repeats of an already seen key, keeping the
// first spelling.
func dedupe(items []string) ([]string, map[string]string) {
	out := []string{}
	byKey := make(map[string]string, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		key := parsing.SkillKey(item)
		if key == "" {
			continue
		}
		if _, dup := byKey[key]; dup {
			continue
		}
		byKey[key] = item
		out = append(out, item)
	}
	return out, byKey
}

func diffSet(before, after []string) *SetDiff {
	b, bKeys := dedupe(before)
	a, aKeys := dedupe(after)

	d := &SetDiff{
		Added:       []string{},
		Removed:     []string{},
		Unchanged:   []string{},
		Before:      b,
		After:       a,
		BeforeCount: len(b),
		AfterCount:  len(a),
	}
	for key, item := range bKeys {
		if _, ok := aKeys[key]; ok {
			d.Unchanged = append(d.Unchanged, item)
		} else {
			d.Removed = append(d.Removed, item)
		}
	}
	for key, item := range aKeys {
		if _, ok := bKeys[key]; !ok {
			d.Added = append(d.Added, item)
		}
	}
	sortItems(d.Added)
	sortItems(d.Removed)
	sortItems(d.Unchanged)
	d.Changed = len(d.Added) > 0 || len(d.Removed) > 0
	return d
}

func sortItems(items []string) {
	sort.Slice(items, func(i, j int) bool {
		ki, kj := strings.ToLower(items[i]), strings.ToLower(items[j])
		if ki != kj {
			return ki < kj
		}
		return items[i] < items[j]
	})
}
