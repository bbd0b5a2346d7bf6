package diff

import "cmp"

type opKind int8

const (
	opEqual opKind = iota
	opDelete
	opInsert
)

type op struct {
	kind opKind
	ai   int // index into a (equal, delete)
	bi   int // index into b (equal, insert)
}

// lcsOps returns an edit script turning a into b along a longest common
// subsequence. When two paths are equally long the lexicographically smaller
// element is skipped first, so lcsOps(b, a) is the exact mirror of
// lcsOps(a, b) with deletes and inserts swapped.
func lcsOps[T cmp.Ordered](a, b []T) []op {
	n, m := len(a), len(b)
	width := m + 1
	suffix := make([]int, (n+1)*width)
	at := func(i, j int) int { return suffix[i*width+j] }

	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if a[i] == b[j] {
				suffix[i*width+j] = at(i+1, j+1) + 1
			} else {
				suffix[i*width+j] = max(at(i+1, j), at(i, j+1))
			}
		}
	}

	ops := make([]op, 0, max(n, m))
	i, j := 0, 0
	for i < n && j < m {
		switch {
		case a[i] == b[j]:
			ops = append(ops, op{kind: opEqual, ai: i, bi: j})
			i++
			j++
		case at(i+1, j) > at(i, j+1):
			ops = append(ops, op{kind: opDelete, ai: i, bi: -1})
			i++
		case at(i+1, j) < at(i, j+1):
			ops = append(ops, op{kind: opInsert, ai: -1, bi: j})
			j++
		case cmp.Less(b[j], a[i]):
			ops = append(ops, op{kind: opInsert, ai: -1, bi: j})
			j++
		default:
			ops = append(ops, op{kind: opDelete, ai: i, bi: -1})
			i++
		}
	}
	for ; i < n; i++ {
		ops = append(ops, op{kind: opDelete, ai: i, bi: -1})
	}
	for ; j < m; j++ {
		ops = append(ops, op{kind: opInsert, ai: -1, bi: j})
	}
	return ops
}
