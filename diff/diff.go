// Package diff computes a line-by-line edit script between two slices of lines.
package diff

// This is Myers' O(ND) algorithm, see https://blog.jcoglan.com/2017/02/12/the-myers-diff-algorithm-part-1/
// and the follow-up posts for a walkthrough.
//
// Several edit scripts of the same minimal length usually exist. Which one is produced depends on
// the choice of predecessor diagonal: a path comes from k+1 (an insertion) iff V[d-1][k-1] <
// V[d-1][k+1] and from k-1 (a deletion) otherwise. The forward pass and the backtracking share
// this rule in trace.down.

import "slices"

// Op describes an edit operation.
//
//go:generate go run golang.org/x/tools/cmd/stringer -type=Op
type Op int

const (
	Match  Op = iota // A line present in both inputs
	Delete           // A line of x that's missing in y
	Insert           // A line of y that's missing in x
)

// Edit describes a single edit of a diff.
//
//   - For Match, Line is the line shared by both inputs
//   - For Delete, Line is the line of x that's missing in y
//   - For Insert, Line is the line of y that's missing in x
type Edit struct {
	Op   Op
	Line string
}

// Lines returns the edit script that transforms x into y.
//
// Reading the script left to right, every Match and Delete consumes one line of x and every Match
// and Insert produces one line of y. The number of Delete and Insert edits is the minimal edit
// distance between x and y.
func Lines(x, y []string) []Edit {
	var edits []Edit

	// The common prefix is exactly what the d = 0 snake consumes, skipping it up front doesn't change
	// the result.
	if n := longestCommonPrefix(x, y); n > 0 {
		edits = slices.Grow(edits, n)
		for i := range n {
			edits = append(edits, Edit{Match, x[i]})
		}
		x = x[n:]
		y = y[n:]
	}

	switch {
	case len(x) == 0 && len(y) == 0:
		// nothing left to do
	case len(x) == 0:
		edits = slices.Grow(edits, len(y))
		for i := range y {
			edits = append(edits, Edit{Insert, y[i]})
		}
	case len(y) == 0:
		edits = slices.Grow(edits, len(x))
		for i := range x {
			edits = append(edits, Edit{Delete, x[i]})
		}
	default:
		edits = shortestEdits(edits, x, y)
	}

	return edits
}

// Distance returns the number of Delete and Insert edits in edits.
func Distance(edits []Edit) int {
	d := 0
	for _, e := range edits {
		if e.Op != Match {
			d++
		}
	}
	return d
}

func longestCommonPrefix(x, y []string) int {
	n := min(len(x), len(y))
	for i := range n {
		if x[i] != y[i] {
			return i
		}
	}
	return n
}

// shortestEdits appends the edits of a shortest edit script from x to y to edits.
func shortestEdits(edits []Edit, x, y []string) []Edit {
	tr := forward(x, y)

	// Walk back from (len(x), len(y)) to the origin, one depth per step. Edits are collected in
	// reverse and put in order at the end.
	start := len(edits)
	s, t := len(x), len(y)
	for d := tr.depth; d > 0; d-- {
		k := s - t
		insert := tr.down(d, k)

		// Position right after the single insertion or deletion that reached diagonal k at depth d.
		after := tr.at(d-1, k-1) + 1
		if insert {
			after = tr.at(d-1, k+1)
		}
		for s > after {
			s--
			t--
			edits = append(edits, Edit{Match, x[s]})
		}
		if insert {
			t--
			edits = append(edits, Edit{Insert, y[t]})
		} else {
			s--
			edits = append(edits, Edit{Delete, x[s]})
		}
	}
	for s > 0 {
		s--
		edits = append(edits, Edit{Match, x[s]})
	}

	slices.Reverse(edits[start:])
	return edits
}

// trace holds the furthest reaching x coordinate for every depth d and diagonal k visited by
// [forward]. Depth d has d+1 diagonals, so the rows are packed into a single slice with row d
// starting at d(d+1)/2.
type trace struct {
	v     []int
	depth int // depth at which the end point was reached
}

func (tr *trace) at(d, k int) int     { return tr.v[slot(d, k)] }
func (tr *trace) put(d, k int, s int) { tr.v[slot(d, k)] = s }

func slot(d, k int) int {
	j := k
	if k < 0 {
		j = -k - 1
	}
	return d*(d+1)/2 + j
}

// down reports whether the furthest path on diagonal k at depth d continues the path on diagonal
// k+1 with an insertion. Otherwise it continues the path on diagonal k-1 with a deletion.
func (tr *trace) down(d, k int) bool {
	return k == -d || (k != d && tr.at(d-1, k-1) < tr.at(d-1, k+1))
}

func forward(x, y []string) *trace {
	tr := &trace{}
	for d := 0; ; d++ {
		n := len(tr.v) + d + 1
		tr.v = slices.Grow(tr.v, d+1)[:n]
		for k := -d; k <= d; k += 2 {
			var s int
			switch {
			case d == 0:
				s = 0
			case tr.down(d, k):
				s = tr.at(d-1, k+1)
			default:
				s = tr.at(d-1, k-1) + 1
			}
			t := s - k
			for s < len(x) && t < len(y) && x[s] == y[t] {
				s++
				t++
			}
			tr.put(d, k, s)
			if s >= len(x) && t >= len(y) {
				tr.depth = d
				return tr
			}
		}
	}
}
