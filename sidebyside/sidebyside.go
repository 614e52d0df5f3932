// Package sidebyside turns two texts into rows suitable for a side-by-side diff view.
//
// A row is either equal, a lone deletion, a lone insertion, or a replacement of one line by
// another. Replacements carry a refinement that describes where in the line the content changed.
package sidebyside

import (
	"strings"
	"time"

	"znkr.io/splitdiff/diff"
	"znkr.io/splitdiff/refine"
)

// RowOp describes the kind of a row.
type RowOp int

const (
	Equal   RowOp = iota // Left and Right are the same line
	Delete               // Left was removed, Right is empty
	Insert               // Right was added, Left is empty
	Replace              // Left was replaced by Right
)

func (op RowOp) String() string {
	switch op {
	case Equal:
		return "equal"
	case Delete:
		return "delete"
	case Insert:
		return "insert"
	case Replace:
		return "replace"
	}
	return "unknown"
}

// Strategy selects how replaced lines are refined.
type Strategy int

const (
	TokenAlignment Strategy = iota // Align space separated words, see [refine.Tokens]
	RangeDetection                 // Trim common prefix and suffix, see [refine.Ranges]
	NoRefinement                   // Don't refine replaced lines
)

func (s Strategy) String() string {
	switch s {
	case TokenAlignment:
		return "tokens"
	case RangeDetection:
		return "ranges"
	case NoRefinement:
		return "none"
	}
	return "unknown"
}

// ParseStrategy parses the name of a strategy as returned by [Strategy.String].
func ParseStrategy(name string) (Strategy, bool) {
	for _, s := range []Strategy{TokenAlignment, RangeDetection, NoRefinement} {
		if s.String() == name {
			return s, true
		}
	}
	return 0, false
}

// Refinement describes the difference between the two lines of a replace row. Only the field
// selected by Strategy is set.
type Refinement struct {
	Strategy Strategy
	Tokens   []refine.Token
	Range    refine.Range
}

// Row is a single row of a side-by-side diff.
type Row struct {
	Op          RowOp
	Left, Right string
	Refinement  *Refinement // nil unless Op is Replace and a strategy other than NoRefinement is used
}

// Option configures [Diff], [Pair] and [DiffChunked].
type Option func(*options)

type options struct {
	strategy Strategy
	progress func(done, total int, elapsed time.Duration)
}

// WithStrategy selects the strategy used to refine replaced lines. The default is
// TokenAlignment.
func WithStrategy(s Strategy) Option {
	return func(o *options) {
		o.strategy = s
	}
}

func fromOptions(opts []Option) *options {
	o := &options{strategy: TokenAlignment}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(o)
	}
	return o
}

// Split splits text into lines at '\n'. Text with k newlines yields k+1 lines, the empty string
// yields a single empty line.
func Split(text string) []string {
	return strings.Split(text, "\n")
}

// Diff compares base and changed line by line and returns the rows of a side-by-side diff.
//
// If exactly one of the texts is empty, it contributes no lines at all, so that diffing against
// an empty text yields only insertions or only deletions. Two empty texts yield a single equal
// row.
func Diff(base, changed string, opts ...Option) []Row {
	x, y := splitPair(base, changed)
	return Pair(diff.Lines(x, y), opts...)
}

func splitPair(base, changed string) (x, y []string) {
	switch {
	case base == "" && changed != "":
		return nil, Split(changed)
	case base != "" && changed == "":
		return Split(base), nil
	}
	return Split(base), Split(changed)
}

// Pair turns an edit script into rows. A deletion that's immediately followed by an insertion is
// merged into a single replace row. The pairing is purely positional, the content of the two
// lines isn't considered.
func Pair(edits []diff.Edit, opts ...Option) []Row {
	o := fromOptions(opts)
	rows := make([]Row, 0, len(edits))
	for i := 0; i < len(edits); i++ {
		e := edits[i]
		switch e.Op {
		case diff.Match:
			rows = append(rows, Row{Op: Equal, Left: e.Line, Right: e.Line})
		case diff.Delete:
			if i+1 < len(edits) && edits[i+1].Op == diff.Insert {
				right := edits[i+1].Line
				rows = append(rows, Row{
					Op:         Replace,
					Left:       e.Line,
					Right:      right,
					Refinement: o.refine(e.Line, right),
				})
				i++
				continue
			}
			rows = append(rows, Row{Op: Delete, Left: e.Line})
		case diff.Insert:
			rows = append(rows, Row{Op: Insert, Right: e.Line})
		}
	}
	return rows
}

func (o *options) refine(left, right string) *Refinement {
	switch o.strategy {
	case TokenAlignment:
		return &Refinement{
			Strategy: TokenAlignment,
			Tokens:   refine.Tokens(left, right),
			Range:    refine.NoRange,
		}
	case RangeDetection:
		return &Refinement{
			Strategy: RangeDetection,
			Range:    refine.Ranges(left, right),
		}
	}
	return nil
}

// Range returns the refinement range of a row, or [refine.NoRange] if the row doesn't carry one.
func (r *Row) Range() refine.Range {
	if r.Refinement == nil || r.Refinement.Strategy != RangeDetection {
		return refine.NoRange
	}
	return r.Refinement.Range
}

// Tokens returns the aligned words of a row, or nil if the row doesn't carry them.
func (r *Row) Tokens() []refine.Token {
	if r.Refinement == nil || r.Refinement.Strategy != TokenAlignment {
		return nil
	}
	return r.Refinement.Tokens
}
