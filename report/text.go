package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"znkr.io/splitdiff/refine"
	"znkr.io/splitdiff/sidebyside"
)

// WriteText writes the report as a line prefixed diff. Replaced lines are followed by a line that
// starts with '~' and marks the changes within the line, [-like this-]{+or this+}. The last line
// summarizes the stats.
func (r *Report) WriteText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for i := range r.Rows {
		row := &r.Rows[i]
		switch row.Op {
		case sidebyside.Equal:
			fmt.Fprintf(bw, " %s\n", row.Left)
		case sidebyside.Delete:
			fmt.Fprintf(bw, "-%s\n", row.Left)
		case sidebyside.Insert:
			fmt.Fprintf(bw, "+%s\n", row.Right)
		case sidebyside.Replace:
			fmt.Fprintf(bw, "-%s\n+%s\n", row.Left, row.Right)
			if marked, ok := markChanges(row); ok {
				fmt.Fprintf(bw, "~%s\n", marked)
			}
		}
	}
	fmt.Fprintln(bw, r.Stats)
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing text: %v", err)
	}
	return nil
}

func markChanges(row *sidebyside.Row) (string, bool) {
	if row.Refinement == nil {
		return "", false
	}
	switch row.Refinement.Strategy {
	case sidebyside.TokenAlignment:
		return markTokens(row.Refinement.Tokens), true
	case sidebyside.RangeDetection:
		return markRange(row.Left, row.Right, row.Refinement.Range), true
	}
	return "", false
}

type run struct {
	op    refine.Op
	words []string
}

func markTokens(tokens []refine.Token) string {
	var runs []run
	for _, t := range tokens {
		w := t.Left
		if t.Op == refine.Insert {
			w = t.Right
		}
		if n := len(runs); n > 0 && runs[n-1].op == t.Op {
			runs[n-1].words = append(runs[n-1].words, w)
			continue
		}
		runs = append(runs, run{t.Op, []string{w}})
	}

	var sb strings.Builder
	for i, r := range runs {
		// A deletion directly followed by an insertion is printed without a separator.
		if i > 0 && !(runs[i-1].op == refine.Delete && r.op == refine.Insert) {
			sb.WriteByte(' ')
		}
		text := strings.Join(r.words, " ")
		switch r.op {
		case refine.Equal:
			sb.WriteString(text)
		case refine.Delete:
			sb.WriteString("[-" + text + "-]")
		case refine.Insert:
			sb.WriteString("{+" + text + "+}")
		}
	}
	return sb.String()
}

func markRange(left, right string, rg refine.Range) string {
	var sb strings.Builder
	sb.WriteString(left[:rg.LeftStart])
	if rg.LeftStart < rg.LeftEnd {
		sb.WriteString("[-" + left[rg.LeftStart:rg.LeftEnd] + "-]")
	}
	if rg.RightStart < rg.RightEnd {
		sb.WriteString("{+" + right[rg.RightStart:rg.RightEnd] + "+}")
	}
	sb.WriteString(left[rg.LeftEnd:])
	return sb.String()
}
