package sidebyside

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/tools/txtar"
	"znkr.io/splitdiff/diff"
	"znkr.io/splitdiff/refine"
)

// format renders rows in the notation used by the testdata files.
func format(rows []Row) string {
	var sb strings.Builder
	for _, r := range rows {
		switch r.Op {
		case Equal:
			fmt.Fprintf(&sb, "= %q\n", r.Left)
		case Delete:
			fmt.Fprintf(&sb, "- %q\n", r.Left)
		case Insert:
			fmt.Fprintf(&sb, "+ %q\n", r.Right)
		case Replace:
			fmt.Fprintf(&sb, "~ %q %q", r.Left, r.Right)
			if r.Refinement != nil && r.Refinement.Strategy == RangeDetection {
				rg := r.Refinement.Range
				fmt.Fprintf(&sb, " [%d,%d) [%d,%d)", rg.LeftStart, rg.LeftEnd, rg.RightStart, rg.RightEnd)
			}
			sb.WriteString("\n")
			if tokens := r.Tokens(); len(tokens) > 0 {
				sb.WriteString("   ")
				for _, t := range tokens {
					switch t.Op {
					case refine.Equal:
						fmt.Fprintf(&sb, " =%q", t.Left)
					case refine.Delete:
						fmt.Fprintf(&sb, " -%q", t.Left)
					case refine.Insert:
						fmt.Fprintf(&sb, " +%q", t.Right)
					}
				}
				sb.WriteString("\n")
			}
		}
	}
	return sb.String()
}

func TestDiff(t *testing.T) {
	files, err := filepath.Glob("testdata/*.txtar")
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Fatal("no test files found")
	}

	for _, file := range files {
		t.Run(strings.TrimSuffix(filepath.Base(file), ".txtar"), func(t *testing.T) {
			ar, err := txtar.ParseFile(file)
			if err != nil {
				t.Fatal(err)
			}
			sections := make(map[string]string)
			for _, f := range ar.Files {
				sections[f.Name] = string(f.Data)
			}
			base := strings.TrimSuffix(sections["base"], "\n")
			changed := strings.TrimSuffix(sections["changed"], "\n")

			strategies := map[string]Strategy{"tokens": TokenAlignment, "ranges": RangeDetection}
			for name, strategy := range strategies {
				want, ok := sections[name]
				if !ok {
					continue
				}
				got := format(Diff(base, changed, WithStrategy(strategy)))
				if diff := cmp.Diff(want, got); diff != "" {
					t.Errorf("%s: rows are different (-want, +got):\n%s", name, diff)
				}
			}
		})
	}
}

func TestDiff_MixedRefinement(t *testing.T) {
	rows := Diff("First\nSecond\nThird", "First\nSecond Modified\nThird\nFourth")
	want := []Row{
		{Op: Equal, Left: "First", Right: "First"},
		{Op: Replace, Left: "Second", Right: "Second Modified", Refinement: &Refinement{
			Strategy: TokenAlignment,
			Tokens: []refine.Token{
				{Op: refine.Equal, Left: "Second", Right: "Second"},
				{Op: refine.Insert, Right: "Modified"},
			},
			Range: refine.NoRange,
		}},
		{Op: Equal, Left: "Third", Right: "Third"},
		{Op: Insert, Right: "Fourth"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("rows are different (-want, +got):\n%s", diff)
	}
	if got := rows[1].Range(); got != refine.NoRange {
		t.Errorf("Range() of a token aligned row = %v, want NoRange", got)
	}
}

func TestDiff_NoRefinement(t *testing.T) {
	rows := Diff("a", "b", WithStrategy(NoRefinement))
	want := []Row{{Op: Replace, Left: "a", Right: "b"}}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("rows are different (-want, +got):\n%s", diff)
	}
}

func TestPair(t *testing.T) {
	edits := []diff.Edit{
		{Op: diff.Delete, Line: "a"},
		{Op: diff.Delete, Line: "b"},
		{Op: diff.Insert, Line: "c"},
		{Op: diff.Insert, Line: "d"},
		{Op: diff.Match, Line: "e"},
		{Op: diff.Insert, Line: "f"},
		{Op: diff.Delete, Line: "g"},
	}
	got := Pair(edits, WithStrategy(NoRefinement))
	want := []Row{
		{Op: Delete, Left: "a"},
		{Op: Replace, Left: "b", Right: "c"},
		{Op: Insert, Right: "d"},
		{Op: Equal, Left: "e", Right: "e"},
		{Op: Insert, Right: "f"},
		{Op: Delete, Left: "g"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rows are different (-want, +got):\n%s", diff)
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{""}},
		{"a", []string{"a"}},
		{"a\n", []string{"a", ""}},
		{"a\nb", []string{"a", "b"}},
		{"\n\n", []string{"", "", ""}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, Split(tt.in)); diff != "" {
			t.Errorf("Split(%q) is different (-want, +got):\n%s", tt.in, diff)
		}
	}
}

func TestParseStrategy(t *testing.T) {
	for _, s := range []Strategy{TokenAlignment, RangeDetection, NoRefinement} {
		got, ok := ParseStrategy(s.String())
		if !ok || got != s {
			t.Errorf("ParseStrategy(%q) = %v, %v", s.String(), got, ok)
		}
	}
	if _, ok := ParseStrategy("words"); ok {
		t.Errorf("ParseStrategy(\"words\") succeeded")
	}
}

func TestCount(t *testing.T) {
	rows := Diff("a\nb\nc\nd", "a\nx\nd\ne")
	got := Count(rows)
	want := Stats{Equal: 2, Replaced: 1, Deleted: 1, Inserted: 1}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Count is different (-want, +got):\n%s", diff)
	}
	if got.Total() != len(rows) {
		t.Errorf("Total() = %d, want %d", got.Total(), len(rows))
	}
	if !got.Changed() {
		t.Errorf("Changed() = false")
	}
	if s := got.String(); s != "2 equal, 1 deleted, 1 inserted, 1 replaced" {
		t.Errorf("String() = %q", s)
	}
}

// reconstruct returns the left and right texts described by rows.
func reconstruct(rows []Row) (left, right []string) {
	for _, r := range rows {
		switch r.Op {
		case Equal, Replace:
			left = append(left, r.Left)
			right = append(right, r.Right)
		case Delete:
			left = append(left, r.Left)
		case Insert:
			right = append(right, r.Right)
		}
	}
	return left, right
}

func randomText(r *rand.Rand, n int) string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = string(rune('a' + r.IntN(5)))
	}
	return strings.Join(lines, "\n")
}

func TestDiffChunked(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 8))
	for i := range 50 {
		base := randomText(r, 1+r.IntN(60))
		changed := randomText(r, 1+r.IntN(60))
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			var mu sync.Mutex
			var calls []int
			rows, err := DiffChunked(context.Background(), base, changed, 7, 3, WithProgress(func(done, total int, elapsed time.Duration) {
				mu.Lock()
				defer mu.Unlock()
				if elapsed < 0 {
					t.Errorf("window %d took %v", done, elapsed)
				}
				calls = append(calls, done)
			}))
			if err != nil {
				t.Fatal(err)
			}

			left, right := reconstruct(rows)
			if got := strings.Join(left, "\n"); got != base {
				t.Errorf("left side = %q, want %q", got, base)
			}
			if got := strings.Join(right, "\n"); got != changed {
				t.Errorf("right side = %q, want %q", got, changed)
			}
			for j, done := range calls {
				if done != j+1 {
					t.Errorf("progress calls = %v, want increasing by one", calls)
					break
				}
			}
		})
	}
}

func TestDiffChunked_SingleWindowIsExact(t *testing.T) {
	base, changed := "First\nSecond\nThird", "First\nSecond Modified\nThird\nFourth"
	got, err := DiffChunked(context.Background(), base, changed, 100, 4)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Diff(base, changed), got); diff != "" {
		t.Errorf("rows are different (-want, +got):\n%s", diff)
	}
}

func TestDiffChunked_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := DiffChunked(ctx, randomText(rand.New(rand.NewPCG(1, 1)), 100), "a", 10, 2)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("DiffChunked returned %v, want context.Canceled", err)
	}
}
