// Package highlight renders the rows of a side-by-side diff as syntax highlighted HTML.
package highlight

import (
	"fmt"
	"html"
	"html/template"
	"slices"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"znkr.io/splitdiff/refine"
	"znkr.io/splitdiff/sidebyside"
)

var style = map[chroma.TokenType]string{
	chroma.Keyword:           "hl-b",
	chroma.KeywordPseudo:     "",
	chroma.KeywordType:       "",
	chroma.NameClass:         "hl-b",
	chroma.NameEntity:        "hl-b",
	chroma.NameException:     "hl-b",
	chroma.NameNamespace:     "hl-b",
	chroma.NameTag:           "hl-b",
	chroma.NameBuiltin:       "hl-bl",
	chroma.LiteralString:     "hl-i",
	chroma.OperatorWord:      "hl-b",
	chroma.Comment:           "hl-ii",
	chroma.CommentPreproc:    "",
	chroma.GenericEmph:       "hl-i",
	chroma.GenericHeading:    "hl-b",
	chroma.GenericPrompt:     "hl-b",
	chroma.GenericStrong:     "hl-b",
	chroma.GenericSubheading: "hl-b",
}

// CSS classes wrapped around the changed parts of replaced lines.
const (
	DeletedClass  = "hl-del"
	InsertedClass = "hl-ins"
)

type Option func(*highlighter)

// Lang selects the lexer by language name. Unknown languages aren't highlighted.
func Lang(lang string) Option {
	return func(o *highlighter) {
		o.lexer = lexers.Get(lang)
	}
}

// LangFromFilename selects the lexer matching filename.
func LangFromFilename(filename string) Option {
	return func(o *highlighter) {
		o.lexer = lexers.Match(filename)
	}
}

// Line is a single highlighted row. Line numbers are 1-based and -1 for the side that has no line.
type Line struct {
	Op      sidebyside.RowOp
	LeftNo  int
	RightNo int
	Left    template.HTML
	Right   template.HTML
}

// Rows highlights rows. The changed parts of replace rows are wrapped in spans with the classes
// [DeletedClass] and [InsertedClass].
func Rows(rows []sidebyside.Row, opts ...Option) ([]Line, error) {
	hl := fromOptions(opts)

	ret := make([]Line, 0, len(rows))
	s, t := 0, 0
	for _, row := range rows {
		switch row.Op {
		case sidebyside.Equal:
			ln, err := hl.line(row.Left, nil, "")
			if err != nil {
				return nil, err
			}
			ret = append(ret, Line{row.Op, s + 1, t + 1, ln, ln})
			s++
			t++
		case sidebyside.Delete:
			ln, err := hl.line(row.Left, nil, "")
			if err != nil {
				return nil, err
			}
			ret = append(ret, Line{row.Op, s + 1, -1, ln, ""})
			s++
		case sidebyside.Insert:
			ln, err := hl.line(row.Right, nil, "")
			if err != nil {
				return nil, err
			}
			ret = append(ret, Line{row.Op, -1, t + 1, "", ln})
			t++
		case sidebyside.Replace:
			lspans, rspans := Spans(&row)
			left, err := hl.line(row.Left, lspans, DeletedClass)
			if err != nil {
				return nil, err
			}
			right, err := hl.line(row.Right, rspans, InsertedClass)
			if err != nil {
				return nil, err
			}
			ret = append(ret, Line{row.Op, s + 1, t + 1, left, right})
			s++
			t++
		}
	}
	return ret, nil
}

// Span is a half-open byte range within a line.
type Span struct {
	Start, End int
}

// Spans returns the changed byte ranges of the left and the right line of a replace row. Rows
// without a refinement are changed entirely.
func Spans(row *sidebyside.Row) (left, right []Span) {
	if row.Refinement == nil {
		return whole(row.Left), whole(row.Right)
	}
	switch row.Refinement.Strategy {
	case sidebyside.RangeDetection:
		rg := row.Refinement.Range
		return nonEmpty(Span{rg.LeftStart, rg.LeftEnd}), nonEmpty(Span{rg.RightStart, rg.RightEnd})
	case sidebyside.TokenAlignment:
		return wordSpans(row.Left, row.Refinement.Tokens, refine.Delete, func(t refine.Token) string { return t.Left }),
			wordSpans(row.Right, row.Refinement.Tokens, refine.Insert, func(t refine.Token) string { return t.Right })
	}
	return nil, nil
}

func whole(line string) []Span { return nonEmpty(Span{0, len(line)}) }

func nonEmpty(s Span) []Span {
	if s.Start >= s.End {
		return nil
	}
	return []Span{s}
}

// wordSpans locates the words of one side of tokens in line and returns the spans of the words
// with the given op. Spans that are only separated by spaces are merged.
func wordSpans(line string, tokens []refine.Token, op refine.Op, word func(refine.Token) string) []Span {
	var spans []Span
	pos := 0
	for _, t := range tokens {
		if t.Op != refine.Equal && t.Op != op {
			continue
		}
		w := word(t)
		i := strings.Index(line[pos:], w)
		if i < 0 {
			break // can't happen for tokens computed from line
		}
		start := pos + i
		pos = start + len(w)
		if t.Op == refine.Equal {
			continue
		}
		if n := len(spans); n > 0 && strings.Trim(line[spans[n-1].End:start], " ") == "" {
			spans[n-1].End = pos
			continue
		}
		spans = append(spans, Span{start, pos})
	}
	return spans
}

type highlighter struct {
	lexer chroma.Lexer
}

func fromOptions(opts []Option) *highlighter {
	hl := &highlighter{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(hl)
	}

	if hl.lexer == nil {
		hl.lexer = lexers.Fallback
	}
	hl.lexer = chroma.Coalesce(hl.lexer)
	return hl
}

func (hl *highlighter) line(in string, spans []Span, markClass string) (template.HTML, error) {
	tokens, err := hl.tokens(in)
	if err != nil {
		return "", err
	}
	return template.HTML(hl.highlight(in, tokens, spans, markClass)), nil
}

// highlight renders tokens, wrapping the bytes covered by spans in markClass. Spans must be sorted
// and non-overlapping. Token values only determine token boundaries, the text is always taken from
// line. Anything the lexer appends beyond the end of line is dropped.
func (hl *highlighter) highlight(line string, tokens []chroma.Token, spans []Span, markClass string) string {
	spans = slices.DeleteFunc(slices.Clone(spans), func(s Span) bool { return s.Start >= s.End })

	var sb strings.Builder
	pos, si := 0, 0
	for _, token := range tokens {
		size := min(len(token.Value), len(line)-pos)
		for end := pos + size; pos < end; {
			for si < len(spans) && spans[si].End <= pos {
				si++
			}
			n, mark := end-pos, false
			if si < len(spans) {
				if spans[si].Start <= pos {
					n, mark = min(n, spans[si].End-pos), true
				} else {
					n = min(n, spans[si].Start-pos)
				}
			}
			if mark {
				fmt.Fprintf(&sb, "<span class=\"%s\">", markClass)
			}
			writeToken(&sb, token.Type, line[pos:pos+n])
			if mark {
				sb.WriteString("</span>")
			}
			pos += n
		}
	}
	return sb.String()
}

func writeToken(sb *strings.Builder, t chroma.TokenType, value string) {
	class := class(t)
	if class != "" {
		fmt.Fprintf(sb, "<span class=\"%s\">", class)
	}
	sb.WriteString(html.EscapeString(value))
	if class != "" {
		sb.WriteString("</span>")
	}
}

func (hl *highlighter) tokens(in string) ([]chroma.Token, error) {
	// The default options normalize line endings, which would turn a trailing '\r' into '\n'.
	it, err := hl.lexer.Tokenise(&chroma.TokeniseOptions{State: "root"}, in)
	if err != nil {
		return nil, fmt.Errorf("creating iterator: %v", err)
	}
	return it.Tokens(), nil
}

func class(t chroma.TokenType) string {
	s, ok := style[t]
	if ok {
		return s
	}
	s, ok = style[t.SubCategory()]
	if ok {
		return s
	}
	s, ok = style[t.Category()]
	if ok {
		return s
	}
	return ""
}
