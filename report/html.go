package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"regexp"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/json"
	"znkr.io/splitdiff/highlight"
	"znkr.io/splitdiff/sidebyside"
)

//go:embed templates/*.html
var templates embed.FS

var reportTemplate = template.Must(template.ParseFS(templates, "templates/report.html"))

// HTMLOptions controls the HTML rendering.
type HTMLOptions struct {
	Lang   string // lexer name, empty picks the lexer from the name of the changed file
	Minify bool
}

type htmlData struct {
	*Report
	Refined bool
	Lines   []highlight.Line
}

// WriteHTML writes the report as a standalone HTML page with a side-by-side table.
func (r *Report) WriteHTML(w io.Writer, opts HTMLOptions) error {
	lang := highlight.LangFromFilename(r.ChangedName)
	if opts.Lang != "" {
		lang = highlight.Lang(opts.Lang)
	}
	lines, err := highlight.Rows(r.Rows, lang)
	if err != nil {
		return fmt.Errorf("highlighting: %v", err)
	}

	var buf bytes.Buffer
	data := htmlData{
		Report:  r,
		Refined: r.Strategy != sidebyside.NoRefinement,
		Lines:   lines,
	}
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return fmt.Errorf("executing template: %v", err)
	}

	b := buf.Bytes()
	if opts.Minify {
		b, err = NewMinifier().Bytes("text/html", b)
		if err != nil {
			return fmt.Errorf("minifying html: %v", err)
		}
	}
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("writing html: %v", err)
	}
	return nil
}

// NewMinifier returns a minifier for the media types produced by a report.
func NewMinifier() *minify.M {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", html.Minify)
	m.AddFuncRegexp(regexp.MustCompile("[/+]json$"), json.Minify)
	return m
}
