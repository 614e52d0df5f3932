// Package pack bundles a rendered report into a tar archive.
package pack

import (
	"archive/tar"
	"bytes"
	"fmt"
	"io"
	"mime"
	"os"
	"time"

	"znkr.io/splitdiff/report"
)

type doc struct {
	path     string
	mimeType string
	render   func(w io.Writer) error
}

// Pack writes the HTML, JSON and text renderings of r to a new tar file. HTML and JSON are
// minified.
func Pack(filename string, r *report.Report, lang string) error {
	file, err := os.OpenFile(filename, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("opening file: %v", err)
	}
	defer file.Close()

	if err := Write(file, r, lang); err != nil {
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing file: %v", err)
	}
	return nil
}

// Write is like [Pack] but writes the archive to w.
func Write(w io.Writer, r *report.Report, lang string) error {
	docs := []doc{
		{"report.html", "text/html; charset=utf-8", func(w io.Writer) error {
			return r.WriteHTML(w, report.HTMLOptions{Lang: lang})
		}},
		{"diff.json", "application/json", r.WriteJSON},
		{"diff.txt", "text/plain; charset=utf-8", r.WriteText},
	}

	minifier := report.NewMinifier()
	tw := tar.NewWriter(w)
	modTime := time.Now()

	for _, d := range docs {
		var buf bytes.Buffer
		if err := d.render(&buf); err != nil {
			return fmt.Errorf("rendering %s: %v", d.path, err)
		}
		b := buf.Bytes()

		mime, _, err := mime.ParseMediaType(d.mimeType)
		if err != nil {
			return fmt.Errorf("invalid mime type: %v", err)
		}

		switch mime {
		case "text/html", "application/json":
			b, err = minifier.Bytes(mime, b)
			if err != nil {
				return fmt.Errorf("minification failed for %s: %v", d.path, err)
			}
		}

		hdr := &tar.Header{
			Name:    "./" + d.path,
			Mode:    int64(0644),
			Size:    int64(len(b)),
			ModTime: modTime,
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return fmt.Errorf("writing header: %v", err)
		}
		if _, err := tw.Write(b); err != nil {
			return fmt.Errorf("writing body: %v", err)
		}
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("closing archive: %v", err)
	}
	return nil
}
