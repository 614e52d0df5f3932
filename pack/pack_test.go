package pack

import (
	"archive/tar"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"znkr.io/splitdiff/report"
)

var cmpSorted = cmpopts.SortSlices(func(a, b string) bool { return a < b })

func readArchive(t *testing.T, r io.Reader) map[string]string {
	t.Helper()
	files := make(map[string]string)
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		b, err := io.ReadAll(tr)
		if err != nil {
			t.Fatal(err)
		}
		files[hdr.Name] = string(b)
	}
	return files
}

func TestPack(t *testing.T) {
	r, err := report.New(context.Background(), "a.txt", "keep\nold line", "b.txt", "keep\nnew line", report.Options{})
	if err != nil {
		t.Fatal(err)
	}

	filename := filepath.Join(t.TempDir(), "out.tar")
	if err := Pack(filename, r, "plaintext"); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(filename)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	files := readArchive(t, f)

	var names []string
	for name := range files {
		names = append(names, name)
	}
	wantNames := []string{"./diff.json", "./diff.txt", "./report.html"}
	if diff := cmp.Diff(wantNames, names, cmpSorted); diff != "" {
		t.Errorf("archive entries are different (-want, +got):\n%s", diff)
	}

	var text bytes.Buffer
	if err := r.WriteText(&text); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(text.String(), files["./diff.txt"]); diff != "" {
		t.Errorf("diff.txt is different (-want, +got):\n%s", diff)
	}

	if !json.Valid([]byte(files["./diff.json"])) {
		t.Errorf("diff.json isn't valid json:\n%s", files["./diff.json"])
	}
	if strings.Contains(files["./diff.json"], "\n") {
		t.Errorf("diff.json isn't minified:\n%s", files["./diff.json"])
	}
	if html := files["./report.html"]; !strings.Contains(html, "hl-del") || strings.Contains(html, "\n<tr") {
		t.Errorf("report.html isn't a minified report:\n%s", html)
	}
}
