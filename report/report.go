// Package report computes a side-by-side diff of two files and renders it as JSON, text or HTML.
package report

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"znkr.io/splitdiff/sidebyside"
)

// ErrTooLarge is returned when an input exceeds the configured number of lines.
var ErrTooLarge = errors.New("input too large")

// Report is the diff of two texts.
type Report struct {
	BaseName    string
	ChangedName string
	Strategy    sidebyside.Strategy
	Rows        []sidebyside.Row
	Stats       sidebyside.Stats
	Windows     int           // number of windows the inputs were diffed in
	Duration    time.Duration // wall time of the diff
}

// Options controls how a report is computed.
type Options struct {
	Strategy   sidebyside.Strategy
	MaxLines   int // per side, 0 disables the limit
	ChunkLines int // 0 diffs the inputs in one go
	Workers    int
	Progress   func(done, total int, elapsed time.Duration)
}

// New diffs base and changed. The names are only used for display.
func New(ctx context.Context, baseName, base, changedName, changed string, opts Options) (*Report, error) {
	if err := checkSize(baseName, base, opts.MaxLines); err != nil {
		return nil, err
	}
	if err := checkSize(changedName, changed, opts.MaxLines); err != nil {
		return nil, err
	}

	windows := 0
	progress := func(done, total int, elapsed time.Duration) {
		windows = total
		if opts.Progress != nil {
			opts.Progress(done, total, elapsed)
		}
	}
	start := time.Now()
	rows, err := sidebyside.DiffChunked(ctx, base, changed, opts.ChunkLines, opts.Workers,
		sidebyside.WithStrategy(opts.Strategy), sidebyside.WithProgress(progress))
	if err != nil {
		return nil, fmt.Errorf("diffing %s and %s: %v", baseName, changedName, err)
	}
	return &Report{
		BaseName:    baseName,
		ChangedName: changedName,
		Strategy:    opts.Strategy,
		Rows:        rows,
		Stats:       sidebyside.Count(rows),
		Windows:     windows,
		Duration:    time.Since(start),
	}, nil
}

// Load reads and diffs the files at basePath and changedPath.
func Load(ctx context.Context, basePath, changedPath string, opts Options) (*Report, error) {
	base, err := os.ReadFile(basePath)
	if err != nil {
		return nil, fmt.Errorf("reading base: %v", err)
	}
	changed, err := os.ReadFile(changedPath)
	if err != nil {
		return nil, fmt.Errorf("reading changed: %v", err)
	}
	return New(ctx, filepath.Base(basePath), string(base), filepath.Base(changedPath), string(changed), opts)
}

func checkSize(name, text string, maxLines int) error {
	if maxLines <= 0 {
		return nil
	}
	if n := strings.Count(text, "\n") + 1; n > maxLines {
		return fmt.Errorf("%w: %s has %d lines, at most %d are allowed", ErrTooLarge, name, n, maxLines)
	}
	return nil
}
