package sidebyside

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
	"znkr.io/splitdiff/diff"
)

// WithProgress registers a callback that's invoked by [DiffChunked] whenever a window has been
// diffed. Calls are serialized, done counts up to total and elapsed is the time it took to diff the
// window.
func WithProgress(fn func(done, total int, elapsed time.Duration)) Option {
	return func(o *options) {
		o.progress = fn
	}
}

// DiffChunked is like [Diff] but bounds the cost of the line diff for large inputs.
//
// Both texts are cut into windows of chunkLines lines at the same line offsets, window i covering
// lines [i*chunkLines, (i+1)*chunkLines) of each side. The windows are diffed independently by up
// to workers goroutines and the rows are concatenated in order. The result still transforms base
// into changed, but it's only minimal within each window. Inputs that fit into a single window
// are diffed exactly.
func DiffChunked(ctx context.Context, base, changed string, chunkLines, workers int, opts ...Option) ([]Row, error) {
	o := fromOptions(opts)
	x, y := splitPair(base, changed)
	if chunkLines <= 0 || (len(x) <= chunkLines && len(y) <= chunkLines) {
		start := time.Now()
		rows := Pair(diff.Lines(x, y), opts...)
		if o.progress != nil {
			o.progress(1, 1, time.Since(start))
		}
		return rows, nil
	}

	total := (max(len(x), len(y)) + chunkLines - 1) / chunkLines
	results := make([][]Row, total)
	done := make(chan time.Duration, total)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, workers))
	for i := range total {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			wx := window(x, i, chunkLines)
			wy := window(y, i, chunkLines)
			results[i] = Pair(diff.Lines(wx, wy), opts...)
			done <- time.Since(start)
			return nil
		})
	}

	// Progress is reported from this goroutine only, callbacks don't need to be thread safe.
	waitc := make(chan error, 1)
	go func() { waitc <- g.Wait() }()
	n := 0
	for {
		select {
		case elapsed := <-done:
			n++
			if o.progress != nil {
				o.progress(n, total, elapsed)
			}
		case err := <-waitc:
			if err != nil {
				return nil, err
			}
			// Drain notifications of windows that finished right before Wait returned.
			for n < total {
				elapsed := <-done
				n++
				if o.progress != nil {
					o.progress(n, total, elapsed)
				}
			}
			var rows []Row
			for _, r := range results {
				rows = append(rows, r...)
			}
			return rows, nil
		}
	}
}

func window(lines []string, i, size int) []string {
	lo := min(i*size, len(lines))
	hi := min(lo+size, len(lines))
	return lines[lo:hi]
}
