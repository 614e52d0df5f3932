// Command splitdiff compares two text files and shows the result side by side.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
	"znkr.io/splitdiff/config"
	"znkr.io/splitdiff/report"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// globalFlags are shared by all commands, they override the values from the config file.
type globalFlags struct {
	config     string
	refine     string
	lang       string
	chunkLines int
}

func newRootCmd() *cobra.Command {
	gf := &globalFlags{}
	rootCmd := &cobra.Command{
		Use:          "splitdiff [command]",
		Short:        "Side-by-side diffs of text files",
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&gf.config, "config", "", "path to a YAML config file")
	pf.StringVar(&gf.refine, "refine", "tokens", "refinement of replaced lines: tokens, ranges or none")
	pf.StringVar(&gf.lang, "lang", "", "language used for syntax highlighting, derived from the file name if empty")
	pf.IntVar(&gf.chunkLines, "chunk-lines", 0, "diff in windows of this many lines, 0 diffs the files at once")

	rootCmd.AddCommand(newDiffCmd(gf))
	rootCmd.AddCommand(newServeCmd(gf))
	rootCmd.AddCommand(newPackCmd(gf))
	return rootCmd
}

func (gf *globalFlags) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Defaults()
	if gf.config != "" {
		var err error
		cfg, err = config.Load(gf.config)
		if err != nil {
			return nil, err
		}
	}

	fs := cmd.Flags()
	if fs.Changed("refine") {
		cfg.Diff.Refine = gf.refine
	}
	if fs.Changed("lang") {
		cfg.Render.Lang = gf.lang
	}
	if fs.Changed("chunk-lines") {
		cfg.Diff.ChunkLines = gf.chunkLines
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadReport(ctx context.Context, cfg *config.Config, basePath, changedPath string) (*report.Report, error) {
	opts := report.Options{
		Strategy:   cfg.Strategy(),
		MaxLines:   cfg.Diff.MaxLines,
		ChunkLines: cfg.Diff.ChunkLines,
		Workers:    cfg.Diff.Workers,
	}
	if cfg.Diff.ChunkLines > 0 {
		opts.Progress = func(done, total int, elapsed time.Duration) {
			log.Printf("Diffed window %d of %d (%v)", done, total, elapsed)
		}
	}
	r, err := report.Load(ctx, basePath, changedPath, opts)
	if err != nil {
		return nil, err
	}
	log.Printf("Diffed %s and %s in %v (%d windows): %v", r.BaseName, r.ChangedName, r.Duration, r.Windows, r.Stats)
	return r, nil
}
