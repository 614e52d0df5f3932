package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"znkr.io/splitdiff/report"
)

func newDiffCmd(gf *globalFlags) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "diff BASE CHANGED",
		Short: "Writes the side-by-side diff of two files to stdout",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := gf.loadConfig(cmd)
			if err != nil {
				return fmt.Errorf("loading config: %v", err)
			}
			r, err := loadReport(cmd.Context(), cfg, args[0], args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case "text":
				return r.WriteText(out)
			case "json":
				return r.WriteJSON(out)
			case "html":
				return r.WriteHTML(out, report.HTMLOptions{Lang: cfg.Render.Lang, Minify: cfg.Render.Minify})
			}
			return fmt.Errorf("unknown format %q", format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json or html")
	return cmd
}
