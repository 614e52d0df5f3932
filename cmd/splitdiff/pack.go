package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"znkr.io/splitdiff/pack"
)

func newPackCmd(gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "pack BASE CHANGED OUT.tar",
		Short: "Packs the rendered diff of two files into a .tar file",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := gf.loadConfig(cmd)
			if err != nil {
				return fmt.Errorf("loading config: %v", err)
			}
			r, err := loadReport(cmd.Context(), cfg, args[0], args[1])
			if err != nil {
				return err
			}
			return pack.Pack(args[2], r, cfg.Render.Lang)
		},
	}
}
