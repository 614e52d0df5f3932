package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"znkr.io/splitdiff/server"
)

func newServeCmd(gf *globalFlags) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve BASE CHANGED",
		Short: "Serves the side-by-side diff of two files and updates it when they change",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := gf.loadConfig(cmd)
			if err != nil {
				return fmt.Errorf("loading config: %v", err)
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Listen = addr
			}

			var files []string
			for _, arg := range args {
				f, err := filepath.Abs(arg)
				if err != nil {
					return fmt.Errorf("resolving %s: %v", arg, err)
				}
				files = append(files, f)
			}

			r, err := loadReport(cmd.Context(), cfg, files[0], files[1])
			if err != nil {
				return err
			}

			// Start serving.
			srv, err := server.Run(cfg, r)
			if err != nil {
				return err
			}
			defer srv.Shutdown(context.Background())
			log.Printf("Now serving at http://%s, press Ctrl-C to shut down", srv.Addr())

			// Setup file watcher to trigger reloading of the diff should any of the files change.
			// Editors often replace a file when saving it, so the directories are watched instead.
			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("starting watcher: %v", err)
			}
			defer watcher.Close()
			for _, f := range files {
				if dir := filepath.Dir(f); !slices.Contains(watcher.WatchList(), dir) {
					if err := watcher.Add(dir); err != nil {
						return fmt.Errorf("starting watch: %v", err)
					}
				}
			}
			log.Printf("Watching:\n    %v", strings.Join(files, "\n    "))

			// Setup signals to react to Ctrl-C.
			sigint := make(chan os.Signal, 1)
			signal.Notify(sigint, os.Interrupt)
			defer signal.Stop(sigint)

			for {
				select {
				case event := <-watcher.Events:
					if event.Has(fsnotify.Chmod) || !slices.Contains(files, filepath.Clean(event.Name)) {
						continue
					}

					start := time.Now()
					r, err := loadReport(cmd.Context(), cfg, files[0], files[1])
					if err != nil {
						// The file might be in the middle of being replaced, wait for the next event.
						log.Printf("failed to update diff: %v", err)
						continue
					}
					srv.ReplaceReport(r)
					log.Printf("Diff reloaded (%v)", time.Since(start))
				case err := <-watcher.Errors:
					return fmt.Errorf("watching: %v", err)
				case err := <-srv.Error():
					return fmt.Errorf("serving: %v", err)
				case <-sigint:
					fmt.Print("\r") // remove Ctrl-C output characters
					log.Printf("Received Ctrl-C, shutting down")
					return nil
				}
			}
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "address to serve on, overrides server.listen from the config")
	return cmd
}
