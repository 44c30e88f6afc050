package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/stlalpha/gbbsrecover/internal/config"
	"github.com/stlalpha/gbbsrecover/internal/export"
	"github.com/stlalpha/gbbsrecover/internal/watch"
)

// cmdWatch re-extracts every class of message from stores in the watched
// directories whenever one changes. Each store gets its own subdirectory
// of the output directory, overwritten on every run.
func cmdWatch(args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	g := addGlobalFlags(fs)
	outputDir := fs.String("output-dir", "", "Directory for extracted messages")
	schedule := fs.String("schedule", "", "Cron spec (with seconds) for periodic resweeps")
	pattern := fs.String("pattern", "", "Store file name glob")
	dirs := parseArgs(fs, args)
	cfg := g.load()

	if len(dirs) == 0 {
		dirs = cfg.Watch.Dirs
	}
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}
	if *schedule != "" {
		cfg.Watch.Schedule = *schedule
	}
	if *pattern != "" {
		cfg.Watch.Pattern = *pattern
	}

	w, err := watch.New(watch.Options{
		Dirs:     dirs,
		Pattern:  cfg.Watch.Pattern,
		Debounce: cfg.Debounce(),
		Schedule: cfg.Watch.Schedule,
	}, func(path string) { extractStore(path, cfg) })
	if err != nil {
		fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := w.Start(ctx); err != nil {
		fatalf("%v", err)
	}
	w.Sweep()

	<-ctx.Done()
	w.Stop()
}

func extractStore(path string, cfg config.Config) {
	res, err := scanStore(path, cfg)
	if err != nil {
		log.Printf("WARN: Skipping %s: %v", path, err)
		return
	}
	dir := filepath.Join(cfg.OutputDir, filepath.Base(path))
	n, err := export.WriteText(dir, res, export.SelectAll(), true)
	if err != nil {
		log.Printf("ERROR: Failed to extract %s: %v", path, err)
		return
	}
	log.Printf("INFO: Extracted %d files from %s into %s", n, path, dir)
}
