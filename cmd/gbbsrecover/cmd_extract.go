package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/stlalpha/gbbsrecover/internal/export"
)

// cmdExtract writes recovered messages as text, either one file per
// message in --output-dir or as a listing on stdout.
func cmdExtract(args []string) {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	g := addGlobalFlags(fs)
	sel := addSelectionFlags(fs)
	outputDir := fs.String("output-dir", "", "Write to directory instead of stdout")
	force := fs.Bool("force", false, "Overwrite existing files")
	path := storeArg("extract", parseArgs(fs, args))
	cfg := g.load()

	selection := sel.selection()
	if selection.Empty() {
		fmt.Fprintf(os.Stderr, "Error: You must specify what to extract\n\n")
		printUsage()
		os.Exit(1)
	}

	res, err := scanStore(path, cfg)
	if err != nil {
		fatalf("%v", err)
	}
	warnIfUndated(path, res)

	if *outputDir == "" {
		if err := export.WriteListing(os.Stdout, res, selection); err != nil {
			fatalf("%v", err)
		}
		return
	}

	n, err := export.WriteText(*outputDir, res, selection, *force || cfg.Force)
	if errors.Is(err, export.ErrWouldOverwrite) {
		fmt.Fprintf(os.Stderr, "Error: The following files already exist:%s\n", trimSentinel(err))
		os.Exit(1)
	}
	if err != nil {
		fatalf("%v", err)
	}
	fmt.Printf("Wrote %d files to %s\n", n, *outputDir)
}

// trimSentinel drops the sentinel's own text from a wrapped
// ErrWouldOverwrite, leaving the file list.
func trimSentinel(err error) string {
	if rest, ok := strings.CutPrefix(err.Error(), export.ErrWouldOverwrite.Error()+":"); ok {
		return rest
	}
	return "\n  " + err.Error()
}

// cmdMbox exports recovered messages to an mbox file.
func cmdMbox(args []string) {
	fs := flag.NewFlagSet("mbox", flag.ExitOnError)
	g := addGlobalFlags(fs)
	sel := addSelectionFlags(fs)
	out := fs.String("out", "", "mbox output file")
	force := fs.Bool("force", false, "Overwrite an existing mbox file")
	path := storeArg("mbox", parseArgs(fs, args))
	cfg := g.load()

	if *out == "" {
		fatalf("mbox requires --out FILE")
	}
	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if *force || cfg.Force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}

	res, err := scanStore(path, cfg)
	if err != nil {
		fatalf("%v", err)
	}
	warnIfUndated(path, res)

	f, err := os.OpenFile(*out, flags, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			fatalf("%s already exists (use --force to overwrite)", *out)
		}
		fatalf("%v", err)
	}
	n, err := export.WriteMbox(f, res, sel.selection())
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		fatalf("%v", err)
	}
	fmt.Printf("Wrote %d messages to %s\n", n, *out)
}

// cmdImport imports recovered messages into a new JAM base.
func cmdImport(args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	g := addGlobalFlags(fs)
	sel := addSelectionFlags(fs)
	base := fs.String("base", "", "JAM base path, without extension")
	area := fs.String("area", "", "Area name recorded on imported messages")
	path := storeArg("import", parseArgs(fs, args))
	cfg := g.load()

	if *base == "" {
		fatalf("import requires --base PATH")
	}
	if *area != "" {
		cfg.JAM.AreaName = *area
	}

	res, err := scanStore(path, cfg)
	if err != nil {
		fatalf("%v", err)
	}
	warnIfUndated(path, res)

	n, err := export.WriteJAM(*base, res, sel.selection(), export.JAMOptions{
		AreaName: cfg.JAM.AreaName,
		PID:      "gbbsrecover " + version,
	})
	if err != nil {
		fatalf("%v", err)
	}
	fmt.Printf("Imported %d messages from %s into %s\n", n, filepath.Base(path), *base)
}
