package main

import (
	"flag"
	"os"

	"github.com/stlalpha/gbbsrecover/internal/report"
)

// cmdAnalyze prints database statistics and the block map.
func cmdAnalyze(args []string) {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	g := addGlobalFlags(fs)
	path := storeArg("analyze", parseArgs(fs, args))
	cfg := g.load()

	res, err := scanStore(path, cfg)
	if err != nil {
		fatalf("%v", err)
	}
	if err := report.WriteAnalysis(os.Stdout, path, res); err != nil {
		fatalf("%v", err)
	}
}
