package main

import (
	"flag"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/stlalpha/gbbsrecover/internal/browser"
)

// cmdBrowse opens the interactive record browser.
func cmdBrowse(args []string) {
	fs := flag.NewFlagSet("browse", flag.ExitOnError)
	g := addGlobalFlags(fs)
	path := storeArg("browse", parseArgs(fs, args))
	cfg := g.load()

	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		fatalf("browse needs an interactive terminal; use extract instead")
	}

	res, err := scanStore(path, cfg)
	if err != nil {
		fatalf("%v", err)
	}

	p := tea.NewProgram(browser.New(path, res), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fatalf("%v", err)
	}
}
