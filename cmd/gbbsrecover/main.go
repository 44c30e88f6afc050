// Command gbbsrecover recovers messages from GBBS Pro message databases:
// active messages, deleted messages that still sit in free blocks, and
// orphaned fragments.
//
// Usage:
//
//	gbbsrecover <command> <store> [options]
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/stlalpha/gbbsrecover/internal/config"
	"github.com/stlalpha/gbbsrecover/internal/export"
	"github.com/stlalpha/gbbsrecover/internal/logging"
	"github.com/stlalpha/gbbsrecover/internal/msgstore"
	"github.com/stlalpha/gbbsrecover/internal/user"
)

const version = "1.0.1"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	if cmd == "--version" || cmd == "-version" {
		fmt.Printf("gbbsrecover %s - GBBS Pro Message Database Recovery\n", version)
		return
	}
	if cmd == "--help" || cmd == "-h" || cmd == "help" {
		printUsage()
		return
	}

	switch cmd {
	case "analyze":
		cmdAnalyze(os.Args[2:])
	case "extract":
		cmdExtract(os.Args[2:])
	case "mbox":
		cmdMbox(os.Args[2:])
	case "import":
		cmdImport(os.Args[2:])
	case "browse":
		cmdBrowse(os.Args[2:])
	case "watch":
		cmdWatch(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `gbbsrecover %s - GBBS Pro Message Database Recovery

Usage: gbbsrecover <command> <store> [options]

Commands:
  analyze   Show database statistics and block map
  extract   Extract messages to text files or stdout
  mbox      Export messages to an mbox mailbox
  import    Import messages into a new JAM message base
  browse    Browse recovered messages interactively
  watch     Re-extract stores whenever they change

Selection Options (extract, mbox, import):
  --active        Active messages (default for mbox and import)
  --deleted       Deleted messages
  --orphaned      Orphaned blocks
  --all           All of the above

Other Options:
  --output-dir D  Write files to D instead of stdout (extract, watch)
  --users FILE    USERS file, for mail recipient names
  --force         Overwrite existing files
  --out FILE      mbox output file
  --base PATH     JAM base path, without extension
  --schedule SPEC Cron spec (with seconds) for periodic resweeps (watch)
  --config FILE   Config file (default: %s)
  -debug          Debug logging (or DEBUG=1)

Examples:
  gbbsrecover analyze B1
  gbbsrecover extract B1 --all --output-dir recovered/b1
  gbbsrecover extract MAIL --active --users USERS
  gbbsrecover mbox B1 --all --out b1.mbox
  gbbsrecover import B1 --deleted --base data/msgbases/gbbs
  gbbsrecover watch /bbs/msgs --output-dir recovered --schedule "0 */10 * * * *"
`, version, config.DefaultFile)
}

// globalFlags are accepted by every command.
type globalFlags struct {
	config *string
	debug  *bool
	users  *string
}

func addGlobalFlags(fs *flag.FlagSet) *globalFlags {
	return &globalFlags{
		config: fs.String("config", config.DefaultFile, "Config file"),
		debug:  fs.Bool("debug", false, "Enable debug logging"),
		users:  fs.String("users", "", "USERS file for mail recipient names"),
	}
}

// load applies the debug setting and returns the config with flag
// overrides applied.
func (g *globalFlags) load() config.Config {
	logging.EnableFromEnv()
	if *g.debug {
		logging.DebugEnabled = true
	}
	cfg, err := config.Load(*g.config)
	if err != nil {
		fatalf("%v", err)
	}
	if *g.users != "" {
		cfg.UsersFile = *g.users
	}
	return cfg
}

type selectionFlags struct {
	active, deleted, orphaned, all *bool
}

func addSelectionFlags(fs *flag.FlagSet) *selectionFlags {
	return &selectionFlags{
		active:   fs.Bool("active", false, "Active messages"),
		deleted:  fs.Bool("deleted", false, "Deleted messages"),
		orphaned: fs.Bool("orphaned", false, "Orphaned blocks"),
		all:      fs.Bool("all", false, "All message classes"),
	}
}

func (s *selectionFlags) selection() export.Selection {
	if *s.all {
		return export.SelectAll()
	}
	return export.Selection{Active: *s.active, Deleted: *s.deleted, Orphaned: *s.orphaned}
}

// parseArgs parses flags that may appear before or after positional
// arguments, so "extract B1 --all" works like "extract --all B1".
func parseArgs(fs *flag.FlagSet, args []string) []string {
	var positional []string
	for {
		fs.Parse(args)
		args = fs.Args()
		if len(args) == 0 {
			return positional
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

// storeArg returns the single store path a command operates on.
func storeArg(name string, positional []string) string {
	if len(positional) != 1 {
		fmt.Fprintf(os.Stderr, "Error: %s requires filename\n\n", name)
		printUsage()
		os.Exit(1)
	}
	return positional[0]
}

// scanStore opens and scans the store at path with the configured date
// parser and USERS file.
func scanStore(path string, cfg config.Config) (*msgstore.Result, error) {
	store, err := msgstore.Open(path)
	if err != nil {
		return nil, err
	}

	var names msgstore.UserLookup
	if cfg.UsersFile != "" {
		dir, err := user.LoadDirectory(cfg.UsersFile)
		if err != nil || dir.Len() == 0 {
			fmt.Fprintf(os.Stderr, "Warning: Could not read USERS file '%s' or file is empty\n", cfg.UsersFile)
		}
		if err == nil {
			names = dir
		}
	}

	dates, err := cfg.DateParser()
	if err != nil {
		return nil, err
	}
	res := msgstore.Scan(store, names, msgstore.Options{Dates: dates})
	logging.Debug("%s: %s store, %d active, %d deleted, %d orphaned",
		path, res.Format, len(res.Active), len(res.Deleted), len(res.Orphaned))
	return res, nil
}

// warnIfUndated flags stores whose active messages carry no standard date
// header; they usually use a header layout the date patterns don't know.
func warnIfUndated(path string, res *msgstore.Result) {
	if len(res.Active) > 0 && !res.HasDates() {
		fmt.Fprintf(os.Stderr, "Warning: No standard date headers found in '%s'\n", path)
		fmt.Fprintf(os.Stderr, "This file may use a non-standard format. Add a datePatterns entry to the config to recover dates.\n\n")
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
