package export

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/stlalpha/gbbsrecover/internal/msgstore"
)

const maxListedConflicts = 10

// Conflicts returns the files a text export of sel into dir would
// overwrite.
func Conflicts(dir string, res *msgstore.Result, sel Selection) []string {
	var existing []string
	for _, it := range plan(res, sel) {
		path := filepath.Join(dir, it.name)
		if _, err := os.Stat(path); err == nil {
			existing = append(existing, path)
		}
	}
	return existing
}

// WriteText writes one file per selected record into dir, creating it if
// needed. Unless force is set it writes nothing when any target exists,
// returning ErrWouldOverwrite. Dated records get their file times set to
// the header date. It returns the number of files written.
func WriteText(dir string, res *msgstore.Result, sel Selection, force bool) (int, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("export: failed to create output directory: %w", err)
	}
	if !force {
		if existing := Conflicts(dir, res, sel); len(existing) > 0 {
			return 0, overwriteError(existing)
		}
	}

	written := 0
	for _, it := range plan(res, sel) {
		path := filepath.Join(dir, it.name)
		if err := os.WriteFile(path, []byte(it.body), 0644); err != nil {
			return written, fmt.Errorf("export: failed to write %s: %w", path, err)
		}
		written++
		if it.rec.HasDate() {
			if err := os.Chtimes(path, it.rec.Date, it.rec.Date); err != nil {
				log.Printf("WARN: Failed to set file time on %s: %v", path, err)
			}
		}
	}
	return written, nil
}

func overwriteError(existing []string) error {
	var b strings.Builder
	for i, path := range existing {
		if i == maxListedConflicts {
			fmt.Fprintf(&b, "\n  ... and %d more", len(existing)-maxListedConflicts)
			break
		}
		fmt.Fprintf(&b, "\n  %s", path)
	}
	return fmt.Errorf("%w:%s\nUse --force to overwrite existing files", ErrWouldOverwrite, b.String())
}
