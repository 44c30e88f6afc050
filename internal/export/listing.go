package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/stlalpha/gbbsrecover/internal/msgstore"
)

var banner = strings.Repeat("=", 60)

// WriteListing prints the selected records to w under per-class section
// banners, numbered the same way WriteText names its files. A selected
// class with no records still gets its banner.
func WriteListing(w io.Writer, res *msgstore.Result, sel Selection) error {
	bw := bufio.NewWriter(w)
	items := plan(res, sel)
	for i, class := range sel.Classes() {
		if i > 0 {
			fmt.Fprintln(bw)
		}
		fmt.Fprintf(bw, "%s\n%s\n%s\n", banner, sectionTitle(class), banner)
		for _, it := range items {
			if it.rec.Class != class {
				continue
			}
			fmt.Fprintf(bw, "\n%s\n%s\n%s\n%s\n", banner, it.heading, banner, it.body)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("export: failed to write listing: %w", err)
	}
	return nil
}

func sectionTitle(c msgstore.Class) string {
	switch c {
	case msgstore.Deleted:
		return "DELETED MESSAGES"
	case msgstore.Orphaned:
		return "ORPHANED BLOCKS"
	default:
		return "ACTIVE MESSAGES"
	}
}
