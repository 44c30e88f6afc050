package msgstore

import (
	"sort"
	"time"
)

// Class is the recovery classification of a message.
type Class int

const (
	Unclaimed Class = iota
	Active          // Referenced from the directory
	Deleted         // Unreferenced, but starts with a message header
	Orphaned        // Unreferenced fragment with no recognisable header
)

func (c Class) String() string {
	switch c {
	case Active:
		return "active"
	case Deleted:
		return "deleted"
	case Orphaned:
		return "orphaned"
	default:
		return "unclaimed"
	}
}

// Record is one recovered message. Records are produced once by a scan
// and never modified afterwards.
type Record struct {
	Class    Class
	Block    int    // First block of the chain
	Slot     int    // Directory slot, -1 for deleted and orphaned records
	UserID   int    // Mail stores: recipient user ID (same as Slot)
	UserName string // Mail stores: display name from USERS, if known
	Text     string
	Date     time.Time // Zero when the text has no parseable date
	Blocks   []int     // Blocks consumed by this record's chain
}

// HasDate reports whether a header date was recovered.
func (r Record) HasDate() bool { return !r.Date.IsZero() }

// UserLookup maps mail store user IDs to display names.
type UserLookup interface {
	DisplayName(id int) (string, bool)
}

// Options tune a scan. The zero value uses the stock date patterns.
type Options struct {
	Dates *DateParser
}

func (o Options) date(text string) time.Time {
	t, _ := o.Dates.Extract(text)
	return t
}

// Result is the outcome of scanning one store.
type Result struct {
	Format      Format
	Header      Header
	FileSize    int
	TotalBlocks int

	Active   []Record
	Deleted  []Record
	Orphaned []Record

	// ActiveBlocks is every block reachable from an active record's first
	// block, walked independently of claim bookkeeping.
	ActiveBlocks []int
	// DeletedBlocks is every block consumed by a deleted record.
	DeletedBlocks []int
	// AllocatedBlocks is every block consumed by a mail chain.
	AllocatedBlocks []int

	Claims *ClaimSet
}

// HasDates reports whether any active record carries a header date. Stores
// without any usually use a header layout the date patterns don't cover.
func (r *Result) HasDates() bool {
	for _, rec := range r.Active {
		if rec.HasDate() {
			return true
		}
	}
	return false
}

// Records returns the records of the given classes in active, deleted,
// orphaned order.
func (r *Result) Records(classes ...Class) []Record {
	var out []Record
	for _, c := range []Class{Active, Deleted, Orphaned} {
		want := len(classes) == 0
		for _, sel := range classes {
			want = want || sel == c
		}
		if !want {
			continue
		}
		switch c {
		case Active:
			out = append(out, r.Active...)
		case Deleted:
			out = append(out, r.Deleted...)
		case Orphaned:
			out = append(out, r.Orphaned...)
		}
	}
	return out
}

// sortByDate orders records by header date, undated first. Records with
// equal dates keep their scan order.
func sortByDate(recs []Record) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Date.Before(recs[j].Date)
	})
}

func sortedKeys(set map[int]bool) []int {
	keys := make([]int, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
