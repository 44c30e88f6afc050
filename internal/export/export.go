// Package export writes recovered messages out of a scan result: plain
// text files, a stdout listing, an mbox mailbox or a JAM message base.
package export

import (
	"errors"
	"fmt"

	"github.com/stlalpha/gbbsrecover/internal/msgstore"
)

var (
	ErrWouldOverwrite = errors.New("export: output files already exist")
	ErrNothingToWrite = errors.New("export: no records selected")
)

// Selection chooses which record classes are exported. The zero value
// selects active records only.
type Selection struct {
	Active   bool
	Deleted  bool
	Orphaned bool
}

// SelectAll selects every class.
func SelectAll() Selection {
	return Selection{Active: true, Deleted: true, Orphaned: true}
}

// Empty reports whether no class is selected.
func (s Selection) Empty() bool {
	return !s.Active && !s.Deleted && !s.Orphaned
}

func (s Selection) resolve() Selection {
	if s.Empty() {
		return Selection{Active: true}
	}
	return s
}

// Classes lists the selected classes in export order.
func (s Selection) Classes() []msgstore.Class {
	s = s.resolve()
	var out []msgstore.Class
	if s.Active {
		out = append(out, msgstore.Active)
	}
	if s.Deleted {
		out = append(out, msgstore.Deleted)
	}
	if s.Orphaned {
		out = append(out, msgstore.Orphaned)
	}
	return out
}

// item is one record as it will be written: its file name, listing
// heading and body.
type item struct {
	rec     msgstore.Record
	name    string
	heading string
	body    string
	mail    bool // Record comes from a mail store
}

// plan lays out the selected records of res in export order. Active and
// deleted records are numbered by position; orphans by block.
func plan(res *msgstore.Result, sel Selection) []item {
	sel = sel.resolve()
	mail := res.Format == msgstore.FormatEmail
	var items []item

	if sel.Active {
		for i, rec := range res.Active {
			it := item{rec: rec, name: fmt.Sprintf("Msg-%04d.txt", i+1), body: rec.Text}
			switch {
			case !mail:
				it.heading = fmt.Sprintf("Message %d (Entry %d, Block %d)", i+1, rec.Slot, rec.Block)
			case rec.UserName != "":
				it.heading = fmt.Sprintf("Message %d (To: %s - User ID %d)", i+1, rec.UserName, rec.UserID)
			default:
				it.heading = fmt.Sprintf("Message %d (To: User ID %d)", i+1, rec.UserID)
			}
			if mail {
				it.body = recipientLine(rec) + "\n" + rec.Text
				it.mail = true
			}
			items = append(items, it)
		}
	}
	if sel.Deleted {
		for i, rec := range res.Deleted {
			items = append(items, item{
				rec:     rec,
				name:    fmt.Sprintf("Deleted-%04d.txt", i+1),
				heading: fmt.Sprintf("Deleted Message %d (Block %d)", i+1, rec.Block),
				body:    rec.Text,
			})
		}
	}
	if sel.Orphaned {
		for _, rec := range res.Orphaned {
			items = append(items, item{
				rec:     rec,
				name:    fmt.Sprintf("Orphan-%04d.txt", rec.Block),
				heading: fmt.Sprintf("Orphaned Block %d", rec.Block),
				body:    rec.Text,
			})
		}
	}
	return items
}

// recipientLine is the "To:" line prepended to mail messages, which carry
// no recipient of their own.
func recipientLine(rec msgstore.Record) string {
	if rec.UserName != "" {
		return fmt.Sprintf("To: %s (#%d)", rec.UserName, rec.UserID)
	}
	return fmt.Sprintf("To: User ID %d (#%d)", rec.UserID, rec.UserID)
}
