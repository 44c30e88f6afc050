package user

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

// GBBS Pro USERS file layout. Record N belongs to user ID N; record 0 is
// normally unused.
const (
	RecordSize     = 128
	passwordOffset = 70 // 8 bytes, never read
	phoneOffset    = 78 // 12 bytes, never read
)

// Entry is the displayable part of a USERS record.
type Entry struct {
	ID        int
	LoginName string // "FIRST,LAST", upper case
	FullName  string // Proper-case name used for display
	CityState string
}

// Directory maps GBBS user IDs to their names. Mail databases only store
// the recipient's user ID, so this is what turns mail slots into names.
type Directory struct {
	entries map[int]Entry
}

// LoadDirectory reads a GBBS USERS file. Records whose first two lines are
// not CR-terminated, or whose full name is blank, are skipped. Sysops could
// alter the record layout, so a file that yields no users is not an error.
func LoadDirectory(path string) (*Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("user: failed to read USERS file %s: %w", path, err)
	}
	return ParseDirectory(data), nil
}

// ParseDirectory decodes USERS records from data. A trailing partial
// record is ignored.
func ParseDirectory(data []byte) *Directory {
	d := &Directory{entries: make(map[int]Entry)}
	for id := 0; id < len(data)/RecordSize; id++ {
		if e, ok := parseRecord(id, data[id*RecordSize:(id+1)*RecordSize]); ok {
			d.entries[id] = e
		}
	}
	return d
}

func parseRecord(id int, rec []byte) (Entry, bool) {
	// Only the name lines are of interest; the password and phone fields
	// that follow them are left alone.
	rec = rec[:passwordOffset]

	end1 := bytes.IndexByte(rec, '\r')
	if end1 <= 0 {
		return Entry{}, false
	}
	rest := rec[end1+1:]
	end2 := bytes.IndexByte(rest, '\r')
	if end2 < 0 {
		return Entry{}, false
	}
	full := asciiText(rest[:end2])
	if full == "" {
		return Entry{}, false
	}

	e := Entry{
		ID:        id,
		LoginName: asciiText(rec[:end1]),
		FullName:  full,
	}
	rest = rest[end2+1:]
	if end3 := bytes.IndexByte(rest, '\r'); end3 >= 0 {
		e.CityState = asciiText(rest[:end3])
	}
	return e, true
}

// asciiText trims and decodes 7-bit text, replacing anything else.
func asciiText(b []byte) string {
	var sb strings.Builder
	for _, c := range b {
		if c > 0x7f {
			sb.WriteRune(utf8.RuneError)
			continue
		}
		sb.WriteByte(c)
	}
	return strings.TrimSpace(sb.String())
}

// DisplayName returns the full name recorded for user id.
func (d *Directory) DisplayName(id int) (string, bool) {
	if d == nil {
		return "", false
	}
	e, ok := d.entries[id]
	return e.FullName, ok
}

// Entry returns the USERS record for id.
func (d *Directory) Entry(id int) (Entry, bool) {
	if d == nil {
		return Entry{}, false
	}
	e, ok := d.entries[id]
	return e, ok
}

// Len returns the number of usable records.
func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}
