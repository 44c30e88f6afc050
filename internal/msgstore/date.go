package msgstore

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// dateLayout matches the MM/DD/YY HH:MM:SS AM|PM stamp GBBS writes into
// message headers. Month, day and hour may be one or two digits.
const dateLayout = "1/2/06 3:04:05 PM"

// Sysops could customise the header line, so both stock spellings are
// recognised: "Date : 01/02/20 ..." (or "Date - ...") and "Date ->...".
var defaultDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`Date\s*[:-]\s*(\d{1,2}/\d{1,2}/\d{2})\s+(\d{1,2}:\d{2}:\d{2})\s+([AP]M)`),
	regexp.MustCompile(`Date\s*->\s*(\d{1,2}/\d{1,2}/\d{2})\s+(\d{1,2}:\d{2}:\d{2})\s+([AP]M)`),
}

// DateParser extracts header timestamps from decoded message text.
// The zero value uses the stock patterns and local time.
type DateParser struct {
	Location *time.Location
	extra    []*regexp.Regexp
}

// NewDateParser returns a parser that tries the stock patterns and then
// each extra pattern in order. Extra patterns must have exactly three
// capture groups: date, time and AM/PM.
func NewDateParser(loc *time.Location, extra ...string) (*DateParser, error) {
	p := &DateParser{Location: loc}
	for _, expr := range extra {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("msgstore: bad date pattern %q: %w", expr, err)
		}
		if re.NumSubexp() != 3 {
			return nil, fmt.Errorf("msgstore: date pattern %q needs 3 capture groups, has %d", expr, re.NumSubexp())
		}
		p.extra = append(p.extra, re)
	}
	return p, nil
}

// ExtractDate finds the first parseable header date in text using the
// stock patterns in local time.
func ExtractDate(text string) (time.Time, bool) {
	var p DateParser
	return p.Extract(text)
}

// Extract returns the timestamp of the first pattern whose first match
// parses as a real calendar date. A missing date is not an error.
func (p *DateParser) Extract(text string) (time.Time, bool) {
	loc := time.Local
	if p != nil && p.Location != nil {
		loc = p.Location
	}
	patterns := defaultDatePatterns
	if p != nil && len(p.extra) > 0 {
		patterns = append(append([]*regexp.Regexp{}, defaultDatePatterns...), p.extra...)
	}
	for _, re := range patterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if t, ok := parseStamp(m[1], m[2], m[3], loc); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseStamp(date, clock, meridiem string, loc *time.Location) (time.Time, bool) {
	// time.Parse accepts hour 0 on a 12-hour clock; GBBS never writes it.
	if h, _, _ := strings.Cut(clock, ":"); strings.Trim(h, "0") == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(dateLayout, date+" "+clock+" "+meridiem, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
