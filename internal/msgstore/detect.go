package msgstore

import (
	"regexp"
	"strconv"
	"strings"
)

// userField matches the "number,name" lines GBBS writes for To and From.
var userField = regexp.MustCompile(`^(\d+),`)

// IsMessageStart reports whether decoded text looks like the first block
// of a message: a subject line, To and From lines in "number,name" form,
// and a Date line. The check is conservative; a miss only means the block
// is treated as a continuation or orphan.
func IsMessageStart(text string) bool {
	lines := strings.Split(text, "\n")
	if len(lines) < 4 {
		return false
	}
	if !userField.MatchString(lines[1]) || !userField.MatchString(lines[2]) {
		return false
	}
	return strings.Contains(lines[3], "Date") &&
		(strings.Contains(lines[3], ":") || strings.Contains(lines[3], "->"))
}

// Envelope holds the addressing lines of a message header.
type Envelope struct {
	Subject string
	ToID    int
	To      string
	FromID  int
	From    string
}

// ParseEnvelope splits the header lines of text that passes
// IsMessageStart. It reports false for anything else.
func ParseEnvelope(text string) (Envelope, bool) {
	if !IsMessageStart(text) {
		return Envelope{}, false
	}
	lines := strings.SplitN(text, "\n", 4)
	env := Envelope{Subject: strings.TrimSpace(lines[0])}
	env.ToID, env.To = splitUserField(lines[1])
	env.FromID, env.From = splitUserField(lines[2])
	return env, true
}

func splitUserField(line string) (int, string) {
	num, name, _ := strings.Cut(line, ",")
	id, _ := strconv.Atoi(num)
	return id, strings.TrimSpace(name)
}
