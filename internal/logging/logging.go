// Package logging provides debug logging for gbbsrecover. Regular messages
// go through the standard log package with an INFO:/WARN:/ERROR: prefix.
package logging

import (
	"log"
	"os"
)

// DebugEnabled controls whether Debug() produces output.
// Set via -debug flag or DEBUG=1 environment variable.
var DebugEnabled bool

// Debug logs a message only when DebugEnabled is true.
func Debug(format string, args ...any) {
	if DebugEnabled {
		log.Printf("DEBUG: "+format, args...)
	}
}

// EnableFromEnv turns on debug output when DEBUG is set to 1 or true.
func EnableFromEnv() {
	switch os.Getenv("DEBUG") {
	case "1", "true", "TRUE":
		DebugEnabled = true
	}
}
