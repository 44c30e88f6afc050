// Package msgstore recovers messages from GBBS Pro message database files.
//
// A store is a small header, a block allocation bitmap, a directory of
// 4-byte entries and a data area of 128-byte blocks linked through 2-byte
// next pointers. Block payloads use a 7-bit packed text encoding.
package msgstore

import "errors"

// Store layout constants
const (
	HeaderSize    = 8   // MSGINFO header at the start of the file
	BlockSize     = 128 // Bitmap, directory and data blocks are all this size
	PayloadSize   = 126 // Packed text bytes per data block
	DirEntrySize  = 4   // Directory entry; block number lives at +2
	PackedGroup   = 7   // Packed bytes per decoded group
	DecodedGroup  = 8   // Characters produced per packed group
	EmailSentinel = 0x04
)

// Recovery heuristics. These thresholds come from observed real-world
// stores and are kept as-is.
const (
	minPayloadBytes   = 10 // Non-zero payload bytes before an unclaimed block is considered
	minProbeChars     = 10 // Trimmed characters required to follow a self-referencing block
	minEmailMsgLength = 20 // Shorter EOT segments are padding, not mail
	eot               = "\x04"
)

// Sentinel errors
var (
	ErrTruncatedHeader = errors.New("msgstore: file too short for MSGINFO header")
	ErrBadGeometry     = errors.New("msgstore: header geometry exceeds file size")
)
